package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"cleanops/internal/model"
)

// ServiceRequestFilter narrows list queries. Zero values mean "no filter".
type ServiceRequestFilter struct {
	Status   model.ServiceStatus
	ClientID uuid.UUID
	From     time.Time
	To       time.Time
}

// ServiceRequestRepository defines service request persistence operations.
type ServiceRequestRepository interface {
	Create(ctx context.Context, req *model.ServiceRequest) error
	Update(ctx context.Context, req *model.ServiceRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ServiceRequest, error)
	List(ctx context.Context, filter ServiceRequestFilter) ([]model.ServiceRequest, error)
}

type serviceRequestRepository struct {
	db *gorm.DB
}

// NewServiceRequestRepository creates a new service request repository.
func NewServiceRequestRepository(db *gorm.DB) ServiceRequestRepository {
	return &serviceRequestRepository{db: db}
}

func (r *serviceRequestRepository) Create(ctx context.Context, req *model.ServiceRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *serviceRequestRepository) Update(ctx context.Context, req *model.ServiceRequest) error {
	return r.db.WithContext(ctx).Save(req).Error
}

func (r *serviceRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.ServiceRequest, error) {
	var req model.ServiceRequest
	if err := r.db.WithContext(ctx).Preload("Location").
		Where("id = ?", id).First(&req).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *serviceRequestRepository) List(ctx context.Context, filter ServiceRequestFilter) ([]model.ServiceRequest, error) {
	q := r.db.WithContext(ctx).Model(&model.ServiceRequest{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.ClientID != uuid.Nil {
		q = q.Where("client_id = ?", filter.ClientID)
	}
	if !filter.From.IsZero() {
		q = q.Where("scheduled_at >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		q = q.Where("scheduled_at < ?", filter.To)
	}

	var reqs []model.ServiceRequest
	if err := q.Order("scheduled_at DESC").Find(&reqs).Error; err != nil {
		return nil, err
	}
	return reqs, nil
}
