package service

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	apperrors "cleanops/internal/errors"
	"cleanops/internal/model"
)

func reportFixtures() (uuid.UUID, uuid.UUID, []model.ServiceRequest) {
	bigSpender := uuid.New()
	smallSpender := uuid.New()
	reqs := []model.ServiceRequest{
		{ID: uuid.New(), ClientID: bigSpender, Status: model.ServiceCompleted, FinalPrice: decimal.NewFromInt(200)},
		{ID: uuid.New(), ClientID: bigSpender, Status: model.ServiceCompleted, FinalPrice: decimal.NewFromInt(150)},
		{ID: uuid.New(), ClientID: smallSpender, Status: model.ServiceCompleted, FinalPrice: decimal.NewFromInt(50)},
		{ID: uuid.New(), ClientID: smallSpender, Status: model.ServicePending, FinalPrice: decimal.NewFromInt(999)},
		{ID: uuid.New(), ClientID: smallSpender, Status: model.ServiceCancelled, FinalPrice: decimal.NewFromInt(80)},
	}
	return bigSpender, smallSpender, reqs
}

func TestReportService_Summary(t *testing.T) {
	bigSpender, _, reqs := reportFixtures()

	mockRepo := new(MockServiceRequestRepository)
	mockRepo.On("List", mock.Anything, mock.Anything).Return(reqs, nil)

	service := NewReportService(mockRepo)
	from := time.Now().AddDate(0, -1, 0)
	to := time.Now()

	summary, err := service.Summary(context.Background(), adminProfile(), from, to)

	assert.NoError(t, err)
	assert.Equal(t, 5, summary.Total)
	assert.Equal(t, 3, summary.ByStatus[model.ServiceCompleted])
	assert.Equal(t, 1, summary.ByStatus[model.ServicePending])
	assert.Equal(t, 1, summary.ByStatus[model.ServiceCancelled])

	// Only completed services count toward revenue: 200 + 150 + 50.
	assert.True(t, summary.Revenue.Equal(decimal.NewFromInt(400)), "revenue = %s", summary.Revenue)

	assert.Len(t, summary.Clients, 2)
	assert.Equal(t, bigSpender, summary.Clients[0].ClientID)
	assert.Equal(t, 2, summary.Clients[0].Services)
	assert.True(t, summary.Clients[0].Revenue.Equal(decimal.NewFromInt(350)))
}

func TestReportService_SummaryForbiddenForUser(t *testing.T) {
	service := NewReportService(new(MockServiceRequestRepository))

	summary, err := service.Summary(context.Background(), userProfile(), time.Now().AddDate(0, -1, 0), time.Now())

	assert.Equal(t, apperrors.ErrForbidden, err)
	assert.Nil(t, summary)
}

func TestReportService_ExportCSV(t *testing.T) {
	_, _, reqs := reportFixtures()

	mockRepo := new(MockServiceRequestRepository)
	mockRepo.On("List", mock.Anything, mock.Anything).Return(reqs, nil)

	service := NewReportService(mockRepo)
	var buf bytes.Buffer

	err := service.ExportCSV(context.Background(), adminProfile(), time.Now().AddDate(0, -1, 0), time.Now(), &buf)

	assert.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 6) // header + 5 rows
	assert.Equal(t, "id,client_id,type,status,scheduled_at,price,discount_percent,final_price", lines[0])
	assert.Contains(t, lines[1], reqs[0].ID.String())
}

func TestReportService_ExportCSVForbiddenForUser(t *testing.T) {
	service := NewReportService(new(MockServiceRequestRepository))
	var buf bytes.Buffer

	err := service.ExportCSV(context.Background(), userProfile(), time.Now().AddDate(0, -1, 0), time.Now(), &buf)

	assert.Equal(t, apperrors.ErrForbidden, err)
	assert.Zero(t, buf.Len())
}
