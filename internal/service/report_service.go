package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	apperrors "cleanops/internal/errors"
	"cleanops/internal/model"
	"cleanops/internal/repository"
	"cleanops/internal/session"
)

// ClientTotal aggregates one client's services in a report period.
type ClientTotal struct {
	ClientID uuid.UUID       `json:"client_id"`
	Services int             `json:"services"`
	Revenue  decimal.Decimal `json:"revenue"`
}

// ReportSummary aggregates service requests over a period. Revenue counts
// completed services at their final (discounted) price.
type ReportSummary struct {
	From     time.Time                   `json:"from"`
	To       time.Time                   `json:"to"`
	Total    int                         `json:"total"`
	ByStatus map[model.ServiceStatus]int `json:"by_status"`
	Revenue  decimal.Decimal             `json:"revenue"`
	Clients  []ClientTotal               `json:"clients"`
}

// ReportService produces aggregated views over service requests; admin only.
type ReportService interface {
	Summary(ctx context.Context, actor *model.Profile, from, to time.Time) (*ReportSummary, error)
	ExportCSV(ctx context.Context, actor *model.Profile, from, to time.Time, w io.Writer) error
}

type reportService struct {
	requests repository.ServiceRequestRepository
}

// NewReportService creates a new report service.
func NewReportService(requests repository.ServiceRequestRepository) ReportService {
	return &reportService{requests: requests}
}

func (s *reportService) Summary(ctx context.Context, actor *model.Profile, from, to time.Time) (*ReportSummary, error) {
	reqs, err := s.fetch(ctx, actor, from, to)
	if err != nil {
		return nil, err
	}

	summary := &ReportSummary{
		From:     from,
		To:       to,
		Total:    len(reqs),
		ByStatus: map[model.ServiceStatus]int{},
		Revenue:  decimal.Zero,
	}

	perClient := map[uuid.UUID]*ClientTotal{}
	for _, req := range reqs {
		summary.ByStatus[req.Status]++
		if req.Status != model.ServiceCompleted {
			continue
		}
		summary.Revenue = summary.Revenue.Add(req.FinalPrice)
		ct, ok := perClient[req.ClientID]
		if !ok {
			ct = &ClientTotal{ClientID: req.ClientID, Revenue: decimal.Zero}
			perClient[req.ClientID] = ct
		}
		ct.Services++
		ct.Revenue = ct.Revenue.Add(req.FinalPrice)
	}

	for _, ct := range perClient {
		summary.Clients = append(summary.Clients, *ct)
	}
	sort.Slice(summary.Clients, func(i, j int) bool {
		return summary.Clients[i].Revenue.GreaterThan(summary.Clients[j].Revenue)
	})

	return summary, nil
}

// ExportCSV writes one row per service request in the period.
func (s *reportService) ExportCSV(ctx context.Context, actor *model.Profile, from, to time.Time, w io.Writer) error {
	reqs, err := s.fetch(ctx, actor, from, to)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	header := []string{"id", "client_id", "type", "status", "scheduled_at", "price", "discount_percent", "final_price"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, req := range reqs {
		row := []string{
			req.ID.String(),
			req.ClientID.String(),
			req.Type,
			string(req.Status),
			req.ScheduledAt.Format(time.RFC3339),
			req.Price.StringFixed(2),
			req.DiscountPercent.StringFixed(2),
			req.FinalPrice.StringFixed(2),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func (s *reportService) fetch(ctx context.Context, actor *model.Profile, from, to time.Time) ([]model.ServiceRequest, error) {
	if !session.HasPermission(actor.Role, session.CanViewReports) {
		return nil, apperrors.ErrForbidden
	}
	return s.requests.List(ctx, repository.ServiceRequestFilter{From: from, To: to})
}
