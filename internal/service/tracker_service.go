package service

import (
	"context"
	"fmt"

	"github.com/stemsi/seatpredictor-backend/internal/model"
	"github.com/stemsi/seatpredictor-backend/internal/repository"
	"github.com/stemsi/seatpredictor-backend/internal/response"
)

const (
	DefaultLeadPageSize = 100
	MaxLeadPageSize     = 1000
)

// LeadPage is one page of the admin lead listing.
type LeadPage struct {
	Leads      []model.TrackerLead
	Pagination response.Pagination
	Filters    model.LeadFilters
}

// TrackerService backs the admin lead browser.
type TrackerService struct {
	leads repository.TrackerRepository
}

// NewTrackerService creates a new TrackerService.
func NewTrackerService(leads repository.TrackerRepository) *TrackerService {
	return &TrackerService{leads: leads}
}

// List returns the requested page of leads. Out-of-range pages are clamped
// to the nearest valid one and page sizes are normalised.
func (s *TrackerService) List(ctx context.Context, f repository.TrackerFilter, page, pageSize int) (*LeadPage, error) {
	pageSize = NormalizePageSize(pageSize)

	var p response.Pagination
	_, leads, err := s.leads.Page(ctx, f, pageSize, func(total int) int {
		p = Paginate(total, page, pageSize)
		return (p.CurrentPage - 1) * pageSize
	})
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}

	return &LeadPage{
		Leads:      leads,
		Pagination: p,
		Filters: model.LeadFilters{
			Search:            nonEmpty(f.Search),
			AllotmentCategory: nonEmpty(f.AllotmentCategory),
			State:             nonEmpty(f.State),
		},
	}, nil
}

// Statistics counts leads overall and per allotment category, state and
// candidate category.
func (s *TrackerService) Statistics(ctx context.Context) (*model.LeadStatistics, error) {
	total, err := s.leads.Count(ctx, repository.TrackerFilter{})
	if err != nil {
		return nil, fmt.Errorf("count leads: %w", err)
	}

	stats := &model.LeadStatistics{TotalRecords: total}
	groups := []struct {
		column repository.TrackerColumn
		dst    *[]map[string]any
	}{
		{repository.TrackerColumnAllotmentCategory, &stats.ByAllotmentCategory},
		{repository.TrackerColumnState, &stats.ByState},
		{repository.TrackerColumnCategory, &stats.ByCandidateCategory},
	}
	for _, g := range groups {
		counts, err := s.leads.CountBy(ctx, g.column)
		if err != nil {
			return nil, fmt.Errorf("count leads by %s: %w", g.column, err)
		}
		*g.dst = bucketize(string(g.column), counts)
	}
	return stats, nil
}

// NormalizePageSize falls back to the default for sizes below one and caps
// the rest.
func NormalizePageSize(size int) int {
	if size < 1 {
		return DefaultLeadPageSize
	}
	return min(size, MaxLeadPageSize)
}

// Paginate computes page metadata with page clamped to [1, total_pages].
// An empty result still has one page.
func Paginate(total, page, pageSize int) response.Pagination {
	pages := max((total+pageSize-1)/pageSize, 1)
	page = min(max(page, 1), pages)
	return response.Pagination{
		CurrentPage:  page,
		TotalPages:   pages,
		TotalRecords: total,
		PageSize:     pageSize,
		HasNext:      page < pages,
		HasPrevious:  page > 1,
	}
}

func bucketize(column string, counts []model.FieldCount) []map[string]any {
	out := make([]map[string]any, 0, len(counts))
	for _, fc := range counts {
		var v any
		if fc.Value != nil {
			v = *fc.Value
		}
		out = append(out, map[string]any{column: v, "count": fc.Count})
	}
	return out
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
