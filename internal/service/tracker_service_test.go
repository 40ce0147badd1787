package service

import (
	"context"
	"testing"

	"github.com/stemsi/seatpredictor-backend/internal/model"
	"github.com/stemsi/seatpredictor-backend/internal/repository"
	"github.com/stemsi/seatpredictor-backend/internal/response"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePageSize(t *testing.T) {
	assert.Equal(t, 100, NormalizePageSize(0))
	assert.Equal(t, 100, NormalizePageSize(-5))
	assert.Equal(t, 25, NormalizePageSize(25))
	assert.Equal(t, 1000, NormalizePageSize(1000))
	assert.Equal(t, 1000, NormalizePageSize(5000))
}

func TestPaginate(t *testing.T) {
	cases := []struct {
		name              string
		total, page, size int
		want              response.Pagination
	}{
		{"empty table has one page", 0, 1, 100,
			response.Pagination{CurrentPage: 1, TotalPages: 1, TotalRecords: 0, PageSize: 100}},
		{"page past the end clamps to last", 250, 9999, 100,
			response.Pagination{CurrentPage: 3, TotalPages: 3, TotalRecords: 250, PageSize: 100, HasPrevious: true}},
		{"page below one clamps to first", 250, -2, 100,
			response.Pagination{CurrentPage: 1, TotalPages: 3, TotalRecords: 250, PageSize: 100, HasNext: true}},
		{"middle page", 250, 2, 100,
			response.Pagination{CurrentPage: 2, TotalPages: 3, TotalRecords: 250, PageSize: 100, HasNext: true, HasPrevious: true}},
		{"exact multiple", 200, 2, 100,
			response.Pagination{CurrentPage: 2, TotalPages: 2, TotalRecords: 200, PageSize: 100, HasPrevious: true}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Paginate(tc.total, tc.page, tc.size))
		})
	}
}

func TestTrackerService_ListClampsPage(t *testing.T) {
	leads := &fakeLeads{}
	for i := 0; i < 250; i++ {
		leads.leads = append(leads.leads, model.TrackerLead{SeqNo: int64(i + 1), Name: "lead"})
	}
	svc := NewTrackerService(leads)

	page, err := svc.List(context.Background(), repository.TrackerFilter{State: "goa"}, 9999, 100)
	require.NoError(t, err)
	assert.Equal(t, 3, page.Pagination.CurrentPage)
	assert.Equal(t, 200, leads.lastOffset)
	assert.Equal(t, 100, leads.lastLimit)
	assert.Len(t, page.Leads, 50)

	require.NotNil(t, page.Filters.State)
	assert.Equal(t, "goa", *page.Filters.State)
	assert.Nil(t, page.Filters.Search)
	assert.Nil(t, page.Filters.AllotmentCategory)
}

func TestTrackerService_ListTotalMatchesPage(t *testing.T) {
	leads := &fakeLeads{insertDuringPage: true}
	for i := 0; i < 3; i++ {
		leads.leads = append(leads.leads, model.TrackerLead{SeqNo: int64(i + 1), Name: "lead"})
	}
	svc := NewTrackerService(leads)

	page, err := svc.List(context.Background(), repository.TrackerFilter{}, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, leads.pageCalls)
	assert.Zero(t, leads.countCalls)
	assert.Equal(t, 3, page.Pagination.TotalRecords)
	assert.Equal(t, 2, page.Pagination.TotalPages)
	assert.Len(t, page.Leads, 2)
	assert.Len(t, leads.leads, 4)
}

func TestTrackerService_ListCapsPageSize(t *testing.T) {
	leads := &fakeLeads{}
	svc := NewTrackerService(leads)

	page, err := svc.List(context.Background(), repository.TrackerFilter{}, 1, 100000)
	require.NoError(t, err)
	assert.Equal(t, 1000, page.Pagination.PageSize)
	assert.Equal(t, 1000, leads.lastLimit)
	assert.Empty(t, page.Leads)
}

func TestTrackerService_Statistics(t *testing.T) {
	leads := &fakeLeads{
		leads: make([]model.TrackerLead, 5),
		counts: map[repository.TrackerColumn][]model.FieldCount{
			repository.TrackerColumnAllotmentCategory: {{Value: ptr("PG"), Count: 4}, {Value: nil, Count: 1}},
			repository.TrackerColumnState:             {{Value: ptr("Goa"), Count: 5}},
		},
	}
	svc := NewTrackerService(leads)

	stats, err := svc.Statistics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, stats.TotalRecords)
	assert.Equal(t, []map[string]any{
		{"allotment_category": "PG", "count": 4},
		{"allotment_category": nil, "count": 1},
	}, stats.ByAllotmentCategory)
	assert.Equal(t, []map[string]any{{"state": "Goa", "count": 5}}, stats.ByState)
	assert.Equal(t, []map[string]any{}, stats.ByCandidateCategory)
}
