package router

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/seatpredictor-backend/internal/config"
	"github.com/stemsi/seatpredictor-backend/internal/handler"
	"github.com/stemsi/seatpredictor-backend/internal/middleware"
	"github.com/stemsi/seatpredictor-backend/internal/model"
	"github.com/stemsi/seatpredictor-backend/internal/repository"
	"github.com/stemsi/seatpredictor-backend/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopTokens struct{}

func (nopTokens) Register(context.Context, string, int, time.Duration) error {
	return nil
}

func (nopTokens) Active(context.Context, string) (bool, error) {
	return true, nil
}

func (nopTokens) Revoke(context.Context, string) error {
	return nil
}

type nopAdmins struct{}

func (nopAdmins) Authenticate(context.Context, string, string) (*model.Admin, error) {
	return nil, service.ErrInvalidCredentials
}

type nopAllotments struct{}

func (nopAllotments) Query(context.Context, model.AllotmentQueryRequest) (*model.AllotmentQueryResponse, error) {
	return &model.AllotmentQueryResponse{Results: []model.AllotmentResult{}}, nil
}

func (nopAllotments) ActivateYear(_ context.Context, c string, y int) (*model.YearActivation, error) {
	return &model.YearActivation{Status: "ok", AllotmentCategory: c, ActivatedYear: y}, nil
}

type nopLeads struct{}

func (nopLeads) List(context.Context, repository.TrackerFilter, int, int) (*service.LeadPage, error) {
	return &service.LeadPage{Leads: []model.TrackerLead{}, Pagination: service.Paginate(0, 1, 100)}, nil
}

func (nopLeads) Statistics(context.Context) (*model.LeadStatistics, error) {
	return &model.LeadStatistics{}, nil
}

type nopTaxonomy struct{}

func (nopTaxonomy) Upload(context.Context, []json.RawMessage) (*model.GroupUploadResult, error) {
	return &model.GroupUploadResult{}, nil
}

func (nopTaxonomy) Groups(context.Context) ([]model.GroupedCategories, error) {
	return []model.GroupedCategories{}, nil
}

func testRouter(t *testing.T) (http.Handler, *service.AuthService) {
	t.Helper()
	return testRouterWithLimit(t, 0)
}

func testRouterWithLimit(t *testing.T, ratePerMinute int) (http.Handler, *service.AuthService) {
	t.Helper()
	cfg := &config.Config{
		GinMode:          "test",
		JWTSecret:        "router-test",
		JWTAccessExpiry:  time.Minute,
		JWTRefreshExpiry: time.Hour,
		TaxonomyCacheTTL: 5 * time.Minute,
	}
	auth := service.NewAuthService(cfg, nopTokens{})

	stop := make(chan struct{})
	t.Cleanup(func() { close(stop) })

	handlers := &Handlers{
		Allotment: handler.NewAllotmentHandler(nopAllotments{}),
		Upload:    handler.NewUploadHandler(nil, 1<<20),
		Taxonomy:  handler.NewTaxonomyHandler(nopTaxonomy{}),
		Tracker:   handler.NewTrackerHandler(nopLeads{}),
		Auth:      handler.NewAuthHandler(nil, nil),
		Email:     handler.NewEmailHandler(nil),
		System:    handler.NewSystemHandler(nil, zerolog.Nop()),
	}
	guards := Guards{Auth: auth, Admins: nopAdmins{}, Limiter: middleware.NewRateLimiter(ratePerMinute, time.Minute, stop)}
	return SetupRouter(guards, handlers, cfg), auth
}

func request(h http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestRouter_PublicRoutes(t *testing.T) {
	h, _ := testRouter(t)

	assert.Equal(t, http.StatusOK, request(h, http.MethodGet, "/health", "", "").Code)
	assert.Equal(t, http.StatusOK, request(h, http.MethodPost, "/api/allotment_tracker/", "{}", "").Code)
	assert.Equal(t, http.StatusOK, request(h, http.MethodPost, "/api/allotment_tracker", "{}", "").Code)

	w := request(h, http.MethodGet, "/api/group-categories/", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "public, max-age=300", w.Header().Get("Cache-Control"))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	assert.Equal(t, http.StatusNotFound, request(h, http.MethodGet, "/nope", "", "").Code)
}

func TestRouter_StaffGuards(t *testing.T) {
	h, auth := testRouter(t)

	staff, err := auth.IssueTokens(context.Background(), &model.Admin{ID: 1, IsStaff: true})
	require.NoError(t, err)
	plain, err := auth.IssueTokens(context.Background(), &model.Admin{ID: 2})
	require.NoError(t, err)

	body := `{"allotment_category":"PG","allotment_year":2023}`
	assert.Equal(t, http.StatusUnauthorized, request(h, http.MethodPost, "/admin/year-update/", body, "").Code)
	assert.Equal(t, http.StatusForbidden, request(h, http.MethodPost, "/admin/year-update/", body, plain.Access).Code)
	assert.Equal(t, http.StatusOK, request(h, http.MethodPost, "/admin/year-update/", body, staff.Access).Code)

	assert.Equal(t, http.StatusUnauthorized, request(h, http.MethodPost, "/api/upload-excel/", "", "").Code)
	assert.Equal(t, http.StatusUnauthorized, request(h, http.MethodPost, "/api/admin/group-dropdown/", "{}", "").Code)
	assert.Equal(t, http.StatusOK, request(h, http.MethodPost, "/api/admin/group-dropdown/", "{}", staff.Access).Code)

	assert.Equal(t, http.StatusUnauthorized, request(h, http.MethodGet, "/admin/user-data/", "", plain.Access).Code)
	assert.Equal(t, http.StatusOK, request(h, http.MethodGet, "/admin/user-data/", "", staff.Access).Code)
	assert.Equal(t, http.StatusOK, request(h, http.MethodGet, "/admin/user-data", "", staff.Access).Code)
	assert.Equal(t, http.StatusOK, request(h, http.MethodGet, "/admin/user-data/stats/", "", staff.Access).Code)
}

func TestRouter_LeadBrowserRateLimited(t *testing.T) {
	h, _ := testRouterWithLimit(t, 2)

	basic := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/admin/user-data/", nil)
		req.SetBasicAuth("staff", "guess")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusUnauthorized, basic().Code)
	assert.Equal(t, http.StatusUnauthorized, basic().Code)
	assert.Equal(t, http.StatusTooManyRequests, basic().Code)
}
