package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/seatpredictor-backend/internal/model"
	"github.com/stemsi/seatpredictor-backend/internal/repository"
	"github.com/stemsi/seatpredictor-backend/internal/response"
	"github.com/stemsi/seatpredictor-backend/internal/service"
)

// LeadBrowser lists and summarises tracker leads.
type LeadBrowser interface {
	List(ctx context.Context, f repository.TrackerFilter, page, pageSize int) (*service.LeadPage, error)
	Statistics(ctx context.Context) (*model.LeadStatistics, error)
}

// TrackerHandler serves the admin lead browser.
type TrackerHandler struct {
	leads LeadBrowser
}

// NewTrackerHandler creates a new TrackerHandler.
func NewTrackerHandler(leads LeadBrowser) *TrackerHandler {
	return &TrackerHandler{leads: leads}
}

// ListLeads godoc
// GET /admin/user-data/?page=&page_size=&search=&allotment_category=&state=
// Returns one page of tracker leads in sequence order.
func (h *TrackerHandler) ListLeads(c *gin.Context) {
	page, err := queryInt(c, "page", 1)
	if err != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrInvalidParam, map[string]string{"page": err.Error()})
		return
	}
	pageSize, err := queryInt(c, "page_size", service.DefaultLeadPageSize)
	if err != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrInvalidParam, map[string]string{"page_size": err.Error()})
		return
	}

	filter := repository.TrackerFilter{
		Search:            strings.TrimSpace(c.Query("search")),
		AllotmentCategory: strings.TrimSpace(c.Query("allotment_category")),
		State:             strings.TrimSpace(c.Query("state")),
	}

	res, err := h.leads.List(c.Request.Context(), filter, page, pageSize)
	if err != nil {
		response.FailWithDetail(c, http.StatusInternalServerError, response.ErrInternal, err.Error())
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"status":          "ok",
		"data":            res.Leads,
		"pagination":      res.Pagination,
		"filters_applied": res.Filters,
	})
}

// Stats godoc
// GET /admin/user-data/stats/
// Returns lead counts overall and grouped by category and state.
func (h *TrackerHandler) Stats(c *gin.Context) {
	stats, err := h.leads.Statistics(c.Request.Context())
	if err != nil {
		response.FailWithDetail(c, http.StatusInternalServerError, response.ErrInternal, err.Error())
		return
	}
	response.Success(c, http.StatusOK, gin.H{"status": "ok", "statistics": stats})
}

func queryInt(c *gin.Context, key string, fallback int) (int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, raw)
	}
	return n, nil
}
