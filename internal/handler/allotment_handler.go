package handler

import (
	"context"
	"errors"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/seatpredictor-backend/internal/model"
	"github.com/stemsi/seatpredictor-backend/internal/response"
	"github.com/stemsi/seatpredictor-backend/internal/validator"
)

// AllotmentService is what AllotmentHandler needs from the service layer.
type AllotmentService interface {
	Query(ctx context.Context, req model.AllotmentQueryRequest) (*model.AllotmentQueryResponse, error)
	ActivateYear(ctx context.Context, category string, year int) (*model.YearActivation, error)
}

// AllotmentHandler serves the public tracker query and year activation.
type AllotmentHandler struct {
	allotmentService AllotmentService
}

// NewAllotmentHandler creates a new AllotmentHandler.
func NewAllotmentHandler(allotmentService AllotmentService) *AllotmentHandler {
	return &AllotmentHandler{allotmentService: allotmentService}
}

// Query godoc
// POST /api/allotment_tracker/
// Records a lead for named requests and returns matching active allotments.
func (h *AllotmentHandler) Query(c *gin.Context) {
	// An empty body, chunked or not, means no filters.
	var req model.AllotmentQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.FailWithFields(c, http.StatusUnprocessableEntity, response.ErrInvalidPayload,
			validator.TranslateErrors(err))
		return
	}

	res, err := h.allotmentService.Query(c.Request.Context(), req)
	if err != nil {
		response.FailWithDetail(c, http.StatusInternalServerError, response.ErrInternal, err.Error())
		return
	}
	response.Success(c, http.StatusOK, res)
}

// UpdateYear godoc
// POST /admin/year-update/
// Makes one year the only active year of an allotment category.
func (h *AllotmentHandler) UpdateYear(c *gin.Context) {
	var req model.YearUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FailWithDetail(c, http.StatusBadRequest, response.ErrInvalidPayload, "Invalid JSON body")
		return
	}

	category := strings.TrimSpace(req.AllotmentCategory)
	fields := map[string]string{}
	if category == "" {
		fields["allotment_category"] = "allotment_category is a required field"
	}
	if req.AllotmentYear == nil {
		fields["allotment_year"] = "allotment_year is a required field"
	}
	if len(fields) > 0 {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	year, ok := parseYear(req.AllotmentYear)
	if !ok {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation,
			map[string]string{"allotment_year": "allotment_year must be an integer"})
		return
	}

	res, err := h.allotmentService.ActivateYear(c.Request.Context(), category, year)
	if err != nil {
		response.FailWithDetail(c, http.StatusInternalServerError, response.ErrInternal, err.Error())
		return
	}
	response.Success(c, http.StatusOK, res)
}

// parseYear accepts a JSON number with no fractional part or a numeric
// string. Negative years are rejected.
func parseYear(v any) (int, bool) {
	switch y := v.(type) {
	case float64:
		if y != math.Trunc(y) || y < 0 || y > math.MaxInt32 {
			return 0, false
		}
		return int(y), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(y))
		if err != nil || n < 0 {
			return 0, false
		}
		return n, true
	}
	return 0, false
}
