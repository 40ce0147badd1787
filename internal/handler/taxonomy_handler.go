package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/seatpredictor-backend/internal/model"
	"github.com/stemsi/seatpredictor-backend/internal/response"
	"github.com/stemsi/seatpredictor-backend/internal/service"
)

// TaxonomyService manages the group/category-type dropdown.
type TaxonomyService interface {
	Upload(ctx context.Context, items []json.RawMessage) (*model.GroupUploadResult, error)
	Groups(ctx context.Context) ([]model.GroupedCategories, error)
}

// TaxonomyHandler handles the dropdown endpoints.
type TaxonomyHandler struct {
	taxonomyService TaxonomyService
}

// NewTaxonomyHandler creates a new TaxonomyHandler.
func NewTaxonomyHandler(taxonomyService TaxonomyService) *TaxonomyHandler {
	return &TaxonomyHandler{taxonomyService: taxonomyService}
}

// UploadGroups godoc
// POST /api/admin/group-dropdown/
// Accepts one {group_name, category_type} object or a list of them.
// Returns 201 when at least one pair was created, 200 otherwise.
func (h *TaxonomyHandler) UploadGroups(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}

	items, err := service.SplitPayload(body)
	if err != nil {
		response.FailWithDetail(c, http.StatusBadRequest, response.ErrInvalidPayload, err.Error())
		return
	}

	res, err := h.taxonomyService.Upload(c.Request.Context(), items)
	if err != nil {
		response.FailWithDetail(c, http.StatusInternalServerError, response.ErrInternal, err.Error())
		return
	}

	status := http.StatusOK
	if res.CreatedCount > 0 {
		status = http.StatusCreated
	}
	response.Success(c, status, res)
}

// ListGroups godoc
// GET /api/group-categories/
// Returns category types grouped by group name.
func (h *TaxonomyHandler) ListGroups(c *gin.Context) {
	groups, err := h.taxonomyService.Groups(c.Request.Context())
	if err != nil {
		response.FailWithDetail(c, http.StatusInternalServerError, response.ErrInternal, err.Error())
		return
	}
	response.Success(c, http.StatusOK, groups)
}
