package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/seatpredictor-backend/internal/model"
	"github.com/stemsi/seatpredictor-backend/internal/response"
	"github.com/stemsi/seatpredictor-backend/internal/spreadsheet"
)

// Importer loads an allotment workbook.
type Importer interface {
	Import(ctx context.Context, r io.Reader) (*model.UploadResult, error)
}

// UploadHandler handles spreadsheet uploads.
type UploadHandler struct {
	importer Importer
	maxBytes int64
}

// NewUploadHandler creates a new UploadHandler accepting bodies up to maxBytes.
func NewUploadHandler(importer Importer, maxBytes int64) *UploadHandler {
	return &UploadHandler{importer: importer, maxBytes: maxBytes}
}

// UploadExcel godoc
// POST /api/upload-excel/
// Replaces the allotment reference table with the rows of an uploaded xlsx.
func (h *UploadHandler) UploadExcel(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes)

	file, _, err := c.Request.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Fail(c, http.StatusRequestEntityTooLarge, response.ErrFileTooLarge)
			return
		}
		response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
		return
	}
	defer file.Close()

	res, err := h.importer.Import(c.Request.Context(), file)
	if err != nil {
		if errors.Is(err, spreadsheet.ErrUnreadableWorkbook) {
			response.FailWithDetail(c, http.StatusBadRequest, response.ErrUnreadableFile, err.Error())
			return
		}
		response.FailWithDetail(c, http.StatusInternalServerError, response.ErrInternal, err.Error())
		return
	}

	response.Success(c, http.StatusCreated, res)
}
