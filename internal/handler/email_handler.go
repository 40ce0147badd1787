package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/seatpredictor-backend/internal/model"
	"github.com/stemsi/seatpredictor-backend/internal/response"
	"github.com/stemsi/seatpredictor-backend/internal/validator"
)

// ResultsMailer mails query results.
type ResultsMailer interface {
	SendResults(ctx context.Context, addr string, results []map[string]any) error
}

// EmailHandler handles the results e-mail endpoint.
type EmailHandler struct {
	mailer ResultsMailer
}

// NewEmailHandler creates a new EmailHandler.
func NewEmailHandler(mailer ResultsMailer) *EmailHandler {
	return &EmailHandler{mailer: mailer}
}

// SendResults godoc
// POST /api/send-results-email/
// Mails the given result rows as an HTML table.
func (h *EmailHandler) SendResults(c *gin.Context) {
	var req model.ResultsEmailRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.mailer.SendResults(c.Request.Context(), req.Email, req.Results); err != nil {
		response.FailWithDetail(c, http.StatusInternalServerError, response.ErrMailDelivery, err.Error())
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Email sent successfully"})
}
