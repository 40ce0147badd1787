package service

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/stemsi/seatpredictor-backend/internal/model"
	"github.com/stemsi/seatpredictor-backend/internal/repository"
	"github.com/stemsi/seatpredictor-backend/internal/spreadsheet"
)

// UploadService replaces the allotment reference table from a workbook.
type UploadService struct {
	allotments repository.AllotmentRepository
	log        zerolog.Logger
}

// NewUploadService creates a new UploadService.
func NewUploadService(allotments repository.AllotmentRepository, log zerolog.Logger) *UploadService {
	return &UploadService{
		allotments: allotments,
		log:        log.With().Str("component", "upload_service").Logger(),
	}
}

// Import parses the whole workbook first and only then swaps the table
// contents. A parse failure returns spreadsheet.ErrUnreadableWorkbook and
// leaves the table untouched.
func (s *UploadService) Import(ctx context.Context, r io.Reader) (*model.UploadResult, error) {
	rows, err := spreadsheet.ReadAllotments(r)
	if err != nil {
		return nil, err
	}

	n, err := s.allotments.ReplaceAll(ctx, rows)
	if err != nil {
		return nil, fmt.Errorf("replace allotments: %w", err)
	}

	s.log.Info().Int64("created", n).Int("parsed", len(rows)).Msg("Allotment workbook imported")
	return &model.UploadResult{
		Message:      fmt.Sprintf("%d records uploaded successfully.", n),
		CreatedCount: int(n),
	}, nil
}
