package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/stemsi/seatpredictor-backend/internal/model"
	"github.com/stemsi/seatpredictor-backend/internal/repository"
	"github.com/stemsi/seatpredictor-backend/internal/validator"
)

// AllIndia is the state value that means "no state restriction".
const AllIndia = "all india"

// AllotmentService answers tracker queries and switches active years.
type AllotmentService struct {
	allotments repository.AllotmentRepository
	leads      repository.TrackerRepository
	log        zerolog.Logger
}

// NewAllotmentService creates a new AllotmentService.
func NewAllotmentService(allotments repository.AllotmentRepository, leads repository.TrackerRepository, log zerolog.Logger) *AllotmentService {
	return &AllotmentService{
		allotments: allotments,
		leads:      leads,
		log:        log.With().Str("component", "allotment_service").Logger(),
	}
}

// Query records a lead for named requests and returns every active
// allotment matching the request filters. Lead failures never fail the query.
func (s *AllotmentService) Query(ctx context.Context, req model.AllotmentQueryRequest) (*model.AllotmentQueryResponse, error) {
	if strings.TrimSpace(req.Name) != "" {
		s.recordLead(ctx, req)
	}

	results, err := s.allotments.Search(ctx, FilterFromRequest(req))
	if err != nil {
		return nil, fmt.Errorf("search allotments: %w", err)
	}
	return &model.AllotmentQueryResponse{Count: len(results), Results: results}, nil
}

func (s *AllotmentService) recordLead(ctx context.Context, req model.AllotmentQueryRequest) {
	lead := &model.TrackerLead{
		Name:                    strings.TrimSpace(req.Name),
		PhoneNumber:             strings.TrimSpace(req.PhoneNumber),
		Email:                   strings.TrimSpace(req.Email),
		RankNo:                  req.RankNo,
		State:                   req.State,
		AllotmentCategory:       req.AllotmentCategory,
		QualifyingGroupOrCourse: req.QualifyingGroupOrCourse,
		Specialization:          req.Specialization,
		Category:                req.Category,
	}

	if fields := validator.Check(lead); fields != nil {
		s.log.Warn().Interface("fields", fields).Str("name", lead.Name).Msg("Tracker lead rejected")
		return
	}
	if err := s.leads.Create(ctx, lead); err != nil {
		s.log.Error().Err(err).Str("name", lead.Name).Msg("Failed to store tracker lead")
		return
	}
	s.log.Debug().Int64("seqno", lead.SeqNo).Msg("Tracker lead stored")
}

// FilterFromRequest maps the public request onto a search predicate.
// Blank strings and the "all india" state leave their column unrestricted.
func FilterFromRequest(req model.AllotmentQueryRequest) repository.AllotmentFilter {
	f := repository.AllotmentFilter{
		MinRank:                 req.RankNo,
		AllotmentCategory:       nonBlank(req.AllotmentCategory),
		QualifyingGroupOrCourse: nonBlank(req.QualifyingGroupOrCourse),
		Speciality:              nonBlank(req.Specialization),
		AllottedCategory:        nonBlank(req.Category),
	}
	if st := nonBlank(req.State); st != nil && !strings.EqualFold(*st, AllIndia) {
		f.State = st
	}
	return f
}

// ActivateYear makes year the single active year of category.
func (s *AllotmentService) ActivateYear(ctx context.Context, category string, year int) (*model.YearActivation, error) {
	off, on, err := s.allotments.ActivateYear(ctx, category, year)
	if err != nil {
		return nil, fmt.Errorf("activate year: %w", err)
	}

	s.log.Info().
		Str("allotment_category", category).
		Int("year", year).
		Int64("deactivated", off).
		Int64("activated", on).
		Msg("Allotment year activated")

	return &model.YearActivation{
		Status:            "ok",
		AllotmentCategory: category,
		ActivatedYear:     year,
		Counts:            model.ActivationCounts{Deactivated: off, Activated: on},
	}, nil
}

func nonBlank(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
