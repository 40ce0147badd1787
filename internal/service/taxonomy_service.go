package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/stemsi/seatpredictor-backend/internal/model"
	"github.com/stemsi/seatpredictor-backend/internal/repository"
	"github.com/stemsi/seatpredictor-backend/internal/validator"
)

// ErrInvalidTaxonomyPayload is returned when the upload body is neither a
// JSON object nor a JSON array.
var ErrInvalidTaxonomyPayload = errors.New("invalid data format, expected a dict or list of dicts")

// GroupCache is the read-through cache in front of the grouped listing.
type GroupCache interface {
	GetGroups(ctx context.Context) ([]model.GroupedCategories, bool, error)
	SetGroups(ctx context.Context, groups []model.GroupedCategories) error
	Invalidate(ctx context.Context) error
}

// TaxonomyService manages the group/category-type dropdown.
type TaxonomyService struct {
	repo  repository.GroupCategoryRepository
	cache GroupCache
	log   zerolog.Logger
}

// NewTaxonomyService creates a new TaxonomyService.
func NewTaxonomyService(repo repository.GroupCategoryRepository, cache GroupCache, log zerolog.Logger) *TaxonomyService {
	return &TaxonomyService{
		repo:  repo,
		cache: cache,
		log:   log.With().Str("component", "taxonomy_service").Logger(),
	}
}

// SplitPayload accepts a single JSON object or a list and returns the
// individual items undecoded.
func SplitPayload(body []byte) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, ErrInvalidTaxonomyPayload
	}

	switch trimmed[0] {
	case '{':
		if !json.Valid(trimmed) {
			return nil, ErrInvalidTaxonomyPayload
		}
		return []json.RawMessage{json.RawMessage(trimmed)}, nil
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, ErrInvalidTaxonomyPayload
		}
		return items, nil
	}
	return nil, ErrInvalidTaxonomyPayload
}

// Upload stores every new pair. Invalid items and concurrent duplicates are
// reported by index; existing pairs are skipped. Only store failures abort
// the whole upload.
func (s *TaxonomyService) Upload(ctx context.Context, items []json.RawMessage) (*model.GroupUploadResult, error) {
	res := &model.GroupUploadResult{
		Created: []model.GroupCategory{},
		Skipped: []model.GroupCategoryInput{},
		Errors:  []model.GroupUploadError{},
	}

	for i, raw := range items {
		var in model.GroupCategoryInput
		if err := json.Unmarshal(raw, &in); err != nil {
			res.Errors = append(res.Errors, model.GroupUploadError{Index: i, Errors: validator.TranslateErrors(err)})
			continue
		}
		in.GroupName = strings.TrimSpace(in.GroupName)
		in.CategoryType = strings.TrimSpace(in.CategoryType)

		if fields := validator.Check(in); fields != nil {
			res.Errors = append(res.Errors, model.GroupUploadError{Index: i, Errors: fields})
			continue
		}

		exists, err := s.repo.Exists(ctx, in.GroupName, in.CategoryType)
		if err != nil {
			return nil, fmt.Errorf("check group category %d: %w", i, err)
		}
		if exists {
			res.Skipped = append(res.Skipped, in)
			continue
		}

		gc := &model.GroupCategory{GroupName: in.GroupName, CategoryType: in.CategoryType}
		if err := s.repo.Create(ctx, gc); err != nil {
			if errors.Is(err, repository.ErrDuplicateGroupCategory) {
				res.Errors = append(res.Errors, model.GroupUploadError{Index: i, Error: err.Error()})
				continue
			}
			return nil, fmt.Errorf("create group category %d: %w", i, err)
		}
		res.Created = append(res.Created, *gc)
	}

	res.CreatedCount = len(res.Created)
	res.SkippedCount = len(res.Skipped)

	if res.CreatedCount > 0 {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.log.Warn().Err(err).Msg("Failed to invalidate taxonomy cache")
		}
	}
	s.log.Info().
		Int("created", res.CreatedCount).
		Int("skipped", res.SkippedCount).
		Int("errors", len(res.Errors)).
		Msg("Group dropdown uploaded")
	return res, nil
}

// Groups returns the dropdown grouped by group name. The cache is
// best-effort: any cache error falls through to the database.
func (s *TaxonomyService) Groups(ctx context.Context) ([]model.GroupedCategories, error) {
	groups, ok, err := s.cache.GetGroups(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("Taxonomy cache read failed")
	}
	if ok {
		return groups, nil
	}

	all, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list group categories: %w", err)
	}
	groups = GroupByName(all)

	if err := s.cache.SetGroups(ctx, groups); err != nil {
		s.log.Warn().Err(err).Msg("Taxonomy cache write failed")
	}
	return groups, nil
}

// GroupByName folds pairs into one entry per group, keeping input order.
func GroupByName(pairs []model.GroupCategory) []model.GroupedCategories {
	out := []model.GroupedCategories{}
	index := make(map[string]int)
	for _, p := range pairs {
		i, ok := index[p.GroupName]
		if !ok {
			i = len(out)
			index[p.GroupName] = i
			out = append(out, model.GroupedCategories{GroupName: p.GroupName, CategoryTypes: []string{}})
		}
		out[i].CategoryTypes = append(out[i].CategoryTypes, p.CategoryType)
	}
	return out
}
