package model

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Allotment is one row of the seat-allotment reference table.
type Allotment struct {
	ID                      int64     `json:"id"`
	AllotmentCategory       string    `json:"allotment_category"`
	AllotmentYear           int       `json:"allotment_year"`
	RankNo                  int       `json:"rank_no"`
	AllottedQuota           string    `json:"allotted_quota"`
	AllottedInstitute       string    `json:"allotted_institute"`
	State                   string    `json:"state"`
	QualifyingGroupOrCourse string    `json:"qualifying_group_or_course"`
	Speciality              string    `json:"speciality"`
	AllottedCategory        string    `json:"allotted_category"`
	CandidateCategory       string    `json:"candidate_category"`
	Remarks                 *string   `json:"remarks"`
	IsActive                bool      `json:"is_active"`
	CreatedAt               time.Time `json:"created_at"`
	UpdatedAt               time.Time `json:"updated_at"`
}

// AllotmentResult is the projection returned to clients by the tracker query.
type AllotmentResult struct {
	AllotmentCategory       string  `json:"allotment_category"`
	AllotmentYear           int     `json:"allotment_year"`
	RankNo                  int     `json:"rank_no"`
	AllottedQuota           string  `json:"allotted_quota"`
	AllottedInstitute       string  `json:"allotted_institute"`
	State                   string  `json:"state"`
	QualifyingGroupOrCourse string  `json:"qualifying_group_or_course"`
	Speciality              string  `json:"speciality"`
	AllottedCategory        string  `json:"allotted_category"`
	CandidateCategory       string  `json:"candidate_category"`
	Remarks                 *string `json:"remarks"`
}

// AllotmentQueryRequest is the public tracker payload. Every field is
// optional; a non-blank Name additionally records a lead.
type AllotmentQueryRequest struct {
	Name                    string `json:"name"`
	PhoneNumber             string `json:"phone_number"`
	Email                   string `json:"email"`
	RankNo                  *int   `json:"rank_no"`
	State                   string `json:"state"`
	AllotmentCategory       string `json:"allotment_category"`
	QualifyingGroupOrCourse string `json:"qualifying_group_or_course"`
	Specialization          string `json:"specialization"`
	Category                string `json:"category"`
}

// UnmarshalJSON accepts rank_no as a JSON integer or a numeric string, the
// way form-driven clients send it. A blank string or null leaves it unset.
func (r *AllotmentQueryRequest) UnmarshalJSON(data []byte) error {
	type plain AllotmentQueryRequest
	aux := struct {
		*plain
		RankNo json.RawMessage `json:"rank_no"`
	}{plain: (*plain)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	rank, ok := lenientInt(aux.RankNo)
	if !ok {
		return &json.UnmarshalTypeError{
			Value: string(aux.RankNo),
			Type:  reflect.TypeOf(0),
			Field: "rank_no",
		}
	}
	r.RankNo = rank
	return nil
}

// lenientInt decodes an integral JSON number or a string holding one.
// Trailing ".0" fractions are tolerated; anything else is rejected.
func lenientInt(raw json.RawMessage) (*int, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, true
	}

	text := string(raw)
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &text); err != nil {
			return nil, false
		}
		text = strings.TrimSpace(text)
		if text == "" {
			return nil, true
		}
	}

	if whole, frac, found := strings.Cut(text, "."); found {
		if strings.Trim(frac, "0") != "" {
			return nil, false
		}
		text = whole
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		return nil, false
	}
	return &n, true
}

// AllotmentQueryResponse lists every active allotment matching a query.
type AllotmentQueryResponse struct {
	Count   int               `json:"filtered_results_count"`
	Results []AllotmentResult `json:"filtered_results"`
}

// YearUpdateRequest selects the year to activate for a category. The year is
// decoded leniently because clients send it either as a number or a string.
type YearUpdateRequest struct {
	AllotmentCategory string `json:"allotment_category"`
	AllotmentYear     any    `json:"allotment_year"`
}

// YearActivation reports the outcome of switching a category's active year.
type YearActivation struct {
	Status            string           `json:"status"`
	AllotmentCategory string           `json:"allotment_category"`
	ActivatedYear     int              `json:"activated_year"`
	Counts            ActivationCounts `json:"counts"`
}

// ActivationCounts holds the rows touched by a year activation.
type ActivationCounts struct {
	Deactivated int64 `json:"deactivated_in_category"`
	Activated   int64 `json:"activated"`
}

// UploadResult is returned after a spreadsheet replaces the reference table.
type UploadResult struct {
	Message      string `json:"message"`
	CreatedCount int    `json:"created_count"`
}
