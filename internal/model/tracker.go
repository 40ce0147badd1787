package model

import "time"

// TrackerLead records one named query made against the allotment tracker.
type TrackerLead struct {
	SeqNo                   int64     `json:"seqno"`
	Name                    string    `json:"name" validate:"required,max=255"`
	PhoneNumber             string    `json:"phone_number" validate:"omitempty,max=20"`
	Email                   string    `json:"email" validate:"omitempty,email,max=254"`
	RankNo                  *int      `json:"rank_no"`
	State                   string    `json:"state" validate:"omitempty,max=100"`
	AllotmentCategory       string    `json:"allotment_category" validate:"omitempty,max=100"`
	QualifyingGroupOrCourse string    `json:"qualifying_group_or_course" validate:"omitempty,max=200"`
	Specialization          string    `json:"specialization" validate:"omitempty,max=200"`
	Category                string    `json:"category" validate:"omitempty,max=100"`
	CreatedAt               time.Time `json:"created_at"`
	UpdatedAt               time.Time `json:"updated_at"`
}

// LeadFilters echoes the filters applied to a lead listing; unset ones are null.
type LeadFilters struct {
	Search            *string `json:"search"`
	AllotmentCategory *string `json:"allotment_category"`
	State             *string `json:"state"`
}

// LeadStatistics summarises the tracker table for the admin dashboard.
type LeadStatistics struct {
	TotalRecords        int              `json:"total_records"`
	ByAllotmentCategory []map[string]any `json:"by_allotment_category"`
	ByState             []map[string]any `json:"by_state"`
	ByCandidateCategory []map[string]any `json:"by_category"`
}

// FieldCount is one bucket of a grouped count over a tracker column.
type FieldCount struct {
	Value *string
	Count int
}
