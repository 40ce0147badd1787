package model

import "time"

// GroupCategory pairs a dropdown group with one allowed category type.
type GroupCategory struct {
	ID           int       `json:"id"`
	GroupName    string    `json:"group_name"`
	CategoryType string    `json:"category_type"`
	CreatedAt    time.Time `json:"-"`
}

// GroupCategoryInput is a single item of the dropdown upload payload.
type GroupCategoryInput struct {
	GroupName    string `json:"group_name" validate:"required,max=255"`
	CategoryType string `json:"category_type" validate:"required,max=255"`
}

// GroupedCategories is the client-facing dropdown shape.
type GroupedCategories struct {
	GroupName     string   `json:"group_name"`
	CategoryTypes []string `json:"category_type"`
}

// GroupUploadError reports a rejected item by its position in the payload.
type GroupUploadError struct {
	Index  int               `json:"index"`
	Errors map[string]string `json:"errors,omitempty"`
	Error  string            `json:"error,omitempty"`
}

// GroupUploadResult is the per-item breakdown of a dropdown upload.
type GroupUploadResult struct {
	CreatedCount int                  `json:"created_count"`
	Created      []GroupCategory      `json:"created"`
	SkippedCount int                  `json:"skipped_count"`
	Skipped      []GroupCategoryInput `json:"skipped"`
	Errors       []GroupUploadError   `json:"errors"`
}
