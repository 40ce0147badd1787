// Package spreadsheet turns allotment workbooks into reference rows.
package spreadsheet

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/stemsi/seatpredictor-backend/internal/model"
	"github.com/xuri/excelize/v2"
)

// ErrUnreadableWorkbook wraps every failure to open or read a workbook.
var ErrUnreadableWorkbook = errors.New("unreadable workbook")

// Header names of the upload template. Matching is exact and case-sensitive.
const (
	ColAllotmentCategory       = "ALLOTMENT_CATEGORY"
	ColAllotmentYear           = "ALLOTMENT_YEAR"
	ColRankNo                  = "RANK_NO"
	ColAllottedQuota           = "ALLOTTED_QUOTA"
	ColAllottedInstitute       = "ALLOTTED_INSTITUTE"
	ColState                   = "STATE"
	ColQualifyingGroupOrCourse = "QUALIFYING_GROUP_OR_COURSE"
	ColSpeciality              = "SPECIALITY"
	ColAllottedCategory        = "ALLOTTED_CATEGORY"
	ColCandidateCategory       = "CANDIDATE_CATEGORY"
	ColRemarks                 = "REMARKS"
	ColIsShowYear              = "IS_SHOW_YEAR"
)

// Columns lists the template headers in their canonical order.
var Columns = []string{
	ColAllotmentCategory, ColAllotmentYear, ColRankNo, ColAllottedQuota, ColAllottedInstitute,
	ColState, ColQualifyingGroupOrCourse, ColSpeciality, ColAllottedCategory, ColCandidateCategory,
	ColRemarks, ColIsShowYear,
}

// ReadAllotments parses the first sheet of an xlsx workbook. The first row
// is the header; missing columns and unparsable cells fall back to zero
// values instead of failing the row. Blank rows are skipped.
func ReadAllotments(r io.Reader) ([]model.Allotment, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableWorkbook, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: no sheets", ErrUnreadableWorkbook)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableWorkbook, err)
	}
	if len(rows) == 0 {
		return []model.Allotment{}, nil
	}

	index := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		if _, dup := index[h]; !dup {
			index[h] = i
		}
	}

	out := make([]model.Allotment, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if blank(row) {
			continue
		}
		rec := record{row: row, index: index}
		out = append(out, model.Allotment{
			AllotmentCategory:       rec.str(ColAllotmentCategory),
			AllotmentYear:           rec.integer(ColAllotmentYear),
			RankNo:                  rec.integer(ColRankNo),
			AllottedQuota:           rec.str(ColAllottedQuota),
			AllottedInstitute:       rec.str(ColAllottedInstitute),
			State:                   rec.str(ColState),
			QualifyingGroupOrCourse: rec.str(ColQualifyingGroupOrCourse),
			Speciality:              rec.str(ColSpeciality),
			AllottedCategory:        rec.str(ColAllottedCategory),
			CandidateCategory:       rec.str(ColCandidateCategory),
			Remarks:                 rec.optional(ColRemarks),
			IsActive:                rec.boolean(ColIsShowYear),
		})
	}
	return out, nil
}

type record struct {
	row   []string
	index map[string]int
}

func (r record) cell(col string) string {
	i, ok := r.index[col]
	if !ok || i >= len(r.row) {
		return ""
	}
	return strings.TrimSpace(r.row[i])
}

func (r record) str(col string) string {
	return r.cell(col)
}

func (r record) optional(col string) *string {
	v := r.cell(col)
	if v == "" {
		return nil
	}
	return &v
}

// integer accepts "2023" as well as float renderings like "2023.0".
// Negative or unparsable values become 0.
func (r record) integer(col string) int {
	v := strings.ReplaceAll(r.cell(col), ",", "")
	if v == "" {
		return 0
	}
	if n, err := strconv.Atoi(v); err == nil {
		return max(n, 0)
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || f < 0 || f > math.MaxInt32 {
		return 0
	}
	return int(f)
}

func (r record) boolean(col string) bool {
	switch strings.ToLower(r.cell(col)) {
	case "true", "1", "1.0", "yes", "y", "t":
		return true
	}
	return false
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
