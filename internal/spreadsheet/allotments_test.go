package spreadsheet

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// workbook builds an in-memory xlsx with the given header and rows.
func workbook(t *testing.T, header []string, rows ...[]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	hdr := make([]interface{}, len(header))
	for i, h := range header {
		hdr[i] = h
	}
	require.NoError(t, f.SetSheetRow(sheet, "A1", &hdr))
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestReadAllotments_FullTemplate(t *testing.T) {
	buf := workbook(t, Columns,
		[]interface{}{"PG", 2023, 500, "AIQ", "AIIMS Delhi", "Delhi", "MD/MS", "Radiology", "GN", "GN", "first round", "TRUE"},
		[]interface{}{"PG", 2022, 1200, "State", "GMC", "Kerala", "MD/MS", "ENT", "OBC", "OBC", "", "0"},
	)

	rows, err := ReadAllotments(buf)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	first := rows[0]
	assert.Equal(t, "PG", first.AllotmentCategory)
	assert.Equal(t, 2023, first.AllotmentYear)
	assert.Equal(t, 500, first.RankNo)
	assert.Equal(t, "AIIMS Delhi", first.AllottedInstitute)
	assert.Equal(t, "Radiology", first.Speciality)
	require.NotNil(t, first.Remarks)
	assert.Equal(t, "first round", *first.Remarks)
	assert.True(t, first.IsActive)

	assert.Nil(t, rows[1].Remarks)
	assert.False(t, rows[1].IsActive)
}

func TestReadAllotments_MissingColumnsDefault(t *testing.T) {
	buf := workbook(t, []string{ColRankNo, "rank_no", ColState},
		[]interface{}{"abc", 7, "Goa"},
	)

	rows, err := ReadAllotments(buf)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 0, rows[0].RankNo, "unparsable cell defaults to zero; lowercase header is ignored")
	assert.Equal(t, "Goa", rows[0].State)
	assert.Equal(t, "", rows[0].AllotmentCategory)
	assert.Equal(t, 0, rows[0].AllotmentYear)
	assert.False(t, rows[0].IsActive)
}

func TestReadAllotments_SkipsBlankRows(t *testing.T) {
	buf := workbook(t, Columns,
		[]interface{}{"UG", 2024, 10},
		[]interface{}{"", "", ""},
		[]interface{}{"UG", 2024, 20},
	)

	rows, err := ReadAllotments(buf)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestReadAllotments_Unreadable(t *testing.T) {
	_, err := ReadAllotments(strings.NewReader("RANK_NO,STATE\n1,Goa\n"))
	assert.ErrorIs(t, err, ErrUnreadableWorkbook)
}

func TestRecordInteger(t *testing.T) {
	idx := map[string]int{"N": 0}
	cases := map[string]int{
		"2023":   2023,
		"2023.0": 2023,
		"1,250":  1250,
		"-4":     0,
		"":       0,
		"x":      0,
	}
	for in, want := range cases {
		assert.Equal(t, want, record{row: []string{in}, index: idx}.integer("N"), in)
	}
}

func TestRecordBoolean(t *testing.T) {
	idx := map[string]int{"B": 0}
	for _, v := range []string{"TRUE", "true", "1", "Yes", "y"} {
		assert.True(t, record{row: []string{v}, index: idx}.boolean("B"), v)
	}
	for _, v := range []string{"FALSE", "0", "", "no"} {
		assert.False(t, record{row: []string{v}, index: idx}.boolean("B"), v)
	}
}
