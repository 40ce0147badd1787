package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/rs/zerolog"
	"github.com/stemsi/seatpredictor-backend/internal/mailer"
)

const resultsSubject = "Your NEET seat allotment results"

// ResultColumns are the table columns of the results e-mail, in order.
var ResultColumns = []string{
	"allotment_category", "allotment_year", "rank_no", "allotted_quota", "allotted_institute",
	"state", "qualifying_group_or_course", "speciality", "allotted_category", "candidate_category",
	"remarks",
}

var resultsTemplate = template.Must(template.New("results").Parse(`<!DOCTYPE html>
<html>
<body>
<p>Here are the seat allotment results you requested ({{len .Rows}} records).</p>
<table border="1" cellpadding="4" cellspacing="0">
<thead><tr>{{range .Columns}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>
{{range .Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{end}}</tbody>
</table>
</body>
</html>
`))

// EmailService mails query results to end users.
type EmailService struct {
	mailer mailer.Mailer
	log    zerolog.Logger
}

// NewEmailService creates a new EmailService.
func NewEmailService(m mailer.Mailer, log zerolog.Logger) *EmailService {
	return &EmailService{mailer: m, log: log.With().Str("component", "email_service").Logger()}
}

// SendResults renders results as an HTML table and mails it to addr.
func (s *EmailService) SendResults(ctx context.Context, addr string, results []map[string]any) error {
	html, err := RenderResults(results)
	if err != nil {
		return err
	}
	if err := s.mailer.Send(ctx, mailer.Message{To: addr, Subject: resultsSubject, HTML: html}); err != nil {
		s.log.Error().Err(err).Str("to", addr).Msg("Failed to send results email")
		return err
	}
	return nil
}

// RenderResults builds the e-mail body. Missing and null cells render empty.
func RenderResults(results []map[string]any) (string, error) {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		row := make([]string, len(ResultColumns))
		for i, col := range ResultColumns {
			if v, ok := r[col]; ok && v != nil {
				row[i] = fmt.Sprint(v)
			}
		}
		rows = append(rows, row)
	}

	var buf bytes.Buffer
	if err := resultsTemplate.Execute(&buf, struct {
		Columns []string
		Rows    [][]string
	}{ResultColumns, rows}); err != nil {
		return "", fmt.Errorf("render results: %w", err)
	}
	return buf.String(), nil
}
