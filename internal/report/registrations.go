package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ikkim/bizreview-backend/internal/app/model"
	"github.com/ikkim/bizreview-backend/internal/app/service"
	"github.com/xuri/excelize/v2"
)

const (
	ExportSheet = "Registrations"
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var exportHeaders = []string{
	"ID",
	"Name",
	"Category",
	"Status",
	"Owner Email",
	"Owner Username",
	"Submitted At",
	"Updated At",
	"Reviewer",
	"Rejection Reason",
	"Business ID",
	"Primary Location",
	"Locations",
	"Documents",
}

// WriteRegistrations renders registrations as a single-sheet workbook.
func WriteRegistrations(w io.Writer, registrations []model.BusinessRegistration) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), ExportSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	if err := f.SetSheetRow(ExportSheet, "A1", &exportHeaders); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	lastColumn, _ := excelize.ColumnNumberToName(len(exportHeaders))
	if err := f.SetCellStyle(ExportSheet, "A1", lastColumn+"1", headerStyle); err != nil {
		return fmt.Errorf("apply header style: %w", err)
	}

	for i, registration := range registrations {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := exportRow(registration)
		if err := f.SetSheetRow(ExportSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.SetPanes(ExportSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}

	return f.Write(w)
}

func exportRow(r model.BusinessRegistration) []interface{} {
	primary := ""
	for _, location := range r.Locations {
		if location.IsPrimary {
			primary = location.FormattedAddress
			break
		}
	}

	return []interface{}{
		r.ID.String(),
		r.Name,
		r.Category,
		r.Status.String(),
		r.OwnerEmail,
		r.OwnerUsername,
		r.SubmittedAt.UTC().Format(time.RFC3339),
		r.UpdatedAt.UTC().Format(time.RFC3339),
		deref(r.ReviewerName),
		deref(r.RejectionReason),
		uuidString(r.BusinessID),
		primary,
		len(r.Locations),
		strings.Join(r.DocumentURLs, "\n"),
	}
}

// Import columns, in order.
var importHeaders = []string{
	"user_id",
	"name",
	"category",
	"address",
	"owner_email",
	"owner_username",
	"document_urls",
	"location_label",
	"location_address",
	"phone",
	"website",
}

// ImportRow is one parsed spreadsheet row ready for submission.
type ImportRow struct {
	Line  int
	Input service.SubmitRegistrationInput
}

// RowError explains why a line was skipped.
type RowError struct {
	Line   int
	Reason string
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

// ReadRegistrations parses the first sheet: a header row followed by one
// registration per row, each with a single primary location. Rows that cannot
// be parsed are reported and skipped.
func ReadRegistrations(r io.Reader) ([]ImportRow, []RowError, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, nil, fmt.Errorf("no sheets found in XLSX file")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("no data found in XLSX file")
	}

	var (
		parsed  []ImportRow
		skipped []RowError
	)
	for i, row := range rows[1:] {
		line := i + 2
		if isEmptyRow(row) {
			continue
		}
		input, reason := parseImportRow(row)
		if reason != "" {
			skipped = append(skipped, RowError{Line: line, Reason: reason})
			continue
		}
		parsed = append(parsed, ImportRow{Line: line, Input: input})
	}
	return parsed, skipped, nil
}

func parseImportRow(row []string) (service.SubmitRegistrationInput, string) {
	col := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	var input service.SubmitRegistrationInput
	userID, err := uuid.Parse(col(0))
	if err != nil {
		return input, "user_id is not a valid uuid"
	}
	if col(1) == "" || col(3) == "" || col(4) == "" {
		return input, "name, address and owner_email are required"
	}

	input = service.SubmitRegistrationInput{
		UserID:        userID,
		Name:          col(1),
		Category:      col(2),
		Address:       col(3),
		OwnerEmail:    col(4),
		OwnerUsername: col(5),
		DocumentURLs:  splitList(col(6)),
		Phone:         optional(col(9)),
		Website:       optional(col(10)),
	}

	label := col(7)
	if label == "" {
		label = input.Name
	}
	address := col(8)
	if address == "" {
		address = input.Address
	}
	primary := true
	input.Locations = []service.LocationInput{{
		Label:            label,
		FormattedAddress: address,
		IsPrimary:        &primary,
	}}
	return input, ""
}

// ImportTemplate writes an empty workbook with the import header row.
func ImportTemplate(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if err := f.SetSheetRow(sheet, "A1", &importHeaders); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	return f.Write(w)
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.FieldsFunc(value, func(r rune) bool {
		return r == ',' || r == '\n' || r == ';'
	}) {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func uuidString(id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	return id.String()
}
