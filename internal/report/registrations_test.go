package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ikkim/bizreview-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteRegistrations(t *testing.T) {
	reason := "blurry license"
	reviewer := "Dana Reviewer"
	registration := model.BusinessRegistration{
		ID:              uuid.New(),
		Name:            "Blue Bottle Coffee",
		Category:        "Cafe",
		Status:          model.RegistrationStatusRejected,
		OwnerEmail:      "owner@example.com",
		OwnerUsername:   "blueowner",
		DocumentURLs:    model.StringArray{"https://cdn.example.com/a.pdf", "https://cdn.example.com/b.pdf"},
		RejectionReason: &reason,
		ReviewerName:    &reviewer,
		SubmittedAt:     time.Date(2025, 2, 1, 8, 0, 0, 0, time.UTC),
		UpdatedAt:       time.Date(2025, 2, 2, 8, 0, 0, 0, time.UTC),
		Locations: []model.BusinessLocation{
			{FormattedAddress: "Annex, 2 Market Street", IsPrimary: false},
			{FormattedAddress: "1 Market Street", IsPrimary: true},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteRegistrations(&buf, []model.BusinessRegistration{registration}))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(ExportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, exportHeaders, rows[0])

	row := rows[1]
	assert.Equal(t, registration.ID.String(), row[0])
	assert.Equal(t, "rejected", row[3])
	assert.Equal(t, "2025-02-01T08:00:00Z", row[6])
	assert.Equal(t, "Dana Reviewer", row[8])
	assert.Equal(t, "blurry license", row[9])
	assert.Equal(t, "", row[10])
	assert.Equal(t, "1 Market Street", row[11])
	assert.Equal(t, "2", row[12])
}

func TestWriteRegistrations_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRegistrations(&buf, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(ExportSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func buildImportWorkbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &importHeaders))
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return &buf
}

func TestReadRegistrations(t *testing.T) {
	userID := uuid.New()
	buf := buildImportWorkbook(t, [][]interface{}{
		{userID.String(), "Blue Bottle Coffee", "Cafe", "1 Market Street, San Francisco", "owner@example.com", "blueowner",
			"https://cdn.example.com/a.pdf, https://cdn.example.com/b.pdf", "Flagship", "", "+1 415 555 0100", ""},
		{"not-a-uuid", "Broken Row", "Cafe", "Somewhere 1", "x@example.com", "broken", "", "", "", "", ""},
		{},
		{uuid.NewString(), "", "Cafe", "Somewhere 2", "y@example.com", "noname", "", "", "", "", ""},
	})

	rows, skipped, err := ReadRegistrations(buf)
	require.NoError(t, err)

	require.Len(t, rows, 1)
	row := rows[0]
	assert.Equal(t, 2, row.Line)
	assert.Equal(t, userID, row.Input.UserID)
	assert.Equal(t, []string{"https://cdn.example.com/a.pdf", "https://cdn.example.com/b.pdf"}, row.Input.DocumentURLs)
	require.NotNil(t, row.Input.Phone)
	assert.Equal(t, "+1 415 555 0100", *row.Input.Phone)
	assert.Nil(t, row.Input.Website)

	require.Len(t, row.Input.Locations, 1)
	location := row.Input.Locations[0]
	assert.Equal(t, "Flagship", location.Label)
	assert.Equal(t, "1 Market Street, San Francisco", location.FormattedAddress)
	require.NotNil(t, location.IsPrimary)
	assert.True(t, *location.IsPrimary)

	require.Len(t, skipped, 2)
	assert.Equal(t, 3, skipped[0].Line)
	assert.Equal(t, 5, skipped[1].Line)
	assert.Contains(t, skipped[0].Error(), "line 3")
}

func TestReadRegistrations_NotAWorkbook(t *testing.T) {
	_, _, err := ReadRegistrations(bytes.NewBufferString("plain text"))
	assert.Error(t, err)
}

func TestImportTemplate(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ImportTemplate(&buf))

	rows, skipped, err := ReadRegistrations(&buf)
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.Empty(t, skipped)
}
