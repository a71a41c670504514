package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"travel_planner/internal/domain"
)

const (
	DestinationsSheet = "Destinations"
	ProfilesSheet     = "Profiles"
)

var destinationHeader = []string{"ID", "Owner", "Name", "Type", "Country", "District", "Latitude", "Longitude", "Visibility"}

var profileHeader = []string{"ID", "First Name", "Last Name", "Email", "Birth Date", "Gender", "Nationalities", "Passports", "Roles"}

// Workbook renders destinations and profiles into an xlsx document.
func Workbook(dests []domain.Destination, profiles []domain.Profile) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}

	destRows := make([][]any, 0, len(dests))
	for _, d := range dests {
		vis := "Private"
		if d.Public {
			vis = "Public"
		}
		destRows = append(destRows, []any{d.ID, d.ProfileID, d.Name, d.Type, d.Country, d.District, d.Latitude, d.Longitude, vis})
	}
	if err := writeSheet(f, DestinationsSheet, destinationHeader, destRows, headerStyle); err != nil {
		return nil, err
	}

	profRows := make([][]any, 0, len(profiles))
	for _, p := range profiles {
		profRows = append(profRows, []any{
			p.ID, p.FirstName, p.LastName, p.Email, p.BirthDate.Format("2006-01-02"), p.Gender,
			strings.Join(p.Nationalities, ", "), strings.Join(p.Passports, ", "), strings.Join(p.Roles, ", "),
		})
	}
	if err := writeSheet(f, ProfilesSheet, profileHeader, profRows, headerStyle); err != nil {
		return nil, err
	}

	// excelize always creates Sheet1
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}
	idx, err := f.GetSheetIndex(DestinationsSheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, name string, header []string, rows [][]any, headerStyle int) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("create sheet %s: %w", name, err)
	}
	for i, h := range header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(name, cell, h); err != nil {
			return err
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(header), 1)
	if err := f.SetCellStyle(name, "A1", last, headerStyle); err != nil {
		return err
	}
	for r, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetSheetRow(name, cell, &row); err != nil {
			return fmt.Errorf("row %d: %w", r+2, err)
		}
	}
	return nil
}
