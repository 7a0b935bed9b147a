package roster

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/psisafety/clinic-portal/internal/domain/records"
)

var exportHeader = []interface{}{
	"Patient ID", "First Name", "Last Name", "Father Name",
	"Age", "Gender", "Health Type", "Last Updated",
}

// ExportXLSX renders the roster as a single-sheet workbook. The caller owns
// closing the returned file.
func ExportXLSX(patients []records.Patient) (*excelize.File, error) {
	f := excelize.NewFile()
	const sheet = "Patients"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("drop default sheet: %w", err)
	}

	if err := f.SetSheetRow(sheet, "A1", &exportHeader); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	for i, p := range patients {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []interface{}{
			p.PatientID, p.FirstName, p.LastName, p.FatherName,
			p.Age, p.Gender, string(p.HealthType), p.LastUpdated,
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	return f, nil
}
