package roster

import (
	"testing"

	"github.com/psisafety/clinic-portal/internal/domain/records"
)

func TestExportXLSX(t *testing.T) {
	patients := []records.Patient{
		{PatientID: 1, FirstName: "Amina", LastName: "Khan", Age: 29, Gender: "Female", HealthType: "Maternity"},
		{PatientID: 2, FirstName: "Bilal", LastName: "Ahmed", Age: 35, Gender: "Male", HealthType: "Cardiac"},
	}

	f, err := ExportXLSX(patients)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	defer f.Close()

	if got := f.GetSheetList(); len(got) != 1 || got[0] != "Patients" {
		t.Fatalf("sheets: %v", got)
	}

	header, err := f.GetCellValue("Patients", "A1")
	if err != nil {
		t.Fatal(err)
	}
	if header != "Patient ID" {
		t.Errorf("header A1: got %q", header)
	}

	name, err := f.GetCellValue("Patients", "B2")
	if err != nil {
		t.Fatal(err)
	}
	if name != "Amina" {
		t.Errorf("B2: got %q, want Amina", name)
	}

	ht, err := f.GetCellValue("Patients", "G3")
	if err != nil {
		t.Fatal(err)
	}
	if ht != "Cardiac" {
		t.Errorf("G3: got %q, want Cardiac", ht)
	}
}

func TestExportXLSX_EmptyRoster(t *testing.T) {
	f, err := ExportXLSX(nil)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Patients")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Errorf("expected header row only, got %d rows", len(rows))
	}
}
