// Package roster implements the dashboard listing: the patient table with
// aggregate statistics, free-text search, deletion, and spreadsheet export.
package roster

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/psisafety/clinic-portal/internal/domain/records"
)

// PatientAPI is the slice of the remote records API the roster needs.
type PatientAPI interface {
	ListPatients(ctx context.Context) ([]records.Patient, error)
	DeletePatient(ctx context.Context, id int64) error
}

// Stats are the dashboard summary cards, derived client-side from the full
// roster.
type Stats struct {
	Total      int `json:"total"`
	Male       int `json:"male"`
	Female     int `json:"female"`
	AverageAge int `json:"averageAge"`
}

// ComputeStats derives the summary counts. Gender matching is
// case-insensitive; average age rounds to the nearest integer and is 0 for
// an empty roster.
func ComputeStats(patients []records.Patient) Stats {
	s := Stats{Total: len(patients)}
	if len(patients) == 0 {
		return s
	}
	ageSum := 0
	for _, p := range patients {
		switch strings.ToLower(p.Gender) {
		case "male":
			s.Male++
		case "female":
			s.Female++
		}
		ageSum += p.Age
	}
	s.AverageAge = int(math.Round(float64(ageSum) / float64(len(patients))))
	return s
}

// Filter applies the free-text search: case-insensitive substring match
// against the full name or the father's name, or a plain substring match
// against the stringified patient id.
func Filter(patients []records.Patient, term string) []records.Patient {
	if term == "" {
		return patients
	}
	needle := strings.ToLower(term)
	var out []records.Patient
	for _, p := range patients {
		switch {
		case strings.Contains(strings.ToLower(p.FullName()), needle),
			p.FatherName != "" && strings.Contains(strings.ToLower(p.FatherName), needle),
			p.PatientID != 0 && strings.Contains(strconv.FormatInt(p.PatientID, 10), term):
			out = append(out, p)
		}
	}
	return out
}

// Overview is one dashboard load: the (filtered) table rows plus statistics
// computed over the whole roster, not just the filtered view.
type Overview struct {
	Patients []records.Patient `json:"patients"`
	Stats    Stats             `json:"stats"`
}

type Service struct {
	api PatientAPI
}

func NewService(api PatientAPI) *Service {
	return &Service{api: api}
}

// Overview fetches the full roster and applies the search term.
func (s *Service) Overview(ctx context.Context, search string) (*Overview, error) {
	patients, err := s.api.ListPatients(ctx)
	if err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	filtered := Filter(patients, search)
	if filtered == nil {
		filtered = []records.Patient{}
	}
	return &Overview{Patients: filtered, Stats: ComputeStats(patients)}, nil
}

// Delete removes the patient remotely. Callers are expected to have obtained
// explicit confirmation; removal is monotonic so no rollback is needed.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.api.DeletePatient(ctx, id); err != nil {
		return fmt.Errorf("delete patient %d: %w", id, err)
	}
	return nil
}
