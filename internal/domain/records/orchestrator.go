package records

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// PatientAPI is the slice of the remote records API the orchestrator needs
// for patient entities.
type PatientAPI interface {
	GetPatient(ctx context.Context, id int64) (*Patient, error)
	CreatePatient(ctx context.Context, p PatientPayload) (*Patient, error)
	UpdatePatient(ctx context.Context, id int64, p PatientPayload) error
}

// AddressAPI covers the address endpoints.
type AddressAPI interface {
	ListAddresses(ctx context.Context, patientID int64) ([]AddressRecord, error)
	CreateAddress(ctx context.Context, a AddressPayload) error
	UpdateAddress(ctx context.Context, id int64, a AddressPayload) error
}

// DetailAPI covers the health-detail endpoints. One resource serves all
// three variants; the submission's healthType field names the active one.
type DetailAPI interface {
	ListDetails(ctx context.Context, patientID int64) ([]DetailPayload, error)
	CreateDetail(ctx context.Context, d DetailSubmission) error
	UpdateDetail(ctx context.Context, id int64, d DetailSubmission) error
}

// State tracks where one editor instance is in its lifecycle.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateEditing
	StateValidating
	StateSaving
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateEditing:
		return "editing"
	case StateValidating:
		return "validating"
	case StateSaving:
		return "saving"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ValidationError carries the field→message map produced by a failed
// pre-save validation. No remote call is made when it is returned.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %d field(s)", len(e.Fields))
}

// Orchestrator runs the patient-record save/load workflow: it owns one
// editor's form state exclusively and issues the three persistence calls in
// a fixed order with no rollback. Earlier steps that succeeded before a
// failure are not undone; the caller may retry the whole save.
type Orchestrator struct {
	patients  PatientAPI
	addresses AddressAPI
	details   DetailAPI
	logger    zerolog.Logger

	state State
	form  FormState
}

// NewOrchestrator returns a create-mode orchestrator with an empty form.
func NewOrchestrator(patients PatientAPI, addresses AddressAPI, details DetailAPI, logger zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		patients:  patients,
		addresses: addresses,
		details:   details,
		logger:    logger,
		state:     StateIdle,
		form:      NewFormState(),
	}
}

// State reports the current lifecycle state.
func (o *Orchestrator) State() State { return o.state }

// Form exposes the editor form state.
func (o *Orchestrator) Form() *FormState { return &o.form }

// SetForm replaces the form state with an edited one, e.g. bound from an
// incoming save request.
func (o *Orchestrator) SetForm(f FormState) {
	o.form = f
	o.state = StateEditing
}

// Load populates the form for edit mode: the patient entity, its current
// address via the reconciler, and the health detail for the resolved health
// type. A failed patient fetch aborts the load; address and detail fetch
// failures are logged and leave their form sections empty, matching the
// source system's tolerance for partially present records.
func (o *Orchestrator) Load(ctx context.Context, patientID int64) error {
	if o.state != StateIdle {
		return fmt.Errorf("load: editor already %s", o.state)
	}
	o.state = StateLoading

	p, err := o.patients.GetPatient(ctx, patientID)
	if err != nil {
		o.state = StateFailed
		return fmt.Errorf("load patient %d: %w", patientID, err)
	}

	o.form.PatientID = &p.PatientID
	o.form.Person = PersonalInfo{
		FirstName:  p.FirstName,
		LastName:   p.LastName,
		FatherName: p.FatherName,
		Age:        p.Age,
		Gender:     p.Gender,
		DOB:        FormatDateForInput(p.DOB),
	}
	if o.form.Person.Gender == "" {
		o.form.Person.Gender = "Male"
	}
	o.form.HealthType = DetectHealthType(p.HealthType)

	recs, err := o.addresses.ListAddresses(ctx, patientID)
	if err != nil {
		o.logger.Warn().Err(err).Int64("patient_id", patientID).Msg("address fetch failed; editing with empty address")
	} else {
		o.form.Address, o.form.AddressID = ResolveAddress(recs, patientID)
	}

	rows, err := o.details.ListDetails(ctx, patientID)
	if err != nil {
		o.logger.Warn().Err(err).Int64("patient_id", patientID).Msg("health detail fetch failed; editing with empty detail")
	} else if row, ok := ResolveDetail(rows, patientID); ok {
		o.form.ApplyInbound(row, o.form.HealthType)
	}

	o.state = StateEditing
	return nil
}

// SaveResult reports a completed save.
type SaveResult struct {
	PatientID int64 `json:"patientId"`
	Created   bool  `json:"created"`
}

// Save validates the form, then persists patient, address, and health detail
// in that strict order, each step awaited before the next. Any step failing
// leaves the earlier steps applied remotely and the editor in StateFailed
// for retry.
func (o *Orchestrator) Save(ctx context.Context) (*SaveResult, error) {
	o.state = StateValidating
	if errs := o.form.Validate(); len(errs) > 0 {
		o.state = StateEditing
		return nil, &ValidationError{Fields: errs}
	}
	o.state = StateSaving

	payload := o.patientPayload()

	var patientID int64
	created := false
	if o.form.PatientID != nil {
		patientID = *o.form.PatientID
		payload.PatientID = o.form.PatientID
		if err := o.patients.UpdatePatient(ctx, patientID, payload); err != nil {
			o.state = StateFailed
			return nil, fmt.Errorf("update patient %d: %w", patientID, err)
		}
	} else {
		p, err := o.patients.CreatePatient(ctx, payload)
		if err != nil {
			o.state = StateFailed
			return nil, fmt.Errorf("create patient: %w", err)
		}
		if p == nil || p.PatientID == 0 {
			o.state = StateFailed
			return nil, fmt.Errorf("create patient: response carried no patientId")
		}
		patientID = p.PatientID
		o.form.PatientID = &patientID
		created = true
	}

	if err := o.saveAddress(ctx, patientID); err != nil {
		o.state = StateFailed
		return nil, err
	}

	if err := o.saveDetail(ctx, patientID); err != nil {
		o.state = StateFailed
		return nil, err
	}

	o.state = StateDone
	o.logger.Info().Int64("patient_id", patientID).Bool("created", created).Msg("patient record saved")
	return &SaveResult{PatientID: patientID, Created: created}, nil
}

func (o *Orchestrator) patientPayload() PatientPayload {
	p := o.form.Person
	return PatientPayload{
		FirstName:  strings.TrimSpace(p.FirstName),
		LastName:   strings.TrimSpace(p.LastName),
		FatherName: strOrNil(strings.TrimSpace(p.FatherName)),
		Age:        p.Age,
		Gender:     p.Gender,
		DOB:        dateToISO(p.DOB),
		HealthType: o.form.HealthType,
	}
}

func (o *Orchestrator) saveAddress(ctx context.Context, patientID int64) error {
	payload := AddressPayload{
		AddressID:   o.form.AddressID,
		PatientID:   patientID,
		Type:        AddressTypeCurrent,
		HomeFlatNo:  o.form.Address.HomeFlatNo,
		StreetNo:    o.form.Address.StreetNo,
		Town:        o.form.Address.Town,
		FullAddress: o.form.Address.FullAddress,
	}
	if o.form.AddressID != nil {
		if err := o.addresses.UpdateAddress(ctx, *o.form.AddressID, payload); err != nil {
			return fmt.Errorf("update address %d: %w", *o.form.AddressID, err)
		}
		return nil
	}
	if err := o.addresses.CreateAddress(ctx, payload); err != nil {
		return fmt.Errorf("create address: %w", err)
	}
	return nil
}

func (o *Orchestrator) saveDetail(ctx context.Context, patientID int64) error {
	payload, detailID := o.form.OutboundDetail(patientID)
	if detailID != nil {
		if err := o.details.UpdateDetail(ctx, *detailID, payload); err != nil {
			return fmt.Errorf("update %s detail %d: %w", strings.ToLower(string(o.form.HealthType)), *detailID, err)
		}
		return nil
	}
	if err := o.details.CreateDetail(ctx, payload); err != nil {
		return fmt.Errorf("create %s detail: %w", strings.ToLower(string(o.form.HealthType)), err)
	}
	return nil
}
