// Package records implements the patient-record editor: the form model, field
// validation, the health-detail mapper, the address reconciler, and the
// save/load orchestration against the remote records API.
package records

import (
	"encoding/json"
	"strconv"
	"strings"
)

// HealthType selects which condition-specific detail variant is active for a
// patient. Exactly one variant is active at a time.
type HealthType string

const (
	HealthTypeMaternity HealthType = "Maternity"
	HealthTypeDiabetic  HealthType = "Diabetic"
	HealthTypeCardiac   HealthType = "Cardiac"
)

// DetectHealthType normalizes the health-type string stored on a patient
// record. Unknown or empty values default to Maternity.
func DetectHealthType(s string) HealthType {
	t := strings.ToLower(s)
	switch {
	case strings.Contains(t, "maternity"), strings.Contains(t, "pregnancy"):
		return HealthTypeMaternity
	case strings.Contains(t, "diabetic"), strings.Contains(t, "diabetes"):
		return HealthTypeDiabetic
	case strings.Contains(t, "cardiac"), strings.Contains(t, "heart"):
		return HealthTypeCardiac
	}
	return HealthTypeMaternity
}

// TriState is a three-valued answer for history questions: the "not yet
// answered" state is first-class and distinct from No.
type TriState int

const (
	TriUnset TriState = iota
	TriYes
	TriNo
)

// TriFromBoolPtr converts a wire-level optional boolean: a missing field is
// Unset, never No.
func TriFromBoolPtr(b *bool) TriState {
	switch {
	case b == nil:
		return TriUnset
	case *b:
		return TriYes
	default:
		return TriNo
	}
}

// BoolPtr converts back to the wire representation: Unset submits as null.
func (t TriState) BoolPtr() *bool {
	switch t {
	case TriYes:
		v := true
		return &v
	case TriNo:
		v := false
		return &v
	default:
		return nil
	}
}

func (t TriState) String() string {
	switch t {
	case TriYes:
		return "yes"
	case TriNo:
		return "no"
	default:
		return "unset"
	}
}

// MarshalJSON encodes Yes/No as booleans and Unset as null so the form state
// round-trips through the editor without inventing an answer.
func (t TriState) MarshalJSON() ([]byte, error) {
	b := t.BoolPtr()
	if b == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*b)
}

func (t *TriState) UnmarshalJSON(data []byte) error {
	var b *bool
	if err := json.Unmarshal(data, &b); err != nil {
		return err
	}
	*t = TriFromBoolPtr(b)
	return nil
}

// Patient is the roster-level patient entity as returned by the records API.
type Patient struct {
	PatientID   int64  `json:"patientId,omitempty"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	FatherName  string `json:"fatherName,omitempty"`
	Age         int    `json:"age"`
	Gender      string `json:"gender"`
	DOB         string `json:"dob,omitempty"`
	HealthType  string `json:"healthType,omitempty"`
	LastUpdated string `json:"lastUpdated,omitempty"`
}

// FullName is the display name used by the roster search filter.
func (p Patient) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// PatientPayload is the outbound patient shape. Optional fields submit as
// explicit nulls rather than being omitted, matching the API contract.
type PatientPayload struct {
	PatientID  *int64     `json:"patientId,omitempty"`
	FirstName  string     `json:"firstName"`
	LastName   string     `json:"lastName"`
	FatherName *string    `json:"fatherName"`
	Age        int        `json:"age"`
	Gender     string     `json:"gender"`
	DOB        *string    `json:"dob"`
	HealthType HealthType `json:"healthType"`
}

// Address is the normalized current-address block of the editor form.
type Address struct {
	HomeFlatNo  string `json:"homeFlatNo"`
	StreetNo    string `json:"streetNo"`
	Town        string `json:"town"`
	FullAddress string `json:"fullAddress"`
}

// AddressRecord is an inbound address row. The records API is inconsistent
// about field names across deployments, so every known alias is decoded and
// normalization picks the first non-empty value.
type AddressRecord struct {
	AddressID int64  `json:"addressId"`
	ID        int64  `json:"id"`
	PatientID int64  `json:"patientId"`
	Type      string `json:"type"`

	HomeFlatNo     string `json:"homeFlatNo"`
	HomeFlatNumber string `json:"homeFlatNumber"`
	FlatNo         string `json:"flatNo"`

	StreetNo     string `json:"streetNo"`
	StreetNumber string `json:"streetNumber"`
	Street       string `json:"street"`

	Town     string `json:"town"`
	City     string `json:"city"`
	TownCity string `json:"townCity"`

	FullAddress     string `json:"fullAddress"`
	Address         string `json:"address"`
	CompleteAddress string `json:"completeAddress"`
}

// AddressPayload is the outbound address shape. Empty fields are omitted,
// matching the original submission behavior.
type AddressPayload struct {
	AddressID   *int64 `json:"addressId,omitempty"`
	PatientID   int64  `json:"patientId"`
	Type        string `json:"type"`
	HomeFlatNo  string `json:"homeFlatNo,omitempty"`
	StreetNo    string `json:"streetNo,omitempty"`
	Town        string `json:"town,omitempty"`
	FullAddress string `json:"fullAddress,omitempty"`
}

// AddressTypeCurrent is the only address type the editor manages today.
const AddressTypeCurrent = "Current"

// FlexString decodes a JSON value that may arrive as a string or a number
// into its display-string form. Nulls decode to the empty string.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*f = ""
		return nil
	}
	if len(s) > 0 && s[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*f = FlexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	// Render numbers the shortest way, so 64.0 becomes "64".
	if i, err := n.Int64(); err == nil {
		*f = FlexString(strconv.FormatInt(i, 10))
		return nil
	}
	if v, err := n.Float64(); err == nil {
		*f = FlexString(strconv.FormatFloat(v, 'f', -1, 64))
		return nil
	}
	*f = FlexString(n.String())
	return nil
}

func (f FlexString) String() string { return string(f) }

// DetailPayload is the inbound health-detail row for any variant. Fields not
// belonging to the active variant are simply left at their zero values.
type DetailPayload struct {
	DetailID    *int64 `json:"detailId"`
	MaternityID *int64 `json:"maternityId"`
	DiabeticID  *int64 `json:"diabeticId"`
	CardiacID   *int64 `json:"cardiacId"`
	PatientID   int64  `json:"patientId"`

	BloodPressure FlexString `json:"bloodPressure"`
	Weight        FlexString `json:"weight"`
	Description   string     `json:"description"`
	Report        string     `json:"report"`

	// Maternity
	LastMenstrualPeriod string `json:"lastMenstrualPeriod"`
	NumberOfWeeks       int    `json:"numberOfWeeks"`
	SignificantHistory  *bool  `json:"significantHistory"`

	// Diabetic / Cardiac
	HeartRate         FlexString `json:"heartRate"`
	CurrentSymptoms   string     `json:"currentSymptoms"`
	TreatmentDate     string     `json:"treatmentDate"`
	FamilyHistory     string     `json:"familyHistory"`
	MedicalHistory    *bool      `json:"medicalHistory"`
	PreviousDoctor    string     `json:"previousDoctor"`
	HospitalDetails   string     `json:"hospitalDetails"`
	LastDiagnosedDate string     `json:"lastDiagnosedDate"`
}

// MaternityDetail is the normalized maternity form variant. All values are
// display strings; dates use YYYY-MM-DD.
type MaternityDetail struct {
	BloodPressure       string   `json:"bloodPressure"`
	Weight              string   `json:"weight"`
	LastMenstrualPeriod string   `json:"lastMenstrualPeriod"`
	Weeks               int      `json:"weeks"`
	SignificantHistory  TriState `json:"significantHistory"`
	Description         string   `json:"description"`

	Report     []byte `json:"-"`
	ReportName string `json:"reportName"`
	ReportURL  string `json:"reportUrl"`

	DetailID    *int64 `json:"detailId,omitempty"`
	MaternityID *int64 `json:"maternityId,omitempty"`
}

// ChronicDetail is the normalized form variant shared by the structurally
// identical Diabetic and Cardiac wire shapes. The active HealthType tag
// decides which variant identity field it maps to.
type ChronicDetail struct {
	BloodPressure     string   `json:"bloodPressure"`
	HeartRate         string   `json:"heartRate"`
	Weight            string   `json:"weight"`
	CurrentSymptoms   string   `json:"currentSymptoms"`
	TreatmentDate     string   `json:"treatmentDate"`
	FamilyHistory     string   `json:"familyHistory"`
	HasMedicalHistory TriState `json:"hasMedicalHistory"`
	PreviousDoctor    string   `json:"previousDoctor"`
	HospitalDetails   string   `json:"hospitalDetails"`
	LastDiagnosedDate string   `json:"lastDiagnosedDate"`
	Description       string   `json:"description"`

	Report     []byte `json:"-"`
	ReportName string `json:"reportName"`
	ReportURL  string `json:"reportUrl"`

	DetailID  *int64 `json:"detailId,omitempty"`
	VariantID *int64 `json:"variantId,omitempty"`
}

// PersonalInfo is the identity block of the editor form.
type PersonalInfo struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	FatherName string `json:"fatherName"`
	Age        int    `json:"age"`
	Gender     string `json:"gender"`
	DOB        string `json:"dob"`
}

// FormState is the complete in-memory state of one editor instance. All three
// detail variants are retained while editing; switching the health type does
// not discard the other variants, they are simply not submitted.
type FormState struct {
	PatientID *int64 `json:"patientId,omitempty"`
	AddressID *int64 `json:"addressId,omitempty"`

	Person     PersonalInfo `json:"person"`
	Address    Address      `json:"address"`
	HealthType HealthType   `json:"healthType"`

	Maternity MaternityDetail `json:"maternity"`
	Diabetic  ChronicDetail   `json:"diabetic"`
	Cardiac   ChronicDetail   `json:"cardiac"`
}

// NewFormState returns the empty create-mode form defaulting to Maternity,
// mirroring the editor's initial state.
func NewFormState() FormState {
	return FormState{
		Person:     PersonalInfo{Gender: "Male"},
		HealthType: HealthTypeMaternity,
	}
}
