package records

import (
	"strconv"
	"time"
)

// FormatDateForInput converts an API date-time string to a calendar date in
// YYYY-MM-DD form. Absent or unparseable values become the empty string.
func FormatDateForInput(s string) string {
	if s == "" {
		return ""
	}
	for _, layout := range []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02",
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return ""
}

// dateToISO parses a YYYY-MM-DD form value into an ISO-8601 timestamp pointer,
// or nil when the value is empty or malformed. Malformed dates never error;
// they submit as null.
func dateToISO(s string) *string {
	if s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil
	}
	iso := t.UTC().Format(time.RFC3339)
	return &iso
}

func strOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func floatOrNil(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func intOrNil(s string) *int {
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &v
}

// InboundMaternity normalizes a wire detail row into the maternity form
// variant. Numeric fields become display strings, date-times become calendar
// dates, and the tri-state history answer preserves "unanswered".
func InboundMaternity(p DetailPayload) MaternityDetail {
	return MaternityDetail{
		BloodPressure:       p.BloodPressure.String(),
		Weight:              p.Weight.String(),
		Description:         p.Description,
		ReportName:          p.Report,
		LastMenstrualPeriod: FormatDateForInput(p.LastMenstrualPeriod),
		Weeks:               p.NumberOfWeeks,
		SignificantHistory:  TriFromBoolPtr(p.SignificantHistory),
		DetailID:            p.DetailID,
		MaternityID:         p.MaternityID,
	}
}

// InboundChronic normalizes a wire detail row into the chronic form variant.
// The health-type tag selects which variant identity is carried.
func InboundChronic(p DetailPayload, t HealthType) ChronicDetail {
	d := ChronicDetail{
		BloodPressure:     p.BloodPressure.String(),
		HeartRate:         p.HeartRate.String(),
		Weight:            p.Weight.String(),
		CurrentSymptoms:   p.CurrentSymptoms,
		TreatmentDate:     FormatDateForInput(p.TreatmentDate),
		FamilyHistory:     p.FamilyHistory,
		HasMedicalHistory: TriFromBoolPtr(p.MedicalHistory),
		PreviousDoctor:    p.PreviousDoctor,
		HospitalDetails:   p.HospitalDetails,
		LastDiagnosedDate: FormatDateForInput(p.LastDiagnosedDate),
		Description:       p.Description,
		ReportName:        p.Report,
		DetailID:          p.DetailID,
	}
	if t == HealthTypeCardiac {
		d.VariantID = p.CardiacID
	} else {
		d.VariantID = p.DiabeticID
	}
	return d
}

// ApplyInbound maps a wire detail row onto the form's variant slot for the
// given health type.
func (f *FormState) ApplyInbound(p DetailPayload, t HealthType) {
	switch t {
	case HealthTypeMaternity:
		f.Maternity = InboundMaternity(p)
	case HealthTypeDiabetic:
		f.Diabetic = InboundChronic(p, HealthTypeDiabetic)
	case HealthTypeCardiac:
		f.Cardiac = InboundChronic(p, HealthTypeCardiac)
	}
}

// DetailSubmission is an outbound health-detail payload. The two concrete
// shapes keep the union closed; there is no untyped catch-all.
type DetailSubmission interface {
	detailSubmission()
}

// MaternitySubmission is the outbound maternity wire shape. Nullable fields
// marshal as explicit nulls when empty.
type MaternitySubmission struct {
	DetailID   *int64     `json:"detailId,omitempty"`
	PatientID  int64      `json:"patientId"`
	HealthType HealthType `json:"healthType"`
	Report     *string    `json:"report"`

	BloodPressure *string  `json:"bloodPressure"`
	Weight        *float64 `json:"weight"`
	Description   *string  `json:"description"`

	LastMenstrualPeriod *string `json:"lastMenstrualPeriod"`
	NumberOfWeeks       int     `json:"numberOfWeeks"`
	SignificantHistory  *bool   `json:"significantHistory"`
}

func (MaternitySubmission) detailSubmission() {}

// ChronicSubmission is the outbound wire shape shared by Diabetic and
// Cardiac; HealthType carries the variant tag.
type ChronicSubmission struct {
	DetailID   *int64     `json:"detailId,omitempty"`
	PatientID  int64      `json:"patientId"`
	HealthType HealthType `json:"healthType"`
	Report     *string    `json:"report"`

	BloodPressure *string  `json:"bloodPressure"`
	Weight        *float64 `json:"weight"`
	Description   *string  `json:"description"`

	HeartRate         *int    `json:"heartRate"`
	CurrentSymptoms   *string `json:"currentSymptoms"`
	TreatmentDate     *string `json:"treatmentDate"`
	FamilyHistory     *string `json:"familyHistory"`
	MedicalHistory    *bool   `json:"medicalHistory"`
	PreviousDoctor    *string `json:"previousDoctor"`
	HospitalDetails   *string `json:"hospitalDetails"`
	LastDiagnosedDate *string `json:"lastDiagnosedDate"`
}

func (ChronicSubmission) detailSubmission() {}

// reportRef picks the submitted attachment reference: the locally chosen file
// name wins, then a previously stored URL. The blob itself never travels in
// the detail payload.
func reportRef(name, url string) *string {
	if name != "" {
		return &name
	}
	if url != "" {
		return &url
	}
	return nil
}

func firstID(ids ...*int64) *int64 {
	for _, id := range ids {
		if id != nil {
			return id
		}
	}
	return nil
}

// OutboundDetail builds the submission payload for the form's active health
// type and the identity used to decide create vs. update. Malformed numeric
// and date strings map to null, never to an error.
func (f *FormState) OutboundDetail(patientID int64) (DetailSubmission, *int64) {
	switch f.HealthType {
	case HealthTypeDiabetic, HealthTypeCardiac:
		d := f.chronic()
		id := firstID(d.DetailID, d.VariantID)
		return ChronicSubmission{
			DetailID:          id,
			PatientID:         patientID,
			HealthType:        f.HealthType,
			Report:            reportRef(d.ReportName, d.ReportURL),
			BloodPressure:     strOrNil(d.BloodPressure),
			Weight:            floatOrNil(d.Weight),
			Description:       strOrNil(d.Description),
			HeartRate:         intOrNil(d.HeartRate),
			CurrentSymptoms:   strOrNil(d.CurrentSymptoms),
			TreatmentDate:     dateToISO(d.TreatmentDate),
			FamilyHistory:     strOrNil(d.FamilyHistory),
			MedicalHistory:    d.HasMedicalHistory.BoolPtr(),
			PreviousDoctor:    strOrNil(d.PreviousDoctor),
			HospitalDetails:   strOrNil(d.HospitalDetails),
			LastDiagnosedDate: dateToISO(d.LastDiagnosedDate),
		}, id
	default:
		d := f.Maternity
		id := firstID(d.DetailID, d.MaternityID)
		return MaternitySubmission{
			DetailID:            id,
			PatientID:           patientID,
			HealthType:          HealthTypeMaternity,
			Report:              reportRef(d.ReportName, d.ReportURL),
			BloodPressure:       strOrNil(d.BloodPressure),
			Weight:              floatOrNil(d.Weight),
			Description:         strOrNil(d.Description),
			LastMenstrualPeriod: dateToISO(d.LastMenstrualPeriod),
			NumberOfWeeks:       d.Weeks,
			SignificantHistory:  d.SignificantHistory.BoolPtr(),
		}, id
	}
}
