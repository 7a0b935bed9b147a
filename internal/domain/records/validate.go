package records

import (
	"fmt"
	"strings"
)

// ValidateRequired reports an error message when value is absent or trims to
// empty. Pure; no I/O.
func ValidateRequired(value, label string) string {
	if strings.TrimSpace(value) == "" {
		return fmt.Sprintf("%s is required", label)
	}
	return ""
}

// ValidateNumber reports an error message when value is absent or not a
// positive number.
func ValidateNumber(value float64, label string) string {
	if value <= 0 {
		return fmt.Sprintf("Valid %s is required", label)
	}
	return ""
}

// Validate runs the full pre-save rule set for the active health type and
// returns a field→message map. An empty map means the form may be submitted.
func (f *FormState) Validate() map[string]string {
	errs := make(map[string]string)

	put := func(field, msg string) {
		if msg != "" {
			errs[field] = msg
		}
	}

	put("firstName", ValidateRequired(f.Person.FirstName, "First Name"))
	put("lastName", ValidateRequired(f.Person.LastName, "Last Name"))
	put("fatherName", ValidateRequired(f.Person.FatherName, "Father's Name"))
	put("age", ValidateNumber(float64(f.Person.Age), "Age"))
	put("gender", ValidateRequired(f.Person.Gender, "Gender"))

	put("currentHomeFlatNo", ValidateRequired(f.Address.HomeFlatNo, "Current Home/Flat Number"))
	put("currentStreetNo", ValidateRequired(f.Address.StreetNo, "Current Street"))
	put("currentTown", ValidateRequired(f.Address.Town, "Current Town/City"))
	put("currentFullAddress", ValidateRequired(f.Address.FullAddress, "Current Full Address"))

	switch f.HealthType {
	case HealthTypeMaternity:
		d := f.Maternity
		put("bloodPressure", ValidateRequired(d.BloodPressure, "Blood Pressure"))
		put("weight", ValidateRequired(d.Weight, "Weight"))
		if d.LastMenstrualPeriod == "" {
			errs["lastMenstrualPeriod"] = "Last Menstrual Period is required"
		}
		if d.SignificantHistory == TriYes && strings.TrimSpace(d.Description) == "" {
			errs["description"] = "Description is required when Significant History is Yes"
		}
	case HealthTypeDiabetic, HealthTypeCardiac:
		d := f.chronic()
		put("bloodPressure", ValidateRequired(d.BloodPressure, "Blood Pressure"))
		put("weight", ValidateRequired(d.Weight, "Weight"))
		put("heartRate", ValidateRequired(d.HeartRate, "Heart Rate"))
		if strings.TrimSpace(d.CurrentSymptoms) == "" {
			errs["currentSymptoms"] = "Current Symptoms are required"
		}
		put("familyHistory", ValidateRequired(d.FamilyHistory, "Family History"))

		switch d.HasMedicalHistory {
		case TriNo:
			if strings.TrimSpace(d.Description) == "" {
				errs["description"] = "Description is required when Medical History is No"
			}
		case TriYes:
			put("previousDoctor", ValidateRequired(d.PreviousDoctor, "Previous Doctor"))
			if strings.TrimSpace(d.HospitalDetails) == "" {
				errs["hospitalDetails"] = "Hospital Details are required"
			}
			if d.LastDiagnosedDate == "" {
				errs["lastDiagnosedDate"] = "Last Diagnosed Date is required"
			}
		case TriUnset:
			// Unanswered history imposes no extra requirements.
		}
	}

	return errs
}

// chronic returns the variant backing the active non-maternity health type.
func (f *FormState) chronic() *ChronicDetail {
	if f.HealthType == HealthTypeCardiac {
		return &f.Cardiac
	}
	return &f.Diabetic
}
