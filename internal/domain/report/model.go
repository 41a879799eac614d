package report

import (
	"strings"

	"github.com/google/uuid"

	"github.com/labsight/labsight/internal/platform/extraction"
)

// Gender selects which reference ranges apply.
type Gender string

const (
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
	GenderUnknown Gender = "unknown"
)

// ParseGender interprets a caller-supplied gender string. Anything other
// than "male"/"female" (case-insensitive) is treated as absent.
func ParseGender(s string) Gender {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "male":
		return GenderMale
	case "female":
		return GenderFemale
	default:
		return GenderUnknown
	}
}

// Status is the per-analyte verdict.
type Status string

const (
	StatusNormal   Status = "Normal"
	StatusAbnormal Status = "Abnormal"
	// StatusNoReferenceRange means the value was found but no reference
	// interval is defined for the resolved gender. The key is still
	// reported so the caller learns a value exists.
	StatusNoReferenceRange Status = "NoReferenceRange"
)

// Finding is one extracted analyte value with its classification.
type Finding struct {
	Value       float64 `json:"value"`
	Unit        string  `json:"unit"`
	Status      Status  `json:"status"`
	NormalRange string  `json:"normal_range,omitempty"`
}

// Analysis maps analyte keys to findings. Gender is the gender actually
// used for classification — callers must not assume their requested gender
// was honored without checking it.
type Analysis struct {
	Gender   Gender             `json:"gender_used"`
	Findings map[string]Finding `json:"findings"`
}

// Metadata holds the derived, non-authoritative report fields. A field that
// could not be extracted reads "unknown" (age: AgeKnown false).
type Metadata struct {
	PatientName string `json:"patient_name"`
	LabName     string `json:"lab_name"`
	Gender      Gender `json:"gender"`
	Age         int    `json:"age,omitempty"`
	AgeKnown    bool   `json:"age_known"`
}

// ReportAnalysis is the full outcome of one analysis call. It has no
// identity beyond the call that produced it; the ID only correlates logs
// and responses.
type ReportAnalysis struct {
	ID       uuid.UUID         `json:"id"`
	Text     string            `json:"extracted_text"`
	Method   extraction.Method `json:"extraction_method,omitempty"`
	Metadata Metadata          `json:"metadata"`
	Analysis Analysis          `json:"analysis"`
}
