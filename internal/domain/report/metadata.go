package report

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const fieldUnknown = "unknown"

// minLabNameLength rejects spurious short matches ("Lab:", a stray "XYZ").
const minLabNameLength = 5

var (
	// Ordered label/value patterns; the first hit wins.
	namePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)patient\s*name\s*[:\-]\s*([^\n,]+)`),
		regexp.MustCompile(`(?i)patient\s*[:\-]\s*([^\n,]+)`),
		regexp.MustCompile(`(?i)\bname\s*[:\-]\s*([^\n,]+)`),
	}
	labPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)lab(?:oratory)?\s*name\s*[:\-]\s*([^\n,]+)`),
		regexp.MustCompile(`(?i)([^\n]*pathology\s*lab[^\n,]*)`),
		regexp.MustCompile(`(?im)^\s*([^\n,]+(?:diagnostics|pathology|laboratory))\s*$`),
	}
	agePattern = regexp.MustCompile(`(?i)\bage\s*[:\-]?\s*(\d{1,3})`)

	titleCaser = cases.Title(language.English)
)

// ExtractMetadata derives patient name, lab name, gender, and age from raw
// report text. Every field is extracted independently: one field failing to
// match never blocks another, and parse failures are silent — the field
// simply stays unavailable.
func ExtractMetadata(text string) Metadata {
	md := Metadata{
		PatientName: fieldUnknown,
		LabName:     fieldUnknown,
		Gender:      GenderMale,
	}

	if name := firstCapture(namePatterns, text); name != "" {
		md.PatientName = titleCaser.String(strings.TrimSpace(name))
	}

	if lab := firstCapture(labPatterns, text); len(strings.TrimSpace(lab)) > minLabNameLength {
		md.LabName = titleCaser.String(strings.TrimSpace(lab))
	}

	// Unknown gender defaults to male, consistent with the analyzer.
	if g := DetectGender(text); g != GenderUnknown {
		md.Gender = g
	}

	if m := agePattern.FindStringSubmatch(text); m != nil {
		if age, err := strconv.Atoi(m[1]); err == nil && age >= 1 && age <= 120 {
			md.Age = age
			md.AgeKnown = true
		}
	}

	return md
}

func firstCapture(patterns []*regexp.Regexp, text string) string {
	for _, re := range patterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return m[1]
		}
	}
	return ""
}
