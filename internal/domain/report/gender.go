package report

import (
	"regexp"
	"strings"
)

// Gender indicator lists. Order matters twice over: within a list, more
// specific field labels come before bare words; across lists, the male list
// is scanned first, so a report matching both (e.g. the word "female"
// alongside "Sex: M") resolves to male. That tie-break is intentional and
// pinned by tests — do not reorder.
var (
	maleIndicators = []*regexp.Regexp{
		regexp.MustCompile(`sex\s*[:\-]?\s*m(?:ale)?\b`),
		regexp.MustCompile(`gender\s*[:\-]?\s*m(?:ale)?\b`),
		regexp.MustCompile(`\bmale\b`),
		regexp.MustCompile(`\bmr\.?\s`),
	}
	femaleIndicators = []*regexp.Regexp{
		regexp.MustCompile(`sex\s*[:\-]?\s*f(?:emale)?\b`),
		regexp.MustCompile(`gender\s*[:\-]?\s*f(?:emale)?\b`),
		regexp.MustCompile(`\bfemale\b`),
		regexp.MustCompile(`\bmrs\.?\s`),
		regexp.MustCompile(`\bms\.?\s`),
	}
)

// DetectGender scans report text for gender indicators: explicit field
// labels ("Sex: M"), standalone gender words, and honorifics ("Mr.").
// Returns GenderUnknown when nothing matches; callers default unknown to
// male — an explicit, documented product decision, not an omission.
func DetectGender(text string) Gender {
	lower := strings.ToLower(text)
	for _, re := range maleIndicators {
		if re.MatchString(lower) {
			return GenderMale
		}
	}
	for _, re := range femaleIndicators {
		if re.MatchString(lower) {
			return GenderFemale
		}
	}
	return GenderUnknown
}
