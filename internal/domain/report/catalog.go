package report

import (
	"fmt"
	"math"
	"regexp"
)

// Interval is an inclusive numeric reference range.
type Interval struct {
	Lo float64
	Hi float64
}

// Contains reports whether v lies inside the interval, bounds included.
func (iv Interval) Contains(v float64) bool {
	return v >= iv.Lo && v <= iv.Hi
}

// Display renders the interval the way lab reports print it: one decimal
// when either bound is fractional ("12.0 - 15.5"), bare integers otherwise
// ("4000 - 11000").
func (iv Interval) Display() string {
	if iv.Lo != math.Trunc(iv.Lo) || iv.Hi != math.Trunc(iv.Hi) {
		return fmt.Sprintf("%.1f - %.1f", iv.Lo, iv.Hi)
	}
	return fmt.Sprintf("%g - %g", iv.Lo, iv.Hi)
}

// AnalyteDef binds an analyte key to the pattern that finds its value in
// report text. The pattern's first capture group must be the numeric value.
type AnalyteDef struct {
	Key     string
	Pattern *regexp.Regexp
}

// Catalog is the ordered, immutable set of analyte definitions applied to
// every report. Keys are globally unique.
type Catalog struct {
	defs []AnalyteDef
}

// NewCatalog validates definitions: non-empty unique keys, a pattern with
// at least one capture group.
func NewCatalog(defs []AnalyteDef) (*Catalog, error) {
	seen := make(map[string]struct{}, len(defs))
	for _, d := range defs {
		if d.Key == "" {
			return nil, fmt.Errorf("catalog: analyte with empty key")
		}
		if _, dup := seen[d.Key]; dup {
			return nil, fmt.Errorf("catalog: duplicate analyte key %q", d.Key)
		}
		if d.Pattern == nil || d.Pattern.NumSubexp() < 1 {
			return nil, fmt.Errorf("catalog: analyte %q needs a pattern with a capture group", d.Key)
		}
		seen[d.Key] = struct{}{}
	}
	return &Catalog{defs: defs}, nil
}

// Defs returns the definitions in catalog order.
func (c *Catalog) Defs() []AnalyteDef { return c.defs }

// numCapture matches a signed decimal following the analyte label, stopping
// at newlines so a label never picks up a value from the next row.
const numCapture = `[^\d\n]*([+-]?\d+(?:\.\d+)?)`

// DefaultCatalog returns the built-in analyte set. Patterns accept the
// common synonyms and abbreviations seen on printed reports.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog([]AnalyteDef{
		{Key: "hemoglobin", Pattern: regexp.MustCompile(`(?i)(?:hemoglobin|hgb)` + numCapture)},
		{Key: "wbc_count", Pattern: regexp.MustCompile(`(?i)(?:wbc|white\s*blood\s*cell)` + numCapture)},
		{Key: "platelet_count", Pattern: regexp.MustCompile(`(?i)(?:platelet|plt)` + numCapture)},
		{Key: "glucose", Pattern: regexp.MustCompile(`(?i)(?:glucose|blood\s*sugar)` + numCapture)},
		{Key: "rbc_count", Pattern: regexp.MustCompile(`(?i)(?:rbc|red\s*blood\s*cell)` + numCapture)},
		{Key: "hematocrit", Pattern: regexp.MustCompile(`(?i)(?:hematocrit|hct|pcv)` + numCapture)},
		{Key: "esr", Pattern: regexp.MustCompile(`(?i)(?:esr|erythrocyte\s*sedimentation\s*rate)` + numCapture)},
	})
	if err != nil {
		panic(err) // static definitions; unreachable unless edited badly
	}
	return c
}

// Range pairs a reference interval with its display unit.
type Range struct {
	Interval Interval
	Unit     string
}

// ReferenceTable maps gender → analyte key → reference range. Immutable
// after construction; safe for concurrent lookups.
type ReferenceTable struct {
	byGender map[Gender]map[string]Range
}

// NewReferenceTable validates that every interval satisfies Lo <= Hi.
func NewReferenceTable(byGender map[Gender]map[string]Range) (*ReferenceTable, error) {
	for g, ranges := range byGender {
		for key, r := range ranges {
			if r.Interval.Lo > r.Interval.Hi {
				return nil, fmt.Errorf("reference table: %s/%s: lo %g > hi %g",
					g, key, r.Interval.Lo, r.Interval.Hi)
			}
		}
	}
	return &ReferenceTable{byGender: byGender}, nil
}

// Lookup returns the range for an analyte under the given gender.
func (t *ReferenceTable) Lookup(g Gender, key string) (Range, bool) {
	ranges, ok := t.byGender[g]
	if !ok {
		return Range{}, false
	}
	r, ok := ranges[key]
	return r, ok
}

// DefaultReferenceTable returns the built-in gender-keyed reference ranges.
// esr deliberately has no entry: its value is still extracted and reported
// with NoReferenceRange status.
func DefaultReferenceTable() *ReferenceTable {
	t, err := NewReferenceTable(map[Gender]map[string]Range{
		GenderMale: {
			"hemoglobin":     {Interval{13.5, 17.5}, "g/dL"},
			"wbc_count":      {Interval{4000, 11000}, "cells/µL"},
			"platelet_count": {Interval{150000, 450000}, "cells/µL"},
			"glucose":        {Interval{70, 100}, "mg/dL"},
			"rbc_count":      {Interval{4.5, 5.9}, "million/µL"},
			"hematocrit":     {Interval{38.8, 50.0}, "%"},
		},
		GenderFemale: {
			"hemoglobin":     {Interval{12.0, 15.5}, "g/dL"},
			"wbc_count":      {Interval{4000, 11000}, "cells/µL"},
			"platelet_count": {Interval{150000, 450000}, "cells/µL"},
			"glucose":        {Interval{70, 100}, "mg/dL"},
			"rbc_count":      {Interval{4.1, 5.1}, "million/µL"},
			"hematocrit":     {Interval{34.9, 44.5}, "%"},
		},
	})
	if err != nil {
		panic(err) // static definitions; unreachable unless edited badly
	}
	return t
}
