package report

import (
	"context"
	"strconv"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Analyzer applies the pattern catalog to report text and classifies each
// extracted value against the reference table. Both inputs are immutable,
// so one Analyzer is safe for concurrent use across requests.
type Analyzer struct {
	catalog *Catalog
	ranges  *ReferenceTable
}

func NewAnalyzer(catalog *Catalog, ranges *ReferenceTable) *Analyzer {
	return &Analyzer{catalog: catalog, ranges: ranges}
}

// resolveGender applies the documented gender policy: a male/female
// override wins; otherwise detection runs, and anything unresolved falls
// back to male.
func (a *Analyzer) resolveGender(text string, override Gender) Gender {
	if override == GenderMale || override == GenderFemale {
		return override
	}
	if g := DetectGender(text); g != GenderUnknown {
		return g
	}
	return GenderMale
}

// Analyze extracts every catalog analyte from the text and classifies it
// for the resolved gender. Analytes are independent, so matching runs in
// parallel; a value that fails to parse is silently omitted and never
// aborts the rest. The result always carries the gender actually used.
func (a *Analyzer) Analyze(ctx context.Context, text string, override Gender) Analysis {
	gender := a.resolveGender(text, override)
	findings := make(map[string]Finding, len(a.catalog.Defs()))

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	for _, def := range a.catalog.Defs() {
		def := def
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			f, ok := a.analyzeOne(def, text, gender)
			if !ok {
				return nil
			}
			mu.Lock()
			findings[def.Key] = f
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait() // workers never return errors

	return Analysis{Gender: gender, Findings: findings}
}

// analyzeOne applies a single analyte pattern. First match wins: reports
// often repeat a value in a summary table and a detail table, and the first
// occurrence is treated as authoritative.
func (a *Analyzer) analyzeOne(def AnalyteDef, text string, gender Gender) (Finding, bool) {
	m := def.Pattern.FindStringSubmatch(text)
	if m == nil {
		return Finding{}, false
	}
	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		// Local, silent: the key is omitted, analysis continues.
		return Finding{}, false
	}

	r, ok := a.ranges.Lookup(gender, def.Key)
	if !ok {
		return Finding{
			Value:  value,
			Unit:   fieldUnknown,
			Status: StatusNoReferenceRange,
		}, true
	}

	status := StatusAbnormal
	if r.Interval.Contains(value) {
		status = StatusNormal
	}
	return Finding{
		Value:       value,
		Unit:        r.Unit,
		Status:      status,
		NormalRange: r.Interval.Display(),
	}, true
}
