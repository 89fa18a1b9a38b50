// Package validate runs consistency checks over assembled announcement
// records. All findings are advisory: they are appended to the record's
// validation report and never alter the extracted values.
package validate

import (
	"fmt"

	"github.com/ijm11/becas-extractor/pkg/fields"
	"github.com/ijm11/becas-extractor/pkg/record"
)

// Default bounds for the expected number of populated leaf values in a fully
// extracted announcement. Announcements gain provisions over the years, so
// the upper bound leaves headroom.
const (
	DefaultMinLeaves = 72
	DefaultMaxLeaves = 82
)

// gradeStep is the resolution of grade-point boundaries in the excellence
// bracket table (grades are stated to two decimals).
const gradeStep = 0.01

const gradeEpsilon = 1e-6

// Validator checks assembled records for internal consistency.
type Validator struct {
	// MinLeaves and MaxLeaves bound the expected leaf count. A count outside
	// the range usually means a segmentation or parsing regression, not a
	// genuinely different announcement.
	MinLeaves int
	MaxLeaves int
}

// New returns a validator with the default leaf-count bounds.
func New() *Validator {
	return &Validator{MinLeaves: DefaultMinLeaves, MaxLeaves: DefaultMaxLeaves}
}

// Validate runs all checks against the record, appending findings to its
// validation report. The report is created if the record has none yet.
func (v *Validator) Validate(rec *record.Record) *record.ValidationReport {
	report := rec.ValidationReport
	if report == nil {
		report = &record.ValidationReport{}
		rec.ValidationReport = report
	}

	v.checkLeafCount(rec, report)
	checkParseFailures(rec, report)
	checkIncomeThresholds(rec.UmbralesRenta, report)
	checkExcellenceBrackets(rec.ExcelenciaTramos, report)
	checkDeadlines(rec.PlazosSolicitud, report)

	return report
}

// ValidateCorpus validates every record in the corpus.
func (v *Validator) ValidateCorpus(corpus record.Corpus) {
	for _, rec := range corpus {
		v.Validate(rec)
	}
}

func (v *Validator) checkLeafCount(rec *record.Record, report *record.ValidationReport) {
	n := rec.LeafCount()
	if n < v.MinLeaves || n > v.MaxLeaves {
		report.Add(record.AnomalyInvariant, "",
			fmt.Sprintf("leaf count %d outside expected range [%d, %d]", n, v.MinLeaves, v.MaxLeaves))
	}
}

// failureSource is implemented by every category that can report failed
// sub-fields.
type failureSource interface {
	Failures() []fields.ParseFailure
}

func checkParseFailures(rec *record.Record, report *record.ValidationReport) {
	sources := []failureSource{}
	if rec.Cuantias != nil {
		sources = append(sources, rec.Cuantias)
	}
	if rec.UmbralesRenta != nil {
		sources = append(sources, rec.UmbralesRenta)
	}
	if rec.UmbralesPatrimonio != nil {
		sources = append(sources, rec.UmbralesPatrimonio)
	}
	if rec.RequisitosAcademicos != nil {
		sources = append(sources, rec.RequisitosAcademicos)
	}
	if rec.SuplementosInsulares != nil {
		sources = append(sources, rec.SuplementosInsulares)
	}
	if rec.DeduccionesRenta != nil {
		sources = append(sources, rec.DeduccionesRenta)
	}
	if rec.Discapacidad != nil {
		sources = append(sources, rec.Discapacidad)
	}
	if rec.PlazosSolicitud != nil {
		sources = append(sources, rec.PlazosSolicitud)
	}

	for _, src := range sources {
		for _, f := range src.Failures() {
			report.Add(record.AnomalyParseFailure, f.Category,
				fmt.Sprintf("%s: %s", f.Field, f.Reason))
		}
	}
}

// checkIncomeThresholds verifies that thresholds grow with family size within
// a level, and with the level for a fixed family size. Absent cells are
// skipped: a missing cell is a coverage issue, not an ordering violation.
func checkIncomeThresholds(t *fields.IncomeThresholds, report *record.ValidationReport) {
	if t == nil {
		return
	}
	category := string(fields.CategoryIncomeThresholds)

	for level := 1; level <= fields.ThresholdLevels; level++ {
		prev, havePrev := 0.0, false
		prevSize := 0
		for size := 1; size <= fields.MaxFamilySize; size++ {
			val, ok := t.Value(level, size)
			if !ok {
				continue
			}
			if havePrev && val < prev {
				report.Add(record.AnomalyInvariant, category,
					fmt.Sprintf("umbral %d decreases from %.2f (size %d) to %.2f (size %d)",
						level, prev, prevSize, val, size))
			}
			prev, havePrev, prevSize = val, true, size
		}
	}

	for size := 1; size <= fields.MaxFamilySize; size++ {
		prev, havePrev := 0.0, false
		prevLevel := 0
		for level := 1; level <= fields.ThresholdLevels; level++ {
			val, ok := t.Value(level, size)
			if !ok {
				continue
			}
			if havePrev && val < prev {
				report.Add(record.AnomalyInvariant, category,
					fmt.Sprintf("threshold for size %d decreases from %.2f (umbral %d) to %.2f (umbral %d)",
						size, prev, prevLevel, val, level))
			}
			prev, havePrev, prevLevel = val, true, level
		}
	}
}

// checkExcellenceBrackets verifies that the bracket list partitions the grade
// axis: brackets are ordered, consecutive boundaries meet at one grade step,
// and only the final bracket is open-ended.
func checkExcellenceBrackets(t *fields.ExcellenceTable, report *record.ValidationReport) {
	if t == nil || len(t.Brackets) == 0 {
		return
	}
	category := string(fields.CategoryExcellence)

	for i, b := range t.Brackets {
		high, closed := b.High.Get()
		if closed && high < b.Low {
			report.Add(record.AnomalyInvariant, category,
				fmt.Sprintf("bracket %d is inverted: %.2f-%.2f", i+1, b.Low, high))
			continue
		}

		last := i == len(t.Brackets)-1
		if !closed && !last {
			report.Add(record.AnomalyInvariant, category,
				fmt.Sprintf("bracket %d (from %.2f) is open-ended but not last", i+1, b.Low))
			continue
		}
		if last {
			continue
		}

		next := t.Brackets[i+1]
		gap := next.Low - high
		switch {
		case gap <= gradeEpsilon:
			report.Add(record.AnomalyInvariant, category,
				fmt.Sprintf("brackets %d and %d overlap at %.2f", i+1, i+2, next.Low))
		case gap > gradeStep+gradeEpsilon:
			report.Add(record.AnomalyInvariant, category,
				fmt.Sprintf("gap between %.2f and %.2f leaves grades uncovered", high, next.Low))
		}
	}
}

// checkDeadlines verifies that the application window opens before it closes.
func checkDeadlines(d *fields.Deadlines, report *record.ValidationReport) {
	if d == nil {
		return
	}
	apertura, ok := d.Apertura.Get()
	if !ok {
		return
	}
	category := string(fields.CategoryDeadlines)

	if uni, ok := d.Universitarios.Get(); ok && uni.Before(apertura) {
		report.Add(record.AnomalyInvariant, category,
			fmt.Sprintf("university deadline %s precedes opening %s", uni, apertura))
	}
	if noUni, ok := d.NoUniversitarios.Get(); ok && noUni.Before(apertura) {
		report.Add(record.AnomalyInvariant, category,
			fmt.Sprintf("non-university deadline %s precedes opening %s", noUni, apertura))
	}
}
