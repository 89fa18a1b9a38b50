// Package record assembles parsed field categories into the canonical
// per-year record and provides its flattened spreadsheet projection.
package record

import (
	"fmt"

	"github.com/ijm11/becas-extractor/pkg/fields"
)

// AnomalyKind classifies a validation finding.
type AnomalyKind string

const (
	// AnomalySegmentationMiss marks an expected article heading not found.
	AnomalySegmentationMiss AnomalyKind = "segmentation_miss"

	// AnomalyDispatchMiss marks a span matching no strategy marker.
	AnomalyDispatchMiss AnomalyKind = "dispatch_miss"

	// AnomalyParseFailure marks a matched marker whose value could not be
	// extracted or failed validation.
	AnomalyParseFailure AnomalyKind = "parse_failure"

	// AnomalyInvariant marks a present value violating a legal invariant.
	AnomalyInvariant AnomalyKind = "invariant"
)

// Anomaly is one validation finding: advisory, never fatal.
type Anomaly struct {
	Kind     AnomalyKind `json:"kind"`
	Category string      `json:"category"`
	Reason   string      `json:"reason"`
}

// ValidationReport collects the anomalies found for one record. A record
// with anomalies is still returned to the caller: extraction is best-effort
// structured capture, and partial correctness with visible warnings beats
// withheld output.
type ValidationReport struct {
	Anomalies []Anomaly `json:"anomalies"`
}

// Add appends a finding.
func (r *ValidationReport) Add(kind AnomalyKind, category, reason string) {
	r.Anomalies = append(r.Anomalies, Anomaly{Kind: kind, Category: category, Reason: reason})
}

// HasKind reports whether any finding of the given kind was recorded.
func (r *ValidationReport) HasKind(kind AnomalyKind) bool {
	for _, a := range r.Anomalies {
		if a.Kind == kind {
			return true
		}
	}
	return false
}

// ByCategory returns the findings touching one category.
func (r *ValidationReport) ByCategory(category string) []Anomaly {
	var out []Anomaly
	for _, a := range r.Anomalies {
		if a.Category == category {
			out = append(out, a)
		}
	}
	return out
}

// Record is the assembled result for one academic year. A nil category means
// the provision was not found that year; the validation report says why.
type Record struct {
	AcademicYear string `json:"curso_academico"`
	SourceID     string `json:"fichero"`

	Programas            *fields.Programs             `json:"programas_educativos,omitempty"`
	Cuantias             *fields.AmountSet            `json:"cuantias,omitempty"`
	ExcelenciaTramos     *fields.ExcellenceTable      `json:"excelencia_tramos,omitempty"`
	UmbralesRenta        *fields.IncomeThresholds     `json:"umbrales_renta,omitempty"`
	UmbralesPatrimonio   *fields.AssetThresholds      `json:"umbrales_patrimonio,omitempty"`
	RequisitosAcademicos *fields.AcademicRequirements `json:"requisitos_academicos,omitempty"`
	SuplementosInsulares *fields.InsularSupplements   `json:"suplementos_insulares,omitempty"`
	DeduccionesRenta     *fields.IncomeDeductions     `json:"deducciones_renta,omitempty"`
	Discapacidad         *fields.DisabilityProvisions `json:"discapacidad,omitempty"`
	PlazosSolicitud      *fields.Deadlines            `json:"plazos_solicitud,omitempty"`

	ValidationReport *ValidationReport `json:"validation_report,omitempty"`
}

// Parts carries every parser's output into assembly, along with the
// anomalies the earlier stages already detected.
type Parts struct {
	Programas            *fields.Programs
	Cuantias             *fields.AmountSet
	ExcelenciaTramos     *fields.ExcellenceTable
	UmbralesRenta        *fields.IncomeThresholds
	UmbralesPatrimonio   *fields.AssetThresholds
	RequisitosAcademicos *fields.AcademicRequirements
	SuplementosInsulares *fields.InsularSupplements
	DeduccionesRenta     *fields.IncomeDeductions
	Discapacidad         *fields.DisabilityProvisions
	PlazosSolicitud      *fields.Deadlines

	Anomalies []Anomaly
}

// Assemble merges document metadata and parser outputs into one Record.
// It performs no parsing of its own. The only possible failure is an
// undeterminable academic year, the one condition that makes a record
// unusable.
func Assemble(academicYear, sourceID string, parts Parts) (*Record, error) {
	if academicYear == "" {
		return nil, fmt.Errorf("document %s: academic year undeterminable", sourceID)
	}
	rec := &Record{
		AcademicYear:         academicYear,
		SourceID:             sourceID,
		Programas:            parts.Programas,
		Cuantias:             parts.Cuantias,
		ExcelenciaTramos:     parts.ExcelenciaTramos,
		UmbralesRenta:        parts.UmbralesRenta,
		UmbralesPatrimonio:   parts.UmbralesPatrimonio,
		RequisitosAcademicos: parts.RequisitosAcademicos,
		SuplementosInsulares: parts.SuplementosInsulares,
		DeduccionesRenta:     parts.DeduccionesRenta,
		Discapacidad:         parts.Discapacidad,
		PlazosSolicitud:      parts.PlazosSolicitud,
		ValidationReport:     &ValidationReport{},
	}
	rec.ValidationReport.Anomalies = append(rec.ValidationReport.Anomalies, parts.Anomalies...)
	return rec, nil
}

// LeafCount counts the present scalar values across all categories plus the
// academic year itself. The documented range for a fully extracted record
// is 72 to 82.
func (r *Record) LeafCount() int {
	n := 0
	if r.AcademicYear != "" {
		n++
	}
	if r.Programas != nil {
		n += r.Programas.PresentLeaves()
	}
	if r.Cuantias != nil {
		n += r.Cuantias.PresentLeaves()
	}
	if r.ExcelenciaTramos != nil {
		n += r.ExcelenciaTramos.PresentLeaves()
	}
	if r.UmbralesRenta != nil {
		n += r.UmbralesRenta.PresentLeaves()
	}
	if r.UmbralesPatrimonio != nil {
		n += r.UmbralesPatrimonio.PresentLeaves()
	}
	if r.RequisitosAcademicos != nil {
		n += r.RequisitosAcademicos.PresentLeaves()
	}
	if r.SuplementosInsulares != nil {
		n += r.SuplementosInsulares.PresentLeaves()
	}
	if r.DeduccionesRenta != nil {
		n += r.DeduccionesRenta.PresentLeaves()
	}
	if r.Discapacidad != nil {
		n += r.Discapacidad.PresentLeaves()
	}
	if r.PlazosSolicitud != nil {
		n += r.PlazosSolicitud.PresentLeaves()
	}
	return n
}
