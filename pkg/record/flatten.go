package record

import (
	"encoding/json"
	"fmt"
)

// FlatRecord is the spreadsheet projection of a Record: scalar columns stay
// scalar and each nested category is serialized as an embedded JSON string.
// The projection is lossless: Expand reproduces the original nested Record.
type FlatRecord struct {
	Fichero              string `json:"fichero" csv:"fichero"`
	CursoAcademico       string `json:"curso_academico" csv:"curso_academico"`
	Programas            string `json:"programas_educativos" csv:"programas_educativos"`
	Cuantias             string `json:"cuantias" csv:"cuantias"`
	ExcelenciaTramos     string `json:"excelencia_tramos" csv:"excelencia_tramos"`
	UmbralesRenta        string `json:"umbrales_renta" csv:"umbrales_renta"`
	UmbralesPatrimonio   string `json:"umbrales_patrimonio" csv:"umbrales_patrimonio"`
	RequisitosAcademicos string `json:"requisitos_academicos" csv:"requisitos_academicos"`
	SuplementosInsulares string `json:"suplementos_insulares" csv:"suplementos_insulares"`
	DeduccionesRenta     string `json:"deducciones_renta" csv:"deducciones_renta"`
	Discapacidad         string `json:"discapacidad" csv:"discapacidad"`
	PlazosSolicitud      string `json:"plazos_solicitud" csv:"plazos_solicitud"`
	ValidationReport     string `json:"validation_report" csv:"validation_report"`
}

// FlatColumns returns the column headers in projection order.
func FlatColumns() []string {
	return []string{
		"fichero", "curso_academico", "programas_educativos", "cuantias",
		"excelencia_tramos", "umbrales_renta", "umbrales_patrimonio",
		"requisitos_academicos", "suplementos_insulares", "deducciones_renta",
		"discapacidad", "plazos_solicitud", "validation_report",
	}
}

// Columns returns the row's cell values in projection order.
func (f *FlatRecord) Columns() []string {
	return []string{
		f.Fichero, f.CursoAcademico, f.Programas, f.Cuantias,
		f.ExcelenciaTramos, f.UmbralesRenta, f.UmbralesPatrimonio,
		f.RequisitosAcademicos, f.SuplementosInsulares, f.DeduccionesRenta,
		f.Discapacidad, f.PlazosSolicitud, f.ValidationReport,
	}
}

// Flatten projects the record into its flat form. An absent category becomes
// an empty cell, which Expand maps back to nil.
func (r *Record) Flatten() (*FlatRecord, error) {
	flat := &FlatRecord{
		Fichero:        r.SourceID,
		CursoAcademico: r.AcademicYear,
	}
	if err := firstErr(
		embedJSON(r.Programas, &flat.Programas),
		embedJSON(r.Cuantias, &flat.Cuantias),
		embedJSON(r.ExcelenciaTramos, &flat.ExcelenciaTramos),
		embedJSON(r.UmbralesRenta, &flat.UmbralesRenta),
		embedJSON(r.UmbralesPatrimonio, &flat.UmbralesPatrimonio),
		embedJSON(r.RequisitosAcademicos, &flat.RequisitosAcademicos),
		embedJSON(r.SuplementosInsulares, &flat.SuplementosInsulares),
		embedJSON(r.DeduccionesRenta, &flat.DeduccionesRenta),
		embedJSON(r.Discapacidad, &flat.Discapacidad),
		embedJSON(r.PlazosSolicitud, &flat.PlazosSolicitud),
		embedJSON(r.ValidationReport, &flat.ValidationReport),
	); err != nil {
		return nil, err
	}
	return flat, nil
}

// Expand reverses Flatten.
func (f *FlatRecord) Expand() (*Record, error) {
	rec := &Record{
		SourceID:     f.Fichero,
		AcademicYear: f.CursoAcademico,
	}
	if err := firstErr(
		expandJSON(f.Programas, &rec.Programas),
		expandJSON(f.Cuantias, &rec.Cuantias),
		expandJSON(f.ExcelenciaTramos, &rec.ExcelenciaTramos),
		expandJSON(f.UmbralesRenta, &rec.UmbralesRenta),
		expandJSON(f.UmbralesPatrimonio, &rec.UmbralesPatrimonio),
		expandJSON(f.RequisitosAcademicos, &rec.RequisitosAcademicos),
		expandJSON(f.SuplementosInsulares, &rec.SuplementosInsulares),
		expandJSON(f.DeduccionesRenta, &rec.DeduccionesRenta),
		expandJSON(f.Discapacidad, &rec.Discapacidad),
		expandJSON(f.PlazosSolicitud, &rec.PlazosSolicitud),
		expandJSON(f.ValidationReport, &rec.ValidationReport),
	); err != nil {
		return nil, err
	}
	return rec, nil
}

// embedJSON serializes a category pointer into its cell, mapping nil to the
// empty cell.
func embedJSON[T any](v *T, dst *string) error {
	if v == nil {
		*dst = ""
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("flattening category: %w", err)
	}
	*dst = string(data)
	return nil
}

// expandJSON fills a category pointer from its embedded JSON cell.
func expandJSON[T any](cell string, dst **T) error {
	if cell == "" {
		*dst = nil
		return nil
	}
	var v T
	if err := json.Unmarshal([]byte(cell), &v); err != nil {
		return fmt.Errorf("expanding category: %w", err)
	}
	*dst = &v
	return nil
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
