package fields

import "fmt"

// Failures lists the sub-fields of each category whose extraction failed.
// Absent fields are not failures: a provision that does not exist in a given
// year is expected to be absent.

func failureOf[T any](category Category, name string, f Field[T], out *[]ParseFailure) {
	if f.IsFailed() {
		*out = append(*out, ParseFailure{Category: string(category), Field: name, Reason: f.Reason})
	}
}

// Failures returns the failed amounts.
func (a *AmountSet) Failures() []ParseFailure {
	var out []ParseFailure
	failureOf(CategoryAmounts, "cuantia_renta_fija", a.RentaFija, &out)
	failureOf(CategoryAmounts, "cuantia_residencia", a.Residencia, &out)
	failureOf(CategoryAmounts, "beca_basica", a.BecaBasica, &out)
	failureOf(CategoryAmounts, "cuantia_variable_minima", a.VariableMinima, &out)
	failureOf(CategoryAmounts, "excelencia_min", a.ExcelenciaMin, &out)
	failureOf(CategoryAmounts, "excelencia_max", a.ExcelenciaMax, &out)
	return out
}

// Failures returns the failed threshold cells, named by level and family size.
func (t *IncomeThresholds) Failures() []ParseFailure {
	var out []ParseFailure
	for level := 1; level <= ThresholdLevels; level++ {
		for size := 1; size <= MaxFamilySize; size++ {
			f := t.Values[level-1][size-1]
			if f.IsFailed() {
				out = append(out, ParseFailure{
					Category: string(CategoryIncomeThresholds),
					Field:    thresholdCellName(level, size),
					Reason:   f.Reason,
				})
			}
		}
	}
	return out
}

func thresholdCellName(level, size int) string {
	return fmt.Sprintf("umbral_%d_miembros_%d", level, size)
}

// Failures returns the failed asset ceilings.
func (a *AssetThresholds) Failures() []ParseFailure {
	var out []ParseFailure
	failureOf(CategoryAssetThresholds, "fincas_urbanas_limite", a.FincasUrbanas, &out)
	failureOf(CategoryAssetThresholds, "construcciones_rusticas_limite", a.ConstruccionesRusticas, &out)
	failureOf(CategoryAssetThresholds, "fincas_rusticas_limite_por_miembro", a.FincasRusticasPorMiembro, &out)
	failureOf(CategoryAssetThresholds, "capital_mobiliario_limite", a.CapitalMobiliario, &out)
	return out
}

// Failures returns the failed academic requirement fields.
func (a *AcademicRequirements) Failures() []ParseFailure {
	var out []ParseFailure
	failureOf(CategoryAcademic, "creditos_tiempo_completo", a.CreditosTiempoCompleto, &out)
	failureOf(CategoryAcademic, "creditos_matricula_parcial", a.CreditosParcial, &out)
	failureOf(CategoryAcademic, "nota_acceso_universidad", a.NotaAcceso, &out)
	return out
}

// Failures returns the failed insular supplements.
func (s *InsularSupplements) Failures() []ParseFailure {
	var out []ParseFailure
	failureOf(CategoryInsular, "suplemento_insular_basico", s.Basico, &out)
	failureOf(CategoryInsular, "suplemento_islas_remotas", s.IslasRemotas, &out)
	failureOf(CategoryInsular, "suplemento_interinsular_peninsula", s.InterinsularPeninsula, &out)
	failureOf(CategoryInsular, "suplemento_interinsular_peninsula_remotas", s.InterinsularPeninsulaRemotas, &out)
	failureOf(CategoryInsular, "suplemento_fp_canarias", s.FPCanarias, &out)
	return out
}

// Failures returns the failed deductions.
func (d *IncomeDeductions) Failures() []ParseFailure {
	var out []ParseFailure
	failureOf(CategoryDeductions, "deduccion_familia_numerosa_general", d.FamiliaNumerosaGeneral, &out)
	failureOf(CategoryDeductions, "deduccion_familia_numerosa_especial", d.FamiliaNumerosaEspecial, &out)
	failureOf(CategoryDeductions, "deduccion_discapacidad_33", d.Discapacidad33, &out)
	failureOf(CategoryDeductions, "deduccion_discapacidad_65", d.Discapacidad65, &out)
	failureOf(CategoryDeductions, "deduccion_discapacidad_65_universitario", d.Discapacidad65Universitario, &out)
	failureOf(CategoryDeductions, "deduccion_hermano_universitario_fuera", d.HermanoFuera, &out)
	failureOf(CategoryDeductions, "deduccion_huerfano_porcentaje", d.HuerfanoPorcentaje, &out)
	failureOf(CategoryDeductions, "deduccion_familia_monoparental", d.Monoparental, &out)
	return out
}

// Failures returns the failed disability provisions.
func (d *DisabilityProvisions) Failures() []ParseFailure {
	var out []ParseFailure
	failureOf(CategoryDisability, "reduccion_carga_discapacidad_minima", d.ReduccionCargaMinima, &out)
	failureOf(CategoryDisability, "incremento_discapacidad_25_65", d.Incremento25a65, &out)
	failureOf(CategoryDisability, "incremento_matricula_completa", d.IncrementoMatriculaCompleta, &out)
	return out
}

// Failures returns the failed deadline dates.
func (d *Deadlines) Failures() []ParseFailure {
	var out []ParseFailure
	failureOf(CategoryDeadlines, "apertura", d.Apertura, &out)
	failureOf(CategoryDeadlines, "universitarios", d.Universitarios, &out)
	failureOf(CategoryDeadlines, "no_universitarios", d.NoUniversitarios, &out)
	return out
}
