package fields

// Category names the extractable field categories of an announcement.
type Category string

const (
	CategoryPrograms         Category = "programas_educativos"
	CategoryAmounts          Category = "cuantias"
	CategoryExcellence       Category = "excelencia_tramos"
	CategoryIncomeThresholds Category = "umbrales_renta"
	CategoryAssetThresholds  Category = "umbrales_patrimonio"
	CategoryAcademic         Category = "requisitos_academicos"
	CategoryInsular          Category = "suplementos_insulares"
	CategoryDeductions       Category = "deducciones_renta"
	CategoryDisability       Category = "discapacidad"
	CategoryDeadlines        Category = "plazos_solicitud"
)

// Programs holds the free-text list of covered educational programs
// (Artículo 3, «Enseñanzas comprendidas»).
type Programs struct {
	Texto string `json:"texto"`
}

// PresentLeaves counts the populated scalar values in the category.
func (p *Programs) PresentLeaves() int {
	if p.Texto == "" {
		return 0
	}
	return 1
}

// AmountSet holds the six named scholarship amounts in euros.
type AmountSet struct {
	RentaFija      Field[float64] `json:"cuantia_renta_fija"`
	Residencia     Field[float64] `json:"cuantia_residencia"`
	BecaBasica     Field[float64] `json:"beca_basica"`
	VariableMinima Field[float64] `json:"cuantia_variable_minima"`
	ExcelenciaMin  Field[float64] `json:"excelencia_min"`
	ExcelenciaMax  Field[float64] `json:"excelencia_max"`
}

func (a *AmountSet) PresentLeaves() int {
	return countPresent(a.RentaFija, a.Residencia, a.BecaBasica,
		a.VariableMinima, a.ExcelenciaMin, a.ExcelenciaMax)
}

// ExcellenceBracket maps one grade-point range to a bonus amount. An absent
// High marks the open-ended top bracket («9,50 puntos o más»).
type ExcellenceBracket struct {
	Low    float64        `json:"nota_min"`
	High   Field[float64] `json:"nota_max"`
	Amount float64        `json:"cuantia_euros"`
}

// ExcellenceTable is the ordered bracket list. Legally the brackets partition
// [8.00, ∞) without gaps or overlaps; the validator checks that, the parser
// does not assume it.
type ExcellenceTable struct {
	Brackets []ExcellenceBracket `json:"tramos"`
}

// AmountFor resolves the bonus amount for a grade, if any bracket covers it.
func (t *ExcellenceTable) AmountFor(grade float64) (float64, bool) {
	for _, b := range t.Brackets {
		if grade < b.Low {
			continue
		}
		if high, ok := b.High.Get(); ok && grade > high {
			continue
		}
		return b.Amount, true
	}
	return 0, false
}

func (t *ExcellenceTable) PresentLeaves() int {
	n := 0
	for _, b := range t.Brackets {
		n += 2 // Low and Amount
		if b.High.IsPresent() {
			n++
		}
	}
	return n
}

// ThresholdLevels is the number of income threshold levels.
const ThresholdLevels = 3

// MaxFamilySize is the largest family size the threshold tables enumerate.
const MaxFamilySize = 8

// IncomeThresholds is the maximum-income table indexed by threshold level
// (1–3) and family size (1–8).
type IncomeThresholds struct {
	Values [ThresholdLevels][MaxFamilySize]Field[float64] `json:"valores"`
}

// Value returns the threshold for a level and family size.
func (t *IncomeThresholds) Value(level, familySize int) (float64, bool) {
	if level < 1 || level > ThresholdLevels || familySize < 1 || familySize > MaxFamilySize {
		return 0, false
	}
	return t.Values[level-1][familySize-1].Get()
}

func (t *IncomeThresholds) set(level, familySize int, f Field[float64]) {
	if level >= 1 && level <= ThresholdLevels && familySize >= 1 && familySize <= MaxFamilySize {
		t.Values[level-1][familySize-1] = f
	}
}

func (t *IncomeThresholds) PresentLeaves() int {
	n := 0
	for _, level := range t.Values {
		for _, f := range level {
			if f.IsPresent() {
				n++
			}
		}
	}
	return n
}

// AssetThresholds holds the indicative family asset ceilings (Artículo 20).
type AssetThresholds struct {
	FincasUrbanas            Field[float64] `json:"fincas_urbanas_limite"`
	ConstruccionesRusticas   Field[float64] `json:"construcciones_rusticas_limite"`
	FincasRusticasPorMiembro Field[float64] `json:"fincas_rusticas_limite_por_miembro"`
	CapitalMobiliario        Field[float64] `json:"capital_mobiliario_limite"`
}

func (a *AssetThresholds) PresentLeaves() int {
	return countPresent(a.FincasUrbanas, a.ConstruccionesRusticas,
		a.FincasRusticasPorMiembro, a.CapitalMobiliario)
}

// KnowledgeBranches enumerates the university knowledge areas of the credit
// pass-rate table, in the order the announcement lists them.
var KnowledgeBranches = []string{
	"Artes y Humanidades",
	"Ciencias",
	"Ciencias Sociales y Jurídicas",
	"Ciencias de la Salud",
	"Ingeniería y Arquitectura",
}

// AcademicRequirements holds enrollment credit minimums, the university entry
// grade, and the pass-rate percentage per knowledge branch.
type AcademicRequirements struct {
	CreditosTiempoCompleto Field[int]     `json:"creditos_tiempo_completo"`
	CreditosParcial        Field[int]     `json:"creditos_matricula_parcial"`
	NotaAcceso             Field[float64] `json:"nota_acceso_universidad"`

	// PorcentajePorRama maps knowledge branch to the required percentage of
	// passed credits. A branch missing from the map was not found.
	PorcentajePorRama map[string]float64 `json:"porcentaje_creditos_por_rama,omitempty"`
}

func (a *AcademicRequirements) PresentLeaves() int {
	n := len(a.PorcentajePorRama)
	if a.CreditosTiempoCompleto.IsPresent() {
		n++
	}
	if a.CreditosParcial.IsPresent() {
		n++
	}
	if a.NotaAcceso.IsPresent() {
		n++
	}
	return n
}

// InsularSupplements holds the travel-cost supplements for island and
// Ceuta/Melilla students (Artículo 12). FPCanarias exists only from the
// 2023-2024 announcement on; before that it is absent, never zero.
type InsularSupplements struct {
	Basico                       Field[float64] `json:"suplemento_insular_basico"`
	IslasRemotas                 Field[float64] `json:"suplemento_islas_remotas"`
	InterinsularPeninsula        Field[float64] `json:"suplemento_interinsular_peninsula"`
	InterinsularPeninsulaRemotas Field[float64] `json:"suplemento_interinsular_peninsula_remotas"`
	FPCanarias                   Field[float64] `json:"suplemento_fp_canarias"`
}

func (s *InsularSupplements) PresentLeaves() int {
	return countPresent(s.Basico, s.IslasRemotas, s.InterinsularPeninsula,
		s.InterinsularPeninsulaRemotas, s.FPCanarias)
}

// IncomeDeductions holds the amounts subtracted from computed family income
// before threshold comparison (Artículo 18).
type IncomeDeductions struct {
	FamiliaNumerosaGeneral      Field[float64] `json:"deduccion_familia_numerosa_general"`
	FamiliaNumerosaEspecial     Field[float64] `json:"deduccion_familia_numerosa_especial"`
	Discapacidad33              Field[float64] `json:"deduccion_discapacidad_33"`
	Discapacidad65              Field[float64] `json:"deduccion_discapacidad_65"`
	Discapacidad65Universitario Field[float64] `json:"deduccion_discapacidad_65_universitario"`
	HermanoFuera                Field[float64] `json:"deduccion_hermano_universitario_fuera"`
	HuerfanoPorcentaje          Field[float64] `json:"deduccion_huerfano_porcentaje"`
	Monoparental                Field[float64] `json:"deduccion_familia_monoparental"`
}

func (d *IncomeDeductions) PresentLeaves() int {
	return countPresent(d.FamiliaNumerosaGeneral, d.FamiliaNumerosaEspecial,
		d.Discapacidad33, d.Discapacidad65, d.Discapacidad65Universitario,
		d.HermanoFuera, d.HuerfanoPorcentaje, d.Monoparental)
}

// DisabilityProvisions holds the disability-related enrollment provisions
// (Artículo 13). Incremento25a65 is only stated from the 2025-2026
// announcement on.
type DisabilityProvisions struct {
	ReduccionCargaMinima        Field[float64] `json:"reduccion_carga_discapacidad_minima"`
	Incremento25a65             Field[float64] `json:"incremento_discapacidad_25_65"`
	IncrementoMatriculaCompleta Field[float64] `json:"incremento_matricula_completa"`
}

func (d *DisabilityProvisions) PresentLeaves() int {
	return countPresent(d.ReduccionCargaMinima, d.Incremento25a65, d.IncrementoMatriculaCompleta)
}

// Deadlines holds the application window dates.
type Deadlines struct {
	Apertura         Field[Date] `json:"apertura"`
	Universitarios   Field[Date] `json:"universitarios"`
	NoUniversitarios Field[Date] `json:"no_universitarios"`
}

func (d *Deadlines) PresentLeaves() int {
	n := 0
	if d.Apertura.IsPresent() {
		n++
	}
	if d.Universitarios.IsPresent() {
		n++
	}
	if d.NoUniversitarios.IsPresent() {
		n++
	}
	return n
}

func countPresent(fs ...Field[float64]) int {
	n := 0
	for _, f := range fs {
		if f.IsPresent() {
			n++
		}
	}
	return n
}
