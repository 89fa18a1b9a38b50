package fields

import (
	"regexp"

	"github.com/ijm11/becas-extractor/pkg/dispatch"
)

var (
	familiaGeneralPattern = regexp.MustCompile(`(?is)([\d.,]+)\s*euros.{0,120}?familias\s+numerosas\s+de\s+categoría\s+general`)

	familiaEspecialPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?is)categoría\s+general\s+y\s+([\d.,]+)\s*euros`),
		regexp.MustCompile(`(?is)([\d.,]+)\s*euros.{0,120}?familias\s+numerosas\s+de\s+categoría\s+especial`),
	}

	discapacidad33Pattern = regexp.MustCompile(`(?is)c\)\s*([\d.,]+)\s*euros.{0,160}?discapacidad.{0,120}?treinta\s+y\s+tres`)
	discapacidad65Pattern = regexp.MustCompile(`(?is)treinta\s+y\s+tres\s+por\s*ciento\s+y\s+([\d.,]+)\s*euros`)
	discapacidadUniPattern = regexp.MustCompile(`(?is)dicho\s+solicitante\s+será\s+de\s+([\d.,]+)\s*euros`)

	hermanoFueraPattern = regexp.MustCompile(`(?is)d\)\s*([\d.,]+)\s*euros.{0,160}?hermano.{0,120}?resida\s+fuera`)
	huerfanoPattern     = regexp.MustCompile(`(?is)e\)\s*(?:El\s+)?(\d+)\s*(?:%|por\s*ciento)`)
	monoparentalPattern = regexp.MustCompile(`(?is)f\)\s*([\d.,]+)\s*euros.{0,120}?monoparental`)
)

var deductionsTable = dispatch.NewTable[*IncomeDeductions](string(CategoryDeductions)).
	Register("prose", `(?i)deducciones\s+siguientes\s*:`, parseDeductionsProse)

// ParseIncomeDeductions extracts the family income deductions from the
// «Deducciones de la renta familiar» span. Each lettered deduction is
// matched independently; one missing letter leaves the rest intact.
func ParseIncomeDeductions(body string) (*IncomeDeductions, string, error) {
	return deductionsTable.Dispatch(body)
}

func parseDeductionsProse(body string) (*IncomeDeductions, error) {
	d := &IncomeDeductions{
		FamiliaNumerosaGeneral:      matchAmount(body, familiaGeneralPattern),
		Discapacidad33:              matchAmount(body, discapacidad33Pattern),
		Discapacidad65:              matchAmount(body, discapacidad65Pattern),
		Discapacidad65Universitario: matchAmount(body, discapacidadUniPattern),
		HermanoFuera:                matchAmount(body, hermanoFueraPattern),
		Monoparental:                matchAmount(body, monoparentalPattern),
	}

	d.FamiliaNumerosaEspecial = Absent[float64]()
	for _, p := range familiaEspecialPatterns {
		if f := matchAmount(body, p); !f.IsAbsent() {
			d.FamiliaNumerosaEspecial = f
			break
		}
	}

	d.HuerfanoPorcentaje = Absent[float64]()
	if m := huerfanoPattern.FindStringSubmatch(body); m != nil {
		if pct, err := ParsePercent(m[1]); err != nil {
			d.HuerfanoPorcentaje = Failed[float64](err.Error())
		} else {
			d.HuerfanoPorcentaje = Present(pct)
		}
	}

	return d, nil
}
