package fields

import (
	"regexp"

	"github.com/ijm11/becas-extractor/pkg/dispatch"
)

// Labeled-term windows: the amount must sit within a bounded distance of its
// label so that a match never leaks into a neighboring provision.
var (
	rentaFijaPattern  = regexp.MustCompile(`(?is)Cuantía\s+fija\s+ligada\s+a\s+la\s+renta.{0,120}?([\d.,]+)\s*euros`)
	residenciaPattern = regexp.MustCompile(`(?is)Cuantía\s+fija\s+ligada\s+a\s+la\s+residencia.{0,120}?([\d.,]+)\s*euros`)
	becaBasicaPattern = regexp.MustCompile(`(?is)Beca\s+básica.{0,120}?([\d.,]+)\s*euros`)

	variableMinimaPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?is)cuantía\s+variable.{0,160}?importe\s+mínimo.{0,60}?([\d.,]+)\s*euros`),
		regexp.MustCompile(`(?is)cuantía\s+variable.{0,160}?mínimo\s+será\s+de\s+([\d.,]+)\s*euros`),
	}

	excelenciaRangePattern = regexp.MustCompile(`(?is)excelencia\s+académica.{0,200}?entre\s+([\d.,]+)\s+y\s+([\d.,]+)\s*euros`)
)

var amountsTable = dispatch.NewTable[*AmountSet](string(CategoryAmounts)).
	Register("prose", `(?i)Cuantía\s+fija\s+ligada`, parseAmountsProse)

// ParseAmounts extracts the six named amounts from the «Cuantías de las
// becas» span. Sibling amounts are extracted independently: one missing
// label leaves the others intact.
func ParseAmounts(body string) (*AmountSet, string, error) {
	return amountsTable.Dispatch(body)
}

func parseAmountsProse(body string) (*AmountSet, error) {
	set := &AmountSet{
		RentaFija:  matchAmount(body, rentaFijaPattern),
		Residencia: matchAmount(body, residenciaPattern),
		BecaBasica: matchAmount(body, becaBasicaPattern),
	}

	set.VariableMinima = Absent[float64]()
	for _, p := range variableMinimaPatterns {
		if f := matchAmount(body, p); !f.IsAbsent() {
			set.VariableMinima = f
			break
		}
	}

	set.ExcelenciaMin, set.ExcelenciaMax = parseExcellenceRange(body)
	return set, nil
}

// parseExcellenceRange finds the excellence bonus range, first from the prose
// «entre X y Y euros» form, then from the bracket table's extremes.
func parseExcellenceRange(body string) (min, max Field[float64]) {
	if m := excelenciaRangePattern.FindStringSubmatch(body); m != nil {
		return amountField(m[1]), amountField(m[2])
	}

	table, _, err := ParseExcellence(body)
	if err != nil || len(table.Brackets) == 0 {
		return Absent[float64](), Absent[float64]()
	}
	lo, hi := table.Brackets[0].Amount, table.Brackets[0].Amount
	for _, b := range table.Brackets[1:] {
		if b.Amount < lo {
			lo = b.Amount
		}
		if b.Amount > hi {
			hi = b.Amount
		}
	}
	return Present(lo), Present(hi)
}

// matchAmount applies a labeled-amount pattern, distinguishing a missing
// label (absent) from a label whose amount does not parse (failed).
func matchAmount(body string, pattern *regexp.Regexp) Field[float64] {
	m := pattern.FindStringSubmatch(body)
	if m == nil {
		return Absent[float64]()
	}
	return amountField(m[1])
}

func amountField(raw string) Field[float64] {
	v, err := ParseAmount(raw)
	if err != nil {
		return Failed[float64](err.Error())
	}
	return Present(v)
}
