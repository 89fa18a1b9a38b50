package fields

import (
	"regexp"

	"github.com/ijm11/becas-extractor/pkg/dispatch"
)

// bracketSpec couples a bracket's grade range with the pattern that locates
// its amount. The top bracket is open-ended.
type bracketSpec struct {
	low     float64
	high    float64 // 0 marks the open-ended bracket
	pattern *regexp.Regexp
}

var bracketSpecs = []bracketSpec{
	{8.00, 8.49, regexp.MustCompile(`(?is)(?:Entre\s+)?8,00\s+y\s+8,49\s+puntos\s*[:.]?\s*([\d.,]+)\s*euros`)},
	{8.50, 8.99, regexp.MustCompile(`(?is)(?:Entre\s+)?8,50\s+y\s+8,99\s+puntos\s*[:.]?\s*([\d.,]+)\s*euros`)},
	{9.00, 9.49, regexp.MustCompile(`(?is)(?:Entre\s+)?9,00\s+y\s+9,49\s+puntos\s*[:.]?\s*([\d.,]+)\s*euros`)},
	{9.50, 0, regexp.MustCompile(`(?is)9,50\s+puntos\s+o\s+más\s*[:.]?\s*([\d.,]+)\s*euros`)},
}

var excellenceTable = dispatch.NewTable[*ExcellenceTable](string(CategoryExcellence)).
	Register("bracket_table", `(?i)8,00\s+y\s+8,49\s+puntos`, parseExcellenceBrackets)

// ParseExcellence extracts the four-tier excellence bracket table. A bracket
// whose row is missing is skipped rather than failing the table: legal text
// occasionally omits a row it expects the reader to infer, and the validator
// reports the resulting partition gap.
func ParseExcellence(body string) (*ExcellenceTable, string, error) {
	return excellenceTable.Dispatch(body)
}

func parseExcellenceBrackets(body string) (*ExcellenceTable, error) {
	table := &ExcellenceTable{}
	for _, spec := range bracketSpecs {
		m := spec.pattern.FindStringSubmatch(body)
		if m == nil {
			continue
		}
		amount, err := ParseAmount(m[1])
		if err != nil {
			continue
		}
		bracket := ExcellenceBracket{Low: spec.low, Amount: amount}
		if spec.high > 0 {
			bracket.High = Present(spec.high)
		} else {
			bracket.High = Absent[float64]()
		}
		table.Brackets = append(table.Brackets, bracket)
	}
	return table, nil
}
