package fields

import (
	"strings"
	"unicode"

	"github.com/ijm11/becas-extractor/pkg/dispatch"
)

var programsTable = dispatch.NewTable[*Programs](string(CategoryPrograms)).
	Register("list", `(?i)enseñanzas|estudios`, parseProgramsList)

// ParsePrograms extracts the covered-programs prose from the «Enseñanzas
// comprendidas» span (Artículo 3), dropping pagination and footer residue
// the preprocessor may not have caught inside the span.
func ParsePrograms(body string) (*Programs, string, error) {
	return programsTable.Dispatch(body)
}

func parseProgramsList(body string) (*Programs, error) {
	var parts []string
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if len(line) <= 10 || isAllDigits(line) || strings.Contains(line, "Página") {
			continue
		}
		parts = append(parts, line)
	}
	texto := strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
	return &Programs{Texto: texto}, nil
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return len(s) > 0
}
