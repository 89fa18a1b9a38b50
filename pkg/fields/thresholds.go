package fields

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ijm11/becas-extractor/pkg/dispatch"
)

// The income threshold article drifted across years between a prose list
// («Umbral 1: Familias de un miembro: 8.422,00 euros ...») and a tabular
// layout, which PDF extraction yields either as one row per line or with
// every cell on its own line. Each layout is a registered strategy; markers
// are tried in order and a span matching none is reported unrecognized.
var incomeTable = dispatch.NewTable[*IncomeThresholds](string(CategoryIncomeThresholds)).
	Register("list", `(?i)Familias\s+de\s+un\s+miembro`, parseThresholdList).
	Register("table", `(?m)^[ \t]*[1-8][ \t]+[\d.]+(?:,\d{2})?[ \t]+[\d.]+`, parseThresholdTable).
	Register("table_rowwise", `(?m)^\s*[1-8]\s*$`, parseThresholdTableRowwise)

// ParseIncomeThresholds extracts the level × family-size income ceiling
// table from the «Umbrales de renta» span.
func ParseIncomeThresholds(body string) (*IncomeThresholds, string, error) {
	return incomeTable.Dispatch(body)
}

var (
	umbralHeaderPattern  = regexp.MustCompile(`(?i)Umbral\s+([123])\s*[:.]`)
	familySizePattern    = regexp.MustCompile(`(?i)Familias\s+de\s+(un|dos|tres|cuatro|cinco|seis|siete|ocho|\d+)\s+miembros?\s*:?\s*([\d.,]+)\s*euros`)
	tableRowPattern      = regexp.MustCompile(`^([1-8])\s+([\d.,]+)\s+([\d.,]+)(?:\s+([\d.,]+))?\s*$`)
	bareNumberPattern    = regexp.MustCompile(`^[1-8]$`)
	bareAmountPattern    = regexp.MustCompile(`^[\d.]+(?:,\d{2})?$`)
)

var familySizeWords = map[string]int{
	"un": 1, "uno": 1, "dos": 2, "tres": 3, "cuatro": 4,
	"cinco": 5, "seis": 6, "siete": 7, "ocho": 8,
}

func parseFamilySize(word string) (int, error) {
	w := strings.ToLower(word)
	if n, ok := familySizeWords[w]; ok {
		return n, nil
	}
	n, err := strconv.Atoi(w)
	if err != nil || n < 1 || n > MaxFamilySize {
		return 0, fmt.Errorf("family size %q outside [1,%d]", word, MaxFamilySize)
	}
	return n, nil
}

func parseThresholdList(body string) (*IncomeThresholds, error) {
	t := &IncomeThresholds{}
	headers := umbralHeaderPattern.FindAllStringSubmatchIndex(body, -1)
	if len(headers) == 0 {
		return nil, fmt.Errorf("no threshold level sections found")
	}
	for i, h := range headers {
		level, _ := strconv.Atoi(body[h[2]:h[3]])
		end := len(body)
		if i+1 < len(headers) {
			end = headers[i+1][0]
		}
		for _, m := range familySizePattern.FindAllStringSubmatch(body[h[1]:end], -1) {
			size, err := parseFamilySize(m[1])
			if err != nil {
				continue
			}
			t.set(level, size, amountField(m[2]))
		}
	}
	return t, nil
}

// parseThresholdTable handles rows laid out one per line:
//
//	1 8.843,00 13.898,00 14.818,00
//
// Missing trailing cells are kept absent, not failed: announcements sometimes
// omit an extremal column they expect to be inferred.
func parseThresholdTable(body string) (*IncomeThresholds, error) {
	t := &IncomeThresholds{}
	rows := 0
	for _, line := range strings.Split(body, "\n") {
		m := tableRowPattern.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		size, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		for level := 1; level <= ThresholdLevels; level++ {
			if raw := m[level+1]; raw != "" {
				t.set(level, size, amountField(raw))
			}
		}
		rows++
	}
	if rows == 0 {
		return nil, fmt.Errorf("table marker matched but no rows parsed")
	}
	return t, nil
}

// parseThresholdTableRowwise handles the layout PDF extraction produces when
// a table is split cell by cell: a bare family size on one line followed by
// two or three amount lines.
func parseThresholdTableRowwise(body string) (*IncomeThresholds, error) {
	t := &IncomeThresholds{}
	lines := strings.Split(body, "\n")
	rows := 0
	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if !bareNumberPattern.MatchString(line) {
			continue
		}
		size, _ := strconv.Atoi(line)

		var cells []string
		for j := i + 1; j < len(lines) && len(cells) < ThresholdLevels; j++ {
			cell := strings.TrimSpace(lines[j])
			if !bareAmountPattern.MatchString(cell) {
				break
			}
			cells = append(cells, cell)
		}
		if len(cells) < 2 {
			continue
		}
		for level, raw := range cells {
			t.set(level+1, size, amountField(raw))
		}
		i += len(cells)
		rows++
	}
	if rows == 0 {
		return nil, fmt.Errorf("row-wise marker matched but no rows parsed")
	}
	return t, nil
}
