package fields

import (
	"regexp"

	"github.com/ijm11/becas-extractor/pkg/dispatch"
)

var (
	aperturaPattern = regexp.MustCompile(`(?is)(?:a\s+partir\s+del|desde\s+el)\s+(\d{1,2}\s+de\s+[a-záéíóúñ]+(?:\s+de\s+\d{4})?)`)

	universitariosPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?is)estudiantes\s+universitarios.{0,120}?(?:hasta\s+el|día)\s+(\d{1,2}\s+de\s+[a-záéíóúñ]+(?:\s+de\s+\d{4})?)`),
		regexp.MustCompile(`(?is)(\d{1,2}\s+de\s+[a-záéíóúñ]+\s+de\s+\d{4}).{0,80}?estudiantes\s+universitarios`),
	}

	noUniversitariosPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?is)estudiantes\s+no\s+universitarios.{0,120}?(?:hasta\s+el|día)\s+(\d{1,2}\s+de\s+[a-záéíóúñ]+(?:\s+de\s+\d{4})?)`),
		regexp.MustCompile(`(?is)(\d{1,2}\s+de\s+[a-záéíóúñ]+\s+de\s+\d{4}).{0,80}?estudiantes\s+no\s+universitarios`),
	}
)

// ParseDeadlines extracts the application window from the deadlines span.
// Dates written without a year inherit it from the academic year: the window
// opens in the autumn of the start year and cutoffs fall per their month.
func ParseDeadlines(body, academicYear string) (*Deadlines, string, error) {
	table := dispatch.NewTable[*Deadlines](string(CategoryDeadlines)).
		Register("prose", `(?i)plazo|solicitud`, func(b string) (*Deadlines, error) {
			return parseDeadlinesProse(b, academicYear)
		})
	return table.Dispatch(body)
}

func parseDeadlinesProse(body, academicYear string) (*Deadlines, error) {
	d := &Deadlines{
		Apertura:         matchDate(body, aperturaPattern, academicYear),
		Universitarios:   Absent[Date](),
		NoUniversitarios: Absent[Date](),
	}

	// «no universitarios» is matched first: its patterns are the more
	// specific ones and the plain universitarios patterns cannot match
	// across the intervening «no».
	for _, p := range noUniversitariosPatterns {
		if f := matchDate(body, p, academicYear); !f.IsAbsent() {
			d.NoUniversitarios = f
			break
		}
	}
	for _, p := range universitariosPatterns {
		if f := matchDate(body, p, academicYear); !f.IsAbsent() {
			d.Universitarios = f
			break
		}
	}

	return d, nil
}

func matchDate(body string, pattern *regexp.Regexp, academicYear string) Field[Date] {
	m := pattern.FindStringSubmatch(body)
	if m == nil {
		return Absent[Date]()
	}
	date, err := ParseSpanishDate(m[1], academicYear)
	if err != nil {
		return Failed[Date](err.Error())
	}
	return Present(date)
}
