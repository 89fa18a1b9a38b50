package fields

import (
	"regexp"

	"github.com/ijm11/becas-extractor/pkg/dispatch"
)

var (
	reducedLoadPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?is)65\s+por\s*ciento.{0,160}?reducir.{0,80}?carga\s+lectiva`),
		regexp.MustCompile(`(?is)discapacidad.{0,80}?65.{0,160}?reducir`),
	}

	increment25to65Patterns = []*regexp.Regexp{
		regexp.MustCompile(`(?is)incremento.{0,60}?(\d+)\s+por\s*ciento.{0,160}?discapacidad.{0,80}?25.{0,80}?65`),
		regexp.MustCompile(`(?is)(\d+)\s+por\s*ciento.{0,120}?discapacidad\s+igual\s+o\s+superior\s+al\s+25`),
	}

	incrementFullEnrollmentPattern = regexp.MustCompile(`(?is)incrementarán\s+en\s+un\s+(\d+)\s+por\s*ciento`)
)

var disabilityTable = dispatch.NewTable[*DisabilityProvisions](string(CategoryDisability)).
	Register("prose", `(?i)discapacidad`, parseDisabilityProse)

// ParseDisabilityProvisions extracts the disability enrollment provisions
// from the «Becas especiales» span. The 25–65% increment is only stated from
// the 2025-2026 announcement on; earlier years leave it absent.
func ParseDisabilityProvisions(body string) (*DisabilityProvisions, string, error) {
	return disabilityTable.Dispatch(body)
}

func parseDisabilityProse(body string) (*DisabilityProvisions, error) {
	d := &DisabilityProvisions{
		ReduccionCargaMinima:        Absent[float64](),
		Incremento25a65:             Absent[float64](),
		IncrementoMatriculaCompleta: Absent[float64](),
	}

	for _, p := range reducedLoadPatterns {
		if p.MatchString(body) {
			// The provision is a qualifying condition, recorded as the
			// minimum disability percentage that unlocks it.
			d.ReduccionCargaMinima = Present(65.0)
			break
		}
	}

	for _, p := range increment25to65Patterns {
		if m := p.FindStringSubmatch(body); m != nil {
			d.Incremento25a65 = percentField(m[1])
			break
		}
	}

	if m := incrementFullEnrollmentPattern.FindStringSubmatch(body); m != nil {
		d.IncrementoMatriculaCompleta = percentField(m[1])
	}

	return d, nil
}

func percentField(raw string) Field[float64] {
	pct, err := ParsePercent(raw)
	if err != nil {
		return Failed[float64](err.Error())
	}
	return Present(pct)
}
