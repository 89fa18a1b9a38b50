package fields

import (
	"regexp"
	"strings"

	"github.com/ijm11/becas-extractor/pkg/dispatch"
)

var (
	fullTimeCreditsPattern = regexp.MustCompile(`(?is)matriculados?.{0,80}?de\s+(\d+)\s+créditos.{0,80}?tiempo\s+completo`)
	partialCreditsPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?is)matrícula\s+parcial.{0,80}?(\d+)\s+créditos`),
		regexp.MustCompile(`(?is)matricularse\s+de\s+un\s+mínimo\s+de\s+(\d+)\s+créditos`),
	}
	entryGradePattern = regexp.MustCompile(`(?is)requerirá.{0,80}?nota\s+de\s+([\d,]+)\s+puntos.{0,80}?acceso`)

	branchPatterns = map[string]*regexp.Regexp{
		"Artes y Humanidades":           regexp.MustCompile(`(?is)Artes\s+y\s+Humanidades\s*[.:]?\s*(\d+)\s*%`),
		"Ciencias":                      regexp.MustCompile(`(?is)Ciencias\s*[.:]?\s*(\d+)\s*%`),
		"Ciencias Sociales y Jurídicas": regexp.MustCompile(`(?is)Ciencias\s+Sociales\s+y\s+Jurídicas\s*[.:]?\s*(\d+)\s*%`),
		"Ciencias de la Salud":          regexp.MustCompile(`(?is)Ciencias\s+de\s+la\s+Salud\s*[.:]?\s*(\d+)\s*%`),
		"Ingeniería y Arquitectura":     regexp.MustCompile(`(?is)Ingeniería\s+[oy]\s+Arquitectura[^\n%]{0,40}?(\d+)\s*%`),
	}
)

var academicTable = dispatch.NewTable[*AcademicRequirements](string(CategoryAcademic)).
	Register("prose", `(?i)créditos`, parseAcademicProse)

// ParseAcademicRequirements extracts credit minimums, the first-year entry
// grade, and the pass-rate table by knowledge branch from the academic
// requirements span (Artículos 23–24).
func ParseAcademicRequirements(body string) (*AcademicRequirements, string, error) {
	return academicTable.Dispatch(body)
}

func parseAcademicProse(body string) (*AcademicRequirements, error) {
	req := &AcademicRequirements{
		CreditosTiempoCompleto: matchCredits(body, fullTimeCreditsPattern),
		CreditosParcial:        Absent[int](),
		NotaAcceso:             Absent[float64](),
	}

	for _, p := range partialCreditsPatterns {
		if f := matchCredits(body, p); !f.IsAbsent() {
			req.CreditosParcial = f
			break
		}
	}

	if m := entryGradePattern.FindStringSubmatch(body); m != nil {
		if grade, err := ParseGrade(m[1]); err != nil {
			req.NotaAcceso = Failed[float64](err.Error())
		} else {
			req.NotaAcceso = Present(grade)
		}
	}

	// The bare «Ciencias» label is a prefix of three other branch names, so
	// its matches are vetted against the longer names before being kept.
	rates := make(map[string]float64)
	for _, branch := range KnowledgeBranches {
		pattern := branchPatterns[branch]
		for _, loc := range pattern.FindAllStringSubmatchIndex(body, -1) {
			if branch == "Ciencias" && cienciasPrefixCollision(body[loc[0]:]) {
				continue
			}
			if pct, err := ParsePercent(body[loc[2]:loc[3]]); err == nil {
				rates[branch] = pct
				break
			}
		}
	}
	if len(rates) > 0 {
		req.PorcentajePorRama = rates
	}

	return req, nil
}

// cienciasPrefixCollision reports whether a «Ciencias» match actually landed
// on one of the longer branch names that contain it.
func cienciasPrefixCollision(tail string) bool {
	for _, longer := range []string{"Ciencias Sociales", "Ciencias de la Salud"} {
		if strings.HasPrefix(tail, longer) {
			return true
		}
	}
	return false
}

func matchCredits(body string, pattern *regexp.Regexp) Field[int] {
	m := pattern.FindStringSubmatch(body)
	if m == nil {
		return Absent[int]()
	}
	n, err := ParseCredits(m[1])
	if err != nil {
		return Failed[int](err.Error())
	}
	return Present(n)
}
