package fields

import (
	"regexp"

	"github.com/ijm11/becas-extractor/pkg/dispatch"
)

var (
	insularBasicoPattern = regexp.MustCompile(`(?is)dispondrán\s+de\s+([\d.,]+)\s*euros`)

	islasRemotasPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?is)adicional\s+(?:será\s+de|de)\s+([\d.,]+)\s*euros.{0,160}?(?:Lanzarote|Fuerteventura|La\s+Gomera|El\s+Hierro|La\s+Palma|Menorca|Ibiza|Formentera)`),
		regexp.MustCompile(`(?is)([\d.,]+)\s*euros.{0,160}?(?:Lanzarote|Fuerteventura)`),
	}

	interinsularPattern = regexp.MustCompile(`(?is)serán\s+(?:de\s+)?([\d.,]+)\s*euros\s+y\s+([\d.,]+)\s*euros`)

	fpCanariasPattern = regexp.MustCompile(`(?is)incrementarán\s+en\s+([\d.,]+)\s*euros`)
)

var insularTable = dispatch.NewTable[*InsularSupplements](string(CategoryInsular)).
	Register("prose", `(?i)domicilio\s+insular|Cuantías\s+adicionales`, parseInsularProse)

// ParseInsularSupplements extracts the island and Ceuta/Melilla travel
// supplements from the «Cuantías adicionales por domicilio insular» span.
// The FP Canarias increment only exists from the 2023-2024 announcement on;
// in earlier years its sentence is simply not there and the field stays
// absent rather than zero.
func ParseInsularSupplements(body string) (*InsularSupplements, string, error) {
	return insularTable.Dispatch(body)
}

func parseInsularProse(body string) (*InsularSupplements, error) {
	s := &InsularSupplements{
		Basico:     matchAmount(body, insularBasicoPattern),
		FPCanarias: matchAmount(body, fpCanariasPattern),
	}

	s.IslasRemotas = Absent[float64]()
	for _, p := range islasRemotasPatterns {
		if f := matchAmount(body, p); !f.IsAbsent() {
			s.IslasRemotas = f
			break
		}
	}

	s.InterinsularPeninsula = Absent[float64]()
	s.InterinsularPeninsulaRemotas = Absent[float64]()
	if m := interinsularPattern.FindStringSubmatch(body); m != nil {
		s.InterinsularPeninsula = amountField(m[1])
		s.InterinsularPeninsulaRemotas = amountField(m[2])
	}

	return s, nil
}
