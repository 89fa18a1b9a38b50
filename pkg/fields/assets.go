package fields

import (
	"regexp"

	"github.com/ijm11/becas-extractor/pkg/dispatch"
)

var (
	fincasUrbanasPattern    = regexp.MustCompile(`(?is)fincas\s+urbanas.{0,120}?superar.{0,60}?([\d.,]+)\s*euros`)
	construccionesPattern   = regexp.MustCompile(`(?is)construcciones\s+situadas\s+en\s+fincas\s+rústicas.{0,120}?superar.{0,60}?([\d.,]+)\s*euros`)
	fincasRusticasPattern   = regexp.MustCompile(`(?is)fincas\s+rústicas\s+excluidos.{0,160}?superar.{0,60}?([\d.,]+)\s*euros.{0,80}?miembro`)
	capitalMobiliarioPattern = regexp.MustCompile(`(?is)capital\s+mobiliario.{0,160}?superar\s+([\d.,]+)\s*euros`)
)

var assetsTable = dispatch.NewTable[*AssetThresholds](string(CategoryAssetThresholds)).
	Register("prose", `(?i)patrimonio\s+familiar`, parseAssetsProse)

// ParseAssetThresholds extracts the indicative asset ceilings from the
// «Umbrales indicativos de patrimonio familiar» span.
func ParseAssetThresholds(body string) (*AssetThresholds, string, error) {
	return assetsTable.Dispatch(body)
}

func parseAssetsProse(body string) (*AssetThresholds, error) {
	return &AssetThresholds{
		FincasUrbanas:            matchAmount(body, fincasUrbanasPattern),
		ConstruccionesRusticas:   matchAmount(body, construccionesPattern),
		FincasRusticasPorMiembro: matchAmount(body, fincasRusticasPattern),
		CapitalMobiliario:        matchAmount(body, capitalMobiliarioPattern),
	}, nil
}
