package fields

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ijm11/becas-extractor/pkg/dispatch"
)

const deductionsBody = `Artículo 18. Deducciones de la renta familiar.
Hallada la renta familiar se aplicarán las deducciones siguientes:
a) 525,00 euros por cada hermano que sea miembro de familias numerosas de
categoría general y 800,00 euros para familias numerosas de categoría
especial.
c) 1.811,00 euros por cada miembro con discapacidad de grado igual o
superior al treinta y tres por ciento y 2.881,00 euros cuando la
discapacidad sea de grado igual o superior al sesenta y cinco por ciento.
Cuando sea el propio solicitante universitario quien presente esa
discapacidad, la deducción para dicho solicitante será de 4.000,00 euros.
d) 1.176,00 euros por cada hermano del solicitante que resida fuera del
domicilio familiar cuando sean dos o más.
e) El 20 por ciento de la renta familiar cuando el solicitante sea
huérfano absoluto.
f) 500,00 euros por pertenecer a una familia monoparental con un solo
hijo.`

func TestParseIncomeDeductionsProse(t *testing.T) {
	got, strategy, err := ParseIncomeDeductions(deductionsBody)
	require.NoError(t, err)
	assert.Equal(t, "prose", strategy)

	assert.Equal(t, Present(525.0), got.FamiliaNumerosaGeneral)
	assert.Equal(t, Present(800.0), got.FamiliaNumerosaEspecial)
	assert.Equal(t, Present(1811.0), got.Discapacidad33)
	assert.Equal(t, Present(2881.0), got.Discapacidad65)
	assert.Equal(t, Present(4000.0), got.Discapacidad65Universitario)
	assert.Equal(t, Present(1176.0), got.HermanoFuera)
	assert.Equal(t, Present(20.0), got.HuerfanoPorcentaje)
	assert.Equal(t, Present(500.0), got.Monoparental)
}

func TestParseIncomeDeductionsMissingLettersStayAbsent(t *testing.T) {
	body := `Se aplicarán las deducciones siguientes:
a) 525,00 euros por cada hermano miembro de familias numerosas de
categoría general.`

	got, _, err := ParseIncomeDeductions(body)
	require.NoError(t, err)
	assert.Equal(t, Present(525.0), got.FamiliaNumerosaGeneral)
	assert.True(t, got.FamiliaNumerosaEspecial.IsAbsent())
	assert.True(t, got.Discapacidad33.IsAbsent())
	assert.True(t, got.HuerfanoPorcentaje.IsAbsent())
	assert.True(t, got.Monoparental.IsAbsent())
}

func TestParseIncomeDeductionsUnrecognized(t *testing.T) {
	_, _, err := ParseIncomeDeductions("Cálculo de la renta familiar computable.")
	assert.ErrorIs(t, err, dispatch.ErrUnrecognized)
	assert.Contains(t, err.Error(), "deducciones_renta")
}
