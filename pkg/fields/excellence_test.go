package fields

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ijm11/becas-extractor/pkg/dispatch"
)

const excellenceBody = `La cuantía se asignará según la nota media del estudiante:
Entre 8,00 y 8,49 puntos: 50 euros.
Entre 8,50 y 8,99 puntos: 75 euros.
Entre 9,00 y 9,49 puntos: 100 euros.
9,50 puntos o más: 125 euros.`

func TestParseExcellenceBrackets(t *testing.T) {
	table, strategy, err := ParseExcellence(excellenceBody)
	require.NoError(t, err)
	assert.Equal(t, "bracket_table", strategy)
	require.Len(t, table.Brackets, 4)

	assert.Equal(t, 8.00, table.Brackets[0].Low)
	assert.Equal(t, Present(8.49), table.Brackets[0].High)
	assert.Equal(t, 50.0, table.Brackets[0].Amount)

	// The top bracket is open-ended.
	last := table.Brackets[3]
	assert.Equal(t, 9.50, last.Low)
	assert.True(t, last.High.IsAbsent())
	assert.Equal(t, 125.0, last.Amount)
}

func TestParseExcellenceSkipsMissingRow(t *testing.T) {
	body := `Entre 8,00 y 8,49 puntos: 50 euros.
Entre 9,00 y 9,49 puntos: 100 euros.
9,50 puntos o más: 125 euros.`

	table, _, err := ParseExcellence(body)
	require.NoError(t, err)
	require.Len(t, table.Brackets, 3)
	assert.Equal(t, 8.00, table.Brackets[0].Low)
	assert.Equal(t, 9.00, table.Brackets[1].Low)
	assert.Equal(t, 9.50, table.Brackets[2].Low)
}

func TestParseExcellenceUnrecognizedBody(t *testing.T) {
	_, _, err := ParseExcellence("La nota media se calculará conforme al anexo.")
	assert.ErrorIs(t, err, dispatch.ErrUnrecognized)
}
