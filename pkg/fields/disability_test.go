package fields

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ijm11/becas-extractor/pkg/dispatch"
)

const disabilityBody = `Artículo 13. Becas especiales.
1. Los estudiantes con un grado de discapacidad igual o superior al 65
por ciento podrán reducir la carga lectiva mínima de matrícula.
2. En tal caso, las cuantías fijas que les correspondan se incrementarán
en un 50 por ciento cuando se matriculen del curso completo.
3. Se aplicará un incremento del 25 por ciento de la cuantía fija para
los estudiantes con discapacidad igual o superior al 25 por ciento e
inferior al 65 por ciento.`

func TestParseDisabilityProvisionsProse(t *testing.T) {
	got, strategy, err := ParseDisabilityProvisions(disabilityBody)
	require.NoError(t, err)
	assert.Equal(t, "prose", strategy)

	// The reduced-load provision is a qualifying condition; it is recorded
	// as the disability percentage that unlocks it.
	assert.Equal(t, Present(65.0), got.ReduccionCargaMinima)
	assert.Equal(t, Present(25.0), got.Incremento25a65)
	assert.Equal(t, Present(50.0), got.IncrementoMatriculaCompleta)
}

func TestParseDisabilityProvisionsEarlierYearsLackIncrement(t *testing.T) {
	// The 25-65% increment is only stated from the 2025-2026 announcement.
	body := `Los estudiantes con discapacidad igual o superior al 65 por ciento
podrán reducir la carga lectiva mínima. Las cuantías fijas se
incrementarán en un 50 por ciento.`

	got, _, err := ParseDisabilityProvisions(body)
	require.NoError(t, err)
	assert.Equal(t, Present(65.0), got.ReduccionCargaMinima)
	assert.True(t, got.Incremento25a65.IsAbsent())
	assert.Equal(t, Present(50.0), got.IncrementoMatriculaCompleta)
}

func TestParseDisabilityProvisionsMentionAloneYieldsAbsentFields(t *testing.T) {
	got, _, err := ParseDisabilityProvisions("Acreditación del grado de discapacidad.")
	require.NoError(t, err)
	assert.True(t, got.ReduccionCargaMinima.IsAbsent())
	assert.True(t, got.Incremento25a65.IsAbsent())
	assert.True(t, got.IncrementoMatriculaCompleta.IsAbsent())
}

func TestParseDisabilityProvisionsUnrecognized(t *testing.T) {
	_, _, err := ParseDisabilityProvisions("Becas de carácter general.")
	assert.ErrorIs(t, err, dispatch.ErrUnrecognized)
}
