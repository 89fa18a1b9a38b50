package fields

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ijm11/becas-extractor/pkg/dispatch"
)

func TestParseIncomeThresholdsList(t *testing.T) {
	body := `Artículo 19. Umbrales de renta.
Umbral 1: Familias de un miembro: 8.843,00 euros.
Familias de dos miembros: 13.898,00 euros.
Familias de tres miembros: 18.037,00 euros.
Umbral 2: Familias de un miembro: 13.898,00 euros.
Familias de dos miembros: 23.724,00 euros.
Umbral 3: Familias de un miembro: 14.818,00 euros.
Familias de ocho miembros: 62.208,00 euros.`

	got, strategy, err := ParseIncomeThresholds(body)
	require.NoError(t, err)
	assert.Equal(t, "list", strategy)

	v, ok := got.Value(1, 1)
	require.True(t, ok)
	assert.Equal(t, 8843.0, v)

	v, ok = got.Value(1, 3)
	require.True(t, ok)
	assert.Equal(t, 18037.0, v)

	v, ok = got.Value(2, 2)
	require.True(t, ok)
	assert.Equal(t, 23724.0, v)

	v, ok = got.Value(3, 8)
	require.True(t, ok)
	assert.Equal(t, 62208.0, v)

	// A size the list never mentions stays absent.
	_, ok = got.Value(2, 5)
	assert.False(t, ok)
}

func TestParseIncomeThresholdsTable(t *testing.T) {
	body := `Los umbrales de renta familiar aplicables serán los siguientes:
Miembros Umbral 1 Umbral 2 Umbral 3
1 8.843,00 13.898,00 14.818,00
2 13.898,00 23.724,00 25.293,00
3 18.037,00 32.209,00 34.332,00`

	got, strategy, err := ParseIncomeThresholds(body)
	require.NoError(t, err)
	assert.Equal(t, "table", strategy)

	v, ok := got.Value(1, 1)
	require.True(t, ok)
	assert.Equal(t, 8843.0, v)

	v, ok = got.Value(3, 2)
	require.True(t, ok)
	assert.Equal(t, 25293.0, v)

	v, ok = got.Value(2, 3)
	require.True(t, ok)
	assert.Equal(t, 32209.0, v)
}

func TestParseIncomeThresholdsTableKeepsMissingCellAbsent(t *testing.T) {
	body := `Miembros Umbral 1 Umbral 2 Umbral 3
1 8.843,00 13.898,00`

	got, _, err := ParseIncomeThresholds(body)
	require.NoError(t, err)

	_, ok := got.Value(1, 1)
	assert.True(t, ok)
	_, ok = got.Value(3, 1)
	assert.False(t, ok)
	assert.False(t, got.Values[2][0].IsFailed())
}

func TestParseIncomeThresholdsRowwise(t *testing.T) {
	body := `Los umbrales se reproducen a continuación.
1
8.843,00
13.898,00
14.818,00
2
13.898,00
23.724,00
25.293,00`

	got, strategy, err := ParseIncomeThresholds(body)
	require.NoError(t, err)
	assert.Equal(t, "table_rowwise", strategy)

	v, ok := got.Value(1, 1)
	require.True(t, ok)
	assert.Equal(t, 8843.0, v)

	v, ok = got.Value(3, 2)
	require.True(t, ok)
	assert.Equal(t, 25293.0, v)
}

func TestParseIncomeThresholdsRowwiseNeedsTwoCells(t *testing.T) {
	// A lone bare number followed by a single amount is page furniture,
	// not a table row.
	body := `Se estará a lo dispuesto en el apartado
3
8.843,00
siguiente.`

	_, _, err := ParseIncomeThresholds(body)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no rows parsed")
}

func TestParseIncomeThresholdsUnrecognized(t *testing.T) {
	_, _, err := ParseIncomeThresholds("Los umbrales se fijarán reglamentariamente.")
	assert.ErrorIs(t, err, dispatch.ErrUnrecognized)
	assert.Contains(t, err.Error(), "umbrales_renta")
}

func TestIncomeThresholdsFailuresNameCells(t *testing.T) {
	got := &IncomeThresholds{}
	got.Values[0][0] = Failed[float64]("negative amount")
	failures := got.Failures()
	require.Len(t, failures, 1)
	assert.Equal(t, "umbral_1_miembros_1", failures[0].Field)
}
