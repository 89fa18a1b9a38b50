package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ijm11/becas-extractor/pkg/fields"
)

func sampleRecord(t *testing.T) *Record {
	t.Helper()
	rec, err := Assemble("2024-2025", "convocatoria_2024-2025.txt", Parts{
		Programas: &fields.Programs{Texto: "Enseñanzas universitarias y de formación profesional."},
		Cuantias: &fields.AmountSet{
			RentaFija:  fields.Present(1700.0),
			Residencia: fields.Present(2500.0),
			BecaBasica: fields.Present(300.0),
		},
		PlazosSolicitud: &fields.Deadlines{
			Apertura: fields.Present(fields.Date{Year: 2024, Month: 3, Day: 19}),
		},
	})
	require.NoError(t, err)
	return rec
}

func TestAssembleRequiresAcademicYear(t *testing.T) {
	_, err := Assemble("", "convocatoria.txt", Parts{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "academic year undeterminable")
}

func TestAssembleCarriesStageAnomalies(t *testing.T) {
	rec, err := Assemble("2024-2025", "f.txt", Parts{
		Anomalies: []Anomaly{{Kind: AnomalySegmentationMiss, Category: "plazos", Reason: "not found"}},
	})
	require.NoError(t, err)
	require.NotNil(t, rec.ValidationReport)
	assert.True(t, rec.ValidationReport.HasKind(AnomalySegmentationMiss))
	assert.Len(t, rec.ValidationReport.ByCategory("plazos"), 1)
}

func TestLeafCountCountsPresentValuesOnly(t *testing.T) {
	rec := sampleRecord(t)
	// year + programs + 3 amounts + 1 deadline
	assert.Equal(t, 6, rec.LeafCount())

	rec.Cuantias.VariableMinima = fields.Present(60.0)
	assert.Equal(t, 7, rec.LeafCount())

	rec.Cuantias.ExcelenciaMin = fields.Failed[float64]("no amount near marker")
	assert.Equal(t, 7, rec.LeafCount())
}

func TestFlattenExpandRoundTrip(t *testing.T) {
	rec := sampleRecord(t)
	rec.ValidationReport.Add(AnomalyParseFailure, "cuantias", "excelencia_min: no amount")

	flat, err := rec.Flatten()
	require.NoError(t, err)
	assert.Equal(t, "convocatoria_2024-2025.txt", flat.Fichero)
	assert.Equal(t, "2024-2025", flat.CursoAcademico)
	assert.JSONEq(t, `{"texto":"Enseñanzas universitarias y de formación profesional."}`, flat.Programas)
	assert.Empty(t, flat.UmbralesRenta)

	back, err := flat.Expand()
	require.NoError(t, err)
	assert.Equal(t, rec.AcademicYear, back.AcademicYear)
	assert.Nil(t, back.UmbralesRenta)

	v, ok := back.Cuantias.Residencia.Get()
	require.True(t, ok)
	assert.Equal(t, 2500.0, v)
	require.NotNil(t, back.ValidationReport)
	assert.True(t, back.ValidationReport.HasKind(AnomalyParseFailure))
}

func TestFlatColumnsMatchColumnCount(t *testing.T) {
	flat, err := sampleRecord(t).Flatten()
	require.NoError(t, err)
	assert.Len(t, flat.Columns(), len(FlatColumns()))
}

func TestCorpusSortIsChronological(t *testing.T) {
	var corpus Corpus
	for _, year := range []string{"2024-2025", "2021-2022", "2023-2024"} {
		rec, err := Assemble(year, year+".txt", Parts{})
		require.NoError(t, err)
		corpus = append(corpus, rec)
	}
	corpus.Sort()
	assert.Equal(t, []string{"2021-2022", "2023-2024", "2024-2025"}, corpus.Years())

	rec, ok := corpus.ByYear("2023-2024")
	require.True(t, ok)
	assert.Equal(t, "2023-2024.txt", rec.SourceID)

	_, ok = corpus.ByYear("1999-2000")
	assert.False(t, ok)
}
