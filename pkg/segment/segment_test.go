package segment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleText = `CAPÍTULO II
Cuantías
Artículo 11. Cuantías de las becas.
La cuantía fija ligada a la renta será de 1.700,00 euros.
Artículo 12. Cuantías adicionales por domicilio insular.
Los estudiantes con domicilio insular percibirán 442,00 euros.
CAPÍTULO III
Requisitos
Artículo 19. Umbrales de renta.
Los umbrales de renta familiar serán los siguientes.
`

func TestSegmentFindsRegisteredSpans(t *testing.T) {
	seg := NewSegmenter(nil).Segment(sampleText)

	cuantias, ok := seg.Span("cuantias")
	require.True(t, ok)
	assert.Equal(t, 11, cuantias.Article)
	assert.Contains(t, cuantias.Body, "1.700,00 euros")
	assert.NotContains(t, cuantias.Body, "domicilio insular")

	insular, ok := seg.Span("insular")
	require.True(t, ok)
	assert.Contains(t, insular.Body, "442,00 euros")

	renta, ok := seg.Span("umbrales_renta")
	require.True(t, ok)
	assert.Contains(t, renta.Body, "umbrales de renta familiar")
}

func TestSegmentSpanEndsAtNextHeading(t *testing.T) {
	seg := NewSegmenter(nil).Segment(sampleText)

	cuantias, _ := seg.Span("cuantias")
	insular, _ := seg.Span("insular")
	assert.Equal(t, cuantias.End, insular.Start)
}

func TestSegmentSpanEndsAtChapterHeading(t *testing.T) {
	seg := NewSegmenter(nil).Segment(sampleText)

	insular, _ := seg.Span("insular")
	assert.NotContains(t, insular.Body, "CAPÍTULO III")
	assert.NotContains(t, insular.Body, "Umbrales de renta")
}

func TestSegmentReportsMisses(t *testing.T) {
	seg := NewSegmenter(nil).Segment(sampleText)

	assert.Contains(t, seg.Misses, "plazos")
	assert.Contains(t, seg.Misses, "umbrales_patrimonio")
	assert.NotContains(t, seg.Misses, "cuantias")
	assert.IsIncreasing(t, seg.Misses)
}

func TestSegmentCrossReferenceIsNotAHeading(t *testing.T) {
	text := "El límite se fija conforme al artículo 19. Umbrales de renta aparte.\n" +
		"Artículo 19. Umbrales de renta.\ncuerpo real\n"
	seg := NewSegmenter(nil).Segment(text)

	renta, ok := seg.Span("umbrales_renta")
	require.True(t, ok)
	assert.Contains(t, renta.Body, "cuerpo real")
}

func TestSegmentTitleDriftFallsBackToBareNumber(t *testing.T) {
	text := "Artículo 11. Cuantías y sus clases.\ncuerpo\n"
	seg := NewSegmenter(nil).Segment(text)

	cuantias, ok := seg.Span("cuantias")
	require.True(t, ok)
	assert.Equal(t, "Cuantías y sus clases", cuantias.Title)
	assert.Contains(t, cuantias.Body, "cuerpo")
}

func TestSegmentLongestMatchWinsAtSameOffset(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register(&ArticleID{Key: "largo", Article: 5, Title: "Plazo corto"}))
	require.NoError(t, registry.Register(&ArticleID{Key: "corto", Article: 5, Title: "Plazo"}))

	text := "Artículo 5. Plazo corto.\ncuerpo\n"
	seg := NewSegmenter(registry).Segment(text)

	_, ok := seg.Span("largo")
	assert.True(t, ok)
	_, ok = seg.Span("corto")
	assert.False(t, ok)
	assert.Contains(t, seg.Misses, "corto")
}

func TestSegmentThroughCoversFollowingArticle(t *testing.T) {
	text := `Artículo 23. Número de créditos de matrícula.
cuerpo veintitrés
Artículo 24. Rendimiento académico.
cuerpo veinticuatro
Artículo 25. Otra cosa.
fuera
`
	seg := NewSegmenter(nil).Segment(text)

	academicos, ok := seg.Span("requisitos_academicos")
	require.True(t, ok)
	assert.Contains(t, academicos.Body, "cuerpo veintitrés")
	assert.Contains(t, academicos.Body, "cuerpo veinticuatro")
	assert.NotContains(t, academicos.Body, "fuera")
}

func TestSegmentIsDeterministic(t *testing.T) {
	s := NewSegmenter(nil)
	first := s.Segment(sampleText)
	second := s.Segment(sampleText)
	assert.Equal(t, first.Spans, second.Spans)
	assert.Equal(t, first.Misses, second.Misses)
}

func TestOrderedSpansByStart(t *testing.T) {
	seg := NewSegmenter(nil).Segment(sampleText)
	ordered := seg.Ordered()
	require.Len(t, ordered, 3)
	for i := 1; i < len(ordered); i++ {
		assert.Greater(t, ordered[i].Start, ordered[i-1].Start)
	}
}
