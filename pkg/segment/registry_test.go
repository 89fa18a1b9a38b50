package segment

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistryCoversExtractedArticles(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, []string{
		"programas", "cuantias", "insular", "discapacidad", "deducciones",
		"umbrales_renta", "umbrales_patrimonio", "requisitos_academicos", "plazos",
	}, r.Keys())

	academicos, ok := r.Get("requisitos_academicos")
	require.True(t, ok)
	assert.Equal(t, 23, academicos.Article)
	assert.Equal(t, 24, academicos.Through)
}

func TestRegisterRejectsIncompleteEntries(t *testing.T) {
	r := NewRegistry()
	assert.Error(t, r.Register(nil))
	assert.Error(t, r.Register(&ArticleID{Key: "x", Article: 0, Title: "t"}))
	assert.Error(t, r.Register(&ArticleID{Key: "", Article: 1, Title: "t"}))
	assert.Error(t, r.Register(&ArticleID{Key: "x", Article: 1, Title: ""}))
}

func TestCompileDefaultsThroughToArticle(t *testing.T) {
	id := &ArticleID{Key: "x", Article: 7, Title: "Título"}
	require.NoError(t, id.Compile())
	assert.Equal(t, 7, id.Through)
}

func TestLoadFileOverridesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "2020.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
articles:
  - key: plazos
    article: 45
    title: Plazo de presentación de solicitudes
`), 0o644))

	r := NewRegistry()
	require.NoError(t, r.LoadFile(path))

	plazos, ok := r.Get("plazos")
	require.True(t, ok)
	assert.Equal(t, 45, plazos.Article)
}

func TestLoadDirectoryMergesOverlays(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.yaml"), []byte(`
articles:
  - key: cuantias
    article: 10
    title: Clases y cuantías de las becas
`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("no yaml"), 0o644))

	r := NewRegistry()
	require.NoError(t, r.LoadDirectory(dir))

	cuantias, ok := r.Get("cuantias")
	require.True(t, ok)
	assert.Equal(t, 10, cuantias.Article)
	assert.Len(t, r.Keys(), len(defaultArticles()))
}

func TestLoadDirectoryMissingIsNotAnError(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.LoadDirectory(filepath.Join(t.TempDir(), "no-such")))
	assert.Len(t, r.Keys(), len(defaultArticles()))
}

func TestLoadFileRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("articles: [unbalanced"), 0o644))

	r := NewRegistry()
	assert.Error(t, r.LoadFile(path))
}

func TestWatchReloadsOnOverlayChange(t *testing.T) {
	dir := t.TempDir()
	r := NewRegistry()
	require.NoError(t, r.LoadDirectory(dir))
	require.NoError(t, r.Watch())
	defer r.StopWatch()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "move.yaml"), []byte(`
articles:
  - key: plazos
    article: 45
    title: Plazo de presentación de solicitudes
`), 0o644))

	assert.Eventually(t, func() bool {
		plazos, ok := r.Get("plazos")
		return ok && plazos.Article == 45
	}, 3*time.Second, 20*time.Millisecond)
}
