// Package segment splits announcement text into labeled article spans using a
// registry of legal article identifiers.
package segment

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	"gopkg.in/fsnotify.v1"
	"gopkg.in/yaml.v3"
)

// ArticleID identifies one legal article of interest: its number, the
// canonical title under which it appears, and the category key downstream
// parsers use to find its span.
type ArticleID struct {
	Key     string `yaml:"key" json:"key"`
	Article int    `yaml:"article" json:"article"`
	Through int    `yaml:"through,omitempty" json:"through,omitempty"`
	Title   string `yaml:"title" json:"title"`

	compiled *regexp.Regexp
}

// Compile builds the heading pattern: line-anchored, case-insensitive, and
// tolerant of the whitespace irregularities PDF extraction introduces inside
// headings. Line anchoring keeps in-prose cross-references («conforme al
// artículo 19») from being mistaken for headings.
func (a *ArticleID) Compile() error {
	if a.Through == 0 {
		a.Through = a.Article
	}
	words := strings.Fields(a.Title)
	for i, w := range words {
		words[i] = regexp.QuoteMeta(w)
	}
	expr := fmt.Sprintf(`(?im)^\s*Art[íi]culo\s+%d\s*\.\s*%s\s*\.?`, a.Article, strings.Join(words, `\s+`))
	compiled, err := regexp.Compile(expr)
	if err != nil {
		return fmt.Errorf("compiling heading pattern for %q: %w", a.Key, err)
	}
	a.compiled = compiled
	return nil
}

// Registry holds the article identifiers for one announcement family. The
// built-in set covers the articles the extractor reads; a YAML overlay
// directory can re-point keys for years whose article numbering moved.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*ArticleID
	dir     string
	watcher *fsnotify.Watcher
	stop    chan struct{}
}

// NewRegistry returns a registry preloaded with the default article set of
// the general scholarship announcement.
func NewRegistry() *Registry {
	r := &Registry{entries: make(map[string]*ArticleID)}
	for _, id := range defaultArticles() {
		// Defaults are static and known-good; Register cannot fail on them.
		if err := r.Register(id); err != nil {
			panic(err)
		}
	}
	return r
}

func defaultArticles() []*ArticleID {
	return []*ArticleID{
		{Key: "programas", Article: 3, Title: "Enseñanzas comprendidas"},
		{Key: "cuantias", Article: 11, Title: "Cuantías de las becas"},
		{Key: "insular", Article: 12, Title: "Cuantías adicionales por domicilio insular"},
		{Key: "discapacidad", Article: 13, Title: "Becas especiales para estudiantes con discapacidad"},
		{Key: "deducciones", Article: 18, Title: "Deducciones de la renta familiar"},
		{Key: "umbrales_renta", Article: 19, Title: "Umbrales de renta"},
		{Key: "umbrales_patrimonio", Article: 20, Title: "Umbrales indicativos de patrimonio familiar"},
		{Key: "requisitos_academicos", Article: 23, Through: 24, Title: "Número de créditos de matrícula"},
		{Key: "plazos", Article: 48, Title: "Lugar y plazo de presentación de solicitudes"},
	}
}

// Register adds or replaces an article identifier.
func (r *Registry) Register(id *ArticleID) error {
	if id == nil {
		return fmt.Errorf("article identifier cannot be nil")
	}
	if id.Key == "" || id.Article <= 0 || id.Title == "" {
		return fmt.Errorf("article identifier needs key, article number and title")
	}
	if err := id.Compile(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[id.Key] = id
	return nil
}

// Get returns the identifier registered under key.
func (r *Registry) Get(key string) (*ArticleID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.entries[key]
	return id, ok
}

// List returns all identifiers ordered by article number.
func (r *Registry) List() []*ArticleID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]*ArticleID, 0, len(r.entries))
	for _, id := range r.entries {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].Article < ids[j].Article })
	return ids
}

// Keys returns the registered category keys ordered by article number.
func (r *Registry) Keys() []string {
	ids := r.List()
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = id.Key
	}
	return keys
}

// overlayFile is the YAML document format for registry overlays.
type overlayFile struct {
	Articles []*ArticleID `yaml:"articles"`
}

// LoadDirectory merges every YAML overlay in dir into the registry. A missing
// directory is not an error: the built-in defaults remain in force.
func (r *Registry) LoadDirectory(dir string) error {
	r.dir = dir
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("checking directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading directory %s: %w", dir, err)
	}

	var loadErrors []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
			continue
		}
		if err := r.LoadFile(filepath.Join(dir, name)); err != nil {
			loadErrors = append(loadErrors, fmt.Sprintf("%s: %v", name, err))
		}
	}
	if len(loadErrors) > 0 {
		return fmt.Errorf("errors loading overlays: %s", strings.Join(loadErrors, "; "))
	}
	return nil
}

// LoadFile merges a single YAML overlay file.
func (r *Registry) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}
	var overlay overlayFile
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("parsing YAML: %w", err)
	}
	for _, id := range overlay.Articles {
		if err := r.Register(id); err != nil {
			return err
		}
	}
	return nil
}

// Watch reloads the overlay directory whenever a YAML file in it changes.
func (r *Registry) Watch() error {
	if r.dir == "" {
		return fmt.Errorf("no overlay directory configured for watching")
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	r.watcher = watcher
	r.stop = make(chan struct{})

	go r.watchLoop()

	if err := watcher.Add(r.dir); err != nil {
		r.watcher.Close()
		return fmt.Errorf("watching directory %s: %w", r.dir, err)
	}
	return nil
}

func (r *Registry) watchLoop() {
	for {
		select {
		case <-r.stop:
			return
		case event, ok := <-r.watcher.Events:
			if !ok {
				return
			}
			if !strings.HasSuffix(event.Name, ".yaml") && !strings.HasSuffix(event.Name, ".yml") {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0 {
				r.reload()
			}
		case _, ok := <-r.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

// reload rebuilds defaults and re-applies the overlay directory.
func (r *Registry) reload() {
	r.mu.Lock()
	r.entries = make(map[string]*ArticleID)
	r.mu.Unlock()
	for _, id := range defaultArticles() {
		_ = r.Register(id)
	}
	_ = r.LoadDirectory(r.dir)
}

// StopWatch stops overlay watching.
func (r *Registry) StopWatch() {
	if r.stop != nil {
		close(r.stop)
	}
	if r.watcher != nil {
		r.watcher.Close()
	}
}
