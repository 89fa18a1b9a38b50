package segment

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Span is a contiguous region of document text belonging to one legal
// article. Body is a view into the source text, not a cleaned copy.
type Span struct {
	Key     string `json:"key"`
	Article int    `json:"article"`
	Title   string `json:"title"`
	Body    string `json:"-"`
	Start   int    `json:"start"`
	End     int    `json:"end"`
}

// Segmentation is the result of splitting one document.
type Segmentation struct {
	// Spans maps category key to its article span.
	Spans map[string]Span

	// Misses lists registered keys whose heading was not found. A miss is a
	// degradation signal, never a failure: the category is simply absent.
	Misses []string
}

// Span returns the span for key, if present.
func (s *Segmentation) Span(key string) (Span, bool) {
	sp, ok := s.Spans[key]
	return sp, ok
}

// Ordered returns the detected spans sorted by start offset.
func (s *Segmentation) Ordered() []Span {
	spans := make([]Span, 0, len(s.Spans))
	for _, sp := range s.Spans {
		spans = append(spans, sp)
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].Start < spans[j].Start })
	return spans
}

var (
	// genericHeadingPattern matches any article heading at line start and is
	// the fallback boundary for span ends.
	genericHeadingPattern = regexp.MustCompile(`(?im)^\s*Art[íi]culo\s+(\d+)\s*\.`)

	chapterHeadingPattern = regexp.MustCompile(`(?im)^\s*CAP[ÍI]TULO\s+[IVXL]+`)
)

// boundary is a structural position that can terminate a span.
type boundary struct {
	pos     int
	article int // 0 for chapter headings
}

// Segmenter produces article spans for one document using a registry of
// article identifiers. Segmentation is deterministic: identical input yields
// identical spans.
type Segmenter struct {
	registry *Registry
}

// NewSegmenter creates a segmenter over the given registry.
func NewSegmenter(registry *Registry) *Segmenter {
	if registry == nil {
		registry = NewRegistry()
	}
	return &Segmenter{registry: registry}
}

// Segment locates every registered article heading in text and slices the
// document into spans. A span runs from its heading to the next structural
// boundary (any article heading with a higher number than the entry covers,
// or a chapter heading), or to end of text.
func (s *Segmenter) Segment(text string) *Segmentation {
	boundaries := collectBoundaries(text)

	result := &Segmentation{Spans: make(map[string]Span)}

	type candidate struct {
		id       *ArticleID
		start    int
		matchEnd int
		title    string
	}
	var candidates []candidate

	for _, id := range s.registry.List() {
		start, matchEnd, title, ok := findHeading(text, id)
		if !ok {
			result.Misses = append(result.Misses, id.Key)
			continue
		}
		candidates = append(candidates, candidate{id: id, start: start, matchEnd: matchEnd, title: title})
	}

	// Tie-break: when two heading patterns match at overlapping positions
	// (a short article number being a prefix of a longer one), keep the
	// longer, more specific match.
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].start != candidates[j].start {
			return candidates[i].start < candidates[j].start
		}
		return candidates[i].matchEnd-candidates[i].start > candidates[j].matchEnd-candidates[j].start
	})
	kept := candidates[:0]
	lastStart := -1
	for _, c := range candidates {
		if c.start == lastStart {
			result.Misses = append(result.Misses, c.id.Key)
			continue
		}
		kept = append(kept, c)
		lastStart = c.start
	}

	for _, c := range kept {
		end := spanEnd(boundaries, c.start, c.id.Through, len(text))
		result.Spans[c.id.Key] = Span{
			Key:     c.id.Key,
			Article: c.id.Article,
			Title:   c.title,
			Body:    text[c.matchEnd:end],
			Start:   c.start,
			End:     end,
		}
	}

	sort.Strings(result.Misses)
	return result
}

// findHeading looks for the article's full heading first, then falls back to
// a bare numbered heading, which tolerates title drift across years.
func findHeading(text string, id *ArticleID) (start, matchEnd int, title string, ok bool) {
	if loc := id.compiled.FindStringIndex(text); loc != nil {
		return loc[0], loc[1], id.Title, true
	}
	for _, m := range genericHeadingPattern.FindAllStringSubmatchIndex(text, -1) {
		num, err := strconv.Atoi(text[m[2]:m[3]])
		if err != nil || num != id.Article {
			continue
		}
		// Take the heading's trailing line fragment as the observed title.
		rest := text[m[1]:]
		if idx := strings.IndexByte(rest, '\n'); idx >= 0 {
			rest = rest[:idx]
		}
		return m[0], m[1], strings.TrimSuffix(strings.TrimSpace(rest), "."), true
	}
	return 0, 0, "", false
}

// collectBoundaries lists every structural heading position in the text.
func collectBoundaries(text string) []boundary {
	var bounds []boundary
	for _, m := range genericHeadingPattern.FindAllStringSubmatchIndex(text, -1) {
		num, err := strconv.Atoi(text[m[2]:m[3]])
		if err != nil {
			continue
		}
		bounds = append(bounds, boundary{pos: m[0], article: num})
	}
	for _, loc := range chapterHeadingPattern.FindAllStringIndex(text, -1) {
		bounds = append(bounds, boundary{pos: loc[0]})
	}
	sort.Slice(bounds, func(i, j int) bool { return bounds[i].pos < bounds[j].pos })
	return bounds
}

// spanEnd finds the first boundary after start that closes a span covering
// articles up to and including through.
func spanEnd(bounds []boundary, start, through, textLen int) int {
	for _, b := range bounds {
		if b.pos <= start {
			continue
		}
		if b.article == 0 || b.article > through {
			return b.pos
		}
	}
	return textLen
}
