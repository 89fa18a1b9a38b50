// Package document models one academic-year scholarship announcement and the
// metadata that can be derived from its raw text alone.
package document

import (
	"fmt"
	"regexp"
	"strings"
)

// Document is one announcement, immutable once acquired. RawText is the full
// extracted text of the source; decoding the binary source is a collaborator's
// concern, never this package's.
type Document struct {
	AcademicYear string
	RawText      string
	SourceID     string
}

var (
	yearInBodyPattern     = regexp.MustCompile(`(?i)CURSO\s+ACAD[ÉE]MICO\s+(20\d{2}\s*-\s*20\d{2})`)
	yearInNamePattern     = regexp.MustCompile(`20\d{2}-20\d{2}`)
	shortYearInNamePattern = regexp.MustCompile(`(20\d{2})-(\d{2})`)
)

// New builds a Document from raw text and a source identifier (typically the
// source filename). It fails only when the academic year cannot be determined
// from either the body or the identifier; that is the single condition that
// makes a whole record unusable.
func New(rawText, sourceID string) (Document, error) {
	year, err := DetectAcademicYear(rawText, sourceID)
	if err != nil {
		return Document{}, err
	}
	return Document{
		AcademicYear: year,
		RawText:      Preprocess(rawText),
		SourceID:     sourceID,
	}, nil
}

// DetectAcademicYear locates the academic-year token, preferring the document
// body over the filename hint.
func DetectAcademicYear(text, sourceID string) (string, error) {
	if m := yearInBodyPattern.FindStringSubmatch(text); m != nil {
		return collapseSpaces(m[1]), nil
	}
	if m := yearInNamePattern.FindString(sourceID); m != "" {
		return m, nil
	}
	if m := shortYearInNamePattern.FindStringSubmatch(sourceID); m != nil {
		// «2023-24» → «2023-2024».
		return fmt.Sprintf("%s-%s%s", m[1], m[1][:2], m[2]), nil
	}
	return "", fmt.Errorf("document %s: academic year undeterminable", sourceID)
}

var (
	footerPatterns = []*regexp.Regexp{
		regexp.MustCompile(`^CSV\s*:`),
		regexp.MustCompile(`^FIRMANTE`),
		regexp.MustCompile(`^DIRECCIÓN DE VALIDACIÓN`),
		regexp.MustCompile(`^Página\s+\d+`),
	}
	hyphenBreakPattern = regexp.MustCompile(`[a-záéíóúñA-ZÁÉÍÓÚÑ]-$`)
)

// Preprocess strips validation footers and page headers injected by PDF text
// extraction, and rejoins words hyphenated across line breaks. Bare digit
// lines are kept: row-wise threshold tables are made of them.
func Preprocess(text string) string {
	lines := strings.Split(text, "\n")
	var kept []string

lineLoop:
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		for _, p := range footerPatterns {
			if p.MatchString(trimmed) {
				continue lineLoop
			}
		}
		kept = append(kept, line)
	}

	kept = rejoinHyphenated(kept)
	return strings.Join(kept, "\n")
}

// rejoinHyphenated merges a line ending in a hyphenated word break with the
// next line when that line continues in lowercase.
func rejoinHyphenated(lines []string) []string {
	var result []string
	for i := 0; i < len(lines); i++ {
		current := strings.TrimRight(lines[i], " \t")
		if i+1 < len(lines) && hyphenBreakPattern.MatchString(current) {
			next := strings.TrimSpace(lines[i+1])
			if next != "" && isLowercaseStart(next) {
				result = append(result, current[:len(current)-1]+next)
				i++
				continue
			}
		}
		result = append(result, lines[i])
	}
	return result
}

func isLowercaseStart(s string) bool {
	r := []rune(s)[0]
	return (r >= 'a' && r <= 'z') || strings.ContainsRune("áéíóúñü", r)
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), "")
}

// CleanText collapses runs of whitespace into single spaces, the way matched
// prose is normalized before storage.
func CleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
