// Package dispatch selects a parsing strategy for an article span by testing
// surface markers in a fixed priority order. Each field category owns one
// Table; the first strategy whose precondition marker matches the span body
// is applied, and a span matching no marker is reported as unrecognized
// rather than parsed by guesswork.
package dispatch

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrUnrecognized is returned when no registered strategy's marker matches.
var ErrUnrecognized = errors.New("unrecognized format")

// Strategy pairs a precondition marker with the parse function it gates.
// Parse runs only when Marker matched the body.
type Strategy[T any] struct {
	Name   string
	Marker *regexp.Regexp
	Parse  func(body string) (T, error)
}

// Table is an ordered set of strategies for one field category.
type Table[T any] struct {
	Category   string
	strategies []Strategy[T]
}

// NewTable creates a dispatch table for the named category.
func NewTable[T any](category string) *Table[T] {
	return &Table[T]{Category: category}
}

// Register appends a strategy. Strategies are tried in registration order,
// so more specific markers must be registered before generic ones.
func (t *Table[T]) Register(name, marker string, parse func(body string) (T, error)) *Table[T] {
	t.strategies = append(t.strategies, Strategy[T]{
		Name:   name,
		Marker: regexp.MustCompile(marker),
		Parse:  parse,
	})
	return t
}

// Dispatch tests strategies in priority order and applies the first whose
// marker matches. It returns the parsed value and the selected strategy name,
// or ErrUnrecognized when no marker matched.
func (t *Table[T]) Dispatch(body string) (T, string, error) {
	for _, s := range t.strategies {
		if s.Marker.MatchString(body) {
			v, err := s.Parse(body)
			if err != nil {
				return v, s.Name, fmt.Errorf("strategy %s: %w", s.Name, err)
			}
			return v, s.Name, nil
		}
	}
	var zero T
	return zero, "", fmt.Errorf("category %s: %w", t.Category, ErrUnrecognized)
}

// Strategies returns the registered strategy names in priority order.
func (t *Table[T]) Strategies() []string {
	names := make([]string, len(t.strategies))
	for i, s := range t.strategies {
		names[i] = s.Name
	}
	return names
}
