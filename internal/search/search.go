// Package search ranks records by approximate text match over weighted fields.
//
// A field matches when the query can be aligned against some substring of
// the field value with at most Threshold*len(query) edits. Where the match
// occurs in the field does not matter. A record's score combines the scores
// of its matching fields, weighted by field weight and field length; lower
// is better, 0 is an exact field match.
package search

import (
	"math"
	"sort"
	"strings"

	"golang.org/x/text/cases"
)

const (
	DefaultThreshold          = 0.6
	DefaultMinMatchCharLength = 1

	// floor for a non-exact match so it always ranks below an exact one
	minScore = 0.001
	epsilon  = 2.220446049250313e-16
)

// Field extracts one searchable value from a record.
type Field[T any] struct {
	Name   string
	Weight float64
	Value  func(T) string
}

type Options struct {
	// Threshold is the largest accepted ratio of edits to query length.
	Threshold float64
	// MinMatchCharLength is how many query characters must line up with a
	// field before that field counts as matched.
	MinMatchCharLength int
}

type Result[T any] struct {
	Item    T
	Index   int
	Score   float64
	Matched []string
}

type entry struct {
	value []rune
	norm  float64
}

// Index is built once per record set. It is safe for concurrent Search calls.
type Index[T any] struct {
	items   []T
	fields  []Field[T]
	weights []float64
	entries [][]entry
	opts    Options
}

func NewIndex[T any](items []T, opts Options, fields ...Field[T]) *Index[T] {
	if opts.Threshold <= 0 {
		opts.Threshold = DefaultThreshold
	}
	if opts.MinMatchCharLength <= 0 {
		opts.MinMatchCharLength = DefaultMinMatchCharLength
	}

	total := 0.0
	for _, f := range fields {
		total += weightOf(f)
	}
	weights := make([]float64, len(fields))
	for i, f := range fields {
		weights[i] = weightOf(f) / total
	}

	fold := cases.Fold()
	entries := make([][]entry, len(items))
	for i, it := range items {
		row := make([]entry, len(fields))
		for j, f := range fields {
			v := f.Value(it)
			if strings.TrimSpace(v) == "" {
				continue
			}
			row[j] = entry{value: []rune(fold.String(v)), norm: fieldNorm(v)}
		}
		entries[i] = row
	}

	return &Index[T]{items: items, fields: fields, weights: weights, entries: entries, opts: opts}
}

// Search returns the matching records best first. Records with equal scores
// keep their original order.
func (ix *Index[T]) Search(query string) []Result[T] {
	pattern := []rune(cases.Fold().String(query))
	if len(pattern) == 0 {
		return nil
	}

	var out []Result[T]
	for i, row := range ix.entries {
		total := 1.0
		var matched []string
		for j, e := range row {
			if e.value == nil {
				continue
			}
			score, ok := ix.matchField(pattern, e.value)
			if !ok {
				continue
			}
			if score == 0 {
				score = epsilon
			}
			total *= math.Pow(score, ix.weights[j]*e.norm)
			matched = append(matched, ix.fields[j].Name)
		}
		if matched == nil {
			continue
		}
		out = append(out, Result[T]{Item: ix.items[i], Index: i, Score: total, Matched: matched})
	}

	sort.SliceStable(out, func(a, b int) bool {
		if out[a].Score == out[b].Score {
			return out[a].Index < out[b].Index
		}
		return out[a].Score < out[b].Score
	})
	return out
}

// Items is a convenience wrapper returning only the ranked records.
func (ix *Index[T]) Items(query string) []T {
	results := ix.Search(query)
	out := make([]T, 0, len(results))
	for _, r := range results {
		out = append(out, r.Item)
	}
	return out
}

func (ix *Index[T]) matchField(pattern, text []rune) (float64, bool) {
	if string(pattern) == string(text) {
		return 0, true
	}
	if len(pattern) < ix.opts.MinMatchCharLength {
		return 0, false
	}
	maxErrors := int(ix.opts.Threshold * float64(len(pattern)))
	errs := substringDistance(pattern, text, maxErrors)
	if errs > maxErrors {
		return 0, false
	}
	if len(pattern)-errs < ix.opts.MinMatchCharLength {
		return 0, false
	}
	score := float64(errs) / float64(len(pattern))
	if score > ix.opts.Threshold {
		return 0, false
	}
	return math.Max(minScore, score), true
}

// substringDistance is the smallest edit distance between pattern and any
// substring of text. Anything above limit is reported as limit+1.
func substringDistance(pattern, text []rune, limit int) int {
	m := len(pattern)
	prev := make([]int, m+1)
	cur := make([]int, m+1)
	for i := range prev {
		prev[i] = i
	}
	best := prev[m]
	for _, tc := range text {
		cur[0] = 0
		for i := 1; i <= m; i++ {
			cost := 1
			if pattern[i-1] == tc {
				cost = 0
			}
			cur[i] = min(prev[i-1]+cost, prev[i]+1, cur[i-1]+1)
		}
		if cur[m] < best {
			best = cur[m]
			if best == 0 {
				return 0
			}
		}
		prev, cur = cur, prev
	}
	if best > limit {
		return limit + 1
	}
	return best
}

// fieldNorm shortens the influence of long fields: 1/sqrt(word count),
// rounded to three decimals.
func fieldNorm(v string) float64 {
	n := len(strings.Fields(v))
	if n == 0 {
		return 1
	}
	return math.Round(1/math.Sqrt(float64(n))*1000) / 1000
}

func weightOf[T any](f Field[T]) float64 {
	if f.Weight <= 0 {
		return 1
	}
	return f.Weight
}
