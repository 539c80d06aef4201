package assoc

import (
	"math"
	"strings"
)

// Relative weight of text similarity vs shared tags in the composite score.
const (
	textWeight = 0.7
	tagWeight  = 0.3
)

// termVector builds a term-frequency vector over the given text blocks.
func termVector(blocks ...string) map[string]float64 {
	v := map[string]float64{}
	for _, b := range blocks {
		for _, tok := range tokenize(b) {
			v[tok]++
		}
	}
	return v
}

// tokenize lowercases and splits on non-alphanumeric runes, dropping tokens
// too short to carry meaning.
func tokenize(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
	var toks []string
	for _, f := range fields {
		if len(f) > 2 {
			toks = append(toks, f)
		}
	}
	return toks
}

// cosine computes cosine similarity between two term vectors.
func cosine(a, b map[string]float64) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for k, av := range a {
		dot += av * b[k]
		normA += av * av
	}
	for _, bv := range b {
		normB += bv * bv
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// tagOverlap returns the fraction of a's tags that b shares.
func tagOverlap(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	set := make(map[string]bool, len(b))
	for _, t := range b {
		set[t] = true
	}
	shared := 0
	for _, t := range a {
		if set[t] {
			shared++
		}
	}
	return float64(shared) / float64(len(a))
}

// score computes the composite association score between two snapshots.
func score(a, b noteSnapshot) float64 {
	return textWeight*cosine(a.terms, b.terms) + tagWeight*tagOverlap(a.tags, b.tags)
}
