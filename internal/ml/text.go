// Package ml holds the two offline-trained models: a description
// categorizer (tf-idf + multinomial naive Bayes) and a monthly spend
// forecaster (ordinary least squares). Both are trained as batch jobs
// and loaded as immutable artifacts; inference never mutates them, so
// one artifact is safe to share across concurrent callers.
package ml

import (
	"math"
	"strings"
	"unicode"
)

// Vectorizer maps free text to smoothed tf-idf feature weights. The
// vocabulary and idf terms are fixed at training time and must travel
// with any classifier fitted on its output; applying a classifier with
// a different transform is undefined, so the Categorizer bundles both.
type Vectorizer struct {
	Vocab map[string]int
	IDF   []float64
}

// tokenize lowercases and splits on non-alphanumerics, keeping tokens
// of at least two characters.
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	tokens := fields[:0]
	for _, f := range fields {
		if len([]rune(f)) >= 2 {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

func fitVectorizer(docs []string) Vectorizer {
	vocab := make(map[string]int)
	df := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]bool)
		for _, tok := range tokenize(doc) {
			if _, ok := vocab[tok]; !ok {
				vocab[tok] = len(vocab)
			}
			if !seen[tok] {
				seen[tok] = true
				df[tok]++
			}
		}
	}

	// Smoothed idf: ln((1+n)/(1+df)) + 1.
	n := float64(len(docs))
	idf := make([]float64, len(vocab))
	for tok, j := range vocab {
		idf[j] = math.Log((1+n)/(1+float64(df[tok]))) + 1
	}
	return Vectorizer{Vocab: vocab, IDF: idf}
}

// Transform returns the l2-normalized tf-idf weights of a document as
// a sparse index->weight map. Tokens outside the training vocabulary
// contribute nothing.
func (v Vectorizer) Transform(text string) map[int]float64 {
	tf := make(map[int]float64)
	for _, tok := range tokenize(text) {
		if j, ok := v.Vocab[tok]; ok {
			tf[j]++
		}
	}
	var norm float64
	for j := range tf {
		tf[j] *= v.IDF[j]
		norm += tf[j] * tf[j]
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for j := range tf {
			tf[j] /= norm
		}
	}
	return tf
}
