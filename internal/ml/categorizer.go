package ml

import (
	"errors"
	"fmt"
	"math"

	"finassist/internal/core"
)

// ErrTraining marks insufficient or degenerate training data. Fatal to
// the training run; a previously deployed artifact is unaffected.
var ErrTraining = errors.New("insufficient training data")

// Categorizer is the trained description->category model: the fitted
// vectorizer and a multinomial naive Bayes classifier over the label
// set observed at training time. Immutable after training.
type Categorizer struct {
	Vec           Vectorizer
	Classes       []string
	ClassLogPrior []float64
	// FeatureLogProb[c][j] is the log likelihood of feature j under
	// class c, Laplace-smoothed.
	FeatureLogProb [][]float64
}

// TrainCategorizer fits the model on the historical (description,
// category) pairs of a record set. Supervised: every record's existing
// label is the target. Fails on an empty set or fewer than two
// distinct labels, since one class cannot be discriminated.
func TrainCategorizer(records []core.Record) (*Categorizer, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no records", ErrTraining)
	}

	docs := make([]string, len(records))
	labels := make([]string, len(records))
	classIndex := make(map[string]int)
	for i, r := range records {
		docs[i] = r.Description
		labels[i] = r.Category
		if _, ok := classIndex[r.Category]; !ok {
			classIndex[r.Category] = len(classIndex)
		}
	}
	if len(classIndex) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 distinct categories, have %d", ErrTraining, len(classIndex))
	}

	vec := fitVectorizer(docs)
	nClasses := len(classIndex)
	nFeatures := len(vec.Vocab)

	classes := make([]string, nClasses)
	for label, c := range classIndex {
		classes[c] = label
	}

	classCount := make([]float64, nClasses)
	featureCount := make([][]float64, nClasses)
	featureTotal := make([]float64, nClasses)
	for c := range featureCount {
		featureCount[c] = make([]float64, nFeatures)
	}
	for i, doc := range docs {
		c := classIndex[labels[i]]
		classCount[c]++
		for j, w := range vec.Transform(doc) {
			featureCount[c][j] += w
			featureTotal[c] += w
		}
	}

	// Laplace smoothing with alpha=1 over tf-idf pseudo-counts.
	const alpha = 1.0
	model := &Categorizer{
		Vec:            vec,
		Classes:        classes,
		ClassLogPrior:  make([]float64, nClasses),
		FeatureLogProb: make([][]float64, nClasses),
	}
	total := float64(len(docs))
	for c := 0; c < nClasses; c++ {
		model.ClassLogPrior[c] = math.Log(classCount[c] / total)
		model.FeatureLogProb[c] = make([]float64, nFeatures)
		denom := featureTotal[c] + alpha*float64(nFeatures)
		for j := 0; j < nFeatures; j++ {
			model.FeatureLogProb[c][j] = math.Log((featureCount[c][j] + alpha) / denom)
		}
	}
	return model, nil
}

// Predict returns the highest-probability trained label for a
// description. It always answers, even for text unlike anything seen
// in training: with no known tokens the class priors decide. Labels
// unseen at training time are never returned.
func (m *Categorizer) Predict(description string) string {
	features := m.Vec.Transform(description)
	best := 0
	bestScore := math.Inf(-1)
	for c := range m.Classes {
		score := m.ClassLogPrior[c]
		for j, w := range features {
			score += w * m.FeatureLogProb[c][j]
		}
		if score > bestScore {
			bestScore = score
			best = c
		}
	}
	return m.Classes[best]
}
