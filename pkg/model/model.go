// Package model loads the artifacts produced by the offline training job:
// the fitted TF-IDF vectorizer, the classifier, the tuned decision threshold,
// the scam keyword list and the optional feature-schema descriptor.
package model

import (
	"errors"

	"github.com/mchmarny/jobfraud/pkg/vector"
)

var (
	// ErrArtifact marks a required artifact that is missing or corrupt.
	ErrArtifact = errors.New("invalid artifact")
	// ErrWidth marks a feature vector whose width the classifier rejects.
	ErrWidth = errors.New("feature width mismatch")
)

// Vectorizer maps canonical text to a fixed-width sparse vector.
type Vectorizer interface {
	Transform(canonical string) (vector.Sparse, error)
	Width() int
}

// Classifier returns per-class probabilities, [p(legit), p(fraud)].
type Classifier interface {
	PredictProba(x vector.Sparse) ([]float64, error)
}

// WidthReporter is implemented by classifiers that know their input width.
type WidthReporter interface {
	NumFeatures() (int, bool)
}

// ExpectedWidth returns the input width c reports, if any.
func ExpectedWidth(c Classifier) (int, bool) {
	if r, ok := c.(WidthReporter); ok {
		return r.NumFeatures()
	}
	return 0, false
}
