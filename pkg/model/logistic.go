package model

import (
	"errors"
	"fmt"

	"github.com/mchmarny/jobfraud/pkg/vector"
)

// Logistic is a binary logistic regression export (sklearn coef_ and
// intercept_). NFeaturesIn is optional; when zero the model does not
// advertise its width.
type Logistic struct {
	Coef        []float64 `json:"coef"`
	Intercept   float64   `json:"intercept"`
	NFeaturesIn int       `json:"n_features_in,omitempty"`
}

func (m *Logistic) validate() error {
	if len(m.Coef) == 0 {
		return errors.New("no coefficients")
	}
	if m.NFeaturesIn != 0 && m.NFeaturesIn != len(m.Coef) {
		return fmt.Errorf("n_features_in %d does not match %d coefficients", m.NFeaturesIn, len(m.Coef))
	}
	return nil
}

// NumFeatures implements WidthReporter.
func (m *Logistic) NumFeatures() (int, bool) {
	return m.NFeaturesIn, m.NFeaturesIn > 0
}

// WeightedSum returns the decision function value of x.
func (m *Logistic) WeightedSum(x vector.Sparse) float64 {
	sum := m.Intercept
	for n, i := range x.Indices {
		sum += m.Coef[i] * x.Values[n]
	}
	return sum
}

// PredictProba implements Classifier.
func (m *Logistic) PredictProba(x vector.Sparse) ([]float64, error) {
	if x.Width != len(m.Coef) {
		return nil, fmt.Errorf("%w: logistic model expects %d features, got %d", ErrWidth, len(m.Coef), x.Width)
	}
	if err := x.Validate(); err != nil {
		return nil, fmt.Errorf("invalid feature vector: %w", err)
	}
	return binary(sigmoid(m.WeightedSum(x))), nil
}
