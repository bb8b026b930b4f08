package model

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
)

const (
	typeLogistic = "logistic"
	typeXGBoost  = "xgboost"
)

// LoadClassifier reads a classifier export and dispatches on its "type".
func LoadClassifier(path string) (Classifier, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading model %s: %w", ErrArtifact, path, err)
	}

	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(b, &head); err != nil {
		return nil, fmt.Errorf("%w: decoding model %s: %w", ErrArtifact, path, err)
	}

	var c interface {
		Classifier
		validate() error
	}
	switch head.Type {
	case typeLogistic:
		c = &Logistic{}
	case typeXGBoost:
		c = &TreeEnsemble{}
	default:
		return nil, fmt.Errorf("%w: model %s has unsupported type %q", ErrArtifact, path, head.Type)
	}

	if err := json.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("%w: decoding %s model %s: %w", ErrArtifact, head.Type, path, err)
	}
	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("%w: %s model %s: %w", ErrArtifact, head.Type, path, err)
	}
	return c, nil
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

func binary(p float64) []float64 {
	return []float64{1 - p, p}
}
