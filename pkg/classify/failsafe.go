package classify

import (
	"errors"
	"fmt"
	"log/slog"
)

// FailSafe is the label reported when classification fails.
type FailSafe struct {
	Label int
}

// DefaultFailSafe reports failures as fraudulent.
var DefaultFailSafe = FailSafe{Label: Fraudulent}

// NewFailSafe validates label.
func NewFailSafe(label int) (FailSafe, error) {
	if label != Legit && label != Fraudulent {
		return FailSafe{}, fmt.Errorf("fail-safe label must be %d or %d, got %d", Legit, Fraudulent, label)
	}
	return FailSafe{Label: label}, nil
}

// Resolve returns the label to report for a classification outcome. Errors
// are logged, never returned.
func (f FailSafe) Resolve(res *Result, err error) int {
	if err == nil && res != nil {
		return res.Prediction
	}
	if err == nil {
		err = errors.New("no result")
	}
	slog.Error("classification failed, reporting fail-safe label", "label", f.Label, "error", err)
	return f.Label
}
