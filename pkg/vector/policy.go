package vector

import "github.com/mchmarny/jobfraud/pkg/feature"

// Policy decides whether the heuristic block is appended to a text vector.
// expected is the classifier's input width when known is true.
type Policy interface {
	IncludeHeuristics(textWidth, expected int, known bool) bool
}

// WidthPolicy infers the feature layout from the classifier's expected width.
// It is a best-effort shim for artifact drift, not a verified contract.
type WidthPolicy struct{}

// IncludeHeuristics implements Policy.
func (WidthPolicy) IncludeHeuristics(textWidth, expected int, known bool) bool {
	if !known {
		// canonical training layout
		return true
	}
	switch expected {
	case textWidth + feature.Width:
		return true
	case textWidth:
		return false
	default:
		return expected > textWidth
	}
}

// SchemaPolicy follows an explicit feature-schema descriptor shipped with the
// model instead of guessing from widths.
type SchemaPolicy struct {
	// Heuristics is true when the model was trained with the heuristic block.
	Heuristics bool
}

// IncludeHeuristics implements Policy.
func (p SchemaPolicy) IncludeHeuristics(_, _ int, _ bool) bool {
	return p.Heuristics
}
