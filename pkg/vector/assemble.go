package vector

import (
	"log/slog"

	"github.com/mchmarny/jobfraud/pkg/feature"
)

// Assembler concatenates the text vector with the heuristic block according
// to its Policy. It never fails; a true width incompatibility surfaces when
// the classifier rejects the assembled vector.
type Assembler struct {
	Policy Policy
}

// NewAssembler returns an assembler using p, or the width policy when p is nil.
func NewAssembler(p Policy) *Assembler {
	if p == nil {
		p = WidthPolicy{}
	}
	return &Assembler{Policy: p}
}

// Assemble returns text alone or text followed by h. The result width is
// always text.Width or text.Width + feature.Width.
func (a *Assembler) Assemble(text Sparse, h feature.Vector, expected int, known bool) Sparse {
	if !a.Policy.IncludeHeuristics(text.Width, expected, known) {
		if known && expected != text.Width {
			slog.Debug("expected width matches neither layout, using text only",
				"expected", expected, "text_width", text.Width)
		}
		return text
	}

	out := text.Append(h.Slice())
	if known && expected != out.Width {
		slog.Debug("expected width matches neither layout, appending heuristics",
			"expected", expected, "assembled_width", out.Width)
	}
	return out
}
