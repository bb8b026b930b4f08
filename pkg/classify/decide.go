package classify

// Labels emitted by the decision engine.
const (
	Legit      = 0
	Fraudulent = 1
)

// Decide labels a posting fraudulent when probability reaches threshold.
// The boundary is inclusive.
func Decide(probability, threshold float64) int {
	if probability >= threshold {
		return Fraudulent
	}
	return Legit
}
