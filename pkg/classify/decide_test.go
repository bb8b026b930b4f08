package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecide_InclusiveBoundary(t *testing.T) {
	for _, th := range []float64{0, 0.1, 0.42, 0.5, 0.999, 1} {
		assert.Equal(t, Fraudulent, Decide(th, th), "threshold %v", th)
	}
}

func TestDecide(t *testing.T) {
	assert.Equal(t, Legit, Decide(0.49, 0.5))
	assert.Equal(t, Fraudulent, Decide(0.51, 0.5))
	assert.Equal(t, Fraudulent, Decide(0, 0))
	assert.Equal(t, Legit, Decide(0.99, 1))
}

func TestDecide_Monotonic(t *testing.T) {
	steps := 200
	for i := 0; i <= steps; i++ {
		th := float64(i) / float64(steps)

		prev := Legit
		for j := 0; j <= steps; j++ {
			p := float64(j) / float64(steps)
			got := Decide(p, th)
			assert.GreaterOrEqual(t, got, prev, "p=%v t=%v flipped back", p, th)
			prev = got
		}
	}

	for j := 0; j <= steps; j++ {
		p := float64(j) / float64(steps)

		prev := Fraudulent
		for i := 0; i <= steps; i++ {
			th := float64(i) / float64(steps)
			got := Decide(p, th)
			assert.LessOrEqual(t, got, prev, "p=%v t=%v flipped up", p, th)
			prev = got
		}
	}
}
