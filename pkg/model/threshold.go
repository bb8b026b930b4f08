package model

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
)

// DefaultThreshold applies when no tuned threshold is available.
const DefaultThreshold = 0.50

// LoadThreshold reads the tuned decision threshold. Any failure returns
// DefaultThreshold together with the reason.
func LoadThreshold(path string) (float64, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return DefaultThreshold, fmt.Errorf("reading threshold %s: %w", path, err)
	}

	t, err := strconv.ParseFloat(strings.TrimSpace(string(b)), 64)
	if err != nil {
		return DefaultThreshold, fmt.Errorf("parsing threshold %s: %w", path, err)
	}
	if math.IsNaN(t) || t < 0 || t > 1 {
		return DefaultThreshold, fmt.Errorf("threshold %v in %s outside [0,1]", t, path)
	}
	return t, nil
}
