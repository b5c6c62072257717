package render

import (
	"fmt"
	"math"
)

// Percentage returns round(remaining/full*100) clamped to [0, 100].
func Percentage(remaining, full int) (int, error) {
	if full <= 0 {
		return 0, fmt.Errorf("full charge capacity must be positive, got %d", full)
	}
	if remaining < 0 {
		return 0, fmt.Errorf("remaining capacity must not be negative, got %d", remaining)
	}

	p := int(math.Round(float64(remaining) / float64(full) * 100))
	// Worn batteries may report more than their full charge capacity.
	if p > 100 {
		p = 100
	}
	return p, nil
}

// BarLength scales percentage to maxWidth.
func BarLength(percentage, maxWidth int) int {
	if maxWidth <= 0 {
		return 0
	}
	return int(math.Round(float64(percentage) / 100 * float64(maxWidth)))
}

// Lerp linearly interpolates between from and to.
func Lerp(from, to, t float64) float64 {
	return from + (to-from)*t
}
