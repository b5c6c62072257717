package render

import (
	"fmt"
	"math"
	"time"
)

const unknownRemaining = "unknown"

var maxHours = float64(math.MaxInt64 / int64(time.Hour))

// EstimateRemaining returns how long capacity (mWh) lasts at rate (mW).
// The sign of rate is ignored. ok is false when no estimate is possible.
func EstimateRemaining(capacity *int, rate int) (d time.Duration, ok bool) {
	if capacity == nil || rate == 0 || *capacity < 0 {
		return 0, false
	}
	hours := float64(*capacity) / math.Abs(float64(rate))
	// time.Duration overflows past about 292 years.
	hours = min(hours, maxHours)
	return time.Duration(hours * float64(time.Hour)), true
}

// FormatRemaining renders the estimate as "3 hr 12 min", "45 min",
// "< 1 min" or "unknown".
func FormatRemaining(capacity *int, rate int) string {
	d, ok := EstimateRemaining(capacity, rate)
	if !ok {
		return unknownRemaining
	}

	minutes := int(d / time.Minute)
	switch {
	case minutes < 1:
		return "< 1 min"
	case minutes < 60:
		return fmt.Sprintf("%d min", minutes)
	case minutes%60 == 0:
		return fmt.Sprintf("%d hr", minutes/60)
	default:
		return fmt.Sprintf("%d hr %d min", minutes/60, minutes%60)
	}
}
