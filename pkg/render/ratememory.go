package render

// RateMemory holds the last nonzero charge and drain rates (mW, both
// positive). They let idle ticks, where the instantaneous rate is zero,
// still show a time estimate.
type RateMemory struct {
	LastDrainRate  int `json:"lastDrainRate"`
	LastChargeRate int `json:"lastChargeRate"`
}

// Observe records rate (mW, negative when draining) and returns the
// rate the remaining time should be estimated with.
//
//   - draining: the drain rate itself, remembered as LastDrainRate.
//   - charging: remembered as LastChargeRate; the estimate uses the last
//     drain rate if one is known, i.e. how long the battery would last
//     if unplugged now, and the charge rate otherwise.
//   - idle or unknown: the larger remembered rate. Ties go to the drain
//     rate.
func (m *RateMemory) Observe(rate *int) int {
	switch {
	case rate != nil && *rate < 0:
		m.LastDrainRate = -*rate
		return m.LastDrainRate
	case rate != nil && *rate > 0:
		m.LastChargeRate = *rate
		if m.LastDrainRate > 0 {
			return m.LastDrainRate
		}
		return *rate
	}

	if m.LastChargeRate > m.LastDrainRate {
		return m.LastChargeRate
	}
	return m.LastDrainRate
}
