package render

import (
	"encoding/json"
	"fmt"
)

// Tier is the colour bucket of the fill.
type Tier int

const (
	// TierD is used below 25%.
	TierD Tier = iota
	// TierC is used from 25%.
	TierC
	// TierB is used from 50%.
	TierB
	// TierA is used from 75%.
	TierA
)

// TierFor maps a percentage to its tier. Anything below 25, including
// out of range input, is TierD.
func TierFor(percentage int) Tier {
	switch {
	case percentage >= 75:
		return TierA
	case percentage >= 50:
		return TierB
	case percentage >= 25:
		return TierC
	default:
		return TierD
	}
}

func (t Tier) String() string {
	switch t {
	case TierA:
		return "A"
	case TierB:
		return "B"
	case TierC:
		return "C"
	case TierD:
		return "D"
	}
	return fmt.Sprintf("Tier(%d)", int(t))
}

func (t Tier) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *Tier) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	for _, c := range []Tier{TierA, TierB, TierC, TierD} {
		if c.String() == s {
			*t = c
			return nil
		}
	}
	return fmt.Errorf("unknown tier %q", s)
}

// ARGB is an 8-bit per channel colour with alpha.
type ARGB struct {
	A, R, G, B uint8
}

// Hex returns the colour as #RRGGBB, alpha dropped.
func (c ARGB) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// Blend interpolates between c and o, alpha included.
func (c ARGB) Blend(o ARGB, t float64) ARGB {
	if t <= 0 {
		return c
	}
	if t >= 1 {
		return o
	}
	mix := func(a, b uint8) uint8 {
		return uint8(Lerp(float64(a), float64(b), t) + 0.5)
	}
	return ARGB{A: mix(c.A, o.A), R: mix(c.R, o.R), G: mix(c.G, o.G), B: mix(c.B, o.B)}
}

// Gradient returns the three diagonal gradient stops of the tier,
// from the empty end to the full end.
func (t Tier) Gradient() [3]ARGB {
	switch t {
	case TierA:
		return [3]ARGB{
			{225, 255, 160, 0}, // orange
			{225, 240, 226, 0}, // yellow
			{225, 20, 255, 0},  // green
		}
	case TierB:
		return [3]ARGB{
			{225, 255, 120, 0}, // red-orange
			{225, 255, 200, 0}, // orange-yellow
			{225, 155, 255, 0}, // green-yellow
		}
	case TierC:
		return [3]ARGB{
			{225, 255, 50, 0},  // red
			{225, 255, 160, 0}, // orange
			{225, 240, 226, 0}, // yellow
		}
	default:
		return [3]ARGB{
			{225, 255, 50, 0},  // red-orange
			{225, 255, 100, 0}, // orange
			{225, 255, 150, 0}, // yellow-orange
		}
	}
}

// ColorAt samples the tier gradient at pos in [0, 1].
func (t Tier) ColorAt(pos float64) ARGB {
	stops := t.Gradient()
	if pos <= 0.5 {
		return stops[0].Blend(stops[1], pos*2)
	}
	return stops[1].Blend(stops[2], (pos-0.5)*2)
}
