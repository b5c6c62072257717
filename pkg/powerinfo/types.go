package powerinfo

import (
	"context"
	"encoding/json"
	"fmt"
)

// Status represents the aggregate state of the system battery.
type Status int

const (
	// NotPresent indicates there is no usable battery.
	NotPresent Status = iota
	// Idle indicates a battery is present but neither charging nor discharging.
	Idle
	// Charging indicates the battery is charging.
	Charging
	// Discharging indicates the battery is draining.
	Discharging
)

var statusNames = [...]string{"notPresent", "idle", "charging", "discharging"}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return fmt.Sprintf("Status(%d)", int(s))
	}
	return statusNames[s]
}

// MarshalJSON encodes the status by name.
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON accepts the status name.
func (s *Status) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err != nil {
		return err
	}
	st, ok := lookupStatus(name)
	if !ok {
		return fmt.Errorf("unknown battery status %q", name)
	}
	*s = st
	return nil
}

// ParseStatus returns the status with the given name, or NotPresent.
func ParseStatus(name string) Status {
	st, _ := lookupStatus(name)
	return st
}

func lookupStatus(name string) (Status, bool) {
	for i, n := range statusNames {
		if n == name {
			return Status(i), true
		}
	}
	return NotPresent, false
}

// Report is a read-only snapshot of the battery taken on each poll.
// Units:
// - ChargeRate: mW (negative when discharging)
// - Remaining, FullCharge, Design: mWh
//
// Nil fields were not reported by the platform.
type Report struct {
	Status     Status `json:"status"`
	ChargeRate *int   `json:"chargeRate,omitempty"`
	Remaining  *int   `json:"remaining,omitempty"`
	FullCharge *int   `json:"fullCharge,omitempty"`
	Design     *int   `json:"design,omitempty"`
}

// Provider returns battery reports on demand.
type Provider interface {
	Report(ctx context.Context) (Report, error)
}

// Static always returns the same report.
type Static struct {
	R   Report
	Err error
}

func (s Static) Report(_ context.Context) (Report, error) {
	return s.R, s.Err
}
