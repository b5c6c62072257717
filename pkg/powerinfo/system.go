package powerinfo

import (
	"context"
	"errors"
	"math"

	"github.com/distatus/battery"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/charlie0129/battbar/pkg/utils/ptr"
)

// getAll is swapped out in tests.
var getAll = battery.GetAll

// SystemProvider reports all system batteries combined into a single
// aggregate battery.
type SystemProvider struct{}

// NewSystemProvider returns a provider backed by the OS battery interfaces.
func NewSystemProvider() *SystemProvider {
	return &SystemProvider{}
}

func (p *SystemProvider) Report(ctx context.Context) (Report, error) {
	if err := ctx.Err(); err != nil {
		return Report{}, err
	}

	batteries, err := getAll()
	if len(batteries) == 0 {
		// No battery at all is a valid state, e.g. a desktop machine.
		if err != nil {
			logrus.WithError(err).Debug("no batteries reported")
		}
		return Report{Status: NotPresent}, nil
	}
	if _, partial := err.(battery.Errors); err != nil && !partial {
		return Report{}, pkgerrors.Wrap(err, "failed to read batteries")
	}

	return aggregate(batteries, err), nil
}

// aggregate combines batteries the same way an aggregate battery would:
// capacities are summed and charge rates are summed with their sign.
func aggregate(batteries []*battery.Battery, err error) Report {
	errs, partial := err.(battery.Errors)

	var (
		current, full, design, rate float64
		usable, charging, draining  int
		rateKnown                   bool
	)

	for i, bat := range batteries {
		if bat == nil {
			continue
		}
		if partial && i < len(errs) && errs[i] != nil && !usablePartial(errs[i]) {
			logrus.WithError(errs[i]).WithField("index", i).Debug("skipping battery with incomplete data")
			continue
		}
		// Some Macs report a ghost battery with zero capacity.
		if bat.Full <= 0 {
			continue
		}

		usable++
		current += bat.Current
		full += bat.Full
		design += bat.Design

		if partial && i < len(errs) && rateMissing(errs[i]) {
			continue
		}
		rateKnown = true

		switch bat.State.Raw {
		case battery.Charging:
			charging++
			rate += math.Abs(bat.ChargeRate)
		case battery.Discharging:
			if bat.ChargeRate != 0 {
				draining++
			}
			rate -= math.Abs(bat.ChargeRate)
		}
	}

	if usable == 0 {
		return Report{Status: NotPresent}
	}

	r := Report{
		Status:     Idle,
		Remaining:  ptr.To(int(math.Round(current))),
		FullCharge: ptr.To(int(math.Round(full))),
	}
	if design > 0 {
		r.Design = ptr.To(int(math.Round(design)))
	}
	if rateKnown {
		r.ChargeRate = ptr.To(int(math.Round(rate)))
	}

	switch {
	case charging > 0:
		r.Status = Charging
	case draining > 0:
		r.Status = Discharging
	}

	return r
}

// usablePartial reports whether a per-battery error still leaves the
// capacity figures readable.
func usablePartial(err error) bool {
	var p battery.ErrPartial
	if !errors.As(err, &p) {
		return false
	}
	return p.Current == nil && p.Full == nil
}

func rateMissing(err error) bool {
	if err == nil {
		return false
	}
	var p battery.ErrPartial
	if !errors.As(err, &p) {
		return true
	}
	return p.ChargeRate != nil || p.State != nil
}
