package render

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"

	"github.com/charlie0129/battbar/pkg/powerinfo"
)

const (
	NotPresentText = "Not Present"
	SimulationText = "⚠️ N/A (simulation)"

	// A fake bar of [1, simulatedMax) out of simulatedFull mWh is drawn
	// when there is no battery.
	simulatedFull = 50000
	simulatedMax  = 49000
)

// RenderState is everything the widget needs to draw one frame.
type RenderState struct {
	Status     powerinfo.Status `json:"status"`
	Percentage int              `json:"percentage"`
	BarLength  int              `json:"barLength"`
	Tier       Tier             `json:"tier"`
	Charge     string           `json:"charge"`
	Remain     string           `json:"remain"`

	// StatusChanged is set on the first frame after a status transition.
	StatusChanged bool `json:"statusChanged"`
	// Simulated is set when the bar shows made-up data because there is
	// no battery.
	Simulated bool `json:"simulated"`
	// Drawn is false until a frame with capacity figures was rendered.
	Drawn bool `json:"drawn"`
}

// Sampler turns battery reports into render states. It is not safe for
// concurrent use; the widget only calls it from its dispatcher.
type Sampler struct {
	memory     *RateMemory
	rand       *rand.Rand
	lastStatus powerinfo.Status
	state      RenderState
}

// NewSampler returns a sampler that keeps its rates in memory. A nil
// memory starts empty.
func NewSampler(memory *RateMemory) *Sampler {
	if memory == nil {
		memory = &RateMemory{}
	}
	return &Sampler{
		memory:     memory,
		rand:       rand.New(rand.NewSource(time.Now().UnixNano())),
		lastStatus: powerinfo.NotPresent,
		state: RenderState{
			Status: powerinfo.NotPresent,
			Charge: "0%",
			Remain: "1 hour",
		},
	}
}

// Memory returns the rate memory the sampler updates.
func (s *Sampler) Memory() *RateMemory {
	return s.memory
}

// State returns the last committed state.
func (s *Sampler) State() RenderState {
	return s.state
}

// Sample renders report into a new state, scaled to barMaxWidth.
//
// When an error is returned the previous frame and rate memory are kept,
// but the status transition is still recorded: the returned state is the
// previous frame with Status and StatusChanged of this report.
func (s *Sampler) Sample(report powerinfo.Report, barMaxWidth int) (RenderState, error) {
	next := s.state
	mem := *s.memory

	next.Status = report.Status
	next.StatusChanged = report.Status != s.lastStatus
	next.Simulated = false

	if report.Status == powerinfo.NotPresent {
		next.Charge = NotPresentText
		next.Remain = SimulationText
		if err := draw(&next, 1+s.rand.Intn(simulatedMax-1), simulatedFull, barMaxWidth); err != nil {
			return s.fail(report.Status), err
		}
		next.Simulated = true
		s.commit(next, mem, report.Status)
		return next, nil
	}

	logrus.WithFields(logrus.Fields{
		"status":     report.Status,
		"chargeRate": formatMilli(report.ChargeRate, "W"),
		"design":     formatMilli(report.Design, "Wh"),
		"fullCharge": formatMilli(report.FullCharge, "Wh"),
		"remaining":  formatMilli(report.Remaining, "Wh"),
	}).Debug("battery report")

	rate := mem.Observe(report.ChargeRate)
	next.Remain = "⌛ " + FormatRemaining(report.Remaining, rate)

	if report.Remaining != nil && report.FullCharge != nil {
		if err := draw(&next, *report.Remaining, *report.FullCharge, barMaxWidth); err != nil {
			return s.fail(report.Status), err
		}
		next.Charge = fmt.Sprintf("⚡ %d%%", next.Percentage)
	}

	s.commit(next, mem, report.Status)
	return next, nil
}

// fail records only the status of a frame that could not be drawn.
func (s *Sampler) fail(status powerinfo.Status) RenderState {
	st := s.state
	st.Status = status
	st.StatusChanged = status != s.lastStatus
	s.lastStatus = status
	return st
}

func (s *Sampler) commit(next RenderState, mem RateMemory, status powerinfo.Status) {
	s.state = next
	*s.memory = mem
	s.lastStatus = status
}

func draw(st *RenderState, remaining, full, barMaxWidth int) error {
	p, err := Percentage(remaining, full)
	if err != nil {
		return err
	}
	st.Percentage = p
	st.BarLength = BarLength(p, barMaxWidth)
	st.Tier = TierFor(p)
	st.Drawn = true
	return nil
}

func formatMilli(v *int, unit string) string {
	if v == nil {
		return "n/a"
	}
	return humanize.SIWithDigits(float64(*v)/1e3, 2, unit)
}
