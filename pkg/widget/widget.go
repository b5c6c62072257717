package widget

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/charlie0129/battbar/pkg/config"
	"github.com/charlie0129/battbar/pkg/powerinfo"
	"github.com/charlie0129/battbar/pkg/render"
)

const (
	// windowChrome is the horizontal space of the window not used by the bar.
	windowChrome = 141
	// defaultWorkWidth is used when the window is too narrow to be useful.
	defaultWorkWidth = 300

	simulatedAnimation = 125 * time.Millisecond
	unloadTimeout      = 2 * time.Second
)

// Activator brings the widget's window to the front.
type Activator interface {
	Activate()
}

// ActivatorFunc adapts a function to Activator.
type ActivatorFunc func()

func (f ActivatorFunc) Activate() { f() }

// SampleObserver is told the outcome of every tick, from the dispatcher
// goroutine. err is set when the report could not be read or rendered.
type SampleObserver interface {
	Sampled(report powerinfo.Report, state render.RenderState, err error)
}

// SkipObserver can be implemented by a SampleObserver to learn about
// ticks that were dropped because the widget was closing or the
// dispatcher was busy. It may be called from any goroutine.
type SkipObserver interface {
	Skipped()
}

// Options configures a Widget.
type Options struct {
	Provider   powerinfo.Provider
	Config     config.Config
	Dispatcher *Dispatcher
	// Activator is optional.
	Activator Activator
	// Observers are optional.
	Observers []SampleObserver
}

// Widget polls the battery on a timer and keeps its Properties up to
// date. All state changes happen on the dispatcher goroutine.
type Widget struct {
	provider   powerinfo.Provider
	conf       config.Config
	dispatcher *Dispatcher
	activator  Activator
	observers  []SampleObserver
	props      *Properties

	// Only touched on the dispatcher.
	sampler   *render.Sampler
	animator  render.Animator
	animGen   int
	workWidth int

	mu        sync.Mutex
	timerStop chan struct{}

	ctx       context.Context
	cancel    context.CancelFunc
	bg        sync.WaitGroup
	closing   atomic.Bool
	startedAt time.Time
}

func New(opts Options) *Widget {
	if opts.Provider == nil || opts.Config == nil || opts.Dispatcher == nil {
		panic("widget: provider, config and dispatcher are required")
	}

	memory := &render.RateMemory{
		LastChargeRate: opts.Config.LastChargeRate(),
		LastDrainRate:  opts.Config.LastDrainRate(),
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Widget{
		provider:   opts.Provider,
		conf:       opts.Config,
		dispatcher: opts.Dispatcher,
		activator:  opts.Activator,
		observers:  opts.Observers,
		props:      NewProperties(),
		sampler:    render.NewSampler(memory),
		workWidth:  defaultWorkWidth,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Properties returns the observable state of the widget.
func (w *Widget) Properties() *Properties {
	return w.props
}

// IsClosing reports whether Unload was called.
func (w *Widget) IsClosing() bool {
	return w.closing.Load()
}

// Load initialises the properties, starts the refresh timer and the
// background image scan. Cancelling ctx stops background work.
func (w *Widget) Load(ctx context.Context) error {
	w.startedAt = time.Now()

	// Tie background work to both ctx and Unload.
	stop := context.AfterFunc(ctx, w.cancel)
	go func() {
		<-w.ctx.Done()
		stop()
	}()

	err := w.dispatcher.Invoke(ctx, func() {
		w.props.SetIsBusy(true)
		w.applyConfig()
	})
	if err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"workWidth": w.workWidth,
		"refresh":   w.conf.RefreshInterval().String(),
	}).Info("widget loaded")

	w.ToggleTimer(true)

	w.bg.Add(1)
	go func() {
		defer w.bg.Done()
		w.loadBackground(w.ctx)
	}()

	return nil
}

// Unload stops the timer and background work and saves the rate memory
// back to the config.
func (w *Widget) Unload() {
	if w.closing.Swap(true) {
		return
	}

	w.ToggleTimer(false)
	w.cancel()
	w.bg.Wait()

	ctx, cancel := context.WithTimeout(context.Background(), unloadTimeout)
	defer cancel()

	var mem render.RateMemory
	err := w.dispatcher.Invoke(ctx, func() {
		w.animator.Stop()
		mem = *w.sampler.Memory()
	})
	if err != nil {
		// The dispatcher is gone, nothing else touches the sampler now.
		w.animator.Stop()
		mem = *w.sampler.Memory()
	}

	w.conf.SetLastRates(mem.LastChargeRate, mem.LastDrainRate)
	if err := w.conf.Save(); err != nil {
		logrus.WithError(err).Error("failed to save rate memory")
	}

	logrus.WithFields(logrus.Fields{
		"lastChargeRate": mem.LastChargeRate,
		"lastDrainRate":  mem.LastDrainRate,
	}).Infof("widget instance ran for %s", time.Since(w.startedAt).Round(time.Second))
}

// Reconfigure applies the current config: layout, opacity and the
// refresh interval.
func (w *Widget) Reconfigure(ctx context.Context) error {
	if err := w.dispatcher.Invoke(ctx, w.applyConfig); err != nil {
		return err
	}
	w.RestartTimer()
	return nil
}

// applyConfig runs on the dispatcher.
func (w *Widget) applyConfig() {
	w.workWidth = w.conf.WindowWidth() - windowChrome
	if w.workWidth <= 0 {
		w.workWidth = defaultWorkWidth
	}

	w.props.SetOutlineWidth(float64(w.workWidth + 2))
	w.props.SetCornerRadius(w.conf.CornerRadius())
	w.props.SetFillHeight(w.conf.FillHeight())
	w.props.SetOutlineHeight(w.conf.FillHeight() + 2)

	if w.conf.Transparency() {
		w.props.SetOpacity(0.75)
	} else {
		w.props.SetOpacity(0.85)
	}
}

// ToggleTimer starts or stops the refresh timer. Starting a running timer
// or stopping a stopped one does nothing.
func (w *Widget) ToggleTimer(enabled bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if enabled {
		if w.timerStop != nil {
			return
		}
		stop := make(chan struct{})
		w.timerStop = stop
		go w.runTimer(w.conf.RefreshInterval(), stop)
		return
	}

	if w.timerStop != nil {
		close(w.timerStop)
		w.timerStop = nil
	}
}

// TimerRunning reports whether the refresh timer is started.
func (w *Widget) TimerRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.timerStop != nil
}

// RestartTimer picks up a changed refresh interval.
func (w *Widget) RestartTimer() {
	if w.IsClosing() {
		return
	}
	w.ToggleTimer(false)
	w.ToggleTimer(true)
}

func (w *Widget) runTimer(interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logrus.WithField("interval", interval.String()).Debug("refresh timer started")
	defer logrus.Debug("refresh timer stopped")

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if !w.dispatcher.TryEnqueue(w.tick) {
				logrus.Debug("dispatcher busy, dropping tick")
				w.notifySkipped()
			}
		}
	}
}

// Refresh samples the battery now and waits for the frame to be applied.
func (w *Widget) Refresh(ctx context.Context) error {
	return w.dispatcher.Invoke(ctx, w.tick)
}

func (w *Widget) tick() {
	if w.IsClosing() {
		w.notifySkipped()
		return
	}
	defer w.props.SetIsBusy(false)

	report, err := w.provider.Report(w.ctx)
	if err != nil {
		logrus.WithError(err).Error("failed to get battery report")
		last := w.sampler.State()
		last.StatusChanged = false
		w.notify(report, last, err)
		return
	}

	state, err := w.sampler.Sample(report, w.workWidth)
	if err != nil {
		logrus.WithError(err).Error("failed to render battery state")
		// The frame is dropped but the transition still happened.
		if state.StatusChanged {
			w.transition(state.Status)
		}
		w.notify(report, state, err)
		return
	}

	w.apply(state)
	w.notify(report, state, nil)
}

func (w *Widget) notify(report powerinfo.Report, state render.RenderState, err error) {
	for _, o := range w.observers {
		o.Sampled(report, state, err)
	}
}

func (w *Widget) notifySkipped() {
	for _, o := range w.observers {
		if s, ok := o.(SkipObserver); ok {
			s.Skipped()
		}
	}
}

func (w *Widget) transition(status powerinfo.Status) {
	w.props.SetLastStatus(status)
	// If the battery status has changed then bring our window to the foreground.
	if !w.conf.Topmost() && w.activator != nil {
		w.activator.Activate()
	}
}

func (w *Widget) apply(st render.RenderState) {
	if st.StatusChanged {
		w.transition(st.Status)
	}

	w.props.SetCharge(st.Charge)
	w.props.SetRemain(st.Remain)

	if !st.Drawn {
		return
	}

	w.props.SetPercentage(st.Percentage)
	w.props.SetCornerRadius(w.conf.CornerRadius())
	w.props.SetFillHeight(w.conf.FillHeight())
	w.props.SetFillTier(st.Tier)

	w.animGen++
	gen := w.animGen
	target := float64(st.BarLength)

	if !st.Simulated {
		w.animator.Stop()
		w.props.SetFillWidth(target)
		return
	}

	from := w.props.Snapshot().FillWidth
	w.animator.Animate(w.ctx, from, target, simulatedAnimation, func(v float64) {
		frame := func() {
			// Frames of a replaced animation are dropped.
			if gen == w.animGen {
				w.props.SetFillWidth(v)
			}
		}
		// Intermediate frames may be skipped, the final one may not.
		if v == target {
			w.dispatcher.Post(frame)
		} else {
			w.dispatcher.TryEnqueue(frame)
		}
	})
}

func (w *Widget) loadBackground(ctx context.Context) {
	pattern := w.conf.BackgroundImage()
	if pattern == "" {
		return
	}

	dir := w.conf.AssetsDir()
	files, err := ScanAssets(ctx, dir, AssetPattern, func(path string, found int) {
		logrus.WithField("found", found).Debugf("found asset %s", path)
	})
	if err != nil {
		logrus.WithError(err).Warn("failed to scan assets, background image left unset")
		return
	}

	match, err := MatchBackground(files, pattern)
	if err != nil {
		logrus.WithError(err).Warn("failed to match background image")
		return
	}
	if match == "" {
		logrus.WithFields(logrus.Fields{
			"dir":     dir,
			"pattern": pattern,
		}).Debug("no background image matched")
		return
	}

	w.dispatcher.TryEnqueue(func() {
		w.props.SetBackground(match)
	})
}
