package gui

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/getlantern/systray"
	"github.com/sirupsen/logrus"

	"github.com/charlie0129/battbar/pkg/client"
	"github.com/charlie0129/battbar/pkg/events"
	"github.com/charlie0129/battbar/pkg/powerinfo"
)

const (
	offlineTitle = "🚫 Offline"
	flashPrefix  = "🔔 "
	flashCount   = 3
	flashPeriod  = 400 * time.Millisecond
)

type tray struct {
	api *client.Client

	mu     sync.Mutex
	title  string
	remain string
	status string

	flashing atomic.Bool

	mStatus       *systray.MenuItem
	mRemain       *systray.MenuItem
	mRefresh      *systray.MenuItem
	mTopmost      *systray.MenuItem
	mTransparency *systray.MenuItem
	mQuit         *systray.MenuItem
}

func newTray(api *client.Client) *tray {
	return &tray{api: api}
}

func (t *tray) onReady(quit context.CancelFunc) {
	systray.SetTitle("🔋 Loading...")
	systray.SetTooltip("battbar")

	t.mStatus = systray.AddMenuItem("Status: Connecting...", "Current battery status")
	t.mStatus.Disable()
	t.mRemain = systray.AddMenuItem("Remaining: -", "Estimated time remaining")
	t.mRemain.Disable()

	systray.AddSeparator()

	t.mRefresh = systray.AddMenuItem("Refresh Now", "Sample the battery now")
	t.mTopmost = systray.AddMenuItem("Keep on Top", "Do not bring the widget forward when the status changes")
	t.mTransparency = systray.AddMenuItem("Transparent", "Draw the widget with reduced opacity")

	systray.AddSeparator()
	t.mQuit = systray.AddMenuItem("Quit", "Quit the tray app, the daemon keeps running")

	go t.handleClicks(quit)
	t.reload()
}

func (t *tray) handleClicks(quit context.CancelFunc) {
	for {
		select {
		case <-t.mRefresh.ClickedCh:
			if _, err := t.api.Refresh(); err != nil {
				logrus.Errorf("failed to refresh: %v", err)
			}
		case <-t.mTopmost.ClickedCh:
			enabled := !t.mTopmost.Checked()
			if _, err := t.api.SetTopmost(enabled); err != nil {
				logrus.Errorf("failed to set topmost: %v", err)
				continue
			}
			setChecked(t.mTopmost, enabled)
		case <-t.mTransparency.ClickedCh:
			enabled := !t.mTransparency.Checked()
			if _, err := t.api.SetTransparency(enabled); err != nil {
				logrus.Errorf("failed to set transparency: %v", err)
				continue
			}
			setChecked(t.mTransparency, enabled)
		case <-t.mQuit.ClickedCh:
			quit()
			systray.Quit()
			return
		}
	}
}

// reload fetches the full state and config from the daemon.
func (t *tray) reload() {
	state, err := t.api.GetState()
	if err != nil {
		logrus.Debugf("cannot connect to daemon: %v", err)
		t.setOffline()
		return
	}

	t.set(state.Charge, state.Remain, state.LastStatus.String())

	conf, err := t.api.GetConfig()
	if err != nil {
		logrus.Errorf("failed to get config: %v", err)
		return
	}
	if conf.Topmost != nil {
		setChecked(t.mTopmost, *conf.Topmost)
	}
	if conf.Transparency != nil {
		setChecked(t.mTransparency, *conf.Transparency)
	}
}

func (t *tray) setSample(e events.SampledEvent) {
	t.set(e.Charge, e.Remain, e.Status)
}

func (t *tray) set(charge, remain, status string) {
	t.mu.Lock()
	t.title = trayTitle(charge, powerinfo.ParseStatus(status))
	t.remain = remain
	t.status = status
	t.mu.Unlock()

	t.render()
}

func (t *tray) setOffline() {
	t.mu.Lock()
	t.title = offlineTitle
	t.remain = "-"
	t.status = ""
	t.mu.Unlock()

	t.render()
}

func (t *tray) render() {
	t.mu.Lock()
	title, remain, status := t.title, t.remain, t.status
	t.mu.Unlock()

	if !t.flashing.Load() {
		systray.SetTitle(title)
	}
	systray.SetTooltip(trayTooltip(remain, status))
	t.mStatus.SetTitle("Status: " + statusText(status))
	t.mRemain.SetTitle("Remaining: " + remain)
}

// flash blinks the title to draw attention after a status change.
func (t *tray) flash(ctx context.Context, status string) {
	if !t.flashing.CompareAndSwap(false, true) {
		return
	}

	go func() {
		defer func() {
			t.flashing.Store(false)
			t.render()
		}()

		for i := 0; i < flashCount*2; i++ {
			t.mu.Lock()
			title := t.title
			t.mu.Unlock()

			if i%2 == 0 {
				systray.SetTitle(flashPrefix + statusText(status))
			} else {
				systray.SetTitle(title)
			}

			select {
			case <-ctx.Done():
				return
			case <-time.After(flashPeriod):
			}
		}
	}()
}

func setChecked(item *systray.MenuItem, checked bool) {
	if checked {
		item.Check()
	} else {
		item.Uncheck()
	}
}

func trayTitle(charge string, status powerinfo.Status) string {
	if status == powerinfo.NotPresent {
		return "🔋 N/A"
	}
	if charge == "" {
		return "🔋"
	}
	return charge
}

func trayTooltip(remain, status string) string {
	if status == "" {
		return "battbar: daemon not running"
	}
	return fmt.Sprintf("battbar: %s, %s", statusText(status), remain)
}

func statusText(status string) string {
	switch powerinfo.ParseStatus(status) {
	case powerinfo.Charging:
		return "Charging"
	case powerinfo.Discharging:
		return "Discharging"
	case powerinfo.Idle:
		return "Not charging"
	}
	if status == "" {
		return "Disconnected"
	}
	return "No battery"
}
