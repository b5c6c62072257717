package gui

import (
	"context"
	"time"

	"github.com/getlantern/systray"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/charlie0129/battbar/pkg/client"
	"github.com/charlie0129/battbar/pkg/events"
	"github.com/charlie0129/battbar/pkg/version"
)

const (
	minReconnectDelay = time.Second
	maxReconnectDelay = 30 * time.Second
)

func NewGUICommand(unixSocketPath string, groupID string) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "gui",
		Short:   "Show the battery widget in the system tray",
		GroupID: groupID,
		Long: `Show the battery widget in the system tray.

The tray icon follows the daemon: its title is the charge, its tooltip the remaining time. The daemon must be running.`,
		Run: func(_ *cobra.Command, _ []string) {
			Run(unixSocketPath)
		},
	}

	return cmd
}

func Run(unixSocketPath string) {
	apiClient := client.NewClient(unixSocketPath)
	logrus.WithField("version", version.Version).WithField("gitCommit", version.GitCommit).Info("battbar gui")

	ctx, cancel := context.WithCancel(context.Background())
	t := newTray(apiClient)

	systray.Run(func() {
		t.onReady(cancel)
		// Start SSE subscription for daemon events
		go startEventBridge(ctx, apiClient, t)
	}, func() {
		cancel()
		logrus.Info("battbar gui exiting")
	})
}

// startEventBridge follows the daemon's event stream, reconnecting with
// backoff until ctx is done.
func startEventBridge(ctx context.Context, api *client.Client, t *tray) {
	delay := minReconnectDelay

	for ctx.Err() == nil {
		evCh, err := api.SubscribeEvents(ctx)
		if err != nil {
			logrus.WithError(err).Debug("cannot subscribe to daemon events")
			t.setOffline()

			select {
			case <-ctx.Done():
				return
			case <-time.After(delay):
			}
			delay = min(delay*2, maxReconnectDelay)
			continue
		}
		delay = minReconnectDelay

		// Catch up on what happened while disconnected.
		t.reload()

		for ev := range evCh {
			logrus.WithFields(logrus.Fields{
				"event": ev.Name,
				"data":  string(ev.Data),
			}).Debug("new event")

			switch ev.Name {
			case events.Sampled:
				payload, err := events.DecodeAs[events.SampledEvent](ev)
				if err != nil {
					logrus.WithError(err).Errorf("failed to decode %s event", ev.Name)
					continue
				}
				t.setSample(payload)
			case events.Activate:
				payload, err := events.DecodeAs[events.ActivateEvent](ev)
				if err != nil {
					logrus.WithError(err).Errorf("failed to decode %s event", ev.Name)
					continue
				}
				t.flash(ctx, payload.Status)
			}
		}

		if ctx.Err() == nil {
			t.setOffline()
		}
	}
}
