package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/charlie0129/battbar/pkg/config"
	"github.com/charlie0129/battbar/pkg/powerinfo"
	"github.com/charlie0129/battbar/pkg/render"
	"github.com/charlie0129/battbar/pkg/termview"
	"github.com/charlie0129/battbar/pkg/widget"
)

const (
	clearScreen = "\033[H\033[2J"
	bell        = "\a"
	maxCells    = 60
)

func NewWatchCommand() *cobra.Command {
	var simulateBattery bool

	cmd := &cobra.Command{
		Use:     "watch",
		Short:   "Run the widget in this terminal",
		GroupID: gBasic,
		Long: `Run the widget in this terminal, without a daemon.

The bar is redrawn on every change. A battery status change rings the terminal bell unless the widget is kept on top.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			var provider powerinfo.Provider = powerinfo.NewSystemProvider()
			if simulateBattery {
				provider = powerinfo.Static{R: powerinfo.Report{Status: powerinfo.NotPresent}}
			}

			return runWatch(ctx, loadWatchConfig(), provider, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&simulateBattery, "simulate", false, "pretend there is no battery")

	return cmd
}

// loadWatchConfig reads the config file, falling back to defaults kept in
// memory when it cannot be read.
func loadWatchConfig() config.Config {
	conf, err := config.NewFile(configPath)
	if err != nil {
		logrus.Warnf("using default config: %v", err)
		return config.NewFileFromConfig(nil, "")
	}
	return conf
}

func runWatch(ctx context.Context, conf config.Config, provider powerinfo.Provider, out io.Writer) error {
	dctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dispatcher := widget.NewDispatcher(0)
	go dispatcher.Run(dctx)

	w := widget.New(widget.Options{
		Provider:   provider,
		Config:     conf,
		Dispatcher: dispatcher,
		Activator: widget.ActivatorFunc(func() {
			fmt.Fprint(out, bell)
		}),
	})

	dirty := make(chan struct{}, 1)
	w.Properties().AddListener(widget.ListenerFunc(func(string, any) {
		select {
		case dirty <- struct{}{}:
		default:
		}
	}))

	if err := w.Load(ctx); err != nil {
		return fmt.Errorf("failed to load widget: %w", err)
	}
	defer w.Unload()

	// Draw right away instead of waiting for the first tick.
	if err := w.Refresh(ctx); err != nil {
		return fmt.Errorf("failed to refresh: %w", err)
	}

	frame := time.NewTicker(time.Second / render.FrameRate)
	defer frame.Stop()

	draw := func() {
		fmt.Fprint(out, clearScreen+termview.Render(w.Properties().Snapshot(), cells())+"\n")
	}
	draw()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-frame.C:
			select {
			case <-dirty:
				draw()
			default:
			}
		}
	}
}

func cells() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 4 {
		return termview.DefaultCells
	}
	return min(width-4, maxCells)
}
