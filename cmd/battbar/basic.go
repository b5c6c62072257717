package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/charlie0129/battbar/pkg/config"
	"github.com/charlie0129/battbar/pkg/history"
	"github.com/charlie0129/battbar/pkg/version"
)

func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("%s %s\n", version.Version, version.GitCommit)
		},
	}
}

func NewRefreshCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "refresh",
		Short:   "Sample the battery now",
		GroupID: gBasic,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			state, err := newAPIClient().Refresh()
			if err != nil {
				return fmt.Errorf("failed to refresh: %w", err)
			}
			cmd.Printf("%s  %s\n", bold("%s", state.Charge), state.Remain)
			return nil
		},
	}
}

func NewIntervalCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "interval [milliseconds]",
		Short:   "Set how often the battery is sampled",
		GroupID: gBasic,
		Long: fmt.Sprintf(`Set how often the battery is sampled, in milliseconds.

The default is 3000. Values below %d are rejected.`, config.MinRefreshInterval.Milliseconds()),
		RunE: func(_ *cobra.Command, args []string) error {
			ms, err := parseIntArg(args, "interval")
			if err != nil {
				return err
			}

			d := time.Duration(ms) * time.Millisecond
			if d < config.MinRefreshInterval {
				return fmt.Errorf("interval must be at least %d ms, got %d", config.MinRefreshInterval.Milliseconds(), ms)
			}

			ret, err := newAPIClient().SetRefreshInterval(d)
			if err != nil {
				return fmt.Errorf("failed to set refresh interval: %w", err)
			}
			if ret != "" {
				logrus.Infof("daemon responded: %s", ret)
			}
			return nil
		},
	}
}

func NewHistoryCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:     "history",
		Short:   "Show recent battery samples",
		GroupID: gBasic,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			samples, err := newAPIClient().GetHistory(limit)
			if err != nil {
				return fmt.Errorf("failed to get history: %w", err)
			}
			if len(samples) == 0 {
				cmd.Println("No samples recorded yet.")
				return nil
			}

			for _, s := range samples {
				cmd.Println(formatSample(s))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", history.DefaultLimit, "number of samples to show")

	return cmd
}

func formatSample(s history.Sample) string {
	rate := "n/a"
	if s.ChargeRate != nil {
		rate = humanize.SIWithDigits(float64(*s.ChargeRate)/1e3, 1, "W")
	}
	return fmt.Sprintf("%s  %-12s %3d%%  %8s  (%s)",
		s.Time.Format(time.DateTime),
		s.Status,
		s.Percentage,
		rate,
		humanize.Time(s.Time),
	)
}
