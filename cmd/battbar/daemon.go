package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/charlie0129/battbar/pkg/daemon"
	"github.com/charlie0129/battbar/pkg/version"
)

var (
	// alwaysAllowNonRootAccess indicates whether to always allow non-root users to access the battbar daemon.
	alwaysAllowNonRootAccess = false
	historyPath              = "/var/lib/battbar/history.db"
	simulate                 = false
)

// NewDaemonCommand .
func NewDaemonCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "daemon",
		Short:   "Run battbar daemon in the foreground",
		GroupID: gAdvanced,
		RunE: func(_ *cobra.Command, _ []string) error {
			logrus.WithFields(logrus.Fields{
				"version": version.Version,
				"commit":  version.GitCommit,
			}).Info("battbar daemon starting")
			return daemon.Run(daemon.Options{
				ConfigPath:     configPath,
				UnixSocketPath: unixSocketPath,
				HistoryPath:    historyPath,
				AllowNonRoot:   alwaysAllowNonRootAccess,
				Simulate:       simulate,
			})
		},
	}

	f := cmd.Flags()

	f.BoolVar(&alwaysAllowNonRootAccess, "always-allow-non-root-access", false,
		"Always allow non-root users to access the daemon.")
	f.StringVar(&historyPath, "history", historyPath,
		"Battery history database. Empty disables history.")
	f.BoolVar(&simulate, "simulate", false,
		"Pretend there is no battery and draw simulated charge levels.")

	return cmd
}
