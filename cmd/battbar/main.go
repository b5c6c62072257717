package main

import (
	"errors"
	"fmt"
	"os"
	"path"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/charlie0129/battbar/pkg/client"
	"github.com/charlie0129/battbar/pkg/gui"
)

var (
	logLevel       = "info"
	unixSocketPath = "/var/run/battbar.sock"
	configPath     = "/etc/battbar.json"
)

var (
	gBasic        = "Basic:"
	gAdvanced     = "Advanced:"
	commandGroups = []string{
		gBasic,
		gAdvanced,
	}
)

func setupLogger() error {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("failed to parse log level: %w", err)
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{})
	if term.IsTerminal(int(os.Stderr.Fd())) {
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.Kitchen,
		})
	}

	return nil
}

func handleCmdError(err error) {
	switch {
	case errors.Is(err, client.ErrDaemonNotRunning):
		fmt.Fprintln(os.Stderr, "\nError: battbar daemon is not running")
		fmt.Fprintln(os.Stderr, "Start it with 'battbar daemon', or use 'battbar watch' to run the widget without a daemon.")
	case errors.Is(err, client.ErrPermissionDenied):
		fmt.Fprintln(os.Stderr, "\nError: Permission Denied")
		fmt.Fprintln(os.Stderr, "  - Try running the command again with 'sudo'")
		fmt.Fprintln(os.Stderr, "  - Or restart the daemon with the '--always-allow-non-root-access' flag to grant permissions to your user")
	case errors.Is(err, client.ErrUnavailable):
		fmt.Fprintln(os.Stderr, "\nError: the daemon has this feature turned off")
	}
}

func main() {
	// The widget polls a few times a minute, it does not need many CPUs.
	if os.Getenv("GOMAXPROCS") == "" {
		runtime.GOMAXPROCS(2)
	}

	cmd := NewCommand()
	if err := cmd.Execute(); err != nil {
		handleCmdError(err)
		os.Exit(1)
	}
}

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "battbar",
		Short: "battbar shows your battery charge as a bar",
		Long: `battbar shows your battery charge as a coloured bar, with the time left until the battery is empty.

The daemon samples the battery and serves the widget state; the status, watch and gui commands display it.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			err := setupLogger()
			if err != nil {
				return err
			}

			// These commands do not talk to a running daemon.
			switch cmd.Name() {
			case "daemon", "watch", "version", "install", "uninstall":
				return nil
			}

			if clientVersion, daemonVersion, err := getVersion(); err == nil {
				if daemonVersion != clientVersion {
					logrus.WithFields(logrus.Fields{
						"clientVersion": clientVersion,
						"daemonVersion": daemonVersion,
					}).Warn("Version mismatch between client and daemon. Restart the daemon after upgrading.")
				}
			} else if errors.Is(err, client.ErrNotFound) {
				logrus.Error("battbar daemon is too old to report its version. Restart the daemon after upgrading.")
			}

			return nil
		},
	}

	if os.Getenv("BATTBAR_RUN_GUI") != "" || path.Base(os.Args[0]) == "battbar-gui" {
		cmd.Run = func(_ *cobra.Command, _ []string) {
			gui.Run(unixSocketPath)
		}
	}

	globalFlags := cmd.PersistentFlags()
	globalFlags.StringVarP(&logLevel, "log-level", "l", "info", "log level (trace, debug, info, warn, error, fatal, panic)")
	globalFlags.StringVar(&configPath, "config", configPath, "config file path, .toml files are read as TOML")
	globalFlags.StringVar(&unixSocketPath, "daemon-socket", unixSocketPath, "battbar daemon unix socket path")

	for _, i := range commandGroups {
		cmd.AddGroup(&cobra.Group{
			ID:    i,
			Title: i,
		})
	}

	cmd.AddCommand(
		NewDaemonCommand(),
		NewVersionCommand(),
		NewStatusCommand(),
		NewWatchCommand(),
		NewHistoryCommand(),
		NewRefreshCommand(),
		NewIntervalCommand(),
		NewTopmostCommand(),
		NewTransparencyCommand(),
		NewInstallCommand(),
		NewUninstallCommand(),
		// Read the socket path when the command runs, after flags are parsed.
		newGUICommand(),
	)

	return cmd
}

func newGUICommand() *cobra.Command {
	cmd := gui.NewGUICommand(unixSocketPath, gBasic)
	cmd.Run = func(_ *cobra.Command, _ []string) {
		gui.Run(unixSocketPath)
	}
	return cmd
}
