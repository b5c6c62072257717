package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	daemonutils "github.com/charlie0129/battbar/pkg/utils/daemon"
)

var gInstallation = "Installation:"

func init() {
	commandGroups = append(commandGroups, gInstallation)
}

// NewInstallCommand .
func NewInstallCommand() *cobra.Command {
	allowNonRootAccess := false

	cmd := &cobra.Command{
		Use:     "install",
		Short:   "Install battbar daemon (system-wide)",
		GroupID: gInstallation,
		Long: `Install battbar daemon as a systemd service (system-wide).

This makes battbar run in the background and automatically start on boot. You must run this command as root.

By default, only root user is allowed to access the battbar daemon. Use --allow-non-root-access so the status, watch and gui commands work without sudo.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			args := []string{
				"daemon",
				"--config", configPath,
				"--daemon-socket", unixSocketPath,
				"--history", historyPath,
			}
			if allowNonRootAccess {
				logrus.Info("non-root users are allowed to access the battbar daemon.")
				args = append(args, "--always-allow-non-root-access")
			} else {
				logrus.Info("only root user is allowed to access the battbar daemon.")
			}

			err := daemonutils.Install(args)
			if err != nil {
				// check if current user is root
				if os.Geteuid() != 0 {
					logrus.Errorf("you must run this command as root")
				}
				return fmt.Errorf("failed to install daemon: %w", err)
			}

			logrus.Infof("installation succeeded")

			exePath, _ := os.Executable()

			cmd.Printf("systemd will use current binary (%s) at startup so please make sure you do not move this binary. Once this binary is moved or deleted, you will need to run `battbar install' again.\n", exePath)

			return nil
		},
	}

	cmd.Flags().BoolVar(&allowNonRootAccess, "allow-non-root-access", false, "Allow non-root users to access battbar daemon.")
	cmd.Flags().StringVar(&historyPath, "history", historyPath, "Battery history database. Empty disables history.")

	return cmd
}

// NewUninstallCommand .
func NewUninstallCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "uninstall",
		Short:   "Uninstall battbar daemon (system-wide)",
		GroupID: gInstallation,
		Long: `Uninstall battbar daemon from systemd (system-wide).

This stops battbar and removes its service. You must run this command as root.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := daemonutils.Uninstall()
			if err != nil {
				// check if current user is root
				if os.Geteuid() != 0 {
					logrus.Errorf("you must run this command as root")
				}
				return fmt.Errorf("failed to uninstall daemon: %w", err)
			}

			cmd.Println("successfully uninstalled")
			cmd.Printf("Your config is kept in %s, in case you want to use `battbar' again.\n", configPath)

			return nil
		},
	}
}
