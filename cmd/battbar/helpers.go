package main

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/charlie0129/battbar/pkg/client"
	"github.com/charlie0129/battbar/pkg/version"
)

func newAPIClient() *client.Client {
	return client.NewClient(unixSocketPath)
}

// getVersion returns the client and daemon versions.
func getVersion() (string, string, error) {
	daemonVersion, err := newAPIClient().GetVersion()
	if err != nil {
		return version.Version, "", err
	}
	return version.Version, daemonVersion, nil
}

func parseIntArg(args []string, valueName string) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("invalid number of arguments")
	}

	value, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", valueName, err)
	}

	return value, nil
}

func newEnableDisableCommand(
	use, short, long string,
	set func(enabled bool) (string, error),
) *cobra.Command {
	cmd := &cobra.Command{
		Use:     use,
		Short:   short,
		Long:    long,
		GroupID: gAdvanced,
	}

	for _, a := range []struct {
		verb, title string
		enabled     bool
	}{
		{"enable", "Enable", true},
		{"disable", "Disable", false},
	} {
		cmd.AddCommand(&cobra.Command{
			Use:   a.verb,
			Short: a.title + " " + short,
			Args:  cobra.NoArgs,
			RunE: func(_ *cobra.Command, _ []string) error {
				ret, err := set(a.enabled)
				if err != nil {
					return fmt.Errorf("failed to %s %s: %w", a.verb, use, err)
				}
				if ret != "" {
					logrus.Infof("daemon responded: %s", ret)
				}
				logrus.Infof("successfully %sd %s", a.verb, use)
				return nil
			},
		})
	}

	return cmd
}

func bool2Text(b bool) string {
	if b {
		return color.New(color.Bold, color.FgGreen).Sprint("✔")
	}
	return color.New(color.Bold, color.FgRed).Sprint("✘")
}

func bold(format string, a ...interface{}) string {
	return color.New(color.Bold).Sprintf(format, a...)
}
