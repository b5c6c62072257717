package daemon

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

// Uninstall stops the daemon and removes its systemd unit.
func Uninstall() error {
	logrus.Infof("stopping battbar")

	// The unit may already be stopped or never have been enabled.
	if err := run(systemctl, "disable", "--now", unitName); err != nil {
		logrus.Warn(err)
	}

	logrus.Infof("removing %s", unitPath)
	err := os.Remove(unitPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove %s: %w", unitPath, err)
	}

	return run(systemctl, "daemon-reload")
}
