package config

import (
	"time"

	"github.com/sirupsen/logrus"
)

// MinRefreshInterval is the shortest refresh interval accepted.
const MinRefreshInterval = 250 * time.Millisecond

type Config interface {
	RefreshInterval() time.Duration
	CornerRadius() float64
	FillHeight() float64
	WindowWidth() int
	Topmost() bool
	Transparency() bool
	BackgroundImage() string
	AssetsDir() string
	Logging() bool
	LastChargeRate() int
	LastDrainRate() int

	SetRefreshInterval(time.Duration)
	SetTopmost(bool)
	SetTransparency(bool)
	SetLastRates(charge, drain int)

	LogrusFields() logrus.Fields

	// Load reads the configuration from the source.
	Load() error
	// Save saves the configuration to the source.
	Save() error
}
