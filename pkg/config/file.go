package config

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/charlie0129/battbar/pkg/utils/ptr"
)

var (
	defaultFileConfig = &RawFileConfig{
		Refresh:         ptr.To(3000),
		CornerRadius:    ptr.To(6.0),
		FillHeight:      ptr.To(78.0),
		WindowWidth:     ptr.To(441),
		Topmost:         ptr.To(false),
		Transparency:    ptr.To(false),
		BackgroundImage: ptr.To(""),
		AssetsDir:       ptr.To(""),
		Logging:         ptr.To(false),
		LastChargeRate:  ptr.To(0),
		LastDrainRate:   ptr.To(0),
	}
)

var _ Config = &File{}

type File struct {
	c        *RawFileConfig
	mu       *sync.RWMutex
	filepath string
}

func NewFile(configPath string) (*File, error) {
	f := &File{
		filepath: configPath,
		mu:       &sync.RWMutex{},
	}
	err := f.Load()
	if err != nil {
		return nil, err
	}

	return f, nil
}

func NewFileFromConfig(c *RawFileConfig, configPath string) *File {
	if c == nil {
		c = &RawFileConfig{}
	}

	f := &File{
		c:        c,
		mu:       &sync.RWMutex{},
		filepath: configPath,
	}

	return f
}

// RawFileConfig is the on-disk form. Unset fields fall back to defaults.
type RawFileConfig struct {
	// Refresh is the polling interval in milliseconds.
	Refresh         *int     `json:"refresh,omitempty" toml:"refresh,omitempty"`
	CornerRadius    *float64 `json:"cornerRadius,omitempty" toml:"cornerRadius,omitempty"`
	FillHeight      *float64 `json:"fillHeight,omitempty" toml:"fillHeight,omitempty"`
	WindowWidth     *int     `json:"windowWidth,omitempty" toml:"windowWidth,omitempty"`
	Topmost         *bool    `json:"topmost,omitempty" toml:"topmost,omitempty"`
	Transparency    *bool    `json:"transparency,omitempty" toml:"transparency,omitempty"`
	BackgroundImage *string  `json:"backgroundImage,omitempty" toml:"backgroundImage,omitempty"`
	AssetsDir       *string  `json:"assetsDir,omitempty" toml:"assetsDir,omitempty"`
	Logging         *bool    `json:"logging,omitempty" toml:"logging,omitempty"`
	LastChargeRate  *int     `json:"lastChargeRate,omitempty" toml:"lastChargeRate,omitempty"`
	LastDrainRate   *int     `json:"lastDrainRate,omitempty" toml:"lastDrainRate,omitempty"`
}

func NewRawFileConfigFromConfig(c Config) (*RawFileConfig, error) {
	if c == nil {
		return nil, pkgerrors.New("config is nil")
	}

	rawConfig := &RawFileConfig{
		Refresh:         ptr.To(int(c.RefreshInterval() / time.Millisecond)),
		CornerRadius:    ptr.To(c.CornerRadius()),
		FillHeight:      ptr.To(c.FillHeight()),
		WindowWidth:     ptr.To(c.WindowWidth()),
		Topmost:         ptr.To(c.Topmost()),
		Transparency:    ptr.To(c.Transparency()),
		BackgroundImage: ptr.To(c.BackgroundImage()),
		AssetsDir:       ptr.To(c.AssetsDir()),
		Logging:         ptr.To(c.Logging()),
		LastChargeRate:  ptr.To(c.LastChargeRate()),
		LastDrainRate:   ptr.To(c.LastDrainRate()),
	}

	return rawConfig, nil
}

// get reads a field under the read lock, falling back to its default.
func get[T any](f *File, field func(*RawFileConfig) *T) T {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	return ptr.Deref(field(f.c), *field(defaultFileConfig))
}

func (f *File) set(fn func(c *RawFileConfig)) {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f.c)
}

func (f *File) RefreshInterval() time.Duration {
	ms := get(f, func(c *RawFileConfig) *int { return c.Refresh })
	d := time.Duration(ms) * time.Millisecond
	if d < MinRefreshInterval {
		return MinRefreshInterval
	}
	return d
}

func (f *File) CornerRadius() float64 {
	return get(f, func(c *RawFileConfig) *float64 { return c.CornerRadius })
}

func (f *File) FillHeight() float64 {
	return get(f, func(c *RawFileConfig) *float64 { return c.FillHeight })
}

func (f *File) WindowWidth() int {
	return get(f, func(c *RawFileConfig) *int { return c.WindowWidth })
}

func (f *File) Topmost() bool {
	return get(f, func(c *RawFileConfig) *bool { return c.Topmost })
}

func (f *File) Transparency() bool {
	return get(f, func(c *RawFileConfig) *bool { return c.Transparency })
}

func (f *File) BackgroundImage() string {
	return get(f, func(c *RawFileConfig) *string { return c.BackgroundImage })
}

// AssetsDir defaults to the Assets directory next to the executable.
func (f *File) AssetsDir() string {
	dir := get(f, func(c *RawFileConfig) *string { return c.AssetsDir })
	if dir != "" {
		return dir
	}

	exe, err := os.Executable()
	if err != nil {
		return "Assets"
	}
	return filepath.Join(filepath.Dir(exe), "Assets")
}

func (f *File) Logging() bool {
	return get(f, func(c *RawFileConfig) *bool { return c.Logging })
}

func (f *File) LastChargeRate() int {
	return get(f, func(c *RawFileConfig) *int { return c.LastChargeRate })
}

func (f *File) LastDrainRate() int {
	return get(f, func(c *RawFileConfig) *int { return c.LastDrainRate })
}

func (f *File) SetRefreshInterval(d time.Duration) {
	if d < MinRefreshInterval {
		panic("refresh interval must be at least " + MinRefreshInterval.String())
	}

	f.set(func(c *RawFileConfig) { c.Refresh = ptr.To(int(d / time.Millisecond)) })
}

func (f *File) SetTopmost(b bool) {
	f.set(func(c *RawFileConfig) { c.Topmost = &b })
}

func (f *File) SetTransparency(b bool) {
	f.set(func(c *RawFileConfig) { c.Transparency = &b })
}

func (f *File) SetLastRates(charge, drain int) {
	f.set(func(c *RawFileConfig) {
		c.LastChargeRate = &charge
		c.LastDrainRate = &drain
	})
}

// Path returns the file the config is loaded from.
func (f *File) Path() string {
	return f.filepath
}

func (f *File) isTOML() bool {
	return strings.EqualFold(filepath.Ext(f.filepath), ".toml")
}

func (f *File) Load() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	fp, err := os.Open(f.filepath)
	if err != nil {
		if os.IsNotExist(err) {
			// If the file does not exist, return the empty config.
			// Do not make f.c a nil.
			f.c = &RawFileConfig{}
			return nil
		}
		return pkgerrors.Wrapf(err, "failed to open file %s", f.filepath)
	}
	defer func(fp *os.File) {
		err := fp.Close()
		if err != nil {
			logrus.Warnf("failed to close file %s", f.filepath)
		}
	}(fp)

	// Since we want to tell if the file is empty, using a decoder will
	// not work.
	b, err := io.ReadAll(fp)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to read file %s", f.filepath)
	}

	if strings.TrimSpace(string(b)) == "" {
		f.c = &RawFileConfig{}
		return nil
	}

	conf := RawFileConfig{}
	if f.isTOML() {
		err = toml.Unmarshal(b, &conf)
	} else {
		err = json.Unmarshal(b, &conf)
	}
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to unmarshal config from file %s", f.filepath)
	}
	f.c = &conf

	return nil
}

// Save writes the config back to its file. A File without a path is
// kept in memory only.
func (f *File) Save() error {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.c == nil {
		return pkgerrors.New("config is nil")
	}
	if f.filepath == "" {
		return nil
	}

	fp, err := os.OpenFile(f.filepath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to open file %s", f.filepath)
	}
	defer func(fp *os.File) {
		err := fp.Close()
		if err != nil {
			logrus.Warnf("failed to close file %s", f.filepath)
		}
	}(fp)

	if f.isTOML() {
		err = toml.NewEncoder(fp).Encode(f.c)
	} else {
		enc := json.NewEncoder(fp)
		enc.SetIndent("", "  ")
		err = enc.Encode(f.c)
	}
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to encode config to file %s", f.filepath)
	}

	return nil
}

func (f *File) LogrusFields() logrus.Fields {
	if f.c == nil {
		panic("config is nil")
	}

	return logrus.Fields{
		"refresh":         f.RefreshInterval().String(),
		"cornerRadius":    f.CornerRadius(),
		"fillHeight":      f.FillHeight(),
		"windowWidth":     f.WindowWidth(),
		"topmost":         f.Topmost(),
		"transparency":    f.Transparency(),
		"backgroundImage": f.BackgroundImage(),
		"logging":         f.Logging(),
		"lastChargeRate":  f.LastChargeRate(),
		"lastDrainRate":   f.LastDrainRate(),
	}
}
