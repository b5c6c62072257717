package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileDefaults(t *testing.T) {
	f, err := NewFile(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)

	assert.Equal(t, 3*time.Second, f.RefreshInterval())
	assert.Equal(t, 6.0, f.CornerRadius())
	assert.Equal(t, 78.0, f.FillHeight())
	assert.Equal(t, 441, f.WindowWidth())
	assert.False(t, f.Topmost())
	assert.False(t, f.Transparency())
	assert.Empty(t, f.BackgroundImage())
	assert.NotEmpty(t, f.AssetsDir())
	assert.Zero(t, f.LastChargeRate())
	assert.Zero(t, f.LastDrainRate())
}

func TestFileEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, os.WriteFile(path, []byte("  \n"), 0644))

	f, err := NewFile(path)
	require.NoError(t, err)
	assert.Equal(t, 441, f.WindowWidth())
}

func TestFileRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		file string
	}{
		{"json", "battbar.json"},
		{"toml", "battbar.toml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)

			f, err := NewFile(path)
			require.NoError(t, err)
			f.SetRefreshInterval(5 * time.Second)
			f.SetTopmost(true)
			f.SetLastRates(1200, 800)
			require.NoError(t, f.Save())

			g, err := NewFile(path)
			require.NoError(t, err)
			assert.Equal(t, 5*time.Second, g.RefreshInterval())
			assert.True(t, g.Topmost())
			assert.False(t, g.Transparency())
			assert.Equal(t, 1200, g.LastChargeRate())
			assert.Equal(t, 800, g.LastDrainRate())
		})
	}
}

func TestFileLoadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "battbar.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
refresh = 1000
windowWidth = 600
backgroundImage = "battery.*\\.png"
transparency = true
`), 0644))

	f, err := NewFile(path)
	require.NoError(t, err)
	assert.Equal(t, time.Second, f.RefreshInterval())
	assert.Equal(t, 600, f.WindowWidth())
	assert.Equal(t, `battery.*\.png`, f.BackgroundImage())
	assert.True(t, f.Transparency())
}

func TestFileLoadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := NewFile(path)
	assert.Error(t, err)
}

func TestRefreshIntervalFloor(t *testing.T) {
	f := NewFileFromConfig(&RawFileConfig{Refresh: intPtr(10)}, "")
	assert.Equal(t, MinRefreshInterval, f.RefreshInterval())

	assert.Panics(t, func() { f.SetRefreshInterval(time.Millisecond) })
}

func TestRawFileConfigFromConfig(t *testing.T) {
	f := NewFileFromConfig(&RawFileConfig{WindowWidth: intPtr(500)}, "")

	raw, err := NewRawFileConfigFromConfig(f)
	require.NoError(t, err)
	require.NotNil(t, raw.WindowWidth)
	assert.Equal(t, 500, *raw.WindowWidth)
	require.NotNil(t, raw.Refresh)
	assert.Equal(t, 3000, *raw.Refresh)

	_, err = NewRawFileConfigFromConfig(nil)
	assert.Error(t, err)
}

func intPtr(i int) *int { return &i }

func TestSaveInMemory(t *testing.T) {
	f := NewFileFromConfig(nil, "")
	f.SetTopmost(true)
	assert.NoError(t, f.Save())
	assert.True(t, f.Topmost())
}

func TestExplicitZeroOverridesDefault(t *testing.T) {
	zero := 0.0
	f := NewFileFromConfig(&RawFileConfig{CornerRadius: &zero}, "")
	assert.Equal(t, 0.0, f.CornerRadius())
	assert.Equal(t, 78.0, f.FillHeight())
}
