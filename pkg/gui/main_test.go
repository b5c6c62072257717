package gui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/charlie0129/battbar/pkg/powerinfo"
)

func TestTrayTitle(t *testing.T) {
	assert.Equal(t, "⚡ 80%", trayTitle("⚡ 80%", powerinfo.Charging))
	assert.Equal(t, "🔋 N/A", trayTitle("Not Present", powerinfo.NotPresent))
	assert.Equal(t, "🔋", trayTitle("", powerinfo.Idle))
}

func TestTrayTooltip(t *testing.T) {
	assert.Equal(t, "battbar: Discharging, ⌛ 2 hr", trayTooltip("⌛ 2 hr", "discharging"))
	assert.Equal(t, "battbar: daemon not running", trayTooltip("-", ""))
}

func TestStatusText(t *testing.T) {
	tests := map[string]string{
		"charging":    "Charging",
		"discharging": "Discharging",
		"idle":        "Not charging",
		"notPresent":  "No battery",
		"":            "Disconnected",
	}
	for in, want := range tests {
		assert.Equal(t, want, statusText(in), in)
	}
}
