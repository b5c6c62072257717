package termview

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/charlie0129/battbar/pkg/powerinfo"
	"github.com/charlie0129/battbar/pkg/render"
	"github.com/charlie0129/battbar/pkg/widget"
)

func values(fill float64) widget.Values {
	v := widget.DefaultValues
	v.OutlineWidth = 302
	v.FillWidth = fill
	v.FillTier = render.TierFor(int(fill / 3))
	v.Charge = "⚡ 50%"
	v.Remain = "⌛ 2 hr"
	v.LastStatus = powerinfo.Discharging
	return v
}

func TestFilled(t *testing.T) {
	tests := []struct {
		name  string
		fill  float64
		cells int
		want  int
	}{
		{"empty", 0, 40, 0},
		{"half", 150, 40, 20},
		{"full", 300, 40, 40},
		{"overflow", 400, 40, 40},
		{"negative", -10, 40, 0},
		{"no cells", 150, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Filled(values(tt.fill), tt.cells))
		})
	}

	v := values(150)
	v.OutlineWidth = 0
	assert.Zero(t, Filled(v, 40))
}

func TestBar(t *testing.T) {
	bar := Bar(values(150), 10)
	assert.Equal(t, 5, strings.Count(bar, barChar))
	assert.Equal(t, 5, strings.Count(bar, emptyChar))

	bar = Bar(values(150), 0)
	assert.Equal(t, DefaultCells/2, strings.Count(bar, barChar))
}

func TestRender(t *testing.T) {
	v := values(150)
	v.IsBusy = true
	out := Render(v, 20)

	assert.Contains(t, out, "⚡ 50%")
	assert.Contains(t, out, "⌛ 2 hr")
	assert.Contains(t, out, "on battery")
	assert.Contains(t, out, "(updating)")
	assert.Equal(t, 10, strings.Count(out, barChar))
}
