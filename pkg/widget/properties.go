package widget

import (
	"sync"

	"github.com/charlie0129/battbar/pkg/powerinfo"
	"github.com/charlie0129/battbar/pkg/render"
)

// Property names, as reported to listeners.
const (
	PropCharge        = "charge"
	PropRemain        = "remain"
	PropIsBusy        = "isBusy"
	PropPercentage    = "percentage"
	PropFillWidth     = "fillWidth"
	PropFillHeight    = "fillHeight"
	PropOutlineWidth  = "outlineWidth"
	PropOutlineHeight = "outlineHeight"
	PropCornerRadius  = "cornerRadius"
	PropFillTier      = "fillTier"
	PropLastStatus    = "lastStatus"
	PropOpacity       = "opacity"
	PropBackground    = "background"
)

// Listener is told about every property change, one call per property.
// Calls come from the dispatcher goroutine and must not block.
type Listener interface {
	PropertyChanged(name string, value any)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(name string, value any)

func (f ListenerFunc) PropertyChanged(name string, value any) { f(name, value) }

// Values is a point-in-time copy of all properties.
type Values struct {
	Charge        string           `json:"charge"`
	Remain        string           `json:"remain"`
	IsBusy        bool             `json:"isBusy"`
	Percentage    int              `json:"percentage"`
	FillWidth     float64          `json:"fillWidth"`
	FillHeight    float64          `json:"fillHeight"`
	OutlineWidth  float64          `json:"outlineWidth"`
	OutlineHeight float64          `json:"outlineHeight"`
	CornerRadius  float64          `json:"cornerRadius"`
	FillTier      render.Tier      `json:"fillTier"`
	LastStatus    powerinfo.Status `json:"lastStatus"`
	Opacity       float64          `json:"opacity"`
	Background    string           `json:"background"`
}

// DefaultValues are shown before the first sample.
var DefaultValues = Values{
	Charge:        "0%",
	Remain:        "1 hour",
	OutlineWidth:  322,
	OutlineHeight: 78,
	FillWidth:     320,
	FillHeight:    76,
	CornerRadius:  6,
	FillTier:      render.TierA,
	LastStatus:    powerinfo.NotPresent,
	Opacity:       0.85,
}

// Properties holds the observable widget state. Setters are only called
// from the dispatcher; Snapshot is safe from any goroutine.
type Properties struct {
	mu        sync.RWMutex
	v         Values
	listeners []Listener
}

func NewProperties() *Properties {
	return &Properties{v: DefaultValues}
}

// AddListener registers l. It should be called before the widget loads.
func (p *Properties) AddListener(l Listener) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listeners = append(p.listeners, l)
}

func (p *Properties) Snapshot() Values {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.v
}

// set stores v in the field picked by field and notifies listeners if the
// value changed.
func set[T comparable](p *Properties, name string, field func(*Values) *T, v T) {
	p.mu.Lock()
	ptr := field(&p.v)
	if *ptr == v {
		p.mu.Unlock()
		return
	}
	*ptr = v
	listeners := p.listeners
	p.mu.Unlock()

	for _, l := range listeners {
		l.PropertyChanged(name, v)
	}
}

func (p *Properties) SetCharge(v string) {
	set(p, PropCharge, func(x *Values) *string { return &x.Charge }, v)
}

func (p *Properties) SetRemain(v string) {
	set(p, PropRemain, func(x *Values) *string { return &x.Remain }, v)
}

func (p *Properties) SetIsBusy(v bool) {
	set(p, PropIsBusy, func(x *Values) *bool { return &x.IsBusy }, v)
}

func (p *Properties) SetPercentage(v int) {
	set(p, PropPercentage, func(x *Values) *int { return &x.Percentage }, v)
}

func (p *Properties) SetFillWidth(v float64) {
	set(p, PropFillWidth, func(x *Values) *float64 { return &x.FillWidth }, v)
}

func (p *Properties) SetFillHeight(v float64) {
	set(p, PropFillHeight, func(x *Values) *float64 { return &x.FillHeight }, v)
}

func (p *Properties) SetOutlineWidth(v float64) {
	set(p, PropOutlineWidth, func(x *Values) *float64 { return &x.OutlineWidth }, v)
}

func (p *Properties) SetOutlineHeight(v float64) {
	set(p, PropOutlineHeight, func(x *Values) *float64 { return &x.OutlineHeight }, v)
}

func (p *Properties) SetCornerRadius(v float64) {
	set(p, PropCornerRadius, func(x *Values) *float64 { return &x.CornerRadius }, v)
}

func (p *Properties) SetFillTier(v render.Tier) {
	set(p, PropFillTier, func(x *Values) *render.Tier { return &x.FillTier }, v)
}

func (p *Properties) SetLastStatus(v powerinfo.Status) {
	set(p, PropLastStatus, func(x *Values) *powerinfo.Status { return &x.LastStatus }, v)
}

func (p *Properties) SetOpacity(v float64) {
	set(p, PropOpacity, func(x *Values) *float64 { return &x.Opacity }, v)
}

func (p *Properties) SetBackground(v string) {
	set(p, PropBackground, func(x *Values) *string { return &x.Background }, v)
}
