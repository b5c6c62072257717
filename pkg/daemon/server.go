package daemon

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/charlie0129/battbar/pkg/config"
	"github.com/charlie0129/battbar/pkg/events"
	"github.com/charlie0129/battbar/pkg/history"
	"github.com/charlie0129/battbar/pkg/metrics"
	"github.com/charlie0129/battbar/pkg/powerinfo"
	"github.com/charlie0129/battbar/pkg/render"
	"github.com/charlie0129/battbar/pkg/widget"
)

// Server exposes a widget over HTTP.
type Server struct {
	conf     config.Config
	provider powerinfo.Provider
	widget   *widget.Widget
	hub      *events.EventHub
	// history is nil when recording is disabled.
	history *history.Store
}

// NewServer builds the widget and wires its properties, activations and
// samples to the event hub, metrics and history.
func NewServer(conf config.Config, provider powerinfo.Provider, dispatcher *widget.Dispatcher, store *history.Store) *Server {
	s := &Server{
		conf:     conf,
		provider: provider,
		hub:      events.NewEventHub(),
		history:  store,
	}

	observers := []widget.SampleObserver{metrics.Observer{}, s}
	if store != nil {
		observers = append(observers, store)
	}

	s.widget = widget.New(widget.Options{
		Provider:   provider,
		Config:     conf,
		Dispatcher: dispatcher,
		Activator:  widget.ActivatorFunc(s.activate),
		Observers:  observers,
	})
	s.widget.Properties().AddListener(s)

	return s
}

func (s *Server) Widget() *widget.Widget {
	return s.widget
}

func (s *Server) Hub() *events.EventHub {
	return s.hub
}

// Load starts the widget.
func (s *Server) Load(ctx context.Context) error {
	return s.widget.Load(ctx)
}

// Close ends all event streams and unloads the widget.
func (s *Server) Close() {
	s.hub.Close()
	s.widget.Unload()
}

func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(ginLogger(logrus.StandardLogger()))
	router.GET("/state", s.getState)
	router.GET("/battery", s.getBattery)
	router.GET("/config", s.getConfig)
	router.PUT("/refresh-interval", s.setRefreshInterval)
	router.PUT("/topmost", s.setTopmost)
	router.PUT("/transparency", s.setTransparency)
	router.POST("/refresh", s.refresh)
	router.GET("/history", s.getHistory)
	router.GET("/events", s.streamEvents)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/version", getVersion)

	return router
}

// PropertyChanged forwards widget property changes to event subscribers.
func (s *Server) PropertyChanged(name string, value any) {
	b, err := json.Marshal(value)
	if err != nil {
		logrus.WithError(err).WithField("property", name).Warn("failed to marshal property")
		return
	}
	s.hub.Publish(events.PropertyChanged, events.PropertyChangedEvent{
		Name:  name,
		Value: b,
		Ts:    time.Now().Unix(),
	})
}

// Sampled forwards every applied frame to event subscribers.
func (s *Server) Sampled(_ powerinfo.Report, state render.RenderState, err error) {
	if err != nil {
		return
	}
	s.hub.Publish(events.Sampled, events.SampledEvent{
		Status:     state.Status.String(),
		Percentage: state.Percentage,
		Charge:     state.Charge,
		Remain:     state.Remain,
		Simulated:  state.Simulated,
		Ts:         time.Now().Unix(),
	})
}

// activate asks front ends to come forward. The daemon has no window of
// its own.
func (s *Server) activate() {
	status := s.widget.Properties().Snapshot().LastStatus
	logrus.WithField("status", status).Info("battery status changed, requesting activation")
	s.hub.Publish(events.Activate, events.ActivateEvent{
		Status: status.String(),
		Ts:     time.Now().Unix(),
	})
}
