package daemon

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charlie0129/battbar/pkg/config"
	"github.com/charlie0129/battbar/pkg/history"
	"github.com/charlie0129/battbar/pkg/powerinfo"
	"github.com/charlie0129/battbar/pkg/utils/ptr"
	"github.com/charlie0129/battbar/pkg/version"
	"github.com/charlie0129/battbar/pkg/widget"
)

var testReport = powerinfo.Report{
	Status:     powerinfo.Discharging,
	ChargeRate: ptr.To(-5000),
	Remaining:  ptr.To(40000),
	FullCharge: ptr.To(50000),
}

func newTestServer(t *testing.T, store *history.Store) (*Server, *config.File) {
	t.Helper()

	conf := config.NewFileFromConfig(&config.RawFileConfig{
		Refresh: ptr.To(int(time.Hour / time.Millisecond)),
	}, filepath.Join(t.TempDir(), "battbar.json"))

	ctx, cancel := context.WithCancel(context.Background())
	d := widget.NewDispatcher(0)
	go d.Run(ctx)

	s := NewServer(conf, powerinfo.Static{R: testReport}, d, store)
	require.NoError(t, s.Load(ctx))
	t.Cleanup(func() {
		s.Close()
		cancel()
	})
	return s, conf
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestRefreshAndState(t *testing.T) {
	s, _ := newTestServer(t, nil)
	router := s.Router()

	w := do(t, router, http.MethodPost, "/refresh", "")
	require.Equal(t, http.StatusOK, w.Code)

	var v widget.Values
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	assert.Equal(t, 80, v.Percentage)
	assert.Equal(t, "⚡ 80%", v.Charge)
	assert.Equal(t, powerinfo.Discharging, v.LastStatus)

	w = do(t, router, http.MethodGet, "/state", "")
	require.Equal(t, http.StatusOK, w.Code)
	var state widget.Values
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	assert.Equal(t, v, state)
}

func TestGetBattery(t *testing.T) {
	s, _ := newTestServer(t, nil)

	w := do(t, s.Router(), http.MethodGet, "/battery", "")
	require.Equal(t, http.StatusOK, w.Code)

	var r powerinfo.Report
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &r))
	assert.Equal(t, testReport, r)
}

func TestSetRefreshInterval(t *testing.T) {
	s, conf := newTestServer(t, nil)
	router := s.Router()

	w := do(t, router, http.MethodPut, "/refresh-interval", "100")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, router, http.MethodPut, "/refresh-interval", `"fast"`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, router, http.MethodPut, "/refresh-interval", "1500")
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 1500*time.Millisecond, conf.RefreshInterval())
	assert.True(t, s.Widget().TimerRunning())

	saved, err := config.NewFile(conf.Path())
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, saved.RefreshInterval())
}

func TestSetToggles(t *testing.T) {
	s, conf := newTestServer(t, nil)
	router := s.Router()

	w := do(t, router, http.MethodPut, "/topmost", "true")
	require.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, conf.Topmost())

	w = do(t, router, http.MethodPut, "/transparency", "true")
	require.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, conf.Transparency())
	assert.Equal(t, 0.75, s.Widget().Properties().Snapshot().Opacity)

	w = do(t, router, http.MethodPut, "/topmost", "maybe")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, router, http.MethodGet, "/config", "")
	require.Equal(t, http.StatusOK, w.Code)
	var raw config.RawFileConfig
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	require.NotNil(t, raw.Topmost)
	assert.True(t, *raw.Topmost)
}

func TestGetHistory(t *testing.T) {
	s, _ := newTestServer(t, nil)
	w := do(t, s.Router(), http.MethodGet, "/history", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	store, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	s, _ = newTestServer(t, store)
	router := s.Router()
	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusOK, do(t, router, http.MethodPost, "/refresh", "").Code)
	}

	w = do(t, router, http.MethodGet, "/history?limit=2", "")
	require.Equal(t, http.StatusOK, w.Code)
	var samples []history.Sample
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &samples))
	assert.Len(t, samples, 2)
	assert.Equal(t, 80, samples[0].Percentage)

	w = do(t, router, http.MethodGet, "/history?limit=zero", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVersionAndMetrics(t *testing.T) {
	s, _ := newTestServer(t, nil)
	router := s.Router()

	w := do(t, router, http.MethodGet, "/version", "")
	require.Equal(t, http.StatusOK, w.Code)
	var v string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	assert.Equal(t, version.Version, v)

	require.Equal(t, http.StatusOK, do(t, router, http.MethodPost, "/refresh", "").Code)
	w = do(t, router, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "battbar_samples_total")
	assert.Contains(t, w.Body.String(), "battbar_charge_percent 80")
}

func TestStreamEvents(t *testing.T) {
	s, _ := newTestServer(t, nil)
	ts := httptest.NewServer(s.Router())
	t.Cleanup(ts.Close)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	require.Eventually(t, func() bool { return s.Hub().Subscribers() == 1 }, time.Second, 10*time.Millisecond)

	go func() {
		_ = s.Widget().Refresh(context.Background())
	}()

	seen := map[string]bool{}
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()
		if name, ok := strings.CutPrefix(line, "event:"); ok {
			seen[name] = true
		}
		if seen["widget.activate"] && seen["property.changed"] && seen["widget.sampled"] {
			break
		}
	}
	assert.True(t, seen["property.changed"])
	assert.True(t, seen["widget.activate"])
	assert.True(t, seen["widget.sampled"])
}
