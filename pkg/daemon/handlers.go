package daemon

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/charlie0129/battbar/pkg/config"
	"github.com/charlie0129/battbar/pkg/history"
	"github.com/charlie0129/battbar/pkg/version"
)

func abort(c *gin.Context, code int, err error) {
	c.IndentedJSON(code, err.Error())
	_ = c.AbortWithError(code, err)
}

func (s *Server) getState(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, s.widget.Properties().Snapshot())
}

func (s *Server) getBattery(c *gin.Context) {
	report, err := s.provider.Report(c.Request.Context())
	if err != nil {
		logrus.Errorf("getBattery failed: %v", err)
		abort(c, http.StatusInternalServerError, err)
		return
	}

	c.IndentedJSON(http.StatusOK, report)
}

func (s *Server) getConfig(c *gin.Context) {
	fc, err := config.NewRawFileConfigFromConfig(s.conf)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err)
		return
	}
	c.IndentedJSON(http.StatusOK, fc)
}

func (s *Server) setRefreshInterval(c *gin.Context) {
	var ms int
	if err := c.BindJSON(&ms); err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}

	d := time.Duration(ms) * time.Millisecond
	if d < config.MinRefreshInterval {
		abort(c, http.StatusBadRequest, fmt.Errorf("refresh interval must be at least %d ms, got %d", config.MinRefreshInterval.Milliseconds(), ms))
		return
	}

	s.conf.SetRefreshInterval(d)
	if err := s.conf.Save(); err != nil {
		logrus.Errorf("saveConfig failed: %v", err)
		abort(c, http.StatusInternalServerError, err)
		return
	}
	s.widget.RestartTimer()

	logrus.Infof("set refresh interval to %s", d)

	c.IndentedJSON(http.StatusCreated, fmt.Sprintf("set refresh interval to %s", d))
}

func (s *Server) setTopmost(c *gin.Context) {
	var t bool
	if err := c.BindJSON(&t); err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}

	s.conf.SetTopmost(t)
	if err := s.conf.Save(); err != nil {
		logrus.Errorf("saveConfig failed: %v", err)
		abort(c, http.StatusInternalServerError, err)
		return
	}

	logrus.Infof("set topmost to %t", t)

	c.IndentedJSON(http.StatusCreated, "ok")
}

func (s *Server) setTransparency(c *gin.Context) {
	var t bool
	if err := c.BindJSON(&t); err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}

	s.conf.SetTransparency(t)
	if err := s.conf.Save(); err != nil {
		logrus.Errorf("saveConfig failed: %v", err)
		abort(c, http.StatusInternalServerError, err)
		return
	}
	if err := s.widget.Reconfigure(c.Request.Context()); err != nil {
		abort(c, http.StatusInternalServerError, err)
		return
	}

	logrus.Infof("set transparency to %t", t)

	c.IndentedJSON(http.StatusCreated, "ok")
}

func (s *Server) refresh(c *gin.Context) {
	if err := s.widget.Refresh(c.Request.Context()); err != nil {
		abort(c, http.StatusServiceUnavailable, err)
		return
	}

	c.IndentedJSON(http.StatusOK, s.widget.Properties().Snapshot())
}

func (s *Server) getHistory(c *gin.Context) {
	if s.history == nil {
		abort(c, http.StatusServiceUnavailable, errors.New("history is disabled"))
		return
	}

	limit := history.DefaultLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			abort(c, http.StatusBadRequest, fmt.Errorf("limit must be a positive integer, got %q", v))
			return
		}
		limit = n
	}

	samples, err := s.history.Recent(c.Request.Context(), limit)
	if err != nil {
		logrus.Errorf("getHistory failed: %v", err)
		abort(c, http.StatusInternalServerError, err)
		return
	}
	if samples == nil {
		samples = []history.Sample{}
	}

	c.IndentedJSON(http.StatusOK, samples)
}

func getVersion(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, version.Version)
}
