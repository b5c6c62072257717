package daemon

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/charlie0129/battbar/pkg/config"
	"github.com/charlie0129/battbar/pkg/history"
	"github.com/charlie0129/battbar/pkg/powerinfo"
	"github.com/charlie0129/battbar/pkg/widget"
)

// LogFileName is written next to the config file when logging is on.
const LogFileName = "battbar.log"

type Options struct {
	ConfigPath     string
	UnixSocketPath string
	// HistoryPath is the history database. Empty disables history.
	HistoryPath  string
	AllowNonRoot bool
	// Simulate replaces the system battery with no battery at all.
	Simulate bool
}

func Run(opts Options) error {
	conf, err := config.NewFile(opts.ConfigPath)
	if err != nil {
		logrus.Fatalf("failed to parse config during startup: %v", err)
	}
	logrus.WithFields(conf.LogrusFields()).Infof("config loaded")

	if conf.Logging() {
		closeLog, err := setupLogFile(filepath.Join(filepath.Dir(conf.Path()), LogFileName))
		if err != nil {
			logrus.Warnf("failed to set up log file: %v", err)
		} else {
			defer closeLog()
		}
	}

	var store *history.Store
	if opts.HistoryPath != "" {
		store, err = history.Open(opts.HistoryPath)
		if err != nil {
			logrus.Warnf("battery history disabled: %v", err)
			store = nil
		} else {
			logrus.WithField("session", store.Session()).Infof("recording battery history to %s", opts.HistoryPath)
			defer func() {
				if err := store.Close(); err != nil {
					logrus.Errorf("failed to close history database: %v", err)
				}
			}()
		}
	}

	var provider powerinfo.Provider = powerinfo.NewSystemProvider()
	if opts.Simulate {
		logrus.Warn("simulating a system without battery")
		provider = powerinfo.Static{R: powerinfo.Report{Status: powerinfo.NotPresent}}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dispatcher := widget.NewDispatcher(0)
	dispatcherDone := make(chan struct{})
	go func() {
		defer close(dispatcherDone)
		dispatcher.Run(ctx)
	}()

	server := NewServer(conf, provider, dispatcher, store)
	if err := server.Load(ctx); err != nil {
		return pkgerrors.Wrap(err, "failed to load widget")
	}

	// Receive SIGHUP to reload config
	go func() {
		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, syscall.SIGHUP)
		for range sigc {
			err := conf.Load()
			if err != nil {
				logrus.Errorf("failed to reload config: %v", err)
				continue
			}
			if err := server.Widget().Reconfigure(ctx); err != nil {
				logrus.Errorf("failed to apply reloaded config: %v", err)
				continue
			}
			logrus.WithFields(conf.LogrusFields()).Infof("config reloaded")
		}
	}()

	srv := &http.Server{
		Handler: server.Router(),
	}

	// A socket left behind by a crashed daemon blocks Listen.
	if err := os.Remove(opts.UnixSocketPath); err != nil && !os.IsNotExist(err) {
		logrus.Warnf("failed to remove stale socket %s: %v", opts.UnixSocketPath, err)
	}

	// Create the socket to listen on:
	l, err := net.Listen("unix", opts.UnixSocketPath)
	if err != nil {
		logrus.Fatal(err)
	}

	if opts.AllowNonRoot {
		logrus.Infof("non-root access is allowed, changing permissions of %s to 0777", opts.UnixSocketPath)
		err = os.Chmod(opts.UnixSocketPath, 0777)
		if err != nil {
			logrus.Fatal(err)
		}
	}

	// Serve HTTP on unix socket
	go func() {
		logrus.Infof("http server listening on %s", l.Addr().String())
		if err := srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatal(err)
		}
	}()

	// Handle common process-killing signals, so we can gracefully shut down:
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	// Wait for a SIGINT or SIGTERM:
	sig := <-sigc
	logrus.Infof("caught signal \"%s\": shutting down.", sig)

	// Event streams never end on their own, close them before shutdown.
	logrus.Info("closing event streams")
	server.Hub().Close()

	logrus.Info("shutting down http server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	err = srv.Shutdown(shutdownCtx)
	if err != nil {
		logrus.Errorf("failed to shutdown http server: %v", err)
	}
	shutdownCancel()

	logrus.Info("unloading widget")
	server.Close()

	cancel()
	<-dispatcherDone

	logrus.Info("exiting")
	return nil
}

// setupLogFile tees the standard logger into path.
func setupLogFile(path string) (func(), error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to open log file %s", path)
	}

	std := logrus.StandardLogger()
	prev := std.Out
	std.SetOutput(io.MultiWriter(prev, f))
	logrus.Infof("logging to %s", path)

	return func() {
		std.SetOutput(prev)
		if err := f.Close(); err != nil {
			logrus.Warnf("failed to close log file %s", path)
		}
	}, nil
}
