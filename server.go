package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/ZamarianPatrick/lazypig-care/api"
	"github.com/ZamarianPatrick/lazypig-care/logger"
	"github.com/ZamarianPatrick/lazypig-care/metrics"
	"github.com/ZamarianPatrick/lazypig-care/notify"
	"github.com/ZamarianPatrick/lazypig-care/settings"
	"github.com/ZamarianPatrick/lazypig-care/store"
	"github.com/ZamarianPatrick/lazypig-care/wizard"
)

const version = "0.1.0"

func main() {
	settingsPath := flag.String("settings", settings.DefaultFileName, "path of the settings file")
	flag.Parse()

	s, err := settings.Load(*settingsPath)
	if err != nil {
		logger.New("error").Error("failed loading settings", "error", err)
		os.Exit(1)
	}

	log := logger.New(s.LogLevel, "service", "lazypig-care", "version", version)
	if err := run(s, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(s *settings.Settings, log logger.Logger) error {
	db, err := store.Open(s.DatabasePath, store.Options{LogLevel: s.LogLevel, Logger: log})
	if err != nil {
		return err
	}
	defer db.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	deps := api.Dependencies{
		Store:    db,
		Provider: newProvider(s, log),
		Metrics:  metrics.New(reg),
		Log:      log,
	}

	if s.RedisURL != "" {
		client, err := notify.DialRedis(context.Background(), s.RedisURL)
		if err != nil {
			log.Warn("redis unavailable, notification cache disabled", "error", err)
		} else {
			defer client.Close()
			deps.Cache = notify.NewRedisCache(client, s.CacheTTL())
		}
	}

	controller, err := api.NewController(s, deps)
	if err != nil {
		return err
	}
	if err := controller.Start(); err != nil {
		return err
	}
	defer controller.Stop()

	if s.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	resolver := api.NewResolver(version, s, controller, log)

	srv := &http.Server{
		Addr:              s.ListenAddr,
		Handler:           api.NewRouter(resolver, reg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", s.ListenAddr, "version", version)
		errCh <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case sig := <-quit:
		log.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

func newProvider(s *settings.Settings, log logger.Logger) wizard.Provider {
	if s.FakeAI {
		log.Info("using fake plant assistant")
		return wizard.NewFakeProvider()
	}

	return wizard.NewOpenAIProvider(wizard.OpenAIConfig{
		APIKey: s.OpenAI.APIKey,
		Model:  s.OpenAI.Model,
	}, log)
}
