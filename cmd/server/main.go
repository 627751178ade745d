package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"go-seasonal-jobs/internal/api"
	"go-seasonal-jobs/internal/config"
	"go-seasonal-jobs/internal/logger"

	"github.com/gin-gonic/gin"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the YAML config")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	port, err := portFrom(os.Getenv("PORT"), cfg.Server.Port)
	if err != nil {
		log.Error("❌ invalid PORT", "err", err)
		os.Exit(1)
	}
	cfg.Server.Port = port
	gin.SetMode(gin.ReleaseMode)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           api.New(cfg.Output.Dir, cfg.Output.File, log).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdown); err != nil {
			log.Warn("server shutdown", "err", err)
		}
	}()

	log.Info("server listening", "port", cfg.Server.Port, "data_dir", cfg.Output.Dir)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("❌ failed to start server", "err", err)
		os.Exit(1)
	}
}

// portFrom parses the PORT override, keeping fallback when it is unset.
func portFrom(env string, fallback int) (int, error) {
	if env == "" {
		return fallback, nil
	}
	port, err := strconv.Atoi(env)
	if err != nil {
		return 0, fmt.Errorf("parse %q: %w", env, err)
	}
	if port < 1 || port > 65535 {
		return 0, fmt.Errorf("port %d out of range", port)
	}
	return port, nil
}
