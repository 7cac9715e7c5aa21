package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iwvelando/exposure-advice/internal/config"
	"github.com/iwvelando/exposure-advice/internal/exposure"
	"github.com/iwvelando/exposure-advice/internal/logging"
	"github.com/iwvelando/exposure-advice/internal/server"
	"github.com/iwvelando/exposure-advice/pkg/constants"
	"go.uber.org/zap"
)

var version = "dev"

func main() {
	configLocation := flag.String("config", constants.DefaultServerConfigFile, "path to server configuration file")
	address := flag.String("address", "", "listen address override")
	maxBodySize := flag.String("max-body-size", "", "request body limit override, e.g. 64K or 1M")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	flag.Parse()

	serverConf, err := server.LoadConfig(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load server configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}
	if *address != "" {
		serverConf.Address = *address
	}
	if *maxBodySize != "" {
		size, err := server.ParseSize(*maxBodySize)
		if err != nil {
			fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"invalid -max-body-size\", \"error\": \"%v\"}\n", err)
			os.Exit(1)
		}
		serverConf.SetBodySizeBytes(size)
	}

	logger, err := logging.NewLogger(serverConf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	conf := config.Default()
	if serverConf.AdvisorConfig != "" {
		conf, err = config.LoadConfiguration(serverConf.AdvisorConfig)
		if err != nil {
			logger.Fatal("failed to load advisor configuration",
				zap.String("op", "main"),
				zap.String("path", serverConf.AdvisorConfig),
				zap.Error(err),
			)
		}
	}
	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	presets, err := conf.BuildPresets()
	if err != nil {
		logger.Fatal("failed to build presets",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	srv := &http.Server{
		Addr:              serverConf.Address,
		Handler:           server.NewHandler(logger, exposure.NewAdvisor(logger, presets), conf.Advisor, serverConf.BodySizeBytes(), version),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), serverConf.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("server shutdown failed",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
	}()

	logger.Info("serving exposure advice",
		zap.String("op", "main"),
		zap.String("address", serverConf.Address),
		zap.String("version", version),
	)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server failed",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
}
