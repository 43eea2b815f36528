// Command ssc-proxy serves the client-facing satellite location API,
// proxying NASA SSC Web Services.
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

	"github.com/skysurvey/ssc-view/internal/config"
	"github.com/skysurvey/ssc-view/internal/logging"
	"github.com/skysurvey/ssc-view/internal/proxy"
	"github.com/skysurvey/ssc-view/internal/ssc"
	"github.com/skysurvey/ssc-view/internal/version"
)

const shutdownGrace = 10 * time.Second

func main() {
	confPath := flag.String("config", "", "Directory containing ssc-proxy.yaml")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("ssc-proxy v%s\n", version.Version)
		return
	}

	cfg, err := config.Load(*confPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(logging.ParseLevel(cfg.LogLevel))
	logger.Info("ssc-proxy v%s starting", version.Version)
	logger.Debug("upstream %s, resolution factor %d", cfg.UpstreamURL, cfg.ResolutionFactor)

	client := ssc.NewClient(
		ssc.WithBaseURL(cfg.UpstreamURL),
		ssc.WithTimeout(cfg.UpstreamTimeout),
	)
	handler := proxy.NewHandler(client, cfg.ResolutionFactor, logger.WithComponent("api"))
	server := proxy.NewServer(cfg.ListenAddr, handler, logger.WithComponent("http"))

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed: %v", err)
			os.Exit(1)
		}
	case sig := <-sigCh:
		logger.Info("received %s, shutting down", sig)
		ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("shutdown: %v", err)
			os.Exit(1)
		}
	}
}
