package main

// The code to start and stop the HTTP server for the route generation service.

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/StrideApp/RouteCraft/internal/util/config"
	"github.com/StrideApp/RouteCraft/pkg/osrm"
	"github.com/StrideApp/RouteCraft/pkg/overpass"
	"github.com/StrideApp/RouteCraft/pkg/routegen"
	"github.com/StrideApp/RouteCraft/pkg/routegen/endpoints"
	"github.com/StrideApp/RouteCraft/pkg/routegen/transport"

	"github.com/go-kit/log"
	"golang.org/x/time/rate"
)

func main() {
	var logger log.Logger
	logger = log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	logger = log.With(logger, "ts", log.DefaultTimestampUTC)

	cfg, err := config.Load()
	if err != nil {
		logger.Log("during", "config.Load", "err", err)
		os.Exit(1)
	}

	httpAddr := net.JoinHostPort(cfg.ListenAddress, cfg.ListenPort)

	var (
		router = osrm.NewService(cfg.OSRMBaseURL, cfg.HTTPTimeout,
			cfg.RouterRetries, cfg.RouterBackoff, log.With(logger, "component", "osrm"))
		features = overpass.NewService(cfg.OverpassAPIURL, cfg.HTTPTimeout,
			rate.NewLimiter(rate.Limit(cfg.OverpassRPS), 1), log.With(logger, "component", "overpass"))
		service = routegen.NewService(router, features, log.With(logger, "component", "routegen"),
			routegen.WithCandidateCount(cfg.CandidateCount),
			routegen.WithFallbackPace(cfg.FallbackPaceMinPerKm),
			routegen.WithElevationModel(cfg.ElevationBaseM, cfg.ElevationPerKmM, cfg.ElevationPerVariantM),
		)
		endpointSet = endpoints.NewEndpointSet(service)
		httpHandler = transport.NewHTTPHandler(endpointSet)
	)

	httpListener, err := net.Listen("tcp", httpAddr)
	if err != nil {
		logger.Log("transport", "HTTP", "during", "Listen", "err", err)
		os.Exit(1)
	}

	httpServer := &http.Server{
		Handler: httpHandler,
	}

	go func() {
		logger.Log("transport", "HTTP", "addr", httpAddr)
		err := httpServer.Serve(httpListener)
		if err != nil && err != http.ErrServerClosed {
			logger.Log("transport", "HTTP", "during", "Serve", "err", err)
		}
	}()

	// Wait for an interrupt signal to stop the server.

	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	sig := <-c
	logger.Log("signal", sig)

	// Stop the server gracefully.

	err = httpServer.Shutdown(context.Background())
	if err != nil {
		logger.Log("transport", "HTTP", "during", "Shutdown", "err", err)
	}
	httpListener.Close()

	logger.Log("transport", "HTTP", "status", "stopped")
}
