// Package server provides the HTTP server of the henkan API.
//
// The server exposes conversion over JSON and WebSocket, serves the engine
// protocol used by remote engines, and streams conversion events to
// WebSocket and SSE clients.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/agentstation/henkan/cmd/application"
	"github.com/agentstation/henkan/internal/server/events"
	"github.com/agentstation/henkan/internal/server/events/adapters"
	"github.com/agentstation/henkan/internal/server/middleware"
	"github.com/agentstation/henkan/internal/server/sse"
	ws "github.com/agentstation/henkan/internal/server/websocket"
	"github.com/agentstation/henkan/pkg/reconciler"
)

// Server holds the HTTP server state and dependencies.
type Server struct {
	app            application.Application
	broker         *events.Broker
	wsHub          *ws.Hub
	sseBroadcaster *sse.Broadcaster
	rateLimiter    *middleware.RateLimiter
	upgrader       websocket.Upgrader
	logger         *zerolog.Logger
	config         Config
	ctx            context.Context
	cancel         context.CancelFunc
	done           chan struct{}
	startTime      time.Time
}

// New creates a server for app. The converter is created here so that a
// misconfigured engine fails before the server starts listening.
func New(app application.Application, cfg Config) (*Server, error) {
	logger := app.Logger()

	if cfg.AuthEnabled && cfg.APIKey == "" {
		return nil, fmt.Errorf("authentication enabled without an API key")
	}
	if cfg.AuthHeader == "" {
		cfg.AuthHeader = "X-API-Key"
	}

	broker := events.NewBroker(logger)
	wsHub := ws.NewHub(logger)
	sseBroadcaster := sse.NewBroadcaster(logger)

	broker.Subscribe(adapters.NewWebSocketSubscriber(wsHub))
	broker.Subscribe(adapters.NewSSESubscriber(sseBroadcaster))

	ctx, cancel := context.WithCancel(context.Background())

	server := &Server{
		app:            app,
		broker:         broker,
		wsHub:          wsHub,
		sseBroadcaster: sseBroadcaster,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(_ *http.Request) bool {
				return true
			},
		},
		logger:    logger,
		config:    cfg,
		ctx:       ctx,
		cancel:    cancel,
		done:      make(chan struct{}),
		startTime: time.Now(),
	}
	if cfg.RateLimit > 0 {
		server.rateLimiter = middleware.NewRateLimiter(cfg.RateLimit, logger)
	}

	if err := server.connectHooks(); err != nil {
		cancel()
		return nil, err
	}

	logger.Debug().
		Str("path_prefix", cfg.PathPrefix).
		Bool("auth", cfg.AuthEnabled).
		Int("rate_limit", cfg.RateLimit).
		Msg("Server instance created")
	return server, nil
}

// connectHooks publishes converter events to the broker.
func (s *Server) connectHooks() error {
	conv, err := s.app.Converter()
	if err != nil {
		return err
	}
	if conv == nil {
		return fmt.Errorf("application returned no converter")
	}

	conv.OnSegmentConverted(func(index int, result *reconciler.Result) {
		s.broker.Publish(events.SegmentConverted, map[string]any{
			"segment":    index,
			"reading":    result.Key,
			"mode":       result.Mode,
			"candidates": result.Texts(),
			"stats":      result.Metadata.Stats,
		})
	})

	conv.OnFallback(func(key string, mode reconciler.Mode) {
		s.broker.Publish(events.SegmentFallback, map[string]any{
			"reading": key,
			"mode":    mode,
		})
	})

	s.logger.Debug().Msg("Converter hooks connected to event broker")
	return nil
}

// Start starts the background services (broker, WebSocket hub, SSE broadcaster).
func (s *Server) Start() {
	go func() {
		defer close(s.done)
		done := make(chan struct{}, 4)
		run := func(fn func(context.Context)) {
			go func() {
				fn(s.ctx)
				done <- struct{}{}
			}()
		}

		services := 3
		run(s.broker.Run)
		run(s.wsHub.Run)
		run(s.sseBroadcaster.Run)
		if s.rateLimiter != nil {
			run(s.rateLimiter.Run)
			services++
		}

		for i := 0; i < services; i++ {
			<-done
		}
	}()
	s.logger.Debug().Msg("Background services started")
}

// Handler returns the http.Handler with routes and middleware applied.
func (s *Server) Handler() http.Handler {
	return s.setupRouter()
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
}

// HTTPServer returns an http.Server for the configured address and timeouts.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         s.Addr(),
		Handler:      s.Handler(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}
}

// Shutdown stops the background services and waits for them until ctx expires.
// It must only be called after Start.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("Shutting down server background services")
	s.cancel()

	select {
	case <-s.done:
		s.logger.Info().Msg("Background services shut down")
		return nil
	case <-ctx.Done():
		s.logger.Warn().Msg("Background services shutdown timed out")
		return ctx.Err()
	}
}

// Broker returns the event broker.
func (s *Server) Broker() *events.Broker {
	return s.broker
}

// WSHub returns the WebSocket hub.
func (s *Server) WSHub() *ws.Hub {
	return s.wsHub
}

// SSEBroadcaster returns the SSE broadcaster.
func (s *Server) SSEBroadcaster() *sse.Broadcaster {
	return s.sseBroadcaster
}

// StartTime returns the server start time.
func (s *Server) StartTime() time.Time {
	return s.startTime
}
