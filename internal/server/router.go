package server

import (
	"net/http"

	"github.com/agentstation/henkan/internal/server/handlers"
	"github.com/agentstation/henkan/internal/server/middleware"
	"github.com/agentstation/henkan/internal/server/response"
)

// setupRouter creates the HTTP handler with routes and middleware.
func (s *Server) setupRouter() http.Handler {
	mux := http.NewServeMux()

	h := handlers.New(handlers.Deps{
		App:      s.app,
		Broker:   s.broker,
		Hub:      s.wsHub,
		SSE:      s.sseBroadcaster,
		Upgrader: s.upgrader,
		Logger:   s.logger,
		Started:  s.startTime,
	})

	s.registerRoutes(mux, h)
	return s.applyMiddleware(mux)
}

// registerRoutes registers all HTTP routes.
func (s *Server) registerRoutes(mux *http.ServeMux, h *handlers.Handlers) {
	prefix := s.config.PathPrefix

	mux.HandleFunc("/favicon.ico", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	// Public
	mux.HandleFunc("/health", method(http.MethodGet, h.HandleHealth))
	mux.HandleFunc(prefix+"/health", method(http.MethodGet, h.HandleHealth))
	mux.HandleFunc(prefix+"/ready", method(http.MethodGet, h.HandleReady))

	// Conversion
	mux.HandleFunc(prefix+"/convert", method(http.MethodPost, h.HandleConvert))
	mux.HandleFunc(prefix+"/convert/ws", h.HandleConvertSession)
	mux.HandleFunc(prefix+"/parse", method(http.MethodPost, h.HandleParse))

	// Engine protocol for remote engines
	mux.HandleFunc(prefix+"/engine/candidates", method(http.MethodPost, h.HandleEngineCandidates))

	mux.HandleFunc(prefix+"/stats", method(http.MethodGet, h.HandleStats))

	// Real-time events
	mux.HandleFunc(prefix+"/events/ws", h.HandleEventsWebSocket)
	mux.HandleFunc(prefix+"/events/stream", h.HandleEventsSSE)
}

// method restricts fn to a single HTTP method.
func method(m string, fn http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != m {
			w.Header().Set("Allow", m)
			response.MethodNotAllowed(w, r.Method)
			return
		}
		fn(w, r)
	}
}

// applyMiddleware wraps handler with the middleware chain. Recovery is
// outermost, then logging, CORS, authentication and rate limiting.
func (s *Server) applyMiddleware(handler http.Handler) http.Handler {
	cfg := s.config
	chain := []func(http.Handler) http.Handler{
		middleware.Recovery(s.logger),
		middleware.Logger(s.logger),
	}

	if cfg.CORSEnabled {
		corsConfig := middleware.DefaultCORSConfig()
		if len(cfg.CORSOrigins) > 0 {
			corsConfig.AllowedOrigins = cfg.CORSOrigins
		}
		chain = append(chain, middleware.CORS(corsConfig))
	}

	if cfg.AuthEnabled {
		authConfig := middleware.DefaultAuthConfig()
		authConfig.Enabled = true
		authConfig.APIKey = cfg.APIKey
		authConfig.HeaderName = cfg.AuthHeader
		authConfig.PublicPaths = []string{"/health", "/favicon.ico", cfg.PathPrefix + "/health"}
		chain = append(chain, middleware.Auth(authConfig, s.logger))
	}

	if s.rateLimiter != nil {
		chain = append(chain, middleware.RateLimit(s.rateLimiter))
	}

	return middleware.Chain(chain...)(handler)
}
