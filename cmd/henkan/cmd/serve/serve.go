// Package serve provides the serve command running the henkan API server.
package serve

import (
	"context"
	"fmt"
	"net"
	"net/http"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/agentstation/henkan/cmd/application"
	"github.com/agentstation/henkan/internal/server"
	"github.com/agentstation/henkan/pkg/constants"
	"github.com/agentstation/henkan/pkg/errors"
)

// ShutdownTimeout bounds graceful shutdown after the context is cancelled.
const ShutdownTimeout = constants.ShutdownTimeout

// NewCommand creates the serve command. defaults supplies the configuration
// flags are applied on top of; it is called when the command runs.
func NewCommand(app application.Application, defaults func() server.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the conversion API over HTTP",
		Long: `Start the henkan API server.

Endpoints (under --prefix, default /api/v1):
  POST /convert             convert a reading or segments
  GET  /convert/ws          conversion session over WebSocket
  POST /parse               decode and reconcile a candidate blob
  POST /engine/candidates   raw engine blob (used by the remote engine)
  GET  /stats               server and engine statistics
  GET  /events/ws           conversion events over WebSocket
  GET  /events/stream       conversion events over Server-Sent Events
  GET  /health, /ready      probes`,
		Example: `  henkan serve
  henkan serve --port 3000 --auth --api-key secret
  henkan serve --cors-origins "https://example.com" --rate-limit 120`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := server.DefaultConfig()
			if defaults != nil {
				cfg = defaults()
			}
			applyFlags(cmd, &cfg)

			return Run(cmd.Context(), app, cfg, func(addr net.Addr) {
				cmd.Printf("henkan API listening on http://%s%s\n", addr, cfg.PathPrefix)
			})
		},
	}

	def := server.DefaultConfig()
	cmd.Flags().IntP("port", "p", def.Port, "Server port")
	cmd.Flags().String("host", def.Host, "Bind address")
	cmd.Flags().String("prefix", def.PathPrefix, "API path prefix")
	cmd.Flags().Bool("cors", false, "Enable CORS")
	cmd.Flags().StringSlice("cors-origins", nil, "Allowed CORS origins (comma-separated, implies --cors)")
	cmd.Flags().Bool("auth", false, "Require an API key")
	cmd.Flags().String("auth-header", def.AuthHeader, "Authentication header name")
	cmd.Flags().String("api-key", "", "API key accepted when --auth is set")
	cmd.Flags().Int("rate-limit", def.RateLimit, "Requests per minute per IP (0 to disable)")
	cmd.Flags().Duration("read-timeout", def.ReadTimeout, "HTTP read timeout")
	cmd.Flags().Duration("write-timeout", def.WriteTimeout, "HTTP write timeout")
	cmd.Flags().Duration("idle-timeout", def.IdleTimeout, "HTTP idle timeout")

	return cmd
}

// applyFlags overrides cfg with the flags set on the command line.
func applyFlags(cmd *cobra.Command, cfg *server.Config) {
	flags := cmd.Flags()
	if flags.Changed("port") {
		cfg.Port, _ = flags.GetInt("port")
	}
	if flags.Changed("host") {
		cfg.Host, _ = flags.GetString("host")
	}
	if flags.Changed("prefix") {
		cfg.PathPrefix, _ = flags.GetString("prefix")
	}
	if flags.Changed("cors") {
		cfg.CORSEnabled, _ = flags.GetBool("cors")
	}
	if flags.Changed("cors-origins") {
		cfg.CORSOrigins, _ = flags.GetStringSlice("cors-origins")
		cfg.CORSEnabled = true
	}
	if flags.Changed("auth") {
		cfg.AuthEnabled, _ = flags.GetBool("auth")
	}
	if flags.Changed("auth-header") {
		cfg.AuthHeader, _ = flags.GetString("auth-header")
	}
	if flags.Changed("api-key") {
		cfg.APIKey, _ = flags.GetString("api-key")
	}
	if flags.Changed("rate-limit") {
		cfg.RateLimit, _ = flags.GetInt("rate-limit")
	}
	if flags.Changed("read-timeout") {
		cfg.ReadTimeout, _ = flags.GetDuration("read-timeout")
	}
	if flags.Changed("write-timeout") {
		cfg.WriteTimeout, _ = flags.GetDuration("write-timeout")
	}
	if flags.Changed("idle-timeout") {
		cfg.IdleTimeout, _ = flags.GetDuration("idle-timeout")
	}
}

// Run serves cfg until ctx is cancelled, then shuts the server down
// gracefully. ready, if not nil, is called with the bound address once the
// listener is open.
func Run(ctx context.Context, app application.Application, cfg server.Config, ready func(net.Addr)) error {
	srv, err := server.New(app, cfg)
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", srv.Addr())
	if err != nil {
		return errors.WrapIO("listen", srv.Addr(), err)
	}

	httpServer := srv.HTTPServer()
	srv.Start()

	logger := app.Logger()
	logger.Info().
		Str("addr", ln.Addr().String()).
		Str("prefix", cfg.PathPrefix).
		Bool("cors", cfg.CORSEnabled).
		Bool("auth", cfg.AuthEnabled).
		Int("rate_limit", cfg.RateLimit).
		Msg("Starting API server")
	if ready != nil {
		ready(ln.Addr())
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("serving: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("Shutting down API server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()

		// Streams end once the background services stop.
		bgErr := srv.Shutdown(shutdownCtx)
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down: %w", err)
		}
		return bgErr
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info().Msg("API server stopped")
	return nil
}
