// Command henkan converts kana readings into candidate lists and serves
// the conversion API.
package main

import (
	"context"
	"os"
	"time"

	"github.com/agentstation/henkan/cmd/henkan/app"
)

// Set at build time with -ldflags.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
	builtBy = "unknown"
)

// shutdownGrace bounds converter and engine cleanup after the command returns.
const shutdownGrace = 5 * time.Second

func main() {
	app.ExitOnError(run(os.Args[1:]))
}

func run(args []string) error {
	a, err := app.New(version, commit, date, builtBy)
	if err != nil {
		return err
	}

	ctx, stop := app.ContextWithSignals(context.Background())
	runErr := a.Execute(ctx, args)
	stop()

	// ctx may already be cancelled by a signal.
	cleanupCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := a.Shutdown(cleanupCtx); err != nil {
		a.Logger().Error().Err(err).Msg("Shutdown failed")
	}
	return runErr
}
