package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"
)

// application is the part of *fx.App driven by run.
type application interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Done() <-chan os.Signal
	StopTimeout() time.Duration
}

// run starts app, blocks until ctx ends or app asks to shut down, and stops
// it within the app's stop timeout. It returns the process exit code.
func run(ctx context.Context, app application, stderr io.Writer) int {
	if err := app.Start(ctx); err != nil {
		fmt.Fprintf(stderr, "failed to start application: %v\n", err)
		return 1
	}

	select {
	case <-ctx.Done():
	case <-app.Done():
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), app.StopTimeout())
	defer cancel()
	if err := app.Stop(stopCtx); err != nil {
		fmt.Fprintf(stderr, "failed to stop application: %v\n", err)
		return 1
	}
	return 0
}
