package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/nicholasnucifora/spotify-filterer/internal/server"
	"github.com/urfave/cli/v3"
)

// Serve starts the web interface.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	config := r.config
	if host := cmd.String("host"); host != "" {
		config.Server.Host = host
	}
	if port := cmd.Int("port"); port > 0 {
		config.Server.Port = port
	}

	// Run history is best-effort for the web interface.
	repo, db, err := r.openRuns()
	if err != nil {
		r.logger.Warn("run history unavailable", "error", err)
	} else {
		defer db.Close()
	}

	app := server.NewWebApp(config, r.matchConfig(), repo, r.logger)
	router := server.NewBasicRouter()
	router.Use(server.RequestLogger(r.logger))
	router.Handler(app)

	addr := fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port)
	r.logger.Infof("starting web interface at http://%s", addr)
	r.writePlain("Web interface running at http://%s\n", addr)

	httpServer := &http.Server{Addr: addr, Handler: router}

	errs := make(chan error, 1)
	go func() {
		errs <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errs:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		return httpServer.Shutdown(context.Background())
	}
}
