package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func (app *application) serve() error {
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", app.config.Port),
		Handler:      app.routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		ErrorLog:     slog.NewLogLogger(app.logger.Handler(), slog.LevelError),
	}

	shutdownError := make(chan error)

	go func() {
		signals := make(chan os.Signal, 1)
		signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

		for s := range signals {
			if s == syscall.SIGHUP {
				app.cache.Clear()
				continue
			}

			app.logger.Info("Shutting down server", "signal", s.String())

			ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
			err := server.Shutdown(ctx)
			cancel()
			if err != nil {
				shutdownError <- err
				return
			}

			app.logger.Info("Waiting for background tasks", "addr", server.Addr)
			app.wg.Wait()
			shutdownError <- nil
			return
		}
	}()

	app.logger.Info("Starting server", "addr", server.Addr, "env", app.config.Env)

	err := server.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	if err := <-shutdownError; err != nil {
		return err
	}

	app.logger.Info("Server stopped", "addr", server.Addr)
	return nil
}
