/*
Copyright © 2022 Bartłomiej Święcki (byo)

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package bhttp

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

type cfg struct {
	log                     *slog.Logger
	gracefulShutdownTimeout time.Duration
}

// Option configures RunGracefully.
type Option func(*cfg)

// Logger sets the slog.Logger used for request and lifecycle logging.
func Logger(log *slog.Logger) Option {
	return func(c *cfg) { c.log = log }
}

// RunGracefully serves handler on listenAddr until ctx is cancelled or the
// process receives SIGINT/SIGTERM, then drains in-flight requests before
// returning.
func RunGracefully(ctx context.Context, listenAddr string, handler http.Handler, opts ...Option) error {
	c := cfg{
		log:                     slog.Default(),
		gracefulShutdownTimeout: 5 * time.Second,
	}
	for _, o := range opts {
		o(&c)
	}

	listener, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return err
	}

	c.log.Info("starting blob http server", "addr", listenAddr)

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	server := &http.Server{
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c.log.Info("http request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
			)
			handler.ServeHTTP(w, r)
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		<-ctx.Done()

		c.log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), c.gracefulShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			c.log.Error("failed to shut down gracefully", "error", err)
			server.Close()
		}
	}()
	defer wg.Wait()

	err = server.Serve(listener)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
