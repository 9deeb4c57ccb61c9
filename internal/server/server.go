package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/cors"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

// CORSConfig configures cross-origin access for a server.
type CORSConfig struct {
	AllowedOrigins   []string
	AllowCredentials bool
}

type Option func(*http.Server, *settings) error

type settings struct {
	cors *CORSConfig
}

func WithCORS(cfg CORSConfig) Option {
	return func(_ *http.Server, s *settings) error {
		if len(cfg.AllowedOrigins) == 0 {
			return fmt.Errorf("at least one allowed origin is required")
		}

		s.cors = &cfg

		return nil
	}
}

func WithReadHeaderTimeout(d time.Duration) Option {
	return func(srv *http.Server, _ *settings) error {
		srv.ReadHeaderTimeout = d

		return nil
	}
}

// CreateWithOptions prepares a server listening on addr. Requests may use
// HTTP/1.1 or cleartext HTTP/2 (h2c), which connect streaming benefits from.
func CreateWithOptions(addr string, handler http.Handler, opts ...Option) (*http.Server, error) {
	srv := &http.Server{
		Addr:              addr,
		ReadHeaderTimeout: 10 * time.Second,
	}

	var s settings
	for _, opt := range opts {
		if err := opt(srv, &s); err != nil {
			return nil, err
		}
	}

	if s.cors != nil {
		handler = cors.New(cors.Options{
			AllowedOrigins:   s.cors.AllowedOrigins,
			AllowCredentials: s.cors.AllowCredentials,
			AllowedMethods: []string{
				http.MethodGet,
				http.MethodPost,
				http.MethodPut,
				http.MethodDelete,
				http.MethodOptions,
			},
			AllowedHeaders: []string{"*"},
			ExposedHeaders: []string{"Grpc-Status", "Grpc-Message", "Connect-Protocol-Version"},
		}).Handler(handler)
	}

	srv.Handler = h2c.NewHandler(handler, &http2.Server{})

	return srv, nil
}

// Serve runs all servers until ctx is cancelled or one of them fails. All
// servers are shut down before Serve returns.
func Serve(ctx context.Context, servers ...*http.Server) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg     sync.WaitGroup
		l      sync.Mutex
		result *multierror.Error
	)

	record := func(err error) {
		l.Lock()
		defer l.Unlock()

		result = multierror.Append(result, err)
	}

	for _, srv := range servers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			slog.Info("starting server", "address", srv.Addr)

			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				record(fmt.Errorf("server %s: %w", srv.Addr, err))

				// take the others down as well
				cancel()
			}
		}()
	}

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	for _, srv := range servers {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			record(fmt.Errorf("failed to shutdown server %s: %w", srv.Addr, err))
		}
	}

	wg.Wait()

	return result.ErrorOrNil()
}
