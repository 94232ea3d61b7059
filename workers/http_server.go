package workers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"
)

type HTTPServer struct {
	Addr    string
	Handler http.Handler
	// Time allowed for in-flight requests on shutdown
	ShutdownTimeout time.Duration
}

func (h HTTPServer) Play(ctx context.Context) error {
	srv := &http.Server{
		Addr:              h.Addr,
		Handler:           h.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	timeout := h.ShutdownTimeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	shutdownErr := make(chan error, 1)
	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		shutdownErr <- srv.Shutdown(shutdownCtx)
	}()

	log.Printf("Listening on %s", h.Addr)
	err := srv.ListenAndServe()
	if err != http.ErrServerClosed {
		return fmt.Errorf("could not start http server: %w", err)
	}

	if err := <-shutdownErr; err != nil {
		return fmt.Errorf("error shutting down http server: %w", err)
	}

	return nil
}
