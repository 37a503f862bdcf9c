package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/andrebq/gatepass/internal/logutil"
	"github.com/google/uuid"
)

type (
	statusRecorder struct {
		http.ResponseWriter
		status int
	}
)

// Serve runs handler on bind until ctx is cancelled, then shuts the
// server down gracefully. Every request is logged with its own id.
func Serve(ctx context.Context, bind string, handler http.Handler) error {
	server := http.Server{
		Handler:           WithRequestLog(ctx, handler),
		Addr:              bind,
		ReadTimeout:       time.Minute,
		WriteTimeout:      time.Minute * 2,
		ReadHeaderTimeout: time.Second * 10,
		IdleTimeout:       time.Minute * 5,
	}
	err := make(chan error, 1)
	done := make(chan struct{})
	go serveInBackground(ctx, &server, err, done)
	<-done
	return <-err
}

// WithRequestLog attaches a request scoped logger (see logutil.GetOrDefault)
// to each request and logs the outcome once the handler returns.
func WithRequestLog(ctx context.Context, next http.Handler) http.Handler {
	base := logutil.GetOrDefault(ctx)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log := base.With().
			Str("req.id", uuid.NewString()).
			Str("req.method", r.Method).
			Str("req.path", r.URL.Path).
			Logger()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(logutil.WithLogger(r.Context(), log)))
		log.Info().Int("res.status", rec.status).Dur("res.elapsed", time.Since(start)).Msg("Request completed")
	})
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// Unwrap lets http.ResponseController reach the underlying writer (the
// chat proxy flushes streamed responses through it).
func (s *statusRecorder) Unwrap() http.ResponseWriter {
	return s.ResponseWriter
}

func serveInBackground(ctx context.Context, server *http.Server, firstErr chan<- error, done chan<- struct{}) {
	log := logutil.GetOrDefault(ctx).With().Str("server.addr", server.Addr).Logger()
	defer close(done)
	serverCtx, cancel := context.WithCancel(ctx)
	go func() {
		defer cancel()
		defer close(firstErr)
		log.Info().Msg("Starting HTTP server")
		err := server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			log.Info().Msg("Server closed")
			// shutdown called,
			// ignore the error
			return
		} else if err != nil {
			select {
			case firstErr <- err:
			default:
			}
			return
		}
	}()
	<-serverCtx.Done()
	if ctx.Err() == nil {
		// listener failed before anyone asked us to stop
		return
	}
	log.Info().Msg("Initiating shutdown process")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), time.Second*30)
	defer cancelShutdown()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Unable to shutdown cleanly")
	}
	log.Info().Msg("Shutdown completed")
}
