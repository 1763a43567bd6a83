package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"exercise-vectors/internal/app"
	"exercise-vectors/internal/httputil"
	"exercise-vectors/internal/pipeline"
)

// embedRequest is the POST /embed body. A missing or null text embeds "".
type embedRequest struct {
	Text *string `json:"text"`
}

const maxBodyBytes = 1 << 20

func main() {
	deps, err := app.Build()
	if err != nil {
		slog.Default().Error("failed to build dependencies", "err", err)
		os.Exit(1)
	}
	defer deps.Close()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", deps.Config.Port),
		Handler:           newRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		deps.Log.Info("embed service listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		deps.Log.Error("server failed", "err", err)
	}
}

func newRouter(deps app.Deps) http.Handler {
	r := httputil.NewRouter(deps.Log)
	r.Post("/embed", embedHandler(deps))
	r.Get("/healthz", httputil.HealthHandler(deps.Log))
	return r
}

func embedHandler(deps app.Deps) http.HandlerFunc {
	runner := pipeline.NewRunner(deps.Embedder, pipeline.Options{})

	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				httputil.Fail(deps.Log, w, "request body too large", err, http.StatusRequestEntityTooLarge)
				return
			}
			httputil.Fail(deps.Log, w, "failed to read body", err, http.StatusBadRequest)
			return
		}

		var req embedRequest
		if len(bytes.TrimSpace(body)) > 0 {
			if err := json.Unmarshal(body, &req); err != nil {
				httputil.Fail(deps.Log, w, "invalid payload", err, http.StatusBadRequest)
				return
			}
		}
		text := ""
		if req.Text != nil {
			text = *req.Text
		}

		vec, err := runner.EmbedText(r.Context(), text)
		if err != nil {
			httputil.Fail(deps.Log, w, "failed to embed text", err, http.StatusInternalServerError)
			return
		}
		if err := pipeline.NewResponseSink(w).Put(r.Context(), pipeline.Item{Text: text, Vector: vec}); err != nil {
			deps.Log.Error("failed to write response", "err", err)
		}
	}
}
