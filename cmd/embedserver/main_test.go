package main

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/mock"

	"exercise-vectors/internal/app"
	"exercise-vectors/internal/config"
	"exercise-vectors/internal/embeddings"
)

func newTestDeps(e embeddings.Embedder) app.Deps {
	return app.Deps{
		Embedder: e,
		Config:   config.Config{Port: 5001},
		Log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func newMockEmbedder() *embeddings.MockEmbedder {
	e := new(embeddings.MockEmbedder)
	e.On("Dimension").Return(embeddings.Dimension)
	return e
}

func TestEmbedHandler(t *testing.T) {
	full := make(embeddings.Vector, embeddings.Dimension)
	for i := range full {
		full[i] = 0.01
	}

	tests := []struct {
		name       string
		body       string
		setup      func(*embeddings.MockEmbedder)
		wantStatus int
		wantLen    int
	}{
		{
			name: "empty text",
			body: `{"text": ""}`,
			setup: func(e *embeddings.MockEmbedder) {
				e.On("Embed", mock.Anything, "").Return(full, nil).Once()
			},
			wantStatus: http.StatusOK,
			wantLen:    embeddings.Dimension,
		},
		{
			name: "text is embedded",
			body: `{"text": "Push-up"}`,
			setup: func(e *embeddings.MockEmbedder) {
				e.On("Embed", mock.Anything, "Push-up").Return(full, nil).Once()
			},
			wantStatus: http.StatusOK,
			wantLen:    embeddings.Dimension,
		},
		{
			name: "missing text defaults to empty string",
			body: `{}`,
			setup: func(e *embeddings.MockEmbedder) {
				e.On("Embed", mock.Anything, "").Return(full, nil).Once()
			},
			wantStatus: http.StatusOK,
			wantLen:    embeddings.Dimension,
		},
		{
			name: "null text defaults to empty string",
			body: `{"text": null}`,
			setup: func(e *embeddings.MockEmbedder) {
				e.On("Embed", mock.Anything, "").Return(full, nil).Once()
			},
			wantStatus: http.StatusOK,
			wantLen:    embeddings.Dimension,
		},
		{
			name: "empty body defaults to empty string",
			body: ``,
			setup: func(e *embeddings.MockEmbedder) {
				e.On("Embed", mock.Anything, "").Return(full, nil).Once()
			},
			wantStatus: http.StatusOK,
			wantLen:    embeddings.Dimension,
		},
		{
			name:       "malformed json",
			body:       `{"text":`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "non-string text",
			body:       `{"text": 5}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "model failure",
			body: `{"text": "x"}`,
			setup: func(e *embeddings.MockEmbedder) {
				e.On("Embed", mock.Anything, "x").Return(nil, errors.New("model error")).Once()
			},
			wantStatus: http.StatusInternalServerError,
		},
		{
			name: "wrong dimension",
			body: `{"text": "x"}`,
			setup: func(e *embeddings.MockEmbedder) {
				e.On("Embed", mock.Anything, "x").Return(embeddings.Vector{1}, nil).Once()
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newMockEmbedder()
			if tt.setup != nil {
				tt.setup(e)
			}
			handler := newRouter(newTestDeps(e))

			req := httptest.NewRequest(http.MethodPost, "/embed", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("Expected status %d, got %d. Body: %s", tt.wantStatus, w.Code, w.Body.String())
			}
			if tt.wantStatus == http.StatusOK {
				var result struct {
					Vector []float64 `json:"vector"`
				}
				if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
					t.Fatalf("Failed to decode response: %v", err)
				}
				if len(result.Vector) != tt.wantLen {
					t.Errorf("Expected %d floats, got %d", tt.wantLen, len(result.Vector))
				}
			}
			e.AssertExpectations(t)
		})
	}
}

func TestEmbedHandlerBodyTooLarge(t *testing.T) {
	e := newMockEmbedder()
	handler := newRouter(newTestDeps(e))

	body := `{"text": "` + strings.Repeat("a", maxBodyBytes) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/embed", strings.NewReader(body))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("Expected status 413, got %d", w.Code)
	}
	e.AssertNotCalled(t, "Embed", mock.Anything, mock.Anything)
}

func TestRoutes(t *testing.T) {
	handler := newRouter(newTestDeps(newMockEmbedder()))

	t.Run("healthz", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		if w.Code != http.StatusOK || w.Body.String() != "ok" {
			t.Errorf("Expected 200 ok, got %d %q", w.Code, w.Body.String())
		}
	})

	t.Run("embed rejects GET", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/embed", nil))
		if w.Code != http.StatusMethodNotAllowed {
			t.Errorf("Expected 405, got %d", w.Code)
		}
	})
}
