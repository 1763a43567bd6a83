package pipeline

import (
	"context"
	"net/http"

	"exercise-vectors/internal/embeddings"
	"exercise-vectors/internal/httputil"
)

// ResponseSink answers the triggering HTTP request with {"vector": [...]}.
type ResponseSink struct {
	w http.ResponseWriter
}

func NewResponseSink(w http.ResponseWriter) *ResponseSink {
	return &ResponseSink{w: w}
}

type vectorResponse struct {
	Vector embeddings.Vector `json:"vector"`
}

func (s *ResponseSink) Put(_ context.Context, item Item) error {
	vec := item.Vector
	if vec == nil {
		vec = embeddings.Vector{}
	}
	httputil.WriteJSON(s.w, http.StatusOK, vectorResponse{Vector: vec})
	return nil
}

func (s *ResponseSink) Flush(context.Context) error { return nil }
