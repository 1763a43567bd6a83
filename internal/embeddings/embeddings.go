package embeddings

import (
	"context"
	"errors"
	"fmt"
)

const (
	// ModelName is the sentence-transformers model every provider has to match.
	ModelName = "all-MiniLM-L6-v2"
	// Dimension is the output length of ModelName.
	Dimension = 384
)

var ErrDimensionMismatch = errors.New("embedding dimension mismatch")

// Vector is a simple float32 slice wrapper.
type Vector []float32

// Float64s widens the vector for stores that only keep doubles.
func (v Vector) Float64s() []float64 {
	out := make([]float64, len(v))
	for i, f := range v {
		out[i] = float64(f)
	}
	return out
}

// Embedder defines the embedding interface.
type Embedder interface {
	Embed(ctx context.Context, text string) (Vector, error)
	Dimension() int
	Model() string
}

// CheckDimension returns ErrDimensionMismatch when v is not exactly want long.
func CheckDimension(v Vector, want int) error {
	if len(v) != want {
		return fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(v), want)
	}
	return nil
}
