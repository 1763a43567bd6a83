package embeddings

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/pipelines"
)

// HugotEmbedder runs the ONNX export of all-MiniLM-L6-v2 in-process.
//
// The model directory must contain tokenizer.json next to the ONNX graph, either
// directly or in one subdirectory (the layout produced by the sentence-transformers
// ONNX export). The session is created on first use and reused for the lifetime of
// the handle. Inference is serialised because the runtime is not reentrant.
type HugotEmbedder struct {
	modelDir string

	mu       sync.Mutex
	session  *hugot.Session
	pipeline *pipelines.FeatureExtractionPipeline
}

// NewHugotEmbedder creates an embedder that loads its model from modelDir.
func NewHugotEmbedder(modelDir string) *HugotEmbedder {
	return &HugotEmbedder{modelDir: modelDir}
}

// Available reports whether a usable model exists on disk.
func (h *HugotEmbedder) Available() bool {
	_, err := h.modelPath()
	return err == nil
}

// initialize must be called with h.mu held.
func (h *HugotEmbedder) initialize() error {
	if h.pipeline != nil {
		return nil
	}

	modelPath, err := h.modelPath()
	if err != nil {
		return err
	}

	session, err := hugot.NewGoSession()
	if err != nil {
		return fmt.Errorf("create hugot session: %w", err)
	}

	config := hugot.FeatureExtractionConfig{
		ModelPath: modelPath,
		Name:      ModelName,
		Options: []hugot.FeatureExtractionOption{
			pipelines.WithNormalization(),
		},
	}
	pipeline, err := hugot.NewPipeline(session, config)
	if err != nil {
		_ = session.Destroy()
		return fmt.Errorf("create feature extraction pipeline: %w", err)
	}

	h.session = session
	h.pipeline = pipeline
	return nil
}

// modelPath returns modelDir itself when it holds tokenizer.json, otherwise the
// first subdirectory that does.
func (h *HugotEmbedder) modelPath() (string, error) {
	if _, err := os.Stat(filepath.Join(h.modelDir, "tokenizer.json")); err == nil {
		return h.modelDir, nil
	}
	entries, err := os.ReadDir(h.modelDir)
	if err != nil {
		return "", fmt.Errorf("read model directory %s: %w", h.modelDir, err)
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		candidate := filepath.Join(h.modelDir, entry.Name())
		if _, statErr := os.Stat(filepath.Join(candidate, "tokenizer.json")); statErr == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no model with tokenizer.json found in %s", h.modelDir)
}

// Embed encodes text into a single normalised vector.
func (h *HugotEmbedder) Embed(ctx context.Context, text string) (Vector, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.initialize(); err != nil {
		return nil, fmt.Errorf("initialize hugot: %w", err)
	}

	result, err := h.pipeline.RunPipeline([]string{text})
	if err != nil {
		return nil, fmt.Errorf("run embedding pipeline: %w", err)
	}
	if len(result.Embeddings) != 1 {
		return nil, fmt.Errorf("run embedding pipeline: got %d embeddings for one input", len(result.Embeddings))
	}
	return Vector(result.Embeddings[0]), nil
}

func (h *HugotEmbedder) Dimension() int { return Dimension }

func (h *HugotEmbedder) Model() string { return ModelName }

// Close releases the session. The embedder reinitialises on the next Embed.
func (h *HugotEmbedder) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.session == nil {
		return nil
	}
	err := h.session.Destroy()
	h.session = nil
	h.pipeline = nil
	return err
}

var _ Embedder = (*HugotEmbedder)(nil)
