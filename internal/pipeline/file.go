package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"exercise-vectors/internal/exercise"
)

// FileSink adds a vector field to each record in place and rewrites the whole
// array to path on Flush.
type FileSink struct {
	path    string
	records []exercise.Record
}

// NewFileSink writes records to path. Put matches items to records by Index.
func NewFileSink(path string, records []exercise.Record) *FileSink {
	return &FileSink{path: path, records: records}
}

func (s *FileSink) Put(_ context.Context, item Item) error {
	if item.Index < 0 || item.Index >= len(s.records) {
		return fmt.Errorf("file sink: record index %d out of range [0, %d)", item.Index, len(s.records))
	}
	s.records[item.Index].Set(exercise.KeyVector, item.Vector)
	return nil
}

func (s *FileSink) Flush(context.Context) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	return exercise.WriteFile(s.path, s.records)
}
