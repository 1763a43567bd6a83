package pipeline

import (
	"context"
	"fmt"

	"exercise-vectors/internal/embeddings"
	"exercise-vectors/internal/exercise"
	"exercise-vectors/internal/progress"
)

// Item is one embedded record handed to a sink.
type Item struct {
	Index  int
	Record exercise.Record
	Text   string
	Vector embeddings.Vector
}

// Sink persists the vector of one record at a time. Flush runs once after the
// last record has been put.
type Sink interface {
	Put(ctx context.Context, item Item) error
	Flush(ctx context.Context) error
}

// Options configures a Runner.
type Options struct {
	Template exercise.Template
	// ReportEvery reports progress after every n-th record. The last record is
	// always reported. Values below 1 mean every record.
	ReportEvery int
	Reporter    progress.Reporter
}

// Runner drives Compose -> Embed -> Sink over records.
type Runner struct {
	embedder    embeddings.Embedder
	dimension   int
	template    exercise.Template
	reportEvery int
	reporter    progress.Reporter
}

func NewRunner(e embeddings.Embedder, opts Options) *Runner {
	if opts.ReportEvery < 1 {
		opts.ReportEvery = 1
	}
	if opts.Template == "" {
		opts.Template = exercise.TemplateLabeled
	}
	if opts.Reporter == nil {
		opts.Reporter = progress.Multi()
	}
	return &Runner{
		embedder:    e,
		dimension:   e.Dimension(),
		template:    opts.Template,
		reportEvery: opts.ReportEvery,
		reporter:    opts.Reporter,
	}
}

// EmbedText encodes a single text.
func (r *Runner) EmbedText(ctx context.Context, text string) (embeddings.Vector, error) {
	vec, err := r.embedder.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	if err := embeddings.CheckDimension(vec, r.dimension); err != nil {
		return nil, err
	}
	return vec, nil
}

// Run processes records strictly in order; each record is written to the sink
// before the next one is composed. The first failure aborts the run and no
// later record is attempted. Records already written stay written.
func (r *Runner) Run(ctx context.Context, records []exercise.Record, sink Sink) error {
	total := len(records)
	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			return err
		}
		text := exercise.Compose(r.template, rec)
		vec, err := r.EmbedText(ctx, text)
		if err != nil {
			return fmt.Errorf("embed record %d (%q): %w", i, rec.Title(), err)
		}
		if err := sink.Put(ctx, Item{Index: i, Record: rec, Text: text, Vector: vec}); err != nil {
			return fmt.Errorf("store record %d (%q): %w", i, rec.Title(), err)
		}
		if done := i + 1; done%r.reportEvery == 0 || done == total {
			r.reporter.Report(ctx, progress.Event{Done: done, Total: total, Title: rec.Title()})
		}
	}
	if err := sink.Flush(ctx); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	r.reporter.Report(ctx, progress.Event{Done: total, Total: total, Final: true})
	return nil
}
