package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"exercise-vectors/internal/app"
	"exercise-vectors/internal/exercise"
	"exercise-vectors/internal/pipeline"
	"exercise-vectors/internal/store"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var credentials, input, collection string
	cmd := &cobra.Command{
		Use:          "embedfirestore",
		Short:        "Embed every exercise and append it to a document collection",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			records, err := loadExercises(slog.Default(), input)
			if err != nil {
				return err
			}
			deps, err := app.BuildStoreJob(ctx, credentials)
			if err != nil {
				return err
			}
			defer deps.Close()
			if err := runEmbedStore(ctx, deps, records, collection); err != nil {
				deps.Log.Error("embedding run failed", "err", err)
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&credentials, "credentials", "serviceAccountKey.json", "service account credentials file")
	cmd.Flags().StringVar(&input, "input", "exercises.json", "JSON array of exercises to read")
	cmd.Flags().StringVar(&collection, "collection", store.DefaultCollection, "collection to append documents to")
	return cmd
}

// loadExercises reads the input before anything touches the model or the
// store, so a bad path fails first.
func loadExercises(log *slog.Logger, input string) ([]exercise.Record, error) {
	records, err := exercise.LoadFile(input)
	if err != nil {
		if errors.Is(err, exercise.ErrInputNotFound) {
			log.Error("input not found, check the file path", "input", input)
		}
		return nil, err
	}
	log.Info("loaded exercises", "count", len(records), "input", input)
	return records, nil
}

// runEmbedStore appends one document per exercise. Documents are never
// updated in place: running it twice stores every exercise twice.
func runEmbedStore(ctx context.Context, deps app.JobDeps, records []exercise.Record, collection string) error {
	runner := pipeline.NewRunner(deps.Embedder, pipeline.Options{
		Template:    exercise.TemplateLabeled,
		ReportEvery: 1,
		Reporter:    deps.Reporter,
	})
	return runner.Run(ctx, records, pipeline.NewStoreSink(deps.Store, collection, deps.Log))
}
