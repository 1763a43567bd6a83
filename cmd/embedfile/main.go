package main

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"exercise-vectors/internal/app"
	"exercise-vectors/internal/exercise"
	"exercise-vectors/internal/pipeline"
)

const (
	defaultInput  = "../data/Exe.json"
	defaultOutput = "../data/exercises_with_vectors.json"
	reportEvery   = 5
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var input, output string
	cmd := &cobra.Command{
		Use:          "embedfile",
		Short:        "Add a vector field to every exercise in a JSON file",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			deps, err := app.BuildFileJob()
			if err != nil {
				return err
			}
			defer deps.Close()
			if err := runEmbedFile(cmd.Context(), deps, input, output); err != nil {
				deps.Log.Error("embedding run failed", "err", err)
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&input, "input", defaultInput, "JSON array of exercises to read")
	cmd.Flags().StringVar(&output, "output", defaultOutput, "file to write the augmented array to")
	return cmd
}

func runEmbedFile(ctx context.Context, deps app.JobDeps, input, output string) error {
	records, err := exercise.LoadFile(input)
	if err != nil {
		if errors.Is(err, exercise.ErrInputNotFound) {
			deps.Log.Error("input not found, check the file path", "input", input)
		}
		return err
	}
	deps.Log.Info("loaded exercises", "count", len(records), "input", input)

	runner := pipeline.NewRunner(deps.Embedder, pipeline.Options{
		Template:    exercise.TemplateSentence,
		ReportEvery: reportEvery,
		Reporter:    deps.Reporter,
	})
	if err := runner.Run(ctx, records, pipeline.NewFileSink(output, records)); err != nil {
		return err
	}
	deps.Log.Info("file saved", "output", output)
	return nil
}
