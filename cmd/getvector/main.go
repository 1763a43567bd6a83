package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"exercise-vectors/internal/app"
	"exercise-vectors/internal/embeddings"
	"exercise-vectors/internal/pipeline"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "getvector <text>",
		Short:        "Print the embedding of text as a JSON array",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := app.BuildCLI()
			if err != nil {
				return err
			}
			defer deps.Close()
			return printVector(cmd.Context(), cmd.OutOrStdout(), deps.Embedder, args[0])
		},
	}
}

func printVector(ctx context.Context, out io.Writer, e embeddings.Embedder, text string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	vec, err := pipeline.NewRunner(e, pipeline.Options{}).EmbedText(ctx, text)
	if err != nil {
		return fmt.Errorf("embed: %w", err)
	}
	return json.NewEncoder(out).Encode(vec)
}
