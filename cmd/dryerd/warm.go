package main

import (
	"fmt"
	"io"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/dryerd/dryerd/internal/config"
)

var warmCmd = &cobra.Command{
	Use:   "warm",
	Short: "Pre-fetch model artifacts into the local cache",
	Long: `Resolves the configured model artifacts so the first request
does not pay the remote fetch. Each model resolves independently; a
failure on one does not undo the others.`,
	RunE: runWarm,
}

var warmForce bool

func init() {
	rootCmd.AddCommand(warmCmd)

	warmCmd.Flags().BoolVarP(&warmForce, "force", "f", false, "refetch even if already cached")
}

func runWarm(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	resolver, _, err := buildResolver(ctx)
	if err != nil {
		return err
	}

	resolver.Progress = func(identifier string, size int64) io.Writer {
		return progressbar.DefaultBytes(size, identifier)
	}

	cfg := config.Get()
	identifiers := []string{cfg.Models.DryingTime, cfg.Models.Distribution}

	failed := 0
	for _, id := range identifiers {
		if _, err := resolver.Resolve(ctx, id, warmForce); err != nil {
			fmt.Printf("Failed to resolve %s: %v\n", id, err)
			failed++
			continue
		}
		fmt.Printf("Resolved %s\n", id)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d models failed to resolve", failed, len(identifiers))
	}

	fmt.Println("All models cached.")
	return nil
}
