package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dryerd/dryerd/internal/config"
	"github.com/dryerd/dryerd/internal/storage"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Inspect and evict cached model artifacts",
}

var modelsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached model artifacts",
	RunE:  runModelsList,
}

var modelsEvictCmd = &cobra.Command{
	Use:   "evict [model-name]",
	Short: "Remove a model artifact from the local cache",
	Args:  cobra.ExactArgs(1),
	RunE:  runModelsEvict,
}

func init() {
	rootCmd.AddCommand(modelsCmd)
	modelsCmd.AddCommand(modelsListCmd)
	modelsCmd.AddCommand(modelsEvictCmd)
}

func runModelsList(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	paths, err := storage.NewPathsAt(cfg.Storage.MountRoot)
	if err != nil {
		return fmt.Errorf("failed to initialize paths: %w", err)
	}

	names, err := paths.CachedModels()
	if err != nil {
		return fmt.Errorf("failed to scan cache: %w", err)
	}

	if len(names) == 0 {
		fmt.Printf("No cached models under %s\n", paths.MountRoot())
		return nil
	}

	fmt.Printf("Cached models under %s:\n", paths.MountRoot())
	for _, name := range names {
		fmt.Printf("  %s\n", name)
	}
	fmt.Printf("%d models, %d bytes total\n", len(names), paths.CacheUsage())

	return nil
}

func runModelsEvict(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	name := args[0]

	resolver, _, err := buildResolver(ctx)
	if err != nil {
		return err
	}

	if err := resolver.Evict(name); err != nil {
		return fmt.Errorf("failed to evict %s: %w", name, err)
	}

	fmt.Printf("Evicted %s\n", name)
	return nil
}
