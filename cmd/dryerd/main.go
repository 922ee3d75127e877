package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dryerd/dryerd/internal/config"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "dryerd",
		Short: "Drying prediction service",
		Long: `dryerd serves drying-process predictions from pre-trained models.
Model artifacts are cached on a local mount and fetched from the
remote artifact store on a miss.

Key Commands:
  serve    - Run the HTTP inference endpoint (or the Lambda handler)
  warm     - Pre-fetch model artifacts into the local cache
  models   - Inspect and evict cached artifacts
  predict  - Run a prediction against a running server`,
	}
)

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/dryerd/config.yaml)")
	rootCmd.PersistentFlags().Bool("verbose", false, "enable verbose output")
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

func initConfig() {
	if err := config.Initialize(); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing config: %v\n", err)
		os.Exit(1)
	}

	// If user specified a config file, load it
	if cfgFile != "" {
		v := config.GetViper()
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			fmt.Fprintf(os.Stderr, "Error reading config file: %v\n", err)
			os.Exit(1)
		}
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
