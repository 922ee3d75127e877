package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dryerd/dryerd/internal/api/client"
)

var predictCmd = &cobra.Command{
	Use:   "predict [vector]",
	Short: "Run a prediction against a running server",
	Long: `Sends a feature vector to a running dryerd server and prints the
prediction. The vector uses the same textual form as the public
endpoint, e.g. "[12.5,71.0,64.2,0.45,48,1.5]".`,
	Args: cobra.ExactArgs(1),
	RunE: runPredict,
}

var serverURL string

func init() {
	rootCmd.AddCommand(predictCmd)

	predictCmd.Flags().StringVar(&serverURL, "server", "http://localhost:8080", "server base URL")
	predictCmd.Flags().Bool("json", false, "print the structured result instead of the text body")

	viper.BindPFlag("json", predictCmd.Flags().Lookup("json"))
}

func runPredict(cmd *cobra.Command, args []string) error {
	apiClient := client.NewClient(serverURL)

	if err := apiClient.Health(); err != nil {
		return fmt.Errorf("server not reachable at %s: %w", serverURL, err)
	}

	asJSON, _ := cmd.Flags().GetBool("json")
	if asJSON {
		result, err := apiClient.Predict(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("remaining_time_hrs: %g\n", result.RemainingTime)
		for _, nv := range result.Distribution {
			fmt.Printf("%s: %g\n", nv.Name, nv.Value)
		}
		return nil
	}

	body, err := apiClient.PredictText(args[0])
	if err != nil {
		return err
	}
	fmt.Print(body)

	return nil
}
