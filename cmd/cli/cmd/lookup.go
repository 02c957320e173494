// Package cmd - lookup command
package cmd

import (
	"encoding/json"

	"github.com/sethvargo/go-githubactions"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"commodity-price/adapters/ci"
	"commodity-price/core/pricing"
	"commodity-price/core/step"
	"commodity-price/internal/logging"
)

var lookupJSON bool

// lookupCmd is the action entrypoint
var lookupCmd = &cobra.Command{
	Use:   "lookup",
	Short: "Resolve a price and publish it as the action output",
	Long: `Resolve the price per ounce for the configured commodity and currency.

Inputs come from INPUT_COMMODITY / INPUT_CURRENCY (set by the Actions runner
from the action inputs) unless overridden with flags. The price is written to
the "price" output. Invalid inputs fail the step with an error annotation.`,
	Args: cobra.NoArgs,
	RunE: runLookup,
}

func init() {
	lookupCmd.Flags().String("commodity", "", "commodity to price (gold, silver)")
	lookupCmd.Flags().String("currency", "", "currency of the price (USD, EUR)")
	lookupCmd.Flags().BoolVar(&lookupJSON, "json", false, "print the result as JSON")
}

func runLookup(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(map[string]*pflag.Flag{
		"inputs.commodity": cmd.Flags().Lookup("commodity"),
		"inputs.currency":  cmd.Flags().Lookup("currency"),
	})
	if err != nil {
		return err
	}
	defer logging.Sync()

	logger := logging.With("lookup")
	s := step.New(pricing.Default(), logger, step.WithInvocationID(cfg.InvocationID()))
	action := githubactions.New(githubactions.WithWriter(cmd.OutOrStdout()))

	result := ci.NewAdapter(cfg, s, action, logger).Run(cmd.Context())

	if lookupJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return err
		}
	}

	if !result.Success {
		return errStepFailed
	}
	return nil
}
