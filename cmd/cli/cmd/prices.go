// Package cmd - prices command
package cmd

import (
	"github.com/spf13/cobra"

	"commodity-price/core/output"
	"commodity-price/core/pricing"
)

var pricesFormat string

// pricesCmd prints the static table
var pricesCmd = &cobra.Command{
	Use:   "prices",
	Short: "Print the static price table",
	Long: `Print every price the lookup step can resolve.

The table is compiled into the binary. It is a set of manually maintained
constants, not live market data.`,
	Args: cobra.NoArgs,
	RunE: runPrices,
}

func init() {
	pricesCmd.Flags().StringVarP(&pricesFormat, "format", "f", "table", "output format (table, json, markdown)")
}

func runPrices(cmd *cobra.Command, args []string) error {
	formatter, err := output.ForFormat(pricesFormat)
	if err != nil {
		return err
	}
	return formatter.Render(cmd.OutOrStdout(), output.NewReport(pricing.Default()))
}
