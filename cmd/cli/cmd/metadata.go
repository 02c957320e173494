// Package cmd - action-metadata command
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"commodity-price/adapters/ci"
)

var metadataOutput string

// metadataCmd writes action.yml
var metadataCmd = &cobra.Command{
	Use:   "action-metadata",
	Short: "Write the action metadata file",
	Long: `Write the action.yml that declares the step inputs (commodity, currency)
and its output (price). Writes to stdout unless --output is given.`,
	Args: cobra.NoArgs,
	RunE: runMetadata,
}

func init() {
	metadataCmd.Flags().StringVarP(&metadataOutput, "output", "o", "", "file to write (default stdout)")
}

func runMetadata(cmd *cobra.Command, args []string) error {
	if metadataOutput == "" {
		return ci.WriteMetadata(cmd.OutOrStdout())
	}

	if err := os.MkdirAll(filepath.Dir(metadataOutput), 0755); err != nil {
		return err
	}
	f, err := os.Create(metadataOutput)
	if err != nil {
		return err
	}

	if err := ci.WriteMetadata(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", metadataOutput)
	return nil
}
