// Package cmd implements the offline command line interface of the importer.
package cmd

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"

	"github.com/ndewijer/Broker-Document-Importer/internal/parser"
	"github.com/ndewijer/Broker-Document-Importer/internal/parser/traderepublic"
)

// NewRootCmd builds the importer command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "importer",
		Short: "Classify and extract broker documents",
		Long: `Importer reads the extracted text of broker documents (contract notes,
savings-plan executions, dividend statements) and turns them into
normalized activities.

detect and parse work on files only. import stores the activities in the
database configured by DB_PATH.`,
		SilenceUsage: true,
	}

	root.AddCommand(
		newDetectCmd(),
		newParseCmd(),
		newImportCmd(),
		newKeygenCmd(),
	)

	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

func newRegistry() *parser.Registry {
	return parser.NewRegistry(traderepublic.New())
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
