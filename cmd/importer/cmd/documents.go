package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ndewijer/Broker-Document-Importer/internal/model"
	"github.com/ndewijer/Broker-Document-Importer/internal/service"
)

type detectOutput struct {
	Name string `json:"name"`
	model.DetectResult
}

type parseOutput struct {
	Name     string          `json:"name"`
	Activity *model.Activity `json:"activity,omitempty"`
	Error    string          `json:"error,omitempty"`
}

func readDocuments(paths []string) ([]model.Document, error) {
	docs := make([]model.Document, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", p, err)
		}
		docs = append(docs, model.Document{Name: filepath.Base(p), Text: string(data)})
	}
	return docs, nil
}

func newDetectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "detect <file>...",
		Short: "Report broker and document variant of each file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			docs, err := readDocuments(args)
			if err != nil {
				return err
			}

			svc := service.NewImportService(newRegistry(), nil, nil, 1)
			out := make([]detectOutput, 0, len(docs))
			for _, d := range docs {
				result, err := svc.Detect(d.Text)
				if err != nil {
					result.Error = err.Error()
				}
				out = append(out, detectOutput{Name: d.Name, DetectResult: result})
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}
}

func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <file>...",
		Short: "Extract the activity of each file without storing it",
		Long:  "Extract the activity of each file without storing it. Exits non-zero if any file fails.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			docs, err := readDocuments(args)
			if err != nil {
				return err
			}

			svc := service.NewImportService(newRegistry(), nil, nil, 1)
			out := make([]parseOutput, 0, len(docs))
			failed := 0
			for _, d := range docs {
				activity, err := svc.Parse(d.Text)
				if err != nil {
					failed++
					out = append(out, parseOutput{Name: d.Name, Error: err.Error()})
					continue
				}
				out = append(out, parseOutput{Name: d.Name, Activity: &activity})
			}
			if err := writeJSON(cmd.OutOrStdout(), out); err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d documents failed", failed, len(docs))
			}
			return nil
		},
	}
}
