package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/MordecaiM24/recall-sub000/internal/connectors/spool"
	"github.com/MordecaiM24/recall-sub000/internal/core/domain"
)

var importCmd = &cobra.Command{
	Use:   "import [file...]",
	Short: "Import item batches from JSON files",
	Long: `Imports one or more JSON batch files into the index. Use "-" to
read a batch from stdin.

Batch format:
  {
    "items": [
      {"id": "...", "type": "note", "title": "...", "content": "...",
       "date": "2026-03-01T10:00:00Z", "metadata": {...}}
    ]
  }`,
	Args: cobra.MinimumNArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	var failed bool
	for _, path := range args {
		items, err := readBatch(cmd, path)
		if err != nil {
			return err
		}

		report, err := ingestService.Import(cmd.Context(), items)
		if err != nil {
			return fmt.Errorf("importing %s: %w", path, err)
		}

		cmd.Printf("%s: imported %d items\n", path, len(report.ItemIDs))
		for _, f := range report.Failures {
			failed = true
			cmd.PrintErrf("  thread %q failed: %v\n", f.ThreadKey, f.Err)
		}
	}

	if failed {
		return errors.New("some threads failed to import")
	}
	return nil
}

func readBatch(cmd *cobra.Command, path string) ([]domain.Item, error) {
	var r io.Reader
	if path == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", path, err)
		}
		defer f.Close()
		r = f
	}

	items, err := spool.DecodeBatch(r)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return items, nil
}
