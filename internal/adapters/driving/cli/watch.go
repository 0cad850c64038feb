package cli

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/MordecaiM24/recall-sub000/internal/connectors/spool"
)

var watchDir string

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Watch a spool directory and import dropped batch files",
	Long: `Watches a directory for *.json batch files and imports each one as
it appears. Imported files are deleted; malformed or partially failed
files are left in place. Runs until interrupted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&watchDir, "dir", "d", "", "spool directory (default <data-dir>/../spool)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	dir := watchDir
	if len(args) == 1 {
		dir = args[0]
	}
	if dir == "" {
		dir = filepath.Join(filepath.Dir(engineConfig.DataDir), "spool")
	}

	watcher := spool.NewWatcher(dir, ingestService)
	err := watcher.Run(cmd.Context())
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
