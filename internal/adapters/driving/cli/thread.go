package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var (
	threadItems int
	threadJSON  bool
)

var threadCmd = &cobra.Command{
	Use:   "thread [thread-id]",
	Short: "Print a thread's full content",
	Long:  `Prints every item of a thread in stored order. Use --items to cap the count.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runThread,
}

func init() {
	threadCmd.Flags().IntVarP(&threadItems, "items", "n", 0, "print only the first N items (0 = all)")
	threadCmd.Flags().BoolVar(&threadJSON, "json", false, "output items as JSON")
	rootCmd.AddCommand(threadCmd)
}

func runThread(cmd *cobra.Command, args []string) error {
	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}

	items, err := retrievalService.FullThread(cmd.Context(), args[0], threadItems)
	if err != nil {
		return fmt.Errorf("fetching thread: %w", err)
	}

	if threadJSON {
		data, err := json.MarshalIndent(items, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal items: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(items) == 0 {
		cmd.Println("Thread not found or empty.")
		return nil
	}

	for _, item := range items {
		header := item.Title
		if header == "" {
			header = item.ID
		}
		cmd.Printf("--- %s (%s)\n", header, item.Date.Format(time.RFC3339))
		cmd.Println(item.Content)
		cmd.Println()
	}
	return nil
}
