package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MordecaiM24/recall-sub000/internal/core/domain"
)

var (
	searchLimit int
	searchTypes []string
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the index by meaning",
	Long: `Embeds the query and returns the closest threads, each with the
items it contains. Filter by item type with --type.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", domain.DefaultSearchLimit, "maximum number of results")
	searchCmd.Flags().StringSliceVarP(&searchTypes, "type", "t", nil, "restrict to item types (document, message, email, note)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}

	types := make([]domain.ItemType, 0, len(searchTypes))
	for _, t := range searchTypes {
		it := domain.ItemType(t)
		if !it.Valid() {
			return fmt.Errorf("unknown item type %q: %w", t, domain.ErrUnsupportedType)
		}
		types = append(types, it)
	}

	opts := domain.SearchOptions{Limit: searchLimit, Types: types}
	results, err := retrievalService.Search(cmd.Context(), args[0], opts)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}
	return outputSearchTable(cmd, results)
}

func outputSearchJSON(cmd *cobra.Command, results []domain.SearchResult) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, results []domain.SearchResult) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range results {
		r := results[i]
		label := r.Thread.Snippet
		if label == "" {
			label = r.Thread.ID
		}

		cmd.Printf("  [%d] %s (%s, %.2f)\n", i+1, label, r.Thread.Type, r.Similarity)
		cmd.Printf("      Thread: %s (%d items)\n", r.Thread.ID, len(r.Items))
		if r.Chunk.Content != "" {
			cmd.Printf("      %s\n", snippetOf(r.Chunk.Content))
		}
		cmd.Println()
	}
	return nil
}

// snippetOf bounds chunk text for one-line display.
func snippetOf(s string) string {
	const max = 160
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
