// Package cli implements the recall command line interface.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/MordecaiM24/recall-sub000/internal/core/domain"
	"github.com/MordecaiM24/recall-sub000/internal/core/ports/driving"
	"github.com/MordecaiM24/recall-sub000/internal/logger"
)

// Injected services. Set via Execute before any command runs.
var (
	version          = "dev"
	ingestService    driving.Ingestor
	retrievalService driving.Retriever
	engineConfig     domain.Config
)

var verboseFlag bool

var rootCmd = &cobra.Command{
	Use:   "recall",
	Short: "Local semantic search over your documents, messages, emails and notes",
	Long: `recall indexes your local content into a private vector store and
answers natural language queries over it. Nothing leaves your machine
unless you configure a hosted embedding provider.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging")
}

// Services aggregates everything the commands need. Fields left nil
// disable the commands that require them.
type Services struct {
	// Ingestor runs imports.
	Ingestor driving.Ingestor

	// Retriever answers queries.
	Retriever driving.Retriever

	// Config is the loaded engine configuration.
	Config domain.Config
}

// ExecuteContext wires the services into the command tree and runs it.
// The context flows to every command, so cancellation stops long
// running commands like watch and mcp serve.
func ExecuteContext(ctx context.Context, s Services, v string) error {
	ingestService = s.Ingestor
	retrievalService = s.Retriever
	engineConfig = s.Config
	if v != "" {
		version = v
	}
	return rootCmd.ExecuteContext(ctx)
}
