package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"video-digest/infrastructure/configuration"
	"video-digest/infrastructure/logger"
)

var rootCmd = &cobra.Command{
	Use:   "video-digest",
	Short: "Transcribe and summarize YouTube videos",
	Long: `video-digest serves the transcript and summary API.

Transcripts come from the official caption API, the public watch page or,
as a last resort, speech-to-text over the downloaded audio. Optional keys
that are missing switch the matching tier off instead of failing startup.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		loaded := configuration.LoadEnvFromFile("config.env", ".env")
		if len(loaded) > 0 {
			configuration.Reload()
			logger.GetLogger().WithField("files", loaded).Info("Loaded environment files")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, transcriptCmd)
}

// Execute runs the CLI with a context cancelled on SIGINT or SIGTERM.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}
