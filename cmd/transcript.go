package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"video-digest/domain/apperror"
	"video-digest/domain/model"
	"video-digest/infrastructure/configuration"
	"video-digest/infrastructure/utils"
)

var transcriptCmd = &cobra.Command{
	Use:   "transcript [YouTube URL or ID]",
	Short: "Fetch a transcript through the fallback chain without the database",
	Example: `  video-digest transcript dQw4w9WgXcQ
  video-digest transcript "https://youtu.be/dQw4w9WgXcQ" --lang de -o out.txt`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		videoID, err := utils.ParseVideoID(args[0])
		if err != nil {
			return err
		}
		lang, _ := cmd.Flags().GetString("lang")
		output, _ := cmd.Flags().GetString("output")

		ctx := cmd.Context()
		p, err := newPipeline(ctx, configuration.C, nil, nil)
		if err != nil {
			return err
		}

		meta, err := p.resolver.Resolve(ctx, videoID)
		if err != nil {
			return err
		}
		if limit := configuration.C.Quota.MaxVideoMinutes; limit > 0 && meta.DurationSeconds > limit*60 {
			return apperror.New(apperror.KindVideoTooLong, fmt.Sprintf("video is longer than %d minutes", limit))
		}

		transcript, attempts, err := p.coordinator.Fetch(ctx, model.TranscriptRequest{VideoID: videoID, Language: lang})
		for _, a := range attempts {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s %s\n", a.Source, a.Reason, a.Message)
		}
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.ErrOrStderr(), "%s (%s) via %s\n", meta.Title, meta.ChannelName, transcript.Source)
		if output != "" {
			return os.WriteFile(output, []byte(transcript.Text), 0o644)
		}
		fmt.Fprintln(cmd.OutOrStdout(), transcript.Text)
		return nil
	},
}

func init() {
	transcriptCmd.Flags().StringP("lang", "l", "", "preferred caption language")
	transcriptCmd.Flags().StringP("output", "o", "", "write the transcript to a file")
}
