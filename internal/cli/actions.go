package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/0xcro3dile/podpanel-go/internal/domain/entities"
)

var uploadCmd = &cobra.Command{
	Use:   "upload [FILE]",
	Short: "Upload a transcript file",
	Example: `  podpanel upload episode-12.txt
  podpanel upload --api http://localhost:8000 notes.md`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			if err := a.panel.ChooseFile(ctx, args[0]); err != nil {
				return err
			}
			res, err := a.panel.UploadTranscript(ctx)
			if err != nil {
				return err
			}
			return resultError(cmd, res.Display(), res.Succeeded())
		})
	},
}

var youtubeCmd = &cobra.Command{
	Use:   "youtube [URL]",
	Short: "Ingest a YouTube video through its subtitles",
	Example: `  podpanel youtube "https://www.youtube.com/watch?v=tAP1eZYEuKA"`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			a.panel.SetURL(args[0])
			res, err := a.panel.UploadYouTube(ctx)
			if err != nil {
				return err
			}
			return resultError(cmd, res.Display(), res.Succeeded())
		})
	},
}

var whisperCmd = &cobra.Command{
	Use:   "whisper [URL]",
	Short: "Ingest a YouTube video by transcribing its audio with Whisper",
	Long: `Downloads the audio and transcribes it with Whisper on the backend.
Slower than "youtube" but works for videos without subtitles.`,
	Example: `  podpanel whisper "https://www.youtube.com/watch?v=tAP1eZYEuKA" --timeout 30m`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			a.panel.SetURL(args[0])
			res, err := a.panel.TranscribeYouTubeWhisper(ctx)
			if err != nil {
				return err
			}
			return resultError(cmd, res.Display(), res.Succeeded())
		})
	},
}

var askCmd = &cobra.Command{
	Use:     "ask [QUESTION...]",
	Short:   "Ask a question about the ingested podcasts",
	Example: `  podpanel ask what is this episode about`,
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			a.panel.SetQuestion(strings.Join(args, " "))
			res, err := a.panel.Ask(ctx)
			if err != nil {
				return err
			}
			return resultError(cmd, a.panel.State().Answer, res.Succeeded())
		})
	},
}

var documentsCmd = &cobra.Command{
	Use:   "documents",
	Short: "List the documents indexed by the backend",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			res, err := a.panel.FetchDocuments(ctx)
			if err != nil {
				return err
			}
			if !res.Succeeded() {
				return resultError(cmd, res.Display(), false)
			}
			printDocuments(cmd, a.panel.State())
			return nil
		})
	},
}

func printDocuments(cmd *cobra.Command, st entities.PanelState) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Total Documents: %d\n", len(st.Documents))
	for _, d := range st.Documents {
		fmt.Fprintf(out, "  - %s\n", d)
	}
}

func init() {
	rootCmd.AddCommand(uploadCmd, youtubeCmd, whisperCmd, askCmd, documentsCmd)
}
