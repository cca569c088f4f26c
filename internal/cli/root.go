package cli

import (
	"github.com/spf13/cobra"

	"github.com/skanda-dev/subburn/internal/logging"
)

var (
	verbose bool
	logger  *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "subburn",
	Short: "Burn AI-generated subtitles into videos",
	Long: `Subburn transcribes the speech in a video and burns the resulting
subtitles into the picture as timed overlays.

It can also emit plain .srt files instead of, or alongside, the
subtitled video.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = logging.NewLogger(verbose)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Close()
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		StringP("language", "l", "", "Source language code (e.g., en, es, fr)")
}
