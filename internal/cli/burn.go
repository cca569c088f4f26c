package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/skanda-dev/subburn/internal/audio"
	"github.com/skanda-dev/subburn/internal/config"
	"github.com/skanda-dev/subburn/internal/overlay"
	"github.com/skanda-dev/subburn/internal/raster"
	"github.com/skanda-dev/subburn/internal/subtitle"
	"github.com/skanda-dev/subburn/internal/transcribe"
	"github.com/skanda-dev/subburn/internal/video"
)

var burnCmd = &cobra.Command{
	Use:   "burn [video_file...]",
	Short: "Generate subtitles and burn them into one or more videos",
	Long: `Transcribe each video's speech and burn the resulting subtitles into
the picture as timed overlays. The original audio track is kept as is.

One failing video never stops the rest of a batch; its error is
reported and processing continues.

Examples:
  subburn burn video.mp4
  subburn burn *.mp4 --output-dir subtitled/
  subburn burn talk.mkv --srt-only -o out/
  subburn burn video.mp4 --provider gemini --group-size 3
  subburn burn video.mp4 --from-srt existing.srt`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBurn,
}

func init() {
	rootCmd.AddCommand(burnCmd)

	burnCmd.Flags().
		StringP("output-dir", "o", ".", "Directory to write outputs to")
	burnCmd.Flags().
		Bool("srt-only", false, "Only write the .srt file, skip video compositing")
	burnCmd.Flags().
		Bool("output-srt", false, "Write the .srt file alongside the subtitled video")
	burnCmd.Flags().
		String("from-srt", "", "Burn cues from an existing .srt file instead of transcribing")
	burnCmd.Flags().
		StringP("provider", "p", "openai", "Transcription provider (openai, gemini)")
	burnCmd.Flags().
		StringP("api-key", "k", "", "Provider API key (or set OPENAI_API_KEY / GEMINI_API_KEY)")
	burnCmd.Flags().
		String("model", "", "Transcription model (provider default when empty)")
	burnCmd.Flags().
		Bool("translate", false, "Translate speech to English instead of transcribing")
	burnCmd.Flags().
		Bool("word-timestamps", true, "Request word-level timing for word-grouped cues")
	burnCmd.Flags().
		IntP("group-size", "g", 0, "Words per cue when word timing is available (overrides config)")
	burnCmd.Flags().
		IntP("chunk-duration", "d", 5, "Chunk duration in minutes for splitting audio")
	burnCmd.Flags().
		Int("concurrency", 3, "Number of parallel transcription workers")
	burnCmd.Flags().
		String("config", "", "Path to a TOML config file")
}

// everything one video needs to be processed
type burnOptions struct {
	cfg            *config.Config
	outputDir      string
	srtOnly        bool
	outputSRT      bool
	fromSRT        string
	provider       transcribe.Provider
	apiKey         string
	model          string
	language       string
	translate      bool
	wordTimestamps bool
	chunkDuration  time.Duration
	concurrency    int
}

func runBurn(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	opts, err := collectBurnOptions(cmd)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(opts.outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	// per-video outcomes: a failure is reported, never fatal for the batch
	failed := 0
	for _, videoPath := range args {
		if err := processVideo(ctx, videoPath, opts); err != nil {
			logger.Errorw("Failed to process video",
				"video", videoPath,
				"error", err,
			)
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d videos failed", failed, len(args))
	}

	return nil
}

func collectBurnOptions(cmd *cobra.Command) (*burnOptions, error) {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	groupSize, _ := cmd.Flags().GetInt("group-size")
	if groupSize > 0 {
		cfg.Cues.GroupSize = groupSize
	}

	providerStr, _ := cmd.Flags().GetString("provider")
	var provider transcribe.Provider
	switch strings.ToLower(providerStr) {
	case "openai":
		provider = transcribe.ProviderOpenAI
	case "gemini":
		provider = transcribe.ProviderGemini
	default:
		return nil, fmt.Errorf("unsupported provider %q: use openai or gemini", providerStr)
	}

	apiKey, _ := cmd.Flags().GetString("api-key")
	fromSRT, _ := cmd.Flags().GetString("from-srt")
	if apiKey == "" {
		switch provider {
		case transcribe.ProviderOpenAI:
			apiKey = os.Getenv("OPENAI_API_KEY")
		case transcribe.ProviderGemini:
			apiKey = os.Getenv("GEMINI_API_KEY")
		}
	}
	if apiKey == "" && fromSRT == "" {
		return nil, fmt.Errorf(
			"API key is required: use --api-key or set the provider's environment variable",
		)
	}

	outputDir, _ := cmd.Flags().GetString("output-dir")
	srtOnly, _ := cmd.Flags().GetBool("srt-only")
	outputSRT, _ := cmd.Flags().GetBool("output-srt")
	model, _ := cmd.Flags().GetString("model")
	language, _ := cmd.Flags().GetString("language")
	translate, _ := cmd.Flags().GetBool("translate")
	wordTimestamps, _ := cmd.Flags().GetBool("word-timestamps")
	chunkDuration, _ := cmd.Flags().GetInt("chunk-duration")
	concurrency, _ := cmd.Flags().GetInt("concurrency")

	return &burnOptions{
		cfg:            cfg,
		outputDir:      outputDir,
		srtOnly:        srtOnly,
		outputSRT:      outputSRT,
		fromSRT:        fromSRT,
		provider:       provider,
		apiKey:         apiKey,
		model:          model,
		language:       language,
		translate:      translate,
		wordTimestamps: wordTimestamps,
		chunkDuration:  time.Duration(chunkDuration) * time.Minute,
		concurrency:    concurrency,
	}, nil
}

// runs the full pipeline for one video
func processVideo(ctx context.Context, videoPath string, opts *burnOptions) error {
	if _, err := os.Stat(videoPath); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", videoPath)
	}
	if !audio.IsVideoFile(videoPath) {
		return fmt.Errorf("unsupported file type: %s (expected a video file)", filepath.Ext(videoPath))
	}

	cues, err := buildCues(ctx, videoPath, opts)
	if err != nil {
		return err
	}

	baseName := strings.TrimSuffix(filepath.Base(videoPath), filepath.Ext(videoPath))

	if opts.srtOnly || opts.outputSRT {
		srtPath := filepath.Join(opts.outputDir, baseName+".srt")
		if err := writeSRT(cues, srtPath, opts.cfg); err != nil {
			return err
		}
		fmt.Printf("Subtitles written: %s\n", srtPath)
	}

	if opts.srtOnly {
		return nil
	}

	outputPath, err := outputVideoPath(videoPath, opts.outputDir)
	if err != nil {
		return err
	}

	logger.Infow("Burning subtitles",
		"video", videoPath,
		"cues", len(cues),
		"output", outputPath,
	)

	renderer := raster.NewRenderer()
	renderer.WrapWidth = opts.cfg.Raster.WrapWidth
	renderer.PointSize = opts.cfg.Raster.PointSize
	renderer.StrokeWidth = opts.cfg.Raster.StrokeWidth
	renderer.BottomMargin = opts.cfg.Raster.BottomMargin
	renderer.Font = opts.cfg.Raster.Font

	compositor := overlay.NewCompositor(os.TempDir(), renderer)
	if err := compositor.Composite(ctx, videoPath, cues, outputPath); err != nil {
		return err
	}

	fmt.Printf("Subtitled video written: %s\n", outputPath)
	return nil
}

// obtains the cue sequence, either from an existing SRT file or by
// extracting, chunking, and transcribing the video's audio
func buildCues(ctx context.Context, videoPath string, opts *burnOptions) ([]subtitle.Cue, error) {
	if opts.fromSRT != "" {
		sub, err := subtitle.ParseSRT(opts.fromSRT)
		if err != nil {
			return nil, err
		}
		return sub.Cues, nil
	}

	tempDir, err := os.MkdirTemp("", "subburn-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer os.RemoveAll(tempDir)

	logger.Infow("Extracting audio", "video", videoPath)

	audioPath := filepath.Join(tempDir, "audio.wav")
	if err := video.ExtractAudio(
		ctx,
		videoPath,
		audioPath,
		video.DefaultExtractAudioOptions(),
	); err != nil {
		return nil, fmt.Errorf("failed to extract audio: %w", err)
	}

	chunks, err := audio.ChunkAudio(ctx, audioPath, opts.chunkDuration, filepath.Join(tempDir, "chunks"), 0)
	if err != nil {
		return nil, fmt.Errorf("failed to split audio: %w", err)
	}
	defer func() { _ = audio.CleanupChunks(chunks) }()

	transcriber, err := transcribe.Factory(ctx, opts.provider, opts.apiKey, transcribe.Options{
		Language:       opts.language,
		Model:          opts.model,
		WordTimestamps: opts.wordTimestamps,
		Translate:      opts.translate,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create transcriber: %w", err)
	}

	logger.Infow("Transcribing audio",
		"chunks", len(chunks),
		"concurrency", opts.concurrency,
	)

	result, err := transcribe.TranscribeChunks(ctx, transcriber, chunks, opts.concurrency)
	if err != nil {
		return nil, fmt.Errorf("transcription failed: %w", err)
	}

	builder := subtitle.NewBuilder()
	builder.GroupSize = opts.cfg.Cues.GroupSize

	cues, err := builder.Build(result.Segments)
	if err != nil {
		return nil, err
	}

	logger.Infow("Built cues",
		"segments", len(result.Segments),
		"cues", len(cues),
	)

	return cues, nil
}

func writeSRT(cues []subtitle.Cue, path string, cfg *config.Config) error {
	writer := &subtitle.SRTWriter{}
	if cfg.SRT.Styled {
		writer.Style = &subtitle.InlineStyle{
			FontSize: cfg.SRT.FontSize,
			Color:    cfg.SRT.FontColor,
		}
	}
	return writer.Write(&subtitle.Subtitle{
		Cues:   cues,
		Format: string(subtitle.FormatSRT),
	}, path)
}

// derives the output video path, refusing to overwrite the input
func outputVideoPath(videoPath, outputDir string) (string, error) {
	outputPath := filepath.Join(outputDir, filepath.Base(videoPath))

	absIn, err := filepath.Abs(videoPath)
	if err != nil {
		return "", err
	}
	absOut, err := filepath.Abs(outputPath)
	if err != nil {
		return "", err
	}

	if absIn == absOut {
		ext := filepath.Ext(outputPath)
		outputPath = strings.TrimSuffix(outputPath, ext) + "_subtitled" + ext
	}

	return outputPath, nil
}
