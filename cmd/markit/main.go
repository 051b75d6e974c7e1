package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	cli "github.com/urfave/cli/v3"

	"github.com/mdivjak/markit"
	"github.com/mdivjak/markit/internal/config"
	"github.com/mdivjak/markit/internal/logging"
)

func main() {
	app := &cli.Command{
		Name:      "markit",
		Usage:     "Detect scene cuts in a video file",
		ArgsUsage: "<video>",
		Flags:     appFlags(),
		Action:    run,
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func appFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to a yaml config file",
		},
		&cli.Float64Flag{
			Name:    "threshold",
			Aliases: []string{"t"},
			Usage:   "Content score threshold for detecting a cut",
			Value:   markit.DefaultThreshold,
		},
		&cli.IntFlag{
			Name:    "min-scene-length",
			Aliases: []string{"m"},
			Usage:   "Minimum scene length in frames",
			Value:   markit.DefaultMinSceneLength,
		},
		&cli.StringFlag{
			Name:  "mode",
			Usage: "Flash filter mode: suppress or merge",
			Value: markit.FilterSuppress.String(),
		},
		&cli.BoolFlag{
			Name:  "luma-only",
			Usage: "Score brightness changes only",
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format: simple, detailed or json",
			Value:   "simple",
		},
		&cli.BoolFlag{
			Name:  "info",
			Usage: "Print video metadata and exit without detection",
		},
		&cli.BoolFlag{
			Name:  "no-progress",
			Usage: "Disable the progress bar",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "Enable debug logging",
		},
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	videoPath := cmd.Args().First()
	if videoPath == "" {
		return cli.Exit("missing video file argument", 2)
	}

	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := applyFlags(cfg, cmd); err != nil {
		return err
	}

	logging.Init(cfg.Output.Verbose)
	log := logging.WithComponent("cli")

	if cmd.Bool("info") {
		info, err := markit.GetVideoInfo(videoPath)
		if err != nil {
			return err
		}
		fmt.Println(info.Description())
		return nil
	}

	detectorCfg, err := cfg.DetectorConfig()
	if err != nil {
		return err
	}

	detector, err := markit.NewContentDetectorWithConfig(detectorCfg)
	if err != nil {
		return err
	}
	defer detector.Close()

	info, err := markit.GetVideoInfo(videoPath)
	if err != nil {
		return err
	}

	log.Info().
		Str("video", videoPath).
		Float64("threshold", detectorCfg.Threshold).
		Uint32("min_scene_length", detectorCfg.MinSceneLength).
		Str("mode", detectorCfg.FilterMode.String()).
		Msg(info.Description())

	observers := []markit.Observer{logging.NewDetectionObserver()}

	var bar *progressbar.ProgressBar
	if !cfg.Output.NoProgress && cfg.Output.Format != "json" {
		bar = progressbar.NewOptions(int(info.FrameCount),
			progressbar.OptionSetDescription("Analyzing"),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionSetWidth(50),
			progressbar.OptionSetRenderBlankState(true),
		)
		observers = append(observers, &progressObserver{bar: bar})
	}
	detector.SetObserver(multiObserver(observers))

	scenes, err := markit.Detect(videoPath, detector)
	if bar != nil {
		bar.Finish()
		fmt.Println()
	}
	if err != nil {
		return err
	}

	log.Info().Int("scenes", len(scenes)).Msg("detection complete")

	switch cfg.Output.Format {
	case "simple":
		printSimple(scenes)
	case "detailed":
		printDetailed(scenes)
	case "json":
		return printJSON(info, scenes)
	default:
		return fmt.Errorf("unknown output format %q, want simple, detailed or json", cfg.Output.Format)
	}
	return nil
}

// applyFlags overrides config file values with any flag set on the
// command line. Values that would be silently corrupted by conversion
// are rejected here rather than corrected.
func applyFlags(cfg *config.Config, cmd *cli.Command) error {
	if cmd.IsSet("threshold") {
		cfg.Detection.Threshold = cmd.Float64("threshold")
	}
	if cmd.IsSet("min-scene-length") {
		length := cmd.Int("min-scene-length")
		if length <= 0 {
			return &markit.ConfigError{
				Message: fmt.Sprintf("minimum scene length must be positive, got %d", length),
			}
		}
		cfg.Detection.MinSceneLength = uint32(length)
	}
	if cmd.IsSet("mode") {
		cfg.Detection.Mode = cmd.String("mode")
	}
	if cmd.IsSet("luma-only") {
		cfg.Detection.LumaOnly = cmd.Bool("luma-only")
	}
	if cmd.IsSet("format") {
		cfg.Output.Format = cmd.String("format")
	}
	if cmd.IsSet("no-progress") {
		cfg.Output.NoProgress = cmd.Bool("no-progress")
	}
	if cmd.IsSet("verbose") {
		cfg.Output.Verbose = cmd.Bool("verbose")
	}
	return nil
}

func printSimple(scenes []markit.SceneCut) {
	for _, scene := range scenes {
		fmt.Println(scene.Start.FrameNumber())
	}
}

func printDetailed(scenes []markit.SceneCut) {
	if len(scenes) == 0 {
		fmt.Println("No scene cuts detected")
		return
	}
	for i, scene := range scenes {
		end := "?"
		duration := "?"
		if scene.End != nil {
			end = fmt.Sprintf("%d (%.2fs)", scene.End.FrameNumber(), scene.End.Seconds())
		}
		if d, ok := scene.DurationSeconds(); ok {
			duration = fmt.Sprintf("%.2fs", d)
		}
		fmt.Printf("Scene %d: frame %d (%.2fs) -> %s, duration %s\n",
			i+1, scene.Start.FrameNumber(), scene.Start.Seconds(), end, duration)
	}
}

func printJSON(info markit.VideoInfo, scenes []markit.SceneCut) error {
	report, err := markit.NewReport(info, scenes)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// progressObserver advances the progress bar once per scored frame.
type progressObserver struct {
	bar *progressbar.ProgressBar
}

func (o *progressObserver) FrameScored(uint32, float64, bool) {
	o.bar.Add(1)
}

func (o *progressObserver) CutConfirmed(markit.Timecode) {}

func (o *progressObserver) FilterReset() {
	o.bar.Set(0)
}

// multiObserver fans detection events out to several observers.
type multiObserver []markit.Observer

func (m multiObserver) FrameScored(frame uint32, score float64, above bool) {
	for _, obs := range m {
		obs.FrameScored(frame, score, above)
	}
}

func (m multiObserver) CutConfirmed(tc markit.Timecode) {
	for _, obs := range m {
		obs.CutConfirmed(tc)
	}
}

func (m multiObserver) FilterReset() {
	for _, obs := range m {
		obs.FilterReset()
	}
}
