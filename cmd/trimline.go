package main

import (
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"

	"github.com/ingyamilmolinar/trimline/core/engine"
	"github.com/ingyamilmolinar/trimline/core/mediatime"
	"github.com/ingyamilmolinar/trimline/internal/config"
	"github.com/ingyamilmolinar/trimline/internal/haptics"
	game_log "github.com/ingyamilmolinar/trimline/internal/log"
	"github.com/ingyamilmolinar/trimline/internal/media"
	"github.com/ingyamilmolinar/trimline/internal/ui"
)

func main() {
	var (
		playlistPath string
		configPath   string
		cacheDir     string
		logLevel     string
		durationSec  float64
	)

	root := &cobra.Command{
		Use:   "trimline",
		Short: "Interactive trim timeline for a media asset",
		Long: `trimline opens a desktop window with a thumbnail timeline for a media
asset. Drag the edge handles to trim, pause mid-drag to zoom in for
sub-pixel precision, drag or tap the track to scrub, space to play,
C to copy the selected range as timecodes.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			logger := game_log.New(os.Stderr, game_log.LevelFromString(cfg.LogLevel))

			asset := media.AssetInfo{
				ID:       "synthetic",
				Duration: mediatime.FromSeconds(durationSec),
				Aspect:   16.0 / 9.0,
			}
			if playlistPath != "" {
				asset, err = media.ProbePlaylist(playlistPath)
				if err != nil {
					return err
				}
				logger.Infof("[MAIN] probed %s: duration %s", playlistPath, asset.Duration)
			}
			if asset.Duration.Cmp(mediatime.Zero) <= 0 {
				return fmt.Errorf("asset duration must be positive, got %s", asset.Duration)
			}

			var cache *media.ThumbCache
			if cacheDir != "" {
				cache, err = media.OpenThumbCache(cacheDir, logger)
				if err != nil {
					logger.Warnf("[MAIN] thumbnail cache disabled: %v", err)
				} else {
					defer cache.Close()
				}
			}
			gen := media.NewSyntheticGenerator(asset, cache, logger)

			eng := engine.New(engine.Config{
				EdgeInset:   cfg.EdgeInsetPx,
				PixelScale:  cfg.PixelScale,
				AspectRatio: asset.DisplayAspect(),
				Dwell:       cfg.ZoomDwell(),
			}, gen, haptics.NewLogSink(logger), logger)
			eng.AttachAsset(asset.Duration)
			eng.SetMinimumDuration(mediatime.FromSeconds(cfg.MinimumDurationSec))

			view := ui.NewTrimView(eng, cfg.HandleWidthPx, cfg.EdgeInsetPx, logger)

			if configPath != "" {
				reloads := make(chan *config.Config, 1)
				stop, err := config.Watch(configPath, logger, func(c *config.Config) {
					select {
					case reloads <- c:
					default:
					}
				})
				if err != nil {
					logger.Warnf("[MAIN] config watch disabled: %v", err)
				} else {
					defer stop()
					// Apply reloads on the game goroutine; the engine is
					// not safe to poke from the watcher's.
					view.PreUpdate = func() {
						select {
						case c := <-reloads:
							// Minimum duration is the only knob safe to
							// retune mid-session.
							eng.SetMinimumDuration(mediatime.FromSeconds(c.MinimumDurationSec))
						default:
						}
					}
				}
			}
			ebiten.SetWindowSize(960, 320)
			ebiten.SetWindowTitle("trimline")
			return ebiten.RunGame(view)
		},
	}

	root.Flags().StringVar(&playlistPath, "playlist", "", "HLS media playlist to probe for asset duration")
	root.Flags().StringVar(&configPath, "config", "", "YAML config file (watched for changes)")
	root.Flags().StringVar(&cacheDir, "cache-dir", "", "directory for the on-disk thumbnail cache")
	root.Flags().StringVar(&logLevel, "log-level", "", "DEBUG, INFO, ERROR or NONE")
	root.Flags().Float64Var(&durationSec, "duration", 30, "synthetic asset duration when no playlist is given")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
