// Package cmd holds the standalone subcommands: one-shot encoding and
// settings validation without the API server.
package cmd

import (
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"github.com/smazurov/nvencd/internal/config"
	"github.com/smazurov/nvencd/internal/encoder"
	"github.com/smazurov/nvencd/internal/encoder/nvenc"
	"github.com/smazurov/nvencd/internal/logging"
	"github.com/smazurov/nvencd/internal/metrics"
	"github.com/smazurov/nvencd/internal/session"
	"github.com/smazurov/nvencd/internal/settings"
	"github.com/spf13/cobra"
)

// CreateEncodeCmd creates the encode command: a one-shot encode session
// driven by a settings file, without the API server.
func CreateEncodeCmd() *cobra.Command {
	var settingsFile string
	var inputArgs []string
	var output string
	var ffmpegPath string
	var logJSON bool

	cmd := &cobra.Command{
		Use:   "encode [variant]",
		Short: "Run a single encode session",
		Long: `Translates the settings file into an FFmpeg invocation for the given ` +
			`NVENC variant and runs it to completion. The settings file is watched; ` +
			`a bitrate change restarts the encoder with the new rate.`,
		Args: cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			variant := encoder.Variant(args[0])
			if !variant.Valid() {
				fmt.Fprintf(os.Stderr, "unknown encoder variant %q\n", args[0])
				os.Exit(1)
			}

			loggingConfig := logging.Config{
				Level:  "info",
				Format: "text",
			}
			if logJSON {
				loggingConfig.Format = "json"
			}
			logging.Initialize(loggingConfig)
			logger := logging.GetLogger("encode").With("variant", variant.Name())

			buildArgs := func() ([]string, []string, error) {
				store := settings.New()
				nvenc.ApplyDefaults(store)
				if err := settings.LoadFile(settingsFile, store); err != nil {
					return nil, nil, err
				}
				ctx := encoder.NewContext(variant)
				nvenc.Apply(store, ctx)
				nvenc.ApplyOverrides(ctx)

				argv := []string{ffmpegPath, "-hide_banner", "-nostats",
					"-loglevel", "level+info", "-progress", "pipe:1"}
				argv = append(argv, inputArgs...)
				argv = append(argv, ctx.Args()...)
				argv = append(argv, "-y", output)
				return argv, nvenc.Report(ctx), nil
			}

			argv, report, err := buildArgs()
			if err != nil {
				logger.Error("Failed to load settings", "error", err, "settings", settingsFile)
				os.Exit(1)
			}
			for _, line := range report {
				logger.Info(line)
			}

			runner := session.NewRunner(argv, logger)
			runner.SetProgressHandler(func(r io.Reader) {
				_ = metrics.CollectProgress(r, func(p metrics.Progress) {
					metrics.RecordProgress(variant.Name(), p)
				})
			})

			// Settings hot-reload: regenerate the invocation and restart the
			// encoder when it changes. Loading fresh on each event keeps the
			// handler free of stale data.
			loader := func(path string) ([]string, error) {
				newArgv, _, loadErr := buildArgs()
				return newArgv, loadErr
			}
			watcher := config.NewConfigWatcher(
				settingsFile,
				loader,
				logger,
				config.WithDebounce[[]string](100*time.Millisecond),
			)
			watcher.OnReload(func(newArgv []string) {
				if !slices.Equal(newArgv, runner.Args()) {
					logger.Info("Settings changed, requesting restart")
					runner.RequestRestart(newArgv)
				} else {
					logger.Debug("Settings reloaded, invocation unchanged")
				}
			})
			if err := watcher.Start(); err != nil {
				logger.Warn("Failed to start settings watcher, hot-reload disabled", "error", err)
			} else {
				defer func() { _ = watcher.Stop() }()
			}

			exitCode := runner.Run()
			metrics.ClearSession(variant.Name())

			logger.Info("Encode command exiting", "exit_code", exitCode)
			os.Exit(exitCode)
		},
	}

	cmd.Flags().StringVar(&settingsFile, "settings", "settings.toml", "Path to encoder settings file")
	cmd.Flags().StringArrayVar(&inputArgs, "input-arg", nil,
		"FFmpeg input argument in order, repeat the flag for each token")
	cmd.Flags().StringVarP(&output, "output", "o", "output.mp4", "Output file or URL")
	cmd.Flags().StringVar(&ffmpegPath, "ffmpeg", "ffmpeg", "Path to the ffmpeg binary")
	cmd.Flags().BoolVar(&logJSON, "log-json", false, "Use JSON log format")

	return cmd
}
