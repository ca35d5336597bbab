package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/smazurov/nvencd/cmd"
	"github.com/smazurov/nvencd/internal/api"
	"github.com/smazurov/nvencd/internal/config"
	"github.com/smazurov/nvencd/internal/encoder/nvenc"
	"github.com/smazurov/nvencd/internal/events"
	"github.com/smazurov/nvencd/internal/logging"
	"github.com/smazurov/nvencd/internal/metrics"
	"github.com/smazurov/nvencd/internal/session"
	"github.com/smazurov/nvencd/internal/settings"
	"github.com/smazurov/nvencd/internal/updater"
	"github.com/smazurov/nvencd/internal/version"
)

// Options for the CLI - flat structure with toml mapping.
type Options struct {
	Config string `help:"Path to configuration file" short:"c" default:"config.toml"`

	// Server settings
	Port string `help:"Port to listen on" short:"p" default:":8090" toml:"server.port" env:"SERVER_PORT"`

	// Encoder settings
	SettingsFile string `help:"Encoder settings file" default:"settings.toml" toml:"encoder.settings_file" env:"ENCODER_SETTINGS_FILE"`

	// Session settings
	FFmpegPath string `help:"Path to the ffmpeg binary" default:"ffmpeg" toml:"session.ffmpeg_path" env:"SESSION_FFMPEG_PATH"`
	InputArgs  string `help:"FFmpeg input arguments, space separated" default:"-f lavfi -i testsrc2=size=1920x1080:rate=30" toml:"session.input_args" env:"SESSION_INPUT_ARGS"`
	Output     string `help:"Encode output file or URL" default:"output.mp4" toml:"session.output" env:"SESSION_OUTPUT"`

	// Auth settings
	AuthUsername string `help:"Basic auth username" default:"admin" toml:"auth.username" env:"AUTH_USERNAME"`
	AuthPassword string `help:"Basic auth password" default:"password" toml:"auth.password" env:"AUTH_PASSWORD"`

	// Update settings
	UpdateRepository string `help:"GitHub repository for self-update" default:"smazurov/nvencd" toml:"update.repository" env:"UPDATE_REPOSITORY"`
	UpdatePrerelease bool   `help:"Include prereleases in update checks" default:"false" toml:"update.prerelease" env:"UPDATE_PRERELEASE"`

	// Logging settings
	LoggingLevel    string `help:"Global logging level (debug, info, warn, error)" default:"info" toml:"logging.level" env:"LOGGING_LEVEL"`
	LoggingFormat   string `help:"Logging format (text, json)" default:"text" toml:"logging.format" env:"LOGGING_FORMAT"`
	LoggingNVENC    string `help:"Settings translator logging level" default:"info" toml:"logging.nvenc" env:"LOGGING_NVENC"`
	LoggingSession  string `help:"Encode session logging level" default:"info" toml:"logging.session" env:"LOGGING_SESSION"`
	LoggingFFmpeg   string `help:"Encoder process output logging level" default:"info" toml:"logging.ffmpeg" env:"LOGGING_FFMPEG"`
	LoggingAPI      string `help:"API logging level" default:"info" toml:"logging.api" env:"LOGGING_API"`
	LoggingUpdater  string `help:"Updater logging level" default:"info" toml:"logging.updater" env:"LOGGING_UPDATER"`
	LoggingSettings string `help:"Settings watcher logging level" default:"info" toml:"logging.settings" env:"LOGGING_SETTINGS"`
}

func main() {
	cli := humacli.New(func(hooks humacli.Hooks, opts *Options) {
		// Load configuration automatically
		if loadErr := config.LoadConfig(opts, nil); loadErr != nil {
			slog.Warn("Failed to load config", "error", loadErr)
		}

		// Initialize logging system
		loggingConfig := logging.Config{
			Level:  opts.LoggingLevel,
			Format: opts.LoggingFormat,
			Modules: map[string]string{
				"nvenc":    opts.LoggingNVENC,
				"session":  opts.LoggingSession,
				"ffmpeg":   opts.LoggingFFmpeg,
				"api":      opts.LoggingAPI,
				"updater":  opts.LoggingUpdater,
				"settings": opts.LoggingSettings,
			},
		}
		logging.Initialize(loggingConfig)

		logger := logging.GetLogger("main")
		logger.Info("Starting nvencd", "version", version.String())

		// Create event bus for in-process event handling
		eventBus := events.New()

		// Forward log entries to SSE clients
		logging.SetLogCallback(func(entry logging.LogEntry) {
			eventBus.Publish(events.LogEntryEvent{
				Timestamp:  entry.Timestamp.Format(time.RFC3339Nano),
				Level:      entry.Level,
				Module:     entry.Module,
				Message:    entry.Message,
				Attributes: entry.Attributes,
			})
		})

		// Settings store: encoder defaults plus persisted user values
		store := settings.New()
		nvenc.ApplyDefaults(store)
		if err := settings.LoadFile(opts.SettingsFile, store); err != nil {
			logger.Warn("Failed to load settings file, using defaults",
				"error", err, "path", opts.SettingsFile)
		}

		manager := session.NewManager(store, eventBus, session.Config{
			FFmpegPath: opts.FFmpegPath,
			InputArgs:  strings.Fields(opts.InputArgs),
			Output:     opts.Output,
		})

		updateService, err := updater.NewService(&updater.Options{
			Repository: opts.UpdateRepository,
			Prerelease: opts.UpdatePrerelease,
		})
		if err != nil {
			logger.Warn("Failed to create update service", "error", err)
		}

		server := api.NewServer(&api.Options{
			AuthUsername:      opts.AuthUsername,
			AuthPassword:      opts.AuthPassword,
			Store:             store,
			SettingsPath:      opts.SettingsFile,
			Bus:               eventBus,
			Manager:           manager,
			UpdateService:     updateService,
			PrometheusHandler: metrics.HTTPHandler(),
		})

		// Watch the settings file so external edits take effect without a
		// restart. Each reload parses into a fresh store; the server swaps
		// the user layer and notifies clients.
		settingsLoader := func(path string) (*settings.Store, error) {
			fresh := settings.New()
			if loadErr := settings.LoadFile(path, fresh); loadErr != nil {
				return nil, loadErr
			}
			return fresh, nil
		}
		watcher := config.NewConfigWatcher(
			opts.SettingsFile,
			settingsLoader,
			logging.GetLogger("settings"),
			config.WithDebounce[*settings.Store](100*time.Millisecond),
		)
		watcher.OnReload(func(fresh *settings.Store) {
			server.ReloadSettings(opts.SettingsFile, fresh)
		})

		hooks.OnStart(func() {
			if startErr := watcher.Start(); startErr != nil {
				logger.Warn("Failed to start settings watcher, hot-reload disabled", "error", startErr)
			}

			// Background update check; failures are non-fatal.
			if updateService != nil && updateService.IsEnabled() {
				go func() {
					time.Sleep(5 * time.Second)
					ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
					defer cancel()
					info, checkErr := updateService.CheckForUpdate(ctx)
					if checkErr != nil {
						logger.Debug("Update check failed", "error", checkErr)
						return
					}
					if info.UpdateAvailable {
						logger.Info("Update available",
							"current", info.CurrentVersion, "latest", info.LatestVersion)
						eventBus.Publish(events.UpdateAvailableEvent{
							Current:   info.CurrentVersion,
							Latest:    info.LatestVersion,
							URL:       info.ReleaseURL,
							Timestamp: time.Now().UTC().Format(time.RFC3339),
						})
					}
				}()
			}

			logger.Info("Starting HTTP server", "port", opts.Port)
			if startErr := server.Start(opts.Port); startErr != nil && !errors.Is(startErr, http.ErrServerClosed) {
				logger.Error("Failed to start HTTP server", "error", startErr)
				os.Exit(1)
			}
		})

		hooks.OnStop(func() {
			logger.Info("Shutting down server")
			if stopErr := server.Stop(); stopErr != nil {
				logger.Error("Error stopping HTTP server", "error", stopErr)
			}

			// Stop the encoder after the HTTP server stops accepting requests
			if stopErr := manager.Stop(); stopErr != nil && !errors.Is(stopErr, session.ErrNoSession) {
				logger.Error("Error stopping encode session", "error", stopErr)
			}

			if stopErr := watcher.Stop(); stopErr != nil {
				logger.Error("Error stopping settings watcher", "error", stopErr)
			}
		})
	})

	cli.Root().AddCommand(cmd.CreateEncodeCmd())
	cli.Root().AddCommand(cmd.CreateValidateCmd())

	cli.Run()
}
