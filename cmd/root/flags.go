package root

import (
	"cmp"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/AdmiralSnyder/AutoThemeSwitcher/pkg/config"
	"github.com/AdmiralSnyder/AutoThemeSwitcher/pkg/logging"
	"github.com/AdmiralSnyder/AutoThemeSwitcher/pkg/paths"
	"github.com/AdmiralSnyder/AutoThemeSwitcher/pkg/settings"
)

type rootFlags struct {
	debugMode   bool
	logFilePath string
	storePath   string
	useMemory   bool
	logFile     io.Closer
}

// setupLogging configures slog logging behavior.
// When --debug is enabled, logs are written to a rotating file
// <dataDir>/autothemeswitcher.debug.log, or to the file specified by
// --log-file.
func (f *rootFlags) setupLogging() error {
	if !f.debugMode {
		if cfg, err := config.Load(); err == nil && cfg.Debug {
			f.debugMode = true
		}
	}

	if !f.debugMode {
		slog.SetDefault(slog.New(slog.DiscardHandler))
		return nil
	}

	path := cmp.Or(strings.TrimSpace(f.logFilePath), filepath.Join(paths.GetDataDir(), "autothemeswitcher.debug.log"))

	logFile, err := logging.NewRotatingFile(path)
	if err != nil {
		return err
	}
	f.logFile = logFile

	slog.SetDefault(slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: slog.LevelDebug})))

	return nil
}

// openStore opens the settings store selected by flags and config:
// --memory wins, then --store, then the config file, then the default
// database under the data directory.
func (f *rootFlags) openStore() (settings.Store, error) {
	if f.useMemory {
		return settings.NewMemoryStore(), nil
	}

	path := strings.TrimSpace(f.storePath)
	if path == "" {
		if cfg, err := config.Load(); err == nil {
			path = cfg.StorePath
		} else {
			slog.Warn("Failed to load user config", "error", err)
		}
	}
	if path == "" {
		path = config.DefaultStorePath()
	}

	return settings.OpenSQLite(path)
}
