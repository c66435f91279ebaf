package cmd

import (
	"errors"
	"log/slog"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"
	"narrow.dev/pkg/narrow/internal/adapter"
	"narrow.dev/pkg/narrow/internal/domain"
)

const (
	configVersionKey     = "version"
	currentConfigVersion = 1

	configBaseName   = "narrow"
	configFileName   = configBaseName + ".yaml"
	configFolderPath = "."

	noCacheFlagName  = "no-cache"
	excludeFlagName  = "exclude"
	parallelFlagName = "parallel"
	verboseFlagName  = "verbose"
	logFlagName      = "log"
	dryRunFlagName   = "dry-run"
	backupFlagName   = "backup"
	defaultFlagName  = "default"

	defaultTypeKey      = "analysis.default_type"
	maxFileSizeKey      = "analysis.max_file_size"
	extensionsKey       = "analysis.extensions"
	rulesFileKey        = "rules.file"
	batchConcurrencyKey = "batch.concurrency"
	progressIntervalKey = "batch.progress_interval_ms"
	cacheEnabledKey     = "cache.enabled"
	cacheBackendKey     = "cache.backend"
	cacheDirKey         = "cache.dir"
	cacheTTLKey         = "cache.ttl_seconds"
	fixBackupKey        = "fix.backup"
	excludeConfigKey    = "paths.exclude"

	defaultDefaultType      = "unknown"
	defaultCacheEnabled     = true
	defaultCacheBackend     = adapter.CacheBackendDir
	defaultCacheDir         = ".narrow-cache"
	defaultProgressInterval = 100
	defaultFixBackup        = false

	envPrefix = "NARROW"

	logFilenameKey   = "log.filename"
	logLevelKey      = "log.level"
	logVerboseKey    = "log.verbose"
	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"

	defaultLogFilename   = ".narrow.log"
	defaultLogLevel      = int(slog.LevelInfo)
	defaultLogVerbose    = false
	defaultLogMaxSize    = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28
	defaultLogCompress   = true
)

var globalLogger *slog.Logger

func init() {
	viper.SetConfigName(configBaseName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configFolderPath)
	viper.SetConfigFile(filepath.Join(configFolderPath, configFileName))
	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	setConfigDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return
		}

		return
	}
}

func setConfigDefaults() {
	viper.SetDefault(configVersionKey, currentConfigVersion)
	viper.SetDefault(defaultTypeKey, defaultDefaultType)
	viper.SetDefault(maxFileSizeKey, adapter.DefaultMaxFileSize)
	viper.SetDefault(extensionsKey, adapter.DefaultExtensions)
	viper.SetDefault(rulesFileKey, "")
	viper.SetDefault(batchConcurrencyKey, runtime.NumCPU())
	viper.SetDefault(progressIntervalKey, defaultProgressInterval)
	viper.SetDefault(cacheEnabledKey, defaultCacheEnabled)
	viper.SetDefault(cacheBackendKey, defaultCacheBackend)
	viper.SetDefault(cacheDirKey, defaultCacheDir)
	viper.SetDefault(cacheTTLKey, int64(domain.DefaultCacheTTL.Seconds()))
	viper.SetDefault(fixBackupKey, defaultFixBackup)
	viper.SetDefault(noCacheFlagName, false)
	viper.SetDefault(excludeConfigKey, []string{})

	// Logging defaults (used by config/env and as fallbacks for flags).
	viper.SetDefault(logFilenameKey, defaultLogFilename)
	viper.SetDefault(logLevelKey, defaultLogLevel)
	viper.SetDefault(logVerboseKey, defaultLogVerbose)
	viper.SetDefault(logMaxSizeKey, defaultLogMaxSize)
	viper.SetDefault(logMaxBackupsKey, defaultLogMaxBackups)
	viper.SetDefault(logMaxAgeKey, defaultLogMaxAge)
	viper.SetDefault(logCompressKey, defaultLogCompress)
}

func parseSlogLevel(value string, defaultLevel slog.Level) slog.Level {
	level := strings.ToLower(strings.TrimSpace(value))
	if level == "" {
		return defaultLevel
	}

	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}

	// Allow numeric slog levels as well (e.g. -4 for debug).
	if n, err := strconv.Atoi(level); err == nil {
		return slog.Level(n)
	}

	return defaultLevel
}

// configureLogger configures the global slog logger.
//
// By default it logs at Info; if verbose is true it logs at Debug.
func configureLogger(logPath string, verbose bool) {
	if strings.TrimSpace(logPath) == "" {
		logPath = viper.GetString(logFilenameKey)
	}

	if strings.TrimSpace(logPath) == "" {
		logPath = defaultLogFilename
	}

	var logLevel slog.Level
	if verbose {
		logLevel = slog.LevelDebug
	} else {
		logLevel = parseSlogLevel(viper.GetString(logLevelKey), slog.LevelInfo)
	}

	logWriter := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    viper.GetInt(logMaxSizeKey),
		MaxBackups: viper.GetInt(logMaxBackupsKey),
		MaxAge:     viper.GetInt(logMaxAgeKey),
		Compress:   viper.GetBool(logCompressKey),
	}

	handler := slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		AddSource: true,
		Level:     logLevel,
	})

	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)
}
