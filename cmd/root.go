// Package cmd provides the root command and CLI setup for narrow.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"narrow.dev/pkg/narrow/internal/adapter"
	"narrow.dev/pkg/narrow/internal/controller"
	"narrow.dev/pkg/narrow/internal/domain"
	m "narrow.dev/pkg/narrow/internal/model"
)

var tsFileAdapter adapter.TSFileAdapter
var rulesAdapter adapter.RulesAdapter

// noCacheFlag disables the result cache when set.
var noCacheFlag bool

// excludePatterns is a root-level flag that filters files for applicable commands.
var excludePatterns []string

var parallelFlag int
var verboseFlag bool
var logFlag string

func init() {
	// Initialize shared dependencies.
	tsFileAdapter = adapter.NewLocalTSFileAdapter()
	rulesAdapter = adapter.NewLocalRulesAdapter()
}

const pathPatternsHelp = `Supports path patterns:
  - ./...            recursively scan current directory
  - ./src/...        recursively scan src directory
  - ./src ./lib      scan multiple directories (direct children only)
  - ./src/App.tsx    scan a single file`

const rootLongDescription = `Narrow finds "any" annotations in TypeScript and TSX sources and proposes
narrower replacement types, inferred from how each value is used.

` + pathPatternsHelp

const analyzeLongDescription = `Report every "any" annotation and the replacement type narrow would use.

` + pathPatternsHelp

const fixLongDescription = `Rewrite every "any" annotation with its proposed replacement type.

Use --dry-run to preview the unified diff without touching any file.

` + pathPatternsHelp

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "narrow",
		Short: "TypeScript any narrowing tool",
		Long:  rootLongDescription,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger(viper.GetString(logFilenameKey), viper.GetBool(logVerboseKey))
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	configureRootFlags(cmd)

	return cmd
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().BoolVar(&noCacheFlag, noCacheFlagName, viper.GetBool(noCacheFlagName), "disable the analysis result cache")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(noCacheFlagName), noCacheFlagName)

	cmd.PersistentFlags().StringArrayVarP(&excludePatterns, excludeFlagName, "x", viper.GetStringSlice(excludeConfigKey), "exclude files matching regex (can be repeated)")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(excludeFlagName), excludeConfigKey)

	cmd.PersistentFlags().IntVarP(&parallelFlag, parallelFlagName, "p", viper.GetInt(batchConcurrencyKey), "number of files processed concurrently")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(parallelFlagName), batchConcurrencyKey)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", viper.GetBool(logVerboseKey), "log at debug level")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(verboseFlagName), logVerboseKey)

	cmd.PersistentFlags().StringVar(&logFlag, logFlagName, viper.GetString(logFilenameKey), "log file path")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(logFlagName), logFilenameKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		stop()
		os.Exit(1)
	}
}

func parsePaths(args []string) []m.Path {
	paths := make([]m.Path, 0, len(args))
	for _, arg := range args {
		paths = append(paths, m.Path(arg))
	}

	return paths
}

func batchOptions(fix domain.FixOptions) domain.BatchOptions {
	return domain.BatchOptions{
		Concurrency:      viper.GetInt(batchConcurrencyKey),
		ProgressInterval: time.Duration(viper.GetInt64(progressIntervalKey)) * time.Millisecond,
		Fix:              fix,
	}
}

func useCache() bool {
	return viper.GetBool(cacheEnabledKey) && !viper.GetBool(noCacheFlagName)
}

// newWorkflow wires the domain workflow from the current configuration. The
// returned release func closes the cache store and must always be called.
func newWorkflow(cmd *cobra.Command, withCache bool) (domain.Workflow, func(), error) {
	release := func() {}

	rules, err := rulesAdapter.LoadRules(cmd.Context(), m.Path(viper.GetString(rulesFileKey)))
	if err != nil {
		return nil, release, fmt.Errorf("load rules: %w", err)
	}

	fsAdapter := adapter.NewLocalSourceFSAdapter(
		adapter.WithMaxFileSize(viper.GetInt64(maxFileSizeKey)),
		adapter.WithExtensions(viper.GetStringSlice(extensionsKey)),
	)

	var cache *domain.ResultCache[m.AnalysisResult]

	if withCache {
		ttl := time.Duration(viper.GetInt64(cacheTTLKey)) * time.Second

		store, err := adapter.NewCacheStore(viper.GetString(cacheBackendKey), viper.GetString(cacheDirKey), ttl)
		if err != nil {
			return nil, release, fmt.Errorf("open cache: %w", err)
		}

		cache = domain.NewResultCache[m.AnalysisResult](store, ttl)
		release = func() {
			if err := store.Close(); err != nil {
				slog.Warn("Failed to close cache store", "error", err)
			}
		}
	}

	analyzer := domain.NewAnalyzer(fsAdapter, tsFileAdapter, cache, domain.Options{
		DefaultType: viper.GetString(defaultTypeKey),
		Rules:       rules,
	})

	ui := controller.NewUI(cmd, controller.IsTTY(cmd.OutOrStdout()))

	return domain.NewWorkflow(fsAdapter, ui, analyzer), release, nil
}
