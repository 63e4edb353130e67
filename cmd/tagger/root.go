package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/goliatone/go-tagger/internal/config"
	"github.com/goliatone/go-tagger/internal/logging"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// app carries state shared by every command once flags are parsed.
type app struct {
	configFile string
	loader     *config.Loader
	cfg        config.Config
	logger     *zap.Logger
}

func newRootCommand() *cobra.Command {
	a := &app{loader: config.NewLoader(), logger: zap.NewNop()}

	root := &cobra.Command{
		Use:   "tagger",
		Short: "Tag trading cards with structured action sentences",
		Long: `tagger shows a random card and lets you describe what it does as a list
of action sentences built from verb templates. Each submission is appended
to a JSON lines log.

Configuration hierarchy (highest to lowest priority):
  1. CLI flags
  2. Environment variables (TAGGER_*)
  3. Config file (--config, or ./tagger.yaml)
  4. Defaults`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = a.logger.Sync()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (default ./tagger.yaml)")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	flags.Bool("development", false, "human readable development logging")
	flags.String("log-path", "", "JSON lines file submissions are appended to")
	flags.String("registry-dir", "", "directory of verb/placeholder overlay files")
	flags.String("cards-cache", "", "card catalog cache file")
	flags.String("series", "", "card series fetched on a cold cache")
	flags.String("api-key", "", "card catalog API key")
	a.bind(flags, map[string]string{
		"log_level":        "log-level",
		"development":      "development",
		"log_path":         "log-path",
		"registry_dir":     "registry-dir",
		"cards.cache_file": "cards-cache",
		"cards.series":     "series",
		"cards.api_key":    "api-key",
	})

	root.AddCommand(
		newServeCommand(a),
		newTagCommand(a),
		newCardsCommand(a),
		newVerbsCommand(a),
		newConfigCommand(a),
		newVersionCommand(),
	)
	return root
}

// bind maps config keys to flag names. Unknown flags are a programming error.
func (a *app) bind(flags *pflag.FlagSet, keys map[string]string) {
	for key, name := range keys {
		if err := a.loader.BindFlag(key, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}
}

func (a *app) init() error {
	cfg, err := a.loader.Load(a.configFile)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.LogLevel, cfg.Development)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	if used := a.loader.ConfigFileUsed(); used != "" {
		logger.Debug("using config file", zap.String("path", used))
	}
	return nil
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "tagger %s\n", version)
		},
	}
}
