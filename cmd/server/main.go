package main

import (
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/hoshizora/wishcannon-server/internal/app"
	"github.com/hoshizora/wishcannon-server/internal/config"
	"github.com/hoshizora/wishcannon-server/internal/log"
)

type flags struct {
	configPath string
	addr       string
	dbPath     string
	staticDir  string
	logLevel   string
}

func main() {
	cobra.CheckErr(newCmd().Execute())
}

func newCmd() *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:           "wishcannon-server",
		Short:         "Realtime server for the wish cannon: shared word ledger plus launch broadcast.",
		Args:          cobra.ExactArgs(0),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, f)
		},
	}

	fs := cmd.Flags()
	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})
	fs.StringVarP(&f.configPath, "config", "c", "", "path to config file (env: WISHCANNON_*)")
	fs.StringVar(&f.addr, "addr", "", "HTTP listen address")
	fs.StringVar(&f.dbPath, "db", "", "path to the SQLite word ledger")
	fs.StringVar(&f.staticDir, "static", "", "directory with the client bundle")
	fs.StringVar(&f.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	return cmd
}

func run(cmd *cobra.Command, f flags) error {
	logger := log.New(f.logLevel)

	cfg, configPath, err := config.Load(logger, f.configPath)
	if err != nil {
		return err
	}

	// Flags override file and environment.
	if f.addr != "" {
		cfg.Addr = f.addr
	}
	if f.dbPath != "" {
		cfg.DatabasePath = f.dbPath
	}
	if f.staticDir != "" {
		cfg.StaticDir = f.staticDir
	}
	if f.logLevel != "" {
		cfg.LogLevel = f.logLevel
	}

	logger = log.New(cfg.LogLevel)
	logger.Info().Str("config", configPath).Str("addr", cfg.Addr).Msg("starting wishcannon server")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(cfg, logger)
	if err != nil {
		return err
	}

	if err := application.Run(ctx); err != nil {
		return err
	}

	logger.Info().Msg("server stopped")
	return nil
}
