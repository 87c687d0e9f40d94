package serve

import (
	"context"
	"flag"
	"time"

	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"

	"github.com/sig-0/fxquotes/cache"
	"github.com/sig-0/fxquotes/cmd/env"
	"github.com/sig-0/fxquotes/provider"
	"github.com/sig-0/fxquotes/server/config"
	"github.com/sig-0/fxquotes/storage"
	"github.com/sig-0/fxquotes/storage/types"
)

// serveCfg wraps the serve configuration
type serveCfg struct {
	config *config.Config

	configPath string
	region     string
	logLevel   string
	logFormat  string

	fetchTimeout    time.Duration
	refreshInterval time.Duration
	staleAfter      time.Duration
	historyKeep     int
}

// NewServeCmd creates the serve subcommand
func NewServeCmd() *ffcli.Command {
	cfg := &serveCfg{
		config: config.DefaultConfig(),
	}

	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	cfg.registerFlags(fs)

	cmd := &ffcli.Command{
		Name:       "serve",
		ShortUsage: "serve <subcommand> [flags]",
		LongHelp:   "Serves the fxquotes backend",
		FlagSet:    fs,
		Exec: func(_ context.Context, _ []string) error {
			return flag.ErrHelp
		},
		Options: []ff.Option{
			// Allow using ENV variables
			ff.WithEnvVars(),
			ff.WithEnvVarPrefix(env.Prefix),
		},
	}

	cmd.Subcommands = []*ffcli.Command{
		newServeSQLCmd(cfg),
		newServeRedisCmd(cfg),
		newServeMemoryCmd(cfg),
	}

	return cmd
}

func (c *serveCfg) registerFlags(fs *flag.FlagSet) {
	fs.StringVar(
		&c.config.ListenAddress,
		"listen",
		config.DefaultListenAddress,
		"the IP:PORT URL for the server",
	)

	fs.StringVar(
		&c.configPath,
		"config",
		"",
		"the path to the server TOML configuration, if any",
	)

	fs.StringVar(
		&c.region,
		"region",
		types.RegionAR.String(),
		"the region whose quotes are aggregated (AR, BR)",
	)

	fs.DurationVar(
		&c.fetchTimeout,
		"fetch-timeout",
		provider.DefaultTimeout,
		"the per-source page fetch timeout",
	)

	fs.DurationVar(
		&c.refreshInterval,
		"refresh-interval",
		cache.DefaultRefreshInterval,
		"the quote snapshot refresh interval",
	)

	fs.DurationVar(
		&c.staleAfter,
		"stale-after",
		cache.DefaultStaleAfter,
		"the snapshot age after which it is reported stale",
	)

	fs.IntVar(
		&c.historyKeep,
		"history-keep",
		storage.DefaultHistoryKeep,
		"the number of persisted quote records retained per region",
	)

	fs.StringVar(
		&c.logLevel,
		"log-level",
		"info",
		"the log level (debug, info, warn, error)",
	)

	fs.StringVar(
		&c.logFormat,
		"log-format",
		logFormatText,
		"the log format (text, json)",
	)
}
