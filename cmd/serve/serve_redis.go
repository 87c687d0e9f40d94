package serve

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"
	goredis "github.com/redis/go-redis/v9"

	"github.com/sig-0/fxquotes/cmd/env"
	"github.com/sig-0/fxquotes/storage/redis"
)

type serveRedisCfg struct {
	rootCfg *serveCfg
}

// newServeRedisCmd creates the serve redis command
func newServeRedisCmd(rootCfg *serveCfg) *ffcli.Command {
	cfg := &serveRedisCfg{
		rootCfg: rootCfg,
	}

	fs := flag.NewFlagSet("redis", flag.ExitOnError)
	cfg.rootCfg.registerFlags(fs)

	return &ffcli.Command{
		Name:       "redis",
		ShortUsage: "serve redis [flags]",
		LongHelp:   "Serves the fxquotes backend, using a Redis quote history",
		FlagSet:    fs,
		Exec:       cfg.exec,
		Options: []ff.Option{
			ff.WithEnvVars(),
			ff.WithEnvVarPrefix(env.Prefix),
		},
	}
}

func (c *serveRedisCfg) exec(ctx context.Context, _ []string) error {
	logger, err := c.rootCfg.setup()
	if err != nil {
		return err
	}

	// Load .env
	if err := godotenv.Load(); err != nil {
		logger.Warn("unable to load .env file")
	}

	addr := os.Getenv(env.Prefix + env.RedisAddrSuffix)
	if addr == "" {
		return fmt.Errorf("missing %s", env.Prefix+env.RedisAddrSuffix)
	}

	client := goredis.NewUniversalClient(&goredis.UniversalOptions{
		Addrs: []string{addr},
	})

	defer func() {
		if err := client.Close(); err != nil {
			logger.Error(
				"unable to gracefully close Redis client",
				"err", err,
			)
		}
	}()

	// Check Redis reachability
	pingCtx, cancelPing := context.WithTimeout(ctx, time.Second*5)
	defer cancelPing()

	if err = client.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("unable to reach Redis (ping): %w", err)
	}

	logger.Info("Redis ping success")

	return c.rootCfg.run(ctx, logger, redis.NewStorage(client))
}
