// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/urfave/cli/v2"

	"github.com/poiesic/searchbox"
	"github.com/poiesic/searchbox/catalog/mem"
	"github.com/poiesic/searchbox/config"
	"github.com/poiesic/searchbox/search"
	"github.com/poiesic/searchbox/snapshot"
)

func main() {
	app := &cli.App{
		Name:  "searchboxd",
		Usage: "Rule-driven catalog quick search service",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API and the snapshot build scheduler",
				Action: serveCommand,
				Flags: append(serviceFlags(),
					&cli.StringFlag{
						Name:  "addr",
						Usage: "HTTP listen address",
						Value: ":8080",
					},
					&cli.DurationFlag{
						Name:  "snapshot-interval",
						Usage: "Cadence of scheduled snapshot rebuilds",
						Value: snapshot.DefaultInterval,
					},
				),
			},
			{
				Name:   "build-snapshot",
				Usage:  "Build the snapshot document once and exit",
				Action: buildSnapshotCommand,
				Flags:  serviceFlags(),
			},
			{
				Name:   "search",
				Usage:  "Run one query from the command line",
				Action: searchCommand,
				Flags: append(serviceFlags(),
					&cli.StringFlag{
						Name:  "mode",
						Usage: "Query mode (live, filtered-live, snapshot)",
						Value: "live",
					},
				),
			},
			{
				Name:   "get-rules",
				Usage:  "Print the current rule configuration",
				Action: getRulesCommand,
				Flags:  redisFlags(),
			},
			{
				Name:   "set-rules",
				Usage:  "Replace the rule configuration (all fields at once)",
				Action: setRulesCommand,
				Flags: append(redisFlags(),
					&cli.StringFlag{
						Name:  "excluded",
						Usage: "Newline-delimited exclusion rules (kind:id per line)",
					},
					&cli.StringFlag{
						Name:  "highest",
						Usage: "Newline-delimited highest-priority rules",
					},
					&cli.StringFlag{
						Name:  "lowest",
						Usage: "Newline-delimited lowest-priority rules",
					},
					&cli.StringFlag{
						Name:  "custom-types",
						Usage: "Newline-delimited extra item types to search",
					},
				),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func redisFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "redis-addr",
			Usage: "Rule configuration store address",
			Value: "localhost:6379",
		},
	}
}

func serviceFlags() []cli.Flag {
	return append(redisFlags(),
		&cli.StringFlag{
			Name:     "fixture",
			Aliases:  []string{"f"},
			Usage:    "Path to a catalog fixture JSON file",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "snapshot-path",
			Usage: "Snapshot store directory",
			Value: "./snapshot_db",
		},
	)
}

func newService(c *cli.Context) (*searchbox.Service, error) {
	provider, err := mem.LoadFixture(c.String("fixture"))
	if err != nil {
		return nil, err
	}
	return searchbox.NewService(provider,
		searchbox.WithRedisAddr(c.String("redis-addr")),
		searchbox.WithSnapshotPath(c.String("snapshot-path")))
}

func serveCommand(c *cli.Context) error {
	service, err := newService(c)
	if err != nil {
		return err
	}
	defer service.Close()

	server, err := service.NewHTTPServer()
	if err != nil {
		return err
	}
	scheduler, err := service.NewScheduler(
		snapshot.WithInterval(c.Duration("snapshot-interval")))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	scheduler.Start(ctx)
	defer scheduler.Stop()

	httpServer := &http.Server{
		Addr:    c.String("addr"),
		Handler: server.Handler(),
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := newShutdownContext()
		defer cancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	slog.Info("serving", "addr", c.String("addr"))
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func buildSnapshotCommand(c *cli.Context) error {
	service, err := newService(c)
	if err != nil {
		return err
	}
	defer service.Close()

	meta, err := service.Snapshots().Rebuild(c.Context)
	if err != nil {
		return err
	}
	fmt.Printf("snapshot built: generated_at=%s content_hash=%s\n",
		meta.GeneratedAt.Format(time.RFC3339), meta.ContentHash)
	return nil
}

func searchCommand(c *cli.Context) error {
	term := strings.Join(c.Args().Slice(), " ")
	mode, err := search.ParseMode(c.String("mode"))
	if err != nil {
		return err
	}

	service, err := newService(c)
	if err != nil {
		return err
	}
	defer service.Close()

	result, err := service.Executor().Query(c.Context, term, mode)
	if err != nil {
		return err
	}

	fmt.Printf("Found %d hits\n", result.Total())
	for i, item := range result.Products {
		fmt.Printf("product %d: '%s' (%d)[%s]\n", i, item.Title, item.ID, item.Tier)
	}
	for i, item := range result.Categories {
		fmt.Printf("category %d: '%s' (%d)[%s] %d members\n", i, item.Title, item.ID, item.Tier, item.MemberCount)
	}
	return nil
}

func getRulesCommand(c *cli.Context) error {
	store, closeStore, err := newRuleStore(c)
	if err != nil {
		return err
	}
	defer closeStore()

	settings, err := store.Load(c.Context)
	if err != nil {
		return err
	}
	fmt.Printf("%s:\n%s\n", config.KeyCustomTypes, settings.CustomTypes)
	fmt.Printf("%s:\n%s\n", config.KeyExcluded, settings.Excluded)
	fmt.Printf("%s:\n%s\n", config.KeyHighest, settings.Highest)
	fmt.Printf("%s:\n%s\n", config.KeyLowest, settings.Lowest)
	return nil
}

func setRulesCommand(c *cli.Context) error {
	store, closeStore, err := newRuleStore(c)
	if err != nil {
		return err
	}
	defer closeStore()

	return store.Save(c.Context, config.Settings{
		CustomTypes: c.String("custom-types"),
		Excluded:    c.String("excluded"),
		Highest:     c.String("highest"),
		Lowest:      c.String("lowest"),
	})
}

func newRuleStore(c *cli.Context) (config.Store, func(), error) {
	client := redis.NewClient(&redis.Options{Addr: c.String("redis-addr")})
	store, err := config.NewRedisStore(client)
	if err != nil {
		client.Close()
		return nil, nil, err
	}
	return store, func() { client.Close() }, nil
}

func newShutdownContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Second)
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
