// Package main provides the bot binary: it connects to IRC and runs the
// tabletop rules engine for every campaign channel it manages.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/dmbot/internal/chat/irc"
	"github.com/cory-johannsen/dmbot/internal/config"
	"github.com/cory-johannsen/dmbot/internal/game/character"
	"github.com/cory-johannsen/dmbot/internal/game/dice"
	"github.com/cory-johannsen/dmbot/internal/game/npc"
	"github.com/cory-johannsen/dmbot/internal/game/world"
	"github.com/cory-johannsen/dmbot/internal/gameserver"
	"github.com/cory-johannsen/dmbot/internal/observability"
	"github.com/cory-johannsen/dmbot/internal/server"
	"github.com/cory-johannsen/dmbot/internal/storage/file"
	"github.com/cory-johannsen/dmbot/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	migrateOnStart := flag.Bool("migrate", false, "apply database migrations before starting (postgres backend only)")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	lifecycle := server.NewLifecycle(logger)

	var store character.Store
	switch cfg.Storage.Backend {
	case "postgres":
		if *migrateOnStart {
			if err := postgres.MigrateUp(cfg.Database.DSN()); err != nil {
				logger.Fatal("migrating database", zap.Error(err))
			}
			logger.Info("database migrated")
		}
		dbStart := time.Now()
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			logger.Fatal("connecting to database", zap.Error(err))
		}
		logger.Info("database connected",
			zap.String("host", cfg.Database.Host),
			zap.Duration("elapsed", time.Since(dbStart)),
		)
		store = postgres.NewPlayerRepository(pool.DB())
		lifecycle.Add("postgres", &server.FuncService{
			StartFn: func(ctx context.Context) error {
				ticker := time.NewTicker(30 * time.Second)
				defer ticker.Stop()
				for {
					select {
					case <-ctx.Done():
						return nil
					case <-ticker.C:
						if err := pool.Health(ctx, 5*time.Second); err != nil {
							logger.Warn("database health check failed", zap.Error(err))
						}
					}
				}
			},
			StopFn: pool.Close,
		})
	default:
		fs, err := file.NewStore(cfg.Storage.Dir, file.Format(cfg.Storage.Format))
		if err != nil {
			logger.Fatal("opening player store", zap.Error(err))
		}
		logger.Info("using file player store",
			zap.String("dir", cfg.Storage.Dir),
			zap.String("format", cfg.Storage.Format),
		)
		store = fs
	}

	bestiary := npc.Bestiary{}
	if cfg.Game.BestiaryDir != "" {
		bestiary, err = npc.LoadBestiary(cfg.Game.BestiaryDir)
		if err != nil {
			logger.Fatal("loading bestiary", zap.Error(err))
		}
		logger.Info("loaded bestiary", zap.Int("count", len(bestiary)))
	}

	client := irc.NewClient(irc.Config{
		Addr:         cfg.Chat.Addr(),
		Password:     cfg.Chat.Password,
		Nick:         cfg.Chat.Nickname,
		User:         cfg.Chat.Username,
		RealName:     cfg.Chat.RealName,
		Channels:     cfg.Chat.Channels,
		Owners:       cfg.Chat.Owners,
		ReadTimeout:  cfg.Chat.ReadTimeout,
		WriteTimeout: cfg.Chat.WriteTimeout,
	}, logger.Named("irc"))

	roller := dice.NewLoggedRoller(dice.NewCryptoSource(), logger.Named("dice"))
	w := world.New(store, logger.Named("world"))
	dispatcher := gameserver.NewDispatcher(w, client, roller, logger.Named("dispatcher"), gameserver.Config{
		Prefix:   cfg.Chat.Prefix,
		Bestiary: bestiary,
	})

	lifecycle.Add("world", &server.FuncService{
		StartFn: func(ctx context.Context) error {
			if cfg.Game.AutosaveInterval > 0 {
				dispatcher.StartAutosave(ctx, cfg.Game.AutosaveInterval)
				logger.Info("autosave enabled", zap.Duration("interval", cfg.Game.AutosaveInterval))
			}
			<-ctx.Done()
			return nil
		},
		StopFn: func() {
			saveCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := dispatcher.SaveAll(saveCtx); err != nil {
				logger.Error("final save incomplete",
					zap.Strings("failed", world.FailedSaves(err)),
					zap.Error(err),
				)
			}
		},
	})

	lifecycle.Add("irc", &server.FuncService{
		StartFn: func(ctx context.Context) error {
			if err := client.Dial(ctx); err != nil {
				return err
			}
			if err := client.Register(); err != nil {
				return err
			}
			go func() {
				<-ctx.Done()
				_ = client.Quit("Shutting down.")
			}()
			err := client.Run(context.WithoutCancel(ctx), func(ctx context.Context, from, to, text string) error {
				return dispatcher.Handle(ctx, gameserver.Message{From: from, To: to, Text: text})
			})
			if ctx.Err() != nil {
				return nil
			}
			return err
		},
	})

	logger.Info("bot initialized",
		zap.Duration("startup", time.Since(start)),
		zap.String("server", cfg.Chat.Addr()),
		zap.String("nick", cfg.Chat.Nickname),
		zap.String("storage", cfg.Storage.Backend),
	)

	if err := lifecycle.Run(ctx); err != nil {
		logger.Fatal("bot stopped", zap.Error(err))
	}
}
