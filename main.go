package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/emberquest/server/api/rest"
	"github.com/emberquest/server/audit"
	"github.com/emberquest/server/cache"
	"github.com/emberquest/server/config"
	"github.com/emberquest/server/db"
	"github.com/emberquest/server/game/quest"
	"github.com/emberquest/server/game/ranking"
	"github.com/emberquest/server/game/reward"
	"github.com/emberquest/server/game/stats"
	"github.com/emberquest/server/model"
	"github.com/emberquest/server/notify"
	"github.com/emberquest/server/scheduler"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "./config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	var logger *zap.Logger
	if cfg.Server.Debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	gormDB, err := db.Open(cfg.Database)
	if err != nil {
		logger.Fatal("open database", zap.Error(err))
	}
	if err := model.AutoMigrate(gormDB); err != nil {
		logger.Fatal("migrate database", zap.Error(err))
	}

	ctx := context.Background()
	if err := quest.SeedCatalog(ctx, gormDB, logger); err != nil {
		logger.Fatal("seed quest catalog", zap.Error(err))
	}

	c, err := cache.New(cache.Config{
		RedisAddr:       cfg.Cache.RedisAddr,
		RedisPassword:   cfg.Cache.RedisPassword,
		RedisDB:         cfg.Cache.RedisDB,
		LocalGCInterval: cfg.Cache.LocalGCInterval,
	})
	if err != nil {
		logger.Fatal("init cache", zap.Error(err))
	}

	auditSvc := audit.New(gormDB, logger)

	// Engine wiring. The ledger fans out into the quest service, the quest
	// service writes quests_completed back through the ledger, and reward
	// gold loops in as gold_earned; SetX hooks break the construction cycle.
	ledger := stats.NewLedger(gormDB, logger)
	dispatcher := reward.NewDispatcher(gormDB, ledger, logger)
	questSvc := quest.NewService(gormDB, dispatcher, logger)
	questSvc.SetStatsRecorder(ledger)
	ledger.SetSink(questSvc)
	dispatcher.SetLevelSink(questSvc)

	webhook := notify.NewWebhook(cfg.Notify, logger)
	questSvc.SetNotifier(webhook)

	rankingSvc := ranking.New(gormDB, c, cfg.Game.RankingSize, logger)

	sched := scheduler.New(logger)
	sched.AddTicker("ranking_refresh", cfg.Game.RankingRefreshEach, func() {
		refreshCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := rankingSvc.Refresh(refreshCtx); err != nil {
			logger.Error("ranking refresh failed", zap.Error(err))
		}
	})
	sched.AddTicker("audit_retention", 24*time.Hour, func() {
		cutoff := time.Now().AddDate(0, 0, -90)
		res := gormDB.Where("created_at < ?", cutoff).Delete(&model.AuditLog{})
		if res.Error != nil {
			logger.Error("audit retention sweep failed", zap.Error(res.Error))
		} else if res.RowsAffected > 0 {
			logger.Info("audit retention sweep", zap.Int64("deleted", res.RowsAffected))
		}
	})

	handler := rest.NewHandler(gormDB, cfg, c, questSvc, ledger, rankingSvc, auditSvc, logger)
	router := rest.NewRouter(handler, logger)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Info("server listening", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}
	sched.Stop()
	auditSvc.Stop(shutdownCtx)
	logger.Info("bye")
}
