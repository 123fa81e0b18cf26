package main

import (
	"context"
	"log"

	"github.com/buildflow-ai/ai-builder-backend/config"
	"github.com/buildflow-ai/ai-builder-backend/internal/bootstrap"
	deployrepo "github.com/buildflow-ai/ai-builder-backend/internal/deploy/repository"
	"github.com/buildflow-ai/ai-builder-backend/internal/jobs"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	bootstrap.SetGinMode(cfg.App.Environment)

	ctx := context.Background()

	rdb, err := bootstrap.OpenRedis(ctx, bootstrap.RedisOptions{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatalf("redis: %v", err)
	}

	db, err := bootstrap.OpenDB(ctx, bootstrap.DBOptions{
		DSN:      cfg.Database.DSN,
		MaxConns: int32(cfg.Database.MaxConns),
	})
	if err != nil {
		if cfg.Database.DSN != "" {
			log.Fatalf("db: %v", err)
		}
		log.Println("DB_DSN not set, using in-memory project store")
		db = nil
	}
	if db != nil {
		defer db.Close()
	}

	jobs.NewScheduler(deployrepo.NewDeploymentRepository(rdb), cfg.Builder.RetentionDays).Start()

	r := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName: "ai-builder-backend",
		Config:      cfg,
		DB:          db,
		Redis:       rdb,
	})

	log.Printf("listening on :%s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
