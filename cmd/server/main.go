package main

import (
	"context"
	"log"

	"github.com/google/uuid"
	"github.com/inkwell-social/backend/internal/realtime"
	"github.com/inkwell-social/backend/internal/repositories"
	"github.com/inkwell-social/backend/internal/router"
	"github.com/inkwell-social/backend/internal/validators"
	"github.com/inkwell-social/backend/pkg/config"
	"github.com/inkwell-social/backend/pkg/fcm"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg := config.Load()

	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize databases: %v", err)
	}
	defer db.CloseDB()

	hub := realtime.NewHub()

	// Optional Redis bridge for running more than one API instance; without
	// it pushes only reach connections on this process.
	var bridge *realtime.RedisBridge
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		bridge = realtime.NewRedisBridge(context.Background(), client, hub, uuid.NewString())
	}

	userRepo := repositories.NewPostgresUserRepository(db.Postgres)
	tokenLookup := func(userID uint) (string, error) {
		user, err := userRepo.GetUserByID(userID)
		if err != nil {
			return "", err
		}
		return user.FCMToken, nil
	}

	var pusher realtime.OfflinePusher
	if svc := fcm.NewService(cfg.FCMCredentialsPath, tokenLookup); svc != nil {
		pusher = svc
	}

	emitter := realtime.NewDispatcher(hub, bridge, pusher)

	e := echo.New()
	e.Validator = validators.NewValidator()

	router.SetupMiddleware(e)
	router.SetupRoutes(e, db, cfg, hub, emitter)

	log.Printf("Starting server on port %s", cfg.Port)
	if err := e.Start(":" + cfg.Port); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
