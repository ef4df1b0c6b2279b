package router

import (
	"log"

	"github.com/inkwell-social/backend/internal/handlers"
	"github.com/inkwell-social/backend/internal/middleware"
	"github.com/inkwell-social/backend/internal/models"
	"github.com/inkwell-social/backend/internal/realtime"
	"github.com/inkwell-social/backend/internal/repositories"
	"github.com/inkwell-social/backend/pkg/config"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// SetupMiddleware attaches the global middleware stack
func SetupMiddleware(e *echo.Echo) {
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())
}

// SetupRoutes wires repositories, handlers and route groups
func SetupRoutes(e *echo.Echo, db *config.DB, cfg *config.Config, hub *realtime.Hub, emitter realtime.Emitter) {
	if err := db.Postgres.AutoMigrate(
		&models.User{},
		&models.Follow{},
		&models.Like{},
		&models.Comment{},
		&models.Bookmark{},
		&models.Notification{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	mongoDB := db.Mongo.Database(cfg.MongoDatabase)

	userRepo := repositories.NewPostgresUserRepository(db.Postgres)
	notifRepo := repositories.NewPostgresNotificationRepository(db.Postgres)
	likeRepo := repositories.NewPostgresLikeRepository(db.Postgres)
	followRepo := repositories.NewPostgresFollowRepository(db.Postgres)
	commentRepo := repositories.NewPostgresCommentRepository(db.Postgres)
	bookmarkRepo := repositories.NewPostgresBookmarkRepository(db.Postgres)
	storyRepo := repositories.NewMongoStoryRepository(mongoDB)
	convRepo := repositories.NewMongoConversationRepository(mongoDB)

	authHandler := handlers.NewAuthHandler(userRepo)
	userHandler := handlers.NewUserHandler(userRepo)
	storyHandler := handlers.NewStoryHandler(storyRepo, userRepo)
	likeHandler := handlers.NewLikeHandler(likeRepo, storyRepo, userRepo, notifRepo, emitter)
	commentHandler := handlers.NewCommentHandler(commentRepo, storyRepo, userRepo, notifRepo, emitter)
	followHandler := handlers.NewFollowHandler(followRepo, userRepo, notifRepo, emitter)
	bookmarkHandler := handlers.NewBookmarkHandler(bookmarkRepo, storyRepo)
	notificationHandler := handlers.NewNotificationHandler(notifRepo, userRepo)
	messageHandler := handlers.NewMessageHandler(convRepo, userRepo, emitter)

	e.GET("/health", handlers.HealthCheck)

	api := e.Group("/api/v1")
	authHandler.RegisterAuthRoutes(api.Group("/auth"))

	// Counter endpoints are polled before login completes; they degrade to
	// zero instead of 401 so a missing or stale token never breaks polling.
	lenient := api.Group("", middleware.LenientJWTAuthMiddleware())
	notificationHandler.RegisterCounterRoutes(lenient)
	messageHandler.RegisterCounterRoutes(lenient)

	protected := api.Group("", middleware.JWTAuthMiddleware())
	userHandler.RegisterProfileRoutes(protected)
	storyHandler.RegisterStoryRoutes(protected)
	likeHandler.RegisterLikeRoutes(protected)
	commentHandler.RegisterCommentRoutes(protected)
	followHandler.RegisterFollowRoutes(protected)
	bookmarkHandler.RegisterBookmarkRoutes(protected)
	notificationHandler.RegisterNotificationRoutes(protected)
	messageHandler.RegisterMessageRoutes(protected)

	// The socket authenticates via a token query parameter before upgrade,
	// so it sits outside the JWT middleware groups.
	e.GET("/ws", realtime.WSHandler(hub))
}
