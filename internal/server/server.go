package server

import (
	"backend-kayesworld/internal/activity"
	"backend-kayesworld/internal/admin"
	"backend-kayesworld/internal/auth"
	"backend-kayesworld/internal/config"
	"backend-kayesworld/internal/feed"
	"backend-kayesworld/internal/invite"
	"backend-kayesworld/internal/profile"
	"backend-kayesworld/internal/shared/apperr"
	"backend-kayesworld/internal/storage"
	"backend-kayesworld/internal/stream"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

type Server struct {
	App    *fiber.App
	Cfg    config.Config
	DB     *pgxpool.Pool
	Redis  *redis.Client
	Stream *stream.Hub
}

func NewServer(cfg config.Config, db *pgxpool.Pool, redisClient *redis.Client) *Server {
	app := fiber.New(fiber.Config{
		ErrorHandler: apperr.ErrorHandler(cfg.Production()),
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New())

	s := &Server{
		App:    app,
		Cfg:    cfg,
		DB:     db,
		Redis:  redisClient,
		Stream: stream.NewHub(redisClient),
	}

	registerRoutes(s)
	return s
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	activitySvc := activity.NewService(s.DB)
	inviteSvc := invite.NewService(s.DB)
	authSvc := auth.NewService(s.Cfg.JWTSecret, s.DB, inviteSvc, activitySvc)
	adminSvc := admin.NewService(s.DB, activitySvc)

	jwtMiddleware := auth.JWTMiddleware(s.Cfg.JWTSecret)
	optionalJWT := auth.OptionalJWT(s.Cfg.JWTSecret)
	adminOnly := admin.Only(adminSvc)

	// credential endpoints get a tighter per-IP budget than the rest
	authLimiter := newRateLimiter(rate.Limit(1), 5)

	auth.RegisterRoutes(s.App.Group("/auth", authLimiter.Middleware()), authSvc)
	profile.RegisterRoutes(s.App.Group("/profiles"), profile.NewService(s.DB), jwtMiddleware)
	invite.RegisterRoutes(s.App.Group("/invites"), inviteSvc, jwtMiddleware, adminOnly)
	feed.RegisterRoutes(s.App.Group("/feed"), feed.NewService(s.DB, s.Stream), jwtMiddleware)
	admin.RegisterRoutes(s.App.Group("/admin"), adminSvc, activitySvc, jwtMiddleware, optionalJWT)
	storage.RegisterRoutes(s.App.Group("/storage"), storage.NewService(s.DB, s.Cfg.StorageURL), jwtMiddleware)
	stream.RegisterRoutes(s.App.Group("/stream"), s.Stream)
}
