package server

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"

	"lsx-portal/config"
	"lsx-portal/dto"
	"lsx-portal/internal/imagehost"
	"lsx-portal/internal/metrics"
	"lsx-portal/internal/middleware"
	"lsx-portal/internal/ranking"
	"lsx-portal/internal/repository"
	"lsx-portal/internal/routes"
	"lsx-portal/internal/services"
)

// Deps are the outside collaborators. Snapshots may be nil when no archive
// is configured.
type Deps struct {
	Store     repository.Store
	Images    services.ImageUploader
	Snapshots services.SnapshotStore
	Clock     ranking.Clock
	Logger    *zap.Logger
}

// BuildServices wires repositories and services from the configuration.
func BuildServices(cfg config.Config, d Deps) routes.Services {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	members := repository.NewMemberRepository(d.Store, cfg.MemberDBID, cfg.Schema.Member, logger.Named("members"))
	events := repository.NewEventRepository(d.Store, cfg.EventDBID, cfg.Schema.Event, logger.Named("events"))
	news := repository.NewNewsRepository(d.Store, cfg.NewsDBID, cfg.Schema.News, logger.Named("news"))

	rankingSvc := services.NewRankingService(members, events, d.Snapshots, d.Clock, cfg.RankingTTL, logger.Named("ranking"))

	return routes.Services{
		Auth:      services.NewAuthService(members, d.Clock, logger.Named("auth")).WithLegacyUpgrade(cfg.UpgradeLegacyPasswords),
		Profiles:  services.NewProfileService(members, d.Images, rankingSvc, d.Clock, logger.Named("profile")),
		Ranking:   rankingSvc,
		Calendar:  services.NewCalendarService(events, d.Clock),
		Birthdays: services.NewBirthdayService(rankingSvc, d.Clock),
		Gallery:   services.NewGalleryService(events),
		News:      services.NewNewsService(news),
		Tokens:    services.NewTokenIssuer(cfg.JWTSecret),
		Clock:     d.Clock,
		Logger:    logger,
	}
}

// errorHandler renders every *fiber.Error as {"error": msg}.
func errorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		msg := "internal error"
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			msg = fe.Message
		} else {
			logger.Error("unhandled error", zap.String("path", c.Path()), zap.Error(err))
		}
		return c.Status(code).JSON(dto.ErrorResponse{Error: msg})
	}
}

// NewApp builds the Fiber application with every portal route mounted.
func NewApp(s routes.Services) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "lsx-portal",
		BodyLimit:    imagehost.MaxImageBytes + 1<<20,
		ErrorHandler: errorHandler(s.Logger),
	})

	app.Use(recover.New())
	app.Use(middleware.RequestLogger(s.Logger.Named("http")))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PATCH,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	app.Get("/docs/*", swagger.HandlerDefault)
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/metrics", metrics.Handler())

	routes.Setup(app, s)
	return app
}
