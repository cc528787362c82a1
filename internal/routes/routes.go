package routes

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"lsx-portal/internal/controllers"
	"lsx-portal/internal/middleware"
	"lsx-portal/internal/ranking"
	"lsx-portal/internal/services"
)

// Services bundles everything the handlers need.
type Services struct {
	Auth      *services.AuthService
	Profiles  *services.ProfileService
	Ranking   *services.RankingService
	Calendar  *services.CalendarService
	Birthdays *services.BirthdayService
	Gallery   *services.GalleryService
	News      *services.NewsService
	Tokens    *services.TokenIssuer
	Clock     ranking.Clock
	Logger    *zap.Logger
}

func SetupAuth(app *fiber.App, s Services) {
	app.Post("/login", controllers.LoginHandler(s.Auth, s.Profiles, s.Tokens, s.Logger))
	app.Post("/register", controllers.RegisterHandler(s.Auth, s.Logger))
	app.Post("/logout", controllers.LogoutHandler())
}

func SetupRoutesLeaderboard(app *fiber.App, s Services) {
	board := app.Group("/leaderboard")
	board.Get("/", controllers.LeaderboardHandler(s.Ranking, services.ViewOverall, s.Logger))
	board.Get("/junior", controllers.LeaderboardHandler(s.Ranking, services.ViewJunior, s.Logger))
	board.Get("/stats", controllers.LeaderboardStatsHandler(s.Ranking))
	board.Get("/history", controllers.LeaderboardHistoryHandler(s.Ranking, s.Logger))
}

func SetupRoutesEvent(app *fiber.App, s Services) {
	app.Get("/calendar", controllers.CalendarHandler(s.Calendar, s.Logger))
	app.Get("/events/:id", controllers.EventDetailHandler(s.Calendar, s.Logger))
	app.Get("/gallery", controllers.GalleryHandler(s.Gallery))
	app.Get("/news", controllers.NewsHandler(s.News, s.Logger))
}

func SetupRoutesBirthday(app *fiber.App, s Services) {
	bday := app.Group("/birthdays")
	bday.Get("/", controllers.BirthdaysHandler(s.Birthdays, s.Clock))
	bday.Get("/upcoming", controllers.UpcomingBirthdaysHandler(s.Birthdays))
}

func SetupRoutesState(app *fiber.App) {
	state := app.Group("/state")
	state.Get("/", controllers.StateHandler())
	state.Post("/navigate", controllers.NavigateHandler())
}

func SetupRoutesMember(app *fiber.App, s Services) {
	me := app.Group("/me", middleware.RequireMember())
	me.Get("/", controllers.MeHandler(s.Profiles, s.Logger))
	me.Patch("/", controllers.UpdateMeHandler(s.Profiles, s.Logger))
	me.Post("/photo", controllers.UploadPhotoHandler(s.Profiles, s.Logger))
}

// Setup mounts every portal route. MemberAuth runs first so public pages
// still see who is logged in.
func Setup(app *fiber.App, s Services) {
	app.Use(middleware.MemberAuth(s.Tokens))

	SetupAuth(app, s)
	SetupRoutesLeaderboard(app, s)
	SetupRoutesEvent(app, s)
	SetupRoutesBirthday(app, s)
	SetupRoutesState(app)
	SetupRoutesMember(app, s)
}
