package routes

import (
	"net/http"

	"github.com/Dosada05/league-system/handlers"
	"github.com/Dosada05/league-system/middleware"
	"github.com/Dosada05/league-system/models"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware" // Alias to avoid conflict
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

// SetupRoutes собирает все маршруты API на переданном роутере.
func SetupRoutes(
	router *chi.Mux,
	jwtSecret string,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	teamHandler *handlers.TeamHandler,
	playerHandler *handlers.PlayerHandler,
	seasonHandler *handlers.SeasonHandler,
	stadiumHandler *handlers.StadiumHandler,
	matchHandler *handlers.MatchHandler,
	disciplinaryHandler *handlers.DisciplinaryHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	authenticate := middleware.Authenticate(jwtSecret)
	adminOnly := middleware.RequireRole(models.RoleAdmin)
	officialsOnly := middleware.RequireRole(models.RoleReferee, models.RoleSupervisor)

	router.Post("/auth/register", authHandler.Register)
	router.Post("/auth/login", authHandler.Login)

	router.Route("/users", func(r chi.Router) {
		r.Get("/{id}", userHandler.GetUser)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.With(adminOnly).Get("/", userHandler.ListByRole)
			r.Post("/me/avatar", userHandler.UploadAvatar)
			r.Get("/me/notifications", userHandler.ListNotifications)
			r.Post("/me/notifications/{id}/read", userHandler.MarkNotificationRead)
		})
	})

	router.Route("/teams", func(r chi.Router) {
		r.Get("/", teamHandler.ListTeams)
		r.Get("/{id}", teamHandler.GetTeam)

		r.Group(func(r chi.Router) {
			r.Use(authenticate, adminOnly)
			r.Post("/", teamHandler.CreateTeam)
			r.Put("/{id}", teamHandler.UpdateTeam)
			r.Delete("/{id}", teamHandler.DeleteTeam)
			r.Post("/{id}/logo", teamHandler.UploadLogo)
		})
	})

	router.Route("/players", func(r chi.Router) {
		r.Get("/{id}", playerHandler.GetPlayer)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(middleware.RequireRole(models.RoleAdmin, models.RoleTeamManager))
			r.Post("/", playerHandler.CreatePlayer)
			r.Put("/{id}", playerHandler.UpdatePlayer)
			r.Delete("/{id}", playerHandler.DeletePlayer)
			r.Post("/{id}/photo", playerHandler.UploadPhoto)
		})
	})

	router.Route("/season-teams/{seasonTeamID}/players", func(r chi.Router) {
		r.Get("/", playerHandler.ListSeasonPlayers)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(middleware.RequireRole(models.RoleAdmin, models.RoleTeamManager))
			r.Post("/", playerHandler.RegisterForSeason)
		})
	})

	router.Route("/seasons", func(r chi.Router) {
		r.Get("/", seasonHandler.ListSeasons)
		r.Get("/{id}", seasonHandler.GetSeason)
		r.Get("/{id}/teams", seasonHandler.ListSeasonTeams)
		r.Get("/{id}/standings", seasonHandler.GetStandings)
		r.Get("/{id}/matches", matchHandler.ListSeasonMatches)
		r.Get("/{id}/suspensions", disciplinaryHandler.ListSuspensions)

		// Live-события сезона: токен через query string, поэтому вне группы auth.
		r.Get("/{id}/live", webSocketHandler.ServeSeasonRoom)

		r.Group(func(r chi.Router) {
			r.Use(authenticate, adminOnly)
			r.Post("/", seasonHandler.CreateSeason)
			r.Put("/{id}/status", seasonHandler.UpdateSeasonStatus)
			r.Delete("/{id}", seasonHandler.DeleteSeason)
			r.Post("/{id}/teams", seasonHandler.RegisterTeam)
			r.Post("/{id}/disciplinary/recalculate", disciplinaryHandler.Recalculate)
			r.Post("/{id}/completion/batch", seasonHandler.BatchProcessSeason)
		})
	})

	router.Route("/suspensions", func(r chi.Router) {
		r.Use(authenticate, adminOnly)
		r.Post("/{id}/served", disciplinaryHandler.MarkServed)
	})

	router.Route("/stadiums", func(r chi.Router) {
		r.Get("/", stadiumHandler.ListStadiums)
		r.Get("/{id}", stadiumHandler.GetStadium)

		r.Group(func(r chi.Router) {
			r.Use(authenticate, adminOnly)
			r.Post("/", stadiumHandler.CreateStadium)
			r.Put("/{id}", stadiumHandler.UpdateStadium)
			r.Delete("/{id}", stadiumHandler.DeleteStadium)
		})
	})

	router.Route("/matches", func(r chi.Router) {
		r.Get("/{id}", matchHandler.GetMatch)
		r.Get("/{id}/cards", matchHandler.ListCards)
		r.Get("/{id}/history", matchHandler.GetHistory)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)

			r.With(adminOnly).Post("/", matchHandler.CreateMatch)
			r.With(adminOnly).Post("/{id}/status", matchHandler.ChangeStatus)
			r.With(adminOnly).Post("/{id}/officials", matchHandler.AssignOfficials)
			r.With(adminOnly).Post("/{id}/completion", matchHandler.ProcessCompletion)
			r.With(adminOnly).Post("/{id}/completion/rollback", matchHandler.RollbackCompletion)

			r.With(officialsOnly).Post("/{id}/lineups/{side}", matchHandler.ReviewLineup)
			r.With(officialsOnly).Post("/{id}/report", matchHandler.SubmitReport)
			r.With(officialsOnly).Put("/{id}/score", matchHandler.SetScore)
			r.With(officialsOnly).Post("/{id}/cards", matchHandler.RecordCard)
		})
	})

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"the requested resource could not be found"}`, http.StatusNotFound)
	})
}
