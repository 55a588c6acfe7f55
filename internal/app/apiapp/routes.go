package apiapp

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	authsvc "github.com/nvoropaev/fitmatch/backend/internal/services/auth"
	classessvc "github.com/nvoropaev/fitmatch/backend/internal/services/classes"
	matchingsvc "github.com/nvoropaev/fitmatch/backend/internal/services/matching"
	photossvc "github.com/nvoropaev/fitmatch/backend/internal/services/photos"
	prefsvc "github.com/nvoropaev/fitmatch/backend/internal/services/preferences"
	profilesvc "github.com/nvoropaev/fitmatch/backend/internal/services/profiles"
	"github.com/nvoropaev/fitmatch/backend/internal/transport/http/handlers"
)

type Dependencies struct {
	AuthService        *authsvc.Service
	ProfileService     *profilesvc.Service
	PreferencesService *prefsvc.Service
	PhotoService       *photossvc.Service
	ClassesService     *classessvc.Service
	MatchingService    *matchingsvc.Service
	Logger             *zap.Logger
}

func RegisterRoutes(r chi.Router, deps Dependencies) {
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(deps.AuthService)
	profileHandler := handlers.NewProfileHandler(deps.ProfileService)
	preferencesHandler := handlers.NewPreferencesHandler(deps.PreferencesService)
	photoHandler := handlers.NewPhotoHandler(deps.PhotoService)
	partnersHandler := handlers.NewPartnersHandler(deps.MatchingService)
	classesHandler := handlers.NewClassesHandler(deps.MatchingService, deps.ClassesService)
	actionsHandler := handlers.NewActionsHandler(deps.MatchingService)
	matchesHandler := handlers.NewMatchesHandler(deps.MatchingService)

	authMW := AuthMiddleware(deps.AuthService, deps.Logger)
	adminRoleMW := RequireRole("ADMIN")

	r.Get("/healthz", healthHandler.Get)
	r.Post("/auth/login", authHandler.Login)
	r.Post("/auth/refresh", authHandler.Refresh)

	r.Group(func(r chi.Router) {
		r.Use(authMW)
		r.Post("/auth/logout", authHandler.Logout)
		r.Get("/profile", profileHandler.Me)
		r.Put("/profile", profileHandler.Core)
		r.Put("/profile/location", profileHandler.Location)
		r.Get("/preferences", preferencesHandler.Get)
		r.Put("/preferences", preferencesHandler.Update)
		r.Post("/profile/photo", photoHandler.Upload)
		r.Get("/profile/photo", photoHandler.Get)
		r.Get("/partners", partnersHandler.List)
		r.Get("/classes", classesHandler.List)
		r.Post("/actions", actionsHandler.Post)
		r.Get("/matches", matchesHandler.List)
	})

	r.Route("/admin", func(r chi.Router) {
		r.With(authMW, adminRoleMW).Post("/classes", classesHandler.Create)
	})
}
