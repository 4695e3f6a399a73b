package http

import (
	"net/http"

	"github.com/frontandrew/movierental/internal/delivery/http/middleware"
	"github.com/frontandrew/movierental/internal/pkg/config"
	"github.com/frontandrew/movierental/internal/pkg/logger"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// Router содержит все зависимости для HTTP роутера
type Router struct {
	movieHandler  *MovieHandler
	userHandler   *UserHandler
	rentalHandler *RentalHandler
	authHandler   *AuthHandler
	validator     middleware.TokenValidator
	rateLimiter   *middleware.RateLimiter
	config        *config.Config
	logger        logger.Logger
}

// NewRouter создает новый HTTP router. rateLimiter может быть nil.
func NewRouter(
	movieHandler *MovieHandler,
	userHandler *UserHandler,
	rentalHandler *RentalHandler,
	authHandler *AuthHandler,
	validator middleware.TokenValidator,
	rateLimiter *middleware.RateLimiter,
	config *config.Config,
	logger logger.Logger,
) *Router {
	return &Router{
		movieHandler:  movieHandler,
		userHandler:   userHandler,
		rentalHandler: rentalHandler,
		authHandler:   authHandler,
		validator:     validator,
		rateLimiter:   rateLimiter,
		config:        config,
		logger:        logger,
	}
}

// Setup настраивает все маршруты
func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Глобальные middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.RecoveryMiddleware(rt.logger))
	r.Use(middleware.LoggingMiddleware(rt.logger))
	r.Use(middleware.CORSMiddleware(middleware.CORSConfig{
		AllowedOrigins: rt.config.CORS.AllowedOrigins,
		AllowedMethods: rt.config.CORS.AllowedMethods,
		AllowedHeaders: rt.config.CORS.AllowedHeaders,
	}))
	if rt.rateLimiter != nil {
		r.Use(rt.rateLimiter.Middleware)
	}
	if rt.config.Server.RequestTimeout > 0 {
		r.Use(chiMiddleware.Timeout(rt.config.Server.RequestTimeout))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, "Resource not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	// Health check endpoint (публичный)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
		})
	})

	requireAuth := middleware.AuthMiddleware(rt.validator)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", rt.authHandler.Login)
			r.Post("/refresh", rt.authHandler.RefreshToken)
			r.With(requireAuth).Get("/me", rt.authHandler.GetMe)
		})

		// Чтение публично, изменения только для сотрудников
		r.Route("/movies", func(r chi.Router) {
			r.Get("/", rt.movieHandler.GetMovies)
			r.Get("/{id}", rt.movieHandler.GetMovieByID)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/", rt.movieHandler.CreateMovie)
				r.Put("/{id}", rt.movieHandler.UpdateMovie)
				r.Delete("/{id}", rt.movieHandler.DeleteMovie)
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", rt.userHandler.GetUsers)
			r.Get("/{id}", rt.userHandler.GetUserByID)
			r.Get("/{id}/rentals", rt.userHandler.GetUserRentals)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/", rt.userHandler.CreateUser)
				r.Put("/{id}", rt.userHandler.UpdateUser)
				r.Delete("/{id}", rt.userHandler.DeleteUser)
			})
		})

		r.Route("/rentals", func(r chi.Router) {
			r.Get("/", rt.rentalHandler.GetRentals)
			r.Get("/{id}", rt.rentalHandler.GetRentalByID)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/", rt.rentalHandler.CreateRental)
				r.Delete("/{id}", rt.rentalHandler.ReturnRental)
			})
		})
	})

	return r
}
