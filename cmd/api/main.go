package main

import (
	"log"
	"net/http"

	"github.com/Ridakhan15/movie-recommender/internal/artifact"
	"github.com/Ridakhan15/movie-recommender/internal/cache"
	"github.com/Ridakhan15/movie-recommender/internal/config"
	"github.com/Ridakhan15/movie-recommender/internal/db"
	"github.com/Ridakhan15/movie-recommender/internal/handler"
	"github.com/Ridakhan15/movie-recommender/internal/ml"
	"github.com/Ridakhan15/movie-recommender/internal/repository"
	"github.com/Ridakhan15/movie-recommender/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

// @title Movie Recommender API
// @version 1.0
// @description API de recomendaciones con experimento A/B (Mongo, Redis)
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()

	// Mongo y Redis
	db.InitMongo(cfg)
	cache.InitRedis(cfg)

	// snapshots de modelos (los publica el trainer, acá solo se leen)
	artifacts, err := artifact.NewStore(cfg.ModelsDir)
	if err != nil {
		log.Fatalf("[api] error abriendo directorio de modelos: %v", err)
	}

	// repos
	userRepo := repository.NewUserRepository()
	movieRepo := repository.NewMovieRepository()
	ratingRepo := repository.NewRatingRepository()
	interactionRepo := repository.NewInteractionRepository()
	experimentRepo := repository.NewExperimentRepository()
	performanceRepo := repository.NewPerformanceRepository()
	recRepo := repository.NewRecommendationRepository()
	taskRepo := repository.NewTaskRepository()

	// services
	experimentSvc := service.NewExperimentService(userRepo, experimentRepo, ratingRepo, performanceRepo)
	movieSvc := service.NewMovieService(movieRepo, taskRepo)
	ratingSvc := service.NewRatingService(ratingRepo, movieRepo, taskRepo, experimentSvc)
	interactionSvc := service.NewInteractionService(interactionRepo, movieRepo)
	recSvc := service.NewRecommendService(ratingRepo, movieRepo, recRepo, experimentSvc, ml.NewScorer(artifacts))
	modelAdminSvc := service.NewModelAdminService(artifacts, taskRepo, cfg.TrainerAddr)

	// handlers
	movieH := handler.NewMovieHandler(movieSvc)
	ratingH := handler.NewRatingHandler(ratingSvc)
	interactionH := handler.NewInteractionHandler(interactionSvc)
	recH := handler.NewRecommendHandler(recSvc)
	experimentH := handler.NewExperimentHandler(experimentSvc, movieSvc)
	modelAdminH := handler.NewModelAdminHandler(modelAdminSvc)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// =============
	// Rutas públicas
	// =============
	r.Get("/health", handler.Health)

	r.Get("/movies/search", movieH.Search)
	r.Get("/movies/{id}", movieH.GetMovie)

	// ===========================
	// Rutas protegidas con JWT
	// ===========================
	authMw := handler.JWTAuth(cfg.JWTSecret)

	r.Group(func(r chi.Router) {
		r.Use(authMw)

		// ---- Endpoints /me (USER normal) ----
		r.Route("/me", func(r chi.Router) {
			r.Get("/experiment", experimentH.GetMyAssignment)
			r.Get("/ratings", ratingH.GetMyRatings)
			r.Post("/ratings", ratingH.PostMyRating)
			r.Post("/interactions", interactionH.PostMyInteraction)
			r.Get("/recommendations", recH.GetMyRecommendations)
			r.Post("/recommendations/click", experimentH.PostMyClick)
		})

		// ---- Endpoints solo ADMIN ----
		r.Group(func(r chi.Router) {
			r.Use(handler.AdminOnly())

			// gestión de películas
			r.Post("/admin/movies", movieH.CreateMovie)
			r.Put("/admin/movies/{id}", movieH.UpdateMovie)

			// ratings y recomendaciones de cualquier usuario
			r.Route("/users/{id}", func(r chi.Router) {
				r.Get("/ratings", ratingH.GetRatings)
				r.Post("/ratings", ratingH.PostRating)

				// HTTP normal
				r.Get("/recommendations", recH.GetRecommendations)
				r.Get("/recommendations/history", recH.GetHistory)

				// WebSocket
				r.Get("/ws/recommendations", recH.GetRecommendationsWS)
			})

			// --- experimento A/B ---
			r.Get("/admin/experiments", experimentH.GetExperiments)
			r.Get("/admin/experiments/performance", experimentH.GetPerformanceDashboard)

			// --- registry de modelos y reentrenos ---
			handler.MountModelAdminRoutes(r, modelAdminH)
		})
	})

	// Swagger UI
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	log.Printf("HTTP escuchando en :%s", cfg.HTTPPort)
	log.Fatal(http.ListenAndServe(":"+cfg.HTTPPort, r))
}
