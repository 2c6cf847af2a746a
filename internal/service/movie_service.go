package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Ridakhan15/movie-recommender/internal/models"
	"github.com/Ridakhan15/movie-recommender/internal/repository"
)

type MovieService struct {
	movies *repository.MovieRepository
	tasks  *repository.TaskRepository
}

func NewMovieService(m *repository.MovieRepository, t *repository.TaskRepository) *MovieService {
	return &MovieService{movies: m, tasks: t}
}

func (s *MovieService) GetByID(ctx context.Context, movieID int) (*models.MovieDoc, error) {
	return s.movies.GetByID(ctx, movieID)
}

func (s *MovieService) Search(ctx context.Context, q string, limit, offset int) ([]models.MovieDoc, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.movies.Search(ctx, q, limit, offset)
}

// Create da de alta una película del catálogo y encola el reentreno
// incremental (el modelo de contenido tiene que conocerla).
func (s *MovieService) Create(ctx context.Context, req *models.MovieCreateRequest) (*models.MovieDoc, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("title es obligatorio")
	}

	movieID, err := s.movies.NextMovieID(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().Format(time.RFC3339)
	movie := &models.MovieDoc{
		MovieID:   movieID,
		Title:     req.Title,
		Year:      req.Year,
		Genres:    req.Genres,
		Director:  req.Director,
		Cast:      req.Cast,
		Plot:      req.Plot,
		Runtime:   req.Runtime,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.movies.Insert(ctx, movie); err != nil {
		return nil, err
	}

	task := &models.ModelUpdateTask{
		TaskType:         models.TaskTypeIncrementalUpdate,
		TriggeredByMovie: &movieID,
	}
	if err := s.tasks.Insert(ctx, task); err != nil {
		log.Printf("[movie] error encolando tarea de modelos: %v", err)
	}

	return movie, nil
}

// Update sobreescribe los campos editables de la película.
func (s *MovieService) Update(ctx context.Context, movieID int, req *models.MovieCreateRequest) (*models.MovieDoc, error) {
	movie, err := s.movies.GetByID(ctx, movieID)
	if err != nil {
		return nil, err
	}
	if movie == nil {
		return nil, fmt.Errorf("movie %d no encontrada", movieID)
	}

	if strings.TrimSpace(req.Title) != "" {
		movie.Title = req.Title
	}
	if req.Year != nil {
		movie.Year = req.Year
	}
	if req.Genres != nil {
		movie.Genres = req.Genres
	}
	if req.Director != "" {
		movie.Director = req.Director
	}
	if req.Cast != nil {
		movie.Cast = req.Cast
	}
	if req.Plot != "" {
		movie.Plot = req.Plot
	}
	if req.Runtime > 0 {
		movie.Runtime = req.Runtime
	}
	movie.UpdatedAt = time.Now().Format(time.RFC3339)

	if err := s.movies.Update(ctx, movie); err != nil {
		return nil, err
	}
	return movie, nil
}
