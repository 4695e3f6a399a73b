package http

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/frontandrew/movierental/internal/domain"
	"github.com/frontandrew/movierental/internal/pkg/logger"
	"github.com/google/uuid"
)

// MovieService определяет интерфейс для сервиса фильмов
type MovieService interface {
	GetAllMovies(ctx context.Context) ([]*domain.Movie, error)
	GetMoviesByRented(ctx context.Context, rented bool) ([]*domain.Movie, error)
	GetMovieByID(ctx context.Context, id uuid.UUID) (*domain.Movie, error)
	CreateMovie(ctx context.Context, title string, releaseDate time.Time, category string, ageRating int) (*domain.Movie, error)
	UpdateMovie(ctx context.Context, movie *domain.Movie) error
	DeleteMovie(ctx context.Context, id uuid.UUID) error
}

// MovieHandler обрабатывает запросы связанные с фильмами
type MovieHandler struct {
	movieService MovieService
	categories   *domain.PriceCategoryRegistry
	logger       logger.Logger
}

// NewMovieHandler создает новый handler
func NewMovieHandler(movieService MovieService, categories *domain.PriceCategoryRegistry, logger logger.Logger) *MovieHandler {
	return &MovieHandler{
		movieService: movieService,
		categories:   categories,
		logger:       logger,
	}
}

// GetMovies возвращает фильмы, опционально отфильтрованные по флагу проката
// GET /api/v1/movies?rented=true|false
func (h *MovieHandler) GetMovies(w http.ResponseWriter, r *http.Request) {
	var (
		movies []*domain.Movie
		err    error
	)

	if raw := r.URL.Query().Get("rented"); raw != "" {
		rented, parseErr := strconv.ParseBool(raw)
		if parseErr != nil {
			respondError(w, http.StatusBadRequest, "Query parameter rented must be true or false")
			return
		}
		movies, err = h.movieService.GetMoviesByRented(r.Context(), rented)
	} else {
		movies, err = h.movieService.GetAllMovies(r.Context())
	}

	if err != nil {
		respondServiceError(w, h.logger, err, "get movies")
		return
	}

	respondData(w, http.StatusOK, newMovieResponses(movies))
}

// GetMovieByID возвращает фильм по ID
// GET /api/v1/movies/{id}
func (h *MovieHandler) GetMovieByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid movie ID")
		return
	}

	movie, err := h.movieService.GetMovieByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "get movie")
		return
	}

	respondData(w, http.StatusOK, newMovieResponse(movie))
}

// CreateMovie создает новый фильм
// POST /api/v1/movies
func (h *MovieHandler) CreateMovie(w http.ResponseWriter, r *http.Request) {
	var req MovieRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	releaseDate, err := parseDateField("releaseDate", req.ReleaseDate)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	movie, err := h.movieService.CreateMovie(r.Context(), req.Title, releaseDate, req.PriceCategory, req.AgeRating)
	if err != nil {
		respondServiceError(w, h.logger, err, "create movie")
		return
	}

	respondData(w, http.StatusCreated, newMovieResponse(movie))
}

// UpdateMovie заменяет атрибуты фильма
// PUT /api/v1/movies/{id}
func (h *MovieHandler) UpdateMovie(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid movie ID")
		return
	}

	var req MovieRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	movie, err := h.buildMovie(id, &req)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.movieService.UpdateMovie(r.Context(), movie); err != nil {
		respondServiceError(w, h.logger, err, "update movie")
		return
	}

	// Перечитываем фильм: флаг проката хранится только в хранилище
	updated, err := h.movieService.GetMovieByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "get movie")
		return
	}

	respondData(w, http.StatusOK, newMovieResponse(updated))
}

// DeleteMovie удаляет фильм
// DELETE /api/v1/movies/{id}
func (h *MovieHandler) DeleteMovie(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid movie ID")
		return
	}

	if err := h.movieService.DeleteMovie(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "delete movie")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *MovieHandler) buildMovie(id uuid.UUID, req *MovieRequest) (*domain.Movie, error) {
	if err := parseBodyID(req.ID, id); err != nil {
		return nil, err
	}

	releaseDate, err := parseDateField("releaseDate", req.ReleaseDate)
	if err != nil {
		return nil, err
	}

	pc, ok := h.categories.Lookup(req.PriceCategory)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownPriceCategory, req.PriceCategory)
	}

	movie, err := domain.NewMovie(req.Title, releaseDate, pc, req.AgeRating)
	if err != nil {
		return nil, err
	}
	if err := movie.AssignID(id); err != nil {
		return nil, err
	}
	return movie, nil
}
