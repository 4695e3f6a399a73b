package http

import (
	"context"
	"net/http"
	"time"

	"github.com/frontandrew/movierental/internal/domain"
	"github.com/frontandrew/movierental/internal/pkg/logger"
	"github.com/google/uuid"
)

// RentalService определяет интерфейс для сервиса прокатов
type RentalService interface {
	GetAllRentals(ctx context.Context) ([]*domain.Rental, error)
	GetRentalByID(ctx context.Context, id uuid.UUID) (*domain.Rental, error)
	CreateRental(ctx context.Context, userID, movieID uuid.UUID, rentalDate time.Time) (*domain.Rental, error)
	ReturnRental(ctx context.Context, id uuid.UUID) error
}

// RentalHandler обрабатывает выдачу и возврат фильмов
type RentalHandler struct {
	rentalService RentalService
	logger        logger.Logger
}

// NewRentalHandler создает новый handler
func NewRentalHandler(rentalService RentalService, logger logger.Logger) *RentalHandler {
	return &RentalHandler{
		rentalService: rentalService,
		logger:        logger,
	}
}

// GetRentals возвращает все активные прокаты
// GET /api/v1/rentals
func (h *RentalHandler) GetRentals(w http.ResponseWriter, r *http.Request) {
	rentals, err := h.rentalService.GetAllRentals(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "get rentals")
		return
	}

	respondData(w, http.StatusOK, newRentalResponses(rentals))
}

// GetRentalByID возвращает прокат по ID
// GET /api/v1/rentals/{id}
func (h *RentalHandler) GetRentalByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid rental ID")
		return
	}

	rental, err := h.rentalService.GetRentalByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "get rental")
		return
	}

	respondData(w, http.StatusOK, newRentalResponse(rental))
}

// CreateRental выдает фильм пользователю
// POST /api/v1/rentals
func (h *RentalHandler) CreateRental(w http.ResponseWriter, r *http.Request) {
	var req RentalRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}
	movieID, err := uuid.Parse(req.MovieID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid movie ID")
		return
	}

	rentalDate := domain.Today()
	if req.RentalDate != "" {
		rentalDate, err = parseDateField("rentalDate", req.RentalDate)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	rental, err := h.rentalService.CreateRental(r.Context(), userID, movieID, rentalDate)
	if err != nil {
		respondServiceError(w, h.logger, err, "create rental")
		return
	}

	respondData(w, http.StatusCreated, newRentalResponse(rental))
}

// ReturnRental завершает прокат
// DELETE /api/v1/rentals/{id}
func (h *RentalHandler) ReturnRental(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid rental ID")
		return
	}

	if err := h.rentalService.ReturnRental(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "return rental")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
