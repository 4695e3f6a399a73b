package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/frontandrew/movierental/internal/domain"
	"github.com/frontandrew/movierental/internal/pkg/logger"
	"github.com/frontandrew/movierental/internal/usecase/mrs"
	"github.com/google/uuid"
)

// UserService определяет интерфейс для сервиса пользователей
type UserService interface {
	GetAllUsers(ctx context.Context) ([]*domain.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetUserByName(ctx context.Context, name string) (*domain.User, error)
	GetRentalsByUser(ctx context.Context, userID uuid.UUID) (*mrs.UserRentals, error)
	CreateUser(ctx context.Context, name, firstName string, birthdate time.Time) (*domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) error
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

// UserHandler обрабатывает запросы связанные с клиентами проката
type UserHandler struct {
	userService UserService
	logger      logger.Logger
}

// NewUserHandler создает новый handler
func NewUserHandler(userService UserService, logger logger.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger,
	}
}

// GetUsers возвращает всех пользователей или пользователя с указанной фамилией
// GET /api/v1/users?name=
func (h *UserHandler) GetUsers(w http.ResponseWriter, r *http.Request) {
	if name := r.URL.Query().Get("name"); name != "" {
		user, err := h.userService.GetUserByName(r.Context(), name)
		if errors.Is(err, domain.ErrUserNotFound) {
			respondData(w, http.StatusOK, []UserResponse{})
			return
		}
		if err != nil {
			respondServiceError(w, h.logger, err, "get users")
			return
		}
		respondData(w, http.StatusOK, []UserResponse{newUserResponse(user)})
		return
	}

	users, err := h.userService.GetAllUsers(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "get users")
		return
	}

	respondData(w, http.StatusOK, newUserResponses(users))
}

// GetUserByID возвращает пользователя по ID
// GET /api/v1/users/{id}
func (h *UserHandler) GetUserByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	user, err := h.userService.GetUserByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "get user")
		return
	}

	respondData(w, http.StatusOK, newUserResponse(user))
}

// GetUserRentals возвращает прокаты пользователя и их стоимость
// GET /api/v1/users/{id}/rentals
func (h *UserHandler) GetUserRentals(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	rentals, err := h.userService.GetRentalsByUser(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "get user rentals")
		return
	}

	respondData(w, http.StatusOK, newUserRentalsResponse(rentals))
}

// CreateUser создает пользователя
// POST /api/v1/users
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req UserRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	birthdate, err := parseDateField("birthDate", req.BirthDate)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.userService.CreateUser(r.Context(), req.Name, req.FirstName, birthdate)
	if err != nil {
		respondServiceError(w, h.logger, err, "create user")
		return
	}

	respondData(w, http.StatusCreated, newUserResponse(user))
}

// UpdateUser заменяет атрибуты пользователя
// PUT /api/v1/users/{id}
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	var req UserRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := buildUser(id, &req)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.userService.UpdateUser(r.Context(), user); err != nil {
		respondServiceError(w, h.logger, err, "update user")
		return
	}

	respondData(w, http.StatusOK, newUserResponse(user))
}

// DeleteUser удаляет пользователя
// DELETE /api/v1/users/{id}
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	if err := h.userService.DeleteUser(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "delete user")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func buildUser(id uuid.UUID, req *UserRequest) (*domain.User, error) {
	if err := parseBodyID(req.ID, id); err != nil {
		return nil, err
	}

	birthdate, err := parseDateField("birthDate", req.BirthDate)
	if err != nil {
		return nil, err
	}

	user, err := domain.NewUser(req.Name, req.FirstName, birthdate)
	if err != nil {
		return nil, err
	}
	if err := user.AssignID(id); err != nil {
		return nil, err
	}
	return user, nil
}
