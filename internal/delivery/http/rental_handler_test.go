package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/frontandrew/movierental/internal/domain"
	"github.com/frontandrew/movierental/internal/pkg/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// TestRentalHandler_CreateRental тестирует выдачу фильма
func TestRentalHandler_CreateRental(t *testing.T) {
	userID := uuid.New()
	movieID := uuid.New()
	rentalDate := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	newRental := func(t *testing.T) *domain.Rental {
		user := CreateTestUser(t, userID, "Muster", "Hans")
		movie := CreateTestMovie(t, movieID, "Heat", domain.Regular, 16)
		return CreateTestRental(t, uuid.New(), user, movie, rentalDate)
	}

	tests := []struct {
		name           string
		requestBody    interface{}
		mockSetup      func(*testing.T, *MockMRSService)
		expectedStatus int
	}{
		{
			name:        "успешная выдача",
			requestBody: RentalRequest{UserID: userID.String(), MovieID: movieID.String(), RentalDate: "2024-06-01"},
			mockSetup: func(t *testing.T, m *MockMRSService) {
				m.On("CreateRental", mock.Anything, userID, movieID, rentalDate).Return(newRental(t), nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:        "дата по умолчанию - сегодня",
			requestBody: RentalRequest{UserID: userID.String(), MovieID: movieID.String()},
			mockSetup: func(t *testing.T, m *MockMRSService) {
				m.On("CreateRental", mock.Anything, userID, movieID, domain.Today()).Return(newRental(t), nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:        "пользователь не найден",
			requestBody: RentalRequest{UserID: userID.String(), MovieID: movieID.String(), RentalDate: "2024-06-01"},
			mockSetup: func(t *testing.T, m *MockMRSService) {
				m.On("CreateRental", mock.Anything, userID, movieID, rentalDate).Return(nil, domain.ErrUserNotFound)
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:        "лимит прокатов",
			requestBody: RentalRequest{UserID: userID.String(), MovieID: movieID.String(), RentalDate: "2024-06-01"},
			mockSetup: func(t *testing.T, m *MockMRSService) {
				m.On("CreateRental", mock.Anything, userID, movieID, rentalDate).Return(nil, domain.ErrTooManyRentals)
			},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name:        "возраст",
			requestBody: RentalRequest{UserID: userID.String(), MovieID: movieID.String(), RentalDate: "2024-06-01"},
			mockSetup: func(t *testing.T, m *MockMRSService) {
				m.On("CreateRental", mock.Anything, userID, movieID, rentalDate).Return(nil, domain.ErrUnderage)
			},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name:        "ошибка хранилища",
			requestBody: RentalRequest{UserID: userID.String(), MovieID: movieID.String(), RentalDate: "2024-06-01"},
			mockSetup: func(t *testing.T, m *MockMRSService) {
				m.On("CreateRental", mock.Anything, userID, movieID, rentalDate).
					Return(nil, domain.NewStorageError("save rental", errors.New("deadlock detected")))
			},
			expectedStatus: http.StatusInternalServerError,
		},
		{
			name:           "невалидный ID пользователя",
			requestBody:    RentalRequest{UserID: "abc", MovieID: movieID.String()},
			mockSetup:      func(t *testing.T, m *MockMRSService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "невалидная дата",
			requestBody:    RentalRequest{UserID: userID.String(), MovieID: movieID.String(), RentalDate: "tomorrow"},
			mockSetup:      func(t *testing.T, m *MockMRSService) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockMRSService)
			tt.mockSetup(t, mockService)

			req := NewTestRequest(t, http.MethodPost, "/api/v1/rentals", tt.requestBody, nil)
			rec := httptest.NewRecorder()
			NewRentalHandler(mockService, logger.NewNoop()).CreateRental(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			resp := DecodeResponse(t, rec)
			if tt.expectedStatus == http.StatusCreated {
				AssertSuccess(t, resp)
				data := resp["data"].(map[string]interface{})
				assert.Equal(t, userID.String(), data["userId"])
				assert.Equal(t, movieID.String(), data["movieId"])
				assert.Equal(t, true, data["movie"].(map[string]interface{})["rented"])
			} else {
				AssertError(t, resp)
			}
			mockService.AssertExpectations(t)
		})
	}
}

func TestRentalHandler_GetRentals(t *testing.T) {
	user := CreateTestUser(t, uuid.New(), "Muster", "Hans")
	movie := CreateTestMovie(t, uuid.New(), "Heat", domain.Regular, 0)
	rental := CreateTestRental(t, uuid.New(), user, movie, domain.Today().AddDate(0, 0, -5))

	mockService := new(MockMRSService)
	mockService.On("GetAllRentals", mock.Anything).Return([]*domain.Rental{rental}, nil)

	req := NewTestRequest(t, http.MethodGet, "/api/v1/rentals", nil, nil)
	rec := httptest.NewRecorder()
	NewRentalHandler(mockService, logger.NewNoop()).GetRentals(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	data := DecodeResponse(t, rec)["data"].([]interface{})
	item := data[0].(map[string]interface{})
	assert.Equal(t, float64(5), item["rentalDays"])
	assert.Equal(t, 6.5, item["rentalFee"])
}

func TestRentalHandler_GetRentalByID(t *testing.T) {
	id := uuid.New()

	mockService := new(MockMRSService)
	mockService.On("GetRentalByID", mock.Anything, id).Return(nil, domain.ErrRentalNotFound)

	req := NewTestRequest(t, http.MethodGet, "/api/v1/rentals/"+id.String(), nil, map[string]string{"id": id.String()})
	rec := httptest.NewRecorder()
	NewRentalHandler(mockService, logger.NewNoop()).GetRentalByID(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	mockService.AssertExpectations(t)
}

func TestRentalHandler_ReturnRental(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name           string
		serviceErr     error
		expectedStatus int
	}{
		{"возвращен", nil, http.StatusNoContent},
		{"не найден", domain.ErrRentalNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockMRSService)
			mockService.On("ReturnRental", mock.Anything, id).Return(tt.serviceErr)

			req := NewTestRequest(t, http.MethodDelete, "/api/v1/rentals/"+id.String(), nil, map[string]string{"id": id.String()})
			rec := httptest.NewRecorder()
			NewRentalHandler(mockService, logger.NewNoop()).ReturnRental(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			mockService.AssertExpectations(t)
		})
	}
}
