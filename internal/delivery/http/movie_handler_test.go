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
	"github.com/stretchr/testify/require"
)

func newMovieHandler(m *MockMRSService) *MovieHandler {
	return NewMovieHandler(m, domain.NewPriceCategoryRegistry().RegisterDefaults(), logger.NewNoop())
}

// TestMovieHandler_GetMovies тестирует список фильмов и фильтр rented
func TestMovieHandler_GetMovies(t *testing.T) {
	movie := CreateTestMovie(t, uuid.New(), "Casablanca", domain.Regular, 12)

	tests := []struct {
		name           string
		query          string
		mockSetup      func(*MockMRSService)
		expectedStatus int
		checkResponse  func(*testing.T, map[string]interface{})
	}{
		{
			name:  "все фильмы",
			query: "",
			mockSetup: func(m *MockMRSService) {
				m.On("GetAllMovies", mock.Anything).Return([]*domain.Movie{movie}, nil)
			},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, resp map[string]interface{}) {
				AssertSuccess(t, resp)
				data := resp["data"].([]interface{})
				require.Len(t, data, 1)
				item := data[0].(map[string]interface{})
				assert.Equal(t, movie.MustID().String(), item["id"])
				assert.Equal(t, "Casablanca", item["title"])
				assert.Equal(t, "2020-01-15", item["releaseDate"])
				assert.Equal(t, "Regular", item["priceCategory"])
				assert.Equal(t, float64(12), item["ageRating"])
				assert.Equal(t, false, item["rented"])
			},
		},
		{
			name:  "только выданные",
			query: "?rented=true",
			mockSetup: func(m *MockMRSService) {
				m.On("GetMoviesByRented", mock.Anything, true).Return([]*domain.Movie{}, nil)
			},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, resp map[string]interface{}) {
				AssertSuccess(t, resp)
				assert.Empty(t, resp["data"])
			},
		},
		{
			name:           "невалидный rented",
			query:          "?rented=maybe",
			mockSetup:      func(m *MockMRSService) {},
			expectedStatus: http.StatusBadRequest,
			checkResponse: func(t *testing.T, resp map[string]interface{}) {
				AssertError(t, resp)
			},
		},
		{
			name:  "ошибка хранилища",
			query: "",
			mockSetup: func(m *MockMRSService) {
				m.On("GetAllMovies", mock.Anything).
					Return(nil, domain.NewStorageError("list movies", errors.New("connection refused")))
			},
			expectedStatus: http.StatusInternalServerError,
			checkResponse: func(t *testing.T, resp map[string]interface{}) {
				AssertError(t, resp)
				assert.Equal(t, "Failed to get movies", resp["error"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockMRSService)
			tt.mockSetup(mockService)
			handler := newMovieHandler(mockService)

			req := NewTestRequest(t, http.MethodGet, "/api/v1/movies"+tt.query, nil, nil)
			rec := httptest.NewRecorder()
			handler.GetMovies(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			tt.checkResponse(t, DecodeResponse(t, rec))
			mockService.AssertExpectations(t)
		})
	}
}

func TestMovieHandler_GetMovieByID(t *testing.T) {
	id := uuid.New()
	movie := CreateTestMovie(t, id, "Heat", domain.NewRelease, 16)

	tests := []struct {
		name           string
		id             string
		mockSetup      func(*MockMRSService)
		expectedStatus int
	}{
		{
			name: "найден",
			id:   id.String(),
			mockSetup: func(m *MockMRSService) {
				m.On("GetMovieByID", mock.Anything, id).Return(movie, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "не найден",
			id:   id.String(),
			mockSetup: func(m *MockMRSService) {
				m.On("GetMovieByID", mock.Anything, id).Return(nil, domain.ErrMovieNotFound)
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "невалидный ID",
			id:             "42",
			mockSetup:      func(m *MockMRSService) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockMRSService)
			tt.mockSetup(mockService)
			handler := newMovieHandler(mockService)

			req := NewTestRequest(t, http.MethodGet, "/api/v1/movies/"+tt.id, nil, map[string]string{"id": tt.id})
			rec := httptest.NewRecorder()
			handler.GetMovieByID(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			mockService.AssertExpectations(t)
		})
	}
}

// TestMovieHandler_CreateMovie тестирует создание фильма
func TestMovieHandler_CreateMovie(t *testing.T) {
	releaseDate := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	created := CreateTestMovie(t, uuid.New(), "Dune: Part Two", domain.NewRelease, 12)

	tests := []struct {
		name           string
		requestBody    interface{}
		mockSetup      func(*MockMRSService)
		expectedStatus int
	}{
		{
			name: "успешное создание",
			requestBody: MovieRequest{
				Title: "Dune: Part Two", ReleaseDate: "2024-03-01", PriceCategory: "New Release", AgeRating: 12,
			},
			mockSetup: func(m *MockMRSService) {
				m.On("CreateMovie", mock.Anything, "Dune: Part Two", releaseDate, "New Release", 12).Return(created, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "неизвестная категория",
			requestBody: MovieRequest{
				Title: "Dune: Part Two", ReleaseDate: "2024-03-01", PriceCategory: "Premium", AgeRating: 12,
			},
			mockSetup: func(m *MockMRSService) {
				m.On("CreateMovie", mock.Anything, "Dune: Part Two", releaseDate, "Premium", 12).
					Return(nil, domain.ErrUnknownPriceCategory)
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "невалидная дата",
			requestBody: MovieRequest{
				Title: "Dune: Part Two", ReleaseDate: "01.03.2024", PriceCategory: "New Release",
			},
			mockSetup:      func(m *MockMRSService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "неизвестное поле",
			requestBody:    `{"title":"Dune","director":"Villeneuve"}`,
			mockSetup:      func(m *MockMRSService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "невалидный JSON",
			requestBody:    "invalid json",
			mockSetup:      func(m *MockMRSService) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockMRSService)
			tt.mockSetup(mockService)
			handler := newMovieHandler(mockService)

			req := NewTestRequest(t, http.MethodPost, "/api/v1/movies", tt.requestBody, nil)
			rec := httptest.NewRecorder()
			handler.CreateMovie(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			resp := DecodeResponse(t, rec)
			if tt.expectedStatus == http.StatusCreated {
				AssertSuccess(t, resp)
				data := resp["data"].(map[string]interface{})
				assert.Equal(t, created.MustID().String(), data["id"])
			} else {
				AssertError(t, resp)
			}
			mockService.AssertExpectations(t)
		})
	}
}

func TestMovieHandler_UpdateMovie(t *testing.T) {
	id := uuid.New()
	stored := CreateTestMovie(t, id, "New Title", domain.Children, 6)

	t.Run("успешное обновление", func(t *testing.T) {
		mockService := new(MockMRSService)
		mockService.On("UpdateMovie", mock.Anything, mock.MatchedBy(func(m *domain.Movie) bool {
			return m.MustID() == id && m.Title() == "New Title" && m.PriceCategory() == domain.Children
		})).Return(nil)
		mockService.On("GetMovieByID", mock.Anything, id).Return(stored, nil)

		body := MovieRequest{ID: id.String(), Title: "New Title", ReleaseDate: "2020-01-15", PriceCategory: "Children", AgeRating: 6}
		req := NewTestRequest(t, http.MethodPut, "/api/v1/movies/"+id.String(), body, map[string]string{"id": id.String()})
		rec := httptest.NewRecorder()
		newMovieHandler(mockService).UpdateMovie(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		data := DecodeResponse(t, rec)["data"].(map[string]interface{})
		assert.Equal(t, "New Title", data["title"])
		mockService.AssertExpectations(t)
	})

	t.Run("ID в теле не совпадает", func(t *testing.T) {
		mockService := new(MockMRSService)
		body := MovieRequest{ID: uuid.New().String(), Title: "New Title", ReleaseDate: "2020-01-15", PriceCategory: "Children"}
		req := NewTestRequest(t, http.MethodPut, "/api/v1/movies/"+id.String(), body, map[string]string{"id": id.String()})
		rec := httptest.NewRecorder()
		newMovieHandler(mockService).UpdateMovie(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		mockService.AssertNotCalled(t, "UpdateMovie", mock.Anything, mock.Anything)
	})

	t.Run("неизвестная категория", func(t *testing.T) {
		mockService := new(MockMRSService)
		body := MovieRequest{Title: "New Title", ReleaseDate: "2020-01-15", PriceCategory: "children"}
		req := NewTestRequest(t, http.MethodPut, "/api/v1/movies/"+id.String(), body, map[string]string{"id": id.String()})
		rec := httptest.NewRecorder()
		newMovieHandler(mockService).UpdateMovie(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("фильм не найден", func(t *testing.T) {
		mockService := new(MockMRSService)
		mockService.On("UpdateMovie", mock.Anything, mock.AnythingOfType("*domain.Movie")).Return(domain.ErrMovieNotFound)

		body := MovieRequest{Title: "New Title", ReleaseDate: "2020-01-15", PriceCategory: "Regular"}
		req := NewTestRequest(t, http.MethodPut, "/api/v1/movies/"+id.String(), body, map[string]string{"id": id.String()})
		rec := httptest.NewRecorder()
		newMovieHandler(mockService).UpdateMovie(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		mockService.AssertExpectations(t)
	})
}

func TestMovieHandler_DeleteMovie(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name           string
		serviceErr     error
		expectedStatus int
	}{
		{"удален", nil, http.StatusNoContent},
		{"не найден", domain.ErrMovieNotFound, http.StatusNotFound},
		{"фильм выдан", domain.ErrMovieRented, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockMRSService)
			mockService.On("DeleteMovie", mock.Anything, id).Return(tt.serviceErr)

			req := NewTestRequest(t, http.MethodDelete, "/api/v1/movies/"+id.String(), nil, map[string]string{"id": id.String()})
			rec := httptest.NewRecorder()
			newMovieHandler(mockService).DeleteMovie(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedStatus == http.StatusNoContent {
				assert.Empty(t, rec.Body.String())
			}
			mockService.AssertExpectations(t)
		})
	}
}
