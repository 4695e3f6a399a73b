package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/frontandrew/movierental/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// CreateTestMovie создает тестовый фильм с назначенным ID
func CreateTestMovie(t *testing.T, id uuid.UUID, title string, pc domain.PriceCategory, ageRating int) *domain.Movie {
	t.Helper()
	movie, err := domain.NewMovie(title, time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC), pc, ageRating)
	if err != nil {
		t.Fatalf("create test movie: %v", err)
	}
	if err := movie.AssignID(id); err != nil {
		t.Fatalf("assign movie id: %v", err)
	}
	return movie
}

// CreateTestUser создает тестового пользователя с назначенным ID
func CreateTestUser(t *testing.T, id uuid.UUID, name, firstName string) *domain.User {
	t.Helper()
	user, err := domain.NewUser(name, firstName, time.Date(1990, 5, 20, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("create test user: %v", err)
	}
	if err := user.AssignID(id); err != nil {
		t.Fatalf("assign user id: %v", err)
	}
	return user
}

// CreateTestRental создает прокат через правила предметной области
func CreateTestRental(t *testing.T, id uuid.UUID, user *domain.User, movie *domain.Movie, rentalDate time.Time) *domain.Rental {
	t.Helper()
	rental, err := domain.NewRental(user, movie, rentalDate)
	if err != nil {
		t.Fatalf("create test rental: %v", err)
	}
	if err := rental.AssignID(id); err != nil {
		t.Fatalf("assign rental id: %v", err)
	}
	return rental
}

// NewTestRequest создает запрос с JSON телом и параметрами пути chi
func NewTestRequest(t *testing.T, method, target string, body interface{}, params map[string]string) *http.Request {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")

	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for k, v := range params {
			rctx.URLParams.Add(k, v)
		}
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}
	return req
}

// DecodeResponse разбирает JSON ответ
func DecodeResponse(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return response
}

// AssertSuccess проверяет успешный ответ API
func AssertSuccess(t *testing.T, response map[string]interface{}) {
	t.Helper()
	success, ok := response["success"].(bool)
	if !ok || !success {
		t.Errorf("Expected success=true, got %v", response)
	}
}

// AssertError проверяет ошибочный ответ API
func AssertError(t *testing.T, response map[string]interface{}) {
	t.Helper()
	success, ok := response["success"].(bool)
	if !ok || success {
		t.Errorf("Expected success=false, got %v", response)
	}
}
