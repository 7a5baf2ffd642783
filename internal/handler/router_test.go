package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/bookshelf/bookshelf-go/internal/middleware"
	"github.com/bookshelf/bookshelf-go/internal/repository"
	"github.com/bookshelf/bookshelf-go/internal/service"
)

const (
	testSecret     = "test-secret"
	testBcryptCost = 4
)

var userColumns = []string{"user_id", "username", "password", "full_name", "created_at", "updated_at", "last_logged_in"}

var bookColumns = []string{"book_id", "user_id", "title", "author", "publication_year", "genre", "language", "created_at", "updated_at"}

// newTestRouter builds the same route table as cmd/api over a mocked DB.
func newTestRouter(t *testing.T) (*chi.Mux, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	authHandler := NewAuthHandler(service.NewAuthService(
		repository.NewUserRepository(db), testSecret, time.Hour, testBcryptCost))
	bookHandler := NewBookHandler(service.NewBookService(
		repository.NewBookRepository(db)))

	r := chi.NewRouter()
	r.Post("/auth/register", authHandler.HandleRegister)
	r.Post("/auth/login", authHandler.HandleLogin)
	r.Post("/auth/logout", authHandler.HandleLogout)

	r.Group(func(r chi.Router) {
		r.Use(middleware.JWTAuth(testSecret))
		r.Post("/books", bookHandler.HandleCreate)
		r.Get("/books", bookHandler.HandleList)
		r.Get("/books/{id}", bookHandler.HandleGet)
		r.Put("/books/{id}", bookHandler.HandleUpdate)
		r.Delete("/books/{id}", bookHandler.HandleDelete)
	})

	return r, mock
}

func doJSON(t *testing.T, r http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}
