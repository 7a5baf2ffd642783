package handler

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookshelf/bookshelf-go/internal/crypto"
	"github.com/bookshelf/bookshelf-go/internal/model"
)

func tokenFor(t *testing.T, userID int64, name string) string {
	t.Helper()
	token, err := crypto.GenerateToken(userID, name, testSecret, time.Hour)
	require.NoError(t, err)
	return token
}

func TestHandleCreate_RequiresToken(t *testing.T) {
	r, mock := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/books",
		`{"title":"Dune","author":"Frank Herbert","publication_year":1965,"genre":"Science Fiction","language":"English"}`, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandleCreate_InvalidGenre(t *testing.T) {
	r, mock := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/books",
		`{"title":"Dune","author":"Frank Herbert","publication_year":1965,"genre":"Sci-Fi","language":"English"}`,
		tokenFor(t, 5, "Alice A"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// No store write may happen for a rejected payload.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandleCreate_Success(t *testing.T) {
	r, mock := newTestRouter(t)

	mock.ExpectExec("INSERT INTO books").
		WithArgs(int64(5), "Dune", "Frank Herbert", 1965, "Science Fiction", "English", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(11, 1))

	rec := doJSON(t, r, http.MethodPost, "/books",
		`{"title":"Dune","author":"Frank Herbert","publication_year":1965,"genre":"Science Fiction","language":"English"}`,
		tokenFor(t, 5, "Alice A"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Created book successfully"}`, rec.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandleGet_NotFound(t *testing.T) {
	r, mock := newTestRouter(t)

	mock.ExpectQuery("SELECT (.+) FROM books WHERE book_id").
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows(bookColumns))

	rec := doJSON(t, r, http.MethodGet, "/books/99", "", tokenFor(t, 5, "Alice A"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandleGet_Found(t *testing.T) {
	r, mock := newTestRouter(t)
	now := time.Now().UTC()

	mock.ExpectQuery("SELECT (.+) FROM books WHERE book_id").
		WithArgs(int64(11)).
		WillReturnRows(sqlmock.NewRows(bookColumns).
			AddRow(int64(11), int64(5), "Dune", "Frank Herbert", 1965, "Science Fiction", "English", now, now))

	rec := doJSON(t, r, http.MethodGet, "/books/11", "", tokenFor(t, 5, "Alice A"))

	require.Equal(t, http.StatusOK, rec.Code)

	var body model.BookResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(11), body.Data.ID)
	assert.Equal(t, "Dune", body.Data.Title)
	assert.Equal(t, int64(5), body.Data.UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandleUpdate_ForbiddenForNonOwner(t *testing.T) {
	r, mock := newTestRouter(t)

	// Book 11 belongs to user 5; user 7 holds a valid token.
	mock.ExpectQuery("SELECT user_id FROM books WHERE book_id").
		WithArgs(int64(11)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(int64(5)))

	rec := doJSON(t, r, http.MethodPut, "/books/11",
		`{"title":"Dune","author":"Frank Herbert","publication_year":1965,"genre":"Science Fiction","language":"English"}`,
		tokenFor(t, 7, "Bob B"))

	assert.Equal(t, http.StatusForbidden, rec.Code)

	// The stored record must be untouched: no UPDATE was expected or run.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandleUpdate_OwnerSucceeds(t *testing.T) {
	r, mock := newTestRouter(t)

	mock.ExpectQuery("SELECT user_id FROM books WHERE book_id").
		WithArgs(int64(11)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(int64(5)))
	mock.ExpectExec("UPDATE books").
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec := doJSON(t, r, http.MethodPut, "/books/11",
		`{"title":"Dune Messiah","author":"Frank Herbert","publication_year":1969,"genre":"Science Fiction","language":"English"}`,
		tokenFor(t, 5, "Alice A"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Updated book details successfully"}`, rec.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandleUpdate_NotFound(t *testing.T) {
	r, mock := newTestRouter(t)

	mock.ExpectQuery("SELECT user_id FROM books WHERE book_id").
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}))

	rec := doJSON(t, r, http.MethodPut, "/books/99",
		`{"title":"Dune","author":"Frank Herbert","publication_year":1965,"genre":"Science Fiction","language":"English"}`,
		tokenFor(t, 5, "Alice A"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandleDelete_ForbiddenForNonOwner(t *testing.T) {
	r, mock := newTestRouter(t)

	mock.ExpectQuery("SELECT user_id FROM books WHERE book_id").
		WithArgs(int64(11)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(int64(5)))

	rec := doJSON(t, r, http.MethodDelete, "/books/11", "", tokenFor(t, 7, "Bob B"))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandleDelete_OwnerSucceeds(t *testing.T) {
	r, mock := newTestRouter(t)

	mock.ExpectQuery("SELECT user_id FROM books WHERE book_id").
		WithArgs(int64(11)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(int64(5)))
	mock.ExpectExec("DELETE FROM books WHERE book_id").
		WithArgs(int64(11)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec := doJSON(t, r, http.MethodDelete, "/books/11", "", tokenFor(t, 5, "Alice A"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandleList_ExpiredToken(t *testing.T) {
	r, mock := newTestRouter(t)

	expired, err := crypto.GenerateToken(5, "Alice A", testSecret, -time.Second)
	require.NoError(t, err)

	rec := doJSON(t, r, http.MethodGet, "/books", "", expired)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestRegisterLoginCreateListFlow walks the full happy path: register,
// login, create a book with the issued token, then see it in the list
// with the creator as owner.
func TestRegisterLoginCreateListFlow(t *testing.T) {
	r, mock := newTestRouter(t)
	now := time.Now().UTC()

	hash, err := crypto.HashPasswordCost("pw1", testBcryptCost)
	require.NoError(t, err)

	// register
	mock.ExpectQuery("SELECT (.+) FROM users WHERE username").
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows(userColumns))
	mock.ExpectExec("INSERT INTO users").
		WillReturnResult(sqlmock.NewResult(5, 1))

	// login
	mock.ExpectQuery("SELECT (.+) FROM users WHERE username").
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(int64(5), "alice", hash, "Alice A", now, now, now))
	mock.ExpectExec("UPDATE users SET last_logged_in").
		WillReturnResult(sqlmock.NewResult(0, 1))

	// create book
	mock.ExpectExec("INSERT INTO books").
		WithArgs(int64(5), "Sapiens", "Yuval Noah Harari", 2014, "History", "English", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(11, 1))

	// list books
	mock.ExpectQuery("SELECT (.+) FROM books ORDER BY book_id DESC").
		WillReturnRows(sqlmock.NewRows(bookColumns).
			AddRow(int64(11), int64(5), "Sapiens", "Yuval Noah Harari", 2014, "History", "English", now, now))

	rec := doJSON(t, r, http.MethodPost, "/auth/register",
		`{"username":"alice","password":"pw1","full_name":"Alice A"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, r, http.MethodPost, "/auth/login",
		`{"username":"alice","password":"pw1"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var login model.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
	require.NotEmpty(t, login.Token)

	rec = doJSON(t, r, http.MethodPost, "/books",
		`{"title":"Sapiens","author":"Yuval Noah Harari","publication_year":2014,"genre":"History","language":"English"}`,
		login.Token)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, r, http.MethodGet, "/books", "", login.Token)
	require.Equal(t, http.StatusOK, rec.Code)

	var list model.BookListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Data, 1)
	assert.Equal(t, "Sapiens", list.Data[0].Title)
	assert.Equal(t, int64(5), list.Data[0].UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
