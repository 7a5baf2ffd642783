package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/bookshelf/bookshelf-go/internal/model"
)

var ErrBookNotFound = errors.New("book not found")

// BookRepository handles book persistence operations.
type BookRepository struct {
	db *sql.DB
}

// NewBookRepository creates a new BookRepository.
func NewBookRepository(db *sql.DB) *BookRepository {
	return &BookRepository{db: db}
}

// Create inserts a new book and sets the generated ID on the book struct.
func (r *BookRepository) Create(ctx context.Context, book *model.Book) error {
	query := `INSERT INTO books (user_id, title, author, publication_year, genre, language, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query,
		book.UserID, book.Title, book.Author, book.PublicationYear,
		book.Genre, book.Language, book.CreatedAt, book.UpdatedAt,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	book.ID = id
	return nil
}

// List retrieves all books, newest first.
func (r *BookRepository) List(ctx context.Context) ([]model.Book, error) {
	query := `SELECT book_id, user_id, title, author, publication_year, genre, language, created_at, updated_at
		FROM books ORDER BY book_id DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []model.Book
	for rows.Next() {
		var b model.Book
		if err := rows.Scan(
			&b.ID, &b.UserID, &b.Title, &b.Author, &b.PublicationYear,
			&b.Genre, &b.Language, &b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, err
		}
		books = append(books, b)
	}

	return books, rows.Err()
}

// GetByID retrieves a book by its ID.
func (r *BookRepository) GetByID(ctx context.Context, id int64) (*model.Book, error) {
	query := `SELECT book_id, user_id, title, author, publication_year, genre, language, created_at, updated_at
		FROM books WHERE book_id = ?`

	book := &model.Book{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&book.ID, &book.UserID, &book.Title, &book.Author, &book.PublicationYear,
		&book.Genre, &book.Language, &book.CreatedAt, &book.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}

	return book, nil
}

// GetOwnerID retrieves only the owner's user ID for a book.
func (r *BookRepository) GetOwnerID(ctx context.Context, id int64) (int64, error) {
	query := `SELECT user_id FROM books WHERE book_id = ?`

	var ownerID int64
	err := r.db.QueryRowContext(ctx, query, id).Scan(&ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrBookNotFound
		}
		return 0, err
	}

	return ownerID, nil
}

// Update overwrites the mutable fields of a book and refreshes updated_at.
// The owner is never touched.
func (r *BookRepository) Update(ctx context.Context, id int64, book *model.Book, updatedAt time.Time) error {
	query := `UPDATE books
		SET title = ?, author = ?, publication_year = ?, genre = ?, language = ?, updated_at = ?
		WHERE book_id = ?`

	result, err := r.db.ExecContext(ctx, query,
		book.Title, book.Author, book.PublicationYear,
		book.Genre, book.Language, updatedAt, id,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrBookNotFound
	}

	return nil
}

// Delete removes a book by its ID.
func (r *BookRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM books WHERE book_id = ?`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrBookNotFound
	}

	return nil
}
