package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bookshelf/bookshelf-go/internal/model"
	"github.com/bookshelf/bookshelf-go/internal/repository"
)

var (
	ErrTitleRequired           = errors.New("please include the title of your book")
	ErrAuthorRequired          = errors.New("please include the author of your book")
	ErrPublicationYearRequired = errors.New("please include the publication year of your book")
	ErrInvalidGenre            = errors.New("please include the genre of your book such as " + strings.Join(model.Genres, ", "))
	ErrInvalidLanguage         = errors.New("please include the language of your book such as " + strings.Join(model.Languages, ", "))

	ErrBookNotFound = errors.New("book not found")
	ErrNotOwner     = errors.New("you do not have permission to modify this book")
)

// BookService handles book business logic, including ownership checks
// on mutating operations.
type BookService struct {
	repo *repository.BookRepository
}

// NewBookService creates a new BookService.
func NewBookService(repo *repository.BookRepository) *BookService {
	return &BookService{repo: repo}
}

// validateBook rejects a payload before any store write happens.
func validateBook(req model.BookRequest) error {
	if req.Title == "" {
		return ErrTitleRequired
	}
	if req.Author == "" {
		return ErrAuthorRequired
	}
	if req.PublicationYear == 0 {
		return ErrPublicationYearRequired
	}
	if !model.ValidGenre(req.Genre) {
		return ErrInvalidGenre
	}
	if !model.ValidLanguage(req.Language) {
		return ErrInvalidLanguage
	}
	return nil
}

// checkOwnership loads the stored owner of a book and compares it against
// the caller. Returns ErrBookNotFound if no such book exists, ErrNotOwner
// if the caller is not the owner.
func (s *BookService) checkOwnership(ctx context.Context, bookID, callerID int64) error {
	ownerID, err := s.repo.GetOwnerID(ctx, bookID)
	if err != nil {
		if errors.Is(err, repository.ErrBookNotFound) {
			return ErrBookNotFound
		}
		return err
	}
	if ownerID != callerID {
		return ErrNotOwner
	}
	return nil
}

// Create validates the payload and persists a new book owned by userID.
// The owner always comes from the authenticated caller, never the payload.
func (s *BookService) Create(ctx context.Context, userID int64, req model.BookRequest) error {
	if err := validateBook(req); err != nil {
		return err
	}

	now := time.Now().UTC()
	book := &model.Book{
		UserID:          userID,
		Title:           req.Title,
		Author:          req.Author,
		PublicationYear: req.PublicationYear,
		Genre:           req.Genre,
		Language:        req.Language,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	return s.repo.Create(ctx, book)
}

// List returns all books in the collection.
func (s *BookService) List(ctx context.Context) ([]model.Book, error) {
	books, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if books == nil {
		books = []model.Book{}
	}
	return books, nil
}

// Get returns the book with the given ID.
func (s *BookService) Get(ctx context.Context, id int64) (*model.Book, error) {
	book, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBookNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	return book, nil
}

// Update overwrites a book's fields after verifying the caller owns it.
func (s *BookService) Update(ctx context.Context, callerID, bookID int64, req model.BookRequest) error {
	if err := validateBook(req); err != nil {
		return err
	}

	if err := s.checkOwnership(ctx, bookID, callerID); err != nil {
		return err
	}

	book := &model.Book{
		Title:           req.Title,
		Author:          req.Author,
		PublicationYear: req.PublicationYear,
		Genre:           req.Genre,
		Language:        req.Language,
	}

	err := s.repo.Update(ctx, bookID, book, time.Now().UTC())
	if errors.Is(err, repository.ErrBookNotFound) {
		// Deleted between the ownership check and the update.
		return ErrBookNotFound
	}
	return err
}

// Delete removes a book after verifying the caller owns it. Books belong
// to their creator, so delete gets the same ownership check as update.
func (s *BookService) Delete(ctx context.Context, callerID, bookID int64) error {
	if err := s.checkOwnership(ctx, bookID, callerID); err != nil {
		return err
	}

	err := s.repo.Delete(ctx, bookID)
	if errors.Is(err, repository.ErrBookNotFound) {
		return ErrBookNotFound
	}
	return err
}
