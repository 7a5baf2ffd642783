package model

import "time"

// Book represents a book in the database. UserID is the owner, set once
// at creation from the authenticated caller and never changed afterwards.
type Book struct {
	ID              int64     `json:"book_id"`
	UserID          int64     `json:"user_id"`
	Title           string    `json:"title"`
	Author          string    `json:"author"`
	PublicationYear int       `json:"publication_year"`
	Genre           string    `json:"genre"`
	Language        string    `json:"language"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// BookRequest represents the payload for creating or updating a book.
type BookRequest struct {
	Title           string `json:"title"`
	Author          string `json:"author"`
	PublicationYear int    `json:"publication_year"`
	Genre           string `json:"genre"`
	Language        string `json:"language"`
}

// BookResponse wraps a single book for API responses.
type BookResponse struct {
	Data Book `json:"data"`
}

// BookListResponse wraps a list of books for API responses.
type BookListResponse struct {
	Data []Book `json:"data"`
}

// Genres lists the accepted book genres.
var Genres = []string{
	"Fiction",
	"Non-Fiction",
	"Fantasy",
	"Mystery",
	"Romance",
	"Science Fiction",
	"Biography",
	"History",
	"Thriller",
	"Horror",
}

// Languages lists the accepted book languages.
var Languages = []string{
	"English",
	"Thai",
}

// ValidGenre reports whether g is one of the accepted genres.
func ValidGenre(g string) bool {
	for _, v := range Genres {
		if v == g {
			return true
		}
	}
	return false
}

// ValidLanguage reports whether l is one of the accepted languages.
func ValidLanguage(l string) bool {
	for _, v := range Languages {
		if v == l {
			return true
		}
	}
	return false
}
