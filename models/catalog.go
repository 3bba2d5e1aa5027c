// models/catalog.go
package models

import (
	"strings"
	"time"
)

const (
	AuthorTable   = "ll_authors"
	GenreTable    = "ll_genres"
	LanguageTable = "ll_languages"
	BookTable     = "ll_books"
	BookGenreJoin = "ll_book_genres"
)

type Author struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	FirstName   string     `gorm:"size:100;not null" json:"firstName"`
	LastName    string     `gorm:"size:100;not null;index" json:"lastName"`
	DateOfBirth *time.Time `gorm:"type:date" json:"dateOfBirth,omitempty"`
	DateOfDeath *time.Time `gorm:"type:date" json:"dateOfDeath,omitempty"`
	Books       []Book     `gorm:"foreignKey:AuthorID;constraint:OnDelete:RESTRICT" json:"books,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (Author) TableName() string { return AuthorTable }

// Name is "Last, First", the way authors are listed.
func (a *Author) Name() string { return a.LastName + ", " + a.FirstName }

type Genre struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:200;uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Genre) TableName() string { return GenreTable }

type BookLanguage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:200;uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (BookLanguage) TableName() string { return LanguageTable }

type Book struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	Title      string         `gorm:"size:200;not null;index" json:"title"`
	Summary    string         `gorm:"size:1000" json:"summary"`
	ISBN       string         `gorm:"column:isbn;size:13;uniqueIndex;not null" json:"isbn"`
	AuthorID   *uint          `gorm:"index" json:"authorId,omitempty"`
	Author     *Author        `json:"author,omitempty"`
	LanguageID *uint          `gorm:"index" json:"languageId,omitempty"`
	Language   *BookLanguage  `gorm:"constraint:OnDelete:SET NULL" json:"language,omitempty"`
	Genres     []Genre        `gorm:"many2many:ll_book_genres;" json:"genres,omitempty"`
	Instances  []BookInstance `gorm:"constraint:OnDelete:RESTRICT" json:"instances,omitempty"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}

func (Book) TableName() string { return BookTable }

// DisplayGenre joins the first three genre names.
func (b *Book) DisplayGenre() string {
	names := make([]string, 0, 3)
	for i, g := range b.Genres {
		if i == 3 {
			break
		}
		names = append(names, g.Name)
	}
	return strings.Join(names, ", ")
}

// CatalogCounts backs the landing view.
type CatalogCounts struct {
	NumBooks              int64 `json:"num_books"`
	NumInstances          int64 `json:"num_instances"`
	NumInstancesAvailable int64 `json:"num_instances_available"`
	NumAuthors            int64 `json:"num_authors"`
	NumGenres             int64 `json:"num_genres"`
}
