// db/repo_catalog.go
package db

import (
	"context"

	"Gin_postgres_redis_local_library/models"
	"Gin_postgres_redis_local_library/services"

	"gorm.io/gorm"
)

const (
	BookPageSize   = 10
	AuthorPageSize = 5
	NamePageSize   = 20
)

// exists reports whether a row of model with the given primary key exists.
func exists(tx *gorm.DB, model any, id any) (bool, error) {
	var n int64
	if err := tx.Model(model).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// updateByID writes the selected columns of row and fails with ErrNotFound
// when nothing matched.
func updateByID(tx *gorm.DB, row any, id any, columns ...string) error {
	res := tx.Model(row).Where("id = ?", id).Select(columns).Updates(row)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return services.ErrNotFound
	}
	return nil
}

func deleteByID(tx *gorm.DB, model any, id any) error {
	res := tx.Where("id = ?", id).Delete(model)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return services.ErrNotFound
	}
	return nil
}

// Authors

func (r *Repo) ListAuthors(ctx context.Context, p Page) (*Paged[models.Author], error) {
	tx := r.DB.WithContext(ctx).Model(&models.Author{}).Order("last_name, first_name")
	return paginate[models.Author](tx, p, AuthorPageSize)
}

func (r *Repo) FindAuthor(ctx context.Context, id uint) (*models.Author, error) {
	var a models.Author
	err := r.DB.WithContext(ctx).
		Preload("Books", func(tx *gorm.DB) *gorm.DB { return tx.Order("title") }).
		First(&a, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (r *Repo) CreateAuthor(ctx context.Context, a *models.Author) error {
	return translate(r.DB.WithContext(ctx).Omit("Books").Create(a).Error)
}

func (r *Repo) UpdateAuthor(ctx context.Context, a *models.Author) error {
	return updateByID(r.DB.WithContext(ctx), a, a.ID,
		"first_name", "last_name", "date_of_birth", "date_of_death")
}

// DeleteAuthor refuses while books still reference the author.
func (r *Repo) DeleteAuthor(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Book{}).Where("author_id = ?", id).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return services.ErrConflict
		}
		return deleteByID(tx, &models.Author{}, id)
	})
}

// Genres

func (r *Repo) ListGenres(ctx context.Context, p Page) (*Paged[models.Genre], error) {
	tx := r.DB.WithContext(ctx).Model(&models.Genre{}).Order("name")
	return paginate[models.Genre](tx, p, NamePageSize)
}

func (r *Repo) FindGenre(ctx context.Context, id uint) (*models.Genre, error) {
	var g models.Genre
	if err := r.DB.WithContext(ctx).First(&g, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &g, nil
}

func (r *Repo) CreateGenre(ctx context.Context, g *models.Genre) error {
	return translate(r.DB.WithContext(ctx).Create(g).Error)
}

func (r *Repo) UpdateGenre(ctx context.Context, g *models.Genre) error {
	return updateByID(r.DB.WithContext(ctx), g, g.ID, "name")
}

// DeleteGenre also drops the genre from every book.
func (r *Repo) DeleteGenre(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM "+models.BookGenreJoin+" WHERE genre_id = ?", id).Error; err != nil {
			return err
		}
		return deleteByID(tx, &models.Genre{}, id)
	})
}

// Languages

func (r *Repo) ListLanguages(ctx context.Context, p Page) (*Paged[models.BookLanguage], error) {
	tx := r.DB.WithContext(ctx).Model(&models.BookLanguage{}).Order("name")
	return paginate[models.BookLanguage](tx, p, NamePageSize)
}

func (r *Repo) FindLanguage(ctx context.Context, id uint) (*models.BookLanguage, error) {
	var l models.BookLanguage
	if err := r.DB.WithContext(ctx).First(&l, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &l, nil
}

func (r *Repo) CreateLanguage(ctx context.Context, l *models.BookLanguage) error {
	return translate(r.DB.WithContext(ctx).Create(l).Error)
}

func (r *Repo) UpdateLanguage(ctx context.Context, l *models.BookLanguage) error {
	return updateByID(r.DB.WithContext(ctx), l, l.ID, "name")
}

func (r *Repo) DeleteLanguage(ctx context.Context, id uint) error {
	return deleteByID(r.DB.WithContext(ctx), &models.BookLanguage{}, id)
}

// Books

func (r *Repo) ListBooks(ctx context.Context, p Page) (*Paged[models.Book], error) {
	tx := r.DB.WithContext(ctx).Model(&models.Book{}).
		Preload("Author").
		Preload("Genres", func(tx *gorm.DB) *gorm.DB { return tx.Order("name") }).
		Order("title, id")
	return paginate[models.Book](tx, p, BookPageSize)
}

// FindBook loads a book with its author, language, genres and copies.
func (r *Repo) FindBook(ctx context.Context, id uint) (*models.Book, error) {
	var b models.Book
	err := r.DB.WithContext(ctx).
		Preload("Author").
		Preload("Language").
		Preload("Genres", func(tx *gorm.DB) *gorm.DB { return tx.Order("name") }).
		Preload("Instances", func(tx *gorm.DB) *gorm.DB { return tx.Order("due_back") }).
		First(&b, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &b, nil
}

// checkBookRefs turns dangling author/language/genre ids into validation
// errors and loads the genres to attach.
func checkBookRefs(tx *gorm.DB, b *models.Book, genreIDs []uint) ([]models.Genre, error) {
	if b.AuthorID != nil {
		ok, err := exists(tx, &models.Author{}, *b.AuthorID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, services.NewValidationError("author", "Select a valid author.")
		}
	}
	if b.LanguageID != nil {
		ok, err := exists(tx, &models.BookLanguage{}, *b.LanguageID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, services.NewValidationError("language", "Select a valid language.")
		}
	}
	genres := []models.Genre{}
	if len(genreIDs) == 0 {
		return genres, nil
	}
	if err := tx.Where("id IN ?", genreIDs).Find(&genres).Error; err != nil {
		return nil, err
	}
	if len(genres) != len(uniqueIDs(genreIDs)) {
		return nil, services.NewValidationError("genre", "Select valid genres.")
	}
	return genres, nil
}

func uniqueIDs(ids []uint) map[uint]struct{} {
	m := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		m[id] = struct{}{}
	}
	return m
}

func (r *Repo) CreateBook(ctx context.Context, b *models.Book, genreIDs []uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		genres, err := checkBookRefs(tx, b, genreIDs)
		if err != nil {
			return err
		}
		if err := tx.Omit("Author", "Language", "Genres", "Instances").Create(b).Error; err != nil {
			return translate(err)
		}
		if len(genres) > 0 {
			if err := tx.Model(b).Association("Genres").Replace(genres); err != nil {
				return err
			}
		}
		b.Genres = genres
		return nil
	})
}

func (r *Repo) UpdateBook(ctx context.Context, b *models.Book, genreIDs []uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		genres, err := checkBookRefs(tx, b, genreIDs)
		if err != nil {
			return err
		}
		if err := updateByID(tx, &models.Book{
			Title: b.Title, Summary: b.Summary, ISBN: b.ISBN,
			AuthorID: b.AuthorID, LanguageID: b.LanguageID,
		}, b.ID, "title", "summary", "isbn", "author_id", "language_id"); err != nil {
			return err
		}
		if err := tx.Model(&models.Book{ID: b.ID}).Association("Genres").Replace(genres); err != nil {
			return err
		}
		b.Genres = genres
		return nil
	})
}

// DeleteBook refuses while copies of the book exist.
func (r *Repo) DeleteBook(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.BookInstance{}).Where("book_id = ?", id).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return services.ErrConflict
		}
		if err := tx.Exec("DELETE FROM "+models.BookGenreJoin+" WHERE book_id = ?", id).Error; err != nil {
			return err
		}
		return deleteByID(tx, &models.Book{}, id)
	})
}
