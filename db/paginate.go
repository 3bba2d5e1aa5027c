package db

import (
	"Gin_postgres_redis_local_library/services"

	"gorm.io/gorm"
)

const maxPageSize = 100

// Page selects one page of a list, numbered from 1.
type Page struct {
	Number int
	Size   int
}

func (p Page) normalize(defSize int) Page {
	if p.Number <= 0 {
		p.Number = 1
	}
	if p.Size <= 0 || p.Size > maxPageSize {
		p.Size = defSize
	}
	return p
}

// Paged is one page of results plus what a client needs to walk the rest.
type Paged[T any] struct {
	Count    int64 `json:"count"`
	Page     int   `json:"page"`
	NumPages int   `json:"num_pages"`
	Results  []T   `json:"results"`
}

// numPages is never less than 1 so the first page of an empty list exists.
func numPages(count int64, size int) int {
	if count == 0 {
		return 1
	}
	return int((count + int64(size) - 1) / int64(size))
}

// paginate counts tx, then loads the requested page into a Paged. A page past
// the end is ErrNotFound.
func paginate[T any](tx *gorm.DB, p Page, defSize int) (*Paged[T], error) {
	p = p.normalize(defSize)

	var total int64
	if err := tx.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, err
	}
	pages := numPages(total, p.Size)
	if p.Number > pages {
		return nil, services.ErrNotFound
	}

	rows := make([]T, 0, p.Size)
	if err := tx.Offset((p.Number - 1) * p.Size).Limit(p.Size).Find(&rows).Error; err != nil {
		return nil, err
	}
	return &Paged[T]{Count: total, Page: p.Number, NumPages: pages, Results: rows}, nil
}
