// db/repo_instances.go
package db

import (
	"context"
	"time"

	"Gin_postgres_redis_local_library/models"
	"Gin_postgres_redis_local_library/services"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const InstancePageSize = 10

// InstanceFilter narrows the copy list the way the admin list filter does.
type InstanceFilter struct {
	Status  models.LoanStatus
	DueBack *time.Time
	BookID  uint
}

func (r *Repo) ListInstances(ctx context.Context, f InstanceFilter, p Page) (*Paged[models.BookInstance], error) {
	tx := r.DB.WithContext(ctx).Model(&models.BookInstance{}).Preload("Book")
	if f.Status != "" {
		tx = tx.Where("status = ?", f.Status)
	}
	if f.DueBack != nil {
		tx = tx.Where("due_back = ?", f.DueBack.Format(services.DateLayout))
	}
	if f.BookID != 0 {
		tx = tx.Where("book_id = ?", f.BookID)
	}
	tx = tx.Order("due_back, id")
	return paginate[models.BookInstance](tx, p, InstancePageSize)
}

// ListBorrowed returns copies on loan ordered by due date. An empty
// borrowerID lists every borrower's loans.
func (r *Repo) ListBorrowed(ctx context.Context, borrowerID string, p Page) (*Paged[models.BookInstance], error) {
	tx := r.DB.WithContext(ctx).Model(&models.BookInstance{}).
		Preload("Book").
		Preload("Borrower").
		Where("status = ?", models.StatusOnLoan)
	if borrowerID != "" {
		tx = tx.Where("borrower_id = ?", borrowerID)
	}
	tx = tx.Order("due_back, id")
	return paginate[models.BookInstance](tx, p, InstancePageSize)
}

// FindInstanceByID treats a malformed id like an unknown one.
func (r *Repo) FindInstanceByID(ctx context.Context, id string) (*models.BookInstance, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, services.ErrNotFound
	}
	var bi models.BookInstance
	if err := r.DB.WithContext(ctx).Preload("Book").First(&bi, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &bi, nil
}

// SetInstanceDueBack is a single-row UPDATE of due_back alone, so it either
// applies fully or not at all; concurrent writers to the same copy resolve
// last-write-wins. UpdateColumn keeps gorm from also stamping updated_at.
func (r *Repo) SetInstanceDueBack(ctx context.Context, id string, dueBack time.Time) error {
	res := r.DB.WithContext(ctx).Model(&models.BookInstance{}).
		Where("id = ?", id).
		UpdateColumn("due_back", dueBack.Format(services.DateLayout))
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return services.ErrNotFound
	}
	return nil
}

func checkInstanceRefs(tx *gorm.DB, bi *models.BookInstance) error {
	ok, err := exists(tx, &models.Book{}, bi.BookID)
	if err != nil {
		return err
	}
	if !ok {
		return services.NewValidationError("book", "Select a valid book.")
	}
	if bi.BorrowerID != nil {
		if _, err := uuid.Parse(*bi.BorrowerID); err != nil {
			return services.NewValidationError("borrower", "Select a valid borrower.")
		}
		ok, err := exists(tx, &models.User{}, *bi.BorrowerID)
		if err != nil {
			return err
		}
		if !ok {
			return services.NewValidationError("borrower", "Select a valid borrower.")
		}
	}
	return nil
}

func (r *Repo) CreateInstance(ctx context.Context, bi *models.BookInstance) error {
	if bi.ID == "" {
		bi.ID = uuid.NewString()
	}
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkInstanceRefs(tx, bi); err != nil {
			return err
		}
		return translate(tx.Omit("Book", "Borrower").Create(bi).Error)
	})
}

func (r *Repo) UpdateInstance(ctx context.Context, bi *models.BookInstance) error {
	if _, err := uuid.Parse(bi.ID); err != nil {
		return services.ErrNotFound
	}
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkInstanceRefs(tx, bi); err != nil {
			return err
		}
		return updateByID(tx, &models.BookInstance{
			BookID: bi.BookID, Imprint: bi.Imprint, DueBack: bi.DueBack,
			Status: bi.Status, BorrowerID: bi.BorrowerID,
		}, bi.ID, "book_id", "imprint", "due_back", "status", "borrower_id")
	})
}

func (r *Repo) DeleteInstance(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return services.ErrNotFound
	}
	return deleteByID(r.DB.WithContext(ctx), &models.BookInstance{}, id)
}

// CatalogCounts gathers the landing page totals.
func (r *Repo) CatalogCounts(ctx context.Context) (models.CatalogCounts, error) {
	var c models.CatalogCounts
	db := r.DB.WithContext(ctx)
	counts := []struct {
		tx  *gorm.DB
		dst *int64
	}{
		{db.Model(&models.Book{}), &c.NumBooks},
		{db.Model(&models.BookInstance{}), &c.NumInstances},
		{db.Model(&models.BookInstance{}).Where("status = ?", models.StatusAvailable), &c.NumInstancesAvailable},
		{db.Model(&models.Author{}), &c.NumAuthors},
		{db.Model(&models.Genre{}), &c.NumGenres},
	}
	for _, q := range counts {
		if err := q.tx.Count(q.dst).Error; err != nil {
			return models.CatalogCounts{}, err
		}
	}
	return c, nil
}
