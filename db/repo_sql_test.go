package db

import (
	"context"
	"strings"
	"testing"
	"time"

	"Gin_postgres_redis_local_library/models"
	"Gin_postgres_redis_local_library/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type recordedSQL struct {
	sql  string
	vars []any
}

// dryRunRepo builds a Repo whose statements are rendered but never sent to
// a server; every query and update is recorded in order.
func dryRunRepo(t *testing.T) (*Repo, *[]recordedSQL) {
	t.Helper()
	conn, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=127.0.0.1 user=test dbname=test sslmode=disable",
	}), &gorm.Config{
		DryRun:                 true,
		DisableAutomaticPing:   true,
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Discard,
	})
	require.NoError(t, err)

	var stmts []recordedSQL
	record := func(tx *gorm.DB) {
		vars := append([]any(nil), tx.Statement.Vars...)
		stmts = append(stmts, recordedSQL{sql: tx.Statement.SQL.String(), vars: vars})
	}
	require.NoError(t, conn.Callback().Query().After("gorm:query").Register("test:record_query", record))
	require.NoError(t, conn.Callback().Update().After("gorm:update").Register("test:record_update", record))
	return NewRepo(conn), &stmts
}

func TestListBorrowedFiltersCallerLoans(t *testing.T) {
	repo, stmts := dryRunRepo(t)

	_, err := repo.ListBorrowed(context.Background(), "u-1", Page{Number: 1})
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(*stmts), 2)

	count, list := (*stmts)[0], (*stmts)[1]
	assert.Equal(t, `SELECT count(*) FROM "ll_book_instances" WHERE status = $1 AND borrower_id = $2`, count.sql)
	assert.Equal(t, []any{models.StatusOnLoan, "u-1"}, count.vars)

	assert.True(t, strings.HasPrefix(list.sql, `SELECT * FROM "ll_book_instances" WHERE status = $1 AND borrower_id = $2`), list.sql)
	assert.Contains(t, list.sql, "ORDER BY due_back, id")
	assert.Contains(t, list.sql, "LIMIT $3")
	assert.Equal(t, []any{models.StatusOnLoan, "u-1", InstancePageSize}, list.vars)
}

func TestListBorrowedAllBorrowers(t *testing.T) {
	repo, stmts := dryRunRepo(t)

	_, err := repo.ListBorrowed(context.Background(), "", Page{Number: 1})
	require.NoError(t, err)
	require.NotEmpty(t, *stmts)

	assert.Equal(t, `SELECT count(*) FROM "ll_book_instances" WHERE status = $1`, (*stmts)[0].sql)
	for _, s := range *stmts {
		assert.NotContains(t, s.sql, "borrower_id =")
	}
}

func TestListBorrowedPagePastEnd(t *testing.T) {
	repo, stmts := dryRunRepo(t)

	// Nothing is counted in a dry run, so page 2 of an empty list is past the end.
	_, err := repo.ListBorrowed(context.Background(), "u-1", Page{Number: 2})
	assert.ErrorIs(t, err, services.ErrNotFound)
	require.Len(t, *stmts, 1)
	assert.True(t, strings.HasPrefix((*stmts)[0].sql, "SELECT count(*)"))
}

func TestListInstancesFilters(t *testing.T) {
	repo, stmts := dryRunRepo(t)
	due := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	_, err := repo.ListInstances(context.Background(),
		InstanceFilter{Status: models.StatusAvailable, DueBack: &due, BookID: 3}, Page{Number: 1})
	require.NoError(t, err)
	require.NotEmpty(t, *stmts)

	assert.Equal(t, `SELECT count(*) FROM "ll_book_instances" WHERE status = $1 AND due_back = $2 AND book_id = $3`, (*stmts)[0].sql)
	assert.Equal(t, []any{models.StatusAvailable, "2024-06-01", uint(3)}, (*stmts)[0].vars)
}

func TestSetInstanceDueBackWritesOnlyDueBack(t *testing.T) {
	repo, stmts := dryRunRepo(t)
	id := "0b6f4c7e-2f1d-4c1a-9e7a-3d5b6c7d8e9f"

	err := repo.SetInstanceDueBack(context.Background(), id, time.Date(2024, 6, 29, 0, 0, 0, 0, time.UTC))
	// A dry run affects no rows, which is how a missing copy is reported.
	assert.ErrorIs(t, err, services.ErrNotFound)

	require.Len(t, *stmts, 1)
	assert.Equal(t, `UPDATE "ll_book_instances" SET "due_back"=$1 WHERE id = $2`, (*stmts)[0].sql)
	assert.Equal(t, []any{"2024-06-29", id}, (*stmts)[0].vars)
}
