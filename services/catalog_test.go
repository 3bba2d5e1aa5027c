package services

import (
	"testing"

	"Gin_postgres_redis_local_library/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAuthor(t *testing.T) {
	born, died := day(1920, 1, 2), day(1992, 4, 6)

	a := &models.Author{FirstName: " Isaac ", LastName: "Asimov", DateOfBirth: &born, DateOfDeath: &died}
	require.NoError(t, ValidateAuthor(a))
	assert.Equal(t, "Isaac", a.FirstName)

	reversed := &models.Author{FirstName: "Isaac", LastName: "Asimov", DateOfBirth: &died, DateOfDeath: &born}
	ve, ok := AsValidation(ValidateAuthor(reversed))
	require.True(t, ok)
	assert.Equal(t, "date_of_death", ve.Field)

	same := &models.Author{FirstName: "A", LastName: "B", DateOfBirth: &born, DateOfDeath: &born}
	assert.NoError(t, ValidateAuthor(same))

	ve, ok = AsValidation(ValidateAuthor(&models.Author{FirstName: "A"}))
	require.True(t, ok)
	assert.Equal(t, "last_name", ve.Field)
}

func TestValidateInstance(t *testing.T) {
	due := day(2024, 6, 10)
	borrower := "3b0f6a3e-2b1d-4a55-8f43-0f4f3c2a1b10"

	testCases := []struct {
		name  string
		in    models.BookInstance
		field string
	}{
		{"available copy", models.BookInstance{BookID: 1, Status: models.StatusAvailable}, ""},
		{"default status", models.BookInstance{BookID: 1}, ""},
		{"on loan", models.BookInstance{BookID: 1, Status: models.StatusOnLoan, DueBack: &due, BorrowerID: &borrower}, ""},
		{"on loan without due date", models.BookInstance{BookID: 1, Status: models.StatusOnLoan}, "due_back"},
		{"borrower while reserved", models.BookInstance{BookID: 1, Status: models.StatusReserved, BorrowerID: &borrower}, "borrower"},
		{"unknown status", models.BookInstance{BookID: 1, Status: "x"}, "status"},
		{"missing book", models.BookInstance{Status: models.StatusAvailable}, "book"},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			in := tt.in
			err := ValidateInstance(&in)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			ve, ok := AsValidation(err)
			require.True(t, ok)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestValidateBook(t *testing.T) {
	assert.NoError(t, ValidateBook(&models.Book{Title: "Foundation", ISBN: "9780553293357"}))

	ve, ok := AsValidation(ValidateBook(&models.Book{Title: "Foundation", ISBN: "978055329335X"}))
	require.True(t, ok)
	assert.Equal(t, "isbn", ve.Field)

	ve, ok = AsValidation(ValidateBook(&models.Book{ISBN: "9780553293357"}))
	require.True(t, ok)
	assert.Equal(t, "title", ve.Field)
}

func TestDisplayGenre(t *testing.T) {
	b := models.Book{Genres: []models.Genre{{Name: "Fantasy"}, {Name: "Science Fiction"}, {Name: "Poetry"}, {Name: "Horror"}}}
	assert.Equal(t, "Fantasy, Science Fiction, Poetry", b.DisplayGenre())
}
