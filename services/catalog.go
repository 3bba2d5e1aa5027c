package services

import (
	"strings"
	"unicode"

	"Gin_postgres_redis_local_library/models"
)

// ValidateAuthor enforces required names and death >= birth.
func ValidateAuthor(a *models.Author) error {
	a.FirstName = strings.TrimSpace(a.FirstName)
	a.LastName = strings.TrimSpace(a.LastName)
	if a.FirstName == "" {
		return invalid("first_name", "This field is required.")
	}
	if a.LastName == "" {
		return invalid("last_name", "This field is required.")
	}
	if a.DateOfBirth != nil && a.DateOfDeath != nil && a.DateOfDeath.Before(*a.DateOfBirth) {
		return invalid("date_of_death", "Date of death cannot be before date of birth.")
	}
	return nil
}

// ValidateName is shared by genres and languages.
func ValidateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", invalid("name", "This field is required.")
	}
	if len(name) > 200 {
		return "", invalid("name", "Ensure this value has at most 200 characters.")
	}
	return name, nil
}

// ValidateBook checks title and a 13 digit ISBN.
func ValidateBook(b *models.Book) error {
	b.Title = strings.TrimSpace(b.Title)
	b.ISBN = strings.TrimSpace(b.ISBN)
	if b.Title == "" {
		return invalid("title", "This field is required.")
	}
	if len(b.ISBN) != 13 {
		return invalid("isbn", "ISBN must have 13 characters.")
	}
	for _, r := range b.ISBN {
		if !unicode.IsDigit(r) {
			return invalid("isbn", "ISBN must contain digits only.")
		}
	}
	return nil
}

// ValidateInstance enforces the loan invariants: a copy on loan needs a due
// date, and only a copy on loan can have a borrower.
func ValidateInstance(bi *models.BookInstance) error {
	if bi.Status == "" {
		bi.Status = models.StatusMaintenance
	}
	if !bi.Status.Valid() {
		return invalid("status", "Select a valid choice.")
	}
	if bi.BookID == 0 {
		return invalid("book", "This field is required.")
	}
	if bi.Status == models.StatusOnLoan && bi.DueBack == nil {
		return invalid("due_back", "A book on loan needs a due back date.")
	}
	if bi.Status != models.StatusOnLoan && bi.BorrowerID != nil {
		return invalid("borrower", "Only a book on loan can have a borrower.")
	}
	return nil
}
