// controllers/catalog_controller.go
package controllers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"Gin_postgres_redis_local_library/app"
	"Gin_postgres_redis_local_library/db"
	"Gin_postgres_redis_local_library/models"
	"Gin_postgres_redis_local_library/services"

	"github.com/gin-gonic/gin"
)

// CatalogStore is the part of db.Repo the catalog handlers use.
type CatalogStore interface {
	ListAuthors(ctx context.Context, p db.Page) (*db.Paged[models.Author], error)
	FindAuthor(ctx context.Context, id uint) (*models.Author, error)
	CreateAuthor(ctx context.Context, a *models.Author) error
	UpdateAuthor(ctx context.Context, a *models.Author) error
	DeleteAuthor(ctx context.Context, id uint) error

	ListGenres(ctx context.Context, p db.Page) (*db.Paged[models.Genre], error)
	FindGenre(ctx context.Context, id uint) (*models.Genre, error)
	CreateGenre(ctx context.Context, g *models.Genre) error
	UpdateGenre(ctx context.Context, g *models.Genre) error
	DeleteGenre(ctx context.Context, id uint) error

	ListLanguages(ctx context.Context, p db.Page) (*db.Paged[models.BookLanguage], error)
	FindLanguage(ctx context.Context, id uint) (*models.BookLanguage, error)
	CreateLanguage(ctx context.Context, l *models.BookLanguage) error
	UpdateLanguage(ctx context.Context, l *models.BookLanguage) error
	DeleteLanguage(ctx context.Context, id uint) error

	ListBooks(ctx context.Context, p db.Page) (*db.Paged[models.Book], error)
	FindBook(ctx context.Context, id uint) (*models.Book, error)
	CreateBook(ctx context.Context, b *models.Book, genreIDs []uint) error
	UpdateBook(ctx context.Context, b *models.Book, genreIDs []uint) error
	DeleteBook(ctx context.Context, id uint) error

	ListInstances(ctx context.Context, f db.InstanceFilter, p db.Page) (*db.Paged[models.BookInstance], error)
	FindInstanceByID(ctx context.Context, id string) (*models.BookInstance, error)
	CreateInstance(ctx context.Context, bi *models.BookInstance) error
	UpdateInstance(ctx context.Context, bi *models.BookInstance) error
	DeleteInstance(ctx context.Context, id string) error
}

// CatalogController serves list/detail/create/update/delete for authors,
// genres, languages, books and copies.
type CatalogController struct {
	repo CatalogStore
}

func NewCatalogController(repo CatalogStore) *CatalogController {
	return &CatalogController{repo: repo}
}

// bindInput accepts JSON or form bodies. Binding errors are field errors.
func bindInput(c *gin.Context, dst any) bool {
	if err := c.ShouldBind(dst); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return false
	}
	return true
}

// Authors

type authorInput struct {
	FirstName   string `json:"first_name" form:"first_name"`
	LastName    string `json:"last_name" form:"last_name"`
	DateOfBirth string `json:"date_of_birth" form:"date_of_birth"`
	DateOfDeath string `json:"date_of_death" form:"date_of_death"`
}

func (in authorInput) toAuthor() (*models.Author, error) {
	born, err := services.ParseOptionalDate("date_of_birth", in.DateOfBirth)
	if err != nil {
		return nil, err
	}
	died, err := services.ParseOptionalDate("date_of_death", in.DateOfDeath)
	if err != nil {
		return nil, err
	}
	a := &models.Author{FirstName: in.FirstName, LastName: in.LastName, DateOfBirth: born, DateOfDeath: died}
	if err := services.ValidateAuthor(a); err != nil {
		return nil, err
	}
	return a, nil
}

func (cc *CatalogController) ListAuthors(c *gin.Context) {
	res, err := cc.repo.ListAuthors(c.Request.Context(), pageParam(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (cc *CatalogController) GetAuthor(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	a, err := cc.repo.FindAuthor(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"author": a, "name": a.Name()})
}

func (cc *CatalogController) CreateAuthor(c *gin.Context) {
	var in authorInput
	if !bindInput(c, &in) {
		return
	}
	a, err := in.toAuthor()
	if err == nil {
		err = cc.repo.CreateAuthor(c.Request.Context(), a)
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

func (cc *CatalogController) UpdateAuthor(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var in authorInput
	if !bindInput(c, &in) {
		return
	}
	a, err := in.toAuthor()
	if err == nil {
		a.ID = id
		err = cc.repo.UpdateAuthor(c.Request.Context(), a)
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (cc *CatalogController) DeleteAuthor(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := cc.repo.DeleteAuthor(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Genres and languages

type nameInput struct {
	Name string `json:"name" form:"name"`
}

func (cc *CatalogController) ListGenres(c *gin.Context) {
	res, err := cc.repo.ListGenres(c.Request.Context(), pageParam(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (cc *CatalogController) GetGenre(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	g, err := cc.repo.FindGenre(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

func (cc *CatalogController) CreateGenre(c *gin.Context) {
	var in nameInput
	if !bindInput(c, &in) {
		return
	}
	name, err := services.ValidateName(in.Name)
	g := &models.Genre{Name: name}
	if err == nil {
		err = cc.repo.CreateGenre(c.Request.Context(), g)
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, g)
}

func (cc *CatalogController) UpdateGenre(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var in nameInput
	if !bindInput(c, &in) {
		return
	}
	name, err := services.ValidateName(in.Name)
	g := &models.Genre{ID: id, Name: name}
	if err == nil {
		err = cc.repo.UpdateGenre(c.Request.Context(), g)
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

func (cc *CatalogController) DeleteGenre(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := cc.repo.DeleteGenre(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (cc *CatalogController) ListLanguages(c *gin.Context) {
	res, err := cc.repo.ListLanguages(c.Request.Context(), pageParam(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (cc *CatalogController) GetLanguage(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	l, err := cc.repo.FindLanguage(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, l)
}

func (cc *CatalogController) CreateLanguage(c *gin.Context) {
	var in nameInput
	if !bindInput(c, &in) {
		return
	}
	name, err := services.ValidateName(in.Name)
	l := &models.BookLanguage{Name: name}
	if err == nil {
		err = cc.repo.CreateLanguage(c.Request.Context(), l)
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, l)
}

func (cc *CatalogController) UpdateLanguage(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var in nameInput
	if !bindInput(c, &in) {
		return
	}
	name, err := services.ValidateName(in.Name)
	l := &models.BookLanguage{ID: id, Name: name}
	if err == nil {
		err = cc.repo.UpdateLanguage(c.Request.Context(), l)
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, l)
}

func (cc *CatalogController) DeleteLanguage(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := cc.repo.DeleteLanguage(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Books

type bookInput struct {
	Title    string `json:"title" form:"title"`
	Summary  string `json:"summary" form:"summary"`
	ISBN     string `json:"isbn" form:"isbn"`
	Author   *uint  `json:"author" form:"author"`
	Language *uint  `json:"language" form:"language"`
	Genre    []uint `json:"genre" form:"genre"`
}

func (in bookInput) toBook() (*models.Book, error) {
	b := &models.Book{
		Title:      in.Title,
		Summary:    strings.TrimSpace(in.Summary),
		ISBN:       in.ISBN,
		AuthorID:   in.Author,
		LanguageID: in.Language,
	}
	if err := services.ValidateBook(b); err != nil {
		return nil, err
	}
	return b, nil
}

type bookRow struct {
	models.Book
	DisplayGenre string `json:"display_genre"`
}

func (cc *CatalogController) ListBooks(c *gin.Context) {
	res, err := cc.repo.ListBooks(c.Request.Context(), pageParam(c))
	if err != nil {
		writeError(c, err)
		return
	}
	rows := make([]bookRow, 0, len(res.Results))
	for i := range res.Results {
		rows = append(rows, bookRow{Book: res.Results[i], DisplayGenre: res.Results[i].DisplayGenre()})
	}
	c.JSON(http.StatusOK, db.Paged[bookRow]{Count: res.Count, Page: res.Page, NumPages: res.NumPages, Results: rows})
}

func (cc *CatalogController) GetBook(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	b, err := cc.repo.FindBook(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookRow{Book: *b, DisplayGenre: b.DisplayGenre()})
}

func (cc *CatalogController) CreateBook(c *gin.Context) {
	var in bookInput
	if !bindInput(c, &in) {
		return
	}
	b, err := in.toBook()
	if err == nil {
		err = cc.repo.CreateBook(c.Request.Context(), b, in.Genre)
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

func (cc *CatalogController) UpdateBook(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var in bookInput
	if !bindInput(c, &in) {
		return
	}
	b, err := in.toBook()
	if err == nil {
		b.ID = id
		err = cc.repo.UpdateBook(c.Request.Context(), b, in.Genre)
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (cc *CatalogController) DeleteBook(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := cc.repo.DeleteBook(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Copies

type instanceInput struct {
	Book     uint    `json:"book" form:"book"`
	Imprint  string  `json:"imprint" form:"imprint"`
	DueBack  string  `json:"due_back" form:"due_back"`
	Status   string  `json:"status" form:"status"`
	Borrower *string `json:"borrower" form:"borrower"`
}

func (in instanceInput) toInstance() (*models.BookInstance, error) {
	due, err := services.ParseOptionalDate("due_back", in.DueBack)
	if err != nil {
		return nil, err
	}
	bi := &models.BookInstance{
		BookID:  in.Book,
		Imprint: strings.TrimSpace(in.Imprint),
		DueBack: due,
		Status:  models.LoanStatus(strings.TrimSpace(in.Status)),
	}
	if in.Borrower != nil && strings.TrimSpace(*in.Borrower) != "" {
		borrower := strings.TrimSpace(*in.Borrower)
		bi.BorrowerID = &borrower
	}
	if err := services.ValidateInstance(bi); err != nil {
		return nil, err
	}
	return bi, nil
}

// GET /api/catalog/instances?status=o&due_back=2024-06-01&book=3
func (cc *CatalogController) ListInstances(c *gin.Context) {
	var f db.InstanceFilter
	if s := models.LoanStatus(c.Query("status")); s != "" {
		if !s.Valid() {
			writeError(c, services.NewValidationError("status", "Select a valid choice."))
			return
		}
		f.Status = s
	}
	due, err := services.ParseOptionalDate("due_back", c.Query("due_back"))
	if err != nil {
		writeError(c, err)
		return
	}
	f.DueBack = due
	if v := c.Query("book"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			writeError(c, services.NewValidationError("book", "Select a valid book."))
			return
		}
		f.BookID = uint(id)
	}

	res, err := cc.repo.ListInstances(c.Request.Context(), f, pageParam(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (cc *CatalogController) GetInstance(c *gin.Context) {
	bi, err := cc.repo.FindInstanceByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"instance": bi, "status_label": bi.Status.Label()})
}

func (cc *CatalogController) CreateInstance(c *gin.Context) {
	var in instanceInput
	if !bindInput(c, &in) {
		return
	}
	bi, err := in.toInstance()
	if err == nil {
		err = cc.repo.CreateInstance(c.Request.Context(), bi)
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, bi)
}

func (cc *CatalogController) UpdateInstance(c *gin.Context) {
	var in instanceInput
	if !bindInput(c, &in) {
		return
	}
	bi, err := in.toInstance()
	if err == nil {
		bi.ID = c.Param("id")
		err = cc.repo.UpdateInstance(c.Request.Context(), bi)
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, bi)
}

func (cc *CatalogController) DeleteInstance(c *gin.Context) {
	if err := cc.repo.DeleteInstance(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
