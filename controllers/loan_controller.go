// controllers/loan_controller.go
package controllers

import (
	"context"
	"net/http"

	"Gin_postgres_redis_local_library/app"
	"Gin_postgres_redis_local_library/db"
	"Gin_postgres_redis_local_library/models"
	"Gin_postgres_redis_local_library/services"

	"github.com/gin-gonic/gin"
)

// AllBorrowedPath is where a successful renewal redirects.
const AllBorrowedPath = "/api/catalog/borrowed"

type BorrowedLister interface {
	ListBorrowed(ctx context.Context, borrowerID string, p db.Page) (*db.Paged[models.BookInstance], error)
}

type LoanController struct {
	renewals *services.RenewalService
	loans    BorrowedLister
}

func NewLoanController(renewals *services.RenewalService, loans BorrowedLister) *LoanController {
	return &LoanController{renewals: renewals, loans: loans}
}

type borrowedRow struct {
	ID       string            `json:"id"`
	BookID   uint              `json:"bookId"`
	Title    string            `json:"title"`
	Imprint  string            `json:"imprint"`
	DueBack  string            `json:"dueBack"`
	Status   models.LoanStatus `json:"status"`
	Borrower string            `json:"borrower,omitempty"`
	Overdue  bool              `json:"overdue"`
}

func (lc *LoanController) borrowedPage(res *db.Paged[models.BookInstance], withBorrower bool) db.Paged[borrowedRow] {
	today := lc.renewals.Today()
	rows := make([]borrowedRow, 0, len(res.Results))
	for i := range res.Results {
		bi := &res.Results[i]
		row := borrowedRow{
			ID:      bi.ID,
			BookID:  bi.BookID,
			Imprint: bi.Imprint,
			DueBack: services.FormatDate(bi.DueBack),
			Status:  bi.Status,
			Overdue: bi.IsOverdue(today),
		}
		if bi.Book != nil {
			row.Title = bi.Book.Title
		}
		if withBorrower && bi.Borrower != nil {
			row.Borrower = bi.Borrower.Username
		}
		rows = append(rows, row)
	}
	return db.Paged[borrowedRow]{Count: res.Count, Page: res.Page, NumPages: res.NumPages, Results: rows}
}

// GET /api/catalog/mybooks
func (lc *LoanController) MyBorrowed(c *gin.Context) {
	u := app.CurrentUser(c)
	if u == nil || u.ID == "" {
		c.JSON(http.StatusUnauthorized, app.H{"error": "unauthorized"})
		return
	}
	res, err := lc.loans.ListBorrowed(c.Request.Context(), u.ID, pageParam(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, lc.borrowedPage(res, false))
}

// GET /api/catalog/borrowed
func (lc *LoanController) AllBorrowed(c *gin.Context) {
	res, err := lc.loans.ListBorrowed(c.Request.Context(), "", pageParam(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, lc.borrowedPage(res, true))
}

// GET /api/catalog/book/:id/renew
func (lc *LoanController) RenewForm(c *gin.Context) {
	form, err := lc.renewals.Prepare(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{
		"instance": form.Instance,
		"form":     app.H{services.RenewalDateField: form.RenewalDate.Format(services.DateLayout)},
	})
}

type renewalInput struct {
	RenewalDate string `json:"renewal_date" form:"renewal_date"`
}

// POST /api/catalog/book/:id/renew
func (lc *LoanController) Renew(c *gin.Context) {
	var in renewalInput
	// A body that does not bind leaves the date empty, which is reported as
	// a missing field once the instance is known to exist.
	_ = c.ShouldBind(&in)

	bi, err := lc.renewals.RenewFromInput(c.Request.Context(), c.Param("id"), in.RenewalDate)
	if ve, ok := services.AsValidation(err); ok {
		c.JSON(http.StatusBadRequest, app.H{
			"error":    ve.Message,
			"field":    ve.Field,
			"instance": bi,
			"form":     app.H{services.RenewalDateField: in.RenewalDate},
		})
		return
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, AllBorrowedPath)
}
