// models/book_instance.go
package models

import "time"

const InstanceTable = "ll_book_instances"

// LoanStatus is the availability of one physical copy.
type LoanStatus string

const (
	StatusMaintenance LoanStatus = "m"
	StatusOnLoan      LoanStatus = "o"
	StatusAvailable   LoanStatus = "a"
	StatusReserved    LoanStatus = "r"
)

var statusLabels = map[LoanStatus]string{
	StatusMaintenance: "Maintenance",
	StatusOnLoan:      "On loan",
	StatusAvailable:   "Available",
	StatusReserved:    "Reserved",
}

func (s LoanStatus) Valid() bool { _, ok := statusLabels[s]; return ok }

func (s LoanStatus) Label() string { return statusLabels[s] }

// BookInstance is a single copy of a Book that can be lent out.
type BookInstance struct {
	ID         string     `gorm:"type:uuid;primaryKey" json:"id"`
	BookID     uint       `gorm:"index;not null" json:"bookId"`
	Book       *Book      `json:"book,omitempty"`
	Imprint    string     `gorm:"size:200" json:"imprint"`
	DueBack    *time.Time `gorm:"type:date;index" json:"dueBack,omitempty"`
	Status     LoanStatus `gorm:"size:1;not null;default:'m';index" json:"status"`
	BorrowerID *string    `gorm:"type:uuid;index" json:"borrowerId,omitempty"`
	Borrower   *User      `gorm:"foreignKey:BorrowerID;constraint:OnDelete:SET NULL" json:"-"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

func (BookInstance) TableName() string { return InstanceTable }

// IsOverdue compares due_back against the given calendar day.
func (bi *BookInstance) IsOverdue(today time.Time) bool {
	return bi.DueBack != nil && bi.DueBack.Before(today)
}
