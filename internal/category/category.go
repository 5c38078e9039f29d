package category

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Type is the direction of money a category classifies.
type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

func (t Type) Valid() bool {
	switch t {
	case TypeIncome, TypeExpense:
		return true
	}

	return false
}

var (
	ErrNotFound    = errors.New("category not found")
	ErrDuplicate   = errors.New("category already exists")
	ErrInvalidName = errors.New("category name is required")
	ErrInvalidType = errors.New("category type must be income or expense")
)

// InUseError blocks deleting a category still referenced by transactions.
type InUseError struct {
	Count int
}

func (e *InUseError) Error() string {
	return fmt.Sprintf("category in use by %d transaction(s)", e.Count)
}

// Category is owned by a single user; a ledger sees the categories of all its members.
type Category struct {
	ID        int64
	UserID    uuid.UUID
	Name      string
	Type      Type
	CreatedAt time.Time
}
