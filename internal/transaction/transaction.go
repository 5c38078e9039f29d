package transaction

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/kitty/internal/category"
)

// Type is the direction of a transaction; it shares the category vocabulary.
type Type = category.Type

const (
	TypeIncome  = category.TypeIncome
	TypeExpense = category.TypeExpense
)

var (
	ErrNotFound         = errors.New("transaction not found")
	ErrInvalidAmount    = errors.New("amount must be greater than zero")
	ErrInvalidType      = errors.New("type must be income or expense")
	ErrCategoryNotFound = errors.New("category not found")
)

// Transaction is a single income or expense recorded in a ledger.
type Transaction struct {
	ID           int64
	LedgerID     int64
	CategoryID   int64
	CategoryName string // Loaded via JOIN
	UserID       uuid.UUID
	Amount       decimal.Decimal
	Type         Type
	Date         time.Time
	Note         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
