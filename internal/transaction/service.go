package transaction

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/kitty/internal/budget"
	"github.com/MrJamesThe3rd/kitty/internal/period"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=transaction
type Repository interface {
	CreateTransaction(ctx context.Context, tx *Transaction) error
	GetTransaction(ctx context.Context, id int64) (*Transaction, error)
	UpdateTransaction(ctx context.Context, tx *Transaction) error
	ListTransactions(ctx context.Context, filter ListFilter) ([]*Transaction, error)
	DeleteTransaction(ctx context.Context, id int64) error
}

// Guard decides whether an expense fits its category budget.
type Guard interface {
	CheckSpend(ctx context.Context, check budget.SpendCheck) error
}

type Service struct {
	repo    Repository
	guard   Guard
	periods *period.Resolver
}

func NewService(repo Repository, guard Guard, periods *period.Resolver) *Service {
	return &Service{repo: repo, guard: guard, periods: periods}
}

type CreateParams struct {
	LedgerID   int64
	CategoryID int64
	UserID     uuid.UUID
	Amount     decimal.Decimal
	Type       Type
	Date       *time.Time // today when nil
	Note       string
	// Override records the expense even if it exceeds the category budget.
	Override bool
}

// UpdateParams changes only the fields that are set.
type UpdateParams struct {
	LedgerID   *int64
	CategoryID *int64
	Amount     *decimal.Decimal
	Type       *Type
	Date       *time.Time
	Note       *string
	Override   bool
}

type ListFilter struct {
	LedgerID   *int64
	CategoryID *int64
	Type       *Type
	StartDate  *time.Time
	EndDate    *time.Time
	MinAmount  *decimal.Decimal
	MaxAmount  *decimal.Decimal
}

func validate(tx *Transaction) error {
	if !tx.Amount.IsPositive() {
		return ErrInvalidAmount
	}

	if !tx.Type.Valid() {
		return ErrInvalidType
	}

	return nil
}

func (s *Service) check(ctx context.Context, tx *Transaction, exclude *int64, override bool) error {
	return s.guard.CheckSpend(ctx, budget.SpendCheck{
		LedgerID:             tx.LedgerID,
		CategoryID:           tx.CategoryID,
		Amount:               tx.Amount,
		Type:                 tx.Type,
		Date:                 tx.Date,
		ExcludeTransactionID: exclude,
		Override:             override,
	})
}

// Create records a transaction after it passes the spend guard.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Transaction, error) {
	tx := &Transaction{
		LedgerID:   params.LedgerID,
		CategoryID: params.CategoryID,
		UserID:     params.UserID,
		Amount:     params.Amount,
		Type:       params.Type,
		Note:       strings.TrimSpace(params.Note),
	}

	if params.Date != nil {
		tx.Date = *params.Date
	} else {
		tx.Date = s.periods.Today()
	}

	if err := validate(tx); err != nil {
		return nil, err
	}

	if err := s.check(ctx, tx, nil, params.Override); err != nil {
		return nil, err
	}

	if err := s.repo.CreateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	if params.Override {
		slog.InfoContext(ctx, "transaction recorded with budget override",
			"transaction_id", tx.ID, "ledger_id", tx.LedgerID, "category_id", tx.CategoryID)
	}

	return tx, nil
}

// Update merges the changes into the stored row and re-checks the budget
// against spend that leaves the row's previous amount out.
func (s *Service) Update(ctx context.Context, id int64, params UpdateParams) (*Transaction, error) {
	tx, err := s.repo.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.LedgerID != nil {
		tx.LedgerID = *params.LedgerID
	}

	if params.CategoryID != nil {
		tx.CategoryID = *params.CategoryID
	}

	if params.Amount != nil {
		tx.Amount = *params.Amount
	}

	if params.Type != nil {
		tx.Type = *params.Type
	}

	if params.Date != nil {
		tx.Date = *params.Date
	}

	if params.Note != nil {
		tx.Note = strings.TrimSpace(*params.Note)
	}

	if err := validate(tx); err != nil {
		return nil, err
	}

	if err := s.check(ctx, tx, &tx.ID, params.Override); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	return s.repo.GetTransaction(ctx, id)
}

func (s *Service) Get(ctx context.Context, id int64) (*Transaction, error) {
	return s.repo.GetTransaction(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Transaction, error) {
	return s.repo.ListTransactions(ctx, filter)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.DeleteTransaction(ctx, id)
}
