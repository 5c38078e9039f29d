package budget

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/kitty/internal/database"
	"github.com/MrJamesThe3rd/kitty/internal/period"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=budget
type Repository interface {
	// FindPeriod returns the earliest period row of the month, or ErrPeriodNotFound.
	FindPeriod(ctx context.Context, ledgerID int64, p period.Period) (*PeriodRecord, error)
	ListUsage(ctx context.Context, ledgerID, periodID int64, p period.Period) ([]LimitUsage, error)
	FindLimit(ctx context.Context, ledgerID, categoryID int64, p period.Period) (decimal.Decimal, bool, error)
	SpentAmount(ctx context.Context, q SpendQuery) (decimal.Decimal, error)
	DeleteLimit(ctx context.Context, periodID, categoryID int64) (bool, error)
	// Begin opens a unit of work holding the (ledger, month) lock until commit or rollback.
	Begin(ctx context.Context, ledgerID int64, p period.Period) (Tx, error)
}

// Tx is a unit of work scoped to one ledger month.
type Tx interface {
	CategoryExists(ctx context.Context, categoryID int64) (bool, error)
	EnsurePeriod(ctx context.Context, ledgerID int64, p period.Period, title string) (*PeriodRecord, error)
	UpdatePeriodMeta(ctx context.Context, periodID int64, meta PeriodMeta) error
	// LockLimit reads a limit row FOR UPDATE.
	LockLimit(ctx context.Context, periodID, categoryID int64) (decimal.Decimal, bool, error)
	UpsertLimit(ctx context.Context, periodID, categoryID int64, amount decimal.Decimal) error
	SpentAmount(ctx context.Context, q SpendQuery) (decimal.Decimal, error)
	Commit() error
	Rollback() error
}

type Service struct {
	repo    Repository
	periods *period.Resolver
}

func NewService(repo Repository, periods *period.Resolver) *Service {
	return &Service{repo: repo, periods: periods}
}

// DefaultTitle is the title given to a period created implicitly.
func DefaultTitle(p period.Period) string {
	return p.Key + " monthly budget"
}

// Progress reports spend against every category limit of the month.
func (s *Service) Progress(ctx context.Context, ledgerID int64, token string) (*Report, error) {
	p, err := s.periods.Resolve(token)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Period:   p,
		Title:    DefaultTitle(p),
		Total:    decimal.Zero,
		Budgeted: decimal.Zero,
		Spent:    decimal.Zero,
		Items:    []Progress{},
	}

	rec, err := s.repo.FindPeriod(ctx, ledgerID, p)
	if errors.Is(err, ErrPeriodNotFound) {
		return report, nil
	}

	if err != nil {
		return nil, err
	}

	usage, err := s.repo.ListUsage(ctx, ledgerID, rec.ID, p)
	if err != nil {
		return nil, err
	}

	report.PeriodID = rec.ID
	if rec.Title != "" {
		report.Title = rec.Title
	}

	for _, u := range usage {
		report.Items = append(report.Items, newProgress(u))
		report.Budgeted = report.Budgeted.Add(u.Limit)
		report.Spent = report.Spent.Add(u.Spent)
	}

	report.Total = report.Budgeted
	if rec.Total != nil {
		report.Total = *rec.Total
		report.TotalOverride = true
	}

	return report, nil
}

// SetLimit replaces the category's limit for the month, creating the period if needed.
func (s *Service) SetLimit(ctx context.Context, ledgerID int64, token string, categoryID int64, amount decimal.Decimal) (*PeriodRecord, error) {
	p, err := s.periods.Resolve(token)
	if err != nil {
		return nil, err
	}

	if amount.IsNegative() {
		return nil, ErrInvalidAmount
	}

	var rec *PeriodRecord

	err = database.Retry(ctx, "set_limit", func() error {
		rec, err = s.setLimit(ctx, ledgerID, p, categoryID, amount)
		return err
	})
	if err != nil {
		return nil, unitError("set limit", err)
	}

	slog.DebugContext(ctx, "budget limit set",
		"ledger_id", ledgerID, "period", p.Key, "category_id", categoryID, "amount", amount)

	return rec, nil
}

func (s *Service) setLimit(ctx context.Context, ledgerID int64, p period.Period, categoryID int64, amount decimal.Decimal) (*PeriodRecord, error) {
	tx, err := s.repo.Begin(ctx, ledgerID, p)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	ok, err := tx.CategoryExists(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	if !ok {
		return nil, ErrCategoryNotFound
	}

	rec, err := tx.EnsurePeriod(ctx, ledgerID, p, DefaultTitle(p))
	if err != nil {
		return nil, err
	}

	if err := tx.UpsertLimit(ctx, rec.ID, categoryID, amount); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit set limit: %w", err)
	}

	return rec, nil
}

// SetPeriodMeta updates the month's title and overall total, creating the period if needed.
func (s *Service) SetPeriodMeta(ctx context.Context, ledgerID int64, token string, meta PeriodMeta) (*PeriodRecord, error) {
	p, err := s.periods.Resolve(token)
	if err != nil {
		return nil, err
	}

	if meta.Total != nil && meta.Total.IsNegative() {
		return nil, ErrInvalidAmount
	}

	var rec *PeriodRecord

	err = database.Retry(ctx, "set_period_meta", func() error {
		rec, err = s.setPeriodMeta(ctx, ledgerID, p, meta)
		return err
	})
	if err != nil {
		return nil, unitError("set period meta", err)
	}

	return rec, nil
}

func (s *Service) setPeriodMeta(ctx context.Context, ledgerID int64, p period.Period, meta PeriodMeta) (*PeriodRecord, error) {
	tx, err := s.repo.Begin(ctx, ledgerID, p)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	rec, err := tx.EnsurePeriod(ctx, ledgerID, p, DefaultTitle(p))
	if err != nil {
		return nil, err
	}

	if err := tx.UpdatePeriodMeta(ctx, rec.ID, meta); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit period meta: %w", err)
	}

	if meta.Title != nil {
		rec.Title = *meta.Title
	}

	switch {
	case meta.ClearTotal:
		rec.Total = nil
	case meta.Total != nil:
		total := *meta.Total
		rec.Total = &total
	}

	return rec, nil
}

// DeleteLimit removes a category limit and reports whether a row was removed.
func (s *Service) DeleteLimit(ctx context.Context, ledgerID int64, token string, categoryID int64) (bool, error) {
	p, err := s.periods.Resolve(token)
	if err != nil {
		return false, err
	}

	rec, err := s.repo.FindPeriod(ctx, ledgerID, p)
	if err != nil {
		return false, err
	}

	return s.repo.DeleteLimit(ctx, rec.ID, categoryID)
}

func unitError(op string, err error) error {
	if isDomainError(err) {
		return err
	}

	return database.Aborted(op, err)
}
