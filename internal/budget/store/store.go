package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/kitty/internal/budget"
	"github.com/MrJamesThe3rd/kitty/internal/category"
	"github.com/MrJamesThe3rd/kitty/internal/period"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// A month is identified by start_date alone. Legacy months may have several
// rows; the lowest id wins.
const findPeriodQuery = `
	SELECT id, ledger_id, title, total_amount
	FROM budget_periods
	WHERE ledger_id = $1 AND start_date >= $2::date AND start_date < $3::date
	ORDER BY id ASC
	LIMIT 1
`

func findPeriod(ctx context.Context, q querier, ledgerID int64, p period.Period, lock string) (*budget.PeriodRecord, error) {
	var (
		rec   budget.PeriodRecord
		total decimal.NullDecimal
	)

	err := q.QueryRowContext(ctx, findPeriodQuery+lock, ledgerID, p.StartDate(), p.EndDate()).
		Scan(&rec.ID, &rec.LedgerID, &rec.Title, &total)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, budget.ErrPeriodNotFound
		}

		return nil, fmt.Errorf("finding budget period: %w", err)
	}

	rec.Key = p.Key
	if total.Valid {
		rec.Total = &total.Decimal
	}

	return &rec, nil
}

func spentAmount(ctx context.Context, q querier, sq budget.SpendQuery) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE ledger_id = $1
		  AND category_id = $2
		  AND type = $3
		  AND date >= $4::date AND date < $5::date
		  AND ($6::bigint IS NULL OR id <> $6)
	`

	var spent decimal.Decimal

	err := q.QueryRowContext(ctx, query,
		sq.LedgerID, sq.CategoryID, category.TypeExpense,
		sq.Period.StartDate(), sq.Period.EndDate(),
		sq.ExcludeTransactionID,
	).Scan(&spent)
	if err != nil {
		return decimal.Zero, fmt.Errorf("summing spend: %w", err)
	}

	return spent, nil
}

func (s *Store) FindPeriod(ctx context.Context, ledgerID int64, p period.Period) (*budget.PeriodRecord, error) {
	return findPeriod(ctx, s.db, ledgerID, p, "")
}

// ListUsage aggregates spend per category on its own before joining it onto
// the limits, so several transactions never multiply a limit row.
func (s *Store) ListUsage(ctx context.Context, ledgerID, periodID int64, p period.Period) ([]budget.LimitUsage, error) {
	query := `
		WITH spend AS (
			SELECT category_id, SUM(amount) AS spent
			FROM transactions
			WHERE ledger_id = $1 AND type = $2 AND date >= $3::date AND date < $4::date
			GROUP BY category_id
		)
		SELECT c.id, c.name, c.type, bl.limit_amount, COALESCE(sp.spent, 0)
		FROM budget_limits bl
		JOIN categories c ON c.id = bl.category_id
		LEFT JOIN spend sp ON sp.category_id = bl.category_id
		WHERE bl.period_id = $5
		ORDER BY c.type DESC, c.name ASC, c.id ASC
	`

	rows, err := s.db.QueryContext(ctx, query, ledgerID, category.TypeExpense, p.StartDate(), p.EndDate(), periodID)
	if err != nil {
		return nil, fmt.Errorf("listing budget usage: %w", err)
	}
	defer rows.Close()

	var usage []budget.LimitUsage

	for rows.Next() {
		var (
			u       budget.LimitUsage
			typeStr string
		)

		if err := rows.Scan(&u.CategoryID, &u.CategoryName, &typeStr, &u.Limit, &u.Spent); err != nil {
			return nil, fmt.Errorf("scanning budget usage: %w", err)
		}

		u.CategoryType = category.Type(typeStr)
		usage = append(usage, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating budget usage: %w", err)
	}

	return usage, nil
}

func (s *Store) FindLimit(ctx context.Context, ledgerID, categoryID int64, p period.Period) (decimal.Decimal, bool, error) {
	query := `
		SELECT bl.limit_amount
		FROM budget_limits bl
		WHERE bl.category_id = $1
		  AND bl.period_id = (
			SELECT id FROM budget_periods
			WHERE ledger_id = $2 AND start_date >= $3::date AND start_date < $4::date
			ORDER BY id ASC
			LIMIT 1
		  )
	`

	var limit decimal.Decimal

	err := s.db.QueryRowContext(ctx, query, categoryID, ledgerID, p.StartDate(), p.EndDate()).Scan(&limit)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Zero, false, nil
		}

		return decimal.Zero, false, fmt.Errorf("finding budget limit: %w", err)
	}

	return limit, true, nil
}

func (s *Store) SpentAmount(ctx context.Context, q budget.SpendQuery) (decimal.Decimal, error) {
	return spentAmount(ctx, s.db, q)
}

func (s *Store) DeleteLimit(ctx context.Context, periodID, categoryID int64) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM budget_limits WHERE period_id = $1 AND category_id = $2`, periodID, categoryID)
	if err != nil {
		return false, fmt.Errorf("deleting budget limit: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("deleting budget limit: %w", err)
	}

	return n > 0, nil
}

// periodLockKey identifies a (ledger, month) pair for pg_advisory_xact_lock.
func periodLockKey(ledgerID int64, key string) int64 {
	h := fnv.New64a()
	h.Write([]byte(strconv.FormatInt(ledgerID, 10)))
	h.Write([]byte{0})
	h.Write([]byte(key))

	return int64(h.Sum64())
}

type budgetTx struct {
	tx *sql.Tx
}

// Begin serialises every writer of the same ledger month behind one advisory lock.
func (s *Store) Begin(ctx context.Context, ledgerID int64, p period.Period) (budget.Tx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning budget tx: %w", err)
	}

	if _, err := dbTx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", periodLockKey(ledgerID, p.Key)); err != nil {
		dbTx.Rollback()
		return nil, fmt.Errorf("acquiring budget period lock: %w", err)
	}

	return &budgetTx{tx: dbTx}, nil
}

func (btx *budgetTx) Commit() error   { return btx.tx.Commit() }
func (btx *budgetTx) Rollback() error { return btx.tx.Rollback() }

func (btx *budgetTx) CategoryExists(ctx context.Context, categoryID int64) (bool, error) {
	var exists bool

	err := btx.tx.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM categories WHERE id = $1)`, categoryID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking category: %w", err)
	}

	return exists, nil
}

func (btx *budgetTx) EnsurePeriod(ctx context.Context, ledgerID int64, p period.Period, title string) (*budget.PeriodRecord, error) {
	rec, err := findPeriod(ctx, btx.tx, ledgerID, p, " FOR UPDATE")
	if err == nil {
		return rec, nil
	}

	if !errors.Is(err, budget.ErrPeriodNotFound) {
		return nil, err
	}

	created := budget.PeriodRecord{LedgerID: ledgerID, Key: p.Key, Title: title}

	err = btx.tx.QueryRowContext(ctx, `
		INSERT INTO budget_periods (ledger_id, title, start_date, end_date)
		VALUES ($1, $2, $3::date, $4::date)
		RETURNING id
	`, ledgerID, title, p.StartDate(), p.EndDate()).Scan(&created.ID)
	if err != nil {
		return nil, fmt.Errorf("creating budget period: %w", err)
	}

	return &created, nil
}

func (btx *budgetTx) UpdatePeriodMeta(ctx context.Context, periodID int64, meta budget.PeriodMeta) error {
	var (
		sets []string
		args []any
	)

	if meta.Title != nil {
		args = append(args, *meta.Title)
		sets = append(sets, fmt.Sprintf("title = $%d", len(args)))
	}

	switch {
	case meta.ClearTotal:
		sets = append(sets, "total_amount = NULL")
	case meta.Total != nil:
		args = append(args, *meta.Total)
		sets = append(sets, fmt.Sprintf("total_amount = $%d", len(args)))
	}

	if len(sets) == 0 {
		return nil
	}

	args = append(args, periodID)
	query := fmt.Sprintf("UPDATE budget_periods SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))

	if _, err := btx.tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("updating budget period: %w", err)
	}

	return nil
}

func (btx *budgetTx) LockLimit(ctx context.Context, periodID, categoryID int64) (decimal.Decimal, bool, error) {
	var limit decimal.Decimal

	err := btx.tx.QueryRowContext(ctx, `
		SELECT limit_amount FROM budget_limits
		WHERE period_id = $1 AND category_id = $2
		FOR UPDATE
	`, periodID, categoryID).Scan(&limit)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Zero, false, nil
		}

		return decimal.Zero, false, fmt.Errorf("locking budget limit: %w", err)
	}

	return limit, true, nil
}

func (btx *budgetTx) UpsertLimit(ctx context.Context, periodID, categoryID int64, amount decimal.Decimal) error {
	_, err := btx.tx.ExecContext(ctx, `
		INSERT INTO budget_limits (period_id, category_id, limit_amount)
		VALUES ($1, $2, $3)
		ON CONFLICT (period_id, category_id) DO UPDATE SET limit_amount = EXCLUDED.limit_amount
	`, periodID, categoryID, amount)
	if err != nil {
		return fmt.Errorf("upserting budget limit: %w", err)
	}

	return nil
}

func (btx *budgetTx) SpentAmount(ctx context.Context, q budget.SpendQuery) (decimal.Decimal, error) {
	return spentAmount(ctx, btx.tx, q)
}
