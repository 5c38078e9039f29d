package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MrJamesThe3rd/kitty/internal/database"
	"github.com/MrJamesThe3rd/kitty/internal/transaction"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanTransaction reads a transaction row from the scanner and returns a populated Transaction.
// Expected column order: id, ledger_id, category_id, category_name, user_id, amount, type, date, note, created_at, updated_at
func scanTransaction(s scanner) (*transaction.Transaction, error) {
	var (
		tx      transaction.Transaction
		typeStr string
	)

	if err := s.Scan(
		&tx.ID, &tx.LedgerID, &tx.CategoryID, &tx.CategoryName, &tx.UserID,
		&tx.Amount, &typeStr, &tx.Date, &tx.Note,
		&tx.CreatedAt, &tx.UpdatedAt,
	); err != nil {
		return nil, err
	}

	tx.Type = transaction.Type(typeStr)

	return &tx, nil
}

const selectTransactionColumns = `
	t.id, t.ledger_id, t.category_id, c.name AS category_name, t.user_id,
	t.amount, t.type, t.date, t.note, t.created_at, t.updated_at
`

func (s *Store) CreateTransaction(ctx context.Context, tx *transaction.Transaction) error {
	query := `
		INSERT INTO transactions (ledger_id, category_id, user_id, amount, type, date, note, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6::date, $7, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		tx.LedgerID,
		tx.CategoryID,
		tx.UserID,
		tx.Amount,
		tx.Type,
		tx.Date.Format("2006-01-02"),
		tx.Note,
	).Scan(&tx.ID, &tx.CreatedAt, &tx.UpdatedAt)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return transaction.ErrCategoryNotFound
		}

		return fmt.Errorf("creating transaction: %w", err)
	}

	return nil
}

func (s *Store) GetTransaction(ctx context.Context, id int64) (*transaction.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + `
		FROM transactions t
		JOIN categories c ON c.id = t.category_id
		WHERE t.id = $1`

	tx, err := scanTransaction(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, transaction.ErrNotFound
		}

		return nil, fmt.Errorf("getting transaction: %w", err)
	}

	return tx, nil
}

func (s *Store) ListTransactions(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + `
		FROM transactions t
		JOIN categories c ON c.id = t.category_id
		WHERE TRUE`

	var args []any

	argIdx := 1

	if filter.LedgerID != nil {
		query += fmt.Sprintf(" AND t.ledger_id = $%d", argIdx)

		args = append(args, *filter.LedgerID)
		argIdx++
	}

	if filter.CategoryID != nil {
		query += fmt.Sprintf(" AND t.category_id = $%d", argIdx)

		args = append(args, *filter.CategoryID)
		argIdx++
	}

	if filter.Type != nil {
		query += fmt.Sprintf(" AND t.type = $%d", argIdx)

		args = append(args, *filter.Type)
		argIdx++
	}

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND t.date >= $%d::date", argIdx)

		args = append(args, filter.StartDate.Format("2006-01-02"))
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND t.date <= $%d::date", argIdx)

		args = append(args, filter.EndDate.Format("2006-01-02"))
		argIdx++
	}

	if filter.MinAmount != nil {
		query += fmt.Sprintf(" AND t.amount >= $%d", argIdx)

		args = append(args, *filter.MinAmount)
		argIdx++
	}

	if filter.MaxAmount != nil {
		query += fmt.Sprintf(" AND t.amount <= $%d", argIdx)

		args = append(args, *filter.MaxAmount)
	}

	query += " ORDER BY t.date DESC, t.id DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var txs []*transaction.Transaction

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transactions: %w", err)
	}

	return txs, nil
}

func (s *Store) UpdateTransaction(ctx context.Context, tx *transaction.Transaction) error {
	query := `
		UPDATE transactions
		SET ledger_id = $1, category_id = $2, amount = $3, type = $4, date = $5::date, note = $6, updated_at = NOW()
		WHERE id = $7
	`

	res, err := s.db.ExecContext(ctx, query,
		tx.LedgerID,
		tx.CategoryID,
		tx.Amount,
		tx.Type,
		tx.Date.Format("2006-01-02"),
		tx.Note,
		tx.ID,
	)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return transaction.ErrCategoryNotFound
		}

		return fmt.Errorf("updating transaction: %w", err)
	}

	return expectOne(res, "updating transaction")
}

func (s *Store) DeleteTransaction(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}

	return expectOne(res, "deleting transaction")
}

func expectOne(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if n == 0 {
		return transaction.ErrNotFound
	}

	return nil
}
