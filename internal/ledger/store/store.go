package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/kitty/internal/ledger"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

// Expected column order: id, name, owner_id, created_at
func scanLedger(s scanner) (*ledger.Ledger, error) {
	var l ledger.Ledger
	if err := s.Scan(&l.ID, &l.Name, &l.OwnerID, &l.CreatedAt); err != nil {
		return nil, err
	}

	return &l, nil
}

func (s *Store) CreateLedger(ctx context.Context, l *ledger.Ledger) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	err = dbTx.QueryRowContext(ctx, `
		INSERT INTO ledgers (name, owner_id, created_at)
		VALUES ($1, $2, NOW())
		RETURNING id, created_at
	`, l.Name, l.OwnerID).Scan(&l.ID, &l.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating ledger: %w", err)
	}

	if _, err := dbTx.ExecContext(ctx, `
		INSERT INTO ledger_members (ledger_id, user_id, role, joined_at)
		VALUES ($1, $2, 'owner', NOW())
	`, l.ID, l.OwnerID); err != nil {
		return fmt.Errorf("adding ledger owner: %w", err)
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

func (s *Store) GetLedger(ctx context.Context, id int64) (*ledger.Ledger, error) {
	l, err := scanLedger(s.db.QueryRowContext(ctx,
		`SELECT id, name, owner_id, created_at FROM ledgers WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ledger.ErrNotFound
		}

		return nil, fmt.Errorf("getting ledger: %w", err)
	}

	return l, nil
}

func (s *Store) ListLedgers(ctx context.Context, userID uuid.UUID) ([]*ledger.Ledger, error) {
	query := `
		SELECT l.id, l.name, l.owner_id, l.created_at
		FROM ledgers l
		JOIN ledger_members m ON m.ledger_id = l.id
		WHERE m.user_id = $1
		ORDER BY l.name ASC, l.id ASC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing ledgers: %w", err)
	}
	defer rows.Close()

	var ledgers []*ledger.Ledger

	for rows.Next() {
		l, err := scanLedger(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning ledger: %w", err)
		}

		ledgers = append(ledgers, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating ledgers: %w", err)
	}

	return ledgers, nil
}

func (s *Store) RenameLedger(ctx context.Context, id int64, name string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE ledgers SET name = $1 WHERE id = $2`, name, id)
	if err != nil {
		return fmt.Errorf("renaming ledger: %w", err)
	}

	return expectOne(res, "renaming ledger")
}

func (s *Store) DeleteLedger(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM ledgers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting ledger: %w", err)
	}

	return expectOne(res, "deleting ledger")
}

func expectOne(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if n == 0 {
		return ledger.ErrNotFound
	}

	return nil
}
