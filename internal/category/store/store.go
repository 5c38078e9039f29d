package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/kitty/internal/category"
	"github.com/MrJamesThe3rd/kitty/internal/database"
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

// Expected column order: id, user_id, name, type, created_at
func scanCategory(s scanner) (*category.Category, error) {
	var (
		c       category.Category
		typeStr string
	)

	if err := s.Scan(&c.ID, &c.UserID, &c.Name, &typeStr, &c.CreatedAt); err != nil {
		return nil, err
	}

	c.Type = category.Type(typeStr)

	return &c, nil
}

func (s *Store) CreateCategory(ctx context.Context, c *category.Category) error {
	query := `
		INSERT INTO categories (user_id, name, type, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query, c.UserID, c.Name, c.Type).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		if database.IsUniqueViolation(err, "") {
			return category.ErrDuplicate
		}

		return fmt.Errorf("creating category: %w", err)
	}

	return nil
}

func (s *Store) GetCategory(ctx context.Context, id int64) (*category.Category, error) {
	query := `SELECT id, user_id, name, type, created_at FROM categories WHERE id = $1`

	c, err := scanCategory(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, category.ErrNotFound
		}

		return nil, fmt.Errorf("getting category: %w", err)
	}

	return c, nil
}

func (s *Store) ListCategories(ctx context.Context, filter category.ListFilter) ([]*category.Category, error) {
	query := `SELECT c.id, c.user_id, c.name, c.type, c.created_at FROM categories c WHERE TRUE`

	var args []any

	argIdx := 1

	if filter.UserID != nil {
		query += fmt.Sprintf(" AND c.user_id = $%d", argIdx)

		args = append(args, *filter.UserID)
		argIdx++
	}

	if filter.LedgerID != nil {
		query += fmt.Sprintf(" AND c.user_id IN (SELECT m.user_id FROM ledger_members m WHERE m.ledger_id = $%d)", argIdx)

		args = append(args, *filter.LedgerID)
		argIdx++
	}

	if filter.Type != nil {
		query += fmt.Sprintf(" AND c.type = $%d", argIdx)

		args = append(args, *filter.Type)
	}

	query += " ORDER BY c.type DESC, c.name ASC, c.id ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	var categories []*category.Category

	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}

		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating categories: %w", err)
	}

	return categories, nil
}

func (s *Store) RenameCategory(ctx context.Context, id int64, userID uuid.UUID, name string) error {
	query := `UPDATE categories SET name = $1 WHERE id = $2 AND user_id = $3`

	res, err := s.db.ExecContext(ctx, query, name, id, userID)
	if err != nil {
		if database.IsUniqueViolation(err, "") {
			return category.ErrDuplicate
		}

		return fmt.Errorf("renaming category: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("renaming category: %w", err)
	}

	if n == 0 {
		return category.ErrNotFound
	}

	return nil
}

// DeleteCategory refuses to remove a category referenced by transactions.
func (s *Store) DeleteCategory(ctx context.Context, id int64, userID uuid.UUID) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	var lockedID int64
	if err := dbTx.QueryRowContext(ctx,
		`SELECT id FROM categories WHERE id = $1 AND user_id = $2 FOR UPDATE`,
		id, userID,
	).Scan(&lockedID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return category.ErrNotFound
		}

		return fmt.Errorf("locking category: %w", err)
	}

	var count int
	if err := dbTx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM transactions WHERE category_id = $1`, id,
	).Scan(&count); err != nil {
		return fmt.Errorf("counting category references: %w", err)
	}

	if count > 0 {
		return &category.InUseError{Count: count}
	}

	if _, err := dbTx.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id); err != nil {
		if database.IsForeignKeyViolation(err) {
			return &category.InUseError{Count: 1}
		}

		return fmt.Errorf("deleting category: %w", err)
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}
