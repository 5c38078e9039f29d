package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/kitty/internal/database"
	"github.com/MrJamesThe3rd/kitty/internal/membership"
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

// Expected column order: id, ledger_id, user_id, role, joined_at
func scanMember(s scanner) (*membership.Member, error) {
	var (
		m       membership.Member
		roleStr string
	)

	if err := s.Scan(&m.ID, &m.LedgerID, &m.UserID, &roleStr, &m.JoinedAt); err != nil {
		return nil, err
	}

	role, err := membership.ParseRole(roleStr)
	if err != nil {
		return nil, err
	}

	m.Role = role

	return &m, nil
}

const selectMemberColumns = `id, ledger_id, user_id, role, joined_at`

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func listMembers(ctx context.Context, q querier, query string, ledgerID int64) ([]*membership.Member, error) {
	rows, err := q.QueryContext(ctx, query, ledgerID)
	if err != nil {
		return nil, fmt.Errorf("listing members: %w", err)
	}
	defer rows.Close()

	var members []*membership.Member

	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning member: %w", err)
		}

		members = append(members, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating members: %w", err)
	}

	return members, nil
}

// ListMembers orders the owner first, then by join date.
func (s *Store) ListMembers(ctx context.Context, ledgerID int64) ([]*membership.Member, error) {
	query := `SELECT ` + selectMemberColumns + ` FROM ledger_members
		WHERE ledger_id = $1
		ORDER BY (role = 'owner') DESC, joined_at ASC, id ASC`

	return listMembers(ctx, s.db, query, ledgerID)
}

func (s *Store) FindMemberByUser(ctx context.Context, ledgerID int64, userID uuid.UUID) (*membership.Member, error) {
	query := `SELECT ` + selectMemberColumns + ` FROM ledger_members WHERE ledger_id = $1 AND user_id = $2`

	m, err := scanMember(s.db.QueryRowContext(ctx, query, ledgerID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, membership.ErrMemberNotFound
		}

		return nil, fmt.Errorf("finding member: %w", err)
	}

	return m, nil
}

type memberTx struct {
	tx *sql.Tx
}

// Begin locks the ledger row so transitions on the same ledger run one at a time.
func (s *Store) Begin(ctx context.Context, ledgerID int64) (membership.Tx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning membership tx: %w", err)
	}

	var id int64
	if err := dbTx.QueryRowContext(ctx, `SELECT id FROM ledgers WHERE id = $1 FOR UPDATE`, ledgerID).Scan(&id); err != nil {
		dbTx.Rollback()

		if errors.Is(err, sql.ErrNoRows) {
			return nil, membership.ErrLedgerNotFound
		}

		return nil, fmt.Errorf("locking ledger: %w", err)
	}

	return &memberTx{tx: dbTx}, nil
}

func (mtx *memberTx) Commit() error   { return mtx.tx.Commit() }
func (mtx *memberTx) Rollback() error { return mtx.tx.Rollback() }

func (mtx *memberTx) Members(ctx context.Context, ledgerID int64) ([]*membership.Member, error) {
	query := `SELECT ` + selectMemberColumns + ` FROM ledger_members
		WHERE ledger_id = $1
		ORDER BY id ASC
		FOR UPDATE`

	return listMembers(ctx, mtx.tx, query, ledgerID)
}

func (mtx *memberTx) InsertMember(ctx context.Context, m *membership.Member) error {
	query := `
		INSERT INTO ledger_members (ledger_id, user_id, role, joined_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, joined_at
	`

	err := mtx.tx.QueryRowContext(ctx, query, m.LedgerID, m.UserID, m.Role).Scan(&m.ID, &m.JoinedAt)
	if err != nil {
		if database.IsUniqueViolation(err, "ledger_members_ledger_id_user_id_key") {
			return membership.ErrAlreadyMember
		}

		return fmt.Errorf("inserting member: %w", err)
	}

	return nil
}

func (mtx *memberTx) SetRole(ctx context.Context, memberID int64, role membership.Role) error {
	if _, err := mtx.tx.ExecContext(ctx,
		`UPDATE ledger_members SET role = $1 WHERE id = $2`, role, memberID); err != nil {
		return fmt.Errorf("setting member role: %w", err)
	}

	return nil
}

func (mtx *memberTx) DemoteOwners(ctx context.Context, ledgerID, exceptMemberID int64) error {
	if _, err := mtx.tx.ExecContext(ctx, `
		UPDATE ledger_members SET role = $1
		WHERE ledger_id = $2 AND role = $3 AND id <> $4
	`, membership.RoleViewer, ledgerID, membership.RoleOwner, exceptMemberID); err != nil {
		return fmt.Errorf("demoting owners: %w", err)
	}

	return nil
}

func (mtx *memberTx) SetLedgerOwner(ctx context.Context, ledgerID int64, userID uuid.UUID) error {
	if _, err := mtx.tx.ExecContext(ctx,
		`UPDATE ledgers SET owner_id = $1 WHERE id = $2`, userID, ledgerID); err != nil {
		return fmt.Errorf("setting ledger owner: %w", err)
	}

	return nil
}

func (mtx *memberTx) DeleteMember(ctx context.Context, memberID int64) error {
	if _, err := mtx.tx.ExecContext(ctx, `DELETE FROM ledger_members WHERE id = $1`, memberID); err != nil {
		return fmt.Errorf("deleting member: %w", err)
	}

	return nil
}
