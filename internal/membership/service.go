package membership

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/kitty/internal/database"
	"github.com/MrJamesThe3rd/kitty/internal/metrics"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=membership
type Repository interface {
	ListMembers(ctx context.Context, ledgerID int64) ([]*Member, error)
	FindMemberByUser(ctx context.Context, ledgerID int64, userID uuid.UUID) (*Member, error)
	// Begin locks the ledger row, returning ErrLedgerNotFound if it does not exist.
	Begin(ctx context.Context, ledgerID int64) (Tx, error)
}

// Tx is a unit of work over the members of one ledger.
type Tx interface {
	// Members reads every member row FOR UPDATE.
	Members(ctx context.Context, ledgerID int64) ([]*Member, error)
	InsertMember(ctx context.Context, m *Member) error
	SetRole(ctx context.Context, memberID int64, role Role) error
	// DemoteOwners turns every owner except exceptMemberID into a viewer.
	DemoteOwners(ctx context.Context, ledgerID, exceptMemberID int64) error
	SetLedgerOwner(ctx context.Context, ledgerID int64, userID uuid.UUID) error
	DeleteMember(ctx context.Context, memberID int64) error
	Commit() error
	Rollback() error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, ledgerID int64) ([]*Member, error) {
	return s.repo.ListMembers(ctx, ledgerID)
}

// RoleOf returns the caller's role, or ErrMemberNotFound when they are not a member.
func (s *Service) RoleOf(ctx context.Context, ledgerID int64, userID uuid.UUID) (Role, error) {
	m, err := s.repo.FindMemberByUser(ctx, ledgerID, userID)
	if err != nil {
		return "", err
	}

	return m.Role, nil
}

// Add inserts a member. Adding an owner demotes the current one to viewer.
func (s *Service) Add(ctx context.Context, ledgerID int64, userID uuid.UUID, role Role) (*Member, error) {
	if _, err := ParseRole(string(role)); err != nil {
		return nil, err
	}

	var added *Member

	err := s.transition(ctx, "add", ledgerID, func(tx Tx, members []*Member) error {
		if findByUser(members, userID) != nil {
			return ErrAlreadyMember
		}

		if role == RoleOwner {
			if err := tx.DemoteOwners(ctx, ledgerID, 0); err != nil {
				return err
			}

			if err := tx.SetLedgerOwner(ctx, ledgerID, userID); err != nil {
				return err
			}
		}

		m := &Member{LedgerID: ledgerID, UserID: userID, Role: role}
		if err := tx.InsertMember(ctx, m); err != nil {
			return err
		}

		added = m

		return nil
	})
	if err != nil {
		return nil, err
	}

	return added, nil
}

// ChangeRole moves a member to a new role. Promoting to owner swaps with the
// current owner; demoting the only owner is refused.
func (s *Service) ChangeRole(ctx context.Context, ledgerID, memberID int64, role Role) (*Member, error) {
	if _, err := ParseRole(string(role)); err != nil {
		return nil, err
	}

	var changed *Member

	err := s.transition(ctx, "change_role", ledgerID, func(tx Tx, members []*Member) error {
		target := findByID(members, memberID)
		if target == nil {
			return ErrMemberNotFound
		}

		changed = target

		if target.Role == role {
			return nil
		}

		switch role {
		case RoleOwner:
			if err := tx.DemoteOwners(ctx, ledgerID, target.ID); err != nil {
				return err
			}

			if err := tx.SetLedgerOwner(ctx, ledgerID, target.UserID); err != nil {
				return err
			}
		case RoleEditor, RoleViewer:
			if target.Role == RoleOwner && countOwners(members, target.ID) == 0 {
				return ErrSoleOwner
			}
		}

		if err := tx.SetRole(ctx, target.ID, role); err != nil {
			return err
		}

		target.Role = role

		return nil
	})
	if err != nil {
		return nil, err
	}

	return changed, nil
}

// Remove deletes a member. The owner can only leave through Transfer.
func (s *Service) Remove(ctx context.Context, ledgerID, memberID int64) error {
	return s.transition(ctx, "remove", ledgerID, func(tx Tx, members []*Member) error {
		target := findByID(members, memberID)
		if target == nil {
			return ErrMemberNotFound
		}

		if target.Role == RoleOwner {
			return ErrOwnerRemoval
		}

		return tx.DeleteMember(ctx, target.ID)
	})
}

// Transfer hands ownership from the caller to another member and removes the
// caller from the ledger.
func (s *Service) Transfer(ctx context.Context, ledgerID int64, callerID uuid.UUID, targetMemberID int64) (*Member, error) {
	var owner *Member

	err := s.transition(ctx, "transfer", ledgerID, func(tx Tx, members []*Member) error {
		caller := findByUser(members, callerID)
		if caller == nil || caller.Role != RoleOwner {
			return ErrNotOwner
		}

		target := findByID(members, targetMemberID)
		if target == nil {
			return ErrTargetNotFound
		}

		if target.ID == caller.ID {
			return ErrSelfTransfer
		}

		if err := tx.SetLedgerOwner(ctx, ledgerID, target.UserID); err != nil {
			return err
		}

		if err := tx.DemoteOwners(ctx, ledgerID, target.ID); err != nil {
			return err
		}

		if err := tx.SetRole(ctx, target.ID, RoleOwner); err != nil {
			return err
		}

		if err := tx.DeleteMember(ctx, caller.ID); err != nil {
			return err
		}

		target.Role = RoleOwner
		owner = target

		return nil
	})
	if err != nil {
		return nil, err
	}

	return owner, nil
}

// Leave removes the caller's own membership. The owner must transfer first.
func (s *Service) Leave(ctx context.Context, ledgerID int64, userID uuid.UUID) error {
	return s.transition(ctx, "leave", ledgerID, func(tx Tx, members []*Member) error {
		self := findByUser(members, userID)
		if self == nil {
			return ErrMemberNotFound
		}

		if self.Role == RoleOwner {
			return ErrOwnerRemoval
		}

		return tx.DeleteMember(ctx, self.ID)
	})
}

// transition runs fn against the locked member rows of a ledger and commits
// only if it succeeds. Storage failures surface as database.ErrTxAborted.
func (s *Service) transition(ctx context.Context, op string, ledgerID int64, fn func(tx Tx, members []*Member) error) error {
	err := database.Retry(ctx, "membership_"+op, func() error {
		tx, err := s.repo.Begin(ctx, ledgerID)
		if err != nil {
			return err
		}
		defer tx.Rollback()

		members, err := tx.Members(ctx, ledgerID)
		if err != nil {
			return err
		}

		if err := fn(tx, members); err != nil {
			return err
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit %s: %w", op, err)
		}

		return nil
	})

	switch {
	case err == nil:
		metrics.MembershipTransitions.WithLabelValues(op, metrics.ResultCommitted).Inc()
		slog.InfoContext(ctx, "membership changed", "operation", op, "ledger_id", ledgerID)

		return nil
	case isDomainError(err):
		metrics.MembershipTransitions.WithLabelValues(op, metrics.ResultRejected).Inc()
		return err
	default:
		metrics.MembershipTransitions.WithLabelValues(op, metrics.ResultAborted).Inc()
		return database.Aborted(op, err)
	}
}
