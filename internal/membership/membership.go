package membership

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrSoleOwner      = errors.New("ledger must keep an owner")
	ErrNotOwner       = errors.New("only the owner can transfer ownership")
	ErrTargetNotFound = errors.New("transfer target is not a member")
	ErrLedgerNotFound = errors.New("ledger not found")
	ErrMemberNotFound = errors.New("member not found")
	ErrAlreadyMember  = errors.New("user is already a member")
	ErrOwnerRemoval   = errors.New("the owner must transfer ownership before leaving")
	ErrSelfTransfer   = errors.New("cannot transfer ownership to yourself")
	ErrInvalidRole    = errors.New("role must be owner, editor or viewer")
)

type Role string

const (
	RoleOwner  Role = "owner"
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
)

func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleOwner, RoleEditor, RoleViewer:
		return r, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
	}
}

// CanEdit reports whether the role may change budgets and transactions.
func (r Role) CanEdit() bool {
	switch r {
	case RoleOwner, RoleEditor:
		return true
	case RoleViewer:
		return false
	default:
		return false
	}
}

// Satisfies reports whether r grants at least the access of min.
func (r Role) Satisfies(min Role) bool {
	switch min {
	case RoleOwner:
		return r == RoleOwner
	case RoleEditor:
		return r.CanEdit()
	case RoleViewer:
		return r == RoleOwner || r == RoleEditor || r == RoleViewer
	default:
		return false
	}
}

type Member struct {
	ID       int64
	LedgerID int64
	UserID   uuid.UUID
	Role     Role
	JoinedAt time.Time
}

func findByID(members []*Member, id int64) *Member {
	for _, m := range members {
		if m.ID == id {
			return m
		}
	}

	return nil
}

func findByUser(members []*Member, userID uuid.UUID) *Member {
	for _, m := range members {
		if m.UserID == userID {
			return m
		}
	}

	return nil
}

func countOwners(members []*Member, except int64) int {
	n := 0

	for _, m := range members {
		if m.Role == RoleOwner && m.ID != except {
			n++
		}
	}

	return n
}

func isDomainError(err error) bool {
	for _, target := range []error{
		ErrSoleOwner, ErrNotOwner, ErrTargetNotFound, ErrLedgerNotFound,
		ErrMemberNotFound, ErrAlreadyMember, ErrOwnerRemoval, ErrSelfTransfer, ErrInvalidRole,
	} {
		if errors.Is(err, target) {
			return true
		}
	}

	return false
}
