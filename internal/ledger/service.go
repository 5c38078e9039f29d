package ledger

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/kitty/internal/database"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=ledger
type Repository interface {
	// CreateLedger inserts the ledger and its owner membership together.
	CreateLedger(ctx context.Context, l *Ledger) error
	GetLedger(ctx context.Context, id int64) (*Ledger, error)
	ListLedgers(ctx context.Context, userID uuid.UUID) ([]*Ledger, error)
	RenameLedger(ctx context.Context, id int64, name string) error
	DeleteLedger(ctx context.Context, id int64) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create makes a ledger owned by userID.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, name string) (*Ledger, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidName
	}

	l := &Ledger{Name: name, OwnerID: userID}
	if err := s.repo.CreateLedger(ctx, l); err != nil {
		return nil, database.Aborted("create ledger", err)
	}

	slog.InfoContext(ctx, "ledger created", "ledger_id", l.ID, "owner_id", userID)

	return l, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Ledger, error) {
	return s.repo.GetLedger(ctx, id)
}

// ListForUser lists the ledgers the user is a member of.
func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID) ([]*Ledger, error) {
	return s.repo.ListLedgers(ctx, userID)
}

func (s *Service) Rename(ctx context.Context, id int64, name string) (*Ledger, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidName
	}

	if err := s.repo.RenameLedger(ctx, id, name); err != nil {
		return nil, err
	}

	return s.repo.GetLedger(ctx, id)
}

// Delete removes the ledger with its members, budgets and transactions.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.DeleteLedger(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}

		return database.Aborted("delete ledger", err)
	}

	return nil
}
