package category

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=category
type Repository interface {
	CreateCategory(ctx context.Context, c *Category) error
	GetCategory(ctx context.Context, id int64) (*Category, error)
	ListCategories(ctx context.Context, filter ListFilter) ([]*Category, error)
	RenameCategory(ctx context.Context, id int64, userID uuid.UUID, name string) error
	DeleteCategory(ctx context.Context, id int64, userID uuid.UUID) error
}

type ListFilter struct {
	UserID   *uuid.UUID
	LedgerID *int64 // categories of every member of the ledger
	Type     *Type
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// canonicalName trims and NFC-normalises a name so visually identical names
// collide on the (user, type, name) uniqueness rule.
func canonicalName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

func (s *Service) Create(ctx context.Context, userID uuid.UUID, name string, typ Type) (*Category, error) {
	name = canonicalName(name)
	if name == "" {
		return nil, ErrInvalidName
	}

	if !typ.Valid() {
		return nil, ErrInvalidType
	}

	c := &Category{UserID: userID, Name: name, Type: typ}
	if err := s.repo.CreateCategory(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Category, error) {
	return s.repo.GetCategory(ctx, id)
}

// ListForUser lists the caller's own categories, optionally of one type.
func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID, typ *Type) ([]*Category, error) {
	if typ != nil && !typ.Valid() {
		return nil, ErrInvalidType
	}

	return s.repo.ListCategories(ctx, ListFilter{UserID: &userID, Type: typ})
}

// ListForLedger lists the union of the categories owned by the ledger's members.
func (s *Service) ListForLedger(ctx context.Context, ledgerID int64, typ *Type) ([]*Category, error) {
	if typ != nil && !typ.Valid() {
		return nil, ErrInvalidType
	}

	return s.repo.ListCategories(ctx, ListFilter{LedgerID: &ledgerID, Type: typ})
}

func (s *Service) Rename(ctx context.Context, id int64, userID uuid.UUID, name string) (*Category, error) {
	name = canonicalName(name)
	if name == "" {
		return nil, ErrInvalidName
	}

	if err := s.repo.RenameCategory(ctx, id, userID, name); err != nil {
		return nil, err
	}

	return s.repo.GetCategory(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64, userID uuid.UUID) error {
	return s.repo.DeleteCategory(ctx, id, userID)
}
