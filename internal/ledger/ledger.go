package ledger

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound    = errors.New("ledger not found")
	ErrInvalidName = errors.New("ledger name is required")
)

type Ledger struct {
	ID        int64
	Name      string
	OwnerID   uuid.UUID
	CreatedAt time.Time
}
