package member

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/kitty/internal/membership"
)

type memberResponse struct {
	ID       int64           `json:"id"`
	LedgerID int64           `json:"ledger_id"`
	UserID   uuid.UUID       `json:"user_id"`
	Role     membership.Role `json:"role"`
	JoinedAt time.Time       `json:"joined_at"`
}

type roleResponse struct {
	Role    membership.Role `json:"role"`
	CanEdit bool            `json:"can_edit"`
	IsOwner bool            `json:"is_owner"`
}

func toResponse(m *membership.Member) memberResponse {
	return memberResponse{ID: m.ID, LedgerID: m.LedgerID, UserID: m.UserID, Role: m.Role, JoinedAt: m.JoinedAt}
}

func toResponseList(members []*membership.Member) []memberResponse {
	resp := make([]memberResponse, len(members))
	for i, m := range members {
		resp[i] = toResponse(m)
	}

	return resp
}
