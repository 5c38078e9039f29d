package transaction

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/kitty/internal/transaction"
)

type transactionResponse struct {
	ID           int64            `json:"id"`
	LedgerID     int64            `json:"ledger_id"`
	CategoryID   int64            `json:"category_id"`
	CategoryName string           `json:"category_name,omitempty"`
	UserID       uuid.UUID        `json:"user_id"`
	Amount       decimal.Decimal  `json:"amount"`
	Type         transaction.Type `json:"type"`
	Date         string           `json:"date"`
	Note         string           `json:"note"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

func toResponse(tx *transaction.Transaction) transactionResponse {
	return transactionResponse{
		ID:           tx.ID,
		LedgerID:     tx.LedgerID,
		CategoryID:   tx.CategoryID,
		CategoryName: tx.CategoryName,
		UserID:       tx.UserID,
		Amount:       tx.Amount,
		Type:         tx.Type,
		Date:         tx.Date.Format(time.DateOnly),
		Note:         tx.Note,
		CreatedAt:    tx.CreatedAt,
		UpdatedAt:    tx.UpdatedAt,
	}
}

func toResponseList(txs []*transaction.Transaction) []transactionResponse {
	resp := make([]transactionResponse, len(txs))
	for i, tx := range txs {
		resp[i] = toResponse(tx)
	}

	return resp
}
