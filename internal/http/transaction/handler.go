package transaction

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/kitty/internal/http/auth"
	"github.com/MrJamesThe3rd/kitty/internal/http/respond"
	"github.com/MrJamesThe3rd/kitty/internal/membership"
	"github.com/MrJamesThe3rd/kitty/internal/transaction"
)

type Handler struct {
	svc   *transaction.Service
	roles auth.RoleSource
}

func NewHandler(svc *transaction.Service, roles auth.RoleSource) *Handler {
	return &Handler{svc: svc, roles: roles}
}

// Routes mounts under /ledgers/{ledgerID}/transactions.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{id}", h.get)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireRole(h.roles, membership.RoleEditor))
		r.Post("/", h.create)
		r.Patch("/{id}", h.update)
		r.Delete("/{id}", h.delete)
	})
}

type createTransactionRequest struct {
	CategoryID int64            `json:"category_id" validate:"required,gt=0"`
	Amount     *decimal.Decimal `json:"amount" validate:"required"`
	Type       transaction.Type `json:"type" validate:"required,oneof=income expense"`
	Date       string           `json:"date"`
	Note       string           `json:"note" validate:"max=500"`
	Override   bool             `json:"override"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	ledgerID, err := respond.IDParam(r, "ledgerID")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	userID, ok := auth.UserID(r.Context())
	if !ok {
		respond.Error(w, r, respond.ErrUnauthorized)
		return
	}

	var req createTransactionRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	params := transaction.CreateParams{
		LedgerID:   ledgerID,
		CategoryID: req.CategoryID,
		UserID:     userID,
		Amount:     *req.Amount,
		Type:       req.Type,
		Note:       req.Note,
		Override:   req.Override,
	}

	if req.Date != "" {
		d, err := parseDate(req.Date)
		if err != nil {
			respond.Error(w, r, err)
			return
		}

		params.Date = new(d)
	}

	tx, err := h.svc.Create(r.Context(), params)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(tx))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	ledgerID, err := respond.IDParam(r, "ledgerID")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	filter, err := parseFilter(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	filter.LedgerID = &ledgerID

	txs, err := h.svc.List(r.Context(), filter)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponseList(txs))
}

func parseFilter(r *http.Request) (transaction.ListFilter, error) {
	var filter transaction.ListFilter

	q := r.URL.Query()

	if s := q.Get("type"); s != "" {
		filter.Type = new(transaction.Type(s))
	}

	if s := q.Get("category_id"); s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return filter, fmt.Errorf("%w: category_id", respond.ErrInvalidInput)
		}

		filter.CategoryID = new(id)
	}

	for param, dst := range map[string]**time.Time{"start_date": &filter.StartDate, "end_date": &filter.EndDate} {
		if s := q.Get(param); s != "" {
			t, err := time.Parse(time.DateOnly, s)
			if err != nil {
				return filter, fmt.Errorf("%w: %s", respond.ErrInvalidInput, param)
			}

			*dst = new(t)
		}
	}

	for param, dst := range map[string]**decimal.Decimal{"min_amount": &filter.MinAmount, "max_amount": &filter.MaxAmount} {
		if s := q.Get(param); s != "" {
			d, err := decimal.NewFromString(s)
			if err != nil {
				return filter, fmt.Errorf("%w: %s", respond.ErrInvalidInput, param)
			}

			*dst = new(d)
		}
	}

	return filter, nil
}

// load fetches a transaction and hides those of other ledgers.
func (h *Handler) load(r *http.Request) (*transaction.Transaction, error) {
	ledgerID, err := respond.IDParam(r, "ledgerID")
	if err != nil {
		return nil, err
	}

	id, err := respond.IDParam(r, "id")
	if err != nil {
		return nil, err
	}

	tx, err := h.svc.Get(r.Context(), id)
	if err != nil {
		return nil, err
	}

	if tx.LedgerID != ledgerID {
		return nil, transaction.ErrNotFound
	}

	return tx, nil
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	tx, err := h.load(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(tx))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	tx, err := h.load(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	if err := h.svc.Delete(r.Context(), tx.ID); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type updateTransactionRequest struct {
	LedgerID   *int64            `json:"ledger_id,omitempty" validate:"omitempty,gt=0"`
	CategoryID *int64            `json:"category_id,omitempty" validate:"omitempty,gt=0"`
	Amount     *decimal.Decimal  `json:"amount,omitempty"`
	Type       *transaction.Type `json:"type,omitempty" validate:"omitempty,oneof=income expense"`
	Date       *string           `json:"date,omitempty"`
	Note       *string           `json:"note,omitempty" validate:"omitempty,max=500"`
	Override   bool              `json:"override"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	tx, err := h.load(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var req updateTransactionRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	// Moving a transaction needs edit rights in the destination ledger too.
	if req.LedgerID != nil && *req.LedgerID != tx.LedgerID {
		role, err := auth.Resolve(r.Context(), h.roles, *req.LedgerID)
		if err != nil {
			respond.Error(w, r, err)
			return
		}

		if !role.CanEdit() {
			respond.Error(w, r, respond.ErrForbidden)
			return
		}
	}

	params := transaction.UpdateParams{
		LedgerID:   req.LedgerID,
		CategoryID: req.CategoryID,
		Amount:     req.Amount,
		Type:       req.Type,
		Note:       req.Note,
		Override:   req.Override,
	}

	if req.Date != nil {
		d, err := parseDate(*req.Date)
		if err != nil {
			respond.Error(w, r, err)
			return
		}

		params.Date = new(d)
	}

	updated, err := h.svc.Update(r.Context(), tx.ID, params)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(updated))
}

// parseDate accepts a calendar date or an RFC 3339 timestamp.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}

	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q", respond.ErrInvalidInput, s)
	}

	return t, nil
}
