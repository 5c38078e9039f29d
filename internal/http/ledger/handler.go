package ledger

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/kitty/internal/http/auth"
	"github.com/MrJamesThe3rd/kitty/internal/http/respond"
	"github.com/MrJamesThe3rd/kitty/internal/ledger"
	"github.com/MrJamesThe3rd/kitty/internal/membership"
)

type Handler struct {
	svc   *ledger.Service
	roles auth.RoleSource
}

func NewHandler(svc *ledger.Service, roles auth.RoleSource) *Handler {
	return &Handler{svc: svc, roles: roles}
}

// Routes mounts under /ledgers.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
}

// LedgerRoutes mounts under /ledgers/{ledgerID}, behind a membership check.
func (h *Handler) LedgerRoutes(r chi.Router) {
	r.Get("/", h.get)
	r.With(auth.RequireRole(h.roles, membership.RoleEditor)).Patch("/", h.rename)
	r.With(auth.RequireRole(h.roles, membership.RoleOwner)).Delete("/", h.delete)
}

type ledgerResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	OwnerID   uuid.UUID `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}

func toResponse(l *ledger.Ledger) ledgerResponse {
	return ledgerResponse{ID: l.ID, Name: l.Name, OwnerID: l.OwnerID, CreatedAt: l.CreatedAt}
}

type ledgerRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		respond.Error(w, r, respond.ErrUnauthorized)
		return
	}

	var req ledgerRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	l, err := h.svc.Create(r.Context(), userID, req.Name)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(l))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		respond.Error(w, r, respond.ErrUnauthorized)
		return
	}

	ledgers, err := h.svc.ListForUser(r.Context(), userID)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := make([]ledgerResponse, len(ledgers))
	for i, l := range ledgers {
		resp[i] = toResponse(l)
	}

	respond.JSON(w, http.StatusOK, resp)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := respond.IDParam(r, "ledgerID")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	l, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(l))
}

func (h *Handler) rename(w http.ResponseWriter, r *http.Request) {
	id, err := respond.IDParam(r, "ledgerID")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var req ledgerRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	l, err := h.svc.Rename(r.Context(), id, req.Name)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(l))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := respond.IDParam(r, "ledgerID")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
