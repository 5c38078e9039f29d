package member

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/kitty/internal/http/auth"
	"github.com/MrJamesThe3rd/kitty/internal/http/respond"
	"github.com/MrJamesThe3rd/kitty/internal/membership"
)

type Handler struct {
	svc *membership.Service
}

func NewHandler(svc *membership.Service) *Handler {
	return &Handler{svc: svc}
}

// Routes mounts under /ledgers/{ledgerID}/members.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/me", h.me)
	r.Post("/leave", h.leave)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireRole(h.svc, membership.RoleOwner))
		r.Post("/", h.add)
		r.Post("/transfer", h.transfer)
		r.Patch("/{memberID}", h.changeRole)
		r.Delete("/{memberID}", h.remove)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	ledgerID, err := respond.IDParam(r, "ledgerID")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	members, err := h.svc.List(r.Context(), ledgerID)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponseList(members))
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	ledgerID, err := respond.IDParam(r, "ledgerID")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	role, err := auth.Resolve(r.Context(), h.svc, ledgerID)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, roleResponse{
		Role:    role,
		CanEdit: role.CanEdit(),
		IsOwner: role == membership.RoleOwner,
	})
}

type addMemberRequest struct {
	UserID uuid.UUID       `json:"user_id" validate:"required"`
	Role   membership.Role `json:"role" validate:"required,oneof=owner editor viewer"`
}

func (h *Handler) add(w http.ResponseWriter, r *http.Request) {
	ledgerID, err := respond.IDParam(r, "ledgerID")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var req addMemberRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	m, err := h.svc.Add(r.Context(), ledgerID, req.UserID, req.Role)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(m))
}

type changeRoleRequest struct {
	Role membership.Role `json:"role" validate:"required,oneof=owner editor viewer"`
}

func (h *Handler) changeRole(w http.ResponseWriter, r *http.Request) {
	ledgerID, err := respond.IDParam(r, "ledgerID")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	memberID, err := respond.IDParam(r, "memberID")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var req changeRoleRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	m, err := h.svc.ChangeRole(r.Context(), ledgerID, memberID, req.Role)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(m))
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	ledgerID, err := respond.IDParam(r, "ledgerID")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	memberID, err := respond.IDParam(r, "memberID")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	if err := h.svc.Remove(r.Context(), ledgerID, memberID); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type transferRequest struct {
	MemberID int64 `json:"member_id" validate:"required,gt=0"`
}

func (h *Handler) transfer(w http.ResponseWriter, r *http.Request) {
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

	var req transferRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	m, err := h.svc.Transfer(r.Context(), ledgerID, userID, req.MemberID)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(m))
}

func (h *Handler) leave(w http.ResponseWriter, r *http.Request) {
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

	if err := h.svc.Leave(r.Context(), ledgerID, userID); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
