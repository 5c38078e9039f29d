package category

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/kitty/internal/category"
	"github.com/MrJamesThe3rd/kitty/internal/http/auth"
	"github.com/MrJamesThe3rd/kitty/internal/http/respond"
)

type Handler struct {
	svc *category.Service
}

func NewHandler(svc *category.Service) *Handler {
	return &Handler{svc: svc}
}

// Routes mounts the caller's own categories under /categories.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Patch("/{categoryID}", h.rename)
	r.Delete("/{categoryID}", h.delete)
}

// LedgerRoutes mounts the members' shared view under /ledgers/{ledgerID}/categories.
func (h *Handler) LedgerRoutes(r chi.Router) {
	r.Get("/", h.listForLedger)
}

type categoryResponse struct {
	ID        int64         `json:"id"`
	Name      string        `json:"name"`
	Type      category.Type `json:"type"`
	CreatedAt time.Time     `json:"created_at"`
}

func toResponse(c *category.Category) categoryResponse {
	return categoryResponse{ID: c.ID, Name: c.Name, Type: c.Type, CreatedAt: c.CreatedAt}
}

func toResponseList(cs []*category.Category) []categoryResponse {
	resp := make([]categoryResponse, len(cs))
	for i, c := range cs {
		resp[i] = toResponse(c)
	}

	return resp
}

func typeFilter(r *http.Request) *category.Type {
	if s := r.URL.Query().Get("type"); s != "" {
		return new(category.Type(s))
	}

	return nil
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		respond.Error(w, r, respond.ErrUnauthorized)
		return
	}

	cs, err := h.svc.ListForUser(r.Context(), userID, typeFilter(r))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponseList(cs))
}

func (h *Handler) listForLedger(w http.ResponseWriter, r *http.Request) {
	ledgerID, err := respond.IDParam(r, "ledgerID")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	cs, err := h.svc.ListForLedger(r.Context(), ledgerID, typeFilter(r))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponseList(cs))
}

type createCategoryRequest struct {
	Name string        `json:"name" validate:"required,max=100"`
	Type category.Type `json:"type" validate:"required,oneof=income expense"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		respond.Error(w, r, respond.ErrUnauthorized)
		return
	}

	var req createCategoryRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	c, err := h.svc.Create(r.Context(), userID, req.Name, req.Type)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(c))
}

type renameCategoryRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

func (h *Handler) rename(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		respond.Error(w, r, respond.ErrUnauthorized)
		return
	}

	id, err := respond.IDParam(r, "categoryID")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var req renameCategoryRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	c, err := h.svc.Rename(r.Context(), id, userID, req.Name)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(c))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		respond.Error(w, r, respond.ErrUnauthorized)
		return
	}

	id, err := respond.IDParam(r, "categoryID")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	if err := h.svc.Delete(r.Context(), id, userID); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
