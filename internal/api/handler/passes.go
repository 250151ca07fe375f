package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/rinkhq/pickup-admin/internal/admin"
	"github.com/rinkhq/pickup-admin/internal/api/apierr"
	"github.com/rinkhq/pickup-admin/internal/api/request"
	"github.com/rinkhq/pickup-admin/internal/api/response"
	"github.com/rinkhq/pickup-admin/internal/model"
)

// PassHandler handles pass ledger endpoints
type PassHandler struct {
	facade *admin.Facade
}

// NewPassHandler creates a new pass handler
func NewPassHandler(facade *admin.Facade) *PassHandler {
	return &PassHandler{facade: facade}
}

// List handles GET /api/v1/users/{uid}/passes
func (h *PassHandler) List(w http.ResponseWriter, r *http.Request) {
	uid := model.UID(mux.Vars(r)["uid"])

	res := h.facade.GetPasses(r.Context(), uid)
	if !res.Success {
		apierr.WriteError(w, res.Cause())
		return
	}
	response.JSON(w, http.StatusOK, res)
}

// Add handles POST /api/v1/users/{uid}/passes
func (h *PassHandler) Add(w http.ResponseWriter, r *http.Request) {
	uid := model.UID(mux.Vars(r)["uid"])

	var req request.AddPassRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	res := h.facade.AddPass(r.Context(), uid, model.PassType(req.Type))
	if !res.Success {
		apierr.WriteError(w, res.Cause())
		return
	}
	response.JSON(w, http.StatusCreated, res)
}

// Update handles PUT /api/v1/users/{uid}/passes/{pass_id}
func (h *PassHandler) Update(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	uid := model.UID(vars["uid"])
	passID := model.PassID(vars["pass_id"])

	var req request.UpdatePassRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}
	req.Pass.ID = passID

	res := h.facade.UpdatePass(r.Context(), uid, req.Pass)
	if !res.Success {
		apierr.WriteError(w, res.Cause())
		return
	}
	response.NoContent(w)
}

// Remove handles DELETE /api/v1/users/{uid}/passes/{pass_id}
func (h *PassHandler) Remove(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	uid := model.UID(vars["uid"])
	passID := model.PassID(vars["pass_id"])

	res := h.facade.RemovePass(r.Context(), uid, passID)
	if !res.Success {
		apierr.WriteError(w, res.Cause())
		return
	}
	response.NoContent(w)
}

// Migrate handles POST /api/v1/users/{uid}/passes/migrate
func (h *PassHandler) Migrate(w http.ResponseWriter, r *http.Request) {
	uid := model.UID(mux.Vars(r)["uid"])

	res := h.facade.MigrateLegacyPass(r.Context(), uid)
	if !res.Success {
		apierr.WriteError(w, res.Cause())
		return
	}
	response.JSON(w, http.StatusOK, res)
}
