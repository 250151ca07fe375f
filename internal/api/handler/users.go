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

// UserHandler handles user profile endpoints
type UserHandler struct {
	facade *admin.Facade
}

// NewUserHandler creates a new user handler
func NewUserHandler(facade *admin.Facade) *UserHandler {
	return &UserHandler{facade: facade}
}

// List handles GET /api/v1/users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	res := h.facade.ListUsers(r.Context())
	if !res.Success {
		apierr.WriteError(w, res.Cause())
		return
	}
	response.JSON(w, http.StatusOK, res)
}

// Get handles GET /api/v1/users/{uid}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	uid := model.UID(mux.Vars(r)["uid"])

	res := h.facade.GetUser(r.Context(), uid)
	if !res.Success {
		apierr.WriteError(w, res.Cause())
		return
	}
	response.JSON(w, http.StatusOK, res)
}

// Register handles POST /api/v1/users
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}
	if req.UID == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("uid is required"))
		return
	}

	res := h.facade.RegisterUser(r.Context(), model.UID(req.UID), req.Email, req.Name)
	if !res.Success {
		apierr.WriteError(w, res.Cause())
		return
	}
	response.JSON(w, http.StatusCreated, res)
}

// UpdateProfile handles PATCH /api/v1/users/{uid}
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	uid := model.UID(mux.Vars(r)["uid"])

	var req request.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	res := h.facade.UpdateProfile(r.Context(), uid, req)
	if !res.Success {
		apierr.WriteError(w, res.Cause())
		return
	}
	response.NoContent(w)
}

// SetAdmin handles PUT /api/v1/users/{uid}/admin
func (h *UserHandler) SetAdmin(w http.ResponseWriter, r *http.Request) {
	uid := model.UID(mux.Vars(r)["uid"])

	var req request.SetAdminRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	res := h.facade.SetAdmin(r.Context(), uid, model.CityID(req.CityID), req.IsAdmin)
	if !res.Success {
		apierr.WriteError(w, res.Cause())
		return
	}
	response.NoContent(w)
}

// SetRegular handles PUT /api/v1/users/{uid}/regulars/{key}
func (h *UserHandler) SetRegular(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	uid := model.UID(vars["uid"])
	scheduleKey := vars["key"]

	var req request.SetRegularRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	res := h.facade.SetRegular(r.Context(), uid, scheduleKey, req.Regular)
	if !res.Success {
		apierr.WriteError(w, res.Cause())
		return
	}
	response.NoContent(w)
}
