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

// CityHandler handles city endpoints
type CityHandler struct {
	facade *admin.Facade
}

// NewCityHandler creates a new city handler
func NewCityHandler(facade *admin.Facade) *CityHandler {
	return &CityHandler{facade: facade}
}

// List handles GET /api/v1/cities
func (h *CityHandler) List(w http.ResponseWriter, r *http.Request) {
	force := r.URL.Query().Get("force") == "true"

	res := h.facade.GetCities(r.Context(), force)
	if !res.Success {
		apierr.WriteError(w, res.Cause())
		return
	}
	response.JSON(w, http.StatusOK, res)
}

// Get handles GET /api/v1/cities/{id}
func (h *CityHandler) Get(w http.ResponseWriter, r *http.Request) {
	cityID := model.CityID(mux.Vars(r)["id"])

	res := h.facade.GetCity(r.Context(), cityID)
	if !res.Success {
		apierr.WriteError(w, res.Cause())
		return
	}
	response.JSON(w, http.StatusOK, res)
}

// Create handles POST /api/v1/cities
func (h *CityHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}
	if req.Name == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("name is required"))
		return
	}

	res := h.facade.CreateCity(r.Context(), req)
	if !res.Success {
		apierr.WriteError(w, res.Cause())
		return
	}
	response.JSON(w, http.StatusCreated, res)
}

// Update handles PUT /api/v1/cities/{id}
func (h *CityHandler) Update(w http.ResponseWriter, r *http.Request) {
	cityID := model.CityID(mux.Vars(r)["id"])

	var req request.CityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	res := h.facade.UpdateCity(r.Context(), cityID, req)
	if !res.Success {
		apierr.WriteError(w, res.Cause())
		return
	}
	response.JSON(w, http.StatusOK, res)
}

// SetActive handles PUT /api/v1/cities/{id}/active
func (h *CityHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	cityID := model.CityID(mux.Vars(r)["id"])

	var req request.SetCityActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	res := h.facade.SetCityActive(r.Context(), cityID, req.Active)
	if !res.Success {
		apierr.WriteError(w, res.Cause())
		return
	}
	response.NoContent(w)
}

// Delete handles DELETE /api/v1/cities/{id}
func (h *CityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	cityID := model.CityID(mux.Vars(r)["id"])

	res := h.facade.DeleteCity(r.Context(), cityID)
	if !res.Success {
		apierr.WriteError(w, res.Cause())
		return
	}
	response.NoContent(w)
}
