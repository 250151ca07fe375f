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

// GameHandler handles game and roster endpoints
type GameHandler struct {
	facade *admin.Facade
}

// NewGameHandler creates a new game handler
func NewGameHandler(facade *admin.Facade) *GameHandler {
	return &GameHandler{facade: facade}
}

// List handles GET /api/v1/games
func (h *GameHandler) List(w http.ResponseWriter, r *http.Request) {
	cityID := model.CityID(r.URL.Query().Get("city"))

	res := h.facade.ListGames(r.Context(), cityID)
	if !res.Success {
		apierr.WriteError(w, res.Cause())
		return
	}
	response.JSON(w, http.StatusOK, res)
}

// Get handles GET /api/v1/games/{id}
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	gameID := model.GameID(mux.Vars(r)["id"])

	res := h.facade.GetGame(r.Context(), gameID)
	if !res.Success {
		apierr.WriteError(w, res.Cause())
		return
	}
	response.JSON(w, http.StatusOK, res)
}

// PromoteFromWaitlist handles POST /api/v1/games/{id}/waitlist/{uid}/promote
func (h *GameHandler) PromoteFromWaitlist(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	gameID := model.GameID(vars["id"])
	uid := model.UID(vars["uid"])

	res := h.facade.MovePlayerFromWaitlist(r.Context(), gameID, uid)
	if !res.Success {
		apierr.WriteError(w, res.Cause())
		return
	}
	response.NoContent(w)
}

// RemovePlayer handles DELETE /api/v1/games/{id}/roster/{uid}
func (h *GameHandler) RemovePlayer(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	gameID := model.GameID(vars["id"])
	uid := model.UID(vars["uid"])
	fromWaitlist := r.URL.Query().Get("list") == string(model.ListWaitlist)

	res := h.facade.RemovePlayerFromGame(r.Context(), gameID, uid, fromWaitlist)
	if !res.Success {
		apierr.WriteError(w, res.Cause())
		return
	}
	response.NoContent(w)
}

// MovePlayer handles POST /api/v1/games/{id}/roster/move
func (h *GameHandler) MovePlayer(w http.ResponseWriter, r *http.Request) {
	gameID := model.GameID(mux.Vars(r)["id"])

	var req request.MovePlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}
	if req.Player.UID == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("player.uid is required"))
		return
	}

	res := h.facade.MovePlayerBetweenLists(r.Context(), gameID, req.Player,
		model.RosterList(req.From), model.RosterList(req.To))
	if !res.Success {
		apierr.WriteError(w, res.Cause())
		return
	}
	response.NoContent(w)
}

// AssignTeams handles PUT /api/v1/games/{id}/teams
func (h *GameHandler) AssignTeams(w http.ResponseWriter, r *http.Request) {
	gameID := model.GameID(mux.Vars(r)["id"])

	var req request.AssignTeamsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	res := h.facade.AssignTeams(r.Context(), gameID, req.Assignments)
	if !res.Success {
		apierr.WriteError(w, res.Cause())
		return
	}
	response.NoContent(w)
}

// Complete handles POST /api/v1/games/{id}/complete
func (h *GameHandler) Complete(w http.ResponseWriter, r *http.Request) {
	gameID := model.GameID(mux.Vars(r)["id"])

	res := h.facade.MarkGameAsPlayed(r.Context(), gameID)
	if !res.Success {
		apierr.WriteError(w, res.Cause())
		return
	}
	response.JSON(w, http.StatusOK, res)
}
