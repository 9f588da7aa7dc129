package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/daap14/squad/internal/api/middleware"
	"github.com/daap14/squad/internal/api/response"
	"github.com/daap14/squad/internal/api/validation"
	"github.com/daap14/squad/internal/team"
)

type addPlayerRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type playerNameResponse struct {
	First string `json:"first"`
	Last  string `json:"last"`
}

type playerResponse struct {
	ID        string              `json:"id"`
	TeamID    string              `json:"teamId"`
	Name      string              `json:"name"`
	NameParts *playerNameResponse `json:"nameParts,omitempty"`
	Position  int                 `json:"position"`
	CreatedAt string              `json:"createdAt"`
}

func toPlayerResponse(p *team.Player) playerResponse {
	resp := playerResponse{
		ID:        p.ID.String(),
		TeamID:    p.TeamID.String(),
		Name:      p.Name,
		Position:  p.Position,
		CreatedAt: p.CreatedAt.UTC().Format(timeFormat),
	}
	if p.NameParts != nil {
		resp.NameParts = &playerNameResponse{First: p.NameParts.First, Last: p.NameParts.Last}
	}
	return resp
}

// AddPlayer handles POST /teams/{id}/players.
func (h *TeamHandler) AddPlayer(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseTeamID(w, r, requestID)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req addPlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateAddPlayerRequest(validation.AddPlayerRequest{
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	p, err := h.svc.SignPlayer(r.Context(), id, req.FirstName, req.LastName)
	if err != nil {
		switch {
		case errors.Is(err, team.ErrTeamNotFound):
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Team not found", requestID)
		case errors.Is(err, team.ErrPlayersNotLoaded):
			response.Err(w, http.StatusConflict, "PLAYERS_NOT_LOADED", err.Error(), requestID)
		case errors.Is(err, team.ErrInvalidPlayerName):
			response.Err(w, http.StatusBadRequest, "VALIDATION_ERROR", "Player first and last name are required", requestID)
		default:
			slog.Error("failed to add player", "error", err, "teamId", id)
			response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to add player", requestID)
		}
		return
	}

	response.Success(w, http.StatusCreated, toPlayerResponse(p), requestID)
}
