package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/daap14/squad/internal/api/middleware"
	"github.com/daap14/squad/internal/api/response"
	"github.com/daap14/squad/internal/api/validation"
	"github.com/daap14/squad/internal/roster"
	"github.com/daap14/squad/internal/team"
)

const timeFormat = "2006-01-02T15:04:05Z"

type createTeamRequest struct {
	Name      string `json:"name"`
	ShortName string `json:"shortName"`
	Founded   string `json:"founded"`
	Stadium   string `json:"stadium"`
}

type teamResponse struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	ShortName     string           `json:"shortName"`
	Founded       string           `json:"founded"`
	Stadium       string           `json:"stadium"`
	PlayersLoaded bool             `json:"playersLoaded"`
	Players       []playerResponse `json:"players,omitempty"`
	CreatedAt     string           `json:"createdAt"`
	UpdatedAt     string           `json:"updatedAt"`
}

func toTeamResponse(t *team.Team) teamResponse {
	resp := teamResponse{
		ID:            t.ID.String(),
		Name:          t.Name,
		ShortName:     t.ShortName,
		Founded:       t.Founded,
		Stadium:       t.Stadium,
		PlayersLoaded: t.Players.IsLoaded(),
		CreatedAt:     t.CreatedAt.UTC().Format(timeFormat),
		UpdatedAt:     t.UpdatedAt.UTC().Format(timeFormat),
	}
	if t.Players.IsLoaded() {
		resp.Players = make([]playerResponse, 0, t.Players.Len())
		for _, p := range t.Players.Items() {
			resp.Players = append(resp.Players, toPlayerResponse(p))
		}
	}
	return resp
}

// TeamHandler handles team and roster endpoints.
type TeamHandler struct {
	svc *roster.Service
}

// NewTeamHandler creates a new TeamHandler.
func NewTeamHandler(svc *roster.Service) *TeamHandler {
	return &TeamHandler{svc: svc}
}

// Create handles POST /teams.
func (h *TeamHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req createTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateCreateTeamRequest(validation.CreateTeamRequest{
		Name:      req.Name,
		ShortName: req.ShortName,
		Founded:   req.Founded,
		Stadium:   req.Stadium,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	name := strings.TrimSpace(req.Name)
	t, err := h.svc.RegisterTeam(r.Context(),
		name,
		strings.TrimSpace(req.ShortName),
		req.Founded,
		strings.TrimSpace(req.Stadium),
	)
	if err != nil {
		if errors.Is(err, team.ErrDuplicateTeamName) {
			response.Err(w, http.StatusConflict, "DUPLICATE_NAME", fmt.Sprintf("A team named %q already exists", name), requestID)
			return
		}
		slog.Error("failed to create team", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create team", requestID)
		return
	}

	response.Success(w, http.StatusCreated, toTeamResponse(t), requestID)
}

// List handles GET /teams.
func (h *TeamHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	includePlayers, _, ok := parseInclude(w, r, requestID)
	if !ok {
		return
	}

	teams, err := h.svc.ListTeams(r.Context(), includePlayers)
	if err != nil {
		slog.Error("failed to list teams", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list teams", requestID)
		return
	}

	items := make([]teamResponse, 0, len(teams))
	for i := range teams {
		items = append(items, toTeamResponse(&teams[i]))
	}

	response.SuccessList(w, http.StatusOK, items, len(items), requestID)
}

// GetByID handles GET /teams/{id}. The include query parameter selects
// "players" or "players.name"; without it the roster is not fetched.
func (h *TeamHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseTeamID(w, r, requestID)
	if !ok {
		return
	}

	includePlayers, includeNames, ok := parseInclude(w, r, requestID)
	if !ok {
		return
	}

	t, err := h.svc.GetTeam(r.Context(), id, includePlayers, includeNames)
	if err != nil {
		if errors.Is(err, team.ErrTeamNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Team not found", requestID)
			return
		}
		slog.Error("failed to get team", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to get team", requestID)
		return
	}

	response.Success(w, http.StatusOK, toTeamResponse(t), requestID)
}

// Delete handles DELETE /teams/{id}.
func (h *TeamHandler) Delete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseTeamID(w, r, requestID)
	if !ok {
		return
	}

	if err := h.svc.ReleaseTeam(r.Context(), id); err != nil {
		if errors.Is(err, team.ErrTeamNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Team not found", requestID)
			return
		}
		slog.Error("failed to delete team", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete team", requestID)
		return
	}

	response.NoContent(w)
}

func parseTeamID(w http.ResponseWriter, r *http.Request, requestID string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "id must be a valid UUID", requestID)
		return uuid.Nil, false
	}
	return id, true
}

func parseInclude(w http.ResponseWriter, r *http.Request, requestID string) (players, names bool, ok bool) {
	for _, part := range strings.Split(r.URL.Query().Get("include"), ",") {
		switch strings.TrimSpace(part) {
		case "":
		case "players":
			players = true
		case "players.name":
			players, names = true, true
		default:
			response.Err(w, http.StatusBadRequest, "INVALID_INCLUDE", `include must be "players" or "players.name"`, requestID)
			return false, false, false
		}
	}
	return players, names, true
}
