package handlers

import (
	"net/http"

	"talnurt/internal/app"
	"talnurt/internal/common"
	"talnurt/internal/domain/actor"
	"talnurt/internal/http/middleware"
	"talnurt/internal/http/response"
)

type ActorHandler struct {
	directory *app.DirectoryService
}

func NewActorHandler(directory *app.DirectoryService) *ActorHandler {
	return &ActorHandler{directory: directory}
}

type changeRoleRequest struct {
	ActorID string `json:"actor_id"`
	Role    string `json:"role"`
}

// ChangeRole is admin-only (enforced in the router). A manager downgraded to
// employee loses their team in the same transaction.
func (h *ActorHandler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.ActorIDFromContext(r.Context()); !ok {
		response.Error(w, errUnauthorized())
		return
	}
	var req changeRoleRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	targetID, err := common.ParseUUID(req.ActorID)
	if err != nil {
		response.Error(w, common.NewValidationError("invalid request", map[string]string{"actor_id": "invalid uuid"}))
		return
	}
	if req.Role == "" {
		response.Error(w, common.NewValidationError("invalid request", map[string]string{"role": "role is required"}))
		return
	}
	updated, err := h.directory.ChangeRole(r.Context(), targetID, actor.Role(req.Role))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

type teamRosterResponse struct {
	Team    *actor.Team   `json:"team"`
	Members []actor.Actor `json:"members"`
}

// Team returns the calling manager's team and its members.
func (h *ActorHandler) Team(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.ActorIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	team, members, err := h.directory.TeamRoster(r.Context(), actorID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, teamRosterResponse{Team: team, Members: members})
}
