package handlers

import (
	"net/http"
	"time"

	"talnurt/internal/app"
	"talnurt/internal/common"
	"talnurt/internal/domain/actor"
	"talnurt/internal/domain/allocation"
	"talnurt/internal/http/middleware"
	"talnurt/internal/http/response"
)

type AllocationHandler struct {
	allocations *app.AllocationService
	limiter     middleware.Limiter
}

func NewAllocationHandler(allocations *app.AllocationService, limiter middleware.Limiter) *AllocationHandler {
	return &AllocationHandler{allocations: allocations, limiter: limiter}
}

type createAllocationRequest struct {
	JobTitle    string   `json:"job_title"`
	Description string   `json:"description"`
	Skills      []string `json:"skills"`
	Locations   []string `json:"locations"`
	Experience  string   `json:"experience"`
	EmployeeIDs []string `json:"employee_ids"`
}

func (h *AllocationHandler) Create(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.ActorIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	var req createAllocationRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	employeeIDs := make([]common.UUID, 0, len(req.EmployeeIDs))
	for _, raw := range req.EmployeeIDs {
		parsed, err := common.ParseUUID(raw)
		if err != nil {
			response.Error(w, common.NewValidationError("invalid request", map[string]string{"employee_ids": "invalid uuid"}))
			return
		}
		employeeIDs = append(employeeIDs, parsed)
	}
	created, err := h.allocations.Create(r.Context(), actorID, app.CreateAllocationInput{
		JobTitle:    req.JobTitle,
		Description: req.Description,
		Skills:      req.Skills,
		Locations:   req.Locations,
		Experience:  req.Experience,
		EmployeeIDs: employeeIDs,
	})
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, created)
}

type respondRequest struct {
	Status   string `json:"status"`
	Response string `json:"response"`
}

func (h *AllocationHandler) Respond(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.ActorIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	allocationID, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req respondRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	if req.Status == "" {
		response.Error(w, common.NewValidationError("invalid request", map[string]string{"status": "status is required"}))
		return
	}
	if h.limiter != nil {
		key := "respond:" + allocationID.String() + ":" + actorID.String()
		if !h.limiter.Allow(key, 5, time.Minute) {
			response.Error(w, common.NewError(common.CodeRateLimited, "respond rate limit exceeded", nil))
			return
		}
	}
	updated, err := h.allocations.Respond(r.Context(), allocationID, actorID, allocation.AssignmentStatus(req.Status), req.Response)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

func (h *AllocationHandler) Get(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.ActorIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	allocationID, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	alloc, err := h.allocations.Get(r.Context(), allocationID, actorID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, alloc)
}

// List dispatches on the caller's role: employers see their allocations,
// staff see the assignments addressed to them.
func (h *AllocationHandler) List(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.ActorIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	role, _ := middleware.RoleFromContext(r.Context())
	if role == actor.RoleEmployer {
		items, err := h.allocations.ListByEmployer(r.Context(), actorID)
		if err != nil {
			response.Error(w, err)
			return
		}
		response.JSON(w, http.StatusOK, items)
		return
	}
	items, err := h.allocations.ListAssignments(r.Context(), actorID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}
