package handlers

import (
	"net/http"

	"talnurt/internal/app"
	"talnurt/internal/common"
	"talnurt/internal/domain/submission"
	"talnurt/internal/http/middleware"
	"talnurt/internal/http/response"
)

type SubmissionHandler struct {
	submissions *app.SubmissionService
}

func NewSubmissionHandler(submissions *app.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissions: submissions}
}

type submitCandidateRequest struct {
	CandidateID  string   `json:"candidate_id"`
	AllocationID string   `json:"allocation_id,omitempty"`
	Notes        string   `json:"notes"`
	Tags         []string `json:"tags"`
}

func (h *SubmissionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.ActorIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	var req submitCandidateRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	candidateID, err := common.ParseUUID(req.CandidateID)
	if err != nil {
		response.Error(w, common.NewValidationError("invalid request", map[string]string{"candidate_id": "invalid uuid"}))
		return
	}
	input := app.SubmitCandidateInput{
		CandidateID: candidateID,
		Notes:       req.Notes,
		Tags:        req.Tags,
	}
	if req.AllocationID != "" {
		allocationID, err := common.ParseUUID(req.AllocationID)
		if err != nil {
			response.Error(w, common.NewValidationError("invalid request", map[string]string{"allocation_id": "invalid uuid"}))
			return
		}
		input.AllocationID = &allocationID
	}
	result, err := h.submissions.Submit(r.Context(), actorID, input)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, result)
}

type reviewRequest struct {
	Status   string                     `json:"status"`
	Feedback *submission.ReviewFeedback `json:"feedback,omitempty"`
}

func (h *SubmissionHandler) Review(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.ActorIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	submissionID, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req reviewRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	if req.Status == "" {
		response.Error(w, common.NewValidationError("invalid request", map[string]string{"status": "status is required"}))
		return
	}
	feedback := submission.ReviewFeedback{}
	if req.Feedback != nil {
		feedback = *req.Feedback
	}
	updated, err := h.submissions.Review(r.Context(), submissionID, actorID, submission.Status(req.Status), feedback)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

func (h *SubmissionHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.ActorIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	items, err := h.submissions.ListByRecruiter(r.Context(), actorID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}
