package handlers

import (
	"net/http"
	"time"

	"talnurt/internal/app"
	"talnurt/internal/common"
	"talnurt/internal/http/middleware"
	"talnurt/internal/http/response"
)

type ReportHandler struct {
	reports    *app.ReportService
	recipients *app.RecipientService
	limiter    middleware.Limiter
}

func NewReportHandler(reports *app.ReportService, recipients *app.RecipientService, limiter middleware.Limiter) *ReportHandler {
	return &ReportHandler{reports: reports, recipients: recipients, limiter: limiter}
}

func (h *ReportHandler) ListRecipients(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.ActorIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	items, err := h.recipients.ListRecipients(r.Context(), actorID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

type createReportRequest struct {
	RecipientID string `json:"recipient_id"`
	Title       string `json:"title"`
	Content     string `json:"content"`
}

func (h *ReportHandler) Create(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.ActorIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	var req createReportRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	recipientID, err := common.ParseUUID(req.RecipientID)
	if err != nil {
		response.Error(w, common.NewValidationError("invalid request", map[string]string{"recipient_id": "invalid uuid"}))
		return
	}
	if h.limiter != nil {
		key := "report:" + actorID.String()
		if !h.limiter.Allow(key, 10, time.Minute) {
			response.Error(w, common.NewError(common.CodeRateLimited, "report rate limit exceeded", nil))
			return
		}
	}
	created, err := h.reports.Create(r.Context(), actorID, recipientID, req.Title, req.Content)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, created)
}

func (h *ReportHandler) ListInbox(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.ActorIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	items, err := h.reports.ListInbox(r.Context(), actorID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

// ListTeam serves the sent/team view. For managers this is deliberately
// narrower than what createReport permits.
func (h *ReportHandler) ListTeam(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.ActorIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	items, err := h.reports.ListSent(r.Context(), actorID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

func (h *ReportHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.ActorIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	reportID, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	updated, err := h.reports.MarkRead(r.Context(), reportID, actorID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}
