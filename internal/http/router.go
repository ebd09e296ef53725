package http

import (
	"net/http"
	"strings"
	"time"

	"talnurt/internal/domain/actor"
	"talnurt/internal/http/handlers"
	"talnurt/internal/http/metrics"
	httpmw "talnurt/internal/http/middleware"
)

type RouterDependencies struct {
	ReportHandler     *handlers.ReportHandler
	AllocationHandler *handlers.AllocationHandler
	SubmissionHandler *handlers.SubmissionHandler
	ActorHandler      *handlers.ActorHandler
	MetricsHandler    *handlers.MetricsHandler
	AuthMiddleware    *httpmw.AuthMiddleware
	Metrics           *metrics.Collector
	RequestTimeout    time.Duration
}

type Router struct {
	deps RouterDependencies
}

const maxBodyBytes = 1 << 20

func NewRouter(deps RouterDependencies) http.Handler {
	return &Router{deps: deps}
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	handler := httpmw.Chain(r.baseHandler(), httpmw.RequestID, httpmw.Logging, httpmw.BodyLimit(maxBodyBytes), httpmw.Recover, httpmw.Metrics(r.deps.Metrics), httpmw.Timeout(r.deps.RequestTimeout))
	handler.ServeHTTP(w, req)
}

func (r *Router) baseHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		path := req.URL.Path

		switch {
		case req.Method == http.MethodGet && path == "/health":
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
			return
		case req.Method == http.MethodGet && path == "/metrics":
			r.deps.MetricsHandler.Get(w, req)
			return
		}

		if strings.HasPrefix(path, "/reports") || strings.HasPrefix(path, "/profile-allocations") || strings.HasPrefix(path, "/candidates") || strings.HasPrefix(path, "/actors") {
			protected := r.deps.AuthMiddleware.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				r.handleProtected(w, req)
			}))
			protected.ServeHTTP(w, req)
			return
		}

		http.NotFound(w, req)
	})
}

func (r *Router) handleProtected(w http.ResponseWriter, req *http.Request) {
	path := req.URL.Path

	switch {
	case req.Method == http.MethodGet && path == "/reports/recipients":
		r.deps.ReportHandler.ListRecipients(w, req)
		return
	case req.Method == http.MethodPost && path == "/reports":
		r.deps.ReportHandler.Create(w, req)
		return
	case req.Method == http.MethodGet && path == "/reports/inbox":
		r.deps.ReportHandler.ListInbox(w, req)
		return
	case req.Method == http.MethodGet && path == "/reports/team":
		httpmw.RequireRole(actor.RoleManager)(http.HandlerFunc(r.deps.ReportHandler.ListTeam)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodPatch && strings.HasPrefix(path, "/reports/") && strings.HasSuffix(path, "/read"):
		r.deps.ReportHandler.MarkRead(w, req)
		return
	case req.Method == http.MethodPost && path == "/profile-allocations":
		httpmw.RequireRole(actor.RoleEmployer)(http.HandlerFunc(r.deps.AllocationHandler.Create)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodGet && path == "/profile-allocations":
		r.deps.AllocationHandler.List(w, req)
		return
	case req.Method == http.MethodPost && strings.HasPrefix(path, "/profile-allocations/") && strings.HasSuffix(path, "/respond"):
		r.deps.AllocationHandler.Respond(w, req)
		return
	case req.Method == http.MethodGet && strings.HasPrefix(path, "/profile-allocations/"):
		httpmw.RequireRole(actor.RoleEmployer)(http.HandlerFunc(r.deps.AllocationHandler.Get)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodPost && path == "/candidates":
		r.deps.SubmissionHandler.Submit(w, req)
		return
	case req.Method == http.MethodGet && path == "/candidates":
		r.deps.SubmissionHandler.ListMine(w, req)
		return
	case req.Method == http.MethodPut && strings.HasPrefix(path, "/candidates/") && strings.HasSuffix(path, "/status"):
		httpmw.RequireRole(actor.RoleEmployer)(http.HandlerFunc(r.deps.SubmissionHandler.Review)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodGet && path == "/actors/team":
		httpmw.RequireRole(actor.RoleManager)(http.HandlerFunc(r.deps.ActorHandler.Team)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodPatch && path == "/actors/role":
		httpmw.RequireRole(actor.RoleAdmin)(http.HandlerFunc(r.deps.ActorHandler.ChangeRole)).ServeHTTP(w, req)
		return
	}

	http.NotFound(w, req)
}
