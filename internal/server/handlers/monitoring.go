package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	ferrors "git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/server/responses"
	"git.home.luguber.info/inful/sitebuilder/internal/submissions"
	"git.home.luguber.info/inful/sitebuilder/internal/version"
)

// Status is what the health endpoint reports on.
type Status interface {
	Session
	PreviewClients() int
}

// MonitoringHandlers serves /health.
type MonitoringHandlers struct {
	status       Status
	started      time.Time
	errorAdapter *ferrors.HTTPErrorAdapter
}

// NewMonitoringHandlers creates monitoring handlers.
func NewMonitoringHandlers(status Status, logger *slog.Logger) *MonitoringHandlers {
	return &MonitoringHandlers{
		status:       status,
		started:      time.Now(),
		errorAdapter: ferrors.NewHTTPErrorAdapter(logger),
	}
}

// HandleHealthCheck reports liveness and the editing session state.
func (h *MonitoringHandlers) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	health := &responses.HealthResponse{
		Status:         "healthy",
		Timestamp:      time.Now().UTC(),
		Version:        version.Version,
		Uptime:         time.Since(h.started).Seconds(),
		EditorState:    h.status.Controller().State().String(),
		PreviewClients: h.status.PreviewClients(),
		PendingAssets:  h.status.Pending(),
	}
	if err := writeJSONPretty(w, r, http.StatusOK, health); err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, ferrors.WrapError(err, ferrors.CategoryInternal, "failed to write health response").Build())
	}
}

// SubmissionLister reads stored submissions.
type SubmissionLister interface {
	List(ctx context.Context) ([]submissions.Summary, error)
	Revisions(ctx context.Context, id string) ([]submissions.Revision, error)
}

// SubmissionHandlers serves /api/submissions.
type SubmissionHandlers struct {
	store        SubmissionLister
	errorAdapter *ferrors.HTTPErrorAdapter
}

// NewSubmissionHandlers creates submission handlers.
func NewSubmissionHandlers(store SubmissionLister, logger *slog.Logger) *SubmissionHandlers {
	return &SubmissionHandlers{store: store, errorAdapter: ferrors.NewHTTPErrorAdapter(logger)}
}

// HandleList lists stored submissions, most recently updated first.
func (h *SubmissionHandlers) HandleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.store.List(r.Context())
	if err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}
	if list == nil {
		list = []submissions.Summary{}
	}
	_ = writeJSONPretty(w, r, http.StatusOK, list)
}

// HandleRevisions lists the saved revisions of a submission.
func (h *SubmissionHandlers) HandleRevisions(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	revs, err := h.store.Revisions(r.Context(), id)
	if err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}
	if len(revs) == 0 {
		h.errorAdapter.WriteErrorResponse(w, r, ferrors.NotFoundError("submission not found").
			WithContext("submission_id", id).
			Build())
		return
	}
	_ = writeJSONPretty(w, r, http.StatusOK, revs)
}
