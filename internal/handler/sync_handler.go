package handler

import (
	"errors"
	"net/http"

	"countme-core/internal/sync"
	"countme-core/pkg/response"
)

type SyncHandler struct {
	engine *sync.Engine
}

func NewSyncHandler(engine *sync.Engine) *SyncHandler {
	return &SyncHandler{engine: engine}
}

// Trigger runs one sync cycle and reports the outcome. An offline network is
// 503 so clients can back off; everything else that went wrong per-item is in
// the report body.
func (h *SyncHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	report, err := h.engine.Sync(r.Context())
	if err != nil {
		switch {
		case errors.Is(err, sync.ErrNetworkUnavailable):
			response.ServiceUnavailable(w, "Network unavailable, changes remain queued")
		case errors.Is(err, sync.ErrNotAuthenticated):
			response.Unauthorized(w, "Sync requires authentication")
		default:
			response.InternalError(w, "Sync failed")
		}
		return
	}

	failures := make([]string, 0, len(report.Failures))
	for _, f := range report.Failures {
		failures = append(failures, f.Error())
	}
	response.Success(w, map[string]any{
		"pushed":   report.Pushed,
		"pulled":   report.Pulled,
		"skipped":  report.Skipped,
		"deferred": report.Deferred,
		"failures": failures,
	})
}

type queuedOpView struct {
	Entity      string `json:"entity"`
	EntityID    string `json:"entity_id"`
	Kind        string `json:"kind"`
	Attempts    int    `json:"attempts"`
	EnqueuedAt  string `json:"enqueued_at"`
	NextAttempt string `json:"next_attempt,omitempty"`
}

// Status exposes the pending queue without mutating it.
func (h *SyncHandler) Status(w http.ResponseWriter, r *http.Request) {
	ops := h.engine.QueueSnapshot()
	views := make([]queuedOpView, 0, len(ops))
	for _, op := range ops {
		view := queuedOpView{
			Entity:     string(op.Entity),
			EntityID:   op.EntityID,
			Kind:       string(op.Kind),
			Attempts:   op.Attempts,
			EnqueuedAt: op.EnqueuedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		}
		if !op.NextAttempt.IsZero() {
			view.NextAttempt = op.NextAttempt.UTC().Format("2006-01-02T15:04:05Z07:00")
		}
		views = append(views, view)
	}

	response.Success(w, map[string]any{
		"pending": len(views),
		"queue":   views,
	})
}
