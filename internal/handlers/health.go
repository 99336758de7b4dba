package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/faceconnect/client/internal/models"
	"github.com/faceconnect/client/internal/session"
)

// upstreamTimeout bounds the API status check made by /healthz.
const upstreamTimeout = 2 * time.Second

// StatusChecker reports the liveness of the FaceConnect API.
type StatusChecker interface {
	Status(ctx context.Context) (models.ServerStatus, error)
}

// HealthHandler responds with process health, the session state and, when
// Upstream is set, the API status.
type HealthHandler struct {
	Session  *session.Session
	Upstream StatusChecker
}

// Handle implements GET /healthz. An unreachable API degrades the report but
// the process itself is still healthy, so the status code stays 200.
func (h HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	state := session.LoggedOut
	if h.Session != nil {
		state = h.Session.State()
	}
	body := map[string]string{
		"status":  "ok",
		"session": state.String(),
	}

	if h.Upstream != nil {
		ctx, cancel := context.WithTimeout(r.Context(), upstreamTimeout)
		status, err := h.Upstream.Status(ctx)
		cancel()
		switch {
		case err != nil:
			body["status"] = "degraded"
			body["api"] = "unreachable"
		case status.Status == "":
			body["api"] = "ok"
		default:
			body["api"] = status.Status
		}
	}

	respondJSON(r.Context(), w, http.StatusOK, body)
}
