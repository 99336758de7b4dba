package handlers

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/faceconnect/client/internal/logging"
	"github.com/faceconnect/client/internal/ui"
	"github.com/faceconnect/client/internal/view"
)

// PageHandler serves the rendered document.
type PageHandler struct {
	Document *view.Document
	Renderer *view.Renderer
	Toasts   *ui.Toasts
}

func (h PageHandler) activeToasts() []ui.Toast {
	if h.Toasts == nil {
		return nil
	}
	return h.Toasts.Active()
}

// Index handles GET /.
func (h PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Document == nil || h.Renderer == nil {
		logger.Error("page dependencies unavailable", "hasDocument", h.Document != nil, "hasRenderer", h.Renderer != nil)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "page unavailable"})
		return
	}

	var buf bytes.Buffer
	if err := h.Renderer.Page(&buf, h.Renderer.Snapshot(h.Document, h.activeToasts())); err != nil {
		logger.Error("render page failed", "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "failed to render page"})
		return
	}
	respondHTML(ctx, w, http.StatusOK, buf.String())
}

// Fragment handles GET /fragments/{name}: one container, the toasts, or the
// badge counts as JSON.
func (h PageHandler) Fragment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := r.PathValue("name")

	switch name {
	case "toasts":
		html, err := h.Renderer.Toasts(h.activeToasts())
		if err != nil {
			logging.FromContext(ctx).Error("render toasts failed", "error", err)
			respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "failed to render toasts"})
			return
		}
		respondHTML(ctx, w, http.StatusOK, string(html))
		return
	case "badges":
		respondJSON(ctx, w, http.StatusOK, map[string]int{
			"friend_requests": h.Document.Badge(view.BadgeFriendRequests).Count(),
			"notifications":   h.Document.Badge(view.BadgeNotifications).Count(),
			"messages":        h.Document.Badge(view.BadgeMessages).Count(),
		})
		return
	}

	container, ok := h.Document.Lookup(name)
	if !ok {
		if strings.HasPrefix(name, "comments-") {
			respondHTML(ctx, w, http.StatusOK, "")
			return
		}
		respondJSON(ctx, w, http.StatusNotFound, map[string]string{"error": "unknown fragment"})
		return
	}
	if !container.Visible() {
		respondHTML(ctx, w, http.StatusOK, "")
		return
	}
	respondHTML(ctx, w, http.StatusOK, string(container.HTML()))
}
