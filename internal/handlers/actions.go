package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/faceconnect/client/internal/api"
	"github.com/faceconnect/client/internal/controller"
	"github.com/faceconnect/client/internal/logging"
	"github.com/faceconnect/client/internal/models"
	"github.com/faceconnect/client/internal/ui"
)

var (
	errInvalidID   = errors.New("invalid id")
	errUnknownView = errors.New("unknown view")
)

// Rate limit scopes.
const (
	scopeAuth    = "auth"
	scopeActions = "actions"
)

// ActionHandler maps browser form posts onto controller operations.
type ActionHandler struct {
	Controller *controller.Controller
	Notifier   ui.Notifier
	Limiter    RateLimiter
}

type actionFunc func(ctx context.Context, r *http.Request) error

type actionResult struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`

	// SessionExpired is set when the API rejected the stored token.
	SessionExpired bool `json:"session_expired,omitempty"`
}

// wrap parses the form, scopes form-backed dialogs to the request, runs fn
// and redirects back to the page. Failures were already shown as toasts.
func (h ActionHandler) wrap(scope string, fn actionFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		logger := logging.FromContext(ctx)

		if h.Controller == nil {
			logger.Error("action dependencies unavailable")
			respondJSON(ctx, w, http.StatusInternalServerError, actionResult{Error: "actions unavailable"})
			return
		}
		if !allowRequest(h.Limiter, r, scope) {
			logger.Warn("action rate limited", "scope", scope, "ip", clientIP(r))
			if h.Notifier != nil {
				h.Notifier.Notify("Too many requests. Please slow down.", ui.LevelError)
			}
			respondJSON(ctx, w, http.StatusTooManyRequests, actionResult{Error: "too many requests"})
			return
		}
		if err := r.ParseForm(); err != nil {
			logger.Warn("invalid action form", "error", err)
			respondJSON(ctx, w, http.StatusBadRequest, actionResult{Error: "invalid form"})
			return
		}

		ctx = ui.WithDialogs(ctx, formDialogs{form: r.PostForm, doc: h.Controller.Document()})
		err := fn(ctx, r)
		if errors.Is(err, errInvalidID) || errors.Is(err, errUnknownView) {
			respondJSON(ctx, w, http.StatusBadRequest, actionResult{Error: err.Error()})
			return
		}
		expired := false
		if err != nil {
			expired = logActionError(logger, scope, err)
		}

		if wantsJSON(r) {
			result := actionResult{OK: err == nil, SessionExpired: expired}
			if err != nil {
				result.Error = err.Error()
			}
			respondJSON(ctx, w, http.StatusOK, result)
			return
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

// logActionError logs a failed action and reports whether the API rejected
// the session token. Credential failures on the auth forms are not expiry.
func logActionError(logger *slog.Logger, scope string, err error) bool {
	var reqErr *api.RequestError
	if !errors.As(err, &reqErr) {
		logger.Info("action failed", "error", err)
		return false
	}
	if scope != scopeAuth && api.IsUnauthorized(err) {
		logger.Warn("api rejected the session token", "request", reqErr.Describe())
		return true
	}
	logger.Info("action failed", "request", reqErr.Describe())
	return false
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidID
	}
	return id, nil
}

func withID(fn func(ctx context.Context, id int64) error) actionFunc {
	return func(ctx context.Context, r *http.Request) error {
		id, err := pathID(r, "id")
		if err != nil {
			return err
		}
		return fn(ctx, id)
	}
}

func (h ActionHandler) login(ctx context.Context, r *http.Request) error {
	return h.Controller.Login(ctx, r.PostForm.Get("email"), r.PostForm.Get("password"))
}

func (h ActionHandler) register(ctx context.Context, r *http.Request) error {
	f := r.PostForm
	return h.Controller.Register(ctx, api.RegisterRequest{
		FirstName: f.Get("first_name"),
		LastName:  f.Get("last_name"),
		Email:     f.Get("email"),
		Username:  f.Get("username"),
		Password:  f.Get("password"),
		BirthDate: f.Get("birth_date"),
		Gender:    f.Get("gender"),
	})
}

func (h ActionHandler) authForm(_ context.Context, r *http.Request) error {
	h.Controller.ShowAuthForm(r.PathValue("form"))
	return nil
}

func (h ActionHandler) logout(ctx context.Context, _ *http.Request) error {
	return h.Controller.Logout(ctx)
}

func (h ActionHandler) feed(ctx context.Context, r *http.Request) error {
	page := 1
	if raw := r.PostForm.Get("page"); raw != "" {
		if p, err := strconv.Atoi(raw); err == nil {
			page = p
		}
	}
	return h.Controller.LoadFeed(ctx, page)
}

func (h ActionHandler) moreFeed(ctx context.Context, _ *http.Request) error {
	return h.Controller.LoadNextPage(ctx)
}

func (h ActionHandler) search(ctx context.Context, r *http.Request) error {
	return h.Controller.Search(ctx, r.PostForm.Get("q"))
}

func (h ActionHandler) createPost(ctx context.Context, r *http.Request) error {
	f := r.PostForm
	return h.Controller.CreatePost(ctx, controller.PostDraft{
		Content:  f.Get("content"),
		Location: f.Get("location"),
		Feeling:  f.Get("feeling"),
		Privacy:  f.Get("privacy"),
	})
}

func (h ActionHandler) react(ctx context.Context, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}
	kind := models.ReactionLike
	if raw := r.PostForm.Get("reaction"); raw != "" {
		kind = models.ReactionKind(raw)
	}
	return h.Controller.ReactToPost(ctx, id, kind)
}

func (h ActionHandler) addComment(ctx context.Context, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}
	return h.Controller.AddComment(ctx, id, r.PostForm.Get("content"))
}

func (h ActionHandler) sendMessage(ctx context.Context, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}
	return h.Controller.SendMessage(ctx, id, r.PostForm.Get("content"))
}

func (h ActionHandler) typing(ctx context.Context, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}
	isTyping, _ := strconv.ParseBool(r.PostForm.Get("typing"))
	return h.Controller.Typing(ctx, id, isTyping)
}

func (h ActionHandler) show(ctx context.Context, r *http.Request) error {
	c := h.Controller
	switch r.PathValue("view") {
	case "saved":
		return c.ShowSavedPosts(ctx)
	case "trending":
		return c.Trending(ctx)
	case "friends":
		return c.ShowFriends(ctx)
	case "friend-requests":
		return c.ShowFriendRequests(ctx)
	case "notifications":
		return c.ShowNotifications(ctx)
	case "messages":
		return c.ShowMessages(ctx)
	case "profile":
		return c.ShowProfile(ctx, 0)
	}
	return errUnknownView
}

func (h ActionHandler) closeModal(_ context.Context, _ *http.Request) error {
	h.Controller.CloseModal()
	return nil
}
