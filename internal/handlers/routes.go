package handlers

import (
	"context"
	"net/http"

	"github.com/faceconnect/client/internal/api"
	"github.com/faceconnect/client/internal/controller"
	"github.com/faceconnect/client/internal/session"
	"github.com/faceconnect/client/internal/ui"
	"github.com/faceconnect/client/internal/view"
)

// RegisterRoutes wires HTTP handlers into the provided ServeMux.
func RegisterRoutes(mux *http.ServeMux, deps Dependencies) {
	health := HealthHandler{Session: deps.Session}
	if deps.Upstream != nil {
		health.Upstream = deps.Upstream
	}
	pages := PageHandler{Document: deps.Document, Renderer: deps.Renderer, Toasts: deps.Toasts}
	actions := ActionHandler{Controller: deps.Controller, Limiter: deps.Limiter}
	if deps.Toasts != nil {
		actions.Notifier = deps.Toasts
	}
	c := deps.Controller

	mux.HandleFunc("/healthz", health.Handle)
	mux.HandleFunc("GET /{$}", pages.Index)
	mux.HandleFunc("GET /fragments/{name}", pages.Fragment)

	mux.HandleFunc("POST /actions/login", actions.wrap(scopeAuth, actions.login))
	mux.HandleFunc("POST /actions/register", actions.wrap(scopeAuth, actions.register))
	mux.HandleFunc("POST /actions/auth/{form}", actions.wrap(scopeActions, actions.authForm))
	mux.HandleFunc("POST /actions/logout", actions.wrap(scopeActions, actions.logout))

	mux.HandleFunc("POST /actions/feed", actions.wrap(scopeActions, actions.feed))
	mux.HandleFunc("POST /actions/feed/more", actions.wrap(scopeActions, actions.moreFeed))
	mux.HandleFunc("POST /actions/search", actions.wrap(scopeActions, actions.search))
	mux.HandleFunc("POST /actions/show/{view}", actions.wrap(scopeActions, actions.show))
	mux.HandleFunc("POST /actions/modal/close", actions.wrap(scopeActions, actions.closeModal))

	mux.HandleFunc("POST /actions/posts", actions.wrap(scopeActions, actions.createPost))
	mux.HandleFunc("POST /actions/posts/{id}/react", actions.wrap(scopeActions, actions.react))
	mux.HandleFunc("POST /actions/posts/{id}/comments", actions.wrap(scopeActions, actions.addComment))
	mux.HandleFunc("POST /actions/posts/{id}/comments/toggle", actions.wrap(scopeActions, withID(c.ToggleComments)))
	mux.HandleFunc("POST /actions/posts/{id}/share", actions.wrap(scopeActions, withID(c.SharePost)))
	mux.HandleFunc("POST /actions/posts/{id}/save", actions.wrap(scopeActions, withID(c.SavePost)))
	mux.HandleFunc("POST /actions/comments/{id}/like", actions.wrap(scopeActions, withID(c.LikeComment)))

	mux.HandleFunc("POST /actions/stories", actions.wrap(scopeActions, func(ctx context.Context, _ *http.Request) error {
		return c.CreateStory(ctx)
	}))
	mux.HandleFunc("POST /actions/stories/{id}/view", actions.wrap(scopeActions, withID(c.ViewStory)))

	mux.HandleFunc("POST /actions/friends/requests/{id}/accept", actions.wrap(scopeActions, withID(c.AcceptFriendRequest)))
	mux.HandleFunc("POST /actions/friends/requests/{id}/reject", actions.wrap(scopeActions, withID(c.RejectFriendRequest)))
	mux.HandleFunc("POST /actions/friends/{id}/unfriend", actions.wrap(scopeActions, withID(c.Unfriend)))
	mux.HandleFunc("POST /actions/users/{id}/friend-request", actions.wrap(scopeActions, withID(c.SendFriendRequest)))
	mux.HandleFunc("POST /actions/users/{id}/follow", actions.wrap(scopeActions, withID(c.FollowUser)))
	mux.HandleFunc("POST /actions/users/{id}/unfollow", actions.wrap(scopeActions, withID(c.UnfollowUser)))
	mux.HandleFunc("POST /actions/users/{id}/profile", actions.wrap(scopeActions, withID(c.ShowProfile)))

	mux.HandleFunc("POST /actions/notifications/{id}/read", actions.wrap(scopeActions, withID(c.MarkNotificationRead)))
	mux.HandleFunc("POST /actions/chat/{id}", actions.wrap(scopeActions, withID(c.OpenChat)))
	mux.HandleFunc("POST /actions/messages/{id}", actions.wrap(scopeActions, actions.sendMessage))
	mux.HandleFunc("POST /actions/messages/{id}/typing", actions.wrap(scopeActions, actions.typing))
}

// Dependencies aggregates collaborators required by HTTP handlers.
type Dependencies struct {
	Session    *session.Session
	Controller *controller.Controller
	Document   *view.Document
	Renderer   *view.Renderer
	Toasts     *ui.Toasts
	Limiter    RateLimiter
	Upstream   *api.Client
}
