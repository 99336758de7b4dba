package controller

import (
	"context"
	"errors"
	"html/template"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/faceconnect/client/internal/api"
	"github.com/faceconnect/client/internal/logging"
	"github.com/faceconnect/client/internal/realtime"
	"github.com/faceconnect/client/internal/session"
	"github.com/faceconnect/client/internal/ui"
	"github.com/faceconnect/client/internal/view"
)

var (
	// ErrEmptyPost is returned when a post is submitted without content.
	ErrEmptyPost = errors.New("post content is empty")
	// ErrUnknownReaction is returned for reaction names outside the closed set.
	ErrUnknownReaction = errors.New("unknown reaction")
	// ErrMissingDependency is returned by New when a required collaborator is nil.
	ErrMissingDependency = errors.New("controller dependency missing")
)

// Realtime is the subset of realtime.Conn the controller drives.
type Realtime interface {
	Connect(ctx context.Context, userID int64) error
	Leave(userID int64) error
	Typing(receiverID int64, isTyping bool) error
	Disconnect() error
	Connected() bool
	On(name string, h realtime.Handler)
}

// Dependencies wires the controller's collaborators.
type Dependencies struct {
	Session  *session.Session
	Store    session.Store
	API      *api.Client
	Realtime Realtime
	Document *view.Document
	Renderer *view.Renderer
	Notifier ui.Notifier
	Dialogs  ui.Dialogs
}

// Controller runs every user-facing operation: it calls the API, renders the
// result into the document and reports outcomes through the notifier.
type Controller struct {
	session  *session.Session
	store    session.Store
	api      *api.Client
	rt       Realtime
	doc      *view.Document
	render   *view.Renderer
	notifier ui.Notifier
	dialogs  ui.Dialogs
	profiles *api.ProfileCache

	mu       sync.Mutex
	feedPage int
	feedMore bool
}

// profileTTL bounds how long chat titles reuse a fetched profile.
const profileTTL = 5 * time.Minute

// New validates deps and subscribes to real-time events.
func New(deps Dependencies) (*Controller, error) {
	switch {
	case deps.Session == nil:
		return nil, missing("session")
	case deps.Store == nil:
		return nil, missing("store")
	case deps.API == nil:
		return nil, missing("api client")
	case deps.Realtime == nil:
		return nil, missing("realtime connection")
	case deps.Document == nil:
		return nil, missing("document")
	case deps.Renderer == nil:
		return nil, missing("renderer")
	}
	if deps.Notifier == nil {
		deps.Notifier = ui.Discard{}
	}
	if deps.Dialogs == nil {
		deps.Dialogs = ui.Discard{}
	}

	c := &Controller{
		session:  deps.Session,
		store:    deps.Store,
		api:      deps.API,
		rt:       deps.Realtime,
		doc:      deps.Document,
		render:   deps.Renderer,
		notifier: deps.Notifier,
		dialogs:  deps.Dialogs,
		profiles: api.NewProfileCache(deps.API, profileTTL),
	}
	c.subscribe()
	return c, nil
}

func missing(name string) error {
	return errors.Join(ErrMissingDependency, errors.New(name))
}

// Session exposes the session context for read access.
func (c *Controller) Session() *session.Session { return c.session }

// Document exposes the rendered page state.
func (c *Controller) Document() *view.Document { return c.doc }

// Resume restores a stored session without contacting the server. A stored
// pair missing either the token or the user id leaves the auth view showing.
func (c *Controller) Resume(ctx context.Context) error {
	logger := logging.FromContext(ctx)

	snap, err := c.store.Load(ctx)
	if err != nil {
		logger.Warn("stored session unreadable", slog.String("error", err.Error()))
		snap = session.Snapshot{}
	}
	if !snap.Valid() {
		c.session.Clear()
		c.doc.Reset()
		return nil
	}

	if exp, err := session.TokenExpiry(snap.Token); err == nil {
		logger.Debug("resuming stored session",
			slog.Int64("user_id", snap.User.ID),
			slog.Time("token_expires_at", exp),
		)
	}
	if sub := session.TokenSubject(snap.Token); sub != "" && sub != strconv.FormatInt(snap.User.ID, 10) {
		logger.Warn("stored token subject differs from stored user",
			slog.String("token_subject", sub),
			slog.Int64("user_id", snap.User.ID),
		)
	}
	c.session.Establish(snap)
	return c.Initialize(ctx)
}

// Register creates an account and returns to the login form. It never logs in.
func (c *Controller) Register(ctx context.Context, req api.RegisterRequest) error {
	msg, err := c.api.Register(ctx, req)
	if err != nil {
		c.notifier.Notify(err.Error(), ui.LevelError)
		return err
	}
	c.notifier.Notify(msg, ui.LevelSuccess)
	c.doc.ShowAuth(view.FormLogin)
	return nil
}

// Login exchanges credentials for a token, persists the session and
// initialises the main view.
func (c *Controller) Login(ctx context.Context, email, password string) error {
	resp, err := c.api.Login(ctx, email, password)
	if err != nil {
		c.notifier.Notify(err.Error(), ui.LevelError)
		return err
	}

	snap := session.Snapshot{Token: resp.AccessToken, User: resp.User}
	c.session.Establish(snap)
	if err := c.store.Save(ctx, snap); err != nil {
		logging.FromContext(ctx).Error("persist session failed", slog.String("error", err.Error()))
	}

	c.notifier.Notify(resp.Message, ui.LevelSuccess)
	return c.Initialize(ctx)
}

// Initialize reveals the main view, then connects the real-time channel and
// issues the initial batch of loads concurrently. A slow real-time dial never
// delays the loads.
func (c *Controller) Initialize(ctx context.Context) error {
	ctx, span := logging.StartSpan(ctx, "controller.initialize")
	user := c.session.User()
	c.doc.ShowMain(user)

	var g errgroup.Group
	g.Go(func() error {
		if err := c.rt.Connect(ctx, user.ID); err != nil {
			span.Logger().Error("realtime unavailable", slog.String("error", err.Error()))
		}
		return nil
	})
	g.Go(func() error { return c.LoadFeed(ctx, 1) })
	g.Go(func() error { return c.LoadStories(ctx) })
	g.Go(func() error { return c.LoadFriendRequests(ctx) })
	g.Go(func() error { return c.LoadOnlineFriends(ctx) })
	g.Go(func() error { return c.LoadNotifications(ctx) })
	err := g.Wait()
	span.End(err)
	return nil
}

// Logout ends the session. The server call is best effort; local state is
// always cleared.
func (c *Controller) Logout(ctx context.Context) error {
	logger := logging.FromContext(ctx)

	if err := c.api.Logout(ctx); err != nil {
		logger.Info("logout failed, clearing session anyway", slog.String("error", err.Error()))
	}
	if err := c.store.Clear(ctx); err != nil {
		logger.Error("clear stored session failed", slog.String("error", err.Error()))
	}
	if c.rt.Connected() {
		if err := c.rt.Leave(c.session.UserID()); err != nil {
			logger.Debug("leave failed", slog.String("error", err.Error()))
		}
	}
	if err := c.rt.Disconnect(); err != nil {
		logger.Debug("realtime close failed", slog.String("error", err.Error()))
	}

	c.session.Clear()
	c.doc.Reset()
	c.profiles.Reset()
	c.setFeedState(0, false)
	return nil
}

// ShowAuthForm switches between the login and registration forms.
func (c *Controller) ShowAuthForm(form string) {
	c.doc.ShowAuth(form)
}

// CloseModal hides the shared modal.
func (c *Controller) CloseModal() {
	c.doc.Modal().Close()
}

// fill runs one list load into container. The loader, when requested, shows
// until the fetch completes; on failure a non-empty failure text replaces it.
func (c *Controller) fill(ctx context.Context, container *view.Container, loader bool, failure string, fetch func(context.Context) (template.HTML, error)) error {
	_, err := c.load(ctx, container, loader, failure, fetch)
	return err
}

// load is fill that also reports whether the rendered result landed.
func (c *Controller) load(ctx context.Context, container *view.Container, loader bool, failure string, fetch func(context.Context) (template.HTML, error)) (bool, error) {
	ctx, span := logging.StartSpan(ctx, "controller.fill", slog.String("container", container.Name()))

	var placeholder template.HTML
	if loader {
		placeholder = c.render.Loader()
	}
	ticket := container.Begin(placeholder)

	html, err := fetch(ctx)
	if err != nil {
		if failure != "" {
			container.Commit(ticket, c.render.Failure(failure))
		}
		span.End(err)
		return false, err
	}
	landed := container.Commit(ticket, html)
	if !landed {
		span.Logger().Debug("stale render dropped", slog.Uint64("seq", ticket.Seq()))
	}
	span.End(nil)
	return landed, nil
}

// openModal shows the shared modal and fills its body.
func (c *Controller) openModal(ctx context.Context, title, failure string, fetch func(context.Context) (template.HTML, error)) error {
	c.doc.Modal().Open(title)
	return c.fill(ctx, c.doc.Container(view.ContainerModal), true, failure, fetch)
}

func (c *Controller) modalShowing(title string) bool {
	m := c.doc.Modal()
	return m.Active() && m.Title() == title
}

func (c *Controller) dialogsFor(ctx context.Context) ui.Dialogs {
	return ui.DialogsFrom(ctx, c.dialogs)
}
