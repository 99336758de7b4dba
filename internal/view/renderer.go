package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/faceconnect/client/internal/models"
	"github.com/faceconnect/client/internal/ui"
)

//go:embed templates/*.html
var templateFS embed.FS

// Placeholder avatars keyed by rendered size.
const (
	placeholderBase  = "https://via.placeholder.com/"
	placeholderStory = placeholderBase + "110x190"
)

// Placeholder returns the stock avatar for a square of size pixels.
func Placeholder(size int) string {
	return fmt.Sprintf("%s%d", placeholderBase, size)
}

// EmptyState identifies one of the empty-list placeholders.
type EmptyState struct {
	Icon    string
	Message string
}

// Empty states shown when a list has no entries.
var (
	EmptyFeed           = EmptyState{Icon: "📭", Message: "No posts yet. Start following people to see their posts!"}
	EmptyNotifications  = EmptyState{Icon: "🔔", Message: "No notifications yet"}
	EmptyConversations  = EmptyState{Icon: "💬", Message: "No messages yet"}
	EmptyThread         = EmptyState{Icon: "💬", Message: "No messages yet. Say hi!"}
	EmptyFriends        = EmptyState{Icon: "👥", Message: "No friends yet"}
	EmptyFriendRequests = EmptyState{Icon: "👥", Message: "No friend requests"}
	EmptySavedPosts     = EmptyState{Icon: "🔖", Message: "No saved posts yet"}
	EmptySearch         = EmptyState{Icon: "🔍", Message: "No results found"}
	EmptyTrending       = EmptyState{Icon: "📈", Message: "Nothing is trending right now"}
)

// Static failure messages that replace a loader when a list fails to load.
const (
	FailedComments       = "Failed to load comments."
	FailedNotifications  = "Failed to load notifications."
	FailedMessages       = "Failed to load messages."
	FailedFriends        = "Failed to load friends."
	FailedSavedPosts     = "Failed to load saved posts."
	FailedFriendRequests = "Failed to load friend requests."
	FailedSearch         = "Search failed to load."
	FailedTrending       = "Failed to load trending posts."
)

// Renderer turns API entities into HTML fragments. Every user-supplied field
// passes through html/template's contextual escaping.
type Renderer struct {
	tmpl   *template.Template
	layout string
	now    func() time.Time
}

// NewRenderer parses the embedded templates. layout formats dates older than a week.
func NewRenderer(layout string) (*Renderer, error) {
	if layout == "" {
		layout = DefaultDateLayout
	}
	r := &Renderer{layout: layout, now: time.Now}

	tmpl, err := template.New("view").Funcs(template.FuncMap{
		"since":    r.since,
		"avatar":   avatar,
		"comments": CommentsContainer,
		"kinds":    func() []models.ReactionKind { return models.ReactionKinds },
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	r.tmpl = tmpl
	return r, nil
}

// WithNowFunc allows tests to override the time source.
func (r *Renderer) WithNowFunc(now func() time.Time) *Renderer {
	r.now = now
	return r
}

func (r *Renderer) since(ts models.Timestamp) string {
	return FormatTimeLayout(ts.Time, r.now(), r.layout)
}

func avatar(u models.User, size int) string {
	return u.Avatar(Placeholder(size))
}

func (r *Renderer) render(name string, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return template.HTML(buf.String()), nil
}

// Loader is the loading placeholder.
func (r *Renderer) Loader() template.HTML {
	return template.HTML(`<div class="loader"></div>`)
}

// Failure renders a static failure message.
func (r *Renderer) Failure(message string) template.HTML {
	return template.HTML(`<div class="load-failed">` + template.HTMLEscapeString(message) + `</div>`)
}

// Empty renders an empty-state placeholder.
func (r *Renderer) Empty(state EmptyState) (template.HTML, error) {
	return r.render("empty", state)
}

type postView struct {
	models.Post
	Top          []models.ReactionCount
	ReactionIcon string
	ReactionName string
	Viewer       models.User
}

func newPostView(p models.Post, viewer models.User) postView {
	v := postView{
		Post:         p,
		Top:          p.Reactions.Top(3),
		ReactionIcon: models.ReactionLike.Icon(),
		ReactionName: "Like",
		Viewer:       viewer,
	}
	if p.UserReaction != nil && p.UserReaction.Valid() {
		v.ReactionIcon = p.UserReaction.Icon()
		v.ReactionName = string(*p.UserReaction)
	}
	return v
}

func postViews(posts []models.Post, viewer models.User) []postView {
	views := make([]postView, 0, len(posts))
	for _, p := range posts {
		views = append(views, newPostView(p, viewer))
	}
	return views
}

// Post renders one feed entry. viewer supplies the avatar next to the comment box.
func (r *Renderer) Post(post models.Post, viewer models.User) (template.HTML, error) {
	return r.render("post", newPostView(post, viewer))
}

// Posts renders feed entries back to back.
func (r *Renderer) Posts(posts []models.Post, viewer models.User) (template.HTML, error) {
	return r.render("posts", postViews(posts, viewer))
}

// SavedPosts renders the saved-posts header followed by the posts.
func (r *Renderer) SavedPosts(posts []models.Post, viewer models.User) (template.HTML, error) {
	return r.render("saved-posts", postViews(posts, viewer))
}

// Trending renders the trending header followed by the posts.
func (r *Renderer) Trending(posts []models.Post, viewer models.User) (template.HTML, error) {
	return r.render("trending", postViews(posts, viewer))
}

// Comments renders the comment list of a post.
func (r *Renderer) Comments(comments []models.Comment) (template.HTML, error) {
	return r.render("comments", comments)
}

// Stories renders the story strip. The create-story tile always leads.
func (r *Renderer) Stories(groups []models.StoryGroup) (template.HTML, error) {
	type tile struct {
		User    models.User
		StoryID int64
		Image   string
	}
	tiles := make([]tile, 0, len(groups))
	for _, g := range groups {
		lead, ok := g.Lead()
		if !ok {
			continue
		}
		image := lead.MediaURL
		if image == "" {
			image = placeholderStory
		}
		tiles = append(tiles, tile{User: g.User, StoryID: lead.ID, Image: image})
	}
	return r.render("stories", tiles)
}

// FriendRequestWidget renders the sidebar list of pending requests.
func (r *Renderer) FriendRequestWidget(requests []models.FriendRequest) (template.HTML, error) {
	return r.render("friend-request-widget", requests)
}

// FriendRequests renders the modal list of pending requests.
func (r *Renderer) FriendRequests(requests []models.FriendRequest) (template.HTML, error) {
	return r.render("friend-requests", requests)
}

// OnlineFriends renders the contacts widget from already-filtered friends.
func (r *Renderer) OnlineFriends(friends []models.User) (template.HTML, error) {
	return r.render("online-friends", friends)
}

// Friends renders the modal friends list.
func (r *Renderer) Friends(friends []models.User) (template.HTML, error) {
	return r.render("friends", friends)
}

// Notifications renders the modal list in the order given.
func (r *Renderer) Notifications(notifications []models.Notification) (template.HTML, error) {
	return r.render("notifications", notifications)
}

// Conversations renders the messages modal list.
func (r *Renderer) Conversations(conversations []models.Conversation) (template.HTML, error) {
	return r.render("conversations", conversations)
}

// Thread renders the messages exchanged with counterpart plus a reply form.
func (r *Renderer) Thread(counterpart models.User, messages []models.Message, viewer models.User) (template.HTML, error) {
	type line struct {
		models.Message
		Own bool
	}
	lines := make([]line, 0, len(messages))
	for _, m := range messages {
		lines = append(lines, line{Message: m, Own: m.SenderID == viewer.ID})
	}
	return r.render("thread", struct {
		With  models.User
		Lines []line
		Empty EmptyState
	}{With: counterpart, Lines: lines, Empty: EmptyThread})
}

// SearchResults renders the People and Posts sections, or the empty state.
func (r *Renderer) SearchResults(results models.SearchResults, viewer models.User) (template.HTML, error) {
	return r.render("search", struct {
		Users []models.User
		Posts []postView
		Empty EmptyState
	}{Users: results.Users, Posts: postViews(results.Posts, viewer), Empty: EmptySearch})
}

// Toasts renders the transient notifications.
func (r *Renderer) Toasts(toasts []ui.Toast) (template.HTML, error) {
	return r.render("toasts", toasts)
}

// ProfileText is the plain-text body of the profile dialog.
func (r *Renderer) ProfileText(p models.Profile) string {
	bio := p.Bio
	if bio == "" {
		bio = "No bio yet"
	}
	var b strings.Builder
	b.WriteString("Profile:\n\n")
	fmt.Fprintf(&b, "Name: %s %s\n", p.FirstName, p.LastName)
	fmt.Fprintf(&b, "Username: @%s\n", p.Username)
	fmt.Fprintf(&b, "Bio: %s\n", bio)
	fmt.Fprintf(&b, "Followers: %d\n", p.FollowersCount)
	fmt.Fprintf(&b, "Following: %d\n", p.FollowingCount)
	fmt.Fprintf(&b, "Posts: %d", p.PostsCount)
	return b.String()
}

// PageData is everything the full page needs.
type PageData struct {
	Main     bool
	AuthForm string
	User     models.User
	Alert    string
	Posts    template.HTML
	Stories  template.HTML
	Requests template.HTML
	Online   template.HTML
	Modal    struct {
		Active bool
		Title  string
		Body   template.HTML
	}
	FriendRequestBadge int
	NotificationBadge  int
	MessageBadge       int
	Toasts             []ui.Toast
}

// Snapshot collects the current document state for Page. It consumes the pending alert.
func (r *Renderer) Snapshot(doc *Document, toasts []ui.Toast) PageData {
	data := PageData{
		Main:               doc.MainVisible(),
		AuthForm:           doc.AuthForm(),
		User:               doc.User(),
		Alert:              doc.TakeAlert(),
		Posts:              doc.Container(ContainerPosts).HTML(),
		Stories:            doc.Container(ContainerStories).HTML(),
		Requests:           doc.Container(ContainerFriendRequests).HTML(),
		Online:             doc.Container(ContainerOnlineFriends).HTML(),
		FriendRequestBadge: doc.Badge(BadgeFriendRequests).Count(),
		NotificationBadge:  doc.Badge(BadgeNotifications).Count(),
		MessageBadge:       doc.Badge(BadgeMessages).Count(),
		Toasts:             toasts,
	}
	modal := doc.Modal()
	data.Modal.Active = modal.Active()
	data.Modal.Title = modal.Title()
	data.Modal.Body = doc.Container(ContainerModal).HTML()
	return data
}

// Page writes the full document.
func (r *Renderer) Page(w io.Writer, data PageData) error {
	if err := r.tmpl.ExecuteTemplate(w, "page", data); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	return nil
}
