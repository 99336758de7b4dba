package view

import (
	"fmt"
	"html/template"
	"sync"

	"github.com/faceconnect/client/internal/models"
)

// Container names used by the page.
const (
	ContainerPosts          = "posts"
	ContainerStories        = "stories"
	ContainerFriendRequests = "friend-requests"
	ContainerOnlineFriends  = "online-friends"
	ContainerModal          = "modal"
)

// Badge names used by the page.
const (
	BadgeFriendRequests = "friend-requests"
	BadgeNotifications  = "notifications"
	BadgeMessages       = "messages"
)

// Auth forms.
const (
	FormLogin    = "login"
	FormRegister = "register"
)

// CommentsContainer names the comment list of one post.
func CommentsContainer(postID int64) string {
	return fmt.Sprintf("comments-%d", postID)
}

// Ticket identifies one fetch that will write into a container.
type Ticket struct {
	container string
	seq       uint64
}

// Seq returns the ticket's position in its container's sequence.
func (t Ticket) Seq() uint64 { return t.seq }

// Container is a named region of the page. Every fetch that fills it takes a
// Ticket first; a write lands only when its ticket is newer than the last one
// that landed, so a slow stale response can never overwrite a fresher one.
type Container struct {
	name string

	mu        sync.RWMutex
	html      template.HTML
	visible   bool
	issued    uint64
	committed uint64
}

func newContainer(name string) *Container {
	return &Container{name: name, visible: true}
}

// Name returns the container name.
func (c *Container) Name() string { return c.name }

// Begin issues a ticket. A non-empty placeholder (usually the loader) replaces
// the current contents right away.
func (c *Container) Begin(placeholder template.HTML) Ticket {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.issued++
	if placeholder != "" {
		c.html = placeholder
	}
	return Ticket{container: c.name, seq: c.issued}
}

// Commit replaces the contents. It reports false when the ticket is stale.
func (c *Container) Commit(t Ticket, html template.HTML) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.accepts(t) {
		return false
	}
	c.committed = t.seq
	c.html = html
	return true
}

// Append adds to the contents under the same staleness rule as Commit.
func (c *Container) Append(t Ticket, html template.HTML) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.accepts(t) {
		return false
	}
	c.committed = t.seq
	c.html += html
	return true
}

func (c *Container) accepts(t Ticket) bool {
	return t.container == c.name && t.seq > c.committed
}

// HTML returns the current contents.
func (c *Container) HTML() template.HTML {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.html
}

// Visible reports whether the container is shown. Containers start visible.
func (c *Container) Visible() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.visible
}

// SetVisible shows or hides the container.
func (c *Container) SetVisible(v bool) {
	c.mu.Lock()
	c.visible = v
	c.mu.Unlock()
}

// Badge is a numeric counter that is hidden at zero. Loads that replace the
// count follow the same ticket rule as Container.
type Badge struct {
	mu        sync.RWMutex
	count     int
	issued    uint64
	committed uint64
}

// BadgeTicket identifies one fetch that will replace a badge count.
type BadgeTicket struct {
	seq uint64
}

// Begin issues a ticket for a load that will replace the count.
func (b *Badge) Begin() BadgeTicket {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.issued++
	return BadgeTicket{seq: b.issued}
}

// Commit replaces the count, clamped at zero. It reports false when the
// ticket is stale.
func (b *Badge) Commit(t BadgeTicket, n int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if t.seq <= b.committed {
		return false
	}
	if n < 0 {
		n = 0
	}
	b.committed = t.seq
	b.count = n
	return true
}

// Increment adds one and returns the new count.
func (b *Badge) Increment() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.count++
	return b.count
}

// Count returns the current count.
func (b *Badge) Count() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.count
}

// Visible reports whether the badge is displayed.
func (b *Badge) Visible() bool {
	return b.Count() > 0
}

// Modal is the single shared dialog; its body is ContainerModal.
type Modal struct {
	mu     sync.RWMutex
	title  string
	active bool
}

// Open activates the modal under title.
func (m *Modal) Open(title string) {
	m.mu.Lock()
	m.title = title
	m.active = true
	m.mu.Unlock()
}

// Close hides the modal.
func (m *Modal) Close() {
	m.mu.Lock()
	m.active = false
	m.mu.Unlock()
}

// Title returns the current title.
func (m *Modal) Title() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.title
}

// Active reports whether the modal is shown.
func (m *Modal) Active() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.active
}

// Document is the in-process page: auth or main view, the sidebar identity,
// named containers, badges, the shared modal and a pending alert.
type Document struct {
	mu         sync.RWMutex
	mainView   bool
	authForm   string
	user       models.User
	alert      string
	containers map[string]*Container
	badges     map[string]*Badge
	modal      *Modal
}

// NewDocument returns a document showing the login form.
func NewDocument() *Document {
	d := &Document{}
	d.Reset()
	return d
}

// Reset discards all rendered state and shows the login form.
func (d *Document) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.mainView = false
	d.authForm = FormLogin
	d.user = models.User{}
	d.alert = ""
	d.containers = make(map[string]*Container)
	d.badges = map[string]*Badge{
		BadgeFriendRequests: {},
		BadgeNotifications:  {},
		BadgeMessages:       {},
	}
	d.modal = &Modal{}
}

// ShowAuth hides the main view and selects an auth form.
func (d *Document) ShowAuth(form string) {
	if form != FormRegister {
		form = FormLogin
	}
	d.mu.Lock()
	d.mainView = false
	d.authForm = form
	d.mu.Unlock()
}

// ShowMain reveals the main view for user and fills the sidebar.
func (d *Document) ShowMain(user models.User) {
	d.mu.Lock()
	d.mainView = true
	d.user = user
	d.mu.Unlock()
}

// MainVisible reports whether the main view is shown instead of the auth view.
func (d *Document) MainVisible() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.mainView
}

// AuthForm returns the selected auth form.
func (d *Document) AuthForm() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.authForm
}

// User returns the identity shown in the sidebar.
func (d *Document) User() models.User {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.user
}

// Container returns the named container, creating it on first use.
func (d *Document) Container(name string) *Container {
	d.mu.Lock()
	defer d.mu.Unlock()
	c, ok := d.containers[name]
	if !ok {
		c = newContainer(name)
		d.containers[name] = c
	}
	return c
}

// Lookup returns the named container without creating it.
func (d *Document) Lookup(name string) (*Container, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	c, ok := d.containers[name]
	return c, ok
}

// Badge returns the named badge, creating it on first use.
func (d *Document) Badge(name string) *Badge {
	d.mu.Lock()
	defer d.mu.Unlock()
	b, ok := d.badges[name]
	if !ok {
		b = &Badge{}
		d.badges[name] = b
	}
	return b
}

// Modal returns the shared modal.
func (d *Document) Modal() *Modal {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.modal
}

// SetAlert queues an informational message for the next page render.
func (d *Document) SetAlert(message string) {
	d.mu.Lock()
	d.alert = message
	d.mu.Unlock()
}

// TakeAlert returns and clears the queued alert.
func (d *Document) TakeAlert() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	msg := d.alert
	d.alert = ""
	return msg
}
