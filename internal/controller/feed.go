package controller

import (
	"context"
	"html/template"
	"strings"
	"unicode/utf8"

	"github.com/faceconnect/client/internal/api"
	"github.com/faceconnect/client/internal/models"
	"github.com/faceconnect/client/internal/ui"
	"github.com/faceconnect/client/internal/view"
)

// Minimum query length for a search; shorter queries return to the feed.
const minSearchLength = 2

// PostDraft is the create-post form.
type PostDraft struct {
	Content  string
	Location string
	Feeling  string
	Privacy  string
}

func (c *Controller) setFeedState(page int, more bool) {
	c.mu.Lock()
	c.feedPage, c.feedMore = page, more
	c.mu.Unlock()
}

// LoadFeed fetches one feed page. Page 1 replaces the posts container and
// shows the empty state when there are no posts; later pages append.
func (c *Controller) LoadFeed(ctx context.Context, page int) error {
	if page < 1 {
		page = 1
	}
	viewer := c.session.User()
	container := c.doc.Container(view.ContainerPosts)
	ticket := container.Begin("")

	feed, err := c.api.Feed(ctx, page, api.FeedPageSize)
	if err != nil {
		return err
	}

	if page == 1 && len(feed.Posts) == 0 {
		html, err := c.render.Empty(view.EmptyFeed)
		if err != nil {
			return err
		}
		if container.Commit(ticket, html) {
			c.setFeedState(1, false)
		}
		return nil
	}

	html, err := c.render.Posts(feed.Posts, viewer)
	if err != nil {
		return err
	}
	write := container.Append
	if page == 1 {
		write = container.Commit
	}
	if write(ticket, html) {
		c.setFeedState(page, feed.HasNext)
	}
	return nil
}

// LoadNextPage appends the page after the last one loaded, if the server has more.
func (c *Controller) LoadNextPage(ctx context.Context) error {
	c.mu.Lock()
	page, more := c.feedPage, c.feedMore
	c.mu.Unlock()
	if page == 0 {
		return c.LoadFeed(ctx, 1)
	}
	if !more {
		return nil
	}
	return c.LoadFeed(ctx, page+1)
}

// ReactToPost records the caller's reaction and reloads the feed.
func (c *Controller) ReactToPost(ctx context.Context, postID int64, kind models.ReactionKind) error {
	if !kind.Valid() {
		c.notifier.Notify("Unknown reaction", ui.LevelError)
		return ErrUnknownReaction
	}
	if _, err := c.api.React(ctx, postID, kind); err != nil {
		return err
	}
	return c.LoadFeed(ctx, 1)
}

// ToggleComments opens the comment list of a post, loading it, or closes it.
func (c *Controller) ToggleComments(ctx context.Context, postID int64) error {
	name := view.CommentsContainer(postID)
	if container, ok := c.doc.Lookup(name); ok && container.Visible() {
		container.SetVisible(false)
		return nil
	}
	return c.loadComments(ctx, postID)
}

func (c *Controller) loadComments(ctx context.Context, postID int64) error {
	container := c.doc.Container(view.CommentsContainer(postID))
	container.SetVisible(true)
	return c.fill(ctx, container, true, view.FailedComments, func(ctx context.Context) (template.HTML, error) {
		detail, err := c.api.Post(ctx, postID)
		if err != nil {
			return "", err
		}
		return c.render.Comments(detail.Comments)
	})
}

// AddComment posts a comment and reloads the open comment list. Blank input is ignored.
func (c *Controller) AddComment(ctx context.Context, postID int64, content string) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil
	}
	if _, err := c.api.AddComment(ctx, postID, content); err != nil {
		return err
	}
	return c.loadComments(ctx, postID)
}

// LikeComment likes a comment.
func (c *Controller) LikeComment(ctx context.Context, commentID int64) error {
	if _, err := c.api.LikeComment(ctx, commentID); err != nil {
		return err
	}
	c.notifier.Notify("Comment liked!", ui.LevelSuccess)
	return nil
}

// SharePost asks for an optional caption and shares the post. Cancelling aborts.
func (c *Controller) SharePost(ctx context.Context, postID int64) error {
	caption, ok := c.dialogsFor(ctx).Prompt(ctx, "Add a caption (optional):")
	if !ok {
		return nil
	}
	if _, err := c.api.SharePost(ctx, postID, caption); err != nil {
		return err
	}
	c.notifier.Notify("Post shared to your timeline!", ui.LevelSuccess)
	return c.LoadFeed(ctx, 1)
}

// SavePost bookmarks a post.
func (c *Controller) SavePost(ctx context.Context, postID int64) error {
	if _, err := c.api.SavePost(ctx, postID); err != nil {
		return err
	}
	c.notifier.Notify("Post saved!", ui.LevelSuccess)
	return nil
}

// CreatePost validates and publishes a post, then reloads the feed.
func (c *Controller) CreatePost(ctx context.Context, draft PostDraft) error {
	content := strings.TrimSpace(draft.Content)
	if content == "" {
		c.notifier.Notify("Please write something!", ui.LevelError)
		return ErrEmptyPost
	}

	req := api.CreatePostRequest{
		Content:  content,
		Location: optional(strings.TrimSpace(draft.Location)),
		Feeling:  optional(draft.Feeling),
		Privacy:  draft.Privacy,
	}
	switch req.Privacy {
	case models.PrivacyPublic, models.PrivacyFriends, models.PrivacyPrivate:
	default:
		req.Privacy = models.PrivacyPublic
	}

	if _, err := c.api.CreatePost(ctx, req); err != nil {
		return err
	}
	c.notifier.Notify("Your post has been shared!", ui.LevelSuccess)
	return c.LoadFeed(ctx, 1)
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

// ShowSavedPosts replaces the feed with the caller's saved posts.
func (c *Controller) ShowSavedPosts(ctx context.Context) error {
	c.setFeedState(0, false)
	viewer := c.session.User()
	return c.fill(ctx, c.doc.Container(view.ContainerPosts), true, view.FailedSavedPosts, func(ctx context.Context) (template.HTML, error) {
		posts, err := c.api.SavedPosts(ctx)
		if err != nil {
			return "", err
		}
		if len(posts) == 0 {
			return c.render.Empty(view.EmptySavedPosts)
		}
		return c.render.SavedPosts(posts, viewer)
	})
}

// Search shows people and posts matching query. Queries shorter than two
// characters reload the feed instead.
func (c *Controller) Search(ctx context.Context, query string) error {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < minSearchLength {
		return c.LoadFeed(ctx, 1)
	}

	c.setFeedState(0, false)
	viewer := c.session.User()
	return c.fill(ctx, c.doc.Container(view.ContainerPosts), true, view.FailedSearch, func(ctx context.Context) (template.HTML, error) {
		results, err := c.api.Search(ctx, query, api.SearchAll)
		if err != nil {
			return "", err
		}
		return c.render.SearchResults(results, viewer)
	})
}

// Trending replaces the feed with the week's most liked posts.
func (c *Controller) Trending(ctx context.Context) error {
	c.setFeedState(0, false)
	viewer := c.session.User()
	return c.fill(ctx, c.doc.Container(view.ContainerPosts), true, view.FailedTrending, func(ctx context.Context) (template.HTML, error) {
		posts, err := c.api.Trending(ctx)
		if err != nil {
			return "", err
		}
		if len(posts) == 0 {
			return c.render.Empty(view.EmptyTrending)
		}
		return c.render.Trending(posts, viewer)
	})
}
