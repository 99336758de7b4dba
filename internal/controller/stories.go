package controller

import (
	"context"
	"html/template"

	"github.com/faceconnect/client/internal/api"
	"github.com/faceconnect/client/internal/ui"
	"github.com/faceconnect/client/internal/view"
)

// Text stories are published on a fixed background.
const (
	storyMediaType  = "text"
	storyBackground = "#667eea"
)

// LoadStories renders the story strip.
func (c *Controller) LoadStories(ctx context.Context) error {
	return c.fill(ctx, c.doc.Container(view.ContainerStories), false, "", func(ctx context.Context) (template.HTML, error) {
		groups, err := c.api.Stories(ctx)
		if err != nil {
			return "", err
		}
		return c.render.Stories(groups)
	})
}

// CreateStory prompts for text and publishes a text story. Empty input or
// cancel aborts.
func (c *Controller) CreateStory(ctx context.Context) error {
	text, ok := c.dialogsFor(ctx).Prompt(ctx, "Enter your story text:")
	if !ok || text == "" {
		return nil
	}
	_, err := c.api.CreateStory(ctx, api.CreateStoryRequest{
		Text:            text,
		MediaType:       storyMediaType,
		BackgroundColor: storyBackground,
	})
	if err != nil {
		return err
	}
	c.notifier.Notify("Story published!", ui.LevelSuccess)
	return c.LoadStories(ctx)
}

// ViewStory records a view of a story.
func (c *Controller) ViewStory(ctx context.Context, storyID int64) error {
	if _, err := c.api.ViewStory(ctx, storyID); err != nil {
		return err
	}
	c.notifier.Notify("Story viewed", ui.LevelSuccess)
	return nil
}
