package view

import (
	"html/template"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faceconnect/client/internal/models"
)

func TestContainerDropsStaleCommits(t *testing.T) {
	c := NewDocument().Container(ContainerPosts)

	older := c.Begin("<loader>")
	newer := c.Begin("<loader>")
	assert.Equal(t, template.HTML("<loader>"), c.HTML())

	require.True(t, c.Commit(newer, "new"))
	assert.False(t, c.Commit(older, "old"), "older fetch must not overwrite a newer one")
	assert.Equal(t, template.HTML("new"), c.HTML())
}

func TestContainerOlderCompletingFirstIsOverwritten(t *testing.T) {
	c := NewDocument().Container(ContainerPosts)

	older := c.Begin("")
	newer := c.Begin("")

	require.True(t, c.Commit(older, "old"))
	require.True(t, c.Commit(newer, "new"))
	assert.Equal(t, template.HTML("new"), c.HTML())
}

func TestContainerAppend(t *testing.T) {
	c := NewDocument().Container(ContainerPosts)

	first := c.Begin("")
	require.True(t, c.Commit(first, "a"))
	second := c.Begin("")
	require.True(t, c.Append(second, "b"))
	assert.Equal(t, template.HTML("ab"), c.HTML())

	assert.False(t, c.Append(first, "stale"))
	assert.False(t, NewDocument().Container("other").Commit(second, "x"), "tickets are bound to their container")
}

func TestBadge(t *testing.T) {
	var b Badge
	assert.False(t, b.Visible())
	assert.True(t, b.Commit(b.Begin(), 3))
	assert.True(t, b.Visible())
	assert.Equal(t, 4, b.Increment())
	assert.True(t, b.Commit(b.Begin(), -1))
	assert.Equal(t, 0, b.Count())
}

func TestBadgeDropsStaleCounts(t *testing.T) {
	var b Badge
	slow := b.Begin()
	fast := b.Begin()

	assert.True(t, b.Commit(fast, 0))
	assert.False(t, b.Commit(slow, 3), "an older load must not overwrite a newer count")
	assert.Equal(t, 0, b.Count())
}

func TestDocumentLifecycle(t *testing.T) {
	doc := NewDocument()
	assert.False(t, doc.MainVisible())
	assert.Equal(t, FormLogin, doc.AuthForm())

	doc.ShowAuth(FormRegister)
	assert.Equal(t, FormRegister, doc.AuthForm())

	doc.ShowMain(models.User{ID: 1, FirstName: "Ann"})
	doc.Badge(BadgeMessages).Increment()
	doc.Modal().Open("Friends")
	doc.SetAlert("hello")
	assert.True(t, doc.MainVisible())
	assert.Equal(t, "hello", doc.TakeAlert())
	assert.Equal(t, "", doc.TakeAlert())

	doc.Reset()
	assert.False(t, doc.MainVisible())
	assert.True(t, doc.User().IsZero())
	assert.Equal(t, 0, doc.Badge(BadgeMessages).Count())
	assert.False(t, doc.Modal().Active())
	_, ok := doc.Lookup(CommentsContainer(1))
	assert.False(t, ok)
}
