package handlers

import (
	"context"
	"net/url"
	"strings"

	"github.com/faceconnect/client/internal/view"
)

// formDialogs answers the controller's blocking dialogs from the values the
// browser submitted with an action. A prompt is cancelled when its field is
// absent; a confirmation needs confirm=yes. Alerts are shown on the next page.
type formDialogs struct {
	form url.Values
	doc  *view.Document
}

func (d formDialogs) Prompt(_ context.Context, _ string) (string, bool) {
	values, ok := d.form["prompt"]
	if !ok || len(values) == 0 {
		return "", false
	}
	return strings.TrimSpace(values[0]), true
}

func (d formDialogs) Confirm(_ context.Context, _ string) bool {
	return strings.EqualFold(d.form.Get("confirm"), "yes")
}

func (d formDialogs) Alert(_ context.Context, message string) {
	if d.doc != nil {
		d.doc.SetAlert(message)
	}
}
