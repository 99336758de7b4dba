package ui

import "context"

// Level distinguishes success toasts from error toasts.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notifier shows transient, auto-dismissing messages to the user.
type Notifier interface {
	Notify(message string, level Level)
}

// Dialogs are blocking interactions: a free-text prompt, a yes/no confirmation and
// an informational alert. Prompt reports ok=false when the user cancels.
type Dialogs interface {
	Prompt(ctx context.Context, message string) (string, bool)
	Confirm(ctx context.Context, message string) bool
	Alert(ctx context.Context, message string)
}

type ctxKey struct{}

// WithDialogs scopes a Dialogs implementation to a single action, typically one
// built from the values a browser submitted with the action.
func WithDialogs(ctx context.Context, d Dialogs) context.Context {
	if ctx == nil || d == nil {
		return ctx
	}
	return context.WithValue(ctx, ctxKey{}, d)
}

// DialogsFrom returns the action-scoped dialogs or the fallback.
func DialogsFrom(ctx context.Context, fallback Dialogs) Dialogs {
	if ctx != nil {
		if d, ok := ctx.Value(ctxKey{}).(Dialogs); ok && d != nil {
			return d
		}
	}
	return fallback
}

// Discard drops notifications and answers every dialog negatively.
type Discard struct{}

func (Discard) Notify(string, Level) {}

func (Discard) Prompt(context.Context, string) (string, bool) { return "", false }

func (Discard) Confirm(context.Context, string) bool { return false }

func (Discard) Alert(context.Context, string) {}
