package view

import (
	"fmt"
	"time"
)

// DefaultDateLayout renders dates older than a week in the en-US short form.
const DefaultDateLayout = "1/2/2006"

// FormatTime renders ts relative to now: "Just now" under a minute, then
// minutes, hours and days ago, and a calendar date from seven days on.
// Timestamps in the future also read "Just now".
func FormatTime(ts, now time.Time) string {
	return FormatTimeLayout(ts, now, DefaultDateLayout)
}

// FormatTimeLayout is FormatTime with a caller-chosen date layout.
func FormatTimeLayout(ts, now time.Time, layout string) string {
	if ts.IsZero() {
		return ""
	}
	if layout == "" {
		layout = DefaultDateLayout
	}

	diff := int64(now.Sub(ts) / time.Second)
	switch {
	case diff < 60:
		return "Just now"
	case diff < 3600:
		return fmt.Sprintf("%dm ago", diff/60)
	case diff < 86400:
		return fmt.Sprintf("%dh ago", diff/3600)
	case diff < 604800:
		return fmt.Sprintf("%dd ago", diff/86400)
	}
	return ts.In(now.Location()).Format(layout)
}
