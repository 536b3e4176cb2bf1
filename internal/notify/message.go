package notify

import (
	"fmt"
	"strings"

	"gitlab.com/napatw/pantry-bot/internal/expiry"
)

// ComposeAlert builds the title and body for one daily expiry alert from a
// classification. It returns ok=false when there is nothing to say.
func ComposeAlert(c expiry.Classification) (title, body string, ok bool) {
	expired := len(c.Expired)
	warning := len(c.Warning)

	switch {
	case expired > 0 && warning > 0:
		title = fmt.Sprintf("⚠️ %d expired, %d expiring soon", expired, warning)
	case expired > 0:
		title = fmt.Sprintf("🗑 %d ingredient(s) expired", expired)
	case warning > 0:
		title = fmt.Sprintf("⏰ %d ingredient(s) expiring soon", warning)
	default:
		return "", "", false
	}

	var sb strings.Builder
	for _, item := range c.Expired {
		fmt.Fprintf(&sb, "• %s — %s\n", item.Name, expiry.DaysLeftLabel(item.DaysLeft))
	}
	for _, item := range c.Warning {
		fmt.Fprintf(&sb, "• %s — %s\n", item.Name, expiry.DaysLeftLabel(item.DaysLeft))
	}

	return title, strings.TrimRight(sb.String(), "\n"), true
}
