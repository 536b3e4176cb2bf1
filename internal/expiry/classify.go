package expiry

import (
	"fmt"
	"sort"
	"time"

	"gitlab.com/napatw/pantry-bot/internal/models"
)

// DefaultWarningDays is the window within which an unexpired ingredient
// counts as expiring soon.
const DefaultWarningDays = 3

// Item pairs an ingredient with its computed day distance from today.
type Item struct {
	models.Ingredient
	DaysLeft int
}

// Classification buckets a pantry by freshness. Expired is sorted most
// overdue first, Warning soonest first. Skipped holds items whose expiry
// could not be parsed; they are excluded from both buckets but reported so
// callers can log data-quality problems.
type Classification struct {
	Expired []Item
	Warning []Item
	Skipped []models.Ingredient
}

// Total returns the number of classified (non-skipped, non-ok) items.
func (c Classification) Total() int {
	return len(c.Expired) + len(c.Warning)
}

// Classify recomputes freshness buckets from the current date. Items further
// out than warningDays are considered fine and excluded. warningDays <= 0
// falls back to DefaultWarningDays.
func Classify(items []models.Ingredient, warningDays int, today time.Time) Classification {
	if warningDays <= 0 {
		warningDays = DefaultWarningDays
	}

	var c Classification
	for _, ing := range items {
		exp, ok := ingredientDate(ing, today.Location())
		if !ok {
			c.Skipped = append(c.Skipped, ing)
			continue
		}

		daysLeft := DaysBetween(today, exp)
		switch {
		case daysLeft < 0:
			c.Expired = append(c.Expired, Item{Ingredient: ing, DaysLeft: daysLeft})
		case daysLeft <= warningDays:
			c.Warning = append(c.Warning, Item{Ingredient: ing, DaysLeft: daysLeft})
		}
	}

	sort.SliceStable(c.Expired, func(i, j int) bool { return c.Expired[i].DaysLeft < c.Expired[j].DaysLeft })
	sort.SliceStable(c.Warning, func(i, j int) bool { return c.Warning[i].DaysLeft < c.Warning[j].DaysLeft })
	return c
}

// ingredientDate resolves an ingredient's expiry, preferring the structured
// column and falling back to the raw user-entered string.
func ingredientDate(ing models.Ingredient, loc *time.Location) (time.Time, bool) {
	if ing.ExpiresAt != nil {
		return Midnight(ing.ExpiresAt.In(loc)), true
	}
	return ParseDate(ing.ExpiryRaw, loc)
}

// DaysLeftLabel renders a day distance as display text.
func DaysLeftLabel(daysLeft int) string {
	switch {
	case daysLeft < -1:
		return fmt.Sprintf("expired %d days ago", -daysLeft)
	case daysLeft == -1:
		return "expired yesterday"
	case daysLeft < 0:
		return "expired"
	case daysLeft == 0:
		return "expires today"
	case daysLeft == 1:
		return "expires tomorrow"
	default:
		return fmt.Sprintf("in %d days", daysLeft)
	}
}
