package bot

import (
	"fmt"
	"time"

	"github.com/go-analyze/charts"
	"gitlab.com/napatw/pantry-bot/internal/expiry"
	"gitlab.com/napatw/pantry-bot/internal/models"
)

// GenerateFreshnessChart creates a pie chart of the pantry's freshness
// buckets. Returns PNG image as bytes.
func GenerateFreshnessChart(items []models.Ingredient, warningDays int, today time.Time) ([]byte, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("no ingredients to chart")
	}

	c := expiry.Classify(items, warningDays, today)
	fresh := len(items) - c.Total() - len(c.Skipped)

	var values []float64
	var labels []string
	for _, bucket := range []struct {
		label string
		count int
	}{
		{"Expired", len(c.Expired)},
		{"Expiring soon", len(c.Warning)},
		{"Fresh", fresh},
		{"No expiry", len(c.Skipped)},
	} {
		if bucket.count > 0 {
			labels = append(labels, bucket.label)
			values = append(values, float64(bucket.count))
		}
	}

	p, err := charts.PieRender(
		values,
		charts.TitleOptionFunc(charts.TitleOption{
			Text: fmt.Sprintf("Pantry Freshness - %s", today.Format("2 Jan 2006")),
		}),
		charts.LegendLabelsOptionFunc(labels),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create chart: %w", err)
	}

	buf, err := p.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}

	return buf, nil
}

// chartFilename creates a filename like "pantry_2025-08-09.png".
func chartFilename(today time.Time) string {
	return fmt.Sprintf("pantry_%s.png", today.Format("2006-01-02"))
}
