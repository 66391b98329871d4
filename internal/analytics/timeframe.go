package analytics

import (
	"fmt"

	"advisoriq/internal/models"
)

// TimeframeOption is a selectable recommendation horizon.
type TimeframeOption struct {
	Value int    `json:"value"`
	Label string `json:"label"`
}

// TimeframeOptions lists the accepted horizons with display labels.
func TimeframeOptions() []TimeframeOption {
	opts := make([]TimeframeOption, 0, len(models.Timeframes))
	for _, tf := range models.Timeframes {
		opts = append(opts, TimeframeOption{Value: tf, Label: TimeframeLabel(tf)})
	}
	return opts
}

// TimeframeLabel renders a horizon as "N months".
func TimeframeLabel(months int) string {
	return fmt.Sprintf("%d months", months)
}
