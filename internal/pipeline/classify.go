package pipeline

import (
	"strings"

	"portfolioboard/internal/models"
)

// Classify maps the free-text Type cell to a market. A row is Foreign when the
// lowercased text contains any of the markers, otherwise Domestic.
func Classify(rawType string, foreignMarkers []string) models.Market {
	t := strings.ToLower(strings.TrimSpace(rawType))
	if t == "" {
		return models.Domestic
	}
	for _, m := range foreignMarkers {
		m = strings.ToLower(strings.TrimSpace(m))
		if m != "" && strings.Contains(t, m) {
			return models.Foreign
		}
	}
	return models.Domestic
}
