package engine

import (
	"math"
	"strings"

	"github.com/tatianab/gamebook/internal/models"
)

// Health bounds.
const (
	MinHealth = 0
	MaxHealth = 10
)

// Delta returns the signed health change of a consequence. The consequence type
// decides the sign: LOSE_HEALTH is always negative, GAIN_HEALTH always positive,
// HEALTH keeps the sign of its value. Unknown types and nil have no effect.
func Delta(c *models.Consequence) int {
	if c == nil {
		return 0
	}
	v, ok := c.Value.Float()
	if !ok {
		v = 0
	}
	switch models.NormalizeType(c.Type) {
	case models.LoseHealth:
		return -round(math.Abs(v))
	case models.GainHealth:
		return round(math.Abs(v))
	case models.Health:
		return round(v)
	}
	return 0
}

// Text returns the consequence's display text when it is present and not blank.
func Text(c *models.Consequence) (string, bool) {
	if c == nil {
		return "", false
	}
	t := strings.TrimSpace(c.Text)
	return t, t != ""
}

// ClampHealth bounds h to [MinHealth, MaxHealth].
func ClampHealth(h int) int {
	return min(max(h, MinHealth), MaxHealth)
}

func round(f float64) int {
	// Values past the health range are clamped later; keep the conversion in int range.
	f = math.Max(math.Min(math.Round(f), 1e9), -1e9)
	return int(f)
}
