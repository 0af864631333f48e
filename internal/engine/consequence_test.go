package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tatianab/gamebook/internal/models"
)

func TestDelta(t *testing.T) {
	tests := []struct {
		name string
		c    *models.Consequence
		want int
	}{
		{"nil", nil, 0},
		{"lose positive", &models.Consequence{Type: models.LoseHealth, Value: models.Number(3)}, -3},
		{"lose negative", &models.Consequence{Type: models.LoseHealth, Value: models.Number(-3)}, -3},
		{"lose string", &models.Consequence{Type: "lose_health", Value: models.String(" 2 ")}, -2},
		{"gain negative", &models.Consequence{Type: models.GainHealth, Value: models.Number(-5)}, 5},
		{"health negative", &models.Consequence{Type: models.Health, Value: models.Number(-2)}, -2},
		{"health positive", &models.Consequence{Type: " health ", Value: models.String("4")}, 4},
		{"unknown type", &models.Consequence{Type: "LOSE_GOLD", Value: models.Number(9)}, 0},
		{"missing type", &models.Consequence{Value: models.Number(9)}, 0},
		{"unparseable value", &models.Consequence{Type: models.LoseHealth, Value: models.String("lots")}, 0},
		{"missing value", &models.Consequence{Type: models.GainHealth}, 0},
		{"fraction", &models.Consequence{Type: models.LoseHealth, Value: models.Number(1.5)}, -2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Delta(tt.c))
		})
	}
}

func TestText(t *testing.T) {
	_, ok := Text(nil)
	assert.False(t, ok)

	_, ok = Text(&models.Consequence{Text: "   "})
	assert.False(t, ok)

	got, ok := Text(&models.Consequence{Text: " Ouch. "})
	assert.True(t, ok)
	assert.Equal(t, "Ouch.", got)
}

func TestClampHealth(t *testing.T) {
	assert.Equal(t, 0, ClampHealth(10-15))
	assert.Equal(t, 10, ClampHealth(14))
	assert.Equal(t, 5, ClampHealth(0+5))
}
