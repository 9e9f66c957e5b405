package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func score(n int) *int { return &n }

func TestRatingTotal(t *testing.T) {
	r := Rating{
		AppScore:     score(20),
		SmokeScore:   score(18),
		TasteScore:   score(22),
		OverallScore: score(21),
	}
	total, ok := r.Total()
	assert.True(t, ok)
	assert.Equal(t, 81, total)
}

func TestRatingTotalIncomplete(t *testing.T) {
	tests := []struct {
		name string
		r    Rating
	}{
		{"all missing", Rating{}},
		{"missing overall", Rating{AppScore: score(1), SmokeScore: score(2), TasteScore: score(3)}},
		{"missing appearance", Rating{SmokeScore: score(2), TasteScore: score(3), OverallScore: score(4)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			total, ok := tt.r.Total()
			assert.False(t, ok)
			assert.Zero(t, total)
		})
	}
}

func TestRatingTotalZeroScoresAreComplete(t *testing.T) {
	// An explicit zero is a score, not a gap.
	r := Rating{AppScore: score(0), SmokeScore: score(0), TasteScore: score(0), OverallScore: score(0)}
	total, ok := r.Total()
	assert.True(t, ok)
	assert.Equal(t, 0, total)
}
