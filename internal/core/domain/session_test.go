package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func TestVolume_Strength(t *testing.T) {
	tests := []struct {
		name                string
		weight, reps, count float64
		want                float64
	}{
		{"basic", 60, 10, 3, 1800},
		{"zero weight", 0, 10, 3, 0},
		{"zero reps", 60, 0, 3, 0},
		{"zero sets", 60, 10, 0, 0},
		{"fractional", 22.5, 8, 2, 360},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Set{Type: SetStrength, Weight: tt.weight, Reps: tt.reps, Sets: tt.count}
			assert.Equal(t, tt.want, Volume(s))
		})
	}
}

func TestVolume_Cardio(t *testing.T) {
	tests := []struct {
		name               string
		distance, duration float64
		want               float64
	}{
		{"distance wins", 5, 600, 5},
		{"zero distance falls back to duration", 0, 600, 600},
		{"both zero", 0, 0, 0},
		{"distance only", 3.2, 0, 3.2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Set{Type: SetCardio, Distance: tt.distance, DurationSec: tt.duration}
			assert.Equal(t, tt.want, Volume(s))
		})
	}
}

func TestVolume_IgnoresOtherTypeFields(t *testing.T) {
	cardio := Set{Type: SetCardio, Weight: 100, Reps: 10, Sets: 3, DurationSec: 60}
	assert.Equal(t, float64(60), Volume(cardio))

	strength := Set{Type: SetStrength, Weight: 10, Reps: 2, Sets: 1, Distance: 500}
	assert.Equal(t, float64(20), Volume(strength))
}

func TestNewSet_Defaults(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	s := NewSet("s1", "sess", SetInput{Type: SetStrength}, now)
	assert.Equal(t, "Exercise", s.ExerciseName)
	assert.Equal(t, float64(1), s.Sets)
	assert.Zero(t, s.Weight)
	assert.Zero(t, s.Volume)
	assert.Equal(t, now, s.CreatedAt)

	c := NewSet("s2", "sess", SetInput{Type: SetCardio, ExerciseName: "   "}, now)
	assert.Equal(t, "Cardio", c.ExerciseName)

	explicitZero := NewSet("s3", "sess", SetInput{Type: SetStrength, Weight: ptr(60), Reps: ptr(10), Sets: ptr(0)}, now)
	assert.Zero(t, explicitZero.Sets)
	assert.Zero(t, explicitZero.Volume)
}

func TestSession_WithSetsRecomputes(t *testing.T) {
	device := &Device{ID: "d1", Code: "DEV-001"}
	s := NewSession("sess", "u1", device, time.Now())
	require.NotNil(t, s.Sets)
	assert.Equal(t, SessionActive, s.Status)

	now := time.Now()
	sets := []Set{
		NewSet("a", "sess", SetInput{Type: SetStrength, Weight: ptr(60), Reps: ptr(10), Sets: ptr(3)}, now),
		NewSet("b", "sess", SetInput{Type: SetCardio, Distance: ptr(0), DurationSec: ptr(600)}, now),
	}
	s.WithSets(sets)
	assert.Equal(t, float64(2400), s.TotalVolume)
	assert.Equal(t, float64(600), s.TotalDuration)

	// A stale total is never trusted.
	s.TotalVolume = 99999
	s.WithSets(sets[:1])
	assert.Equal(t, float64(1800), s.TotalVolume)
	assert.Zero(t, s.TotalDuration)

	s.WithSets(nil)
	assert.NotNil(t, s.Sets)
	assert.Zero(t, s.TotalVolume)
}

func TestParseSetType(t *testing.T) {
	_, err := ParseSetType("strength")
	require.NoError(t, err)
	_, err = ParseSetType("Strength")
	require.ErrorIs(t, err, ErrValidation)
}
