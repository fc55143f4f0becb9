package domain

import (
	"strings"
	"time"
)

// SessionStatus is the lifecycle state of a session. Sessions are created
// active and have no exposed transition out of it.
type SessionStatus string

const SessionActive SessionStatus = "active"

// SetType distinguishes the two kinds of log entry.
type SetType string

const (
	SetStrength SetType = "strength"
	SetCardio   SetType = "cardio"
)

const (
	defaultStrengthName = "Exercise"
	defaultCardioName   = "Cardio"
)

// Session is one user's workout against a device. Sets are kept in insertion
// order; the totals are derived from them and never stored as truth.
type Session struct {
	ID            string        `json:"id"`
	UserID        string        `json:"userId"`
	DeviceID      string        `json:"deviceId"`
	DeviceCode    string        `json:"deviceCode"`
	StartedAt     time.Time     `json:"startedAt"`
	Status        SessionStatus `json:"status"`
	Sets          []Set         `json:"sets"`
	TotalVolume   float64       `json:"totalVolume"`
	TotalDuration float64       `json:"totalDuration"`
}

// Set is an immutable log entry inside a session.
type Set struct {
	ID           string    `json:"id"`
	SessionID    string    `json:"sessionId"`
	Type         SetType   `json:"type"`
	ExerciseName string    `json:"exerciseName"`
	Weight       float64   `json:"weight"`
	Reps         float64   `json:"reps"`
	Sets         float64   `json:"sets"`
	Distance     float64   `json:"distance"`
	DurationSec  float64   `json:"durationSec"`
	Volume       float64   `json:"volume"`
	CreatedAt    time.Time `json:"createdAt"`
}

// SetInput is a log request after schema validation. Nil numeric fields were
// absent or non-numeric in the request.
type SetInput struct {
	Type         SetType
	ExerciseName string
	Weight       *float64
	Reps         *float64
	Sets         *float64
	Distance     *float64
	DurationSec  *float64
}

// NewSession returns an active session with no sets.
func NewSession(id, userID string, device *Device, now time.Time) *Session {
	return &Session{
		ID:         id,
		UserID:     userID,
		DeviceID:   device.ID,
		DeviceCode: device.Code,
		StartedAt:  now,
		Status:     SessionActive,
		Sets:       []Set{},
	}
}

// NewSet applies field defaults and computes the set's volume.
func NewSet(id, sessionID string, in SetInput, now time.Time) Set {
	name := strings.TrimSpace(in.ExerciseName)
	if name == "" {
		name = defaultStrengthName
		if in.Type == SetCardio {
			name = defaultCardioName
		}
	}

	s := Set{
		ID:           id,
		SessionID:    sessionID,
		Type:         in.Type,
		ExerciseName: name,
		Weight:       valueOr(in.Weight, 0),
		Reps:         valueOr(in.Reps, 0),
		Sets:         valueOr(in.Sets, 1),
		Distance:     valueOr(in.Distance, 0),
		DurationSec:  valueOr(in.DurationSec, 0),
		CreatedAt:    now,
	}
	s.Volume = Volume(s)
	return s
}

// Volume is the workload of a single set.
//
//	strength: weight * reps * sets
//	cardio:   distance, or durationSec when distance is zero
func Volume(s Set) float64 {
	switch s.Type {
	case SetStrength:
		return s.Weight * s.Reps * s.Sets
	case SetCardio:
		if s.Distance != 0 {
			return s.Distance
		}
		return s.DurationSec
	default:
		return 0
	}
}

// WithSets replaces the session's set list and recomputes both totals from it.
func (s *Session) WithSets(sets []Set) *Session {
	if sets == nil {
		sets = []Set{}
	}
	s.Sets = sets
	s.TotalVolume = 0
	s.TotalDuration = 0
	for _, set := range sets {
		s.TotalVolume += set.Volume
		s.TotalDuration += set.DurationSec
	}
	return s
}

// ParseSetType validates a raw set type.
func ParseSetType(s string) (SetType, error) {
	switch t := SetType(s); t {
	case SetStrength, SetCardio:
		return t, nil
	default:
		return "", &ValidationError{
			Message: "invalid set",
			Issues:  []FieldIssue{{Field: "type", Message: "type must be one of: strength cardio"}},
		}
	}
}

func valueOr(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}
