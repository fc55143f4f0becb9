package handler

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/mz310/FitProof/internal/core/domain"
)

// errorResponse is the envelope rendered by the API error handler.
type errorResponse struct {
	Error   string              `json:"error"`
	Message string              `json:"message"`
	Details []domain.FieldIssue `json:"details,omitempty"`
}

// --- Auth ---

type registerRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name"     validate:"required,max=120"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

type historyResponse struct {
	History []domain.LoginEvent `json:"history"`
}

// --- Users ---

type createUserRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name"     validate:"required,max=120"`
	Role     string `json:"role"`
}

type updateRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

type userResponse struct {
	User *domain.User `json:"user"`
}

type usersResponse struct {
	Users []domain.User `json:"users"`
}

// --- Devices and sessions ---

type devicesResponse struct {
	Devices []domain.Device `json:"devices"`
}

type startSessionRequest struct {
	QRCode     string `json:"qrCode"`
	DeviceCode string `json:"deviceCode"`
}

type startSessionResponse struct {
	Session *domain.Session `json:"session"`
	Device  *domain.Device  `json:"device"`
}

type logSetRequest struct {
	Type         string     `json:"type" validate:"required,oneof=strength cardio"`
	ExerciseName string     `json:"exerciseName"`
	Weight       flexNumber `json:"weight"       swaggertype:"number"`
	Reps         flexNumber `json:"reps"         swaggertype:"number"`
	Sets         flexNumber `json:"sets"         swaggertype:"number"`
	Distance     flexNumber `json:"distance"     swaggertype:"number"`
	DurationSec  flexNumber `json:"durationSec"  swaggertype:"number"`
}

func (r logSetRequest) toInput() domain.SetInput {
	return domain.SetInput{
		Type:         domain.SetType(r.Type),
		ExerciseName: r.ExerciseName,
		Weight:       r.Weight.value,
		Reps:         r.Reps.value,
		Sets:         r.Sets.value,
		Distance:     r.Distance.value,
		DurationSec:  r.DurationSec.value,
	}
}

type sessionResponse struct {
	Session *domain.Session `json:"session"`
}

// flexNumber accepts a JSON number or a numeric string. Anything else,
// including null, leaves it unset so the domain default applies.
type flexNumber struct {
	value *float64
}

func (f *flexNumber) UnmarshalJSON(b []byte) error {
	f.value = nil

	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil
	}

	var n float64
	switch v := raw.(type) {
	case float64:
		n = v
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil
		}
		n = parsed
	default:
		return nil
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return nil
	}
	f.value = &n
	return nil
}
