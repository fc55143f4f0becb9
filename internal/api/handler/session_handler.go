package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/mz310/FitProof/internal/core/ports"
)

// HeaderIdempotencyKey lets clients retry a set log safely.
const HeaderIdempotencyKey = "Idempotency-Key"

type SessionHandler struct {
	sessions ports.SessionService
}

func NewSessionHandler(sessions ports.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// Start opens a workout session on the device named by qrCode or deviceCode.
//
// @Summary      Start a session
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      startSessionRequest  true  "Scanned QR code or typed device code"
// @Success      201   {object}  startSessionResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /session/start [post]
func (h *SessionHandler) Start(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	var req startSessionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	session, device, err := h.sessions.Start(c.Request().Context(), actor, ports.StartSessionInput{
		QRCode:     req.QRCode,
		DeviceCode: req.DeviceCode,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, startSessionResponse{Session: session, Device: device})
}

// LogSet appends one strength or cardio set and returns the recomputed session.
//
// @Summary      Log a set
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id               path      string         true   "Session ID"
// @Param        Idempotency-Key  header    string         false  "Replays return the current session without appending"
// @Param        body             body      logSetRequest  true   "Set details"
// @Success      201              {object}  sessionResponse
// @Failure      400              {object}  errorResponse
// @Failure      403              {object}  errorResponse
// @Failure      404              {object}  errorResponse
// @Router       /session/{id}/log [post]
func (h *SessionHandler) LogSet(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	var req logSetRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	key := strings.TrimSpace(c.Request().Header.Get(HeaderIdempotencyKey))
	session, err := h.sessions.LogSet(c.Request().Context(), actor, c.Param("id"), req.toInput(), key)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, sessionResponse{Session: session})
}

// Get returns a session with its sets and totals.
//
// @Summary      Get a session
// @Tags         sessions
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Session ID"
// @Success      200  {object}  sessionResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /session/{id} [get]
func (h *SessionHandler) Get(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	session, err := h.sessions.Get(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sessionResponse{Session: session})
}

// Devices lists the active devices.
//
// @Summary      List devices
// @Tags         devices
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  devicesResponse
// @Failure      401  {object}  errorResponse
// @Router       /devices [get]
func (h *SessionHandler) Devices(c echo.Context) error {
	devices, err := h.sessions.ListDevices(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, devicesResponse{Devices: devices})
}
