package handler

import (
	"context"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/mz310/FitProof/internal/api/middleware"
	"github.com/mz310/FitProof/internal/core/domain"
	"github.com/mz310/FitProof/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error)
	loginFn    func(ctx context.Context, in ports.LoginInput) (*ports.AuthResult, error)
	historyFn  func(ctx context.Context, userID string) ([]domain.LoginEvent, error)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, in ports.LoginInput) (*ports.AuthResult, error) {
	return s.loginFn(ctx, in)
}

func (s *stubAuthService) History(ctx context.Context, userID string) ([]domain.LoginEvent, error) {
	return s.historyFn(ctx, userID)
}

type stubUserService struct {
	listFn       func(ctx context.Context) ([]domain.User, error)
	createFn     func(ctx context.Context, in ports.CreateUserInput) (*domain.User, error)
	updateRoleFn func(ctx context.Context, id string, role domain.Role) (*domain.User, error)
}

func (s *stubUserService) List(ctx context.Context) ([]domain.User, error) { return s.listFn(ctx) }

func (s *stubUserService) Create(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
	return s.createFn(ctx, in)
}

func (s *stubUserService) UpdateRole(ctx context.Context, id string, role domain.Role) (*domain.User, error) {
	return s.updateRoleFn(ctx, id, role)
}

type stubSessionService struct {
	startFn   func(ctx context.Context, actor domain.Actor, in ports.StartSessionInput) (*domain.Session, *domain.Device, error)
	logSetFn  func(ctx context.Context, actor domain.Actor, id string, in domain.SetInput, key string) (*domain.Session, error)
	getFn     func(ctx context.Context, actor domain.Actor, id string) (*domain.Session, error)
	devicesFn func(ctx context.Context) ([]domain.Device, error)
}

func (s *stubSessionService) Start(ctx context.Context, actor domain.Actor, in ports.StartSessionInput) (*domain.Session, *domain.Device, error) {
	return s.startFn(ctx, actor, in)
}

func (s *stubSessionService) LogSet(ctx context.Context, actor domain.Actor, id string, in domain.SetInput, key string) (*domain.Session, error) {
	return s.logSetFn(ctx, actor, id, in, key)
}

func (s *stubSessionService) Get(ctx context.Context, actor domain.Actor, id string) (*domain.Session, error) {
	return s.getFn(ctx, actor, id)
}

func (s *stubSessionService) ListDevices(ctx context.Context) ([]domain.Device, error) {
	return s.devicesFn(ctx)
}

// newJSONContext builds a context for method/target with a JSON body and the
// validator installed, optionally authenticated as actor.
func newJSONContext(method, target, body string, actor *domain.Actor) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if actor != nil {
		c.Set(middleware.ActorKey, *actor)
	}
	return c, rec
}
