package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/mz310/FitProof/internal/core/domain"
	"github.com/mz310/FitProof/internal/core/ports"
)

func newUserSvc() (*UserService, *stubUserRepo) {
	repo := newStubUserRepo()
	return NewUserService(repo, &stubHasher{}, zerolog.Nop()), repo
}

func TestUserService_Create_DefaultsToMember(t *testing.T) {
	svc, _ := newUserSvc()

	u, err := svc.Create(context.Background(), ports.CreateUserInput{Email: "m@example.com", Password: "secret", Name: "M"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.Role != domain.RoleMember {
		t.Fatalf("expected member, got %s", u.Role)
	}
}

func TestUserService_Create_WithRole(t *testing.T) {
	svc, _ := newUserSvc()

	u, err := svc.Create(context.Background(), ports.CreateUserInput{Email: "t@example.com", Password: "secret", Name: "T", Role: domain.RoleTrainer})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.Role != domain.RoleTrainer {
		t.Fatalf("expected trainer, got %s", u.Role)
	}
}

func TestUserService_Create_RejectsUnknownRole(t *testing.T) {
	svc, _ := newUserSvc()

	_, err := svc.Create(context.Background(), ports.CreateUserInput{Email: "x@example.com", Password: "secret", Name: "X", Role: "owner"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUserService_Create_Duplicate(t *testing.T) {
	svc, _ := newUserSvc()
	in := ports.CreateUserInput{Email: "dup@example.com", Password: "secret", Name: "D"}

	if _, err := svc.Create(context.Background(), in); err != nil {
		t.Fatalf("first create: %v", err)
	}
	in.Email = "DUP@example.com"
	if _, err := svc.Create(context.Background(), in); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestUserService_UpdateRole(t *testing.T) {
	svc, _ := newUserSvc()
	u, err := svc.Create(context.Background(), ports.CreateUserInput{Email: "r@example.com", Password: "secret", Name: "R"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.UpdateRole(context.Background(), u.ID, domain.RoleAdmin)
	if err != nil {
		t.Fatalf("update role: %v", err)
	}
	if updated.Role != domain.RoleAdmin {
		t.Fatalf("expected admin, got %s", updated.Role)
	}
}

func TestUserService_UpdateRole_Errors(t *testing.T) {
	svc, _ := newUserSvc()

	if _, err := svc.UpdateRole(context.Background(), "missing", domain.RoleTrainer); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := svc.UpdateRole(context.Background(), "missing", "Admin"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for non-canonical role, got %v", err)
	}
}

func TestUserService_List_NeverNil(t *testing.T) {
	svc, _ := newUserSvc()
	users, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if users == nil {
		t.Fatalf("expected empty slice")
	}
}

func TestSeedDefaults_Idempotent(t *testing.T) {
	store := &stubStore{users: newStubUserRepo(), devices: newStubDeviceRepo()}

	for i := 0; i < 2; i++ {
		if err := SeedDefaults(context.Background(), store, &stubHasher{}, zerolog.Nop()); err != nil {
			t.Fatalf("seed run %d: %v", i, err)
		}
	}

	users, _ := store.users.List(context.Background())
	if len(users) != 3 {
		t.Fatalf("expected 3 seeded users, got %d", len(users))
	}
	devices, _ := store.devices.ListActive(context.Background())
	if len(devices) != 3 || devices[0].Code != "DEV-001" {
		t.Fatalf("unexpected seeded devices: %+v", devices)
	}
	admin, err := store.users.FindByEmail(context.Background(), "admin@example.com")
	if err != nil || admin.Role != domain.RoleAdmin {
		t.Fatalf("expected seeded admin, got %+v %v", admin, err)
	}
}

type stubStore struct {
	users   *stubUserRepo
	devices *stubDeviceRepo
}

func (s *stubStore) Users() ports.UserRepository             { return s.users }
func (s *stubStore) Devices() ports.DeviceRepository         { return s.devices }
func (s *stubStore) Sessions() ports.SessionRepository       { return newStubSessionRepo() }
func (s *stubStore) LoginEvents() ports.LoginEventRepository { return &stubAuditRepo{} }
func (s *stubStore) Ping(context.Context) error              { return nil }
func (s *stubStore) Close(context.Context) error             { return nil }
