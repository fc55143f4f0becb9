package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/mz310/FitProof/internal/core/domain"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User // by id
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, user.Email) {
			return domain.ErrEmailTaken
		}
	}
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.NewNotFound("user", email)
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.NewNotFound("user", id)
}

func (r *stubUserRepo) List(_ context.Context) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *stubUserRepo) UpdateRole(_ context.Context, id string, role domain.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.NewNotFound("user", id)
	}
	u.Role = role
	return nil
}

type stubAuditRepo struct {
	events    []domain.LoginEvent
	recordErr error
}

func (r *stubAuditRepo) Record(_ context.Context, e *domain.LoginEvent) error {
	if r.recordErr != nil {
		return r.recordErr
	}
	r.events = append(r.events, *e)
	return nil
}

func (r *stubAuditRepo) ListByUser(_ context.Context, userID string, limit int) ([]domain.LoginEvent, error) {
	var out []domain.LoginEvent
	for i := len(r.events) - 1; i >= 0 && len(out) < limit; i-- {
		e := r.events[i]
		if e.UserID != nil && *e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

// stubHasher "hashes" by prefixing; Verify counts calls so tests can check
// the unknown-email path still performs a comparison.
type stubHasher struct {
	verifyCalls int
}

func (h *stubHasher) Hash(plain string) (string, error) { return "hashed:" + plain, nil }

func (h *stubHasher) Verify(candidate, hash string) bool {
	h.verifyCalls++
	return hash == "hashed:"+candidate
}

type stubTokens struct {
	issued []string
}

func (t *stubTokens) Issue(user *domain.User) (string, error) {
	tok := "token-for-" + user.ID
	t.issued = append(t.issued, tok)
	return tok, nil
}

func (t *stubTokens) Verify(token string) (*domain.Actor, error) {
	return nil, domain.ErrInvalidToken
}

type stubDeviceRepo struct {
	devices map[string]domain.Device // by code
}

func newStubDeviceRepo(devices ...domain.Device) *stubDeviceRepo {
	r := &stubDeviceRepo{devices: make(map[string]domain.Device)}
	for _, d := range devices {
		r.devices[d.Code] = d
	}
	return r
}

func (r *stubDeviceRepo) FindActiveByCode(_ context.Context, code string) (*domain.Device, error) {
	d, ok := r.devices[code]
	if !ok || !d.Active {
		return nil, domain.NewNotFound("device", code)
	}
	return &d, nil
}

func (r *stubDeviceRepo) ListActive(_ context.Context) ([]domain.Device, error) {
	var out []domain.Device
	for _, d := range r.devices {
		if d.Active {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (r *stubDeviceRepo) Upsert(_ context.Context, d *domain.Device) error {
	if existing, ok := r.devices[d.Code]; ok {
		d.ID = existing.ID
	}
	r.devices[d.Code] = *d
	return nil
}

type stubSessionRepo struct {
	mu        sync.Mutex
	sessions  map[string]domain.Session
	sets      map[string][]domain.Set
	appendErr error
}

func newStubSessionRepo() *stubSessionRepo {
	return &stubSessionRepo{
		sessions: make(map[string]domain.Session),
		sets:     make(map[string][]domain.Set),
	}
}

func (r *stubSessionRepo) Create(_ context.Context, s *domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *s
	stored.Sets = nil
	r.sessions[s.ID] = stored
	return nil
}

func (r *stubSessionRepo) FindByID(_ context.Context, id string) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, domain.NewNotFound("session", id)
	}
	return &s, nil
}

func (r *stubSessionRepo) AppendSet(_ context.Context, set *domain.Set) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.appendErr != nil {
		return r.appendErr
	}
	r.sets[set.SessionID] = append(r.sets[set.SessionID], *set)
	return nil
}

func (r *stubSessionRepo) ListSets(_ context.Context, sessionID string) ([]domain.Set, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Set, len(r.sets[sessionID]))
	copy(out, r.sets[sessionID])
	return out, nil
}

type stubDedup struct {
	seen     map[string]bool
	claimErr error
	released []string
}

func newStubDedup() *stubDedup { return &stubDedup{seen: make(map[string]bool)} }

func (d *stubDedup) Claim(_ context.Context, scope, key string) (bool, error) {
	if d.claimErr != nil {
		return false, d.claimErr
	}
	k := scope + ":" + key
	if d.seen[k] {
		return false, nil
	}
	d.seen[k] = true
	return true, nil
}

func (d *stubDedup) Release(_ context.Context, scope, key string) error {
	k := scope + ":" + key
	delete(d.seen, k)
	d.released = append(d.released, k)
	return nil
}

type published struct {
	topic, key string
	payload    any
}

type stubPublisher struct {
	mu   sync.Mutex
	sent []published
	err  error
}

func (p *stubPublisher) Publish(_ context.Context, topic, key string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.sent = append(p.sent, published{topic: topic, key: key, payload: payload})
	return nil
}

func (p *stubPublisher) Close() error { return nil }

var errStore = errors.New("store unavailable")
