package auth

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/georgemunganga/limpiohogar-backend/internal/modules/user"
	"github.com/georgemunganga/limpiohogar-backend/internal/remote"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type memoryUsers struct {
	mu    sync.Mutex
	users []*user.User
}

func (r *memoryUsers) Create(ctx context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return user.ErrEmailTaken
		}
	}
	u.ID = int64(len(r.users) + 1)
	u.RegisteredAt = time.Now()
	cp := *u
	r.users = append(r.users, &cp)
	return nil
}

func (r *memoryUsers) GetByEmail(ctx context.Context, email string) (*user.User, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, true, nil
		}
	}
	return nil, false, nil
}

func (r *memoryUsers) GetByID(ctx context.Context, id int64) (*user.User, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			cp := *u
			return &cp, true, nil
		}
	}
	return nil, false, nil
}

func (r *memoryUsers) UpdateProfile(ctx context.Context, id int64, p *user.ProfileUpdate) (bool, error) {
	return false, nil
}

func (r *memoryUsers) UpdateRemote(ctx context.Context, id int64, remoteID *int64, role string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			u.Role = role
			if remoteID != nil {
				u.RemoteID = remoteID
			}
		}
	}
	return nil
}

func (r *memoryUsers) List(ctx context.Context) ([]*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*user.User(nil), r.users...), nil
}

func (r *memoryUsers) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

type memorySessions struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]Session
}

func newMemorySessions() *memorySessions {
	return &memorySessions{sessions: map[uuid.UUID]Session{}}
}

func (r *memorySessions) Create(ctx context.Context, s *Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = *s
	return nil
}

func (r *memorySessions) Get(ctx context.Context, id uuid.UUID) (*Session, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, false, nil
	}
	return &s, true, nil
}

func (r *memorySessions) Revoke(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok || s.RevokedAt != nil {
		return false, nil
	}
	s.RevokedAt = &at
	r.sessions[id] = s
	return true, nil
}

// stubRemote answers login and registration with a fixed role, or fails with err.
type stubRemote struct {
	role   string
	id     int64
	err    error
	logins int
}

func (s *stubRemote) answer(email string) (*remote.Usuario, error) {
	if s.err != nil {
		return nil, s.err
	}
	id, role := s.id, s.role
	return &remote.Usuario{ID: &id, Email: email, Rol: remote.Rol{ID: 1, NombreRol: &role}}, nil
}

func (s *stubRemote) Login(ctx context.Context, email, password string) (*remote.Usuario, error) {
	s.logins++
	return s.answer(email)
}

func (s *stubRemote) Register(ctx context.Context, u remote.Usuario) (*remote.Usuario, error) {
	return s.answer(u.Email)
}
