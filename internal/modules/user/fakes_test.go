package user

import (
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type memoryRepo struct {
	mu    sync.Mutex
	users map[int64]User
}

func newMemoryRepo(users ...User) *memoryRepo {
	r := &memoryRepo{users: map[int64]User{}}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *memoryRepo) Create(ctx context.Context, u *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return ErrEmailTaken
		}
	}
	u.ID = int64(len(r.users) + 1)
	u.RegisteredAt = time.Now()
	r.users[u.ID] = *u
	return nil
}

func (r *memoryRepo) GetByEmail(ctx context.Context, email string) (*User, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return &u, true, nil
		}
	}
	return nil, false, nil
}

func (r *memoryRepo) GetByID(ctx context.Context, id int64) (*User, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, false, nil
	}
	return &u, true, nil
}

func (r *memoryRepo) UpdateProfile(ctx context.Context, id int64, p *ProfileUpdate) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return false, nil
	}
	rut, address := p.RUT, p.Address
	u.Name, u.BirthDate, u.RUT, u.Address = p.Name, p.BirthDate, &rut, &address
	r.users[id] = u
	return true, nil
}

func (r *memoryRepo) UpdateRemote(ctx context.Context, id int64, remoteID *int64, role string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := r.users[id]
	if remoteID != nil {
		u.RemoteID = remoteID
	}
	u.Role = role
	r.users[id] = u
	return nil
}

func (r *memoryRepo) List(ctx context.Context) ([]*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*User{}
	for _, u := range r.users {
		u := u
		out = append(out, &u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// addressRequired rejects profiles without an address.
type addressRequired struct{}

func (addressRequired) ValidateProfile(p *ProfileUpdate) error {
	if p.Address == "" {
		return errors.New("La dirección no puede estar vacía")
	}
	return nil
}
