package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/georgemunganga/limpiohogar-backend/internal/modules/user"
	"github.com/georgemunganga/limpiohogar-backend/internal/platform/authctx"
	"github.com/georgemunganga/limpiohogar-backend/internal/remote"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

const (
	RouteHome           = "home"
	RouteAdminDashboard = "admin_dashboard"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidSession     = errors.New("invalid or expired session")
)

// HomeRoute is the landing screen for a role.
func HomeRoute(role string) string {
	if role == user.RoleAdmin {
		return RouteAdminDashboard
	}
	return RouteHome
}

// RemoteAuth is the slice of the remote API that assigns roles.
type RemoteAuth interface {
	Login(ctx context.Context, email, password string) (*remote.Usuario, error)
	Register(ctx context.Context, u remote.Usuario) (*remote.Usuario, error)
}

// LoginResult is returned by Login and Register.
type LoginResult struct {
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expires_at"`
	User      *user.User `json:"user"`
	Route     string     `json:"route"`
}

// Service defines the interface for authentication-related business logic.
type Service interface {
	Register(ctx context.Context, req *RegisterRequest) (*LoginResult, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Logout(ctx context.Context, sessionID uuid.UUID) error
	// Authenticate resolves a bearer token to its principal. Revoked or
	// expired sessions return ErrInvalidSession.
	Authenticate(ctx context.Context, token string) (*authctx.Principal, error)
}

// Options configures the auth service.
type Options struct {
	Secret     []byte
	SessionTTL time.Duration
	Now        func() time.Time
	// BcryptCost defaults to bcrypt.DefaultCost.
	BcryptCost int
}

type service struct {
	users     user.Repository
	sessions  SessionRepository
	remote    RemoteAuth
	validator *Validator
	opts      Options
	log       *logrus.Logger
}

// NewService creates a new auth service.
func NewService(users user.Repository, sessions SessionRepository, rc RemoteAuth, v *Validator, opts Options, logger *logrus.Logger) Service {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	return &service{users: users, sessions: sessions, remote: rc, validator: v, opts: opts, log: logger}
}

func (s *service) Register(ctx context.Context, req *RegisterRequest) (*LoginResult, error) {
	in := RegisterRequest{
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.TrimSpace(req.Email),
		RUT:       strings.TrimSpace(req.RUT),
		Address:   strings.TrimSpace(req.Address),
		BirthDate: strings.TrimSpace(req.BirthDate),
		Password:  req.Password,
	}
	if err := s.validator.ValidateRegistration(&in); err != nil {
		return nil, err
	}

	if _, found, err := s.users.GetByEmail(ctx, in.Email); err != nil {
		return nil, fmt.Errorf("lookup email: %w", err)
	} else if found {
		return nil, user.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.opts.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &user.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		BirthDate:    in.BirthDate,
		RUT:          &in.RUT,
		Address:      &in.Address,
		Role:         user.RoleUser,
	}
	remoteUser, err := s.remote.Register(ctx, remote.Usuario{
		Nombre:   in.Name,
		Email:    in.Email,
		Password: &in.Password,
		Rut:      &in.RUT,
	})
	if err != nil {
		s.log.WithError(err).WithField("email", in.Email).Warn("Auth: remote registration failed, keeping default role")
	} else {
		u.Role = user.NormalizeRole(remoteUser.RoleName())
		u.RemoteID = remoteUser.ID
	}

	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	s.log.WithFields(logrus.Fields{"user_id": u.ID, "role": u.Role}).Info("Auth: user registered")
	return s.startSession(ctx, u)
}

func (s *service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(email)
	u, found, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("lookup email: %w", err)
	}
	if !found {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	s.refreshRole(ctx, u, password)
	return s.startSession(ctx, u)
}

// refreshRole adopts the role the remote reports for u. Any remote failure
// keeps the stored role.
func (s *service) refreshRole(ctx context.Context, u *user.User, password string) {
	remoteUser, err := s.remote.Login(ctx, u.Email, password)
	if err != nil {
		s.log.WithError(err).WithField("user_id", u.ID).Warn("Auth: remote login failed, keeping stored role")
		return
	}
	role := user.NormalizeRole(remoteUser.RoleName())
	if role == u.Role && (remoteUser.ID == nil || (u.RemoteID != nil && *u.RemoteID == *remoteUser.ID)) {
		return
	}
	if err := s.users.UpdateRemote(ctx, u.ID, remoteUser.ID, role); err != nil {
		s.log.WithError(err).WithField("user_id", u.ID).Error("Auth: could not store remote role")
		return
	}
	u.Role = role
	if remoteUser.ID != nil {
		u.RemoteID = remoteUser.ID
	}
}

func (s *service) startSession(ctx context.Context, u *user.User) (*LoginResult, error) {
	now := s.opts.Now()
	sess := &Session{
		ID:        uuid.New(),
		UserID:    u.ID,
		Role:      u.Role,
		CreatedAt: now,
		ExpiresAt: now.Add(s.opts.SessionTTL),
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	token, err := signToken(s.opts.Secret, sess)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &LoginResult{Token: token, ExpiresAt: sess.ExpiresAt, User: u, Route: HomeRoute(u.Role)}, nil
}

func (s *service) Logout(ctx context.Context, sessionID uuid.UUID) error {
	ok, err := s.sessions.Revoke(ctx, sessionID, s.opts.Now())
	if err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	if !ok {
		return ErrInvalidSession
	}
	return nil
}

func (s *service) Authenticate(ctx context.Context, token string) (*authctx.Principal, error) {
	c, err := parseToken(s.opts.Secret, token)
	if err != nil {
		return nil, ErrInvalidSession
	}
	id, err := uuid.Parse(c.Id)
	if err != nil {
		return nil, ErrInvalidSession
	}
	sess, found, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if !found || !sess.Active(s.opts.Now()) || c.Subject != strconv.FormatInt(sess.UserID, 10) {
		return nil, ErrInvalidSession
	}
	return &authctx.Principal{UserID: sess.UserID, Role: sess.Role, SessionID: sess.ID}, nil
}
