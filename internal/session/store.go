// Package session owns the console's authentication state: the bearer token,
// the principal's role and profile, and their durable copies.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/naveenspark/rxadmin/internal/notify"
	"github.com/naveenspark/rxadmin/internal/storage"
	"github.com/naveenspark/rxadmin/pkg/client"
	"github.com/naveenspark/rxadmin/pkg/domain"
)

// Durable storage keys.
const (
	KeyToken    = "adminToken"
	KeyRole     = "adminRole"
	KeyUserData = "adminUserData"
)

// Query parameters read from launch URLs.
const (
	ParamToken       = "token"
	ParamDoctorToken = "doctorToken"
	ParamDoctorEmail = "doctorEmail"
)

const loggedOutMessage = "Logged out successfully!"

var (
	// ErrAccessDenied is returned when the backend authenticates a principal
	// whose role may not use this console.
	ErrAccessDenied = errors.New("Access denied. Only doctors can access this panel.")

	// ErrMissingCredentials is returned by Login before any request is made.
	ErrMissingCredentials = errors.New("Email and password are required")
)

// API is the part of the backend client the session needs.
type API interface {
	Login(ctx context.Context, email, password string) (*client.LoginResponse, error)
	VerifyToken(ctx context.Context, token, email string) (*domain.UserData, error)
}

// Result is the outcome of a login attempt.
type Result struct {
	OK      bool
	Message string
	Err     error
}

// Store holds the current session. It is safe for concurrent use.
type Store struct {
	api   API
	kv    storage.Store
	note  notify.Notifier
	log   *logrus.Entry
	clock func() time.Time

	mu       sync.RWMutex
	session  domain.Session
	onLogout []func()
}

// New returns an empty (unauthenticated) store. Call Restore to load the
// durable session.
func New(api API, kv storage.Store, note notify.Notifier, log *logrus.Entry) *Store {
	return &Store{api: api, kv: kv, note: note, log: log, clock: time.Now}
}

// OnLogout registers fn to run during Logout, before the durable keys are
// removed. The data cache uses it to drop its collections.
func (s *Store) OnLogout(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onLogout = append(s.onLogout, fn)
}

// Login authenticates with email and password. Only doctors are admitted.
func (s *Store) Login(ctx context.Context, email, password string) Result {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return s.fail(ErrMissingCredentials)
	}

	resp, err := s.api.Login(ctx, email, password)
	if err != nil {
		s.log.WithError(err).Warn("login failed")
		return s.fail(err)
	}
	if resp.UserData.Role != domain.RoleDoctor {
		s.log.WithField("role", resp.UserData.Role).Warn("login rejected")
		return s.fail(ErrAccessDenied)
	}

	profile := resp.UserData
	if err := s.establish(resp.Token, domain.RoleDoctor, &profile); err != nil {
		return s.fail(err)
	}
	msg := "Login successful!"
	if profile.Name != "" {
		msg = fmt.Sprintf("Welcome, %s!", profile.Name)
	}
	s.note.Notify(notify.LevelSuccess, msg)
	s.log.WithField("role", domain.RoleDoctor).Info("logged in")
	return Result{OK: true, Message: msg}
}

func (s *Store) fail(err error) Result {
	msg := client.Message(err)
	s.note.Notify(notify.LevelError, msg)
	return Result{Message: msg, Err: err}
}

// CaptureTokenFromURL persists the token carried in raw's query string, if
// any, and returns raw with the token parameter removed.
func (s *Store) CaptureTokenFromURL(raw string) (string, bool) {
	u, err := url.Parse(raw)
	if err != nil {
		return raw, false
	}
	q := u.Query()
	token := q.Get(ParamToken)
	if token == "" {
		return raw, false
	}
	q.Del(ParamToken)
	u.RawQuery = q.Encode()

	role := RoleFromToken(token)
	if err := s.establish(token, role, nil); err != nil {
		s.note.Notify(notify.LevelError, client.Message(err))
		return u.String(), false
	}
	s.log.WithField("role", role).Info("token captured from url")
	return u.String(), true
}

// VerifyDoctorLink handles the main site's hand-off link, which carries a
// doctor token and email. The pair is checked against the backend and, when
// it belongs to a doctor, becomes the session. The returned URL has both
// parameters removed either way.
func (s *Store) VerifyDoctorLink(ctx context.Context, raw string) (string, bool) {
	u, err := url.Parse(raw)
	if err != nil {
		return raw, false
	}
	q := u.Query()
	token, email := q.Get(ParamDoctorToken), q.Get(ParamDoctorEmail)
	if token == "" || email == "" {
		return raw, false
	}
	q.Del(ParamDoctorToken)
	q.Del(ParamDoctorEmail)
	u.RawQuery = q.Encode()
	clean := u.String()

	profile, err := s.api.VerifyToken(ctx, token, email)
	if err != nil {
		s.log.WithError(err).Warn("doctor link rejected")
		s.note.Notify(notify.LevelError, client.Message(err))
		return clean, false
	}
	if profile.Role != domain.RoleDoctor {
		s.note.Notify(notify.LevelError, ErrAccessDenied.Error())
		return clean, false
	}
	if err := s.establish(token, domain.RoleDoctor, profile); err != nil {
		s.note.Notify(notify.LevelError, client.Message(err))
		return clean, false
	}
	s.note.Notify(notify.LevelSuccess, "Doctor verified")
	return clean, true
}

// Restore reloads the session from durable storage without contacting the
// backend. It reports whether a session is now active.
func (s *Store) Restore() bool {
	token, ok := s.kv.Get(KeyToken)
	if !ok || token == "" {
		return false
	}
	var role domain.Role
	if v, ok := s.kv.Get(KeyRole); ok && domain.Role(v).Valid() {
		role = domain.Role(v)
	} else {
		role = RoleFromToken(token)
	}

	var profile *domain.UserData
	if v, ok := s.kv.Get(KeyUserData); ok && v != "" {
		var p domain.UserData
		if err := json.Unmarshal([]byte(v), &p); err != nil {
			s.log.WithError(err).Warn("discarding unreadable profile")
		} else {
			profile = &p
		}
	}

	s.mu.Lock()
	s.session = domain.Session{Token: token, Role: role, Profile: profile}
	s.mu.Unlock()
	s.log.WithField("role", role).Info("session restored")
	return true
}

// UseToken installs token as the session without persisting it. It backs the
// RXADMIN_TOKEN override.
func (s *Store) UseToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = domain.Session{Token: token, Role: RoleFromToken(token)}
}

// Logout drops the session and every dependent collection.
func (s *Store) Logout() {
	s.mu.Lock()
	s.session = domain.Session{}
	hooks := append([]func(){}, s.onLogout...)
	s.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}
	if err := s.kv.Remove(KeyToken, KeyRole, KeyUserData); err != nil {
		s.log.WithError(err).Error("clear stored session")
	}
	s.log.Info("logged out")
	s.note.Notify(notify.LevelSuccess, loggedOutMessage)
}

func (s *Store) establish(token string, role domain.Role, profile *domain.UserData) error {
	if err := s.kv.Set(KeyToken, token); err != nil {
		return fmt.Errorf("session.establish: %w", err)
	}
	if role != "" {
		if err := s.kv.Set(KeyRole, string(role)); err != nil {
			return fmt.Errorf("session.establish: %w", err)
		}
	} else if err := s.kv.Remove(KeyRole); err != nil {
		return fmt.Errorf("session.establish: %w", err)
	}
	if profile != nil {
		data, err := json.Marshal(profile)
		if err != nil {
			return fmt.Errorf("session.establish: %w", err)
		}
		if err := s.kv.Set(KeyUserData, string(data)); err != nil {
			return fmt.Errorf("session.establish: %w", err)
		}
	} else if err := s.kv.Remove(KeyUserData); err != nil {
		return fmt.Errorf("session.establish: %w", err)
	}

	s.mu.Lock()
	s.session = domain.Session{Token: token, Role: role, Profile: profile}
	s.mu.Unlock()
	return nil
}

// Token returns the bearer token, or "" when logged out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Token
}

// Role returns the principal's role. It is empty when logged out or when the
// token carries no recognizable role.
func (s *Store) Role() domain.Role {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session.Token == "" {
		return ""
	}
	return s.session.Role
}

// Profile returns a copy of the profile snapshot, if one is known.
func (s *Store) Profile() *domain.UserData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session.Profile == nil {
		return nil
	}
	p := *s.session.Profile
	return &p
}

// Authenticated reports whether a token is held.
func (s *Store) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Authenticated()
}

// Snapshot returns a copy of the whole session.
func (s *Store) Snapshot() domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := s.session
	if out.Profile != nil {
		p := *out.Profile
		out.Profile = &p
	}
	return out
}

// ExpiresAt returns the token's exp claim, if it has one.
func (s *Store) ExpiresAt() (time.Time, bool) {
	return ExpiryFromToken(s.Token())
}

// Expired reports whether the token carries an exp claim in the past.
func (s *Store) Expired() bool {
	exp, ok := s.ExpiresAt()
	return ok && !exp.After(s.clock())
}
