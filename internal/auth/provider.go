// Package auth supplies the access token every API request is signed with.
package auth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:generate mockgen -source=provider.go -destination=../mocks/auth/mock_provider.go -package=mock_auth

// ErrNoSession means no signed-in session is available. Requests fail fast
// with it and are never retried.
var ErrNoSession = errors.New("no session found")

// expiryLeeway refreshes a session slightly before the provider rejects it.
const expiryLeeway = 30 * time.Second

type Session struct {
	AccessToken  string    `toml:"access_token"`
	RefreshToken string    `toml:"refresh_token,omitempty"`
	ExpiresAt    time.Time `toml:"expires_at"`
	Email        string    `toml:"email,omitempty"`
}

func (s Session) Expired(now time.Time) bool {
	if s.ExpiresAt.IsZero() {
		return false
	}
	return !now.Before(s.ExpiresAt.Add(-expiryLeeway))
}

// SessionProvider returns the current session, or nil when signed out.
type SessionProvider interface {
	CurrentSession(ctx context.Context) (*Session, error)
}

// Refresher exchanges a refresh token for a new session.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (*Session, error)
}

// StaticProvider serves a fixed access token, typically from the environment.
type StaticProvider struct {
	token string
}

func NewStaticProvider(token string) StaticProvider {
	return StaticProvider{token: token}
}

func (p StaticProvider) CurrentSession(ctx context.Context) (*Session, error) {
	if p.token == "" {
		return nil, nil
	}
	return &Session{AccessToken: p.token}, nil
}

// FileProvider reads the session written by `notesync login` and refreshes it
// once it expires.
type FileProvider struct {
	path      string
	refresher Refresher
	now       func() time.Time

	mu sync.Mutex
}

func NewFileProvider(path string, refresher Refresher) *FileProvider {
	return &FileProvider{
		path:      path,
		refresher: refresher,
		now:       time.Now,
	}
}

func (p *FileProvider) Path() string {
	return p.path
}

func (p *FileProvider) CurrentSession(ctx context.Context) (*Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	session, err := p.load()
	if err != nil || session == nil {
		return nil, err
	}
	if !session.Expired(p.now()) {
		return session, nil
	}
	if p.refresher == nil || session.RefreshToken == "" {
		return nil, nil
	}

	refreshed, err := p.refresher.Refresh(ctx, session.RefreshToken)
	if err != nil {
		return nil, fmt.Errorf("%w: refresher.Refresh > %w", ErrNoSession, err)
	}
	if refreshed.Email == "" {
		refreshed.Email = session.Email
	}
	if err := p.save(refreshed); err != nil {
		return nil, err
	}
	return refreshed, nil
}

// Save stores session, replacing any previous one.
func (p *FileProvider) Save(session *Session) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.save(session)
}

// Remove signs out locally. A missing file is not an error.
func (p *FileProvider) Remove() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := os.Remove(p.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("os.Remove(%s) > %w", p.path, err)
	}
	return nil
}

func (p *FileProvider) load() (*Session, error) {
	content, err := os.ReadFile(p.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("os.ReadFile(%s) > %w", p.path, err)
	}

	var session Session
	if err := toml.Unmarshal(content, &session); err != nil {
		return nil, fmt.Errorf("toml.Unmarshal(%s) > %w", p.path, err)
	}
	if session.AccessToken == "" {
		return nil, nil
	}
	return &session, nil
}

func (p *FileProvider) save(session *Session) error {
	content, err := toml.Marshal(session)
	if err != nil {
		return fmt.Errorf("toml.Marshal > %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(p.path), 0700); err != nil {
		return fmt.Errorf("os.MkdirAll(%s) > %w", filepath.Dir(p.path), err)
	}
	if err := os.WriteFile(p.path, content, 0600); err != nil {
		return fmt.Errorf("os.WriteFile(%s) > %w", p.path, err)
	}
	return nil
}

// AccessToken resolves the bearer token for one request.
func AccessToken(ctx context.Context, provider SessionProvider) (string, error) {
	session, err := provider.CurrentSession(ctx)
	if err != nil {
		return "", fmt.Errorf("provider.CurrentSession > %w", err)
	}
	if session == nil || session.AccessToken == "" {
		return "", ErrNoSession
	}
	return session.AccessToken, nil
}
