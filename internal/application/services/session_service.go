package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/taskboard/core/internal/domain/entities"
	"github.com/taskboard/core/internal/infrastructure/config"
	"github.com/taskboard/core/internal/infrastructure/logger"
	"github.com/taskboard/core/internal/ports"
)

// ErrInvalidSession is returned for malformed or expired session tokens.
var ErrInvalidSession = errors.New("invalid or expired session")

const refreshInterval = time.Second

// SessionService manages per-identity hierarchy stores. A store is
// built at login by loading the user's snapshot and discarded at
// logout; only one store per identity exists at a time. There are no
// passwords or roles: the session token carries nothing but the
// username.
type SessionService struct {
	mu         sync.Mutex
	stores     map[string]*HierarchyService
	refreshers map[string]*Refresher

	snapshots ports.SnapshotStore
	cfg       config.SessionConfig
	logger    *logger.Logger
}

// NewSessionService creates a new session service
func NewSessionService(snapshots ports.SnapshotStore, cfg config.SessionConfig, appLogger *logger.Logger) *SessionService {
	return &SessionService{
		stores:     make(map[string]*HierarchyService),
		refreshers: make(map[string]*Refresher),
		snapshots:  snapshots,
		cfg:        cfg,
		logger:     appLogger,
	}
}

// Login binds a hierarchy store to the given username and returns a
// session token for it. The username is an opaque identity; its format
// is never validated beyond being non-empty.
func (s *SessionService) Login(ctx context.Context, username string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return "", fmt.Errorf("username: %w", entities.ErrValidation)
	}

	if _, err := s.ensureStore(ctx, username); err != nil {
		return "", err
	}

	token, err := s.mintToken(username)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}

	s.logger.Info("User logged in", "user_id", username)

	return token, nil
}

// Logout stops the user's refresh tick and discards the store. The
// snapshot stays in the snapshot store for the next login.
func (s *SessionService) Logout(username string) {
	s.mu.Lock()
	refresher := s.refreshers[username]
	delete(s.refreshers, username)
	delete(s.stores, username)
	s.mu.Unlock()

	if refresher != nil {
		refresher.Stop()
	}

	s.logger.Info("User logged out", "user_id", username)
}

// Authenticate resolves a session token back to its username.
func (s *SessionService) Authenticate(token string) (string, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.cfg.Secret), nil
	})
	if err != nil || !parsed.Valid {
		return "", ErrInvalidSession
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidSession
	}
	username, ok := claims["sub"].(string)
	if !ok || username == "" {
		return "", ErrInvalidSession
	}

	return username, nil
}

// Store returns the hierarchy store for an authenticated username,
// rebuilding it from the snapshot when the process restarted since the
// token was issued.
func (s *SessionService) Store(ctx context.Context, username string) (*HierarchyService, error) {
	return s.ensureStore(ctx, username)
}

// Close stops all refresh ticks. Used at server shutdown.
func (s *SessionService) Close() {
	s.mu.Lock()
	refreshers := make([]*Refresher, 0, len(s.refreshers))
	for user, r := range s.refreshers {
		refreshers = append(refreshers, r)
		delete(s.refreshers, user)
		delete(s.stores, user)
	}
	s.mu.Unlock()

	for _, r := range refreshers {
		r.Stop()
	}
}

func (s *SessionService) ensureStore(ctx context.Context, username string) (*HierarchyService, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if store, ok := s.stores[username]; ok {
		return store, nil
	}

	store, err := NewHierarchyService(ctx, username, s.snapshots, s.logger)
	if err != nil {
		return nil, err
	}

	s.stores[username] = store
	s.refreshers[username] = NewRefresher(refreshInterval, store.Refresh)

	return store, nil
}

func (s *SessionService) mintToken(username string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": username,
		"jti": uuid.NewString(),
		"iss": s.cfg.Issuer,
		"iat": now.Unix(),
		"exp": now.Add(s.cfg.ExpiresIn).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.Secret))
}
