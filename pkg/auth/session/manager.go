// Package session tracks which access tokens hold a live refresh session in
// redis. The refresh token is an opaque random value stored under the access
// token's jti; rotation swaps both in one step.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
)

// ErrInvalidRefreshToken is returned when the presented refresh token does not
// match the stored one, or the session no longer exists.
var ErrInvalidRefreshToken = errors.New("invalid refresh token")

// NewAccessID mints a fresh access token id (jti).
func NewAccessID() string {
	return uuid.NewString()
}

// Store is the subset of the redis client the manager needs.
type Store interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

// Keyer builds namespaced session keys.
type Keyer interface {
	AccessSessionKey(accessID string) string
}

// Manager issues, rotates and revokes refresh sessions.
type Manager struct {
	store Store
	keyer Keyer
	ttl   time.Duration
}

// StoreKeyer combines the store and key-building sides of the redis client.
type StoreKeyer interface {
	Store
	Keyer
}

func NewManager(client StoreKeyer, ttl time.Duration) (*Manager, error) {
	if client == nil {
		return nil, fmt.Errorf("session manager requires a redis client")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("session manager requires a positive ttl")
	}
	return &Manager{store: client, keyer: client, ttl: ttl}, nil
}

// Generate mints a refresh token for the access token id and stores it.
func (m *Manager) Generate(ctx context.Context, accessID string) (string, error) {
	token, err := newRefreshToken()
	if err != nil {
		return "", err
	}
	key := m.keyer.AccessSessionKey(accessID)
	if err := m.store.Set(ctx, key, token, m.ttl); err != nil {
		return "", fmt.Errorf("store refresh session: %w", err)
	}
	return token, nil
}

// Rotate validates the refresh token against the stored session, then replaces
// the session under a fresh access id. The old session is removed so a stolen
// refresh token cannot be replayed.
func (m *Manager) Rotate(ctx context.Context, accessID, refreshToken string) (string, string, error) {
	key := m.keyer.AccessSessionKey(accessID)
	stored, err := m.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return "", "", ErrInvalidRefreshToken
		}
		return "", "", fmt.Errorf("load refresh session: %w", err)
	}
	if stored != refreshToken {
		return "", "", ErrInvalidRefreshToken
	}

	newAccessID := NewAccessID()
	newToken, err := newRefreshToken()
	if err != nil {
		return "", "", err
	}
	if err := m.store.Set(ctx, m.keyer.AccessSessionKey(newAccessID), newToken, m.ttl); err != nil {
		return "", "", fmt.Errorf("store rotated session: %w", err)
	}
	if err := m.store.Del(ctx, key); err != nil {
		return "", "", fmt.Errorf("drop old session: %w", err)
	}
	return newAccessID, newToken, nil
}

// Revoke drops the session for the access token id.
func (m *Manager) Revoke(ctx context.Context, accessID string) error {
	if err := m.store.Del(ctx, m.keyer.AccessSessionKey(accessID)); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

// HasSession reports whether the access token id still has a live session.
func (m *Manager) HasSession(ctx context.Context, accessID string) (bool, error) {
	_, err := m.store.Get(ctx, m.keyer.AccessSessionKey(accessID))
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("check session: %w", err)
	}
	return true, nil
}

func newRefreshToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate refresh token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
