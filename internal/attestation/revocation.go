package attestation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"jobgate/pkg/platform/sentinel"
)

// RevocationList records revoked attestation IDs (JWT jti) until they
// would have expired anyway.
type RevocationList interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	RevokeMany(ctx context.Context, jtis []string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// Clock is injectable for tests.
type Clock func() time.Time

func validateTTL(ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("ttl must be positive: %w", sentinel.ErrInvalidState)
	}
	return nil
}

func nonEmpty(jtis []string) []string {
	out := make([]string, 0, len(jtis))
	for _, jti := range jtis {
		if jti != "" {
			out = append(out, jti)
		}
	}
	return out
}

// MemoryRevocations is the single-process list.
type MemoryRevocations struct {
	mu      sync.RWMutex
	entries map[string]time.Time
	clock   Clock
}

func NewMemoryRevocations(clock Clock) *MemoryRevocations {
	if clock == nil {
		clock = time.Now
	}
	return &MemoryRevocations{entries: make(map[string]time.Time), clock: clock}
}

func (m *MemoryRevocations) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	return m.RevokeMany(ctx, []string{jti}, ttl)
}

func (m *MemoryRevocations) RevokeMany(_ context.Context, jtis []string, ttl time.Duration) error {
	if err := validateTTL(ttl); err != nil {
		return err
	}
	expires := m.clock().Add(ttl)
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, jti := range nonEmpty(jtis) {
		m.entries[jti] = expires
	}
	return nil
}

func (m *MemoryRevocations) IsRevoked(_ context.Context, jti string) (bool, error) {
	m.mu.RLock()
	expires, ok := m.entries[jti]
	m.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if m.clock().After(expires) {
		m.mu.Lock()
		delete(m.entries, jti)
		m.mu.Unlock()
		return false, nil
	}
	return true, nil
}
