package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	appbilling "github.com/backoffice/backend/internal/application/billing"
)

type guardEntry struct {
	expiresAt time.Time
}

// InMemoryProvisioningGuard implements the provisioning guard with a local
// map. This is suitable for single-instance deployments and testing.
type InMemoryProvisioningGuard struct {
	mu      sync.Mutex
	entries map[uuid.UUID]guardEntry
	ttl     time.Duration
}

// NewInMemoryProvisioningGuard creates a new in-memory provisioning guard.
// The TTL bounds how long a crashed run can keep a tenant locked.
func NewInMemoryProvisioningGuard(ttl time.Duration) *InMemoryProvisioningGuard {
	return &InMemoryProvisioningGuard{
		entries: make(map[uuid.UUID]guardEntry),
		ttl:     ttl,
	}
}

// Acquire attempts to take the per-tenant lock.
// Returns true if this caller now holds the lock.
func (g *InMemoryProvisioningGuard) Acquire(_ context.Context, tenantID uuid.UUID) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if e, exists := g.entries[tenantID]; exists && time.Now().Before(e.expiresAt) {
		return false, nil
	}

	g.entries[tenantID] = guardEntry{expiresAt: time.Now().Add(g.ttl)}
	return true, nil
}

// Release frees the per-tenant lock
func (g *InMemoryProvisioningGuard) Release(_ context.Context, tenantID uuid.UUID) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.entries, tenantID)
	return nil
}

// Size returns the number of held locks (for testing/monitoring)
func (g *InMemoryProvisioningGuard) Size() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.entries)
}

var _ appbilling.ProvisioningGuard = (*InMemoryProvisioningGuard)(nil)
