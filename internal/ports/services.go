package ports

import (
	"context"
	"time"

	"channelsync-core/internal/domain"
)

// EncryptionService defines the interface for credential encryption at rest
type EncryptionService interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

// CredentialValidator checks that a store's decrypted credentials actually
// work against the platform they belong to (a lightweight ping, not a sync).
type CredentialValidator interface {
	Validate(ctx context.Context, store *domain.Store, creds domain.Credentials) error
}

// Locker guards a named resource so that at most one holder works on it at a
// time. Acquire returns false without error when the lock is already held.
type Locker interface {
	Acquire(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}

// MetricsRecorder receives sync pipeline observations. Implementations must
// be safe for concurrent use.
type MetricsRecorder interface {
	RecordsFetched(platform string, count int)
	RateLimitRetry(host string)
	SyncFinished(platform string, kind string, duration time.Duration, synced int, success bool)
}

// NopMetrics is a MetricsRecorder that discards everything.
type NopMetrics struct{}

func (NopMetrics) RecordsFetched(string, int)                            {}
func (NopMetrics) RateLimitRetry(string)                                 {}
func (NopMetrics) SyncFinished(string, string, time.Duration, int, bool) {}
