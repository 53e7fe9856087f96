package ports

import (
	"context"
	"encoding/json"

	"channelsync-core/internal/domain"
)

// SyncAdapter is the small per-(platform, entity-kind) surface the generic
// orchestrator is parameterized by. One adapter instance serves one sync run
// against one store and may keep cursor state between page fetches.
type SyncAdapter[E any] interface {
	// Platform names the channel this adapter talks to.
	Platform() domain.Platform
	// Kind names the sync type this adapter feeds.
	Kind() domain.SyncType
	// Count returns the total number of records available upstream.
	Count(ctx context.Context) (int, error)
	// FetchPage returns at most max raw records starting at offset. A page
	// shorter than max signals the end of the dataset.
	FetchPage(ctx context.Context, offset, max int) ([]json.RawMessage, error)
	// Parse maps one raw record to a normalized entity. It performs no I/O
	// and never fails: absent fields yield best-effort empty defaults.
	Parse(raw json.RawMessage) E
	// Key extracts the primary uniqueness key used for deduplication.
	Key(e E) string
	// ExtraKeys returns additional key extractors applied as further dedup
	// passes after the primary one (e.g. product reference).
	ExtraKeys() []func(E) string
}

// BatchWriter persists one deduplicated batch with insert-or-update-on-conflict
// semantics and reports how many rows were written.
type BatchWriter[E any] interface {
	UpsertBatch(ctx context.Context, batch []E) (int, error)
}

// SyncRunner runs one full sync of a store and returns the number of synced
// items. It is the type-erased face of the generic orchestrator, letting the
// dispatcher hold pipelines for heterogeneous entity kinds in one registry.
type SyncRunner interface {
	Run(ctx context.Context, store *domain.Store, creds domain.Credentials) (int, error)
}
