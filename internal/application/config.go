package application

import "time"

// SyncConfig carries every timing and sizing constant of the sync pipeline.
// Production uses DefaultSyncConfig; tests inject near-zero delays.
type SyncConfig struct {
	// PageSize is the number of records requested per page fetch.
	PageSize int
	// PagesPerChunk caps how many pages one paginator invocation walks. A
	// chunk is therefore at most PageSize*PagesPerChunk records.
	PagesPerChunk int
	// PageDelay is slept between successive page fetches within a chunk.
	PageDelay time.Duration
	// ChunkDelay is slept between chunks of a multi-chunk sync. It is the
	// longer inter-chunk throttle, distinct from PageDelay.
	ChunkDelay time.Duration
}

// DefaultSyncConfig returns the production pipeline constants: 100-record
// pages, 9 pages (900 records) per chunk, 1s between pages, 60s between
// chunks.
func DefaultSyncConfig() SyncConfig {
	return SyncConfig{
		PageSize:      100,
		PagesPerChunk: 9,
		PageDelay:     time.Second,
		ChunkDelay:    60 * time.Second,
	}
}

// ChunkSize is the maximum number of records one chunk covers.
func (c SyncConfig) ChunkSize() int {
	return c.PageSize * c.PagesPerChunk
}
