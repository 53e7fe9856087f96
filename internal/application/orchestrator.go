package application

import (
	"context"
	"fmt"

	"channelsync-core/internal/domain"
	"channelsync-core/internal/ports"

	"github.com/rs/zerolog"
)

// AdapterFactory builds a fresh adapter for one sync run of one store.
// Adapters may be stateful (cursor tracking), so they are never reused across
// runs.
type AdapterFactory[E any] func(store *domain.Store, creds domain.Credentials) ports.SyncAdapter[E]

// Orchestrator drives one full sync as a sequence of bounded chunks:
// count the upstream dataset, then for each chunk paginate, parse,
// deduplicate and upsert, sleeping between chunks to respect external rate
// limits. Each chunk's upsert is its own atomic unit: records committed by
// earlier chunks stay committed when a later chunk fails.
type Orchestrator[E any] struct {
	newAdapter AdapterFactory[E]
	writer     ports.BatchWriter[E]
	syncLogs   ports.SyncLogRepository
	cfg        SyncConfig
	logger     zerolog.Logger
	metrics    ports.MetricsRecorder
}

// NewOrchestrator creates an orchestrator for one (platform, entity-kind)
// pipeline.
func NewOrchestrator[E any](
	newAdapter AdapterFactory[E],
	writer ports.BatchWriter[E],
	syncLogs ports.SyncLogRepository,
	cfg SyncConfig,
	logger zerolog.Logger,
	metrics ports.MetricsRecorder,
) *Orchestrator[E] {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &Orchestrator[E]{
		newAdapter: newAdapter,
		writer:     writer,
		syncLogs:   syncLogs,
		cfg:        cfg,
		logger:     logger,
		metrics:    metrics,
	}
}

// Run syncs the full upstream dataset for store and returns the number of
// items written. On error the count of items committed by completed chunks is
// still returned.
func (o *Orchestrator[E]) Run(ctx context.Context, store *domain.Store, creds domain.Credentials) (int, error) {
	adapter := o.newAdapter(store, creds)

	total, err := adapter.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	if total == 0 {
		o.logger.Info().
			Str("store", store.ID).
			Str("platform", string(adapter.Platform())).
			Str("kind", string(adapter.Kind())).
			Msg("Nothing to sync")
		return 0, nil
	}

	chunkSize := o.cfg.ChunkSize()
	synced := 0

	for offset := 0; offset < total; offset += chunkSize {
		n, err := o.runChunk(ctx, adapter, offset)
		if err != nil {
			return synced, err
		}
		synced += n

		lastChunk := offset+chunkSize >= total
		if lastChunk {
			break
		}

		// Long-running sync: record progress so the audit trail shows
		// per-batch state, then throttle before the next chunk.
		if err := o.syncLogs.Create(ctx, &domain.SyncLog{
			UserID:  store.UserID,
			StoreID: store.ID,
			Type:    adapter.Kind(),
			Status:  domain.SyncLogStatusPartial,
			Detail:  fmt.Sprintf("chunk at offset %d: %d items synced (%d/%d total)", offset, n, synced, total),
		}); err != nil {
			o.logger.Error().Err(err).Str("store", store.ID).Msg("Failed to write chunk sync log")
		}

		o.logger.Info().
			Str("store", store.ID).
			Int("offset", offset).
			Int("synced", synced).
			Int("total", total).
			Dur("delay", o.cfg.ChunkDelay).
			Msg("Chunk complete, waiting before next chunk")
		if err := sleep(ctx, o.cfg.ChunkDelay); err != nil {
			return synced, err
		}
	}

	return synced, nil
}

func (o *Orchestrator[E]) runChunk(ctx context.Context, adapter ports.SyncAdapter[E], offset int) (int, error) {
	records, err := Paginate(ctx, adapter.FetchPage, offset, o.cfg, o.logger)
	if err != nil {
		return 0, err
	}
	o.metrics.RecordsFetched(string(adapter.Platform()), len(records))

	entities := make([]E, 0, len(records))
	for _, raw := range records {
		entities = append(entities, adapter.Parse(raw))
	}

	entities = Dedupe(entities, adapter.Key, o.logger)
	for _, extra := range adapter.ExtraKeys() {
		entities = Dedupe(entities, extra, o.logger)
	}

	return o.writer.UpsertBatch(ctx, entities)
}
