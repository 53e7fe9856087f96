package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"

	"channelsync-core/internal/domain"
	"channelsync-core/internal/ports"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAdapter serves a fixed list of raw records through the adapter
// protocol, honoring offset/max slicing the way a real channel API does.
type fakeAdapter struct {
	records []json.RawMessage
}

func newFakeAdapter(skus ...string) *fakeAdapter {
	a := &fakeAdapter{}
	for _, sku := range skus {
		a.records = append(a.records, json.RawMessage(fmt.Sprintf(`{"sku":%q}`, sku)))
	}
	return a
}

func (a *fakeAdapter) Platform() domain.Platform { return domain.PlatformMirakl }
func (a *fakeAdapter) Kind() domain.SyncType     { return domain.SyncTypeProducts }

func (a *fakeAdapter) Count(ctx context.Context) (int, error) {
	return len(a.records), nil
}

func (a *fakeAdapter) FetchPage(ctx context.Context, offset, max int) ([]json.RawMessage, error) {
	if offset >= len(a.records) {
		return nil, nil
	}
	end := offset + max
	if end > len(a.records) {
		end = len(a.records)
	}
	return a.records[offset:end], nil
}

func (a *fakeAdapter) Parse(raw json.RawMessage) domain.Product {
	var rec struct {
		SKU string `json:"sku"`
	}
	_ = json.Unmarshal(raw, &rec)
	return domain.Product{ShopSKU: rec.SKU}
}

func (a *fakeAdapter) Key(p domain.Product) string { return p.ShopSKU }

func (a *fakeAdapter) ExtraKeys() []func(domain.Product) string {
	return []func(domain.Product) string{func(p domain.Product) string { return p.Reference }}
}

// fakeWriter records every batch it receives and can fail from a given call
// on.
type fakeWriter struct {
	batches   [][]domain.Product
	failAfter int // fail calls numbered > failAfter; 0 disables
}

func (w *fakeWriter) UpsertBatch(ctx context.Context, batch []domain.Product) (int, error) {
	w.batches = append(w.batches, batch)
	if w.failAfter > 0 && len(w.batches) > w.failAfter {
		return 0, errors.New("write failed")
	}
	return len(batch), nil
}

// fakeSyncLogRepo collects audit rows in memory.
type fakeSyncLogRepo struct {
	mu   sync.Mutex
	logs []domain.SyncLog
}

func (r *fakeSyncLogRepo) Create(ctx context.Context, log *domain.SyncLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs = append(r.logs, *log)
	return nil
}

func (r *fakeSyncLogRepo) ListByUser(ctx context.Context, userID string, limit int) ([]domain.SyncLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.SyncLog(nil), r.logs...), nil
}

func (r *fakeSyncLogRepo) byStatus(status domain.SyncLogStatus) []domain.SyncLog {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.SyncLog
	for _, l := range r.logs {
		if l.Status == status {
			out = append(out, l)
		}
	}
	return out
}

func testStore() *domain.Store {
	return &domain.Store{ID: "store-1", UserID: "user-1", Platform: domain.PlatformMirakl}
}

func newTestOrchestrator(adapter ports.SyncAdapter[domain.Product], writer ports.BatchWriter[domain.Product], logs ports.SyncLogRepository) *Orchestrator[domain.Product] {
	factory := func(store *domain.Store, creds domain.Credentials) ports.SyncAdapter[domain.Product] {
		return adapter
	}
	cfg := SyncConfig{PageSize: 10, PagesPerChunk: 3}
	return NewOrchestrator(factory, writer, logs, cfg, zerolog.Nop(), nil)
}

func skus(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("sku-%03d", i)
	}
	return out
}

func TestOrchestratorSingleChunk(t *testing.T) {
	writer := &fakeWriter{}
	logs := &fakeSyncLogRepo{}
	o := newTestOrchestrator(newFakeAdapter(skus(25)...), writer, logs)

	synced, err := o.Run(context.Background(), testStore(), domain.Credentials{})

	require.NoError(t, err)
	assert.Equal(t, 25, synced)
	require.Len(t, writer.batches, 1)
	assert.Len(t, writer.batches[0], 25)
	// A single-chunk run leaves the final log row to the dispatcher.
	assert.Empty(t, logs.logs)
}

func TestOrchestratorMultiChunk(t *testing.T) {
	writer := &fakeWriter{}
	logs := &fakeSyncLogRepo{}
	o := newTestOrchestrator(newFakeAdapter(skus(70)...), writer, logs)

	synced, err := o.Run(context.Background(), testStore(), domain.Credentials{})

	require.NoError(t, err)
	assert.Equal(t, 70, synced)
	require.Len(t, writer.batches, 3)
	assert.Len(t, writer.batches[0], 30)
	assert.Len(t, writer.batches[1], 30)
	assert.Len(t, writer.batches[2], 10)

	// One partial audit row per non-final chunk.
	partials := logs.byStatus(domain.SyncLogStatusPartial)
	require.Len(t, partials, 2)
	assert.Equal(t, "user-1", partials[0].UserID)
	assert.Equal(t, "store-1", partials[0].StoreID)
	assert.Equal(t, domain.SyncTypeProducts, partials[0].Type)
}

func TestOrchestratorDeduplicatesWithinChunk(t *testing.T) {
	writer := &fakeWriter{}
	o := newTestOrchestrator(newFakeAdapter("dup", "other", "dup"), writer, &fakeSyncLogRepo{})

	synced, err := o.Run(context.Background(), testStore(), domain.Credentials{})

	require.NoError(t, err)
	assert.Equal(t, 2, synced)
	require.Len(t, writer.batches, 1)
	assert.Len(t, writer.batches[0], 2)
}

func TestOrchestratorKeepsCommittedChunksOnFailure(t *testing.T) {
	writer := &fakeWriter{failAfter: 1}
	o := newTestOrchestrator(newFakeAdapter(skus(70)...), writer, &fakeSyncLogRepo{})

	synced, err := o.Run(context.Background(), testStore(), domain.Credentials{})

	require.Error(t, err)
	// The first chunk's 30 records stay counted as committed.
	assert.Equal(t, 30, synced)
	assert.Len(t, writer.batches, 2)
}

func TestOrchestratorProductionSizesSingleChunk(t *testing.T) {
	writer := &fakeWriter{}
	factory := func(store *domain.Store, creds domain.Credentials) ports.SyncAdapter[domain.Product] {
		return newFakeAdapter(skus(250)...)
	}
	o := NewOrchestrator(factory, writer, &fakeSyncLogRepo{}, SyncConfig{PageSize: 100, PagesPerChunk: 9}, zerolog.Nop(), nil)

	synced, err := o.Run(context.Background(), testStore(), domain.Credentials{})

	require.NoError(t, err)
	assert.Equal(t, 250, synced)
	require.Len(t, writer.batches, 1)
	assert.Len(t, writer.batches[0], 250)
}

func TestOrchestratorProductionSizesTwoChunks(t *testing.T) {
	writer := &fakeWriter{}
	factory := func(store *domain.Store, creds domain.Credentials) ports.SyncAdapter[domain.Product] {
		return newFakeAdapter(skus(1500)...)
	}
	o := NewOrchestrator(factory, writer, &fakeSyncLogRepo{}, SyncConfig{PageSize: 100, PagesPerChunk: 9}, zerolog.Nop(), nil)

	synced, err := o.Run(context.Background(), testStore(), domain.Credentials{})

	require.NoError(t, err)
	assert.Equal(t, 1500, synced)
	// Chunks at offsets 0 and 900: 900 then 600 records.
	require.Len(t, writer.batches, 2)
	assert.Len(t, writer.batches[0], 900)
	assert.Len(t, writer.batches[1], 600)
}

func TestOrchestratorEmptyDataset(t *testing.T) {
	writer := &fakeWriter{}
	o := newTestOrchestrator(newFakeAdapter(), writer, &fakeSyncLogRepo{})

	synced, err := o.Run(context.Background(), testStore(), domain.Credentials{})

	require.NoError(t, err)
	assert.Zero(t, synced)
	assert.Empty(t, writer.batches)
}
