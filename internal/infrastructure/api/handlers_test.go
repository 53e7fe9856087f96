package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"channelsync-core/internal/application"
	"channelsync-core/internal/domain"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStoreRepo struct {
	stores map[string]*domain.Store
}

func (r *memStoreRepo) Create(ctx context.Context, store *domain.Store) error {
	r.stores[store.ID] = store
	return nil
}

func (r *memStoreRepo) GetByID(ctx context.Context, id string) (*domain.Store, error) {
	store, ok := r.stores[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return store, nil
}

func (r *memStoreRepo) ListByUser(ctx context.Context, userID string) ([]*domain.Store, error) {
	var out []*domain.Store
	for _, s := range r.stores {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *memStoreRepo) Update(ctx context.Context, store *domain.Store) error {
	r.stores[store.ID] = store
	return nil
}

func (r *memStoreRepo) UpdateStatus(ctx context.Context, id string, status domain.StoreStatus) error {
	store, ok := r.stores[id]
	if !ok {
		return domain.ErrNotFound
	}
	store.Status = status
	return nil
}

func (r *memStoreRepo) Delete(ctx context.Context, id string) error {
	delete(r.stores, id)
	return nil
}

type memSyncLogRepo struct{ logs []domain.SyncLog }

func (r *memSyncLogRepo) Create(ctx context.Context, log *domain.SyncLog) error {
	r.logs = append(r.logs, *log)
	return nil
}

func (r *memSyncLogRepo) ListByUser(ctx context.Context, userID string, limit int) ([]domain.SyncLog, error) {
	return r.logs, nil
}

type memProductRepo struct{ products []domain.Product }

func (r *memProductRepo) UpsertBatch(ctx context.Context, batch []domain.Product) (int, error) {
	r.products = append(r.products, batch...)
	return len(batch), nil
}

func (r *memProductRepo) ListByUser(ctx context.Context, userID string, limit int) ([]domain.Product, error) {
	return r.products, nil
}

type memOrderRepo struct{}

func (r *memOrderRepo) UpsertBatch(ctx context.Context, batch []domain.Order) (int, error) {
	return len(batch), nil
}

func (r *memOrderRepo) ListByUser(ctx context.Context, userID string, limit int) ([]domain.Order, error) {
	return nil, nil
}

type noEncryption struct{}

func (noEncryption) Encrypt(plaintext string) (string, error)  { return plaintext, nil }
func (noEncryption) Decrypt(ciphertext string) (string, error) { return ciphertext, nil }

type okValidator struct{}

func (okValidator) Validate(ctx context.Context, store *domain.Store, creds domain.Credentials) error {
	return nil
}

type stubRunner struct{ synced int }

func (r *stubRunner) Run(ctx context.Context, store *domain.Store, creds domain.Credentials) (int, error) {
	return r.synced, nil
}

func newTestServer(t *testing.T, stores ...*domain.Store) *httptest.Server {
	t.Helper()

	storeRepo := &memStoreRepo{stores: map[string]*domain.Store{}}
	for _, s := range stores {
		storeRepo.stores[s.ID] = s
	}

	storeService := application.NewStoreService(storeRepo, noEncryption{}, okValidator{}, zerolog.Nop())
	syncService := application.NewSyncService(storeRepo, &memSyncLogRepo{}, noEncryption{}, nil, nil, zerolog.Nop())
	syncService.Register(domain.PlatformMirakl, domain.SyncTypeProducts, &stubRunner{synced: 9})

	handler := NewHandler(storeService, syncService, &memSyncLogRepo{}, &memProductRepo{}, &memOrderRepo{}, zerolog.Nop())

	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(UserContextMiddleware(zerolog.Nop()))
		r.Mount("/api/v1", handler.Routes())
	})

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	return server
}

func doRequest(t *testing.T, method, url, userID string, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func apiStore() *domain.Store {
	return &domain.Store{
		ID:                   "store-1",
		UserID:               "user-1",
		Platform:             domain.PlatformMirakl,
		Domain:               "https://marketplace.example.com",
		EncryptedCredentials: `{"api_key":"mk-key"}`,
		Status:               domain.StoreStatusActive,
	}
}

func TestAPIRejectsRequestsWithoutUser(t *testing.T) {
	server := newTestServer(t)

	resp := doRequest(t, http.MethodGet, server.URL+"/api/v1/stores", "", "")

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestConnectStoreEndpoint(t *testing.T) {
	server := newTestServer(t)

	resp := doRequest(t, http.MethodPost, server.URL+"/api/v1/stores", "user-1",
		`{"name":"Shop","platform":"shopify","domain":"my-shop","credentials":{"access_token":"tok"}}`)

	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var store domain.Store
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&store))
	assert.NotEmpty(t, store.ID)
	assert.Equal(t, "user-1", store.UserID)
	assert.Equal(t, domain.StoreStatusPending, store.Status)
}

func TestConnectStoreRejectsBadBody(t *testing.T) {
	server := newTestServer(t)

	resp := doRequest(t, http.MethodPost, server.URL+"/api/v1/stores", "user-1", `{broken`)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetStoreOwnership(t *testing.T) {
	server := newTestServer(t, apiStore())

	resp := doRequest(t, http.MethodGet, server.URL+"/api/v1/stores/store-1", "user-1", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doRequest(t, http.MethodGet, server.URL+"/api/v1/stores/store-1", "intruder", "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = doRequest(t, http.MethodGet, server.URL+"/api/v1/stores/missing", "user-1", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSyncEndpointValidatesType(t *testing.T) {
	server := newTestServer(t, apiStore())

	resp := doRequest(t, http.MethodPost, server.URL+"/api/v1/stores/store-1/sync?type=everything", "user-1", "")

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSyncEndpointReturnsResult(t *testing.T) {
	server := newTestServer(t, apiStore())

	resp := doRequest(t, http.MethodPost, server.URL+"/api/v1/stores/store-1/sync?type=products", "user-1", "")

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var result domain.SyncResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, domain.SyncStatusSuccess, result.Status)
	assert.Equal(t, 9, result.SyncedItems)
}

func TestSyncEndpointNotImplementedKind(t *testing.T) {
	server := newTestServer(t, apiStore())

	resp := doRequest(t, http.MethodPost, server.URL+"/api/v1/stores/store-1/sync?type=inventory", "user-1", "")

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var result domain.SyncResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, domain.SyncStatusNotImplemented, result.Status)
}

func TestDeleteStoreEndpoint(t *testing.T) {
	server := newTestServer(t, apiStore())

	resp := doRequest(t, http.MethodDelete, server.URL+"/api/v1/stores/store-1", "user-1", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doRequest(t, http.MethodGet, server.URL+"/api/v1/stores/store-1", "user-1", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListEndpointsReturnEmptyArrays(t *testing.T) {
	server := newTestServer(t)

	for _, path := range []string{"/api/v1/stores", "/api/v1/products", "/api/v1/orders", "/api/v1/sync-logs"} {
		resp := doRequest(t, http.MethodGet, server.URL+path, "user-1", "")
		require.Equal(t, http.StatusOK, resp.StatusCode, path)

		body := json.NewDecoder(resp.Body)
		var items []json.RawMessage
		require.NoError(t, body.Decode(&items), path)
		assert.Empty(t, items, path)
	}
}
