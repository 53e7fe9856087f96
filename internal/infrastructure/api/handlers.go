// Package api exposes the REST surface of the sync platform.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"channelsync-core/internal/application"
	"channelsync-core/internal/domain"
	"channelsync-core/internal/ports"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handler bundles the REST endpoints over the application services.
type Handler struct {
	stores   *application.StoreService
	sync     *application.SyncService
	syncLogs ports.SyncLogRepository
	products ports.ProductRepository
	orders   ports.OrderRepository
	logger   zerolog.Logger
}

// NewHandler creates the REST handler.
func NewHandler(
	stores *application.StoreService,
	sync *application.SyncService,
	syncLogs ports.SyncLogRepository,
	products ports.ProductRepository,
	orders ports.OrderRepository,
	logger zerolog.Logger,
) *Handler {
	return &Handler{
		stores:   stores,
		sync:     sync,
		syncLogs: syncLogs,
		products: products,
		orders:   orders,
		logger:   logger,
	}
}

// Routes returns the authenticated API router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Route("/stores", func(r chi.Router) {
		r.Post("/", h.connectStore)
		r.Get("/", h.listStores)
		r.Get("/{id}", h.getStore)
		r.Post("/{id}/validate", h.validateStore)
		r.Delete("/{id}", h.deleteStore)
		r.Post("/{id}/sync", h.syncStore)
	})
	r.Get("/sync-logs", h.listSyncLogs)
	r.Get("/products", h.listProducts)
	r.Get("/orders", h.listOrders)
	return r
}

func (h *Handler) connectStore(w http.ResponseWriter, r *http.Request) {
	var input application.ConnectStoreInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	store, err := h.stores.Connect(r.Context(), input)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, store)
}

func (h *Handler) listStores(w http.ResponseWriter, r *http.Request) {
	stores, err := h.stores.List(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	if stores == nil {
		stores = []*domain.Store{}
	}
	writeJSON(w, http.StatusOK, stores)
}

func (h *Handler) getStore(w http.ResponseWriter, r *http.Request) {
	store, err := h.stores.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, store)
}

func (h *Handler) validateStore(w http.ResponseWriter, r *http.Request) {
	store, err := h.stores.Validate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, store)
}

func (h *Handler) deleteStore(w http.ResponseWriter, r *http.Request) {
	if err := h.stores.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) syncStore(w http.ResponseWriter, r *http.Request) {
	kind := domain.SyncType(r.URL.Query().Get("type"))
	if !domain.ValidSyncType(kind) {
		writeError(w, http.StatusBadRequest, "type must be one of products, orders, inventory")
		return
	}
	result := h.sync.Sync(r.Context(), chi.URLParam(r, "id"), kind)
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) listSyncLogs(w http.ResponseWriter, r *http.Request) {
	logs, err := h.syncLogs.ListByUser(r.Context(), domain.GetUserIDFromContext(r.Context()), queryLimit(r))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	if logs == nil {
		logs = []domain.SyncLog{}
	}
	writeJSON(w, http.StatusOK, logs)
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.ListByUser(r.Context(), domain.GetUserIDFromContext(r.Context()), queryLimit(r))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	if products == nil {
		products = []domain.Product{}
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListByUser(r.Context(), domain.GetUserIDFromContext(r.Context()), queryLimit(r))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden")
	default:
		h.logger.Error().Err(err).Msg("Request failed")
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func queryLimit(r *http.Request) int {
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return 100
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
