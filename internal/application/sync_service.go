package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"channelsync-core/internal/domain"
	"channelsync-core/internal/ports"

	"github.com/rs/zerolog"
)

// pipelineKey identifies one registered sync pipeline.
type pipelineKey struct {
	platform domain.Platform
	kind     domain.SyncType
}

// SyncService is the platform-polymorphic sync entry point. It validates the
// store's credentials, guards against concurrent syncs of the same store,
// selects the registered pipeline for the (platform, kind) pair, and
// unconditionally writes one final sync-log row per attempt. Every failure is
// converted into a SyncResult; nothing escapes as an error.
type SyncService struct {
	stores     ports.StoreRepository
	syncLogs   ports.SyncLogRepository
	encryption ports.EncryptionService
	locker     ports.Locker
	metrics    ports.MetricsRecorder
	runners    map[pipelineKey]ports.SyncRunner
	logger     zerolog.Logger
}

// NewSyncService creates a sync dispatcher. locker may be nil when the caller
// enforces single-flight syncs itself.
func NewSyncService(
	stores ports.StoreRepository,
	syncLogs ports.SyncLogRepository,
	encryption ports.EncryptionService,
	locker ports.Locker,
	metrics ports.MetricsRecorder,
	logger zerolog.Logger,
) *SyncService {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &SyncService{
		stores:     stores,
		syncLogs:   syncLogs,
		encryption: encryption,
		locker:     locker,
		metrics:    metrics,
		runners:    make(map[pipelineKey]ports.SyncRunner),
		logger:     logger,
	}
}

// Register adds a pipeline for one (platform, kind) pair. Combinations with
// no registered pipeline resolve to a not_implemented result at sync time.
func (s *SyncService) Register(platform domain.Platform, kind domain.SyncType, runner ports.SyncRunner) {
	s.runners[pipelineKey{platform: platform, kind: kind}] = runner
}

// Sync runs one sync attempt for the store and returns its result. Exactly
// one sync-log row is written per attempt regardless of outcome.
func (s *SyncService) Sync(ctx context.Context, storeID string, kind domain.SyncType) domain.SyncResult {
	store, err := s.stores.GetByID(ctx, storeID)
	if err != nil {
		return s.finish(ctx, nil, kind, 0, time.Time{}, fmt.Errorf("failed to load store: %w", err))
	}

	userID := domain.GetUserIDFromContext(ctx)
	if store.UserID != userID && !domain.IsAdminFromContext(ctx) {
		return s.finish(ctx, store, kind, 0, time.Time{}, domain.ErrForbidden)
	}

	creds, err := s.decryptCredentials(store)
	if err != nil {
		return s.finish(ctx, store, kind, 0, time.Time{}, err)
	}
	if err := requireCredentials(store.Platform, creds); err != nil {
		// Rejected before any network call.
		return s.finish(ctx, store, kind, 0, time.Time{}, err)
	}

	if s.locker != nil {
		acquired, err := s.locker.Acquire(ctx, "sync:store:"+store.ID)
		if err != nil {
			return s.finish(ctx, store, kind, 0, time.Time{}, fmt.Errorf("failed to acquire sync lock: %w", err))
		}
		if !acquired {
			return s.finish(ctx, store, kind, 0, time.Time{}, domain.ErrSyncInProgress)
		}
		defer func() {
			if err := s.locker.Release(context.WithoutCancel(ctx), "sync:store:"+store.ID); err != nil {
				s.logger.Error().Err(err).Str("store", store.ID).Msg("Failed to release sync lock")
			}
		}()
	}

	runner, ok := s.runners[pipelineKey{platform: store.Platform, kind: kind}]
	if !ok {
		return s.notImplemented(ctx, store, kind)
	}

	started := time.Now()
	s.logger.Info().
		Str("store", store.ID).
		Str("platform", string(store.Platform)).
		Str("kind", string(kind)).
		Msg("Starting sync")

	synced, err := runner.Run(ctx, store, creds)
	return s.finish(ctx, store, kind, synced, started, err)
}

// finish converts the run outcome into a SyncResult, records metrics and
// writes the attempt's final sync-log row.
func (s *SyncService) finish(ctx context.Context, store *domain.Store, kind domain.SyncType, synced int, started time.Time, err error) domain.SyncResult {
	var duration time.Duration
	if !started.IsZero() {
		duration = time.Since(started)
	}

	result := domain.SyncResult{Status: domain.SyncStatusSuccess, SyncedItems: synced}
	switch {
	case err == nil:
		result.Message = fmt.Sprintf("synced %d items", synced)
	case errors.Is(err, domain.ErrDuplicateKey):
		result.Status = domain.SyncStatusError
		result.Message = fmt.Sprintf("duplicate keys detected despite deduplication: %v", err)
	case errors.Is(err, domain.ErrRateLimited):
		result.Status = domain.SyncStatusError
		result.Message = fmt.Sprintf("upstream rate limit exceeded: %v", err)
	default:
		result.Status = domain.SyncStatusError
		result.Message = err.Error()
	}

	logStatus := domain.SyncLogStatusSuccess
	if result.Status == domain.SyncStatusError {
		logStatus = domain.SyncLogStatusError
		s.logger.Error().Err(err).Str("kind", string(kind)).Msg("Sync failed")
	} else {
		s.logger.Info().Int("synced", synced).Str("kind", string(kind)).Msg("Sync finished")
	}

	log := &domain.SyncLog{Type: kind, Status: logStatus, Detail: result.Message}
	if store != nil {
		log.UserID = store.UserID
		log.StoreID = store.ID
		// Attempts rejected before the pipeline ran have no start time and
		// would pollute the duration histogram with zero samples.
		if !started.IsZero() {
			s.metrics.SyncFinished(string(store.Platform), string(kind), duration, synced, result.OK())
		}
	} else {
		log.UserID = domain.GetUserIDFromContext(ctx)
	}
	if err := s.syncLogs.Create(context.WithoutCancel(ctx), log); err != nil {
		s.logger.Error().Err(err).Msg("Failed to write sync log")
	}

	return result
}

// notImplemented resolves a (platform, kind) pair with no pipeline. This is a
// distinct result kind rather than a bare success, so placeholder gaps don't
// masquerade as real zero-item runs, and rather than an error, so known gaps
// don't alarm users.
func (s *SyncService) notImplemented(ctx context.Context, store *domain.Store, kind domain.SyncType) domain.SyncResult {
	msg := fmt.Sprintf("%s sync is not implemented for %s stores", kind, store.Platform)
	if err := s.syncLogs.Create(ctx, &domain.SyncLog{
		UserID:  store.UserID,
		StoreID: store.ID,
		Type:    kind,
		Status:  domain.SyncLogStatusSuccess,
		Detail:  msg,
	}); err != nil {
		s.logger.Error().Err(err).Msg("Failed to write sync log")
	}
	return domain.SyncResult{Status: domain.SyncStatusNotImplemented, Message: msg}
}

func (s *SyncService) decryptCredentials(store *domain.Store) (domain.Credentials, error) {
	var creds domain.Credentials
	if store.EncryptedCredentials == "" {
		return creds, nil
	}
	plain, err := s.encryption.Decrypt(store.EncryptedCredentials)
	if err != nil {
		return creds, fmt.Errorf("failed to decrypt store credentials: %w", err)
	}
	if err := json.Unmarshal([]byte(plain), &creds); err != nil {
		return creds, fmt.Errorf("failed to decode store credentials: %w", err)
	}
	return creds, nil
}

// requireCredentials checks that the credential fields the platform needs are
// present: Shopify syncs need an access token, Mirakl syncs an API key.
func requireCredentials(platform domain.Platform, creds domain.Credentials) error {
	switch platform {
	case domain.PlatformShopify:
		if creds.AccessToken == "" {
			return fmt.Errorf("%w: shopify store has no access token", domain.ErrMissingCredentials)
		}
	case domain.PlatformMirakl:
		if creds.APIKey == "" {
			return fmt.Errorf("%w: mirakl store has no api key", domain.ErrMissingCredentials)
		}
	}
	return nil
}
