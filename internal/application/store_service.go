package application

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"channelsync-core/internal/domain"
	"channelsync-core/internal/ports"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// StoreService manages connected sales channels: creation in pending state,
// credential validation against the platform, listing and deletion. The
// credential blob is encrypted before it ever reaches the repository.
type StoreService struct {
	stores     ports.StoreRepository
	encryption ports.EncryptionService
	validator  ports.CredentialValidator
	logger     zerolog.Logger
}

// NewStoreService creates a store service.
func NewStoreService(
	stores ports.StoreRepository,
	encryption ports.EncryptionService,
	validator ports.CredentialValidator,
	logger zerolog.Logger,
) *StoreService {
	return &StoreService{
		stores:     stores,
		encryption: encryption,
		validator:  validator,
		logger:     logger,
	}
}

// ConnectStoreInput represents input for connecting a new store
type ConnectStoreInput struct {
	Name        string             `json:"name"`
	Platform    domain.Platform    `json:"platform"`
	Domain      string             `json:"domain"`
	Credentials domain.Credentials `json:"credentials"`
}

// Connect creates a new store in pending state owned by the current user.
func (s *StoreService) Connect(ctx context.Context, input ConnectStoreInput) (*domain.Store, error) {
	userID := domain.GetUserIDFromContext(ctx)
	if userID == "" {
		return nil, fmt.Errorf("%w: no user in context", domain.ErrForbidden)
	}
	if input.Platform != domain.PlatformShopify && input.Platform != domain.PlatformMirakl {
		return nil, fmt.Errorf("unsupported platform %q", input.Platform)
	}

	blob, err := json.Marshal(input.Credentials)
	if err != nil {
		return nil, fmt.Errorf("failed to encode credentials: %w", err)
	}
	encrypted, err := s.encryption.Encrypt(string(blob))
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt credentials: %w", err)
	}

	store := &domain.Store{
		ID:                   uuid.NewString(),
		UserID:               userID,
		Platform:             input.Platform,
		Name:                 input.Name,
		Domain:               input.Domain,
		EncryptedCredentials: encrypted,
		Status:               domain.StoreStatusPending,
		CreatedAt:            time.Now(),
		UpdatedAt:            time.Now(),
	}
	if err := s.stores.Create(ctx, store); err != nil {
		return nil, fmt.Errorf("failed to create store: %w", err)
	}

	s.logger.Info().
		Str("store", store.ID).
		Str("platform", string(store.Platform)).
		Str("user", userID).
		Msg("Store connected in pending state")
	return store, nil
}

// Validate checks the store's credentials against its platform and moves the
// store to active on success or error status on failure.
func (s *StoreService) Validate(ctx context.Context, storeID string) (*domain.Store, error) {
	store, err := s.authorize(ctx, storeID)
	if err != nil {
		return nil, err
	}

	creds, err := s.decryptCredentials(store)
	if err != nil {
		return nil, err
	}

	status := domain.StoreStatusActive
	if err := requireCredentials(store.Platform, creds); err != nil {
		status = domain.StoreStatusError
		s.logger.Warn().Err(err).Str("store", store.ID).Msg("Store credentials incomplete")
	} else if err := s.validator.Validate(ctx, store, creds); err != nil {
		status = domain.StoreStatusError
		s.logger.Warn().Err(err).Str("store", store.ID).Msg("Store credential validation failed")
	}

	if err := s.stores.UpdateStatus(ctx, store.ID, status); err != nil {
		return nil, fmt.Errorf("failed to update store status: %w", err)
	}
	store.Status = status
	return store, nil
}

// Get returns one store owned by the current user (or any store for admins).
func (s *StoreService) Get(ctx context.Context, storeID string) (*domain.Store, error) {
	return s.authorize(ctx, storeID)
}

// List returns the current user's stores.
func (s *StoreService) List(ctx context.Context) ([]*domain.Store, error) {
	userID := domain.GetUserIDFromContext(ctx)
	stores, err := s.stores.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list stores: %w", err)
	}
	return stores, nil
}

// Delete removes a store owned by the current user.
func (s *StoreService) Delete(ctx context.Context, storeID string) error {
	store, err := s.authorize(ctx, storeID)
	if err != nil {
		return err
	}
	if err := s.stores.Delete(ctx, store.ID); err != nil {
		return fmt.Errorf("failed to delete store: %w", err)
	}
	s.logger.Info().Str("store", store.ID).Msg("Store deleted")
	return nil
}

func (s *StoreService) authorize(ctx context.Context, storeID string) (*domain.Store, error) {
	store, err := s.stores.GetByID(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if store.UserID != domain.GetUserIDFromContext(ctx) && !domain.IsAdminFromContext(ctx) {
		return nil, domain.ErrForbidden
	}
	return store, nil
}

func (s *StoreService) decryptCredentials(store *domain.Store) (domain.Credentials, error) {
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
