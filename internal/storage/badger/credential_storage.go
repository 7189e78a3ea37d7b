package badger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/rogo/internal/interfaces"
	"github.com/ternarybob/rogo/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// credentialKey is the fixed key for the single cached credential slot.
const credentialKey = "gus"

// CredentialStorage implements the CredentialStore interface for Badger.
// The store is a single mutable slot: Set upserts the whole record,
// last writer wins.
type CredentialStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewCredentialStorage creates a new CredentialStorage instance
func NewCredentialStorage(db *BadgerDB, logger arbor.ILogger) interfaces.CredentialStore {
	return &CredentialStorage{
		db:     db,
		logger: logger,
	}
}

func (s *CredentialStorage) Get(ctx context.Context) (*models.Credential, error) {
	var credential models.Credential
	if err := s.db.Store().Get(credentialKey, &credential); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read cached credential: %w", err)
	}
	return &credential, nil
}

func (s *CredentialStorage) Set(ctx context.Context, credential *models.Credential) error {
	if credential == nil {
		return fmt.Errorf("credential is required")
	}
	if credential.AccessToken == "" {
		return fmt.Errorf("credential access token is required")
	}

	if err := s.db.Store().Upsert(credentialKey, credential); err != nil {
		return fmt.Errorf("failed to store credential: %w", err)
	}

	s.logger.Debug().
		Str("instance", credential.InstanceHost).
		Str("collected_at", credential.CollectedAt.Format(time.RFC3339)).
		Msg("Cached credential stored")

	return nil
}

func (s *CredentialStorage) Delete(ctx context.Context) error {
	if err := s.db.Store().Delete(credentialKey, &models.Credential{}); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil // Already deleted
		}
		return fmt.Errorf("failed to delete cached credential: %w", err)
	}
	return nil
}
