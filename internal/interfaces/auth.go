// -----------------------------------------------------------------------
// Last Modified: Tuesday, 25th August 2026 3:12:41 pm
// Modified By: Bob McAllan
// -----------------------------------------------------------------------

package interfaces

import (
	"context"

	"github.com/ternarybob/rogo/internal/models"
)

// CredentialStore persists the single cached GUS credential. The store is a
// single mutable slot with last-writer-wins semantics; a Set fully replaces
// the stored record.
type CredentialStore interface {
	// Get returns the cached credential, or nil when none is stored.
	Get(ctx context.Context) (*models.Credential, error)

	// Set replaces the cached credential.
	Set(ctx context.Context, credential *models.Credential) error

	// Delete removes the cached credential. Deleting an empty slot is not
	// an error.
	Delete(ctx context.Context) error
}

// BrowserOpener navigates the user's browser to the authorization URL. The
// OAuth flow invokes it exactly once per login attempt; tests substitute a
// fake that issues the callback request directly.
type BrowserOpener interface {
	OpenURL(url string) error
}

// BrowserOpenerFunc adapts a plain function to the BrowserOpener interface
type BrowserOpenerFunc func(url string) error

func (f BrowserOpenerFunc) OpenURL(url string) error {
	return f(url)
}
