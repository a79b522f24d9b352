// Package refreshtokens declares the server-side repository contract for
// managing refresh tokens in persistent storage.
package refreshtokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/sharebox/internal/server/models"
)

// Repository defines operations for issuing and redeeming refresh tokens.
type Repository interface {
	// Create stores a new refresh token for userID with an expiry of now+validity.
	Create(ctx context.Context, userID string, token string, validity time.Duration) error

	// Consume removes the token and returns what it was issued for, so a
	// token can be redeemed at most once. A missing token yields
	// common.ErrorNotFound. Expired tokens are still returned; the caller
	// checks Expires.
	Consume(ctx context.Context, token string) (*models.RefreshToken, error)
}
