// Package revokedtokens declares the revocation ledger contract: a durable,
// append-only set of token identifiers (jti) that must no longer be honored.
package revokedtokens

import (
	"context"
	"time"
)

type Repository interface {
	// Revoke records the jti as revoked. Revoking an already-revoked or
	// unknown jti succeeds silently.
	Revoke(ctx context.Context, jti string) error

	// IsRevoked reports whether the jti has been revoked.
	IsRevoked(ctx context.Context, jti string) (bool, error)

	// DeleteRevokedBefore removes ledger entries revoked before cutoff.
	// Entries may be garbage-collected once their token's natural expiry
	// has passed without affecting correctness.
	DeleteRevokedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
