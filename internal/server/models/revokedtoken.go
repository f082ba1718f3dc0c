package models

import "time"

// RevokedToken is an entry in the revocation ledger: the jti of a token
// that must no longer be honored, regardless of its cryptographic
// validity. Entries are append-only; there is no un-revoke.
type RevokedToken struct {
	JTI       string
	RevokedAt time.Time
}
