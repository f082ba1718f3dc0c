package revokedtokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/akozlov/activityhub/internal/dbx"
)

// PostgresRepository implements the revocation ledger over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx). Inserts are single-row and lookups
// indexed by primary key, so no transactions are needed.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Revoke inserts the jti into the ledger. The insert is idempotent:
// a conflicting row is left untouched.
func (r *PostgresRepository) Revoke(ctx context.Context, jti string) error {
	query := `
		INSERT INTO revoked_tokens (jti, revoked_at)
		VALUES ($1, $2)
		ON CONFLICT (jti) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, query, jti, time.Now()); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// IsRevoked reports whether the jti is present in the ledger.
func (r *PostgresRepository) IsRevoked(ctx context.Context, jti string) (bool, error) {
	query := `
		SELECT 1
		FROM revoked_tokens
		WHERE jti = $1
	`
	var one int
	if err := r.db.QueryRowContext(ctx, query, jti).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("db error: %w", err)
	}
	return true, nil
}

// DeleteRevokedBefore garbage-collects entries revoked before cutoff and
// returns the number of rows removed.
func (r *PostgresRepository) DeleteRevokedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `
		DELETE FROM revoked_tokens
		WHERE revoked_at < $1
	`
	res, err := r.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return affected, nil
}
