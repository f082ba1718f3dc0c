package organizers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/akozlov/activityhub/internal/common"
	"github.com/akozlov/activityhub/internal/dbx"
	"github.com/akozlov/activityhub/internal/server/models"
)

// PostgresRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, organizer *models.Organizer) (*models.Organizer, error) {

	organizer.ID = uuid.NewString()
	organizer.CreatedAt = time.Now()

	query := `
		INSERT INTO organizers (id, username, password_hash, name, email, avatar, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	if _, err := r.db.ExecContext(ctx, query,
		organizer.ID, organizer.Username, organizer.PasswordHash,
		organizer.Name, organizer.Email, organizer.Avatar, organizer.CreatedAt); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return organizer, nil
}

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*models.Organizer, error) {
	query := `
		SELECT id, username, password_hash, name, email, avatar, created_at
		FROM organizers
		WHERE username = $1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, username))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Organizer, error) {
	query := `
		SELECT id, username, password_hash, name, email, avatar, created_at
		FROM organizers
		WHERE id = $1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) Update(ctx context.Context, organizer *models.Organizer) error {
	query := `
		UPDATE organizers
		SET password_hash = $2, name = $3, email = $4, avatar = $5
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query,
		organizer.ID, organizer.PasswordHash, organizer.Name, organizer.Email, organizer.Avatar)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func (r *PostgresRepository) scanOne(row *sql.Row) (*models.Organizer, error) {
	organizer := &models.Organizer{}
	err := row.Scan(&organizer.ID, &organizer.Username, &organizer.PasswordHash,
		&organizer.Name, &organizer.Email, &organizer.Avatar, &organizer.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return organizer, nil
}
