package activities

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
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

func (r *PostgresRepository) Create(ctx context.Context, activity *models.Activity) (*models.Activity, error) {

	activity.ID = uuid.NewString()
	activity.CreatedAt = time.Now()

	query := `
		INSERT INTO activities (id, title, description, topic, age_group, date, start_time, join_link, organizer_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	if _, err := r.db.ExecContext(ctx, query,
		activity.ID, activity.Title, activity.Description, activity.Topic, activity.AgeGroup,
		activity.Date, activity.StartTime, activity.JoinLink, activity.OrganizerID, activity.CreatedAt); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return activity, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Activity, error) {
	query := `
		SELECT id, title, description, topic, age_group, date, start_time, join_link, organizer_id, created_at
		FROM activities
		WHERE id = $1
	`
	activity := &models.Activity{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&activity.ID, &activity.Title, &activity.Description, &activity.Topic, &activity.AgeGroup,
		&activity.Date, &activity.StartTime, &activity.JoinLink, &activity.OrganizerID, &activity.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return activity, nil
}

func (r *PostgresRepository) List(ctx context.Context, filter ListFilter) ([]*models.Activity, error) {

	query := `
		SELECT a.id, a.title, a.description, a.topic, a.age_group, a.date, a.start_time, a.join_link, a.organizer_id, o.username
		FROM activities a
		JOIN organizers o ON o.id = a.organizer_id
	`

	var conditions []string
	var args []any

	if filter.Topic != "" {
		args = append(args, filter.Topic)
		conditions = append(conditions, "a.topic = $"+strconv.Itoa(len(args)))
	}
	if filter.AgeGroup != "" {
		args = append(args, filter.AgeGroup)
		conditions = append(conditions, "a.age_group = $"+strconv.Itoa(len(args)))
	}
	if filter.AfterDate != "" {
		args = append(args, filter.AfterDate, filter.AfterTime)
		d := strconv.Itoa(len(args) - 1)
		tm := strconv.Itoa(len(args))
		conditions = append(conditions, "(a.date > $"+d+" OR (a.date = $"+d+" AND a.start_time >= $"+tm+"))")
	}

	for i, c := range conditions {
		if i == 0 {
			query += " WHERE " + c
		} else {
			query += " AND " + c
		}
	}

	query += " ORDER BY a.date, a.start_time"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Activity
	for rows.Next() {
		activity := &models.Activity{}
		if err := rows.Scan(
			&activity.ID, &activity.Title, &activity.Description, &activity.Topic, &activity.AgeGroup,
			&activity.Date, &activity.StartTime, &activity.JoinLink, &activity.OrganizerID,
			&activity.OrganizerUsername); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, activity)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Topics(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, `SELECT DISTINCT topic FROM activities ORDER BY topic`)
}

func (r *PostgresRepository) AgeGroups(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, `SELECT DISTINCT age_group FROM activities ORDER BY age_group`)
}

func (r *PostgresRepository) distinct(ctx context.Context, query string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, activity *models.Activity) error {
	query := `
		UPDATE activities
		SET title = $2, description = $3, topic = $4, age_group = $5, date = $6, start_time = $7, join_link = $8
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query,
		activity.ID, activity.Title, activity.Description, activity.Topic, activity.AgeGroup,
		activity.Date, activity.StartTime, activity.JoinLink)
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

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `
		DELETE FROM activities
		WHERE id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
