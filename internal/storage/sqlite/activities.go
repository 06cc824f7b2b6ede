package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	apperrors "github.com/mmynk/groupsplit/internal/errors"
	"github.com/mmynk/groupsplit/internal/models"
)

// ListActivities returns all activities in creation order.
func (s *SQLiteStore) ListActivities(ctx context.Context) ([]*models.Activity, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, amount, payer_id, created_at FROM activities ORDER BY created_at, rowid")
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	defer rows.Close()

	var activities []*models.Activity
	for rows.Next() {
		a := &models.Activity{}
		if err := rows.Scan(&a.ID, &a.Name, &a.Amount, &a.PayerID, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		activities = append(activities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate activities: %w", err)
	}
	return activities, nil
}

// GetActivity retrieves an activity by ID.
func (s *SQLiteStore) GetActivity(ctx context.Context, activityID string) (*models.Activity, error) {
	a := &models.Activity{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, amount, payer_id, created_at FROM activities WHERE id = ?",
		activityID,
	).Scan(&a.ID, &a.Name, &a.Amount, &a.PayerID, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, apperrors.NotFound("activity", activityID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get activity: %w", err)
	}
	return a, nil
}

// CreateActivity persists a new activity.
func (s *SQLiteStore) CreateActivity(ctx context.Context, activity *models.Activity) error {
	if err := requireMember(ctx, s.db, activity.PayerID); err != nil {
		return fmt.Errorf("failed to insert activity: %w", err)
	}
	if activity.ID == "" {
		activity.ID = uuid.New().String()
	}
	if activity.CreatedAt == 0 {
		activity.CreatedAt = s.now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO activities (id, name, amount, payer_id, created_at) VALUES (?, ?, ?, ?, ?)",
		activity.ID, activity.Name, activity.Amount, activity.PayerID, activity.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert activity: %w", err)
	}
	return nil
}

// UpdateActivity replaces name, amount and payer.
func (s *SQLiteStore) UpdateActivity(ctx context.Context, activity *models.Activity) error {
	if err := requireMember(ctx, s.db, activity.PayerID); err != nil {
		return fmt.Errorf("failed to update activity: %w", err)
	}

	result, err := s.db.ExecContext(ctx,
		"UPDATE activities SET name = ?, amount = ?, payer_id = ? WHERE id = ?",
		activity.Name, activity.Amount, activity.PayerID, activity.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update activity: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return apperrors.NotFound("activity", activity.ID)
	}

	return s.db.QueryRowContext(ctx,
		"SELECT created_at FROM activities WHERE id = ?", activity.ID,
	).Scan(&activity.CreatedAt)
}

// DeleteActivity removes an activity and its participant links.
func (s *SQLiteStore) DeleteActivity(ctx context.Context, activityID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	ok, err := exists(ctx, tx, "activities", activityID)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.NotFound("activity", activityID)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM participants WHERE activity_id = ?", activityID); err != nil {
		return fmt.Errorf("failed to delete participants: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM activities WHERE id = ?", activityID); err != nil {
		return fmt.Errorf("failed to delete activity: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
