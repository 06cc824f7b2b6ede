package sqlite

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	apperrors "github.com/mmynk/groupsplit/internal/errors"
	"github.com/mmynk/groupsplit/internal/models"
)

// AddParticipant links a member to an activity. A duplicate pair returns the
// existing link.
func (s *SQLiteStore) AddParticipant(ctx context.Context, participant *models.Participant) (*models.Participant, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	ok, err := exists(ctx, tx, "activities", participant.ActivityID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.NotFound("activity", participant.ActivityID)
	}
	if err := requireMember(ctx, tx, participant.MemberID); err != nil {
		return nil, err
	}

	id := participant.ID
	if id == "" {
		id = uuid.New().String()
	}
	weight := participant.Weight
	if weight == 0 {
		weight = models.DefaultWeight
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO participants (id, activity_id, member_id, weight) VALUES (?, ?, ?, ?)
		 ON CONFLICT (activity_id, member_id) DO NOTHING`,
		id, participant.ActivityID, participant.MemberID, weight,
	); err != nil {
		return nil, fmt.Errorf("failed to insert participant: %w", err)
	}

	p := &models.Participant{}
	if err := tx.QueryRowContext(ctx,
		"SELECT id, activity_id, member_id, weight FROM participants WHERE activity_id = ? AND member_id = ?",
		participant.ActivityID, participant.MemberID,
	).Scan(&p.ID, &p.ActivityID, &p.MemberID, &p.Weight); err != nil {
		return nil, fmt.Errorf("failed to get participant: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return p, nil
}

// ListParticipants returns the links of one activity in insertion order.
func (s *SQLiteStore) ListParticipants(ctx context.Context, activityID string) ([]*models.Participant, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, activity_id, member_id, weight FROM participants WHERE activity_id = ? ORDER BY rowid",
		activityID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	defer rows.Close()

	var participants []*models.Participant
	for rows.Next() {
		p := &models.Participant{}
		if err := rows.Scan(&p.ID, &p.ActivityID, &p.MemberID, &p.Weight); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}
	return participants, nil
}

// RemoveAllParticipants removes every link of one activity.
func (s *SQLiteStore) RemoveAllParticipants(ctx context.Context, activityID string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM participants WHERE activity_id = ?", activityID); err != nil {
		return fmt.Errorf("failed to remove participants: %w", err)
	}
	return nil
}
