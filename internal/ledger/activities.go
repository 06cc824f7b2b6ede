package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	apperrors "github.com/mmynk/groupsplit/internal/errors"
	"github.com/mmynk/groupsplit/internal/models"
)

// ParticipantInput names a member sharing an activity. A zero Weight means
// models.DefaultWeight.
type ParticipantInput struct {
	MemberID string
	Weight   float64
}

// ActivityInput carries the editable fields of an activity.
type ActivityInput struct {
	Name         string
	Amount       int64
	PayerID      string
	Participants []ParticipantInput
}

// validateActivity checks in against the active members and returns it
// normalized: trimmed name, default weights, duplicate participants dropped.
func (l *Ledger) validateActivity(ctx context.Context, in ActivityInput) (ActivityInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return in, apperrors.Validation("name", "name is required")
	}
	if in.Amount <= 0 {
		return in, apperrors.Validation("amount", "amount must be greater than zero")
	}
	if in.PayerID == "" {
		return in, apperrors.Validation("payerId", "payer is required")
	}

	active, err := l.activeMembers(ctx)
	if err != nil {
		return in, err
	}
	if _, ok := active[in.PayerID]; !ok {
		return in, apperrors.Validation("payerId", fmt.Sprintf("unknown payer %s", in.PayerID))
	}

	seen := make(map[string]bool, len(in.Participants))
	participants := make([]ParticipantInput, 0, len(in.Participants))
	for _, p := range in.Participants {
		if _, ok := active[p.MemberID]; !ok {
			return in, apperrors.Validation("participants", fmt.Sprintf("unknown member %s", p.MemberID))
		}
		if p.Weight < 0 {
			return in, apperrors.Validation("participants", "weight must be greater than zero")
		}
		if p.Weight == 0 {
			p.Weight = models.DefaultWeight
		}
		if seen[p.MemberID] {
			continue
		}
		seen[p.MemberID] = true
		participants = append(participants, p)
	}
	in.Participants = participants
	return in, nil
}

func (l *Ledger) addParticipants(ctx context.Context, activityID string, participants []ParticipantInput) error {
	for _, p := range participants {
		if _, err := l.store.AddParticipant(ctx, &models.Participant{
			ActivityID: activityID,
			MemberID:   p.MemberID,
			Weight:     p.Weight,
		}); err != nil {
			return fmt.Errorf("failed to add participant %s: %w", p.MemberID, err)
		}
	}
	return nil
}

// replaceParticipants swaps the participant links of an activity. When adding
// the new links fails the previous links are put back.
func (l *Ledger) replaceParticipants(ctx context.Context, activityID string, participants []ParticipantInput) error {
	previous, err := l.store.ListParticipants(ctx, activityID)
	if err != nil {
		return fmt.Errorf("failed to list participants: %w", err)
	}
	if err := l.store.RemoveAllParticipants(ctx, activityID); err != nil {
		return err
	}
	if err := l.addParticipants(ctx, activityID, participants); err != nil {
		restore := make([]ParticipantInput, len(previous))
		for i, p := range previous {
			restore[i] = ParticipantInput{MemberID: p.MemberID, Weight: p.Weight}
		}
		if rmErr := l.store.RemoveAllParticipants(ctx, activityID); rmErr != nil {
			slog.Error("Failed to restore participants", "activity_id", activityID, "error", rmErr)
			return err
		}
		if addErr := l.addParticipants(ctx, activityID, restore); addErr != nil {
			slog.Error("Failed to restore participants", "activity_id", activityID, "error", addErr)
		}
		return err
	}
	return nil
}

// ListActivities returns every activity resolved with payer and active
// participants.
func (l *Ledger) ListActivities(ctx context.Context) ([]*models.ActivityWithParticipants, error) {
	snap, err := l.readSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.activities, nil
}

// GetActivity returns one activity resolved with payer and active participants.
func (l *Ledger) GetActivity(ctx context.Context, activityID string) (*models.ActivityWithParticipants, error) {
	a, err := l.store.GetActivity(ctx, activityID)
	if err != nil {
		return nil, err
	}
	active, err := l.activeMembers(ctx)
	if err != nil {
		return nil, err
	}
	resolved, err := l.resolveActivity(ctx, active, a)
	if err != nil {
		return nil, err
	}
	if resolved == nil {
		return nil, apperrors.NotFound("member", a.PayerID)
	}
	return resolved, nil
}

// CreateActivity validates and stores an activity with its participants. The
// session returns to Open.
func (l *Ledger) CreateActivity(ctx context.Context, in ActivityInput) (*models.ActivityWithParticipants, error) {
	in, err := l.validateActivity(ctx, in)
	if err != nil {
		return nil, err
	}

	activity := &models.Activity{Name: in.Name, Amount: in.Amount, PayerID: in.PayerID}
	if err := l.store.CreateActivity(ctx, activity); err != nil {
		return nil, err
	}
	if err := l.addParticipants(ctx, activity.ID, in.Participants); err != nil {
		if delErr := l.store.DeleteActivity(ctx, activity.ID); delErr != nil {
			slog.Error("Failed to roll back activity", "activity_id", activity.ID, "error", delErr)
		}
		return nil, err
	}
	l.setState(StateOpen)

	slog.Info("Activity created",
		"activity_id", activity.ID,
		"amount", activity.Amount,
		"participants_count", len(in.Participants),
	)
	return l.GetActivity(ctx, activity.ID)
}

// UpdateActivity replaces name, amount and payer of an activity. When
// replaceParticipants is true the participant list is replaced as well. The
// session returns to Open.
func (l *Ledger) UpdateActivity(ctx context.Context, activityID string, in ActivityInput, replaceParticipants bool) (*models.ActivityWithParticipants, error) {
	in, err := l.validateActivity(ctx, in)
	if err != nil {
		return nil, err
	}

	activity := &models.Activity{ID: activityID, Name: in.Name, Amount: in.Amount, PayerID: in.PayerID}
	if err := l.store.UpdateActivity(ctx, activity); err != nil {
		return nil, err
	}
	l.setState(StateOpen)
	if replaceParticipants {
		if err := l.replaceParticipants(ctx, activityID, in.Participants); err != nil {
			return nil, err
		}
	}

	slog.Info("Activity updated", "activity_id", activityID, "participants_replaced", replaceParticipants)
	return l.GetActivity(ctx, activityID)
}

// DeleteActivity removes an activity and its participant links. The session
// returns to Open.
func (l *Ledger) DeleteActivity(ctx context.Context, activityID string) error {
	if err := l.store.DeleteActivity(ctx, activityID); err != nil {
		return err
	}
	l.setState(StateOpen)
	slog.Info("Activity deleted", "activity_id", activityID)
	return nil
}

// DeleteAllActivities deletes activities one by one, collecting per-item
// outcomes, and returns the activities left in storage afterwards.
func (l *Ledger) DeleteAllActivities(ctx context.Context) (BatchResult, []*models.ActivityWithParticipants, error) {
	ctx, span := l.tracer.Start(ctx, "ledger.DeleteAllActivities")
	defer span.End()

	result, err := l.deleteActivities(ctx)
	if err != nil {
		return result, nil, err
	}
	l.setState(StateOpen)
	span.SetAttributes(
		attribute.Int("ledger.items", len(result.Items)),
		attribute.Int("ledger.failed", len(result.Failed())),
	)

	snap, err := l.readSnapshot(ctx)
	if err != nil {
		return result, nil, err
	}
	return result, snap.activities, nil
}

func (l *Ledger) deleteActivities(ctx context.Context) (BatchResult, error) {
	var result BatchResult
	activities, err := l.store.ListActivities(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to list activities: %w", err)
	}
	for _, a := range activities {
		err := l.store.DeleteActivity(ctx, a.ID)
		if err != nil {
			slog.Warn("Failed to delete activity", "activity_id", a.ID, "error", err)
		}
		result.add(a.ID, err)
	}
	return result, nil
}
