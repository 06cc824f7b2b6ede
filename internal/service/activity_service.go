package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	apperrors "github.com/mmynk/groupsplit/internal/errors"
	"github.com/mmynk/groupsplit/internal/ledger"
	"github.com/mmynk/groupsplit/internal/metrics"
	"github.com/mmynk/groupsplit/pkg/api"
)

// ActivityService implements the Connect ActivityService
type ActivityService struct {
	ledger  *ledger.Ledger
	metrics *metrics.Metrics
}

// NewActivityService creates a new ActivityService. m may be nil.
func NewActivityService(l *ledger.Ledger, m *metrics.Metrics) *ActivityService {
	return &ActivityService{ledger: l, metrics: m}
}

// ListActivities returns every activity with its payer and active participants.
func (s *ActivityService) ListActivities(ctx context.Context, req *connect.Request[api.ListActivitiesRequest]) (*connect.Response[api.ListActivitiesResponse], error) {
	slog.Info("ListActivities request received")

	activities, err := s.ledger.ListActivities(ctx)
	if err != nil {
		slog.Error("ListActivities failed", "error", err)
		return nil, apperrors.ToConnect(err)
	}

	return connect.NewResponse(&api.ListActivitiesResponse{Activities: toAPIActivities(activities)}), nil
}

// GetActivity retrieves an activity by ID.
func (s *ActivityService) GetActivity(ctx context.Context, req *connect.Request[api.GetActivityRequest]) (*connect.Response[api.GetActivityResponse], error) {
	slog.Info("GetActivity request received", "activity_id", req.Msg.ActivityID)

	activity, err := s.ledger.GetActivity(ctx, req.Msg.ActivityID)
	if err != nil {
		slog.Error("GetActivity failed", "activity_id", req.Msg.ActivityID, "error", err)
		return nil, apperrors.ToConnect(err)
	}

	return connect.NewResponse(&api.GetActivityResponse{Activity: toAPIActivity(activity)}), nil
}

// CreateActivity records a shared expense.
func (s *ActivityService) CreateActivity(ctx context.Context, req *connect.Request[api.CreateActivityRequest]) (*connect.Response[api.CreateActivityResponse], error) {
	slog.Info("CreateActivity request received",
		"name", req.Msg.Name,
		"amount", req.Msg.Amount,
		"payer_id", req.Msg.PayerID,
		"participants_count", len(req.Msg.Participants),
	)

	activity, err := s.ledger.CreateActivity(ctx, ledger.ActivityInput{
		Name:         req.Msg.Name,
		Amount:       req.Msg.Amount,
		PayerID:      req.Msg.PayerID,
		Participants: fromAPIParticipants(req.Msg.Participants),
	})
	if err != nil {
		slog.Error("CreateActivity failed", "error", err)
		return nil, apperrors.ToConnect(err)
	}

	slog.Info("Activity created", "activity_id", activity.ID)

	return connect.NewResponse(&api.CreateActivityResponse{Activity: toAPIActivity(activity)}), nil
}

// UpdateActivity edits an activity, optionally replacing its participants.
func (s *ActivityService) UpdateActivity(ctx context.Context, req *connect.Request[api.UpdateActivityRequest]) (*connect.Response[api.UpdateActivityResponse], error) {
	slog.Info("UpdateActivity request received",
		"activity_id", req.Msg.ActivityID,
		"replace_participants", req.Msg.ReplaceParticipants,
	)

	activity, err := s.ledger.UpdateActivity(ctx, req.Msg.ActivityID, ledger.ActivityInput{
		Name:         req.Msg.Name,
		Amount:       req.Msg.Amount,
		PayerID:      req.Msg.PayerID,
		Participants: fromAPIParticipants(req.Msg.Participants),
	}, req.Msg.ReplaceParticipants)
	if err != nil {
		slog.Error("UpdateActivity failed", "activity_id", req.Msg.ActivityID, "error", err)
		return nil, apperrors.ToConnect(err)
	}

	return connect.NewResponse(&api.UpdateActivityResponse{Activity: toAPIActivity(activity)}), nil
}

// DeleteActivity removes an activity and its participant links.
func (s *ActivityService) DeleteActivity(ctx context.Context, req *connect.Request[api.DeleteActivityRequest]) (*connect.Response[api.DeleteActivityResponse], error) {
	slog.Info("DeleteActivity request received", "activity_id", req.Msg.ActivityID)

	if err := s.ledger.DeleteActivity(ctx, req.Msg.ActivityID); err != nil {
		slog.Error("DeleteActivity failed", "activity_id", req.Msg.ActivityID, "error", err)
		return nil, apperrors.ToConnect(err)
	}

	return connect.NewResponse(&api.DeleteActivityResponse{Success: true}), nil
}

// DeleteAllActivities removes every activity one by one. Item failures are
// reported in the outcome; the remaining activities are returned as read
// back from storage.
func (s *ActivityService) DeleteAllActivities(ctx context.Context, req *connect.Request[api.DeleteAllActivitiesRequest]) (*connect.Response[api.DeleteAllActivitiesResponse], error) {
	slog.Info("DeleteAllActivities request received")

	result, remaining, err := s.ledger.DeleteAllActivities(ctx)
	if err != nil {
		slog.Error("DeleteAllActivities failed", "error", err)
		return nil, apperrors.ToConnect(err)
	}
	if !result.OK() {
		slog.Warn("DeleteAllActivities partially failed", "error", result.Err())
	}

	return connect.NewResponse(&api.DeleteAllActivitiesResponse{
		Outcome:    toAPIOutcome(s.metrics, "delete_all_activities", result),
		Activities: toAPIActivities(remaining),
	}), nil
}
