// Package ledger holds the settlement session: it validates requests, reads
// consistent snapshots from storage, runs the balance calculator and the
// settlement planner, and drives the session lifecycle.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/mmynk/groupsplit/internal/errors"
	"github.com/mmynk/groupsplit/internal/models"
	"github.com/mmynk/groupsplit/internal/qrimage"
	"github.com/mmynk/groupsplit/internal/storage"
)

// State is the settlement session state.
type State string

const (
	// StateOpen means activities are being added and balances are fluid.
	StateOpen State = "open"
	// StateReviewing means balances and proposed transactions were computed.
	StateReviewing State = "reviewing"
	// StateClosing means the session was finished and transactions completed.
	StateClosing State = "closing"
	// StateReset means all activities and transactions were purged.
	StateReset State = "reset"
)

const tracerName = "github.com/mmynk/groupsplit/internal/ledger"

// Ledger is the session-state object shared by the RPC services and the CLI.
// It is safe for concurrent use.
type Ledger struct {
	store  storage.Store
	tracer trace.Tracer

	maxQRLength int

	mu    sync.Mutex
	state State
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithMaxQRLength sets the data URL length above which member QR images are
// shrunk before they are stored.
func WithMaxQRLength(n int) Option {
	return func(l *Ledger) {
		if n > 0 {
			l.maxQRLength = n
		}
	}
}

// New creates a Ledger over the given store. The session starts Open.
func New(store storage.Store, opts ...Option) *Ledger {
	l := &Ledger{
		store:       store,
		tracer:      otel.Tracer(tracerName),
		maxQRLength: qrimage.DefaultMaxLength,
		state:       StateOpen,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// State returns the current session state.
func (l *Ledger) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

func (l *Ledger) setState(s State) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != s {
		slog.Debug("Session state changed", "from", l.state, "to", s)
	}
	l.state = s
}

// snapshot is a consistent read of everything a computation needs.
type snapshot struct {
	members    []*models.Member
	byID       map[string]*models.Member
	activities []*models.ActivityWithParticipants
}

// readSnapshot loads active members and all activities resolved with their
// payer and active participants. Activities whose payer cannot be resolved are
// skipped.
func (l *Ledger) readSnapshot(ctx context.Context) (*snapshot, error) {
	members, err := l.store.ListActiveMembers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	snap := &snapshot{
		members: members,
		byID:    make(map[string]*models.Member, len(members)),
	}
	for _, m := range members {
		snap.byID[m.ID] = m
	}

	activities, err := l.store.ListActivities(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	for _, a := range activities {
		resolved, err := l.resolveActivity(ctx, snap.byID, a)
		if err != nil {
			return nil, err
		}
		if resolved == nil {
			slog.Warn("Skipping activity with unknown payer", "activity_id", a.ID, "payer_id", a.PayerID)
			continue
		}
		snap.activities = append(snap.activities, resolved)
	}
	return snap, nil
}

// resolveActivity attaches the payer and active participants to a. It returns
// nil when the payer is not a known member.
func (l *Ledger) resolveActivity(ctx context.Context, active map[string]*models.Member, a *models.Activity) (*models.ActivityWithParticipants, error) {
	payer, ok := active[a.PayerID]
	if !ok {
		m, err := l.store.GetMember(ctx, a.PayerID)
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to get payer: %w", err)
		}
		payer = m
	}

	links, err := l.store.ListParticipants(ctx, a.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}

	resolved := &models.ActivityWithParticipants{Activity: *a, Payer: *payer}
	for _, link := range links {
		if m, ok := active[link.MemberID]; ok {
			resolved.Participants = append(resolved.Participants, *m)
		}
	}
	return resolved, nil
}

func (l *Ledger) activeMembers(ctx context.Context) (map[string]*models.Member, error) {
	members, err := l.store.ListActiveMembers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	byID := make(map[string]*models.Member, len(members))
	for _, m := range members {
		byID[m.ID] = m
	}
	return byID, nil
}
