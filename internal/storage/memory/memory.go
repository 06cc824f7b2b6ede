// Package memory provides an in-memory implementation of the storage.Store
// interface. Tests use it where SQLite would only add setup.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/mmynk/groupsplit/internal/errors"
	"github.com/mmynk/groupsplit/internal/models"
	"github.com/mmynk/groupsplit/internal/storage"
)

// Ensure Store implements storage.Store
var _ storage.Store = (*Store)(nil)

// Store implements storage.Store with maps guarded by a mutex.
// Records are copied on the way in and out, so callers never share state
// with the store.
type Store struct {
	mu sync.RWMutex

	members      map[string]*models.Member
	memberOrder  []string
	activities   map[string]*models.Activity
	activityOrd  []string
	participants map[string]*models.Participant
	partOrder    []string
	transactions map[string]*models.Transaction
	txOrder      []string

	now func() time.Time
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		members:      make(map[string]*models.Member),
		activities:   make(map[string]*models.Activity),
		participants: make(map[string]*models.Participant),
		transactions: make(map[string]*models.Transaction),
		now:          time.Now,
	}
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}

// ListActiveMembers returns active members in creation order.
func (s *Store) ListActiveMembers(ctx context.Context) ([]*models.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var members []*models.Member
	for _, id := range s.memberOrder {
		if m := s.members[id]; m.Active {
			members = append(members, copyMember(m))
		}
	}
	return members, nil
}

// GetMember retrieves a member by ID.
func (s *Store) GetMember(ctx context.Context, memberID string) (*models.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.members[memberID]
	if !ok {
		return nil, apperrors.NotFound("member", memberID)
	}
	return copyMember(m), nil
}

// SearchMembers returns members whose name contains query.
func (s *Store) SearchMembers(ctx context.Context, query string) ([]*models.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var members []*models.Member
	for _, id := range s.memberOrder {
		m := s.members[id]
		if storage.NameContains(m.Name, query) {
			members = append(members, copyMember(m))
		}
	}
	return members, nil
}

// FindMembersByName returns members whose folded name equals the folded name.
func (s *Store) FindMembersByName(ctx context.Context, name string) ([]*models.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	folded := storage.FoldName(name)
	var members []*models.Member
	for _, id := range s.memberOrder {
		m := s.members[id]
		if storage.FoldName(m.Name) == folded {
			members = append(members, copyMember(m))
		}
	}
	return members, nil
}

// CreateMember persists a new member.
func (s *Store) CreateMember(ctx context.Context, member *models.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if member.ID == "" {
		member.ID = uuid.New().String()
	}
	if _, exists := s.members[member.ID]; exists {
		return fmt.Errorf("failed to insert member: duplicate id %s", member.ID)
	}
	now := s.now().Unix()
	if member.CreatedAt == 0 {
		member.CreatedAt = now
	}
	member.UpdatedAt = now

	s.members[member.ID] = copyMember(member)
	s.memberOrder = append(s.memberOrder, member.ID)
	return nil
}

// UpdateMember replaces a member's details, keeping its active flag.
func (s *Store) UpdateMember(ctx context.Context, member *models.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.members[member.ID]
	if !ok {
		return apperrors.NotFound("member", member.ID)
	}
	updated := copyMember(member)
	updated.Active = existing.Active
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = s.now().Unix()
	s.members[member.ID] = updated

	member.Active = updated.Active
	member.CreatedAt = updated.CreatedAt
	member.UpdatedAt = updated.UpdatedAt
	return nil
}

// DeactivateMember marks a member inactive unless it paid for an activity.
func (s *Store) DeactivateMember(ctx context.Context, memberID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.members[memberID]
	if !ok {
		return apperrors.NotFound("member", memberID)
	}

	paid := 0
	for _, a := range s.activities {
		if a.PayerID == memberID {
			paid++
		}
	}
	if paid > 0 {
		return apperrors.Constraint(fmt.Sprintf("member %s is the payer of %d activities", memberID, paid))
	}

	m.Active = false
	m.UpdatedAt = s.now().Unix()
	return nil
}

// ReactivateMember marks a member active again.
func (s *Store) ReactivateMember(ctx context.Context, memberID string) (*models.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.members[memberID]
	if !ok {
		return nil, apperrors.NotFound("member", memberID)
	}
	m.Active = true
	m.UpdatedAt = s.now().Unix()
	return copyMember(m), nil
}

// ListActivities returns all activities in creation order.
func (s *Store) ListActivities(ctx context.Context) ([]*models.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	activities := make([]*models.Activity, 0, len(s.activityOrd))
	for _, id := range s.activityOrd {
		a := *s.activities[id]
		activities = append(activities, &a)
	}
	return activities, nil
}

// GetActivity retrieves an activity by ID.
func (s *Store) GetActivity(ctx context.Context, activityID string) (*models.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.activities[activityID]
	if !ok {
		return nil, apperrors.NotFound("activity", activityID)
	}
	activity := *a
	return &activity, nil
}

// CreateActivity persists a new activity.
func (s *Store) CreateActivity(ctx context.Context, activity *models.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.members[activity.PayerID]; !ok {
		return fmt.Errorf("failed to insert activity: %w", apperrors.NotFound("member", activity.PayerID))
	}
	if activity.ID == "" {
		activity.ID = uuid.New().String()
	}
	if activity.CreatedAt == 0 {
		activity.CreatedAt = s.now().Unix()
	}

	a := *activity
	s.activities[a.ID] = &a
	s.activityOrd = append(s.activityOrd, a.ID)
	return nil
}

// UpdateActivity replaces name, amount and payer.
func (s *Store) UpdateActivity(ctx context.Context, activity *models.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.activities[activity.ID]
	if !ok {
		return apperrors.NotFound("activity", activity.ID)
	}
	if _, ok := s.members[activity.PayerID]; !ok {
		return fmt.Errorf("failed to update activity: %w", apperrors.NotFound("member", activity.PayerID))
	}
	existing.Name = activity.Name
	existing.Amount = activity.Amount
	existing.PayerID = activity.PayerID
	activity.CreatedAt = existing.CreatedAt
	return nil
}

// DeleteActivity removes an activity and its participant links.
func (s *Store) DeleteActivity(ctx context.Context, activityID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.activities[activityID]; !ok {
		return apperrors.NotFound("activity", activityID)
	}
	s.removeParticipantsLocked(activityID)
	delete(s.activities, activityID)
	s.activityOrd = slices.DeleteFunc(s.activityOrd, func(id string) bool { return id == activityID })
	return nil
}

// AddParticipant links a member to an activity, returning the existing link
// for a duplicate pair.
func (s *Store) AddParticipant(ctx context.Context, participant *models.Participant) (*models.Participant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.activities[participant.ActivityID]; !ok {
		return nil, apperrors.NotFound("activity", participant.ActivityID)
	}
	if _, ok := s.members[participant.MemberID]; !ok {
		return nil, apperrors.NotFound("member", participant.MemberID)
	}
	for _, id := range s.partOrder {
		p := s.participants[id]
		if p.ActivityID == participant.ActivityID && p.MemberID == participant.MemberID {
			existing := *p
			return &existing, nil
		}
	}

	p := *participant
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.Weight == 0 {
		p.Weight = models.DefaultWeight
	}
	s.participants[p.ID] = &p
	s.partOrder = append(s.partOrder, p.ID)

	created := p
	return &created, nil
}

// ListParticipants returns the links of one activity in insertion order.
func (s *Store) ListParticipants(ctx context.Context, activityID string) ([]*models.Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var participants []*models.Participant
	for _, id := range s.partOrder {
		if p := s.participants[id]; p.ActivityID == activityID {
			link := *p
			participants = append(participants, &link)
		}
	}
	return participants, nil
}

// RemoveAllParticipants removes every link of one activity.
func (s *Store) RemoveAllParticipants(ctx context.Context, activityID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.removeParticipantsLocked(activityID)
	return nil
}

func (s *Store) removeParticipantsLocked(activityID string) {
	s.partOrder = slices.DeleteFunc(s.partOrder, func(id string) bool {
		if s.participants[id].ActivityID == activityID {
			delete(s.participants, id)
			return true
		}
		return false
	})
}

// ListTransactions returns transactions, most recent first.
func (s *Store) ListTransactions(ctx context.Context) ([]*models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	transactions := make([]*models.Transaction, 0, len(s.txOrder))
	for i := len(s.txOrder) - 1; i >= 0; i-- {
		t := *s.transactions[s.txOrder[i]]
		transactions = append(transactions, &t)
	}
	return transactions, nil
}

// GetTransaction retrieves a transaction by ID.
func (s *Store) GetTransaction(ctx context.Context, transactionID string) (*models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.transactions[transactionID]
	if !ok {
		return nil, apperrors.NotFound("transaction", transactionID)
	}
	transaction := *t
	return &transaction, nil
}

// CreateTransaction persists a transaction.
func (s *Store) CreateTransaction(ctx context.Context, transaction *models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range []string{transaction.FromMemberID, transaction.ToMemberID} {
		if _, ok := s.members[id]; !ok {
			return fmt.Errorf("failed to insert transaction: %w", apperrors.NotFound("member", id))
		}
	}
	if transaction.ID == "" {
		transaction.ID = uuid.New().String()
	}
	if transaction.CreatedAt == 0 {
		transaction.CreatedAt = s.now().Unix()
	}

	t := *transaction
	s.transactions[t.ID] = &t
	s.txOrder = append(s.txOrder, t.ID)
	return nil
}

// SetTransactionCompleted updates the completed flag.
func (s *Store) SetTransactionCompleted(ctx context.Context, transactionID string, completed bool) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.transactions[transactionID]
	if !ok {
		return nil, apperrors.NotFound("transaction", transactionID)
	}
	t.Completed = completed
	updated := *t
	return &updated, nil
}

// DeleteTransaction removes a transaction.
func (s *Store) DeleteTransaction(ctx context.Context, transactionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.transactions[transactionID]; !ok {
		return apperrors.NotFound("transaction", transactionID)
	}
	delete(s.transactions, transactionID)
	s.txOrder = slices.DeleteFunc(s.txOrder, func(id string) bool { return id == transactionID })
	return nil
}

func copyMember(m *models.Member) *models.Member {
	c := *m
	return &c
}
