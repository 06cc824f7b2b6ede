// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/mmynk/groupsplit/internal/models"
)

// Store defines the interface for group ledger storage operations.
// This abstraction allows swapping storage backends (in-memory, SQLite, ...)
// without changing the ledger or service layers.
//
// Lookups of missing records return an error matching errors.ErrNotFound.
type Store interface {
	MemberStore
	ActivityStore
	ParticipantStore
	TransactionStore

	// Close releases any resources held by the store.
	Close() error
}

// MemberStore persists members.
type MemberStore interface {
	// ListActiveMembers returns active members ordered by creation.
	ListActiveMembers(ctx context.Context) ([]*models.Member, error)

	// GetMember retrieves a member by ID, active or not.
	GetMember(ctx context.Context, memberID string) (*models.Member, error)

	// SearchMembers returns members whose name contains query,
	// case-insensitively, regardless of their active flag.
	// An empty query returns every member, including inactive ones.
	SearchMembers(ctx context.Context, query string) ([]*models.Member, error)

	// FindMembersByName returns members whose name equals name under
	// Unicode case folding, active or not.
	FindMembersByName(ctx context.Context, name string) ([]*models.Member, error)

	// CreateMember persists a new member. ID, CreatedAt and UpdatedAt are
	// populated by the store.
	CreateMember(ctx context.Context, member *models.Member) error

	// UpdateMember replaces the name, contact and bank details of a member.
	UpdateMember(ctx context.Context, member *models.Member) error

	// DeactivateMember soft-deletes a member. It fails with
	// errors.ErrConstraint when the member is the payer of any activity.
	DeactivateMember(ctx context.Context, memberID string) error

	// ReactivateMember flips a member back to active and returns it.
	ReactivateMember(ctx context.Context, memberID string) (*models.Member, error)
}

// ActivityStore persists activities.
type ActivityStore interface {
	// ListActivities returns all activities ordered by creation.
	ListActivities(ctx context.Context) ([]*models.Activity, error)

	// GetActivity retrieves an activity by ID.
	GetActivity(ctx context.Context, activityID string) (*models.Activity, error)

	// CreateActivity persists a new activity. ID and CreatedAt are populated
	// by the store.
	CreateActivity(ctx context.Context, activity *models.Activity) error

	// UpdateActivity replaces name, amount and payer of an activity.
	UpdateActivity(ctx context.Context, activity *models.Activity) error

	// DeleteActivity removes an activity after removing its participant links.
	DeleteActivity(ctx context.Context, activityID string) error
}

// ParticipantStore persists activity/member links.
type ParticipantStore interface {
	// AddParticipant links a member to an activity. Adding an existing
	// (activity, member) pair returns the existing link unchanged.
	AddParticipant(ctx context.Context, participant *models.Participant) (*models.Participant, error)

	// ListParticipants returns the links of one activity.
	ListParticipants(ctx context.Context, activityID string) ([]*models.Participant, error)

	// RemoveAllParticipants removes every link of one activity.
	RemoveAllParticipants(ctx context.Context, activityID string) error
}

// TransactionStore persists settlement transactions.
type TransactionStore interface {
	// ListTransactions returns all transactions, most recent first.
	ListTransactions(ctx context.Context) ([]*models.Transaction, error)

	// GetTransaction retrieves a transaction by ID.
	GetTransaction(ctx context.Context, transactionID string) (*models.Transaction, error)

	// CreateTransaction persists a transaction. ID and CreatedAt are
	// populated by the store.
	CreateTransaction(ctx context.Context, transaction *models.Transaction) error

	// SetTransactionCompleted updates the completed flag and returns the
	// updated transaction.
	SetTransactionCompleted(ctx context.Context, transactionID string, completed bool) (*models.Transaction, error)

	// DeleteTransaction removes a transaction.
	DeleteTransaction(ctx context.Context, transactionID string) error
}
