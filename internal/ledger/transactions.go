package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	apperrors "github.com/mmynk/groupsplit/internal/errors"
	"github.com/mmynk/groupsplit/internal/models"
)

// TransferInput describes a transfer to persist.
type TransferInput struct {
	FromMemberID string
	ToMemberID   string
	Amount       int64
}

// ListTransactions returns persisted transactions, most recent first,
// resolved with both members. Inactive members are still resolved.
func (l *Ledger) ListTransactions(ctx context.Context) ([]*models.TransactionWithMembers, error) {
	transactions, err := l.store.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	cache := make(map[string]models.Member)
	lookup := func(id string) (models.Member, error) {
		if m, ok := cache[id]; ok {
			return m, nil
		}
		m, err := l.store.GetMember(ctx, id)
		if errors.Is(err, apperrors.ErrNotFound) {
			return models.Member{ID: id}, nil
		}
		if err != nil {
			return models.Member{}, err
		}
		cache[id] = *m
		return *m, nil
	}

	out := make([]*models.TransactionWithMembers, 0, len(transactions))
	for _, t := range transactions {
		from, err := lookup(t.FromMemberID)
		if err != nil {
			return nil, err
		}
		to, err := lookup(t.ToMemberID)
		if err != nil {
			return nil, err
		}
		out = append(out, &models.TransactionWithMembers{Transaction: *t, From: from, To: to})
	}
	return out, nil
}

// SaveTransaction persists a proposed transfer as completed.
func (l *Ledger) SaveTransaction(ctx context.Context, in TransferInput) (*models.Transaction, error) {
	if in.Amount <= 0 {
		return nil, apperrors.Validation("amount", "amount must be greater than zero")
	}
	if in.FromMemberID == "" {
		return nil, apperrors.Validation("fromMemberId", "sender is required")
	}
	if in.ToMemberID == "" {
		return nil, apperrors.Validation("toMemberId", "receiver is required")
	}
	if in.FromMemberID == in.ToMemberID {
		return nil, apperrors.Validation("toMemberId", "sender and receiver must differ")
	}
	for field, id := range map[string]string{"fromMemberId": in.FromMemberID, "toMemberId": in.ToMemberID} {
		if _, err := l.store.GetMember(ctx, id); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, apperrors.Validation(field, fmt.Sprintf("unknown member %s", id))
			}
			return nil, err
		}
	}

	t := &models.Transaction{
		FromMemberID: in.FromMemberID,
		ToMemberID:   in.ToMemberID,
		Amount:       in.Amount,
		Completed:    true,
	}
	if err := l.store.CreateTransaction(ctx, t); err != nil {
		return nil, err
	}
	slog.Info("Transaction saved", "transaction_id", t.ID, "amount", t.Amount)
	return t, nil
}

// SetTransactionCompleted toggles the completed flag of a persisted transaction.
func (l *Ledger) SetTransactionCompleted(ctx context.Context, transactionID string, completed bool) (*models.Transaction, error) {
	return l.store.SetTransactionCompleted(ctx, transactionID, completed)
}

// MarkAllTransactionsCompleted completes every incomplete persisted
// transaction one by one and returns the transactions re-read from storage.
// Already completed transactions are left alone.
func (l *Ledger) MarkAllTransactionsCompleted(ctx context.Context) (BatchResult, []*models.TransactionWithMembers, error) {
	ctx, span := l.tracer.Start(ctx, "ledger.MarkAllTransactionsCompleted")
	defer span.End()

	result, err := l.completeAll(ctx)
	if err != nil {
		return result, nil, err
	}
	span.SetAttributes(
		attribute.Int("ledger.items", len(result.Items)),
		attribute.Int("ledger.failed", len(result.Failed())),
	)

	transactions, err := l.ListTransactions(ctx)
	if err != nil {
		return result, nil, err
	}
	return result, transactions, nil
}

func (l *Ledger) completeAll(ctx context.Context) (BatchResult, error) {
	var result BatchResult
	transactions, err := l.store.ListTransactions(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to list transactions: %w", err)
	}
	for _, t := range transactions {
		if t.Completed {
			continue
		}
		_, err := l.store.SetTransactionCompleted(ctx, t.ID, true)
		if err != nil {
			slog.Warn("Failed to complete transaction", "transaction_id", t.ID, "error", err)
		}
		result.add(t.ID, err)
	}
	return result, nil
}

type transferKey struct {
	from, to string
	amount   int64
}

// FinishSession closes the session: it recomputes proposed transfers from a
// fresh snapshot, persists each one not already recorded as a completed
// transaction, then completes every incomplete persisted transaction. The
// session moves to Closing.
func (l *Ledger) FinishSession(ctx context.Context) (BatchResult, []*models.TransactionWithMembers, error) {
	ctx, span := l.tracer.Start(ctx, "ledger.FinishSession")
	defer span.End()

	snap, err := l.readSnapshot(ctx)
	if err != nil {
		span.RecordError(err)
		return BatchResult{}, nil, err
	}
	proposed := compute(snap).Transactions

	persisted, err := l.store.ListTransactions(ctx)
	if err != nil {
		return BatchResult{}, nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	recorded := make(map[transferKey]int)
	for _, t := range persisted {
		recorded[transferKey{t.FromMemberID, t.ToMemberID, t.Amount}]++
	}

	var result BatchResult
	for _, p := range proposed {
		key := transferKey{p.FromMemberID, p.ToMemberID, p.Amount}
		if recorded[key] > 0 {
			recorded[key]--
			continue
		}
		t := &models.Transaction{
			FromMemberID: p.FromMemberID,
			ToMemberID:   p.ToMemberID,
			Amount:       p.Amount,
			Completed:    true,
		}
		err := l.store.CreateTransaction(ctx, t)
		if err != nil {
			slog.Warn("Failed to persist transfer", "from", p.FromMemberID, "to", p.ToMemberID, "error", err)
		}
		result.add(fmt.Sprintf("%s->%s", p.FromMemberID, p.ToMemberID), err)
	}

	completed, err := l.completeAll(ctx)
	if err != nil {
		return result, nil, err
	}
	result.merge(completed)
	l.setState(StateClosing)

	span.SetAttributes(
		attribute.Int("ledger.proposed", len(proposed)),
		attribute.Int("ledger.items", len(result.Items)),
		attribute.Int("ledger.failed", len(result.Failed())),
	)
	slog.Info("Session finished", "items", len(result.Items), "failed", len(result.Failed()))

	transactions, err := l.ListTransactions(ctx)
	if err != nil {
		return result, nil, err
	}
	return result, transactions, nil
}

// Reset purges the session: every activity (with its participant links) and
// then every persisted transaction is deleted one by one. Members are kept and
// inactive members stay inactive. Results are recomputed from storage
// afterwards whatever the outcome. The session moves to Reset.
func (l *Ledger) Reset(ctx context.Context) (BatchResult, *Results, error) {
	ctx, span := l.tracer.Start(ctx, "ledger.Reset")
	defer span.End()

	result, err := l.deleteActivities(ctx)
	if err != nil {
		return result, nil, err
	}

	transactions, err := l.store.ListTransactions(ctx)
	if err != nil {
		return result, nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	for _, t := range transactions {
		err := l.store.DeleteTransaction(ctx, t.ID)
		if err != nil {
			slog.Warn("Failed to delete transaction", "transaction_id", t.ID, "error", err)
		}
		result.add(t.ID, err)
	}
	l.setState(StateReset)

	span.SetAttributes(
		attribute.Int("ledger.items", len(result.Items)),
		attribute.Int("ledger.failed", len(result.Failed())),
	)
	slog.Info("Session reset", "items", len(result.Items), "failed", len(result.Failed()))

	snap, err := l.readSnapshot(ctx)
	if err != nil {
		return result, nil, err
	}
	results := compute(snap)
	results.State = StateReset
	return result, results, nil
}
