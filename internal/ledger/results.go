package ledger

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/mmynk/groupsplit/internal/calculator"
)

// Summary aggregates the figures shown above the results table.
type Summary struct {
	TotalSpent       int64 // Sum of all activity amounts paid by active members
	MemberCount      int
	ActivityCount    int
	AveragePerMember int64 // floor(sum of shares / members), 0 without members
	RoundingLoss     int64 // Remainders dropped by equal division
}

// Results are balances and proposed transactions for the current activity set.
type Results struct {
	Balances     []calculator.MemberBalance
	Transactions []calculator.Transfer
	Summary      Summary
	State        State
}

func compute(snap *snapshot) *Results {
	refs := make([]calculator.MemberRef, len(snap.members))
	for i, m := range snap.members {
		refs[i] = calculator.MemberRef{ID: m.ID, Name: m.Name}
	}
	activities := make([]calculator.ActivityForBalance, len(snap.activities))
	for i, a := range snap.activities {
		ids := make([]string, len(a.Participants))
		for j, p := range a.Participants {
			ids[j] = p.ID
		}
		activities[i] = calculator.ActivityForBalance{
			Amount:         a.Amount,
			PayerID:        a.PayerID,
			ParticipantIDs: ids,
		}
	}

	balances := calculator.CalculateBalances(refs, activities)
	paid, shouldPay := calculator.Totals(balances)

	summary := Summary{
		TotalSpent:    paid,
		MemberCount:   len(refs),
		ActivityCount: len(activities),
		RoundingLoss:  calculator.RoundingLoss(activities),
	}
	if len(refs) > 0 {
		summary.AveragePerMember = shouldPay / int64(len(refs))
	}

	return &Results{
		Balances:     balances,
		Transactions: calculator.PlanSettlement(balances),
		Summary:      summary,
	}
}

// ReadResults computes balances and proposed transactions from a fresh
// snapshot without touching the session state. Reports use it.
func (l *Ledger) ReadResults(ctx context.Context) (*Results, error) {
	ctx, span := l.tracer.Start(ctx, "ledger.ReadResults")
	defer span.End()

	results, err := l.results(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	results.State = l.State()
	return results, nil
}

// ComputeResults recomputes balances and proposed transactions from a fresh
// snapshot. Nothing is persisted. The session moves to Reviewing.
func (l *Ledger) ComputeResults(ctx context.Context) (*Results, error) {
	ctx, span := l.tracer.Start(ctx, "ledger.ComputeResults")
	defer span.End()

	results, err := l.results(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	l.setState(StateReviewing)
	results.State = StateReviewing

	span.SetAttributes(
		attribute.Int("ledger.members", results.Summary.MemberCount),
		attribute.Int("ledger.activities", results.Summary.ActivityCount),
		attribute.Int("ledger.transfers", len(results.Transactions)),
	)
	return results, nil
}

func (l *Ledger) results(ctx context.Context) (*Results, error) {
	snap, err := l.readSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	return compute(snap), nil
}
