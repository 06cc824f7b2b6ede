package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/mmynk/groupsplit/internal/errors"
	"github.com/mmynk/groupsplit/internal/models"
	"github.com/mmynk/groupsplit/internal/storage/memory"
)

// flakyStore fails selected deletes, completions, participant links and
// reactivations.
type flakyStore struct {
	*memory.Store
	failDelete     map[string]bool
	failComplete   map[string]bool
	failAdd        map[string]bool // by member ID
	failReactivate bool
}

func (s *flakyStore) AddParticipant(ctx context.Context, p *models.Participant) (*models.Participant, error) {
	if s.failAdd[p.MemberID] {
		return nil, errors.New("disk full")
	}
	return s.Store.AddParticipant(ctx, p)
}

func (s *flakyStore) ReactivateMember(ctx context.Context, id string) (*models.Member, error) {
	if s.failReactivate {
		return nil, errors.New("disk full")
	}
	return s.Store.ReactivateMember(ctx, id)
}

func (s *flakyStore) DeleteActivity(ctx context.Context, id string) error {
	if s.failDelete[id] {
		return errors.New("disk full")
	}
	return s.Store.DeleteActivity(ctx, id)
}

func (s *flakyStore) SetTransactionCompleted(ctx context.Context, id string, completed bool) (*models.Transaction, error) {
	if s.failComplete[id] {
		return nil, errors.New("disk full")
	}
	return s.Store.SetTransactionCompleted(ctx, id, completed)
}

type fixture struct {
	ctx     context.Context
	store   *memory.Store
	ledger  *Ledger
	a, b, c *models.Member
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{ctx: context.Background(), store: memory.New()}
	f.ledger = New(f.store)
	f.a = f.member(t, "A")
	f.b = f.member(t, "B")
	f.c = f.member(t, "C")
	return f
}

func (f *fixture) member(t *testing.T, name string) *models.Member {
	t.Helper()
	m, _, err := f.ledger.CreateMember(f.ctx, MemberInput{Name: name})
	require.NoError(t, err)
	return m
}

func (f *fixture) activity(t *testing.T, name string, amount int64, payer *models.Member, participants ...*models.Member) *models.ActivityWithParticipants {
	t.Helper()
	in := ActivityInput{Name: name, Amount: amount, PayerID: payer.ID}
	for _, p := range participants {
		in.Participants = append(in.Participants, ParticipantInput{MemberID: p.ID})
	}
	a, err := f.ledger.CreateActivity(f.ctx, in)
	require.NoError(t, err)
	return a
}

func balancesByID(r *Results) map[string]int64 {
	out := make(map[string]int64, len(r.Balances))
	for _, b := range r.Balances {
		out[b.MemberID] = b.Balance
	}
	return out
}

func TestComputeResults_Lunch(t *testing.T) {
	f := newFixture(t)
	f.activity(t, "Lunch", 300, f.a, f.a, f.b, f.c)

	results, err := f.ledger.ComputeResults(f.ctx)
	require.NoError(t, err)

	assert.Equal(t, map[string]int64{f.a.ID: 200, f.b.ID: -100, f.c.ID: -100}, balancesByID(results))
	require.Len(t, results.Transactions, 2)
	for _, tr := range results.Transactions {
		assert.Equal(t, f.a.ID, tr.ToMemberID)
		assert.Equal(t, int64(100), tr.Amount)
	}
	assert.Equal(t, Summary{
		TotalSpent:       300,
		MemberCount:      3,
		ActivityCount:    1,
		AveragePerMember: 100,
	}, results.Summary)
	assert.Equal(t, StateReviewing, results.State)
	assert.Equal(t, StateReviewing, f.ledger.State())
}

func TestComputeResults_UnevenSplitKeepsRoundingLoss(t *testing.T) {
	f := newFixture(t)
	f.activity(t, "Snacks", 100, f.a, f.a, f.b, f.c)

	results, err := f.ledger.ComputeResults(f.ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(1), results.Summary.RoundingLoss)
	assert.Equal(t, map[string]int64{f.a.ID: 67, f.b.ID: -33, f.c.ID: -33}, balancesByID(results))
	var sent int64
	for _, tr := range results.Transactions {
		sent += tr.Amount
	}
	assert.Equal(t, int64(66), sent)
}

func TestCreateActivity_Validation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name  string
		in    ActivityInput
		field string
	}{
		{"blank name", ActivityInput{Name: "  ", Amount: 10, PayerID: f.a.ID}, "name"},
		{"zero amount", ActivityInput{Name: "X", Amount: 0, PayerID: f.a.ID}, "amount"},
		{"negative amount", ActivityInput{Name: "X", Amount: -5, PayerID: f.a.ID}, "amount"},
		{"missing payer", ActivityInput{Name: "X", Amount: 10}, "payerId"},
		{"unknown payer", ActivityInput{Name: "X", Amount: 10, PayerID: "nobody"}, "payerId"},
		{"unknown participant", ActivityInput{Name: "X", Amount: 10, PayerID: f.a.ID,
			Participants: []ParticipantInput{{MemberID: "nobody"}}}, "participants"},
		{"negative weight", ActivityInput{Name: "X", Amount: 10, PayerID: f.a.ID,
			Participants: []ParticipantInput{{MemberID: f.b.ID, Weight: -1}}}, "participants"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.ledger.CreateActivity(f.ctx, tt.in)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
			assert.Equal(t, tt.field, apperrors.FieldOf(err))
		})
	}

	activities, err := f.ledger.ListActivities(f.ctx)
	require.NoError(t, err)
	assert.Empty(t, activities)
}

func TestCreateActivity_DeduplicatesParticipants(t *testing.T) {
	f := newFixture(t)
	a := f.activity(t, "Taxi", 90, f.a, f.b, f.b, f.c)

	require.Len(t, a.Participants, 2)
	assert.Equal(t, f.b.ID, a.Participants[0].ID)
	assert.Equal(t, f.c.ID, a.Participants[1].ID)
	assert.Equal(t, f.a.ID, a.Payer.ID)
}

func TestUpdateActivity_ReplacesParticipants(t *testing.T) {
	f := newFixture(t)
	a := f.activity(t, "Lunch", 300, f.a, f.a, f.b, f.c)
	_, err := f.ledger.ComputeResults(f.ctx)
	require.NoError(t, err)

	in := ActivityInput{Name: "Dinner", Amount: 200, PayerID: f.b.ID,
		Participants: []ParticipantInput{{MemberID: f.a.ID}, {MemberID: f.b.ID}}}

	kept, err := f.ledger.UpdateActivity(f.ctx, a.ID, in, false)
	require.NoError(t, err)
	assert.Len(t, kept.Participants, 3)
	assert.Equal(t, StateOpen, f.ledger.State())

	replaced, err := f.ledger.UpdateActivity(f.ctx, a.ID, in, true)
	require.NoError(t, err)
	assert.Equal(t, "Dinner", replaced.Name)
	assert.Equal(t, int64(200), replaced.Amount)
	assert.Len(t, replaced.Participants, 2)

	_, err = f.ledger.UpdateActivity(f.ctx, "missing", in, true)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCreateMember_ReactivatesInactiveName(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.ledger.DeleteMember(f.ctx, f.c.ID))

	again, reactivated, err := f.ledger.CreateMember(f.ctx, MemberInput{Name: " c ", Phone: "0909"})
	require.NoError(t, err)
	assert.True(t, reactivated)
	assert.Equal(t, f.c.ID, again.ID)
	assert.Equal(t, "c", again.Name)
	assert.Equal(t, "0909", again.Phone)
	assert.True(t, again.Active)

	members, err := f.ledger.ListMembers(f.ctx)
	require.NoError(t, err)
	assert.Len(t, members, 3)
}

func TestCreateMember_FailedReactivationKeepsOldDetails(t *testing.T) {
	base := memory.New()
	store := &flakyStore{Store: base}
	l := New(store)
	ctx := context.Background()

	c, _, err := l.CreateMember(ctx, MemberInput{Name: "C", Phone: "0101"})
	require.NoError(t, err)
	require.NoError(t, l.DeleteMember(ctx, c.ID))

	store.failReactivate = true
	_, _, err = l.CreateMember(ctx, MemberInput{Name: "c", Phone: "0909"})
	require.Error(t, err)

	got, err := base.GetMember(ctx, c.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)
	assert.Equal(t, "C", got.Name)
	assert.Equal(t, "0101", got.Phone)

	store.failReactivate = false
	again, reactivated, err := l.CreateMember(ctx, MemberInput{Name: "c", Phone: "0909"})
	require.NoError(t, err)
	assert.True(t, reactivated)
	assert.True(t, again.Active)
	assert.Equal(t, "0909", again.Phone)
}

func TestUpdateActivity_FailedReplaceRestoresParticipants(t *testing.T) {
	base := memory.New()
	store := &flakyStore{Store: base, failAdd: map[string]bool{}}
	l := New(store)
	ctx := context.Background()

	a, _, err := l.CreateMember(ctx, MemberInput{Name: "A"})
	require.NoError(t, err)
	b, _, err := l.CreateMember(ctx, MemberInput{Name: "B"})
	require.NoError(t, err)
	c, _, err := l.CreateMember(ctx, MemberInput{Name: "C"})
	require.NoError(t, err)

	activity, err := l.CreateActivity(ctx, ActivityInput{
		Name: "Lunch", Amount: 300, PayerID: a.ID,
		Participants: []ParticipantInput{{MemberID: a.ID}, {MemberID: b.ID}},
	})
	require.NoError(t, err)
	_, err = l.ComputeResults(ctx)
	require.NoError(t, err)

	store.failAdd[c.ID] = true
	_, err = l.UpdateActivity(ctx, activity.ID, ActivityInput{
		Name: "Lunch", Amount: 300, PayerID: a.ID,
		Participants: []ParticipantInput{{MemberID: a.ID}, {MemberID: c.ID}},
	}, true)
	require.Error(t, err)
	assert.Equal(t, StateOpen, l.State())

	got, err := l.GetActivity(ctx, activity.ID)
	require.NoError(t, err)
	ids := make([]string, len(got.Participants))
	for i, p := range got.Participants {
		ids[i] = p.ID
	}
	assert.ElementsMatch(t, []string{a.ID, b.ID}, ids)
}

func TestReadResults_KeepsState(t *testing.T) {
	f := newFixture(t)
	f.activity(t, "Lunch", 300, f.a, f.a, f.b, f.c)
	_, _, err := f.ledger.FinishSession(f.ctx)
	require.NoError(t, err)

	results, err := f.ledger.ReadResults(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, StateClosing, results.State)
	assert.Equal(t, StateClosing, f.ledger.State())
	assert.Len(t, results.Balances, 3)
}

func TestCreateMember_ActiveDuplicateConflicts(t *testing.T) {
	f := newFixture(t)

	_, _, err := f.ledger.CreateMember(f.ctx, MemberInput{Name: "a"})
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	_, _, err = f.ledger.CreateMember(f.ctx, MemberInput{Name: "   "})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Equal(t, "name", apperrors.FieldOf(err))

	_, err = f.ledger.UpdateMember(f.ctx, f.b.ID, MemberInput{Name: "A"})
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	renamed, err := f.ledger.UpdateMember(f.ctx, f.b.ID, MemberInput{Name: "b"})
	require.NoError(t, err)
	assert.Equal(t, "b", renamed.Name)
}

func TestCreateMember_RejectsNonImageQRCode(t *testing.T) {
	f := newFixture(t)
	_, _, err := f.ledger.CreateMember(f.ctx, MemberInput{Name: "D", QRCode: "https://example.com/qr.png"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Equal(t, "qrCode", apperrors.FieldOf(err))
}

func TestDeleteMember(t *testing.T) {
	f := newFixture(t)
	f.activity(t, "Lunch", 300, f.a, f.a, f.b, f.c)

	err := f.ledger.DeleteMember(f.ctx, f.a.ID)
	assert.ErrorIs(t, err, apperrors.ErrConstraint)
	assert.NotErrorIs(t, err, apperrors.ErrNotFound)

	assert.ErrorIs(t, f.ledger.DeleteMember(f.ctx, "missing"), apperrors.ErrNotFound)

	require.NoError(t, f.ledger.DeleteMember(f.ctx, f.c.ID))
	results, err := f.ledger.ComputeResults(f.ctx)
	require.NoError(t, err)
	// C drops out of balances and out of the share count.
	assert.Equal(t, map[string]int64{f.a.ID: 150, f.b.ID: -150}, balancesByID(results))
}

func TestSaveTransaction(t *testing.T) {
	f := newFixture(t)

	saved, err := f.ledger.SaveTransaction(f.ctx, TransferInput{FromMemberID: f.b.ID, ToMemberID: f.a.ID, Amount: 100})
	require.NoError(t, err)
	assert.True(t, saved.Completed)

	_, err = f.ledger.SaveTransaction(f.ctx, TransferInput{FromMemberID: f.b.ID, ToMemberID: f.a.ID})
	assert.Equal(t, "amount", apperrors.FieldOf(err))
	_, err = f.ledger.SaveTransaction(f.ctx, TransferInput{FromMemberID: f.b.ID, ToMemberID: f.b.ID, Amount: 5})
	assert.Equal(t, "toMemberId", apperrors.FieldOf(err))
	_, err = f.ledger.SaveTransaction(f.ctx, TransferInput{FromMemberID: "ghost", ToMemberID: f.a.ID, Amount: 5})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Equal(t, "fromMemberId", apperrors.FieldOf(err))

	list, err := f.ledger.ListTransactions(f.ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "B", list[0].From.Name)
	assert.Equal(t, "A", list[0].To.Name)

	toggled, err := f.ledger.SetTransactionCompleted(f.ctx, saved.ID, false)
	require.NoError(t, err)
	assert.False(t, toggled.Completed)

	_, err = f.ledger.SetTransactionCompleted(f.ctx, "missing", true)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestMarkAllTransactionsCompleted_ReportsFailures(t *testing.T) {
	base := memory.New()
	store := &flakyStore{Store: base, failComplete: map[string]bool{}}
	l := New(store)
	ctx := context.Background()

	a, _, err := l.CreateMember(ctx, MemberInput{Name: "A"})
	require.NoError(t, err)
	b, _, err := l.CreateMember(ctx, MemberInput{Name: "B"})
	require.NoError(t, err)

	var ids []string
	for _, amount := range []int64{10, 20, 30} {
		tx := &models.Transaction{FromMemberID: b.ID, ToMemberID: a.ID, Amount: amount}
		require.NoError(t, base.CreateTransaction(ctx, tx))
		ids = append(ids, tx.ID)
	}
	store.failComplete[ids[1]] = true

	result, transactions, err := l.MarkAllTransactionsCompleted(ctx)
	require.NoError(t, err)
	assert.False(t, result.OK())
	assert.Equal(t, 2, result.Succeeded())
	require.Len(t, result.Failed(), 1)
	assert.Equal(t, ids[1], result.Failed()[0].ID)
	assert.Error(t, result.Err())

	// Re-read from storage: the failed one is still incomplete.
	require.Len(t, transactions, 3)
	for _, tx := range transactions {
		assert.Equal(t, tx.ID != ids[1], tx.Completed, "transaction %s", tx.ID)
	}

	// Idempotent once the failure clears.
	delete(store.failComplete, ids[1])
	result, _, err = l.MarkAllTransactionsCompleted(ctx)
	require.NoError(t, err)
	assert.True(t, result.OK())
	assert.Len(t, result.Items, 1)

	result, _, err = l.MarkAllTransactionsCompleted(ctx)
	require.NoError(t, err)
	assert.True(t, result.OK())
	assert.Empty(t, result.Items)
}

func TestDeleteAllActivities_PartialFailureResyncs(t *testing.T) {
	base := memory.New()
	store := &flakyStore{Store: base, failDelete: map[string]bool{}}
	l := New(store)
	ctx := context.Background()

	a, _, err := l.CreateMember(ctx, MemberInput{Name: "A"})
	require.NoError(t, err)
	var ids []string
	for _, name := range []string{"One", "Two", "Three"} {
		act, err := l.CreateActivity(ctx, ActivityInput{Name: name, Amount: 10, PayerID: a.ID,
			Participants: []ParticipantInput{{MemberID: a.ID}}})
		require.NoError(t, err)
		ids = append(ids, act.ID)
	}
	store.failDelete[ids[1]] = true

	result, remaining, err := l.DeleteAllActivities(ctx)
	require.NoError(t, err)
	assert.False(t, result.OK())
	assert.Equal(t, 2, result.Succeeded())
	require.Len(t, remaining, 1)
	assert.Equal(t, ids[1], remaining[0].ID)
}

func TestFinishSession(t *testing.T) {
	f := newFixture(t)
	f.activity(t, "Lunch", 300, f.a, f.a, f.b, f.c)

	// B already paid and recorded it.
	_, err := f.ledger.SaveTransaction(f.ctx, TransferInput{FromMemberID: f.b.ID, ToMemberID: f.a.ID, Amount: 100})
	require.NoError(t, err)
	// An older incomplete record.
	old := &models.Transaction{FromMemberID: f.c.ID, ToMemberID: f.b.ID, Amount: 5}
	require.NoError(t, f.store.CreateTransaction(f.ctx, old))

	result, transactions, err := f.ledger.FinishSession(f.ctx)
	require.NoError(t, err)
	assert.True(t, result.OK())
	// One new transfer (C->A) and one completion.
	assert.Len(t, result.Items, 2)
	assert.Equal(t, StateClosing, f.ledger.State())

	require.Len(t, transactions, 3)
	for _, tx := range transactions {
		assert.True(t, tx.Completed)
	}
	assert.Equal(t, f.c.ID, transactions[0].FromMemberID)
	assert.Equal(t, f.a.ID, transactions[0].ToMemberID)
	assert.Equal(t, int64(100), transactions[0].Amount)
}

func TestReset_LeavesMembersOnly(t *testing.T) {
	f := newFixture(t)
	d := f.member(t, "D")
	f.activity(t, "Lunch", 300, f.a, f.a, f.b, f.c)
	f.activity(t, "Taxi", 100, f.b, f.b, f.c)
	require.NoError(t, f.ledger.DeleteMember(f.ctx, d.ID))

	_, _, err := f.ledger.FinishSession(f.ctx)
	require.NoError(t, err)
	_, _, err = f.ledger.MarkAllTransactionsCompleted(f.ctx)
	require.NoError(t, err)

	result, results, err := f.ledger.Reset(f.ctx)
	require.NoError(t, err)
	assert.True(t, result.OK())
	assert.Equal(t, StateReset, f.ledger.State())
	assert.Equal(t, StateReset, results.State)

	activities, err := f.store.ListActivities(f.ctx)
	require.NoError(t, err)
	assert.Empty(t, activities)
	transactions, err := f.store.ListTransactions(f.ctx)
	require.NoError(t, err)
	assert.Empty(t, transactions)

	members, err := f.ledger.ListMembers(f.ctx)
	require.NoError(t, err)
	assert.Len(t, members, 3)
	inactive, err := f.ledger.GetMember(f.ctx, d.ID)
	require.NoError(t, err)
	assert.False(t, inactive.Active)

	for _, b := range results.Balances {
		assert.Zero(t, b.Balance)
	}
	assert.Empty(t, results.Transactions)

	// The next activity reopens the session.
	f.activity(t, "Coffee", 30, f.a, f.a)
	assert.Equal(t, StateOpen, f.ledger.State())
}

func TestSearchMembers_IncludesInactiveOnEmptyQuery(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.ledger.DeleteMember(f.ctx, f.c.ID))

	all, err := f.ledger.SearchMembers(f.ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	found, err := f.ledger.SearchMembers(f.ctx, "b")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, f.b.ID, found[0].ID)
}
