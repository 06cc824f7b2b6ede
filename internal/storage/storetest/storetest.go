// Package storetest holds behaviour tests shared by every storage.Store
// implementation.
package storetest

import (
	"context"
	"errors"
	"testing"

	apperrors "github.com/mmynk/groupsplit/internal/errors"
	"github.com/mmynk/groupsplit/internal/models"
	"github.com/mmynk/groupsplit/internal/storage"
)

// Factory returns a fresh, empty store. The store is closed by the suite.
type Factory func(t *testing.T) storage.Store

// Run exercises a storage.Store implementation.
func Run(t *testing.T, newStore Factory) {
	tests := []struct {
		name string
		fn   func(t *testing.T, s storage.Store)
	}{
		{"CreateMember generates ID and timestamps", testCreateMember},
		{"GetMember not found", testGetMemberNotFound},
		{"ListActiveMembers skips inactive", testListActiveMembers},
		{"SearchMembers folds case", testSearchMembers},
		{"FindMembersByName matches exactly", testFindMembersByName},
		{"UpdateMember keeps active flag", testUpdateMember},
		{"DeactivateMember refuses payers", testDeactivatePayer},
		{"ReactivateMember", testReactivateMember},
		{"Activity lifecycle", testActivityLifecycle},
		{"CreateActivity requires payer", testCreateActivityUnknownPayer},
		{"AddParticipant is idempotent", testAddParticipantIdempotent},
		{"AddParticipant requires activity and member", testAddParticipantMissing},
		{"DeleteActivity removes participants", testDeleteActivityCascade},
		{"Transactions newest first", testTransactionsOrder},
		{"SetTransactionCompleted", testSetTransactionCompleted},
		{"DeleteTransaction", testDeleteTransaction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStore(t)
			defer s.Close()
			tt.fn(t, s)
		})
	}
}

func mustMember(t *testing.T, s storage.Store, name string) *models.Member {
	t.Helper()
	m := &models.Member{Name: name, Active: true}
	if err := s.CreateMember(context.Background(), m); err != nil {
		t.Fatalf("CreateMember(%q) failed: %v", name, err)
	}
	return m
}

func mustActivity(t *testing.T, s storage.Store, name string, amount int64, payerID string) *models.Activity {
	t.Helper()
	a := &models.Activity{Name: name, Amount: amount, PayerID: payerID}
	if err := s.CreateActivity(context.Background(), a); err != nil {
		t.Fatalf("CreateActivity(%q) failed: %v", name, err)
	}
	return a
}

func ids(members []*models.Member) []string {
	out := make([]string, len(members))
	for i, m := range members {
		out[i] = m.ID
	}
	return out
}

func sameIDs(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func testCreateMember(t *testing.T, s storage.Store) {
	m := &models.Member{
		Name:   "An",
		Phone:  "0901234567",
		Active: true,
		Bank:   models.BankAccount{Code: "VCB", BIN: "970436", Name: "Vietcombank", AccountName: "NGUYEN VAN AN", AccountNo: "0011"},
	}
	if err := s.CreateMember(context.Background(), m); err != nil {
		t.Fatalf("CreateMember failed: %v", err)
	}
	if m.ID == "" {
		t.Error("Expected member ID to be generated")
	}
	if m.CreatedAt == 0 || m.UpdatedAt == 0 {
		t.Error("Expected timestamps to be set")
	}

	got, err := s.GetMember(context.Background(), m.ID)
	if err != nil {
		t.Fatalf("GetMember failed: %v", err)
	}
	if got.Name != "An" || got.Phone != "0901234567" || !got.Active {
		t.Errorf("GetMember = %+v", got)
	}
	if got.Bank != m.Bank {
		t.Errorf("bank = %+v, want %+v", got.Bank, m.Bank)
	}
}

func testGetMemberNotFound(t *testing.T, s storage.Store) {
	_, err := s.GetMember(context.Background(), "missing")
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func testListActiveMembers(t *testing.T, s storage.Store) {
	ctx := context.Background()
	a := mustMember(t, s, "A")
	b := mustMember(t, s, "B")
	c := mustMember(t, s, "C")

	if err := s.DeactivateMember(ctx, b.ID); err != nil {
		t.Fatalf("DeactivateMember failed: %v", err)
	}

	got, err := s.ListActiveMembers(ctx)
	if err != nil {
		t.Fatalf("ListActiveMembers failed: %v", err)
	}
	if want := []string{a.ID, c.ID}; !sameIDs(ids(got), want) {
		t.Errorf("active members = %v, want %v", ids(got), want)
	}

	// Deactivated members are still retrievable directly.
	inactive, err := s.GetMember(ctx, b.ID)
	if err != nil {
		t.Fatalf("GetMember failed: %v", err)
	}
	if inactive.Active {
		t.Error("expected member to be inactive")
	}
}

func testSearchMembers(t *testing.T, s storage.Store) {
	ctx := context.Background()
	duc := mustMember(t, s, "Đức Anh")
	mustMember(t, s, "Bình")
	minh := mustMember(t, s, "Minh Đức")
	if err := s.DeactivateMember(ctx, minh.ID); err != nil {
		t.Fatalf("DeactivateMember failed: %v", err)
	}

	got, err := s.SearchMembers(ctx, "ĐỨC")
	if err != nil {
		t.Fatalf("SearchMembers failed: %v", err)
	}
	if want := []string{duc.ID, minh.ID}; !sameIDs(ids(got), want) {
		t.Errorf("search = %v, want %v", ids(got), want)
	}

	all, err := s.SearchMembers(ctx, "")
	if err != nil {
		t.Fatalf("SearchMembers failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("empty query returned %d members, want 3", len(all))
	}
}

func testFindMembersByName(t *testing.T, s storage.Store) {
	ctx := context.Background()
	an := mustMember(t, s, "An")
	mustMember(t, s, "Anh")

	got, err := s.FindMembersByName(ctx, "  an ")
	if err != nil {
		t.Fatalf("FindMembersByName failed: %v", err)
	}
	if want := []string{an.ID}; !sameIDs(ids(got), want) {
		t.Errorf("find = %v, want %v", ids(got), want)
	}

	none, err := s.FindMembersByName(ctx, "Binh")
	if err != nil {
		t.Fatalf("FindMembersByName failed: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("expected no matches, got %v", ids(none))
	}
}

func testUpdateMember(t *testing.T, s storage.Store) {
	ctx := context.Background()
	m := mustMember(t, s, "Old")

	update := &models.Member{ID: m.ID, Name: "New", Phone: "123"}
	if err := s.UpdateMember(ctx, update); err != nil {
		t.Fatalf("UpdateMember failed: %v", err)
	}
	got, err := s.GetMember(ctx, m.ID)
	if err != nil {
		t.Fatalf("GetMember failed: %v", err)
	}
	if got.Name != "New" || got.Phone != "123" {
		t.Errorf("member = %+v", got)
	}
	if !got.Active {
		t.Error("update must not change the active flag")
	}
	if got.CreatedAt != m.CreatedAt {
		t.Errorf("CreatedAt changed from %d to %d", m.CreatedAt, got.CreatedAt)
	}

	err = s.UpdateMember(ctx, &models.Member{ID: "missing", Name: "X"})
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func testDeactivatePayer(t *testing.T, s storage.Store) {
	ctx := context.Background()
	payer := mustMember(t, s, "Payer")
	mustActivity(t, s, "Lunch", 300, payer.ID)

	err := s.DeactivateMember(ctx, payer.ID)
	if !errors.Is(err, apperrors.ErrConstraint) {
		t.Fatalf("expected constraint error, got %v", err)
	}
	got, err := s.GetMember(ctx, payer.ID)
	if err != nil {
		t.Fatalf("GetMember failed: %v", err)
	}
	if !got.Active {
		t.Error("payer must stay active")
	}

	if err := s.DeactivateMember(ctx, "missing"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func testReactivateMember(t *testing.T, s storage.Store) {
	ctx := context.Background()
	m := mustMember(t, s, "Lan")
	if err := s.DeactivateMember(ctx, m.ID); err != nil {
		t.Fatalf("DeactivateMember failed: %v", err)
	}

	got, err := s.ReactivateMember(ctx, m.ID)
	if err != nil {
		t.Fatalf("ReactivateMember failed: %v", err)
	}
	if !got.Active || got.ID != m.ID {
		t.Errorf("reactivated = %+v", got)
	}

	if _, err := s.ReactivateMember(ctx, "missing"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func testActivityLifecycle(t *testing.T, s storage.Store) {
	ctx := context.Background()
	a := mustMember(t, s, "A")
	b := mustMember(t, s, "B")

	first := mustActivity(t, s, "Lunch", 300, a.ID)
	second := mustActivity(t, s, "Taxi", 90, b.ID)
	if first.ID == "" || first.CreatedAt == 0 {
		t.Errorf("expected ID and CreatedAt, got %+v", first)
	}

	list, err := s.ListActivities(ctx)
	if err != nil {
		t.Fatalf("ListActivities failed: %v", err)
	}
	if len(list) != 2 || list[0].ID != first.ID || list[1].ID != second.ID {
		t.Fatalf("ListActivities = %+v", list)
	}

	update := &models.Activity{ID: first.ID, Name: "Dinner", Amount: 450, PayerID: b.ID}
	if err := s.UpdateActivity(ctx, update); err != nil {
		t.Fatalf("UpdateActivity failed: %v", err)
	}
	got, err := s.GetActivity(ctx, first.ID)
	if err != nil {
		t.Fatalf("GetActivity failed: %v", err)
	}
	if got.Name != "Dinner" || got.Amount != 450 || got.PayerID != b.ID {
		t.Errorf("activity = %+v", got)
	}
	if got.CreatedAt != first.CreatedAt {
		t.Errorf("CreatedAt changed from %d to %d", first.CreatedAt, got.CreatedAt)
	}

	if err := s.DeleteActivity(ctx, second.ID); err != nil {
		t.Fatalf("DeleteActivity failed: %v", err)
	}
	if _, err := s.GetActivity(ctx, second.ID); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("expected not found after delete, got %v", err)
	}
	if err := s.DeleteActivity(ctx, second.ID); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("expected not found on second delete, got %v", err)
	}
	err = s.UpdateActivity(ctx, &models.Activity{ID: "missing", Name: "X", Amount: 1, PayerID: a.ID})
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func testCreateActivityUnknownPayer(t *testing.T, s storage.Store) {
	err := s.CreateActivity(context.Background(), &models.Activity{Name: "Ghost", Amount: 10, PayerID: "missing"})
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func testAddParticipantIdempotent(t *testing.T, s storage.Store) {
	ctx := context.Background()
	a := mustMember(t, s, "A")
	act := mustActivity(t, s, "Lunch", 300, a.ID)

	first, err := s.AddParticipant(ctx, &models.Participant{ActivityID: act.ID, MemberID: a.ID})
	if err != nil {
		t.Fatalf("AddParticipant failed: %v", err)
	}
	if first.Weight != models.DefaultWeight {
		t.Errorf("weight = %v, want default %v", first.Weight, models.DefaultWeight)
	}

	second, err := s.AddParticipant(ctx, &models.Participant{ActivityID: act.ID, MemberID: a.ID, Weight: 3})
	if err != nil {
		t.Fatalf("AddParticipant failed: %v", err)
	}
	if second.ID != first.ID || second.Weight != first.Weight {
		t.Errorf("duplicate add = %+v, want existing %+v", second, first)
	}

	links, err := s.ListParticipants(ctx, act.ID)
	if err != nil {
		t.Fatalf("ListParticipants failed: %v", err)
	}
	if len(links) != 1 {
		t.Errorf("got %d links, want 1", len(links))
	}
}

func testAddParticipantMissing(t *testing.T, s storage.Store) {
	ctx := context.Background()
	a := mustMember(t, s, "A")
	act := mustActivity(t, s, "Lunch", 300, a.ID)

	if _, err := s.AddParticipant(ctx, &models.Participant{ActivityID: "missing", MemberID: a.ID}); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("unknown activity: expected not found, got %v", err)
	}
	if _, err := s.AddParticipant(ctx, &models.Participant{ActivityID: act.ID, MemberID: "missing"}); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("unknown member: expected not found, got %v", err)
	}
}

func testDeleteActivityCascade(t *testing.T, s storage.Store) {
	ctx := context.Background()
	a := mustMember(t, s, "A")
	b := mustMember(t, s, "B")
	act := mustActivity(t, s, "Lunch", 300, a.ID)
	keep := mustActivity(t, s, "Taxi", 60, a.ID)

	for _, m := range []*models.Member{a, b} {
		for _, target := range []*models.Activity{act, keep} {
			if _, err := s.AddParticipant(ctx, &models.Participant{ActivityID: target.ID, MemberID: m.ID}); err != nil {
				t.Fatalf("AddParticipant failed: %v", err)
			}
		}
	}

	if err := s.DeleteActivity(ctx, act.ID); err != nil {
		t.Fatalf("DeleteActivity failed: %v", err)
	}
	links, err := s.ListParticipants(ctx, act.ID)
	if err != nil {
		t.Fatalf("ListParticipants failed: %v", err)
	}
	if len(links) != 0 {
		t.Errorf("deleted activity still has %d links", len(links))
	}
	kept, err := s.ListParticipants(ctx, keep.ID)
	if err != nil {
		t.Fatalf("ListParticipants failed: %v", err)
	}
	if len(kept) != 2 {
		t.Errorf("other activity has %d links, want 2", len(kept))
	}

	if err := s.RemoveAllParticipants(ctx, keep.ID); err != nil {
		t.Fatalf("RemoveAllParticipants failed: %v", err)
	}
	kept, _ = s.ListParticipants(ctx, keep.ID)
	if len(kept) != 0 {
		t.Errorf("RemoveAllParticipants left %d links", len(kept))
	}
}

func testTransactionsOrder(t *testing.T, s storage.Store) {
	ctx := context.Background()
	a := mustMember(t, s, "A")
	b := mustMember(t, s, "B")

	var created []string
	for _, amount := range []int64{10, 20, 30} {
		tx := &models.Transaction{FromMemberID: b.ID, ToMemberID: a.ID, Amount: amount}
		if err := s.CreateTransaction(ctx, tx); err != nil {
			t.Fatalf("CreateTransaction failed: %v", err)
		}
		if tx.ID == "" || tx.CreatedAt == 0 {
			t.Errorf("expected ID and CreatedAt, got %+v", tx)
		}
		created = append(created, tx.ID)
	}

	list, err := s.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("ListTransactions failed: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("got %d transactions, want 3", len(list))
	}
	for i, tx := range list {
		if want := created[len(created)-1-i]; tx.ID != want {
			t.Errorf("transaction %d = %s, want %s", i, tx.ID, want)
		}
	}

	err = s.CreateTransaction(ctx, &models.Transaction{FromMemberID: "missing", ToMemberID: a.ID, Amount: 5})
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func testSetTransactionCompleted(t *testing.T, s storage.Store) {
	ctx := context.Background()
	a := mustMember(t, s, "A")
	b := mustMember(t, s, "B")
	tx := &models.Transaction{FromMemberID: b.ID, ToMemberID: a.ID, Amount: 100}
	if err := s.CreateTransaction(ctx, tx); err != nil {
		t.Fatalf("CreateTransaction failed: %v", err)
	}

	got, err := s.SetTransactionCompleted(ctx, tx.ID, true)
	if err != nil {
		t.Fatalf("SetTransactionCompleted failed: %v", err)
	}
	if !got.Completed || got.Amount != 100 {
		t.Errorf("transaction = %+v", got)
	}

	got, err = s.SetTransactionCompleted(ctx, tx.ID, false)
	if err != nil {
		t.Fatalf("SetTransactionCompleted failed: %v", err)
	}
	if got.Completed {
		t.Error("expected completed to be cleared")
	}

	if _, err := s.SetTransactionCompleted(ctx, "missing", true); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func testDeleteTransaction(t *testing.T, s storage.Store) {
	ctx := context.Background()
	a := mustMember(t, s, "A")
	b := mustMember(t, s, "B")
	tx := &models.Transaction{FromMemberID: b.ID, ToMemberID: a.ID, Amount: 100}
	if err := s.CreateTransaction(ctx, tx); err != nil {
		t.Fatalf("CreateTransaction failed: %v", err)
	}

	if err := s.DeleteTransaction(ctx, tx.ID); err != nil {
		t.Fatalf("DeleteTransaction failed: %v", err)
	}
	if _, err := s.GetTransaction(ctx, tx.ID); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("expected not found after delete, got %v", err)
	}
	if err := s.DeleteTransaction(ctx, tx.ID); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("expected not found on second delete, got %v", err)
	}
}
