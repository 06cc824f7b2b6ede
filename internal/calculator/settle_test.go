package calculator

import (
	"math/rand/v2"
	"testing"
)

func sums(transfers []Transfer) (sent, received map[string]int64) {
	sent = make(map[string]int64)
	received = make(map[string]int64)
	for _, tr := range transfers {
		sent[tr.FromMemberID] += tr.Amount
		received[tr.ToMemberID] += tr.Amount
	}
	return sent, received
}

func TestPlanSettlement(t *testing.T) {
	tests := []struct {
		name     string
		balances []MemberBalance
		want     []Transfer
	}{
		{
			name: "lunch scenario",
			balances: []MemberBalance{
				{MemberID: "a", Balance: 200},
				{MemberID: "b", Balance: -100},
				{MemberID: "c", Balance: -100},
			},
			want: []Transfer{
				{FromMemberID: "b", ToMemberID: "a", Amount: 100},
				{FromMemberID: "c", ToMemberID: "a", Amount: 100},
			},
		},
		{
			name: "largest debtor pays largest creditor first",
			balances: []MemberBalance{
				{MemberID: "a", Balance: 30},
				{MemberID: "b", Balance: -80},
				{MemberID: "c", Balance: 50},
				{MemberID: "d", Balance: -0},
			},
			want: []Transfer{
				{FromMemberID: "b", ToMemberID: "c", Amount: 50},
				{FromMemberID: "b", ToMemberID: "a", Amount: 30},
			},
		},
		{
			name: "creditor state carries across debtors",
			balances: []MemberBalance{
				{MemberID: "a", Balance: 70},
				{MemberID: "b", Balance: 30},
				{MemberID: "c", Balance: -60},
				{MemberID: "d", Balance: -40},
			},
			want: []Transfer{
				{FromMemberID: "c", ToMemberID: "a", Amount: 60},
				{FromMemberID: "d", ToMemberID: "a", Amount: 10},
				{FromMemberID: "d", ToMemberID: "b", Amount: 30},
			},
		},
		{
			name: "all settled",
			balances: []MemberBalance{
				{MemberID: "a"}, {MemberID: "b"}, {MemberID: "c"},
			},
			want: nil,
		},
		{
			name:     "empty input",
			balances: nil,
			want:     nil,
		},
		{
			name: "rounding loss leaves credit unresolved",
			balances: []MemberBalance{
				{MemberID: "a", Balance: 67},
				{MemberID: "b", Balance: -33},
				{MemberID: "c", Balance: -33},
			},
			want: []Transfer{
				{FromMemberID: "b", ToMemberID: "a", Amount: 33},
				{FromMemberID: "c", ToMemberID: "a", Amount: 33},
			},
		},
		{
			name: "debt exceeding credit leaves debt unresolved",
			balances: []MemberBalance{
				{MemberID: "a", Balance: 10},
				{MemberID: "b", Balance: -15},
			},
			want: []Transfer{
				{FromMemberID: "b", ToMemberID: "a", Amount: 10},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PlanSettlement(tt.balances)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d transfers %+v, want %d %+v", len(got), got, len(tt.want), tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("transfer %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestPlanSettlement_DoesNotMutateInput(t *testing.T) {
	balances := []MemberBalance{
		{MemberID: "a", Balance: 200},
		{MemberID: "b", Balance: -100},
		{MemberID: "c", Balance: -100},
	}
	snapshot := append([]MemberBalance(nil), balances...)

	PlanSettlement(balances)

	for i := range balances {
		if balances[i] != snapshot[i] {
			t.Errorf("balance %d changed: %+v, was %+v", i, balances[i], snapshot[i])
		}
	}
}

func TestResidual(t *testing.T) {
	balances := []MemberBalance{
		{MemberID: "a", Balance: 67},
		{MemberID: "b", Balance: -33},
		{MemberID: "c", Balance: -33},
	}
	debt, credit := Residual(balances, PlanSettlement(balances))
	if debt != 0 || credit != 1 {
		t.Errorf("Residual = (%d, %d), want (0, 1)", debt, credit)
	}
}

// End to end over random activity sets: every creditor receives exactly its
// credit and every debtor sends exactly its debt, up to the rounding loss,
// and no transfer is empty.
func TestPlanSettlement_RandomizedInvariants(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 5))
	members := []MemberRef{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}, {ID: "e"}, {ID: "f"}}

	for round := 0; round < 300; round++ {
		var activities []ActivityForBalance
		for n := 1 + rng.IntN(6); n > 0; n-- {
			var participants []string
			for _, m := range members {
				if rng.IntN(3) != 0 {
					participants = append(participants, m.ID)
				}
			}
			activities = append(activities, ActivityForBalance{
				Amount:         int64(1 + rng.IntN(5000)),
				PayerID:        members[rng.IntN(len(members))].ID,
				ParticipantIDs: participants,
			})
		}

		balances := CalculateBalances(members, activities)
		transfers := PlanSettlement(balances)
		sent, received := sums(transfers)

		var totalDebt, totalCredit int64
		for _, b := range balances {
			if b.Balance < 0 {
				totalDebt -= b.Balance
			} else {
				totalCredit += b.Balance
			}
		}

		for _, tr := range transfers {
			if tr.Amount <= 0 {
				t.Fatalf("round %d: non-positive transfer %+v", round, tr)
			}
			if tr.FromMemberID == tr.ToMemberID {
				t.Fatalf("round %d: self transfer %+v", round, tr)
			}
		}

		for _, b := range balances {
			switch {
			case b.Balance > 0 && received[b.MemberID] > b.Balance:
				t.Fatalf("round %d: %s received %d, more than credit %d", round, b.MemberID, received[b.MemberID], b.Balance)
			case b.Balance < 0 && sent[b.MemberID] != -b.Balance:
				// Credits exceed debts by the rounding loss, so every debt is covered.
				t.Fatalf("round %d: %s sent %d, want debt %d", round, b.MemberID, sent[b.MemberID], -b.Balance)
			case b.Balance == 0 && (sent[b.MemberID] != 0 || received[b.MemberID] != 0):
				t.Fatalf("round %d: settled member %s appears in transfers", round, b.MemberID)
			}
		}

		debt, credit := Residual(balances, transfers)
		if debt != 0 {
			t.Fatalf("round %d: residual debt %d, want 0", round, debt)
		}
		if credit != totalCredit-totalDebt {
			t.Fatalf("round %d: residual credit %d, want %d", round, credit, totalCredit-totalDebt)
		}
	}
}
