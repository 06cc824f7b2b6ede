package calculator

import (
	"math/rand/v2"
	"testing"
)

var abc = []MemberRef{
	{ID: "a", Name: "Alice"},
	{ID: "b", Name: "Bob"},
	{ID: "c", Name: "Charlie"},
}

func balanceOf(t *testing.T, balances []MemberBalance, id string) MemberBalance {
	t.Helper()
	for _, b := range balances {
		if b.MemberID == id {
			return b
		}
	}
	t.Fatalf("no balance for member %s", id)
	return MemberBalance{}
}

func TestCalculateBalances(t *testing.T) {
	tests := []struct {
		name       string
		activities []ActivityForBalance
		want       map[string]MemberBalance
	}{
		{
			name: "lunch split three ways",
			activities: []ActivityForBalance{
				{Amount: 300, PayerID: "a", ParticipantIDs: []string{"a", "b", "c"}},
			},
			want: map[string]MemberBalance{
				"a": {Paid: 300, ShouldPay: 100, Balance: 200},
				"b": {Paid: 0, ShouldPay: 100, Balance: -100},
				"c": {Paid: 0, ShouldPay: 100, Balance: -100},
			},
		},
		{
			name: "uneven split floors the share",
			activities: []ActivityForBalance{
				{Amount: 100, PayerID: "a", ParticipantIDs: []string{"a", "b", "c"}},
			},
			want: map[string]MemberBalance{
				"a": {Paid: 100, ShouldPay: 33, Balance: 67},
				"b": {Paid: 0, ShouldPay: 33, Balance: -33},
				"c": {Paid: 0, ShouldPay: 33, Balance: -33},
			},
		},
		{
			name: "no participants counts paid only",
			activities: []ActivityForBalance{
				{Amount: 50, PayerID: "b"},
			},
			want: map[string]MemberBalance{
				"a": {},
				"b": {Paid: 50, Balance: 50},
				"c": {},
			},
		},
		{
			name: "payer outside the group",
			activities: []ActivityForBalance{
				{Amount: 200, PayerID: "zed", ParticipantIDs: []string{"a", "b"}},
			},
			want: map[string]MemberBalance{
				"a": {ShouldPay: 100, Balance: -100},
				"b": {ShouldPay: 100, Balance: -100},
				"c": {},
			},
		},
		{
			name: "several activities accumulate",
			activities: []ActivityForBalance{
				{Amount: 300, PayerID: "a", ParticipantIDs: []string{"a", "b", "c"}},
				{Amount: 120, PayerID: "b", ParticipantIDs: []string{"b", "c"}},
			},
			want: map[string]MemberBalance{
				"a": {Paid: 300, ShouldPay: 100, Balance: 200},
				"b": {Paid: 120, ShouldPay: 160, Balance: -40},
				"c": {Paid: 0, ShouldPay: 160, Balance: -160},
			},
		},
		{
			name: "no activities",
			want: map[string]MemberBalance{"a": {}, "b": {}, "c": {}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateBalances(abc, tt.activities)
			if len(got) != len(abc) {
				t.Fatalf("got %d balances, want %d", len(got), len(abc))
			}
			for id, want := range tt.want {
				b := balanceOf(t, got, id)
				if b.Paid != want.Paid || b.ShouldPay != want.ShouldPay || b.Balance != want.Balance {
					t.Errorf("%s: got paid=%d shouldPay=%d balance=%d, want paid=%d shouldPay=%d balance=%d",
						id, b.Paid, b.ShouldPay, b.Balance, want.Paid, want.ShouldPay, want.Balance)
				}
			}
		})
	}
}

func TestCalculateBalances_KeepsMemberOrderAndNames(t *testing.T) {
	got := CalculateBalances(abc, nil)
	for i, m := range abc {
		if got[i].MemberID != m.ID || got[i].Name != m.Name {
			t.Errorf("balance %d = %s/%s, want %s/%s", i, got[i].MemberID, got[i].Name, m.ID, m.Name)
		}
	}
}

func TestRoundingLoss_UnevenSplitLeavesExactlyOne(t *testing.T) {
	activities := []ActivityForBalance{
		{Amount: 100, PayerID: "a", ParticipantIDs: []string{"a", "b", "c"}},
	}

	balances := CalculateBalances(abc, activities)
	paid, shouldPay := Totals(balances)

	if shouldPay != 99 {
		t.Errorf("total shouldPay = %d, want 99", shouldPay)
	}
	if loss := paid - shouldPay; loss != 1 {
		t.Errorf("paid - shouldPay = %d, want 1", loss)
	}
	if loss := RoundingLoss(activities); loss != 1 {
		t.Errorf("RoundingLoss = %d, want 1", loss)
	}
}

func TestPerPersonAmount(t *testing.T) {
	tests := []struct {
		amount int64
		count  int
		want   int64
	}{
		{300, 3, 100},
		{100, 3, 33},
		{1, 2, 0},
		{50, 0, 0},
		{7, 1, 7},
	}
	for _, tt := range tests {
		if got := PerPersonAmount(tt.amount, tt.count); got != tt.want {
			t.Errorf("PerPersonAmount(%d, %d) = %d, want %d", tt.amount, tt.count, got, tt.want)
		}
	}
}

// Balances across all members sum to the rounding loss, which is bounded by
// the number of participants per activity, and the result does not depend on
// activity order.
func TestCalculateBalances_RandomizedInvariants(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	members := []MemberRef{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}, {ID: "e"}}

	for round := 0; round < 200; round++ {
		var activities []ActivityForBalance
		for n := rng.IntN(8); n > 0; n-- {
			var participants []string
			for _, m := range members {
				if rng.IntN(2) == 0 {
					participants = append(participants, m.ID)
				}
			}
			if len(participants) == 0 {
				participants = []string{members[rng.IntN(len(members))].ID}
			}
			activities = append(activities, ActivityForBalance{
				Amount:         int64(1 + rng.IntN(10000)),
				PayerID:        members[rng.IntN(len(members))].ID,
				ParticipantIDs: participants,
			})
		}

		balances := CalculateBalances(members, activities)
		var sum int64
		for _, b := range balances {
			sum += b.Balance
		}
		loss := RoundingLoss(activities)
		if sum != loss {
			t.Fatalf("round %d: sum of balances = %d, want rounding loss %d", round, sum, loss)
		}
		var bound int64
		for _, a := range activities {
			bound += int64(len(a.ParticipantIDs) - 1)
		}
		if loss < 0 || loss > bound {
			t.Fatalf("round %d: rounding loss %d outside [0, %d]", round, loss, bound)
		}

		reversed := make([]ActivityForBalance, len(activities))
		for i, a := range activities {
			reversed[len(activities)-1-i] = a
		}
		again := CalculateBalances(members, reversed)
		for i := range balances {
			if balances[i] != again[i] {
				t.Fatalf("round %d: order changed balance of %s: %+v vs %+v", round, balances[i].MemberID, balances[i], again[i])
			}
		}
	}
}
