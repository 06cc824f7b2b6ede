package calculator

// MemberRef identifies a member taking part in a balance calculation.
type MemberRef struct {
	ID   string
	Name string
}

// ActivityForBalance represents an activity with the minimal information
// needed for balance calculations.
type ActivityForBalance struct {
	Amount         int64
	PayerID        string
	ParticipantIDs []string
}

// MemberBalance represents the balance information for one member.
type MemberBalance struct {
	MemberID  string
	Name      string
	Paid      int64 // Sum of amounts of activities this member paid for
	ShouldPay int64 // Sum of equal shares of activities this member took part in
	Balance   int64 // Paid - ShouldPay. Positive = owed money, negative = owes money
}

// PerPersonAmount returns the equal share of amount among participantCount
// people. The remainder of a non-divisible amount is dropped. An activity
// without participants has a share of zero.
func PerPersonAmount(amount int64, participantCount int) int64 {
	if participantCount <= 0 {
		return 0
	}
	return amount / int64(participantCount)
}

// CalculateBalances computes one MemberBalance per member, in member order.
//
// Algorithm:
//   - For each activity: the payer's Paid grows by the full amount
//   - Each participant's ShouldPay grows by floor(amount / participants)
//   - Balance = Paid - ShouldPay
//
// Payers and participants that are not in members are ignored. Input is
// assumed valid (positive amounts, known payers); validation belongs to the
// caller creating the activities.
func CalculateBalances(members []MemberRef, activities []ActivityForBalance) []MemberBalance {
	balances := make([]MemberBalance, len(members))
	index := make(map[string]int, len(members))
	for i, m := range members {
		balances[i] = MemberBalance{MemberID: m.ID, Name: m.Name}
		index[m.ID] = i
	}

	for _, activity := range activities {
		if i, ok := index[activity.PayerID]; ok {
			balances[i].Paid += activity.Amount
		}

		share := PerPersonAmount(activity.Amount, len(activity.ParticipantIDs))
		if share == 0 {
			continue
		}
		for _, participant := range activity.ParticipantIDs {
			if i, ok := index[participant]; ok {
				balances[i].ShouldPay += share
			}
		}
	}

	for i := range balances {
		balances[i].Balance = balances[i].Paid - balances[i].ShouldPay
	}

	return balances
}

// RoundingLoss returns the total amount dropped by floor division across all
// activities. Activities without participants contribute nothing here; their
// whole amount stays with the payer as credit.
func RoundingLoss(activities []ActivityForBalance) int64 {
	var loss int64
	for _, activity := range activities {
		n := len(activity.ParticipantIDs)
		if n == 0 {
			continue
		}
		loss += activity.Amount - PerPersonAmount(activity.Amount, n)*int64(n)
	}
	return loss
}

// Totals aggregates the Paid and ShouldPay columns of a balance sheet.
func Totals(balances []MemberBalance) (paid, shouldPay int64) {
	for _, b := range balances {
		paid += b.Paid
		shouldPay += b.ShouldPay
	}
	return paid, shouldPay
}
