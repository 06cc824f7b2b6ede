package calculator

import (
	"cmp"
	"slices"
)

// Transfer is a proposed payment from a debtor to a creditor.
type Transfer struct {
	FromMemberID string // Debtor
	ToMemberID   string // Creditor
	Amount       int64
}

type party struct {
	memberID string
	amount   int64
}

// PlanSettlement produces transfers that clear the given balances using
// greedy largest-debtor to largest-creditor matching.
//
// Algorithm:
//   - Debtors (balance < 0) are ordered by largest debt first, creditors
//     (balance > 0) by largest credit first; ties keep input order
//   - Each debtor pays creditors in order until its debt is covered,
//     skipping creditors that are already fully paid
//   - Creditor remainders carry over from one debtor to the next, so every
//     creditor receives at most its original credit
//
// Members with a zero balance are left out. The balances slice is not
// modified. When total debt and total credit differ (rounding loss), the
// difference is left unsettled; see Residual.
func PlanSettlement(balances []MemberBalance) []Transfer {
	var debtors, creditors []party
	for _, b := range balances {
		switch {
		case b.Balance < 0:
			debtors = append(debtors, party{memberID: b.MemberID, amount: -b.Balance})
		case b.Balance > 0:
			creditors = append(creditors, party{memberID: b.MemberID, amount: b.Balance})
		}
	}

	byAmountDesc := func(a, b party) int { return cmp.Compare(b.amount, a.amount) }
	slices.SortStableFunc(debtors, byAmountDesc)
	slices.SortStableFunc(creditors, byAmountDesc)

	var transfers []Transfer
	for _, debtor := range debtors {
		amountToSend := debtor.amount

		for i := 0; i < len(creditors) && amountToSend > 0; i++ {
			creditor := &creditors[i]
			if creditor.amount <= 0 {
				continue
			}

			amount := min(amountToSend, creditor.amount)
			transfers = append(transfers, Transfer{
				FromMemberID: debtor.memberID,
				ToMemberID:   creditor.memberID,
				Amount:       amount,
			})

			amountToSend -= amount
			creditor.amount -= amount
		}
	}

	return transfers
}

// Residual reports what remains unsettled after applying transfers to
// balances: debt still owed by debtors and credit still due to creditors.
// Both are zero when debts and credits match exactly.
func Residual(balances []MemberBalance, transfers []Transfer) (debt, credit int64) {
	remaining := make(map[string]int64, len(balances))
	for _, b := range balances {
		remaining[b.MemberID] += b.Balance
	}
	for _, t := range transfers {
		remaining[t.FromMemberID] += t.Amount
		remaining[t.ToMemberID] -= t.Amount
	}
	for _, r := range remaining {
		if r < 0 {
			debt -= r
		} else {
			credit += r
		}
	}
	return debt, credit
}
