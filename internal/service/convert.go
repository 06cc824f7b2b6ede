package service

import (
	"github.com/mmynk/groupsplit/internal/calculator"
	apperrors "github.com/mmynk/groupsplit/internal/errors"
	"github.com/mmynk/groupsplit/internal/ledger"
	"github.com/mmynk/groupsplit/internal/metrics"
	"github.com/mmynk/groupsplit/internal/models"
	"github.com/mmynk/groupsplit/pkg/api"
)

func toAPIMember(m *models.Member) api.Member {
	return api.Member{
		ID:     m.ID,
		Name:   m.Name,
		Phone:  m.Phone,
		QRCode: m.QRCode,
		Bank: api.BankAccount{
			BankCode:    m.Bank.Code,
			BankBIN:     m.Bank.BIN,
			BankName:    m.Bank.Name,
			AccountName: m.Bank.AccountName,
			AccountNo:   m.Bank.AccountNo,
		},
		Active:    m.Active,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func toAPIMembers(members []*models.Member) []api.Member {
	out := make([]api.Member, len(members))
	for i, m := range members {
		out[i] = toAPIMember(m)
	}
	return out
}

func fromAPIBank(b api.BankAccount) models.BankAccount {
	return models.BankAccount{
		Code:        b.BankCode,
		BIN:         b.BankBIN,
		Name:        b.BankName,
		AccountName: b.AccountName,
		AccountNo:   b.AccountNo,
	}
}

func fromAPIParticipants(participants []api.Participant) []ledger.ParticipantInput {
	out := make([]ledger.ParticipantInput, len(participants))
	for i, p := range participants {
		out[i] = ledger.ParticipantInput{MemberID: p.MemberID, Weight: p.Weight}
	}
	return out
}

func toAPIActivity(a *models.ActivityWithParticipants) api.Activity {
	payer := toAPIMember(&a.Payer)
	participants := make([]api.Member, len(a.Participants))
	for i := range a.Participants {
		participants[i] = toAPIMember(&a.Participants[i])
	}
	return api.Activity{
		ID:           a.ID,
		Name:         a.Name,
		Amount:       a.Amount,
		PayerID:      a.PayerID,
		Payer:        &payer,
		Participants: participants,
		CreatedAt:    a.CreatedAt,
	}
}

func toAPIActivities(activities []*models.ActivityWithParticipants) []api.Activity {
	out := make([]api.Activity, len(activities))
	for i, a := range activities {
		out[i] = toAPIActivity(a)
	}
	return out
}

func toAPITransaction(t *models.Transaction) api.Transaction {
	return api.Transaction{
		ID:           t.ID,
		FromMemberID: t.FromMemberID,
		ToMemberID:   t.ToMemberID,
		Amount:       t.Amount,
		Completed:    t.Completed,
		CreatedAt:    t.CreatedAt,
	}
}

func toAPITransactions(transactions []*models.TransactionWithMembers) []api.Transaction {
	out := make([]api.Transaction, len(transactions))
	for i, t := range transactions {
		tx := toAPITransaction(&t.Transaction)
		from, to := toAPIMember(&t.From), toAPIMember(&t.To)
		tx.From, tx.To = &from, &to
		out[i] = tx
	}
	return out
}

// toAPIProposals converts planner output. Proposals carry no ID and are
// never completed.
func toAPIProposals(transfers []calculator.Transfer) []api.Transaction {
	out := make([]api.Transaction, len(transfers))
	for i, t := range transfers {
		out[i] = api.Transaction{
			FromMemberID: t.FromMemberID,
			ToMemberID:   t.ToMemberID,
			Amount:       t.Amount,
		}
	}
	return out
}

func toAPIBalances(balances []calculator.MemberBalance) []api.MemberBalance {
	out := make([]api.MemberBalance, len(balances))
	for i, b := range balances {
		out[i] = api.MemberBalance{
			MemberID:  b.MemberID,
			Name:      b.Name,
			Paid:      b.Paid,
			ShouldPay: b.ShouldPay,
			Balance:   b.Balance,
		}
	}
	return out
}

func toAPISummary(s ledger.Summary) api.Summary {
	return api.Summary{
		TotalSpent:       s.TotalSpent,
		MemberCount:      s.MemberCount,
		ActivityCount:    s.ActivityCount,
		AveragePerMember: s.AveragePerMember,
		RoundingLoss:     s.RoundingLoss,
	}
}

func toAPIBank(b models.Bank) api.Bank {
	return api.Bank{
		ID:                b.ID,
		Name:              b.Name,
		Code:              b.Code,
		BIN:               b.BIN,
		ShortName:         b.ShortName,
		Logo:              b.Logo,
		TransferSupported: b.TransferSupported,
		LookupSupported:   b.LookupSupported,
		SwiftCode:         b.SwiftCode,
	}
}

// toAPIOutcome reports a bulk operation and counts its failed items under
// operation.
func toAPIOutcome(m *metrics.Metrics, operation string, result ledger.BatchResult) api.BatchOutcome {
	failed := result.Failed()
	outcome := api.BatchOutcome{
		Success:   len(failed) == 0,
		Succeeded: result.Succeeded(),
	}
	for _, item := range failed {
		outcome.Failures = append(outcome.Failures, api.ItemFailure{
			ID:    item.ID,
			Code:  string(apperrors.CodeOf(item.Err)),
			Error: item.Err.Error(),
		})
	}
	if m != nil && len(failed) > 0 {
		m.BatchFailures.WithLabelValues(operation).Add(float64(len(failed)))
	}
	return outcome
}
