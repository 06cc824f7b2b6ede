package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	apperrors "github.com/mmynk/groupsplit/internal/errors"
	"github.com/mmynk/groupsplit/internal/ledger"
	"github.com/mmynk/groupsplit/internal/metrics"
	"github.com/mmynk/groupsplit/pkg/api"
)

// SettlementService implements the Connect SettlementService: results,
// persisted transactions and the session lifecycle.
type SettlementService struct {
	ledger  *ledger.Ledger
	metrics *metrics.Metrics
}

// NewSettlementService creates a new SettlementService. m may be nil.
func NewSettlementService(l *ledger.Ledger, m *metrics.Metrics) *SettlementService {
	return &SettlementService{ledger: l, metrics: m}
}

// GetResults computes balances and proposed transactions. Nothing is persisted.
func (s *SettlementService) GetResults(ctx context.Context, req *connect.Request[api.GetResultsRequest]) (*connect.Response[api.GetResultsResponse], error) {
	slog.Info("GetResults request received")

	results, err := s.ledger.ComputeResults(ctx)
	if err != nil {
		slog.Error("GetResults failed", "error", err)
		return nil, apperrors.ToConnect(err)
	}

	slog.Info("GetResults successful",
		"members_count", results.Summary.MemberCount,
		"transactions_count", len(results.Transactions),
	)

	return connect.NewResponse(&api.GetResultsResponse{
		Balances:     toAPIBalances(results.Balances),
		Transactions: toAPIProposals(results.Transactions),
		Summary:      toAPISummary(results.Summary),
		State:        string(results.State),
	}), nil
}

// ListTransactions returns persisted transactions, most recent first.
func (s *SettlementService) ListTransactions(ctx context.Context, req *connect.Request[api.ListTransactionsRequest]) (*connect.Response[api.ListTransactionsResponse], error) {
	slog.Info("ListTransactions request received")

	transactions, err := s.ledger.ListTransactions(ctx)
	if err != nil {
		slog.Error("ListTransactions failed", "error", err)
		return nil, apperrors.ToConnect(err)
	}

	return connect.NewResponse(&api.ListTransactionsResponse{Transactions: toAPITransactions(transactions)}), nil
}

// SaveTransaction persists one transfer as completed.
func (s *SettlementService) SaveTransaction(ctx context.Context, req *connect.Request[api.SaveTransactionRequest]) (*connect.Response[api.SaveTransactionResponse], error) {
	slog.Info("SaveTransaction request received",
		"from_member_id", req.Msg.FromMemberID,
		"to_member_id", req.Msg.ToMemberID,
		"amount", req.Msg.Amount,
	)

	transaction, err := s.ledger.SaveTransaction(ctx, ledger.TransferInput{
		FromMemberID: req.Msg.FromMemberID,
		ToMemberID:   req.Msg.ToMemberID,
		Amount:       req.Msg.Amount,
	})
	if err != nil {
		slog.Error("SaveTransaction failed", "error", err)
		return nil, apperrors.ToConnect(err)
	}

	return connect.NewResponse(&api.SaveTransactionResponse{Transaction: toAPITransaction(transaction)}), nil
}

// SetTransactionCompleted flips the completed flag of one transaction.
func (s *SettlementService) SetTransactionCompleted(ctx context.Context, req *connect.Request[api.SetTransactionCompletedRequest]) (*connect.Response[api.SetTransactionCompletedResponse], error) {
	slog.Info("SetTransactionCompleted request received",
		"transaction_id", req.Msg.TransactionID,
		"completed", req.Msg.Completed,
	)

	transaction, err := s.ledger.SetTransactionCompleted(ctx, req.Msg.TransactionID, req.Msg.Completed)
	if err != nil {
		slog.Error("SetTransactionCompleted failed", "transaction_id", req.Msg.TransactionID, "error", err)
		return nil, apperrors.ToConnect(err)
	}

	return connect.NewResponse(&api.SetTransactionCompletedResponse{Transaction: toAPITransaction(transaction)}), nil
}

// MarkAllTransactionsCompleted completes every incomplete transaction.
func (s *SettlementService) MarkAllTransactionsCompleted(ctx context.Context, req *connect.Request[api.MarkAllTransactionsCompletedRequest]) (*connect.Response[api.MarkAllTransactionsCompletedResponse], error) {
	slog.Info("MarkAllTransactionsCompleted request received")

	result, transactions, err := s.ledger.MarkAllTransactionsCompleted(ctx)
	if err != nil {
		slog.Error("MarkAllTransactionsCompleted failed", "error", err)
		return nil, apperrors.ToConnect(err)
	}
	if !result.OK() {
		slog.Warn("MarkAllTransactionsCompleted partially failed", "error", result.Err())
	}

	return connect.NewResponse(&api.MarkAllTransactionsCompletedResponse{
		Outcome:      toAPIOutcome(s.metrics, "mark_all_completed", result),
		Transactions: toAPITransactions(transactions),
	}), nil
}

// FinishSession persists the proposed transfers and completes them all.
func (s *SettlementService) FinishSession(ctx context.Context, req *connect.Request[api.FinishSessionRequest]) (*connect.Response[api.FinishSessionResponse], error) {
	slog.Info("FinishSession request received")

	result, transactions, err := s.ledger.FinishSession(ctx)
	if err != nil {
		slog.Error("FinishSession failed", "error", err)
		return nil, apperrors.ToConnect(err)
	}
	if !result.OK() {
		slog.Warn("FinishSession partially failed", "error", result.Err())
	}

	return connect.NewResponse(&api.FinishSessionResponse{
		Outcome:      toAPIOutcome(s.metrics, "finish_session", result),
		Transactions: toAPITransactions(transactions),
		State:        string(s.ledger.State()),
	}), nil
}

// ResetSession deletes all activities and transactions, keeping members.
func (s *SettlementService) ResetSession(ctx context.Context, req *connect.Request[api.ResetSessionRequest]) (*connect.Response[api.ResetSessionResponse], error) {
	slog.Info("ResetSession request received")

	result, results, err := s.ledger.Reset(ctx)
	if err != nil {
		slog.Error("ResetSession failed", "error", err)
		return nil, apperrors.ToConnect(err)
	}
	if !result.OK() {
		slog.Warn("ResetSession partially failed", "error", result.Err())
	}

	return connect.NewResponse(&api.ResetSessionResponse{
		Outcome:  toAPIOutcome(s.metrics, "reset_session", result),
		Balances: toAPIBalances(results.Balances),
		Summary:  toAPISummary(results.Summary),
		State:    string(results.State),
	}), nil
}
