package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	apperrors "github.com/mmynk/groupsplit/internal/errors"
	"github.com/mmynk/groupsplit/internal/models"
)

const transactionColumns = "id, from_member_id, to_member_id, amount, completed, created_at"

func scanTransaction(row rowScanner) (*models.Transaction, error) {
	t := &models.Transaction{}
	var completed int
	if err := row.Scan(&t.ID, &t.FromMemberID, &t.ToMemberID, &t.Amount, &completed, &t.CreatedAt); err != nil {
		return nil, err
	}
	t.Completed = completed != 0
	return t, nil
}

// ListTransactions returns all transactions, most recent first.
func (s *SQLiteStore) ListTransactions(ctx context.Context) ([]*models.Transaction, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+transactionColumns+" FROM transactions ORDER BY created_at DESC, rowid DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var transactions []*models.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}
	return transactions, nil
}

// GetTransaction retrieves a transaction by ID.
func (s *SQLiteStore) GetTransaction(ctx context.Context, transactionID string) (*models.Transaction, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+transactionColumns+" FROM transactions WHERE id = ?", transactionID)
	t, err := scanTransaction(row)
	if err == sql.ErrNoRows {
		return nil, apperrors.NotFound("transaction", transactionID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return t, nil
}

// CreateTransaction persists a transaction.
func (s *SQLiteStore) CreateTransaction(ctx context.Context, transaction *models.Transaction) error {
	for _, id := range []string{transaction.FromMemberID, transaction.ToMemberID} {
		if err := requireMember(ctx, s.db, id); err != nil {
			return fmt.Errorf("failed to insert transaction: %w", err)
		}
	}
	if transaction.ID == "" {
		transaction.ID = uuid.New().String()
	}
	if transaction.CreatedAt == 0 {
		transaction.CreatedAt = s.now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO transactions ("+transactionColumns+") VALUES (?, ?, ?, ?, ?, ?)",
		transaction.ID, transaction.FromMemberID, transaction.ToMemberID,
		transaction.Amount, boolToInt(transaction.Completed), transaction.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

// SetTransactionCompleted updates the completed flag.
func (s *SQLiteStore) SetTransactionCompleted(ctx context.Context, transactionID string, completed bool) (*models.Transaction, error) {
	result, err := s.db.ExecContext(ctx,
		"UPDATE transactions SET completed = ? WHERE id = ?", boolToInt(completed), transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, apperrors.NotFound("transaction", transactionID)
	}
	return s.GetTransaction(ctx, transactionID)
}

// DeleteTransaction removes a transaction.
func (s *SQLiteStore) DeleteTransaction(ctx context.Context, transactionID string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM transactions WHERE id = ?", transactionID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return apperrors.NotFound("transaction", transactionID)
	}
	return nil
}
