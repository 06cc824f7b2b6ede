package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	apperrors "github.com/mmynk/groupsplit/internal/errors"
	"github.com/mmynk/groupsplit/internal/models"
	"github.com/mmynk/groupsplit/internal/storage"
)

const memberColumns = `id, name, phone, qr_code, bank_code, bank_bin, bank_name,
	account_name, account_no, active, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMember(row rowScanner) (*models.Member, error) {
	m := &models.Member{}
	var phone, qrCode, bankCode, bankBIN, bankName, accountName, accountNo sql.NullString
	var active int
	if err := row.Scan(&m.ID, &m.Name, &phone, &qrCode, &bankCode, &bankBIN, &bankName,
		&accountName, &accountNo, &active, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	m.Phone = phone.String
	m.QRCode = qrCode.String
	m.Bank = models.BankAccount{
		Code:        bankCode.String,
		BIN:         bankBIN.String,
		Name:        bankName.String,
		AccountName: accountName.String,
		AccountNo:   accountNo.String,
	}
	m.Active = active != 0
	return m, nil
}

func (s *SQLiteStore) queryMembers(ctx context.Context, query string, args ...any) ([]*models.Member, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query members: %w", err)
	}
	defer rows.Close()

	var members []*models.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}
	return members, nil
}

// ListActiveMembers returns active members in creation order.
func (s *SQLiteStore) ListActiveMembers(ctx context.Context) ([]*models.Member, error) {
	return s.queryMembers(ctx,
		"SELECT "+memberColumns+" FROM members WHERE active = 1 ORDER BY created_at, rowid")
}

// GetMember retrieves a member by ID.
func (s *SQLiteStore) GetMember(ctx context.Context, memberID string) (*models.Member, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+memberColumns+" FROM members WHERE id = ?", memberID)
	m, err := scanMember(row)
	if err == sql.ErrNoRows {
		return nil, apperrors.NotFound("member", memberID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	return m, nil
}

// SearchMembers returns members whose name contains query. SQLite's LIKE
// only folds ASCII, so matching happens in Go.
func (s *SQLiteStore) SearchMembers(ctx context.Context, query string) ([]*models.Member, error) {
	all, err := s.queryMembers(ctx, "SELECT "+memberColumns+" FROM members ORDER BY created_at, rowid")
	if err != nil {
		return nil, err
	}
	var members []*models.Member
	for _, m := range all {
		if storage.NameContains(m.Name, query) {
			members = append(members, m)
		}
	}
	return members, nil
}

// FindMembersByName returns members whose folded name equals the folded name.
func (s *SQLiteStore) FindMembersByName(ctx context.Context, name string) ([]*models.Member, error) {
	all, err := s.queryMembers(ctx, "SELECT "+memberColumns+" FROM members ORDER BY created_at, rowid")
	if err != nil {
		return nil, err
	}
	folded := storage.FoldName(name)
	var members []*models.Member
	for _, m := range all {
		if storage.FoldName(m.Name) == folded {
			members = append(members, m)
		}
	}
	return members, nil
}

// CreateMember persists a new member to the database.
func (s *SQLiteStore) CreateMember(ctx context.Context, member *models.Member) error {
	if member.ID == "" {
		member.ID = uuid.New().String()
	}
	now := s.now().Unix()
	if member.CreatedAt == 0 {
		member.CreatedAt = now
	}
	member.UpdatedAt = now

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO members (`+memberColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		member.ID, member.Name, nullable(member.Phone), nullable(member.QRCode),
		nullable(member.Bank.Code), nullable(member.Bank.BIN), nullable(member.Bank.Name),
		nullable(member.Bank.AccountName), nullable(member.Bank.AccountNo),
		boolToInt(member.Active), member.CreatedAt, member.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert member: %w", err)
	}
	return nil
}

// UpdateMember replaces a member's name, contact and bank details.
func (s *SQLiteStore) UpdateMember(ctx context.Context, member *models.Member) error {
	now := s.now().Unix()
	result, err := s.db.ExecContext(ctx,
		`UPDATE members SET name = ?, phone = ?, qr_code = ?, bank_code = ?, bank_bin = ?,
		 bank_name = ?, account_name = ?, account_no = ?, updated_at = ? WHERE id = ?`,
		member.Name, nullable(member.Phone), nullable(member.QRCode),
		nullable(member.Bank.Code), nullable(member.Bank.BIN), nullable(member.Bank.Name),
		nullable(member.Bank.AccountName), nullable(member.Bank.AccountNo),
		now, member.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update member: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return apperrors.NotFound("member", member.ID)
	}

	updated, err := s.GetMember(ctx, member.ID)
	if err != nil {
		return err
	}
	*member = *updated
	return nil
}

// DeactivateMember soft-deletes a member unless it paid for an activity.
func (s *SQLiteStore) DeactivateMember(ctx context.Context, memberID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := requireMember(ctx, tx, memberID); err != nil {
		return err
	}

	var paid int
	if err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM activities WHERE payer_id = ?", memberID,
	).Scan(&paid); err != nil {
		return fmt.Errorf("failed to count payer activities: %w", err)
	}
	if paid > 0 {
		return apperrors.Constraint(fmt.Sprintf("member %s is the payer of %d activities", memberID, paid))
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE members SET active = 0, updated_at = ? WHERE id = ?", s.now().Unix(), memberID,
	); err != nil {
		return fmt.Errorf("failed to deactivate member: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ReactivateMember marks a member active again.
func (s *SQLiteStore) ReactivateMember(ctx context.Context, memberID string) (*models.Member, error) {
	result, err := s.db.ExecContext(ctx,
		"UPDATE members SET active = 1, updated_at = ? WHERE id = ?", s.now().Unix(), memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to reactivate member: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, apperrors.NotFound("member", memberID)
	}
	return s.GetMember(ctx, memberID)
}
