package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	apperrors "github.com/mmynk/groupsplit/internal/errors"
	"github.com/mmynk/groupsplit/internal/models"
	"github.com/mmynk/groupsplit/internal/qrimage"
)

// MemberInput carries the editable fields of a member.
type MemberInput struct {
	Name   string
	Phone  string
	QRCode string
	Bank   models.BankAccount
}

func (l *Ledger) normalizeMember(in MemberInput) (MemberInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return in, apperrors.Validation("name", "name is required")
	}
	in.Phone = strings.TrimSpace(in.Phone)
	if in.QRCode != "" {
		if !qrimage.IsDataImage(in.QRCode) {
			return in, apperrors.Validation("qrCode", "must be an image data URL")
		}
		shrunk, err := qrimage.Shrink(in.QRCode, l.maxQRLength)
		if err != nil {
			return in, err
		}
		if len(shrunk) < len(in.QRCode) {
			slog.Info("Shrunk member QR image", "from", len(in.QRCode), "to", len(shrunk))
		}
		in.QRCode = shrunk
	}
	return in, nil
}

// ListMembers returns the active members.
func (l *Ledger) ListMembers(ctx context.Context) ([]*models.Member, error) {
	return l.store.ListActiveMembers(ctx)
}

// SearchMembers returns members whose name contains query. An empty query
// returns every member, including inactive ones.
func (l *Ledger) SearchMembers(ctx context.Context, query string) ([]*models.Member, error) {
	return l.store.SearchMembers(ctx, strings.TrimSpace(query))
}

// GetMember returns a member by ID.
func (l *Ledger) GetMember(ctx context.Context, memberID string) (*models.Member, error) {
	return l.store.GetMember(ctx, memberID)
}

// CreateMember adds a member. When an inactive member with the same name
// exists it is reactivated with the new details instead, and reactivated is
// true. An active member with the same name is a conflict.
func (l *Ledger) CreateMember(ctx context.Context, in MemberInput) (member *models.Member, reactivated bool, err error) {
	in, err = l.normalizeMember(in)
	if err != nil {
		return nil, false, err
	}

	matches, err := l.store.FindMembersByName(ctx, in.Name)
	if err != nil {
		return nil, false, fmt.Errorf("failed to look up member name: %w", err)
	}
	var inactive *models.Member
	for _, m := range matches {
		if m.Active {
			return nil, false, apperrors.Conflict(fmt.Sprintf("member %q already exists", m.Name))
		}
		if inactive == nil {
			inactive = m
		}
	}

	if inactive != nil {
		member, err := l.reactivate(ctx, inactive, in)
		if err != nil {
			return nil, false, err
		}
		slog.Info("Member reactivated", "member_id", member.ID, "name", member.Name)
		return member, true, nil
	}

	member = &models.Member{
		Name:   in.Name,
		Phone:  in.Phone,
		QRCode: in.QRCode,
		Bank:   in.Bank,
		Active: true,
	}
	if err := l.store.CreateMember(ctx, member); err != nil {
		return nil, false, err
	}
	slog.Info("Member created", "member_id", member.ID, "name", member.Name)
	return member, false, nil
}

// reactivate writes the new details onto an inactive member and then flips it
// active. A failed flip restores the previous details, so the member is never
// left half reactivated.
func (l *Ledger) reactivate(ctx context.Context, inactive *models.Member, in MemberInput) (*models.Member, error) {
	updated := &models.Member{
		ID:     inactive.ID,
		Name:   in.Name,
		Phone:  in.Phone,
		QRCode: in.QRCode,
		Bank:   in.Bank,
	}
	if err := l.store.UpdateMember(ctx, updated); err != nil {
		return nil, err
	}

	member, err := l.store.ReactivateMember(ctx, inactive.ID)
	if err != nil {
		previous := *inactive
		if restoreErr := l.store.UpdateMember(ctx, &previous); restoreErr != nil {
			slog.Error("Failed to restore member details", "member_id", inactive.ID, "error", restoreErr)
		}
		return nil, err
	}
	return member, nil
}

// UpdateMember replaces a member's details. Renaming onto another active
// member's name is a conflict.
func (l *Ledger) UpdateMember(ctx context.Context, memberID string, in MemberInput) (*models.Member, error) {
	in, err := l.normalizeMember(in)
	if err != nil {
		return nil, err
	}

	matches, err := l.store.FindMembersByName(ctx, in.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to look up member name: %w", err)
	}
	for _, m := range matches {
		if m.Active && m.ID != memberID {
			return nil, apperrors.Conflict(fmt.Sprintf("member %q already exists", m.Name))
		}
	}

	member := &models.Member{
		ID:     memberID,
		Name:   in.Name,
		Phone:  in.Phone,
		QRCode: in.QRCode,
		Bank:   in.Bank,
	}
	if err := l.store.UpdateMember(ctx, member); err != nil {
		return nil, err
	}
	return member, nil
}

// DeleteMember soft-deletes a member. It fails with a constraint error when
// the member paid for any activity. The member drops out of later balance
// computations and participant lists.
func (l *Ledger) DeleteMember(ctx context.Context, memberID string) error {
	if err := l.store.DeactivateMember(ctx, memberID); err != nil {
		return err
	}
	slog.Info("Member deactivated", "member_id", memberID)
	l.setState(StateOpen)
	return nil
}
