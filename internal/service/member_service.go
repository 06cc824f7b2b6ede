package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	apperrors "github.com/mmynk/groupsplit/internal/errors"
	"github.com/mmynk/groupsplit/internal/ledger"
	"github.com/mmynk/groupsplit/pkg/api"
)

// MemberService implements the Connect MemberService
type MemberService struct {
	ledger *ledger.Ledger
}

// NewMemberService creates a new MemberService over the given ledger.
func NewMemberService(l *ledger.Ledger) *MemberService {
	return &MemberService{ledger: l}
}

// ListMembers returns active members in creation order.
func (s *MemberService) ListMembers(ctx context.Context, req *connect.Request[api.ListMembersRequest]) (*connect.Response[api.ListMembersResponse], error) {
	slog.Info("ListMembers request received")

	members, err := s.ledger.ListMembers(ctx)
	if err != nil {
		slog.Error("ListMembers failed", "error", err)
		return nil, apperrors.ToConnect(err)
	}

	return connect.NewResponse(&api.ListMembersResponse{Members: toAPIMembers(members)}), nil
}

// SearchMembers returns members whose name contains the query, including
// inactive ones.
func (s *MemberService) SearchMembers(ctx context.Context, req *connect.Request[api.SearchMembersRequest]) (*connect.Response[api.SearchMembersResponse], error) {
	slog.Info("SearchMembers request received", "query", req.Msg.Query)

	members, err := s.ledger.SearchMembers(ctx, req.Msg.Query)
	if err != nil {
		slog.Error("SearchMembers failed", "error", err)
		return nil, apperrors.ToConnect(err)
	}

	return connect.NewResponse(&api.SearchMembersResponse{Members: toAPIMembers(members)}), nil
}

// GetMember retrieves a member by ID.
func (s *MemberService) GetMember(ctx context.Context, req *connect.Request[api.GetMemberRequest]) (*connect.Response[api.GetMemberResponse], error) {
	slog.Info("GetMember request received", "member_id", req.Msg.MemberID)

	member, err := s.ledger.GetMember(ctx, req.Msg.MemberID)
	if err != nil {
		slog.Error("GetMember failed", "member_id", req.Msg.MemberID, "error", err)
		return nil, apperrors.ToConnect(err)
	}

	return connect.NewResponse(&api.GetMemberResponse{Member: toAPIMember(member)}), nil
}

// CreateMember adds a member, or reactivates an inactive one with the same name.
func (s *MemberService) CreateMember(ctx context.Context, req *connect.Request[api.CreateMemberRequest]) (*connect.Response[api.CreateMemberResponse], error) {
	slog.Info("CreateMember request received",
		"name", req.Msg.Name,
		"qr_code_size", len(req.Msg.QRCode),
	)

	member, reactivated, err := s.ledger.CreateMember(ctx, ledger.MemberInput{
		Name:   req.Msg.Name,
		Phone:  req.Msg.Phone,
		QRCode: req.Msg.QRCode,
		Bank:   fromAPIBank(req.Msg.Bank),
	})
	if err != nil {
		slog.Error("CreateMember failed", "name", req.Msg.Name, "error", err)
		return nil, apperrors.ToConnect(err)
	}

	slog.Info("Member created", "member_id", member.ID, "reactivated", reactivated)

	return connect.NewResponse(&api.CreateMemberResponse{
		Member:      toAPIMember(member),
		Reactivated: reactivated,
	}), nil
}

// UpdateMember replaces a member's name, contact and bank details.
func (s *MemberService) UpdateMember(ctx context.Context, req *connect.Request[api.UpdateMemberRequest]) (*connect.Response[api.UpdateMemberResponse], error) {
	slog.Info("UpdateMember request received",
		"member_id", req.Msg.MemberID,
		"qr_code_size", len(req.Msg.QRCode),
	)

	member, err := s.ledger.UpdateMember(ctx, req.Msg.MemberID, ledger.MemberInput{
		Name:   req.Msg.Name,
		Phone:  req.Msg.Phone,
		QRCode: req.Msg.QRCode,
		Bank:   fromAPIBank(req.Msg.Bank),
	})
	if err != nil {
		slog.Error("UpdateMember failed", "member_id", req.Msg.MemberID, "error", err)
		return nil, apperrors.ToConnect(err)
	}

	return connect.NewResponse(&api.UpdateMemberResponse{Member: toAPIMember(member)}), nil
}

// DeleteMember soft-deletes a member. Members who paid for an activity
// cannot be deleted.
func (s *MemberService) DeleteMember(ctx context.Context, req *connect.Request[api.DeleteMemberRequest]) (*connect.Response[api.DeleteMemberResponse], error) {
	slog.Info("DeleteMember request received", "member_id", req.Msg.MemberID)

	if err := s.ledger.DeleteMember(ctx, req.Msg.MemberID); err != nil {
		slog.Error("DeleteMember failed", "member_id", req.Msg.MemberID, "error", err)
		return nil, apperrors.ToConnect(err)
	}

	slog.Info("Member deleted", "member_id", req.Msg.MemberID)

	return connect.NewResponse(&api.DeleteMemberResponse{Success: true}), nil
}
