package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/groupsplit/internal/bankdir"
	apperrors "github.com/mmynk/groupsplit/internal/errors"
	"github.com/mmynk/groupsplit/pkg/api"
)

// BankService implements the Connect BankService over the bank directory.
type BankService struct {
	directory *bankdir.Directory
}

// NewBankService creates a new BankService.
func NewBankService(dir *bankdir.Directory) *BankService {
	return &BankService{directory: dir}
}

// ListBanks returns the bank directory, filtered by the optional query.
// It never fails: an unreachable directory yields the cached or built-in list.
func (s *BankService) ListBanks(ctx context.Context, req *connect.Request[api.ListBanksRequest]) (*connect.Response[api.ListBanksResponse], error) {
	slog.Info("ListBanks request received", "query", req.Msg.Query)

	banks := s.directory.Find(ctx, req.Msg.Query)
	out := make([]api.Bank, len(banks))
	for i, b := range banks {
		out[i] = toAPIBank(b)
	}

	return connect.NewResponse(&api.ListBanksResponse{Banks: out}), nil
}

// GenerateQR builds a display-only transfer QR code.
func (s *BankService) GenerateQR(ctx context.Context, req *connect.Request[api.GenerateQRRequest]) (*connect.Response[api.GenerateQRResponse], error) {
	slog.Info("GenerateQR request received",
		"acq_id", req.Msg.AcqID,
		"amount", req.Msg.Amount,
	)

	info, err := s.directory.GenerateQR(ctx, bankdir.QRRequest{
		AccountNo:   req.Msg.AccountNo,
		AccountName: req.Msg.AccountName,
		AcqID:       req.Msg.AcqID,
		Amount:      req.Msg.Amount,
		AddInfo:     req.Msg.AddInfo,
		Format:      req.Msg.Format,
		Template:    req.Msg.Template,
	})
	if err != nil {
		slog.Error("GenerateQR failed", "error", err)
		return nil, apperrors.ToConnect(err)
	}

	return connect.NewResponse(&api.GenerateQRResponse{QR: api.QRInfo{
		BankName:    info.BankName,
		BankCode:    info.BankCode,
		BankBIN:     info.BankBIN,
		BankLogo:    info.BankLogo,
		AccountNo:   info.AccountNo,
		AccountName: info.AccountName,
		Amount:      info.Amount,
		AddInfo:     info.AddInfo,
		QRCode:      info.QRCodeURL,
	}}), nil
}
