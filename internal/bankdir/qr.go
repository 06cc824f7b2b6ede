package bankdir

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	apperrors "github.com/mmynk/groupsplit/internal/errors"
	"github.com/mmynk/groupsplit/internal/models"
)

// QRImageBase is the VietQR quick-link image endpoint.
const QRImageBase = "https://img.vietqr.io/image"

// DefaultTemplate is the image layout used when none is requested.
const DefaultTemplate = "compact"

// QRRequest describes a transfer to render as a QR image.
type QRRequest struct {
	AccountNo   string
	AccountName string
	AcqID       string // Bank BIN
	Amount      int64
	AddInfo     string // Transfer description
	Format      string // Image layout: compact, print, qr
	Template    string
}

// GenerateQR resolves the bank of req and builds the QR image URL. Unknown
// BINs are described by the BIN alone. Nothing is transferred.
func (d *Directory) GenerateQR(ctx context.Context, req QRRequest) (*models.QRInfo, error) {
	req.AccountNo = strings.TrimSpace(req.AccountNo)
	req.AcqID = strings.TrimSpace(req.AcqID)
	if req.AccountNo == "" {
		return nil, apperrors.Validation("accountNo", "account number is required")
	}
	if req.AcqID == "" {
		return nil, apperrors.Validation("acqId", "bank BIN is required")
	}
	if req.Amount < 0 {
		return nil, apperrors.Validation("amount", "amount must not be negative")
	}

	bank, ok := d.ByBIN(ctx, req.AcqID)
	if !ok {
		bank = unknownBank(req.AcqID)
	}

	return &models.QRInfo{
		BankName:    bank.Name,
		BankCode:    bank.Code,
		BankBIN:     bank.BIN,
		BankLogo:    bank.Logo,
		AccountNo:   req.AccountNo,
		AccountName: req.AccountName,
		Amount:      req.Amount,
		AddInfo:     req.AddInfo,
		QRCodeURL:   QRImageURL(req),
	}, nil
}

// QRImageURL builds the image URL for req. Query parameters keep a fixed
// order and optional ones are omitted when empty.
func QRImageURL(req QRRequest) string {
	layout := req.Format
	if layout == "" {
		layout = DefaultTemplate
	}

	var params []string
	add := func(key, value string) {
		params = append(params, key+"="+url.QueryEscape(value))
	}
	add("accountNo", req.AccountNo)
	if req.AccountName != "" {
		add("accountName", req.AccountName)
	}
	add("acqId", req.AcqID)
	add("amount", strconv.FormatInt(req.Amount, 10))
	if req.AddInfo != "" {
		add("addInfo", req.AddInfo)
	}
	if req.Format != "" {
		add("format", req.Format)
	}
	if req.Template != "" {
		add("template", req.Template)
	}

	return fmt.Sprintf("%s/%s-%s-%s.png?%s",
		QRImageBase,
		url.PathEscape(req.AcqID),
		url.PathEscape(req.AccountNo),
		url.PathEscape(layout),
		strings.Join(params, "&"),
	)
}
