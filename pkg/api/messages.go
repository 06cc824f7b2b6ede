package api

import "strings"

// Member is a group member.
type Member struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Phone     string      `json:"phone,omitempty"`
	QRCode    string      `json:"qrCode,omitempty"`
	Bank      BankAccount `json:"bank"`
	Active    bool        `json:"active"`
	CreatedAt int64       `json:"createdAt"`
	UpdatedAt int64       `json:"updatedAt"`
}

// BankAccount holds a member's bank details.
type BankAccount struct {
	BankCode    string `json:"bankCode,omitempty"`
	BankBIN     string `json:"bankBin,omitempty"`
	BankName    string `json:"bankName,omitempty"`
	AccountName string `json:"accountName,omitempty"`
	AccountNo   string `json:"accountNo,omitempty"`
}

// Participant names a member sharing an activity.
type Participant struct {
	MemberID string  `json:"memberId"`
	Weight   float64 `json:"weight,omitempty"`
}

// Activity is a shared expense with its payer and active participants.
type Activity struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Amount       int64    `json:"amount"`
	PayerID      string   `json:"payerId"`
	Payer        *Member  `json:"payer,omitempty"`
	Participants []Member `json:"participants"`
	CreatedAt    int64    `json:"createdAt"`
}

// MemberBalance is one row of the balance sheet.
type MemberBalance struct {
	MemberID  string `json:"memberId"`
	Name      string `json:"name"`
	Paid      int64  `json:"paid"`
	ShouldPay int64  `json:"shouldPay"`
	Balance   int64  `json:"balance"`
}

// Transaction is a proposed (no ID) or persisted settlement transfer.
type Transaction struct {
	ID           string  `json:"id,omitempty"`
	FromMemberID string  `json:"fromMemberId"`
	ToMemberID   string  `json:"toMemberId"`
	From         *Member `json:"from,omitempty"`
	To           *Member `json:"to,omitempty"`
	Amount       int64   `json:"amount"`
	Completed    bool    `json:"completed"`
	CreatedAt    int64   `json:"createdAt,omitempty"`
}

// Summary aggregates the results table.
type Summary struct {
	TotalSpent       int64 `json:"totalSpent"`
	MemberCount      int   `json:"memberCount"`
	ActivityCount    int   `json:"activityCount"`
	AveragePerMember int64 `json:"averagePerMember"`
	RoundingLoss     int64 `json:"roundingLoss"`
}

// ItemFailure reports one failed item of a bulk operation.
type ItemFailure struct {
	ID    string `json:"id"`
	Code  string `json:"code,omitempty"`
	Error string `json:"error"`
}

// BatchOutcome reports a bulk operation. Success is true only when every
// item succeeded.
type BatchOutcome struct {
	Success   bool          `json:"success"`
	Succeeded int           `json:"succeeded"`
	Failures  []ItemFailure `json:"failures,omitempty"`
}

// Bank is a bank directory entry.
type Bank struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Code              string `json:"code"`
	BIN               string `json:"bin"`
	ShortName         string `json:"shortName"`
	Logo              string `json:"logo"`
	TransferSupported int    `json:"transferSupported"`
	LookupSupported   int    `json:"lookupSupported"`
	SwiftCode         string `json:"swiftCode,omitempty"`
}

// QRInfo describes a display-only transfer QR code.
type QRInfo struct {
	BankName    string `json:"bankName"`
	BankCode    string `json:"bankCode"`
	BankBIN     string `json:"bankBin"`
	BankLogo    string `json:"bankLogo"`
	AccountNo   string `json:"accountNo"`
	AccountName string `json:"accountName,omitempty"`
	Amount      int64  `json:"amount"`
	AddInfo     string `json:"addInfo,omitempty"`
	QRCode      string `json:"qrCode"`
}

// ImagePayload is implemented by requests that may embed an image.
type ImagePayload interface {
	// EmbeddedImageSize returns the length of the embedded data:image string,
	// or 0 when there is none.
	EmbeddedImageSize() int
}

func imageSize(s string) int {
	if strings.HasPrefix(s, "data:image") {
		return len(s)
	}
	return 0
}

// MemberService messages.

type ListMembersRequest struct{}

type ListMembersResponse struct {
	Members []Member `json:"members"`
}

type SearchMembersRequest struct {
	Query string `json:"query"`
}

type SearchMembersResponse struct {
	Members []Member `json:"members"`
}

type GetMemberRequest struct {
	MemberID string `json:"memberId"`
}

type GetMemberResponse struct {
	Member Member `json:"member"`
}

type CreateMemberRequest struct {
	Name   string      `json:"name"`
	Phone  string      `json:"phone,omitempty"`
	QRCode string      `json:"qrCode,omitempty"`
	Bank   BankAccount `json:"bank"`
}

// EmbeddedImageSize implements ImagePayload.
func (r *CreateMemberRequest) EmbeddedImageSize() int { return imageSize(r.QRCode) }

type CreateMemberResponse struct {
	Member Member `json:"member"`
	// Reactivated is true when an inactive member with the same name was
	// brought back instead of creating a new one.
	Reactivated bool `json:"reactivated"`
}

type UpdateMemberRequest struct {
	MemberID string      `json:"memberId"`
	Name     string      `json:"name"`
	Phone    string      `json:"phone,omitempty"`
	QRCode   string      `json:"qrCode,omitempty"`
	Bank     BankAccount `json:"bank"`
}

// EmbeddedImageSize implements ImagePayload.
func (r *UpdateMemberRequest) EmbeddedImageSize() int { return imageSize(r.QRCode) }

type UpdateMemberResponse struct {
	Member Member `json:"member"`
}

type DeleteMemberRequest struct {
	MemberID string `json:"memberId"`
}

type DeleteMemberResponse struct {
	Success bool `json:"success"`
}

// ActivityService messages.

type ListActivitiesRequest struct{}

type ListActivitiesResponse struct {
	Activities []Activity `json:"activities"`
}

type GetActivityRequest struct {
	ActivityID string `json:"activityId"`
}

type GetActivityResponse struct {
	Activity Activity `json:"activity"`
}

type CreateActivityRequest struct {
	Name         string        `json:"name"`
	Amount       int64         `json:"amount"`
	PayerID      string        `json:"payerId"`
	Participants []Participant `json:"participants"`
}

type CreateActivityResponse struct {
	Activity Activity `json:"activity"`
}

type UpdateActivityRequest struct {
	ActivityID   string        `json:"activityId"`
	Name         string        `json:"name"`
	Amount       int64         `json:"amount"`
	PayerID      string        `json:"payerId"`
	Participants []Participant `json:"participants"`
	// ReplaceParticipants replaces the participant list with Participants.
	// When false the existing list is kept.
	ReplaceParticipants bool `json:"replaceParticipants"`
}

type UpdateActivityResponse struct {
	Activity Activity `json:"activity"`
}

type DeleteActivityRequest struct {
	ActivityID string `json:"activityId"`
}

type DeleteActivityResponse struct {
	Success bool `json:"success"`
}

type DeleteAllActivitiesRequest struct{}

type DeleteAllActivitiesResponse struct {
	Outcome BatchOutcome `json:"outcome"`
	// Activities are the activities left in storage afterwards.
	Activities []Activity `json:"activities"`
}

// SettlementService messages.

type GetResultsRequest struct{}

type GetResultsResponse struct {
	Balances     []MemberBalance `json:"balances"`
	Transactions []Transaction   `json:"transactions"`
	Summary      Summary         `json:"summary"`
	State        string          `json:"state"`
}

type ListTransactionsRequest struct{}

type ListTransactionsResponse struct {
	Transactions []Transaction `json:"transactions"`
}

type SaveTransactionRequest struct {
	FromMemberID string `json:"fromMemberId"`
	ToMemberID   string `json:"toMemberId"`
	Amount       int64  `json:"amount"`
}

type SaveTransactionResponse struct {
	Transaction Transaction `json:"transaction"`
}

type SetTransactionCompletedRequest struct {
	TransactionID string `json:"transactionId"`
	Completed     bool   `json:"completed"`
}

type SetTransactionCompletedResponse struct {
	Transaction Transaction `json:"transaction"`
}

type MarkAllTransactionsCompletedRequest struct{}

type MarkAllTransactionsCompletedResponse struct {
	Outcome      BatchOutcome  `json:"outcome"`
	Transactions []Transaction `json:"transactions"`
}

type FinishSessionRequest struct{}

type FinishSessionResponse struct {
	Outcome      BatchOutcome  `json:"outcome"`
	Transactions []Transaction `json:"transactions"`
	State        string        `json:"state"`
}

type ResetSessionRequest struct{}

type ResetSessionResponse struct {
	Outcome  BatchOutcome    `json:"outcome"`
	Balances []MemberBalance `json:"balances"`
	Summary  Summary         `json:"summary"`
	State    string          `json:"state"`
}

// BankService messages.

type ListBanksRequest struct {
	Query string `json:"query,omitempty"`
}

type ListBanksResponse struct {
	Banks []Bank `json:"banks"`
}

type GenerateQRRequest struct {
	AccountNo   string `json:"accountNo"`
	AccountName string `json:"accountName,omitempty"`
	AcqID       string `json:"acqId"`
	Amount      int64  `json:"amount"`
	AddInfo     string `json:"addInfo,omitempty"`
	Format      string `json:"format,omitempty"`
	Template    string `json:"template,omitempty"`
}

type GenerateQRResponse struct {
	QR QRInfo `json:"qr"`
}
