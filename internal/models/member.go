package models

// Member represents a person taking part in the group's expenses.
type Member struct {
	// ID is the unique identifier for the member (UUID format).
	ID string

	// Name is the display name. Names are unique among active members,
	// compared case-insensitively.
	Name string

	// Phone is an optional contact number.
	Phone string

	// QRCode is an optional payment QR image as a data URL
	// (e.g. "data:image/png;base64,...").
	QRCode string

	// Bank holds optional bank account details used to render transfer QR codes.
	Bank BankAccount

	// Active is false once the member has been soft-deleted.
	Active bool

	// CreatedAt is the Unix timestamp when the member was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last change.
	UpdatedAt int64
}

// BankAccount holds a member's bank details. All fields are optional.
type BankAccount struct {
	// Code is the short bank code (e.g. "VCB").
	Code string

	// BIN is the bank identification number used by VietQR (e.g. "970436").
	BIN string

	// Name is the bank's display name.
	Name string

	// AccountName is the account holder's name.
	AccountName string

	// AccountNo is the account number.
	AccountNo string
}
