package models

// Bank is an entry of the VietQR bank directory.
type Bank struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Code              string `json:"code"`
	BIN               string `json:"bin"`
	ShortName         string `json:"shortName"`
	Logo              string `json:"logo"`
	TransferSupported int    `json:"transferSupported"`
	LookupSupported   int    `json:"lookupSupported"`
	SwiftCode         string `json:"swift_code,omitempty"`
}

// QRInfo is everything a client needs to display a transfer QR code.
// The QR code is an image URL; no payment is executed.
type QRInfo struct {
	BankName    string
	BankCode    string
	BankBIN     string
	BankLogo    string
	AccountNo   string
	AccountName string
	Amount      int64
	AddInfo     string
	QRCodeURL   string
}
