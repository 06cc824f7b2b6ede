package bankdir

import "github.com/mmynk/groupsplit/internal/models"

// UnknownBankLogo is shown for banks missing from the directory.
const UnknownBankLogo = "https://vietqr.net/img/financial-services.png"

var fallbackBanks = []models.Bank{
	{ID: "970436", Name: "Ngân hàng TMCP Ngoại thương Việt Nam", Code: "VCB", BIN: "970436", ShortName: "Vietcombank", Logo: "https://api.vietqr.io/img/VCB.png", TransferSupported: 1, LookupSupported: 1},
	{ID: "970418", Name: "Ngân hàng TMCP Công thương Việt Nam", Code: "ICB", BIN: "970418", ShortName: "VietinBank", Logo: "https://api.vietqr.io/img/ICB.png", TransferSupported: 1, LookupSupported: 1},
	{ID: "970415", Name: "Ngân hàng TMCP Đầu tư và Phát triển Việt Nam", Code: "BIDV", BIN: "970415", ShortName: "BIDV", Logo: "https://api.vietqr.io/img/BIDV.png", TransferSupported: 1, LookupSupported: 1},
	{ID: "970412", Name: "Ngân hàng TMCP Kỹ thương Việt Nam", Code: "TCB", BIN: "970412", ShortName: "Techcombank", Logo: "https://api.vietqr.io/img/TCB.png", TransferSupported: 1, LookupSupported: 1},
	{ID: "970407", Name: "Ngân hàng TMCP Phát triển Thành phố Hồ Chí Minh", Code: "HDB", BIN: "970407", ShortName: "HDBank", Logo: "https://api.vietqr.io/img/HDB.png", TransferSupported: 1, LookupSupported: 1},
	{ID: "970423", Name: "Ngân hàng TMCP Tiên Phong", Code: "TPB", BIN: "970423", ShortName: "TPBank", Logo: "https://api.vietqr.io/img/TPB.png", TransferSupported: 1, LookupSupported: 1},
	{ID: "970432", Name: "Ngân hàng TMCP Quân đội", Code: "MB", BIN: "970432", ShortName: "MBBank", Logo: "https://api.vietqr.io/img/MB.png", TransferSupported: 1, LookupSupported: 1},
	{ID: "970422", Name: "Ngân hàng TMCP Quốc tế Việt Nam", Code: "VIB", BIN: "970422", ShortName: "VIB", Logo: "https://api.vietqr.io/img/VIB.png", TransferSupported: 1, LookupSupported: 1},
}

// FallbackBanks returns the built-in bank list served when the remote
// directory is unreachable.
func FallbackBanks() []models.Bank {
	return append([]models.Bank(nil), fallbackBanks...)
}

// unknownBank describes a bank that is not in the directory by its BIN alone.
func unknownBank(bin string) models.Bank {
	return models.Bank{
		ID:                bin,
		Name:              bin,
		Code:              bin,
		BIN:               bin,
		ShortName:         bin,
		Logo:              UnknownBankLogo,
		TransferSupported: 1,
	}
}
