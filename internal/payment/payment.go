package payment

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// BankAccount is one manual-transfer destination.
type BankAccount struct {
	Name    string
	Account string
	Holder  string
}

// Method describes one way to pay at checkout. Fee and MaxAmount are in
// rupiah; MaxAmount zero means unlimited.
type Method struct {
	Key            string
	Name           string
	Icon           string
	Description    string
	FeeIDR         int
	Color          string
	PhoneNumber    string
	SupportedBanks []string
	SupportedCards []string
	Banks          []BankAccount
	MaxAmountIDR   int
}

// CODMaxAmountIDR caps cash-on-delivery orders.
const CODMaxAmountIDR = 5_000_000

// CODFeeIDR is the courier handling fee for cash on delivery.
const CODFeeIDR = 15_000

// Methods lists the supported payment methods in display order.
var Methods = []Method{
	{
		Key:            "qris",
		Name:           "QRIS (QR Code Indonesian Standard)",
		Icon:           "fas fa-qrcode",
		Description:    "Scan QR code with any e-wallet or bank app",
		Color:          "#1e88e5",
		SupportedBanks: []string{"All Indonesian Banks", "E-wallets"},
	},
	{
		Key:         "dana",
		Name:        "Dana E-Wallet",
		Icon:        "fas fa-wallet",
		Description: "Instant payment via Dana app",
		Color:       "#00AAEE",
		PhoneNumber: "0812-3456-7890",
	},
	{
		Key:         "ovo",
		Name:        "OVO E-Wallet",
		Icon:        "fas fa-mobile-alt",
		Description: "Pay via OVO app or QR",
		Color:       "#4F2C7F",
		PhoneNumber: "0812-3456-7891",
	},
	{
		Key:         "bank_transfer",
		Name:        "Bank Transfer",
		Icon:        "fas fa-university",
		Description: "Manual transfer to bank account",
		Color:       "#43a047",
		Banks: []BankAccount{
			{Name: "BCA", Account: "1234567890", Holder: "TOKOMINI"},
			{Name: "Mandiri", Account: "0987654321", Holder: "TOKOMINI STORE"},
			{Name: "BNI", Account: "1122334455", Holder: "MINI TOKOMINI"},
		},
	},
	{
		Key:            "debit_card",
		Name:           "Debit Card",
		Icon:           "fas fa-credit-card",
		Description:    "Visa/Mastercard debit card",
		Color:          "#f39c12",
		SupportedCards: []string{"Visa", "Mastercard", "JCB"},
	},
	{
		Key:          "cod",
		Name:         "Cash on Delivery (COD)",
		Icon:         "fas fa-money-bill-wave",
		Description:  "Pay cash when item arrives",
		FeeIDR:       CODFeeIDR,
		Color:        "#e74c3c",
		MaxAmountIDR: CODMaxAmountIDR,
	},
}

// MethodByKey looks up a payment method; ok is false for unknown keys.
func MethodByKey(key string) (Method, bool) {
	for _, m := range Methods {
		if m.Key == key {
			return m, true
		}
	}
	return Method{}, false
}

// ConvertToIDR converts a USD amount to whole rupiah at the given rate.
func ConvertToIDR(usd, rate float64) int {
	if usd < 0 {
		return 0
	}
	return int(usd * rate)
}

// NewOrderNumber generates an order number like ORD-20240115-3FA8C2D1.
func NewOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102"), suffix)
}

// NewTransactionID generates a transaction ID like TXN-9B1D2E3F4A5C.
func NewTransactionID() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:12])
	return "TXN-" + suffix
}
