package scanning

import (
	"regexp"
	"strings"

	"github.com/chafiq1992/order-scanner/internal/domain/shared"
)

// DefaultMaxBarcodeDigits is the maximum number of digits a barcode may
// carry after normalization. Shopify order numbers are short; anything
// longer is a mis-scan (tracking numbers, EAN codes).
const DefaultMaxBarcodeDigits = 6

// ErrInvalidBarcode indicates the scanned text cannot be reduced to an
// order identifier.
var ErrInvalidBarcode = shared.NewDomainError("INVALID_BARCODE", "Barcode does not contain a valid order number")

var digitRuns = regexp.MustCompile(`\d+`)

// NormalizeBarcode reduces raw barcode text to the canonical order
// identifier form "#<digits>". All non-digit characters are dropped and
// leading zeros stripped, so "00123", "IRK-123" and "#123" all map to
// "#123". Normalization is idempotent.
func NormalizeBarcode(raw string, maxDigits int) (string, error) {
	if maxDigits <= 0 {
		maxDigits = DefaultMaxBarcodeDigits
	}
	digits := strings.Join(digitRuns.FindAllString(raw, -1), "")
	digits = strings.TrimLeft(digits, "0")
	if digits == "" || len(digits) > maxDigits {
		return "", ErrInvalidBarcode
	}
	return "#" + digits, nil
}

// NormalizePhone reduces a phone number to local digits-only form so
// that "+212 612-345-678", "00212612345678" and "0612345678" compare
// equal. countryCode is the international prefix to fold away (digits
// only, e.g. "212"); pass "" to keep numbers as bare digits. Empty or
// non-numeric input normalizes to "", which duplicate checks skip.
// Normalization is idempotent.
func NormalizePhone(raw, countryCode string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	digits = strings.TrimPrefix(digits, "00")

	// Fold the international prefix to a local leading zero. Only
	// applied when enough digits remain for a subscriber number, so
	// short local numbers that happen to start with the code survive.
	if countryCode != "" && strings.HasPrefix(digits, countryCode) && len(digits)-len(countryCode) >= 6 {
		digits = "0" + strings.TrimLeft(digits[len(countryCode):], "0")
	}
	return digits
}
