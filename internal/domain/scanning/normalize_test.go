package scanning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeBarcode(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "plain digits", raw: "123", want: "#123"},
		{name: "leading zeros stripped", raw: "00123", want: "#123"},
		{name: "letters around digits", raw: "abc123def", want: "#123"},
		{name: "separators between digit runs", raw: "12-34", want: "#1234"},
		{name: "already canonical", raw: "#123456", want: "#123456"},
		{name: "whitespace and punctuation", raw: "  #00 12.3 ", want: "#123"},
		{name: "no digits", raw: "abc", wantErr: true},
		{name: "only zeros", raw: "0000", wantErr: true},
		{name: "too many digits", raw: "1234567", wantErr: true},
		{name: "empty", raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeBarcode(tt.raw, DefaultMaxBarcodeDigits)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidBarcode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeBarcode_Idempotent(t *testing.T) {
	inputs := []string{"123", "00123", "abc123def", "#654321", "9"}
	for _, raw := range inputs {
		once, err := NormalizeBarcode(raw, DefaultMaxBarcodeDigits)
		require.NoError(t, err)
		twice, err := NormalizeBarcode(once, DefaultMaxBarcodeDigits)
		require.NoError(t, err)
		assert.Equal(t, once, twice, "normalize(normalize(%q)) must equal normalize(%q)", raw, raw)
	}
}

func TestNormalizeBarcode_MaxDigitsFallback(t *testing.T) {
	// Non-positive limits fall back to the default rather than
	// rejecting every barcode.
	got, err := NormalizeBarcode("123456", 0)
	require.NoError(t, err)
	assert.Equal(t, "#123456", got)
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		cc   string
		want string
	}{
		{name: "local number untouched", raw: "0612345678", cc: "212", want: "0612345678"},
		{name: "plus country code folded", raw: "+212612345678", cc: "212", want: "0612345678"},
		{name: "double zero prefix folded", raw: "00212612345678", cc: "212", want: "0612345678"},
		{name: "separators stripped", raw: "+212 612-345-678", cc: "212", want: "0612345678"},
		{name: "no country code configured", raw: "+212612345678", cc: "", want: "212612345678"},
		{name: "short number keeps code-like prefix", raw: "2124", cc: "212", want: "2124"},
		{name: "empty", raw: "", cc: "212", want: ""},
		{name: "non numeric", raw: "n/a", cc: "212", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePhone(tt.raw, tt.cc))
		})
	}
}

func TestNormalizePhone_Idempotent(t *testing.T) {
	inputs := []string{"+212612345678", "00212612345678", "0612345678", "", "2124"}
	for _, raw := range inputs {
		once := NormalizePhone(raw, "212")
		assert.Equal(t, once, NormalizePhone(once, "212"))
	}
}
