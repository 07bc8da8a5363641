package utils

import (
	"testing"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in     string
		places int32
		want   string
		err    bool
	}{
		{"150", UsdtPlaces, "150", false},
		{"150,5", UsdtPlaces, "150.5", false},
		{"1 000.25", RubPlaces, "1000.25", false},
		{"1 500", RubPlaces, "1500", false},
		{"10.129", RubPlaces, "10.13", false},
		{"0", RubPlaces, "", true},
		{"-5", RubPlaces, "", true},
		{"abc", RubPlaces, "", true},
		{"", RubPlaces, "", true},
	}
	for _, tt := range tests {
		got, err := ParseAmount(tt.in, tt.places)
		if tt.err {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "%s: got %s", tt.in, got)
	}
}

func TestRoundTo(t *testing.T) {
	got := RoundTo(decimal.RequireFromString("1.123456789"), UsdtPlaces)
	assert.Equal(t, "1.12345679", got.String())
}

func TestValidateTronAddress(t *testing.T) {
	valid := base58.CheckEncode(make([]byte, 20), tronVersion)
	assert.NoError(t, ValidateTronAddress(valid))

	assert.Error(t, ValidateTronAddress(base58.CheckEncode(make([]byte, 20), 0x00)))
	assert.Error(t, ValidateTronAddress(base58.CheckEncode(make([]byte, 19), tronVersion)))
	assert.Error(t, ValidateTronAddress("TNotAnAddress"))
	assert.Error(t, ValidateTronAddress(""))
}

func TestIsTxHash(t *testing.T) {
	assert.True(t, IsTxHash("0123456789abcdefABCDEF0123456789abcdef0123456789abcdef0123456789"))
	assert.False(t, IsTxHash("0123"))
	assert.False(t, IsTxHash("g123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"))
	assert.False(t, IsTxHash("0123456789abcdef0123456789abcdef 123456789abcdef0123456789abcdef"))
	assert.False(t, IsTxHash("0x23456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"))
}
