package utils

import (
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/base58"
)

// tronVersion is the address prefix byte of TRON main net addresses (the
// leading "T" in base58).
const tronVersion = 0x41

// ValidateTronAddress checks a TRC-20 deposit address: base58check encoded,
// version byte 0x41, 20 byte payload.
func ValidateTronAddress(address string) error {
	payload, version, err := base58.CheckDecode(address)
	if err != nil {
		return fmt.Errorf("invalid address %q: %w", address, err)
	}
	if version != tronVersion {
		return fmt.Errorf("invalid address %q: not a TRON address", address)
	}
	if len(payload) != 20 {
		return fmt.Errorf("invalid address %q: bad payload length %d", address, len(payload))
	}
	return nil
}

// IsTxHash reports whether s looks like a TRON transaction id (64 hex chars).
func IsTxHash(s string) bool {
	if len(s) != 64 {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}
