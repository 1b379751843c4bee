package domain

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// ValidateRecipient accepts hex-encoded EVM wallet addresses, with or without the 0x prefix.
func ValidateRecipient(addr string) error {
	if addr == "" {
		return fmt.Errorf("%w: empty", ErrInvalidRecipient)
	}
	if !common.IsHexAddress(addr) {
		return fmt.Errorf("%w: %q", ErrInvalidRecipient, addr)
	}
	return nil
}
