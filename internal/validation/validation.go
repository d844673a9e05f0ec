// Package validation checks user-supplied addresses, keys, and order fields.
package validation

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/shopspring/decimal"
)

// Time-in-force values accepted by the exchange.
const (
	TifGtc = "Gtc"
	TifIoc = "Ioc"
	TifAlo = "Alo"
)

// ValidateAddress parses a 0x-prefixed 20-byte hex address.
func ValidateAddress(value string) (common.Address, error) {
	if !strings.HasPrefix(value, "0x") || len(value) != 42 || !common.IsHexAddress(value) {
		return common.Address{}, fmt.Errorf("invalid address: %s", value)
	}
	return common.HexToAddress(value), nil
}

// ValidatePrivateKey normalizes a private key to 0x-prefixed 64-hex form.
func ValidatePrivateKey(value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	hex := strings.TrimPrefix(strings.TrimPrefix(trimmed, "0x"), "0X")
	if len(hex) != 64 || !isHex(hex) {
		return "", fmt.Errorf("invalid private key format, must be a 64-character hex string")
	}
	return "0x" + hex, nil
}

// AddressFromPrivateKey derives the wallet address of a validated private key.
func AddressFromPrivateKey(privateKey string) (common.Address, error) {
	normalized, err := ValidatePrivateKey(privateKey)
	if err != nil {
		return common.Address{}, err
	}
	key, err := crypto.HexToECDSA(strings.TrimPrefix(normalized, "0x"))
	if err != nil {
		return common.Address{}, fmt.Errorf("invalid private key: %w", err)
	}
	return crypto.PubkeyToAddress(key.PublicKey), nil
}

func isHex(s string) bool {
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}

// ValidatePositiveNumber parses a strictly positive decimal.
func ValidatePositiveNumber(value, name string) (decimal.Decimal, error) {
	num, err := decimal.NewFromString(value)
	if err != nil || !num.IsPositive() {
		return decimal.Decimal{}, fmt.Errorf("%s must be a positive number", name)
	}
	return num, nil
}

// ValidateNonNegativeNumber parses a decimal that is zero or greater.
func ValidateNonNegativeNumber(value, name string) (decimal.Decimal, error) {
	num, err := decimal.NewFromString(value)
	if err != nil || num.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("%s must be a non-negative number", name)
	}
	return num, nil
}

// ValidatePositiveInt parses a strictly positive integer, truncating any
// fractional part the user typed.
func ValidatePositiveInt(value, name string) (uint64, error) {
	num, err := decimal.NewFromString(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a positive integer", name)
	}
	truncated := num.Truncate(0)
	if !truncated.IsPositive() {
		return 0, fmt.Errorf("%s must be a positive integer", name)
	}
	return uint64(truncated.IntPart()), nil
}

// ValidateSide normalizes buy/sell.
func ValidateSide(value string) (string, error) {
	switch strings.ToLower(value) {
	case "buy":
		return "buy", nil
	case "sell":
		return "sell", nil
	default:
		return "", fmt.Errorf(`side must be "buy" or "sell"`)
	}
}

// ValidateSideWithAliases normalizes buy/sell and the long/short aliases.
func ValidateSideWithAliases(value string) (string, error) {
	switch strings.ToLower(value) {
	case "long", "buy":
		return "buy", nil
	case "short", "sell":
		return "sell", nil
	default:
		return "", fmt.Errorf(`side must be "buy", "sell", "long", or "short"`)
	}
}

// ValidateTif normalizes a time-in-force value.
func ValidateTif(value string) (string, error) {
	switch strings.ToLower(value) {
	case "gtc":
		return TifGtc, nil
	case "ioc":
		return TifIoc, nil
	case "alo":
		return TifAlo, nil
	default:
		return "", fmt.Errorf(`time-in-force must be "Gtc", "Ioc", or "Alo"`)
	}
}
