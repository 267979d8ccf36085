package registry

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
)

// Function selectors for the ERC-721 enumerable calls likeness issues.
const (
	selectorTotalSupply  = "0x18160ddd" // totalSupply()
	selectorTokenByIndex = "0x4f6ccce7" // tokenByIndex(uint256)
	selectorTokenURI     = "0xc87b56dd" // tokenURI(uint256)
)

const wordHexLen = 64

// encodeUint256 appends a big-endian 32-byte word to a selector. Values
// outside the uint256 range have no single-word encoding and are rejected.
func encodeUint256(selector string, value *big.Int) (string, error) {
	if value == nil || value.Sign() < 0 || value.BitLen() > 256 {
		return "", fmt.Errorf("value %s does not fit a uint256 word", value)
	}
	return selector + fmt.Sprintf("%064x", value), nil
}

func stripHexPrefix(s string) string {
	return strings.TrimPrefix(strings.TrimSpace(s), "0x")
}

// decodeUint256 parses a single 32-byte word result.
func decodeUint256(result string) (*big.Int, error) {
	payload := stripHexPrefix(result)
	if payload == "" {
		return nil, fmt.Errorf("empty uint256 result")
	}
	value, ok := new(big.Int).SetString(payload, 16)
	if !ok || value.Sign() < 0 {
		return nil, fmt.Errorf("malformed uint256 result %q", result)
	}
	return value, nil
}

// decodeString parses an ABI-encoded dynamic string result: a 32-byte
// offset word, a 32-byte length word, then the UTF-8 bytes padded to a word
// boundary.
func decodeString(result string) (string, error) {
	payload := stripHexPrefix(result)
	if len(payload) < 2*wordHexLen {
		return "", fmt.Errorf("string result too short: %d hex chars", len(payload))
	}

	offset, err := decodeUint256(payload[:wordHexLen])
	if err != nil {
		return "", fmt.Errorf("string offset: %w", err)
	}
	// Offset and length words come straight off the wire; words beyond the
	// int64 range would wrap under arithmetic below, so bound them against
	// the payload before converting.
	if !offset.IsInt64() || offset.Int64() > int64(len(payload))/2 {
		return "", fmt.Errorf("string offset %s out of range", offset)
	}
	offsetHex := offset.Int64() * 2
	if offsetHex+wordHexLen > int64(len(payload)) {
		return "", fmt.Errorf("string offset %d out of range", offset)
	}

	length, err := decodeUint256(payload[offsetHex : offsetHex+wordHexLen])
	if err != nil {
		return "", fmt.Errorf("string length: %w", err)
	}
	if !length.IsInt64() || length.Int64() > int64(len(payload))/2 {
		return "", fmt.Errorf("string length %s out of range", length)
	}
	dataStart := offsetHex + wordHexLen
	dataEnd := dataStart + length.Int64()*2
	if dataEnd > int64(len(payload)) {
		return "", fmt.Errorf("string data truncated: need %d hex chars, have %d", dataEnd, len(payload))
	}

	data, err := hex.DecodeString(payload[dataStart:dataEnd])
	if err != nil {
		return "", fmt.Errorf("string data: %w", err)
	}
	return string(data), nil
}
