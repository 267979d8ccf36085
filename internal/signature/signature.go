package signature

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math/bits"
	"strings"
)

// ErrLengthMismatch indicates an attempt to compare signatures of different
// bit lengths. This is a configuration or programmer error: reference
// signatures must be computed with the same hash dimensions as item
// signatures.
var ErrLengthMismatch = errors.New("signature length mismatch")

// Signature is a fixed-length perceptual fingerprint, packed eight bits per
// byte. Immutable once computed.
type Signature struct {
	data []byte
}

// FromBytes wraps packed signature bytes. The slice is copied.
func FromBytes(data []byte) Signature {
	cp := make([]byte, len(data))
	copy(cp, data)
	return Signature{data: cp}
}

// ParseHex decodes a hex-encoded signature. The input must have an even
// number of hex digits so the signature covers whole bytes.
func ParseHex(s string) (Signature, error) {
	trimmed := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "0x"))
	if trimmed == "" {
		return Signature{}, errors.New("empty signature")
	}
	if len(trimmed)%2 != 0 {
		return Signature{}, fmt.Errorf("signature hex has odd length %d", len(trimmed))
	}
	data, err := hex.DecodeString(trimmed)
	if err != nil {
		return Signature{}, fmt.Errorf("decode signature hex: %w", err)
	}
	return Signature{data: data}, nil
}

// Len returns the signature length in bits.
func (s Signature) Len() int {
	return len(s.data) * 8
}

// IsZero reports whether the signature holds no data.
func (s Signature) IsZero() bool {
	return len(s.data) == 0
}

// Hex returns the lowercase hex encoding of the signature.
func (s Signature) Hex() string {
	return hex.EncodeToString(s.data)
}

// Distance returns the Hamming distance to other: the number of bit
// positions where the two signatures differ. Signatures of different
// lengths are not comparable and produce ErrLengthMismatch.
func (s Signature) Distance(other Signature) (int, error) {
	if len(s.data) != len(other.data) {
		return 0, fmt.Errorf("%w: %d bits vs %d bits", ErrLengthMismatch, s.Len(), other.Len())
	}
	distance := 0
	for i := range s.data {
		distance += bits.OnesCount8(s.data[i] ^ other.data[i])
	}
	return distance, nil
}
