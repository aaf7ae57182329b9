package bitcoin

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
)

const Hash20Size = 20

// Hash20 is a 20 byte hash (e.g. a HASH160 public-key or script hash) stored
// in little-endian, on-the-wire byte order.
type Hash20 [Hash20Size]byte

func NewHash20(b []byte) (*Hash20, error) {
	if len(b) != Hash20Size {
		return nil, errors.New("Wrong byte length")
	}
	result := Hash20{}
	copy(result[:], b)
	return &result, nil
}

// NewHash20FromStr creates a little endian hash from a big endian (display) hex string.
func NewHash20FromStr(s string) (*Hash20, error) {
	if len(s) != 2*Hash20Size {
		return nil, fmt.Errorf("Wrong size hex for Hash20 : %d", len(s))
	}

	b := make([]byte, Hash20Size)
	if _, err := hex.Decode(b, []byte(s)); err != nil {
		return nil, err
	}

	result := Hash20{}
	reverse20(result[:], b)
	return &result, nil
}

// NewHash20FromData creates a Hash20 by hashing the data with HASH160 (Ripemd160(Sha256(b))).
func NewHash20FromData(b []byte) (*Hash20, error) {
	return NewHash20(Hash160(b))
}

// Bytes returns the hash in its stored, little-endian order.
func (h Hash20) Bytes() []byte {
	return h[:]
}

// SetBytes sets the value of the hash from little-endian bytes.
func (h *Hash20) SetBytes(b []byte) error {
	if len(b) != Hash20Size {
		return errors.New("Wrong byte length")
	}
	copy(h[:], b)
	return nil
}

// String returns the display form: hex of the byte-reversed (big-endian) hash.
func (h Hash20) String() string {
	var r [Hash20Size]byte
	reverse20(r[:], h[:])
	return fmt.Sprintf("%x", r[:])
}

// Equal returns true if the parameter has the same value.
func (h *Hash20) Equal(o *Hash20) bool {
	if h == nil {
		return o == nil
	}
	if o == nil {
		return false
	}
	return bytes.Equal(h[:], o[:])
}

func (h Hash20) IsZero() bool {
	var zero Hash20
	return bytes.Equal(h[:], zero[:])
}

func reverse20(h, rh []byte) {
	i := Hash20Size - 1
	for _, b := range rh {
		h[i] = b
		i--
	}
}
