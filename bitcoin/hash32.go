package bitcoin

import (
	"bytes"
	"encoding/hex"

	"github.com/pkg/errors"
)

const Hash32Size = 32

var ErrWrongSize = errors.New("Wrong byte size")

// Hash32 is a 32 byte hash (block hash, txid, wtxid, merkle root) stored in
// little-endian, on-the-wire byte order. Its display form (String) is the
// conventional big-endian hex.
type Hash32 [Hash32Size]byte

func NewHash32(b []byte) (*Hash32, error) {
	if len(b) != Hash32Size {
		return nil, errors.Wrapf(ErrWrongSize, "got %d, want %d", len(b), Hash32Size)
	}
	result := Hash32{}
	copy(result[:], b)
	return &result, nil
}

// NewHash32FromStr creates a little-endian hash from a big-endian (display) hex string.
func NewHash32FromStr(s string) (*Hash32, error) {
	result := &Hash32{}
	if err := result.SetString(s); err != nil {
		return nil, err
	}
	return result, nil
}

// Bytes returns the hash in its stored, little-endian order.
func (h Hash32) Bytes() []byte {
	return h[:]
}

// ReverseBytes returns the hash in big-endian order.
func (h Hash32) ReverseBytes() []byte {
	b := make([]byte, Hash32Size)
	reverse32(b, h[:])
	return b
}

// SetBytes sets the value of the hash from little-endian bytes.
func (h *Hash32) SetBytes(b []byte) error {
	if len(b) != Hash32Size {
		return errors.Wrapf(ErrWrongSize, "got %d, want %d", len(b), Hash32Size)
	}
	copy(h[:], b)
	return nil
}

func (h *Hash32) SetString(s string) error {
	if len(s) != 2*Hash32Size {
		return errors.Wrapf(ErrWrongSize, "hex: got %d, want %d", len(s), Hash32Size*2)
	}

	b, err := hex.DecodeString(s)
	if err != nil {
		return err
	}
	reverse32(h[:], b)
	return nil
}

// String returns the display form: hex of the byte-reversed (big-endian) hash.
func (h Hash32) String() string {
	return hex.EncodeToString(h.ReverseBytes())
}

// Equal returns true if the parameter has the same value.
func (h *Hash32) Equal(o *Hash32) bool {
	if h == nil {
		return o == nil
	}
	if o == nil {
		return false
	}
	return bytes.Equal(h[:], o[:])
}

func (h Hash32) Copy() Hash32 {
	var c Hash32
	copy(c[:], h[:])
	return c
}

func (h Hash32) IsZero() bool {
	var zero Hash32
	return h.Equal(&zero)
}

func reverse32(h, rh []byte) {
	i := Hash32Size - 1
	for _, b := range rh {
		h[i] = b
		i--
	}
}
