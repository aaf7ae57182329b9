package block

import (
	"encoding/binary"
	"math"

	"github.com/btcarchive/chainscan/bitcoin"
)

// HeaderSize is the fixed, serialized size of a block header.
const HeaderSize = 80

// Header is the fixed 80-byte prefix of a block record (spec.md §3).
type Header struct {
	Version        int32
	PreviousBlock  bitcoin.Hash32
	MerkleRoot     bitcoin.Hash32
	Timestamp      uint32
	Bits           uint32
	Nonce          uint32

	raw []byte

	hashComputed bool
	hash         bitcoin.Hash32
}

// DecodeHeader reads the fixed 80-byte header from the front of buf. buf
// must contain at least HeaderSize bytes.
func DecodeHeader(buf []byte) (*Header, error) {
	if len(buf) < HeaderSize {
		return nil, ErrTruncated
	}
	raw := buf[:HeaderSize]

	h := &Header{
		Version:   int32(binary.LittleEndian.Uint32(raw[0:4])),
		Timestamp: binary.LittleEndian.Uint32(raw[68:72]),
		Bits:      binary.LittleEndian.Uint32(raw[72:76]),
		Nonce:     binary.LittleEndian.Uint32(raw[76:80]),
		raw:       raw,
	}
	if err := h.PreviousBlock.SetBytes(raw[4:36]); err != nil {
		return nil, err
	}
	if err := h.MerkleRoot.SetBytes(raw[36:68]); err != nil {
		return nil, err
	}
	return h, nil
}

// Bytes returns the header's 80 raw bytes.
func (h *Header) Bytes() []byte {
	return h.raw
}

// Hash returns the block hash: double-SHA256 of the 80 header bytes, stored
// and displayed like any other Hash32 (reversed hex on String()).
func (h *Header) Hash() bitcoin.Hash32 {
	if !h.hashComputed {
		h.hashComputed = true
		h.hash.SetBytes(bitcoin.DoubleSha256(h.raw))
	}
	return h.hash
}

// Difficulty expands the compact "bits" encoding into the familiar
// floating-point difficulty relative to the maximum target (genesis bits
// 0x1d00ffff yields difficulty 1).
func (h *Header) Difficulty() float64 {
	return Difficulty(h.Bits)
}

// Difficulty expands a raw compact-target "bits" field into the
// floating-point difficulty relative to the maximum target.
func Difficulty(bits uint32) float64 {
	mantissa := float64(bits & 0x00ffffff)
	if mantissa == 0 {
		return 0
	}
	exponent := int(bits >> 24)

	difficulty := float64(0x00ffff) / mantissa
	shift := 8 * (0x1d - exponent)
	return difficulty * math.Pow(2, float64(shift))
}
