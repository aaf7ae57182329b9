package bitcoin

import "encoding/binary"

// CompactSize decodes Bitcoin's standard variable-length unsigned integer
// encoding (1, 3, 5 or 9 bytes) from the front of buf.
//
// See https://developer.bitcoin.org/reference/transactions.html#compactsize-unsigned-integers
func CompactSize(buf []byte) (value uint64, consumed int, err error) {
	if len(buf) < 1 {
		return 0, 0, ErrMalformedVarint
	}

	switch b := buf[0]; {
	case b < 0xfd:
		return uint64(b), 1, nil

	case b == 0xfd:
		if len(buf) < 3 {
			return 0, 0, ErrMalformedVarint
		}
		return uint64(binary.LittleEndian.Uint16(buf[1:3])), 3, nil

	case b == 0xfe:
		if len(buf) < 5 {
			return 0, 0, ErrMalformedVarint
		}
		return uint64(binary.LittleEndian.Uint32(buf[1:5])), 5, nil

	default: // 0xff
		if len(buf) < 9 {
			return 0, 0, ErrMalformedVarint
		}
		return binary.LittleEndian.Uint64(buf[1:9]), 9, nil
	}
}

// CompactSizeLen returns the number of bytes PutCompactSize will write for value.
func CompactSizeLen(value uint64) int {
	switch {
	case value < 0xfd:
		return 1
	case value <= 0xffff:
		return 3
	case value <= 0xffffffff:
		return 5
	default:
		return 9
	}
}

// PutCompactSize encodes value into buf (which must have at least
// CompactSizeLen(value) bytes) and returns the number of bytes written.
func PutCompactSize(buf []byte, value uint64) int {
	switch {
	case value < 0xfd:
		buf[0] = byte(value)
		return 1
	case value <= 0xffff:
		buf[0] = 0xfd
		binary.LittleEndian.PutUint16(buf[1:3], uint16(value))
		return 3
	case value <= 0xffffffff:
		buf[0] = 0xfe
		binary.LittleEndian.PutUint32(buf[1:5], uint32(value))
		return 5
	default:
		buf[0] = 0xff
		binary.LittleEndian.PutUint64(buf[1:9], value)
		return 9
	}
}

// IndexVarint decodes the non-standard variable-length integer used inside
// the reference node's own block-index and transaction-index records
// (src/serialize.h's base-128 "prefix sum" varint, distinct from CompactSize).
//
// Each byte contributes 7 bits; the high bit signals continuation, and the
// accumulator is incremented by one at every continuation to account for the
// implicit leading 1 bit that base-128 would otherwise waste.
func IndexVarint(buf []byte) (value uint64, consumed int, err error) {
	var n uint64
	for i, d := range buf {
		n = (n << 7) | uint64(d&0x7f)
		if d&0x80 == 0 {
			return n, i + 1, nil
		}
		n++
	}
	return 0, 0, ErrMalformedVarint
}
