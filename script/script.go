// Package script decodes a raw Bitcoin script into its opcode/push-data
// sequence, classifies it against the standard output templates, and
// derives the addresses those templates imply (spec.md §4.2).
package script

import "encoding/binary"

// Op is one item in a script's decoded sequence: either a single-byte
// opcode, or a length-prefixed data push (which also covers OP_0, whose
// "push an empty byte string" behavior is represented as a push with no
// data).
type Op struct {
	IsPush bool
	Code   byte
	Data   []byte
}

// Script is a raw script together with its lazily parsed operations.
// A Script never aborts decoding the surrounding transaction: a malformed
// script is represented with an empty, invalid operations list rather than
// an error (spec.md §3, §4.2).
type Script struct {
	raw []byte

	opsParsed bool
	ops       []Op
	valid     bool
}

// New wraps raw script bytes. Decoding is deferred until Ops or Valid is
// first called.
func New(raw []byte) *Script {
	return &Script{raw: raw}
}

// Bytes returns the raw script bytes.
func (s *Script) Bytes() []byte {
	return s.raw
}

// Ops returns the script's decoded operations, parsing them on first access.
// If the script is malformed the returned slice is empty; check Valid to
// distinguish "empty script" from "malformed script".
func (s *Script) Ops() []Op {
	s.parse()
	return s.ops
}

// Valid reports whether the script decoded without running past its own
// bounds (an empty script is valid).
func (s *Script) Valid() bool {
	s.parse()
	return s.valid
}

func (s *Script) parse() {
	if s.opsParsed {
		return
	}
	s.opsParsed = true

	ops, ok := Decode(s.raw)
	s.ops = ops
	s.valid = ok
}

// Decode walks raw following Bitcoin's push/opcode rules: a single-byte
// opcode, a direct push of 0x01-0x4b bytes, or a PUSHDATA1/2/4 length-
// prefixed push. If the walk runs past the end of raw mid-push, it returns
// (nil, false) — per spec.md §4.2, the caller must treat the script as
// having no operations, not abort.
func Decode(raw []byte) ([]Op, bool) {
	var ops []Op
	i := 0
	for i < len(raw) {
		b := raw[i]
		i++

		switch {
		case b == 0x00:
			ops = append(ops, Op{IsPush: true, Code: b})

		case b <= maxSingleBytePush:
			n := int(b)
			if i+n > len(raw) {
				return nil, false
			}
			ops = append(ops, Op{IsPush: true, Code: b, Data: raw[i : i+n]})
			i += n

		case b == OP_PUSHDATA1:
			if i+1 > len(raw) {
				return nil, false
			}
			n := int(raw[i])
			i++
			if i+n > len(raw) {
				return nil, false
			}
			ops = append(ops, Op{IsPush: true, Code: b, Data: raw[i : i+n]})
			i += n

		case b == OP_PUSHDATA2:
			if i+2 > len(raw) {
				return nil, false
			}
			n := int(binary.LittleEndian.Uint16(raw[i : i+2]))
			i += 2
			if i+n > len(raw) {
				return nil, false
			}
			ops = append(ops, Op{IsPush: true, Code: b, Data: raw[i : i+n]})
			i += n

		case b == OP_PUSHDATA4:
			if i+4 > len(raw) {
				return nil, false
			}
			n := int(binary.LittleEndian.Uint32(raw[i : i+4]))
			i += 4
			if i+n > len(raw) {
				return nil, false
			}
			ops = append(ops, Op{IsPush: true, Code: b, Data: raw[i : i+n]})
			i += n

		default:
			ops = append(ops, Op{Code: b})
		}
	}

	return ops, true
}

// isPublicKey reports whether data looks like a compressed (33 bytes,
// prefix 0x02/0x03) or uncompressed (65 bytes, prefix 0x04) public key. This
// does not validate the key, only the encoding pattern (spec.md §4.2).
func isPublicKey(data []byte) bool {
	switch len(data) {
	case 33:
		return data[0] == 0x02 || data[0] == 0x03
	case 65:
		return data[0] == 0x04
	default:
		return false
	}
}

// smallInt returns the integer value of op if it is a small-integer push
// (OP_0, OP_1NEGATE, OP_1-OP_16), and whether op is one of those.
func smallInt(op Op) (int, bool) {
	if op.Data != nil {
		return 0, false
	}
	return smallIntValue(op.Code)
}
