package block

import (
	"encoding/binary"

	"github.com/btcarchive/chainscan/bitcoin"
	"github.com/btcarchive/chainscan/script"
)

// Output is a transaction output: a value and a locking script (spec.md §3).
type Output struct {
	Value  uint64
	Script *script.Script
}

// DecodeOutput reads one output from the front of buf: 8-byte value,
// compact-size script length L, L script bytes. Returns the number of
// bytes consumed.
func DecodeOutput(buf []byte) (*Output, int, error) {
	if len(buf) < 8 {
		return nil, 0, ErrTruncated
	}
	value := binary.LittleEndian.Uint64(buf[0:8])
	offset := 8

	scriptLen, n, err := bitcoin.CompactSize(buf[offset:])
	if err != nil {
		return nil, 0, err
	}
	offset += n

	end := offset + int(scriptLen)
	if end > len(buf) {
		return nil, 0, ErrTruncated
	}

	out := &Output{
		Value:  value,
		Script: script.New(buf[offset:end]),
	}
	return out, end, nil
}
