package block

import (
	"encoding/binary"

	"github.com/btcarchive/chainscan/bitcoin"
	"github.com/btcarchive/chainscan/script"
)

// Input is a transaction input: the outpoint it spends, its unlocking
// script, its sequence number, and — for witness transactions — the
// witness stack attached post-hoc by the transaction decoder (spec.md §3).
type Input struct {
	PreviousTxID bitcoin.Hash32
	PreviousVout uint32
	Script       *script.Script
	Sequence     uint32
	Witnesses    [][]byte
}

// DecodeInput reads one input from the front of buf: 32-byte previous txid,
// 4-byte previous vout, compact-size script length L, L script bytes,
// 4-byte sequence. Returns the number of bytes consumed. The witness list
// starts empty; the transaction decoder fills it in for segwit transactions.
func DecodeInput(buf []byte) (*Input, int, error) {
	if len(buf) < 36 {
		return nil, 0, ErrTruncated
	}

	in := &Input{}
	if err := in.PreviousTxID.SetBytes(buf[0:32]); err != nil {
		return nil, 0, err
	}
	in.PreviousVout = binary.LittleEndian.Uint32(buf[32:36])
	offset := 36

	scriptLen, n, err := bitcoin.CompactSize(buf[offset:])
	if err != nil {
		return nil, 0, err
	}
	offset += n

	scriptEnd := offset + int(scriptLen)
	if scriptEnd+4 > len(buf) {
		return nil, 0, ErrTruncated
	}
	in.Script = script.New(buf[offset:scriptEnd])
	offset = scriptEnd

	in.Sequence = binary.LittleEndian.Uint32(buf[offset : offset+4])
	offset += 4

	return in, offset, nil
}

// IsCoinbase reports whether this input's previous txid is the all-zero
// sentinel used by coinbase transactions.
func (in *Input) IsCoinbase() bool {
	return in.PreviousTxID.IsZero()
}
