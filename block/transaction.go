package block

import (
	"bytes"
	"encoding/binary"

	"github.com/btcarchive/chainscan/bitcoin"
)

// segwitMarker is the two bytes ("marker" 0x00, "flag" 0x01) that follow the
// version field of a witness-serialized transaction.
var segwitMarker = [2]byte{0x00, 0x01}

// Transaction is a fully decoded transaction (spec.md §3, §4.4).
type Transaction struct {
	Version  int32
	IsSegwit bool
	Inputs   []*Input
	Outputs  []*Output
	LockTime uint32

	raw                  []byte
	offsetBeforeWitness  int

	wtxidComputed bool
	wtxid         bitcoin.Hash32
	txidComputed  bool
	txid          bitcoin.Hash32
}

// DecodeTransaction decodes one transaction from the front of buf following
// spec.md §4.4's algorithm. It returns the transaction and the number of
// bytes it consumed (its declared size). It fails with ErrIncomplete if buf
// ends inside the trailing 4-byte locktime; a buf that ends earlier fails
// with the error of the field it cuts short (ErrTruncated or
// bitcoin.ErrMalformedVarint).
func DecodeTransaction(buf []byte) (*Transaction, int, error) {
	if len(buf) < 4 {
		return nil, 0, ErrTruncated
	}

	tx := &Transaction{
		Version: int32(binary.LittleEndian.Uint32(buf[0:4])),
	}
	offset := 4

	if len(buf) >= offset+2 && buf[offset] == segwitMarker[0] && buf[offset+1] == segwitMarker[1] {
		tx.IsSegwit = true
		offset += 2
	}

	nIn, n, err := bitcoin.CompactSize(buf[offset:])
	if err != nil {
		return nil, 0, err
	}
	offset += n

	tx.Inputs = make([]*Input, 0, nIn)
	for i := uint64(0); i < nIn; i++ {
		in, consumed, err := DecodeInput(buf[offset:])
		if err != nil {
			return nil, 0, err
		}
		tx.Inputs = append(tx.Inputs, in)
		offset += consumed
	}

	nOut, n, err := bitcoin.CompactSize(buf[offset:])
	if err != nil {
		return nil, 0, err
	}
	offset += n

	tx.Outputs = make([]*Output, 0, nOut)
	for i := uint64(0); i < nOut; i++ {
		out, consumed, err := DecodeOutput(buf[offset:])
		if err != nil {
			return nil, 0, err
		}
		tx.Outputs = append(tx.Outputs, out)
		offset += consumed
	}

	tx.offsetBeforeWitness = offset

	if tx.IsSegwit {
		for _, in := range tx.Inputs {
			stackLen, n, err := bitcoin.CompactSize(buf[offset:])
			if err != nil {
				return nil, 0, err
			}
			offset += n

			in.Witnesses = make([][]byte, 0, stackLen)
			for k := uint64(0); k < stackLen; k++ {
				itemLen, n, err := bitcoin.CompactSize(buf[offset:])
				if err != nil {
					return nil, 0, err
				}
				offset += n

				end := offset + int(itemLen)
				if end > len(buf) {
					return nil, 0, ErrTruncated
				}
				in.Witnesses = append(in.Witnesses, buf[offset:end])
				offset = end
			}
		}
	}

	size := offset + 4
	if len(buf) < size {
		return nil, 0, ErrIncomplete
	}
	tx.raw = buf[:size]

	return tx, size, nil
}

// Size returns the transaction's full serialized size in bytes.
func (tx *Transaction) Size() int {
	return len(tx.raw)
}

// witnessBytes returns the number of bytes occupied by the witness section.
func (tx *Transaction) witnessBytes() int {
	return len(tx.raw) - tx.offsetBeforeWitness - 4
}

// WTxID is the double-SHA256 of the full serialized transaction, reversed
// for display. For non-witness transactions this equals TxID.
func (tx *Transaction) WTxID() bitcoin.Hash32 {
	if !tx.wtxidComputed {
		tx.wtxidComputed = true
		tx.wtxid.SetBytes(bitcoin.DoubleSha256(tx.raw))
	}
	return tx.wtxid
}

// TxID is the double-SHA256 of the stripped serialization (marker, flag,
// and witness data removed). For non-witness transactions it equals WTxID.
func (tx *Transaction) TxID() bitcoin.Hash32 {
	if !tx.IsSegwit {
		return tx.WTxID()
	}

	if !tx.txidComputed {
		tx.txidComputed = true
		stripped := make([]byte, 0, len(tx.raw)-2-tx.witnessBytes())
		stripped = append(stripped, tx.raw[0:4]...)
		stripped = append(stripped, tx.raw[6:tx.offsetBeforeWitness]...)
		stripped = append(stripped, tx.raw[len(tx.raw)-4:]...)
		tx.txid.SetBytes(bitcoin.DoubleSha256(stripped))
	}
	return tx.txid
}

// VSize returns the transaction's virtual size: ceil((stripped*3 + size)/4)
// where stripped = size - 2 - witness_bytes.
func (tx *Transaction) VSize() int {
	size := tx.Size()
	if !tx.IsSegwit {
		return size
	}
	stripped := size - 2 - tx.witnessBytes()
	return (stripped*3 + size + 3) / 4
}

// IsCoinbase reports whether any input spends the all-zero previous txid.
func (tx *Transaction) IsCoinbase() bool {
	for _, in := range tx.Inputs {
		if in.IsCoinbase() {
			return true
		}
	}
	return false
}

// UsesRBF reports whether this (non-coinbase) transaction signals
// replace-by-fee: some input's sequence number is below the
// final-sequence-minus-one threshold.
func (tx *Transaction) UsesRBF() bool {
	if tx.IsCoinbase() {
		return false
	}
	for _, in := range tx.Inputs {
		if in.Sequence < 0xFFFFFFFE {
			return true
		}
	}
	return false
}

// UsesBIP69 reports whether inputs are ordered lexicographically by
// (previous txid, previous vout) and outputs are ordered by (value, script
// bytes), per BIP 69. The txid comparison uses display (big-endian) byte
// order, not the internal little-endian storage order.
func (tx *Transaction) UsesBIP69() bool {
	for i := 1; i < len(tx.Inputs); i++ {
		a, b := tx.Inputs[i-1], tx.Inputs[i]
		cmp := bytes.Compare(a.PreviousTxID.ReverseBytes(), b.PreviousTxID.ReverseBytes())
		if cmp > 0 || (cmp == 0 && a.PreviousVout > b.PreviousVout) {
			return false
		}
	}
	for i := 1; i < len(tx.Outputs); i++ {
		a, b := tx.Outputs[i-1], tx.Outputs[i]
		if a.Value > b.Value {
			return false
		}
		if a.Value == b.Value && bytes.Compare(a.Script.Bytes(), b.Script.Bytes()) > 0 {
			return false
		}
	}
	return true
}
