package chainindex

import (
	"github.com/btcarchive/chainscan/bitcoin"
	"github.com/btcarchive/chainscan/block"
)

// Status bits within a block-index record's status varint (src/chain.h's
// BLOCK_HAVE_DATA / BLOCK_HAVE_UNDO).
const (
	StatusHaveData = 0x08
	StatusHaveUndo = 0x10
)

// unsetPosition is the sentinel used for a file/data/undo position whose
// corresponding status bit is clear.
const unsetPosition = -1

// BlockIndexRecord is the decoded value stored under key `b'b' ++ hash` in
// the external block index (spec.md §3).
type BlockIndexRecord struct {
	Hash bitcoin.Hash32

	Height   uint64
	Status   uint64
	NumTx    uint64
	File     int64
	DataPos  int64
	UndoPos  int64

	header []byte // trailing 80 raw header bytes
}

// DecodeBlockIndexRecord decodes value (the bytes stored under key
// `b'b' ++ hash`) into a BlockIndexRecord. hash is the 32-byte key suffix,
// already in its internal (little-endian) byte order.
func DecodeBlockIndexRecord(hash []byte, value []byte) (*BlockIndexRecord, error) {
	pos := 0

	_, n, err := bitcoin.IndexVarint(value[pos:]) // unused (client version)
	if err != nil {
		return nil, err
	}
	pos += n

	height, n, err := bitcoin.IndexVarint(value[pos:])
	if err != nil {
		return nil, err
	}
	pos += n

	status, n, err := bitcoin.IndexVarint(value[pos:])
	if err != nil {
		return nil, err
	}
	pos += n

	numTx, n, err := bitcoin.IndexVarint(value[pos:])
	if err != nil {
		return nil, err
	}
	pos += n

	r := &BlockIndexRecord{
		Height:  height,
		Status:  status,
		NumTx:   numTx,
		File:    unsetPosition,
		DataPos: unsetPosition,
		UndoPos: unsetPosition,
	}
	if err := r.Hash.SetBytes(hash); err != nil {
		return nil, err
	}

	if status&(StatusHaveData|StatusHaveUndo) != 0 {
		file, n, err := bitcoin.IndexVarint(value[pos:])
		if err != nil {
			return nil, err
		}
		pos += n
		r.File = int64(file)
	}

	if status&StatusHaveData != 0 {
		dataPos, n, err := bitcoin.IndexVarint(value[pos:])
		if err != nil {
			return nil, err
		}
		pos += n
		r.DataPos = int64(dataPos)
	}

	if status&StatusHaveUndo != 0 {
		undoPos, n, err := bitcoin.IndexVarint(value[pos:])
		if err != nil {
			return nil, err
		}
		pos += n
		r.UndoPos = int64(undoPos)
	}

	if pos+block.HeaderSize != len(value) {
		return nil, ErrInvalidIndexRecord
	}
	r.header = append([]byte(nil), value[pos:]...)

	return r, nil
}

// RawHeader returns the record's trailing 80 raw header bytes.
func (r *BlockIndexRecord) RawHeader() []byte {
	return r.header
}

// NewBlockIndexRecord builds a BlockIndexRecord directly from already-decoded
// fields, bypassing varint decoding. Used to reconstruct records read back
// from the persistent index cache (spec.md §4.9).
func NewBlockIndexRecord(hash bitcoin.Hash32, height, status, numTx uint64, file, dataPos, undoPos int64, header []byte) *BlockIndexRecord {
	return &BlockIndexRecord{
		Hash:    hash,
		Height:  height,
		Status:  status,
		NumTx:   numTx,
		File:    file,
		DataPos: dataPos,
		UndoPos: undoPos,
		header:  header,
	}
}

// HasData reports whether the record's block payload is present on disk.
func (r *BlockIndexRecord) HasData() bool {
	return r.Status&StatusHaveData != 0
}

// HasUndo reports whether the record's undo data is present on disk.
func (r *BlockIndexRecord) HasUndo() bool {
	return r.Status&StatusHaveUndo != 0
}

// Header eagerly unpacks the record's trailing 80 header bytes, the
// convenience the original parser exposes as fields directly on the index
// entry (spec.md §9).
func (r *BlockIndexRecord) Header() (*block.Header, error) {
	return block.DecodeHeader(r.header)
}
