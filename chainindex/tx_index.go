package chainindex

import "github.com/btcarchive/chainscan/bitcoin"

// TxIndexRecord is the decoded value stored under key `b't' ++
// reverse(txid)` in the external transaction index (spec.md §3): the block
// file it lives in, that file's byte offset to the framed block, and the
// transaction's byte offset counted from the end of the block's 80-byte
// header.
type TxIndexRecord struct {
	FileNumber  uint64
	FileOffset  uint64
	BlockOffset uint64
}

// DecodeTxIndexRecord decodes value (the bytes stored under key
// `b't' ++ reverse(txid)`) as three index-db varints.
func DecodeTxIndexRecord(value []byte) (*TxIndexRecord, error) {
	pos := 0

	fileNumber, n, err := bitcoin.IndexVarint(value[pos:])
	if err != nil {
		return nil, err
	}
	pos += n

	fileOffset, n, err := bitcoin.IndexVarint(value[pos:])
	if err != nil {
		return nil, err
	}
	pos += n

	blockOffset, _, err := bitcoin.IndexVarint(value[pos:])
	if err != nil {
		return nil, err
	}

	return &TxIndexRecord{
		FileNumber:  fileNumber,
		FileOffset:  fileOffset,
		BlockOffset: blockOffset,
	}, nil
}
