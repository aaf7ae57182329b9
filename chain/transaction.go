package chain

import (
	"github.com/pkg/errors"

	"github.com/btcarchive/chainscan/bitcoin"
	"github.com/btcarchive/chainscan/block"
	"github.com/btcarchive/chainscan/blockfile"
	"github.com/btcarchive/chainscan/chainindex"
)

// GetTransaction looks up txid in the external transaction index and
// decodes it directly from its recorded (file, offset) position: no
// retry-on-failure buffer-size ladder: the recorded block offset, counted
// from the end of the 80-byte block header, locates the transaction's first
// byte (spec.md §4.8, §9 design notes).
func (b *Blockchain) GetTransaction(store *chainindex.Store, txid bitcoin.Hash32) (*block.Transaction, error) {
	rec, err := store.TransactionIndex(txid.Bytes())
	if err != nil {
		return nil, errors.Wrap(ErrTransactionNotFound, err.Error())
	}

	payload, err := blockfile.ReadPayloadAt(b.blockFilePath(int64(rec.FileNumber)), int64(rec.FileOffset))
	if err != nil {
		return nil, errors.Wrap(err, "read block payload")
	}

	offset := block.HeaderSize + int(rec.BlockOffset)
	if offset > len(payload) {
		return nil, errors.New("transaction offset past end of block payload")
	}

	tx, _, err := block.DecodeTransaction(payload[offset:])
	if err != nil {
		return nil, errors.Wrap(err, "decode transaction")
	}
	return tx, nil
}
