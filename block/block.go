package block

import (
	"context"

	"github.com/pkg/errors"

	"github.com/btcarchive/chainscan/bitcoin"
	"github.com/btcarchive/chainscan/logger"
)

// Block is a decoded block record: a header followed by its transactions
// (spec.md §3, §4.5).
type Block struct {
	Header *Header

	raw             []byte
	txOffset        int
	transactionsLen uint64
}

// Decode parses a block record: the 80-byte header, then the compact-size
// transaction count at offset 80. It does not decode the transactions
// themselves; call Transactions to iterate them.
func Decode(raw []byte) (*Block, error) {
	header, err := DecodeHeader(raw)
	if err != nil {
		return nil, err
	}

	n, consumed, err := bitcoin.CompactSize(raw[HeaderSize:])
	if err != nil {
		return nil, err
	}

	return &Block{
		Header:          header,
		raw:             raw,
		txOffset:        HeaderSize + consumed,
		transactionsLen: n,
	}, nil
}

// NumTransactions returns the transaction count read from the block's
// compact-size prefix, without decoding any transaction.
func (b *Block) NumTransactions() uint64 {
	return b.transactionsLen
}

// Transactions decodes and returns every transaction in the block, in
// order. Transactions are not separately framed: each is consumed for
// exactly the number of bytes it declares, so once one fails to decode
// there is no reliable offset to resume from. That failure is logged and
// the transactions decoded so far are returned, rather than propagating an
// error that would abort the caller's iteration over the rest of the
// file, per spec.md §4.5.
func (b *Block) Transactions(ctx context.Context) []*Transaction {
	txs := make([]*Transaction, 0, b.transactionsLen)
	offset := b.txOffset

	for i := uint64(0); i < b.transactionsLen; i++ {
		tx, consumed, err := DecodeTransaction(b.raw[offset:])
		if err != nil {
			logger.Warn(ctx, "Skipping transaction %d at offset %d : %s", i, offset,
				errors.Wrap(err, ErrCorruptTransaction.Error()))
			break
		}
		txs = append(txs, tx)
		offset += consumed
	}

	return txs
}
