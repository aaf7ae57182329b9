// Package chain ties the raw .blk archive (blockfile, block) together with
// the external block index (chainindex) to provide height-ordered and
// txid-addressed access to the chain (spec.md §5-§6).
package chain

import "github.com/pkg/errors"

var (
	// ErrNoSuchFile is returned when a block-index record names a file
	// number for which no blkNNNNN.dat exists in the archive directory.
	ErrNoSuchFile = errors.New("No such block file")

	// ErrTransactionNotFound is returned when a txid has no entry in the
	// transaction index.
	ErrTransactionNotFound = errors.New("Transaction not found")
)
