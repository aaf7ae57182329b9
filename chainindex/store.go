package chainindex

import (
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/pkg/errors"
)

// Key prefixes used by the reference node's block index database.
const (
	prefixBlock = 'b'
	prefixTx    = 't'
)

// Store is a narrow read-only wrapper around the external ordered key-value
// store (the node's own block index LevelDB database). Nothing outside this
// package touches goleveldb directly.
type Store struct {
	db *leveldb.DB
}

// OpenStore opens the LevelDB database at path read-only.
func OpenStore(path string) (*Store, error) {
	db, err := leveldb.OpenFile(path, &opt.Options{ReadOnly: true})
	if err != nil {
		return nil, errors.Wrap(err, "open leveldb")
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Entry is one decoded block-index record read from the store.
type Entry struct {
	Record *BlockIndexRecord
}

// EachBlock calls fn for every entry whose key begins with the block-index
// prefix `b`, decoding each value as a BlockIndexRecord. The key's hash
// suffix is passed through undecoded (internal, little-endian order).
func (s *Store) EachBlock(fn func(*BlockIndexRecord) error) error {
	iter := s.db.NewIterator(util.BytesPrefix([]byte{prefixBlock}), nil)
	defer iter.Release()

	for iter.Next() {
		key := iter.Key()
		hash := key[1:]

		record, err := DecodeBlockIndexRecord(hash, iter.Value())
		if err != nil {
			return errors.Wrapf(err, "decode block index %x", hash)
		}
		if err := fn(record); err != nil {
			return err
		}
	}
	return iter.Error()
}

// TransactionIndex looks up the transaction-index record for txid (given in
// internal, little-endian byte order): key `t ++ reverse(txid)`.
func (s *Store) TransactionIndex(txid []byte) (*TxIndexRecord, error) {
	key := make([]byte, 0, 1+len(txid))
	key = append(key, prefixTx)
	key = append(key, reverseBytes(txid)...)

	value, err := s.db.Get(key, nil)
	if err != nil {
		return nil, errors.Wrap(err, "get tx index")
	}
	return DecodeTxIndexRecord(value)
}

func reverseBytes(b []byte) []byte {
	out := make([]byte, len(b))
	for i, v := range b {
		out[len(b)-1-i] = v
	}
	return out
}
