package chain

import (
	"context"
	"os"

	"github.com/pkg/errors"

	"github.com/btcarchive/chainscan/block"
	"github.com/btcarchive/chainscan/blockfile"
	"github.com/btcarchive/chainscan/chainindex"
)

// indexCache is the subset of indexcache.FileStore's interface OrderedBlocks
// needs, so tests can substitute an in-memory stand-in.
type indexCache interface {
	Load(ctx context.Context) ([]*chainindex.BlockIndexRecord, bool, error)
	Save(ctx context.Context, records []*chainindex.BlockIndexRecord) error
}

// OrderedBlocksOptions configures OrderedBlocks.
type OrderedBlocksOptions struct {
	// Start and End bound the height range yielded, as [Start, End). If End
	// is less than Start, the range is reinterpreted as [End, Start) and
	// yielded in descending height order (spec.md §5's reversed-range rule).
	Start, End int64

	// NumConfirmations is the fork-pruning confirmation depth; 0 selects
	// DefaultNumConfirmations.
	NumConfirmations int

	// Cache, if non-nil, is consulted before scanning Store and populated
	// afterward (spec.md §4.9).
	Cache indexCache
}

// OrderedBlocks loads every block-index record from store (or Cache, if
// populated), stably sorts them by height, prunes duplicate-height forks via
// a confirmation probe, and calls fn with each surviving block in height
// order within [Start, End) (or the reversed range if End < Start). Iteration
// stops early, without error, at the first record whose file or data
// position is unavailable, mirroring the upstream node's own pruning of
// block data it no longer retains (spec.md §5).
func (b *Blockchain) OrderedBlocks(ctx context.Context, store *chainindex.Store, opts OrderedBlocksOptions, fn func(height int64, blk *block.Block) error) error {
	records, err := b.loadRecords(ctx, store, opts.Cache)
	if err != nil {
		return err
	}

	sortByHeight(records)
	records = pruneForks(records, b.headerReader(), opts.NumConfirmations)

	start, end, descending := normalizeRange(opts.Start, opts.End)

	var inRange []*chainindex.BlockIndexRecord
	for _, r := range records {
		h := int64(r.Height)
		if h >= start && h < end {
			inRange = append(inRange, r)
		}
	}

	if descending {
		for i, j := 0, len(inRange)-1; i < j; i, j = i+1, j-1 {
			inRange[i], inRange[j] = inRange[j], inRange[i]
		}
	}

	for _, r := range inRange {
		if r.File == -1 || r.DataPos == -1 {
			break
		}

		blk, err := b.readBlockAt(r.File, r.DataPos)
		if err != nil {
			return errors.Wrapf(err, "read block at height %d", r.Height)
		}
		if err := fn(int64(r.Height), blk); err != nil {
			return err
		}
	}

	return nil
}

func (b *Blockchain) loadRecords(ctx context.Context, store *chainindex.Store, cache indexCache) ([]*chainindex.BlockIndexRecord, error) {
	if cache != nil {
		if cached, ok, err := cache.Load(ctx); err != nil {
			return nil, err
		} else if ok {
			return cached, nil
		}
	}

	var records []*chainindex.BlockIndexRecord
	if err := store.EachBlock(func(r *chainindex.BlockIndexRecord) error {
		records = append(records, r)
		return nil
	}); err != nil {
		return nil, err
	}

	if cache != nil {
		sorted := append([]*chainindex.BlockIndexRecord(nil), records...)
		sortByHeight(sorted)
		if err := cache.Save(ctx, sorted); err != nil {
			return nil, err
		}
	}

	return records, nil
}

func (b *Blockchain) headerReader() headerReader {
	return func(file int64, dataPos int64) (*block.Header, error) {
		payload, err := blockfile.ReadPayloadAt(b.blockFilePath(file), dataPos)
		if err != nil {
			return nil, err
		}
		if len(payload) < block.HeaderSize {
			return nil, errors.New("payload too short for header")
		}
		return block.DecodeHeader(payload[:block.HeaderSize])
	}
}

func (b *Blockchain) readBlockAt(file int64, dataPos int64) (*block.Block, error) {
	payload, err := blockfile.ReadPayloadAt(b.blockFilePath(file), dataPos)
	if err != nil {
		if os.IsNotExist(errors.Cause(err)) {
			return nil, errors.Wrap(ErrNoSuchFile, blockFileName(file))
		}
		return nil, err
	}
	return block.Decode(payload)
}

// normalizeRange turns (start, end) into an ascending [lo, hi) height bound
// plus a direction flag: end < start means the caller wants the range
// [end, start) delivered highest-height-first (spec.md §4.8 step 5).
func normalizeRange(start, end int64) (lo, hi int64, descending bool) {
	if end < start {
		return end, start, true
	}
	return start, end, false
}
