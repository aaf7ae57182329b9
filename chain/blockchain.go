package chain

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/pkg/errors"

	"github.com/btcarchive/chainscan/block"
	"github.com/btcarchive/chainscan/blockfile"
	"github.com/btcarchive/chainscan/logger"
	"github.com/btcarchive/chainscan/threads"
)

// Blockchain walks a Bitcoin Core "blocks" directory: its blkNNNNN.dat
// archive files plus (optionally) the external block/transaction index
// that accompanies it.
type Blockchain struct {
	Dir string
}

// New creates a Blockchain rooted at dir, the directory containing
// blkNNNNN.dat files.
func New(dir string) *Blockchain {
	return &Blockchain{Dir: dir}
}

// blockFileName returns the canonical blkNNNNN.dat name for a file number.
func blockFileName(file int64) string {
	return fmt.Sprintf("blk%05d.dat", file)
}

func (b *Blockchain) blockFilePath(file int64) string {
	return filepath.Join(b.Dir, blockFileName(file))
}

// blockFiles returns the sorted list of blkNNNNN.dat files present in the
// chain directory, preserving lexical (and therefore numeric, since the
// names are zero-padded) order.
func (b *Blockchain) blockFiles() ([]string, error) {
	entries, err := os.ReadDir(b.Dir)
	if err != nil {
		return nil, errors.Wrap(err, "read dir")
	}

	var names []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || len(name) != 12 || name[:3] != "blk" || name[8:] != ".dat" {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// UnorderedBlocks scans every blkNNNNN.dat file in the chain directory, in
// lexical file-name order, and within each file in its on-disk byte order,
// calling fn for each decoded block (spec.md §5). This is the archive's
// natural iteration order: chain-reorg history and any order the node
// happened to receive blocks in, not height order.
func (b *Blockchain) UnorderedBlocks(ctx context.Context, fn func(*block.Block) error) error {
	names, err := b.blockFiles()
	if err != nil {
		return err
	}

	for _, name := range names {
		path := filepath.Join(b.Dir, name)
		if err := scanFile(ctx, path, fn); err != nil {
			return errors.Wrapf(err, "scan %s", name)
		}
	}
	return nil
}

func scanFile(ctx context.Context, path string, fn func(*block.Block) error) error {
	scanner, err := blockfile.Open(path)
	if err != nil {
		return err
	}
	defer scanner.Close()

	return scanner.Scan(ctx, func(rec blockfile.Record) error {
		blk, err := block.Decode(rec.Bytes)
		if err != nil {
			logger.Warn(ctx, "Skipping corrupt block at offset %d in %s : %s", rec.Offset, path, err)
			return nil
		}
		return fn(blk)
	})
}

// UnorderedBlocksConcurrent scans the chain directory's files the same way
// as UnorderedBlocks, but fans a worker out across files using the same
// thread-pool abstraction the rest of this module uses for background work
// (spec.md §9's optional concurrent scanning helper). Per-file order is
// preserved, but files are no longer guaranteed to complete or deliver fn
// calls in lexical order, since each file is scanned by its own thread; fn
// is called from multiple goroutines and must be safe for concurrent use.
func (b *Blockchain) UnorderedBlocksConcurrent(ctx context.Context, workers int, fn func(*block.Block) error) error {
	names, err := b.blockFiles()
	if err != nil {
		return err
	}
	if workers <= 0 {
		workers = 1
	}

	var wg sync.WaitGroup
	jobs := make(chan string)
	var ts threads.Threads
	var firstErr error
	var mu sync.Mutex

	for i := 0; i < workers; i++ {
		t := threads.NewThreadWithoutStop(fmt.Sprintf("scan-%d", i), func(ctx context.Context) error {
			for name := range jobs {
				path := filepath.Join(b.Dir, name)
				if err := scanFile(ctx, path, fn); err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = errors.Wrapf(err, "scan %s", name)
					}
					mu.Unlock()
				}
			}
			return nil
		})
		t.SetWait(&wg)
		ts = append(ts, t)
	}

	ts.Start(ctx)
	for _, name := range names {
		jobs <- name
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return firstErr
	}
	if errs := ts.Errors(); len(errs) > 0 {
		return errs[0]
	}
	return nil
}
