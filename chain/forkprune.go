package chain

import (
	"sort"

	"github.com/btcarchive/chainscan/bitcoin"
	"github.com/btcarchive/chainscan/block"
	"github.com/btcarchive/chainscan/chainindex"
)

// DefaultNumConfirmations is the depth a candidate chain must reach before
// a duplicate-height fork is resolved.
const DefaultNumConfirmations = 6

// headerReader reads the header of the block stored at (file, dataPos),
// letting the fork-pruning probe stay independent of how blocks are
// actually fetched from disk.
type headerReader func(file int64, dataPos int64) (*block.Header, error)

// sortByHeight sorts records ascending by height, stably: equal-height
// records keep their relative (on-disk) order, per spec.md's invariant 6.
func sortByHeight(records []*chainindex.BlockIndexRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Height < records[j].Height
	})
}

// pruneForks removes short-fork duplicates from a height-sorted record
// list: whenever two consecutive records share a height, a confirmation
// probe decides which of the pair survives (spec.md §4.8).
func pruneForks(records []*chainindex.BlockIndexRecord, read headerReader, numConfirmations int) []*chainindex.BlockIndexRecord {
	if numConfirmations <= 0 {
		numConfirmations = DefaultNumConfirmations
	}

	orphaned := make(map[bitcoin.Hash32]bool)
	for i := 1; i < len(records); i++ {
		if records[i].Height != records[i-1].Height {
			continue
		}

		if probeConfirmed(records[i:], read, numConfirmations) {
			orphaned[records[i-1].Hash] = true
		} else {
			orphaned[records[i].Hash] = true
		}
	}

	if len(orphaned) == 0 {
		return records
	}

	kept := make([]*chainindex.BlockIndexRecord, 0, len(records))
	for _, r := range records {
		if !orphaned[r.Hash] {
			kept = append(kept, r)
		}
	}
	return kept
}

// probeConfirmed reports whether candidates[0]'s hash is part of some chain
// that reaches numConfirmations blocks deep, walking candidates in order and
// growing every chain whose tip matches each new block's previous-hash
// field. If a candidate's data is unavailable, or the probe runs off the
// end of candidates without any chain reaching the target depth, the block
// in question is treated as unconfirmed (spec.md §9 design notes, fixing
// both the missing terminal case and the original's "don't confirm if data
// is unavailable" rule).
func probeConfirmed(candidates []*chainindex.BlockIndexRecord, read headerReader, numConfirmations int) bool {
	if len(candidates) == 0 {
		return false
	}

	var firstHash bitcoin.Hash32
	var chains [][]bitcoin.Hash32

	for i, rec := range candidates {
		if rec.File == -1 || rec.DataPos == -1 {
			return false
		}

		header, err := read(rec.File, rec.DataPos)
		if err != nil {
			return false
		}
		hash := header.Hash()
		if i == 0 {
			firstHash = hash
		}

		chains = append(chains, []bitcoin.Hash32{hash})

		for ci, chain := range chains {
			tip := chain[len(chain)-1]
			if tip == header.PreviousBlock {
				chain = append(chain, hash)
				chains[ci] = chain
			}
			if len(chains[ci]) == numConfirmations {
				return containsHash(chains[ci], firstHash)
			}
		}
	}

	return false
}

func containsHash(chain []bitcoin.Hash32, hash bitcoin.Hash32) bool {
	for _, h := range chain {
		if h == hash {
			return true
		}
	}
	return false
}
