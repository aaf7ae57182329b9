// Package blockfile scans Bitcoin Core's on-disk blk?????.dat archive
// files for framed block records (spec.md §4.6).
package blockfile

import (
	"context"
	"encoding/binary"

	"github.com/edsrzf/mmap-go"
	"github.com/pkg/errors"

	"github.com/btcarchive/chainscan/logger"
)

// Magic is the four-byte mainnet message-start sequence that frames every
// block record in a blk?????.dat file.
var Magic = [4]byte{0xf9, 0xbe, 0xb4, 0xd9}

// ErrNotOpen is returned when a Scanner is used after Close.
var ErrNotOpen = errors.New("Scanner not open")

// Record is one framed block found by a scan: its byte range within the
// file, borrowed from the scanner's memory mapping. The bytes remain valid
// only until the Scanner that produced them is closed.
type Record struct {
	Offset int
	Bytes  []byte
}

// Scanner memory-maps a single blk?????.dat file read-only and walks it
// for framed block records.
type Scanner struct {
	path string
	data mmap.MMap
}

// Open memory-maps path read-only.
func Open(path string) (*Scanner, error) {
	f, err := openFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "open")
	}
	defer f.Close()

	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, errors.Wrap(err, "mmap")
	}

	return &Scanner{path: path, data: data}, nil
}

// Close unmaps the file. Any Record byte slices previously returned by this
// Scanner must not be used after Close.
func (s *Scanner) Close() error {
	if s.data == nil {
		return nil
	}
	err := s.data.Unmap()
	s.data = nil
	return err
}

// Scan walks the mapped file from the beginning, calling fn for each framed
// block record found. Bytes that are not part of a framed record (zero
// padding between blocks, truncated trailing data) are skipped one at a
// time; a verbose-level message is logged whenever the scan resynchronizes
// after skipping bytes. Scan stops early if fn returns an error or ctx is
// canceled.
func (s *Scanner) Scan(ctx context.Context, fn func(Record) error) error {
	if s.data == nil {
		return ErrNotOpen
	}

	data := []byte(s.data)
	length := len(data)
	skipped := 0

	i := 0
	for i < length-4 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if !matchesMagic(data, i) {
			i++
			skipped++
			continue
		}

		if skipped > 0 {
			logger.Verbose(ctx, "Resynchronized in %s after skipping %d bytes", s.path, skipped)
			skipped = 0
		}

		if i+8 > length {
			break
		}
		size := int(binary.LittleEndian.Uint32(data[i+4 : i+8]))
		start := i + 8
		end := start + size
		if size < 0 || end > length {
			// Declared size runs past the end of the file; treat the
			// magic match as coincidental and keep scanning byte by byte.
			i++
			skipped++
			continue
		}

		if err := fn(Record{Offset: start, Bytes: data[start:end]}); err != nil {
			return err
		}
		i = end
	}

	return nil
}

func matchesMagic(data []byte, i int) bool {
	return data[i] == Magic[0] && data[i+1] == Magic[1] && data[i+2] == Magic[2] && data[i+3] == Magic[3]
}
