package blockfile

import (
	"encoding/binary"
	"os"

	"github.com/pkg/errors"
)

func openFile(path string) (*os.File, error) {
	return os.Open(path)
}

// ErrBadFrame is returned by ReadAt when the framing at the given offset
// doesn't start with the expected magic bytes.
var ErrBadFrame = errors.New("Bad block frame")

// ReadAt reads a single framed block record directly from path at byte
// offset, without memory-mapping or scanning the whole file. This mirrors
// the original parser's "read one block given a known file+offset" path
// used by transaction-index lookups (spec.md §4.7, §9).
func ReadAt(path string, offset int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open")
	}
	defer f.Close()

	header := make([]byte, 8)
	if _, err := f.ReadAt(header, offset); err != nil {
		return nil, errors.Wrap(err, "read frame header")
	}
	if !matchesMagic(header, 0) {
		return nil, ErrBadFrame
	}

	size := binary.LittleEndian.Uint32(header[4:8])
	payload := make([]byte, size)
	if _, err := f.ReadAt(payload, offset+8); err != nil {
		return nil, errors.Wrap(err, "read frame payload")
	}
	return payload, nil
}

// ReadPayloadAt reads the block payload whose size field immediately
// precedes dataPos, without verifying magic bytes: dataPos is trusted,
// coming from a block-index record's DataPos field, which already points
// past the 8-byte frame header (spec.md §9, mirroring the original
// parser's get_block(block_file, offset)).
func ReadPayloadAt(path string, dataPos int64) ([]byte, error) {
	if dataPos < 4 {
		return nil, errors.Wrap(ErrBadFrame, "data position too small")
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open")
	}
	defer f.Close()

	sizeBytes := make([]byte, 4)
	if _, err := f.ReadAt(sizeBytes, dataPos-4); err != nil {
		return nil, errors.Wrap(err, "read size")
	}
	size := binary.LittleEndian.Uint32(sizeBytes)

	payload := make([]byte, size)
	if _, err := f.ReadAt(payload, dataPos); err != nil {
		return nil, errors.Wrap(err, "read payload")
	}
	return payload, nil
}
