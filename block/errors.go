// Package block decodes Bitcoin block, header, and transaction payloads
// from an in-memory byte buffer.
package block

import "github.com/pkg/errors"

var (
	// ErrTruncated is returned when a buffer ends before a fixed-size or
	// declared-length field it is supposed to contain.
	ErrTruncated = errors.New("Truncated")

	// ErrIncomplete is returned when a transaction's declared size runs
	// past the end of the provided buffer.
	ErrIncomplete = errors.New("Incomplete")

	// ErrCorruptTransaction wraps the error the block iterator logs when a
	// transaction fails to decode. The iterator then returns the
	// transactions decoded before it, without an error; the remaining
	// transactions of that block are not decoded.
	ErrCorruptTransaction = errors.New("Corrupt transaction")
)
