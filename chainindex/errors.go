// Package chainindex decodes the reference node's external block-index and
// transaction-index records (spec.md §3, §4.7) and wraps the ordered
// key-value store that holds them.
package chainindex

import "github.com/pkg/errors"

// ErrInvalidIndexRecord is returned when a block-index record's varint
// sequence does not leave exactly 80 trailing header bytes.
var ErrInvalidIndexRecord = errors.New("Invalid index record")
