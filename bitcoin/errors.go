package bitcoin

import "github.com/pkg/errors"

// ErrMalformedVarint is returned when a buffer is too short to contain the
// varint its leading byte(s) declare, for either the standard CompactSize
// encoding or the index-db varint.
var ErrMalformedVarint = errors.New("Malformed varint")
