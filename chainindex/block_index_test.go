package chainindex

import "testing"

// putIndexVarint encodes value using the node's index-db varint scheme, for
// building test fixtures only.
func putIndexVarint(value uint64) []byte {
	var tmp [10]byte
	length := 0
	for {
		if length == 0 {
			tmp[length] = byte(value & 0x7f)
		} else {
			tmp[length] = byte(value&0x7f) | 0x80
		}
		if value <= 0x7f {
			break
		}
		value = (value >> 7) - 1
		length++
	}

	out := make([]byte, 0, length+1)
	for i := length; i >= 0; i-- {
		out = append(out, tmp[i])
	}
	return out
}

func buildBlockIndexValue(height, status, numTx uint64, file, dataPos, undoPos int64, header []byte) []byte {
	var value []byte
	value = append(value, putIndexVarint(0)...) // unused client version
	value = append(value, putIndexVarint(height)...)
	value = append(value, putIndexVarint(status)...)
	value = append(value, putIndexVarint(numTx)...)
	if status&(StatusHaveData|StatusHaveUndo) != 0 {
		value = append(value, putIndexVarint(uint64(file))...)
	}
	if status&StatusHaveData != 0 {
		value = append(value, putIndexVarint(uint64(dataPos))...)
	}
	if status&StatusHaveUndo != 0 {
		value = append(value, putIndexVarint(uint64(undoPos))...)
	}
	value = append(value, header...)
	return value
}

func Test_DecodeBlockIndexRecord_DataAndUndo(t *testing.T) {
	header := make([]byte, 80)
	header[0] = 0x01

	value := buildBlockIndexValue(100, StatusHaveData|StatusHaveUndo, 5, 3, 1234, 5678, header)
	hash := make([]byte, 32)

	r, err := DecodeBlockIndexRecord(hash, value)
	if err != nil {
		t.Fatalf("Failed to decode : %s", err)
	}
	if r.Height != 100 || r.NumTx != 5 {
		t.Errorf("Wrong height/numtx : %d %d", r.Height, r.NumTx)
	}
	if r.File != 3 || r.DataPos != 1234 || r.UndoPos != 5678 {
		t.Errorf("Wrong positions : file=%d data=%d undo=%d", r.File, r.DataPos, r.UndoPos)
	}
	if !r.HasData() || !r.HasUndo() {
		t.Errorf("Expected both data and undo present")
	}
}

func Test_DecodeBlockIndexRecord_NoDataNoUndo(t *testing.T) {
	header := make([]byte, 80)
	value := buildBlockIndexValue(10, 0, 0, 0, 0, 0, header)
	hash := make([]byte, 32)

	r, err := DecodeBlockIndexRecord(hash, value)
	if err != nil {
		t.Fatalf("Failed to decode : %s", err)
	}
	if r.File != -1 || r.DataPos != -1 || r.UndoPos != -1 {
		t.Errorf("Expected sentinel -1 positions, got file=%d data=%d undo=%d", r.File, r.DataPos, r.UndoPos)
	}
	if r.HasData() || r.HasUndo() {
		t.Errorf("Expected neither data nor undo present")
	}
}

// Test_DecodeBlockIndexRecord_WrongTrailingLength pins the invariant that a
// block-index record must contain exactly 80 trailing header bytes.
func Test_DecodeBlockIndexRecord_WrongTrailingLength(t *testing.T) {
	header := make([]byte, 79) // one byte short
	value := buildBlockIndexValue(10, 0, 0, 0, 0, 0, header)
	hash := make([]byte, 32)

	if _, err := DecodeBlockIndexRecord(hash, value); err != ErrInvalidIndexRecord {
		t.Errorf("Expected ErrInvalidIndexRecord, got %v", err)
	}
}

func Test_DecodeBlockIndexRecord_Header(t *testing.T) {
	header := make([]byte, 80)
	header[0] = 0x01 // version = 1, rest zero
	value := buildBlockIndexValue(1, StatusHaveData, 1, 0, 0, 0, header)
	hash := make([]byte, 32)

	r, err := DecodeBlockIndexRecord(hash, value)
	if err != nil {
		t.Fatalf("Failed to decode : %s", err)
	}
	h, err := r.Header()
	if err != nil {
		t.Fatalf("Failed to decode header : %s", err)
	}
	if h.Version != 1 {
		t.Errorf("Wrong version : got %d, want 1", h.Version)
	}
}
