package chainindex

import "testing"

func Test_DecodeTxIndexRecord(t *testing.T) {
	var value []byte
	value = append(value, putIndexVarint(7)...)
	value = append(value, putIndexVarint(123456)...)
	value = append(value, putIndexVarint(890)...)

	r, err := DecodeTxIndexRecord(value)
	if err != nil {
		t.Fatalf("Failed to decode : %s", err)
	}
	if r.FileNumber != 7 || r.FileOffset != 123456 || r.BlockOffset != 890 {
		t.Errorf("Wrong record : %+v", r)
	}
}

func Test_DecodeTxIndexRecord_Truncated(t *testing.T) {
	if _, err := DecodeTxIndexRecord([]byte{0x01}); err == nil {
		t.Errorf("Expected error for truncated record")
	}
}
