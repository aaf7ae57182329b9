package block

import (
	"encoding/hex"
	"testing"

	"github.com/btcarchive/chainscan/script"
)

// genesisCoinbaseHex is the mainnet genesis block's single coinbase
// transaction.
const genesisCoinbaseHex = "01000000010000000000000000000000000000000000000000000000000000000000000000ffffffff4d04ffff001d0104455468652054696d65732030332f4a616e2f32303039204368616e63656c6c6f72206f6e206272696e6b206f66207365636f6e64206261696c6f757420666f722062616e6b73ffffffff0100f2052a01000000434104678afdb0fe5548271967f1a67130b7105cd6a828e03909a67962e0ea1f61deb649f6bc3f4cef38c4f35504e51ec112de5c384df7ba0b8d578a4c702b6bf11d5fac00000000"

func genesisCoinbaseBytes(t *testing.T) []byte {
	t.Helper()
	raw, err := hex.DecodeString(genesisCoinbaseHex)
	if err != nil {
		t.Fatalf("Bad test fixture : %s", err)
	}
	return raw
}

// Test_DecodeTransaction_GenesisCoinbase pins spec.md S2.
func Test_DecodeTransaction_GenesisCoinbase(t *testing.T) {
	raw := genesisCoinbaseBytes(t)
	tx, consumed, err := DecodeTransaction(raw)
	if err != nil {
		t.Fatalf("Failed to decode : %s", err)
	}
	if consumed != len(raw) {
		t.Fatalf("Wrong consumed : got %d, want %d", consumed, len(raw))
	}

	if len(tx.Inputs) != 1 {
		t.Fatalf("Wrong input count : got %d, want 1", len(tx.Inputs))
	}
	in := tx.Inputs[0]
	var zero [32]byte
	if !bytesEqual(in.PreviousTxID.Bytes(), zero[:]) {
		t.Errorf("Expected all-zero previous txid")
	}
	if !tx.IsCoinbase() {
		t.Errorf("Expected IsCoinbase() == true")
	}

	if len(tx.Outputs) != 1 {
		t.Fatalf("Wrong output count : got %d, want 1", len(tx.Outputs))
	}
	out := tx.Outputs[0]
	if got := script.Classify(out.Script); got != script.TemplatePubKey {
		t.Errorf("Wrong output template : got %s, want pubkey", got)
	}
	addrs := script.Addresses(out.Script)
	if len(addrs) != 1 {
		t.Fatalf("Expected 1 address, got %d", len(addrs))
	}
	if addrs[0].Kind != script.KindNormal {
		t.Errorf("Expected a base58 P2PKH-style address")
	}
	if len(addrs[0].String()) == 0 {
		t.Errorf("Expected non-empty address encoding")
	}
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Test_Transaction_TxID_Equals_WTxID_NonWitness pins invariant 2 for a
// non-witness transaction.
func Test_Transaction_TxID_Equals_WTxID_NonWitness(t *testing.T) {
	tx, _, err := DecodeTransaction(genesisCoinbaseBytes(t))
	if err != nil {
		t.Fatalf("Failed to decode : %s", err)
	}
	if tx.TxID() != tx.WTxID() {
		t.Errorf("Expected txid == wtxid for non-witness transaction")
	}
	if tx.VSize() != tx.Size() {
		t.Errorf("Expected vsize == size for non-witness transaction")
	}
}

// witnessTransactionBytes builds a minimal synthetic segwit transaction
// with one input carrying one witness item, for S5 and invariants 2-3.
func witnessTransactionBytes() []byte {
	var raw []byte
	raw = append(raw, 0x01, 0x00, 0x00, 0x00) // version
	raw = append(raw, 0x00, 0x01)             // segwit marker/flag
	raw = append(raw, 0x01)                   // n_in = 1

	raw = append(raw, make([]byte, 32)...) // prev txid
	raw = append(raw, 0x00, 0x00, 0x00, 0x00)
	raw = append(raw, 0x00)                         // empty script
	raw = append(raw, 0xff, 0xff, 0xff, 0xff)        // sequence

	raw = append(raw, 0x01) // n_out = 1
	raw = append(raw, 0x00, 0xe1, 0xf5, 0x05, 0x00, 0x00, 0x00, 0x00) // value
	raw = append(raw, 0x00)                                           // empty script

	raw = append(raw, 0x01)                   // witness stack length = 1
	raw = append(raw, 0x04, 0xde, 0xad, 0xbe, 0xef) // one 4-byte item

	raw = append(raw, 0x00, 0x00, 0x00, 0x00) // locktime
	return raw
}

// Test_DecodeTransaction_WitnessRoundTrip pins spec.md S5 and invariants
// 2-3.
func Test_DecodeTransaction_WitnessRoundTrip(t *testing.T) {
	raw := witnessTransactionBytes()
	tx, consumed, err := DecodeTransaction(raw)
	if err != nil {
		t.Fatalf("Failed to decode : %s", err)
	}
	if consumed != len(raw) {
		t.Fatalf("Wrong consumed : got %d, want %d", consumed, len(raw))
	}
	if !tx.IsSegwit {
		t.Fatalf("Expected segwit transaction")
	}
	if len(tx.Inputs) != 1 || len(tx.Inputs[0].Witnesses) != 1 {
		t.Fatalf("Expected 1 input with 1 witness item")
	}
	if len(tx.Inputs[0].Witnesses[0]) != 4 {
		t.Errorf("Wrong witness item length : got %d, want 4", len(tx.Inputs[0].Witnesses[0]))
	}

	if tx.TxID() == tx.WTxID() {
		t.Errorf("Expected txid != wtxid for a witness transaction with a non-empty witness")
	}
	if tx.VSize() >= tx.Size() {
		t.Errorf("Expected vsize < size : vsize=%d size=%d", tx.VSize(), tx.Size())
	}

	size := tx.Size()
	minVSize := (size + 3) / 4
	if tx.VSize() < minVSize {
		t.Errorf("vsize below lower bound : got %d, want >= %d", tx.VSize(), minVSize)
	}
	if tx.VSize() > size {
		t.Errorf("vsize above upper bound : got %d, want <= %d", tx.VSize(), size)
	}

	// Reassembling [0:4] || [6:offsetBeforeWitnesses] || [-4:] must hash to TxID.
	stripped := append([]byte{}, raw[0:4]...)
	stripped = append(stripped, raw[6:tx.offsetBeforeWitness]...)
	stripped = append(stripped, raw[len(raw)-4:]...)
	strippedTx, _, err := DecodeTransaction(stripped)
	if err != nil {
		t.Fatalf("Failed to decode stripped tx : %s", err)
	}
	if strippedTx.WTxID() != tx.TxID() {
		t.Errorf("Stripped serialization does not hash to txid")
	}
}
