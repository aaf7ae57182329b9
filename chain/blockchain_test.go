package chain

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/btcarchive/chainscan/block"
	"github.com/btcarchive/chainscan/blockfile"
)

// genesisHeaderHex and genesisCoinbaseHex mirror the fixtures in
// block/header_test.go and block/transaction_test.go.
const (
	genesisHeaderHex   = "0100000000000000000000000000000000000000000000000000000000000000000000003ba3edfd7a7b12b27ac72c3e67768f617fc81bc3888a51323a9fb8aa4b1e5e4a29ab5f49ffff001d1dac2b7c"
	genesisCoinbaseHex = "01000000010000000000000000000000000000000000000000000000000000000000000000ffffffff4d04ffff001d0104455468652054696d65732030332f4a616e2f32303039204368616e63656c6c6f72206f6e206272696e6b206f66207365636f6e64206261696c6f757420666f722062616e6b73ffffffff0100f2052a01000000434104678afdb0fe5548271967f1a67130b7105cd6a828e03909a67962e0ea1f61deb649f6bc3f4cef38c4f35504e51ec112de5c384df7ba0b8d578a4c702b6bf11d5fac00000000"
)

func writeFrame(t *testing.T, w *os.File, payload []byte) {
	t.Helper()
	var header [8]byte
	copy(header[0:4], blockfile.Magic[:])
	binary.LittleEndian.PutUint32(header[4:8], uint32(len(payload)))
	if _, err := w.Write(header[:]); err != nil {
		t.Fatalf("write frame header: %s", err)
	}
	if _, err := w.Write(payload); err != nil {
		t.Fatalf("write frame payload: %s", err)
	}
}

func hexDecode(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("decode hex: %s", err)
	}
	return b
}

func Test_UnorderedBlocks_ScansAllFiles(t *testing.T) {
	dir := t.TempDir()

	header := hexDecode(t, genesisHeaderHex)
	coinbase := hexDecode(t, genesisCoinbaseHex)
	payload := append(append([]byte{}, header...), 0x01)
	payload = append(payload, coinbase...)

	f0, err := os.Create(filepath.Join(dir, "blk00000.dat"))
	if err != nil {
		t.Fatalf("create blk00000.dat: %s", err)
	}
	writeFrame(t, f0, payload)
	f0.Close()

	f1, err := os.Create(filepath.Join(dir, "blk00001.dat"))
	if err != nil {
		t.Fatalf("create blk00001.dat: %s", err)
	}
	writeFrame(t, f1, payload)
	writeFrame(t, f1, payload)
	f1.Close()

	bc := New(dir)

	var blocks []*block.Block
	err = bc.UnorderedBlocks(context.Background(), func(b *block.Block) error {
		blocks = append(blocks, b)
		return nil
	})
	if err != nil {
		t.Fatalf("UnorderedBlocks: %s", err)
	}
	if len(blocks) != 3 {
		t.Fatalf("Expected 3 blocks across both files, got %d", len(blocks))
	}
}

func Test_BlockFileName(t *testing.T) {
	if got := blockFileName(7); got != "blk00007.dat" {
		t.Errorf("Wrong file name: %s", got)
	}
}
