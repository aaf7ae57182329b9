package script

import (
	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/btcsuite/btcutil/base58"

	"github.com/btcarchive/chainscan/bitcoin"
)

// version bytes for mainnet base58check addresses (spec.md §4.2).
const (
	versionP2PKH = 0x00
	versionP2SH  = 0x05
)

// bech32HRP is the human-readable part used for mainnet segwit addresses.
const bech32HRP = "bc"

// Kind distinguishes the three address encodings spec.md §4.2 produces.
type Kind int

const (
	KindNormal Kind = iota
	KindP2SH
	KindBech32
)

// Address is a value object describing one destination an output script
// pays to. The string encoding is computed lazily, on first call to
// String().
type Address struct {
	Kind          Kind
	Hash          []byte // 20-byte hash (normal/p2sh) or witness program (bech32)
	PublicKey     []byte // set when derived directly from a public key push
	SegwitVersion int    // meaningful only when Kind == KindBech32

	encoded string
	done    bool
}

// String returns the address's textual encoding, computing it on first use.
func (a *Address) String() string {
	if a.done {
		return a.encoded
	}
	a.done = true

	switch a.Kind {
	case KindP2SH:
		a.encoded = base58.CheckEncode(a.Hash, versionP2SH)
	case KindBech32:
		a.encoded = encodeSegwit(a.SegwitVersion, a.Hash)
	default:
		a.encoded = base58.CheckEncode(a.Hash, versionP2PKH)
	}
	return a.encoded
}

func encodeSegwit(version int, program []byte) string {
	converted, err := bech32.ConvertBits(program, 8, 5, true)
	if err != nil {
		return ""
	}
	data := append([]byte{byte(version)}, converted...)
	encoded, err := bech32.Encode(bech32HRP, data)
	if err != nil {
		return ""
	}
	return encoded
}

// addressFromPubKey hashes a public key push and returns the corresponding
// P2PKH-style address (the "pubkey" derivation path of spec.md §4.2).
func addressFromPubKey(pubKey []byte) *Address {
	return &Address{
		Kind:      KindNormal,
		Hash:      bitcoin.Hash160(pubKey),
		PublicKey: pubKey,
	}
}

// Addresses derives the destination addresses implied by a script's
// template, per spec.md §4.2. Only pubkey, pubkeyhash, p2sh, multisig,
// p2wpkh and p2wsh scripts produce addresses; every other template produces
// none.
func Addresses(s *Script) []*Address {
	ops := s.Ops()

	switch Classify(s) {
	case TemplatePubKey:
		return []*Address{addressFromPubKey(ops[0].Data)}

	case TemplatePubKeyHash:
		return []*Address{{Kind: KindNormal, Hash: ops[2].Data}}

	case TemplateP2SH:
		return []*Address{{Kind: KindP2SH, Hash: ops[1].Data}}

	case TemplateMultisig:
		m, _ := smallInt(ops[0])
		addrs := make([]*Address, 0, m)
		for _, op := range ops[1 : 1+m] {
			addrs = append(addrs, addressFromPubKey(op.Data))
		}
		return addrs

	case TemplateP2WPKH, TemplateP2WSH:
		return []*Address{{Kind: KindBech32, SegwitVersion: 0, Hash: ops[1].Data}}

	default:
		return nil
	}
}
