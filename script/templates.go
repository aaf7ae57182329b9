package script

// Template names a recognized standard output script shape.
type Template string

const (
	TemplatePubKeyHash Template = "pubkeyhash"
	TemplatePubKey     Template = "pubkey"
	TemplateP2SH       Template = "p2sh"
	TemplateMultisig   Template = "multisig"
	TemplateOpReturn   Template = "OP_RETURN"
	TemplateP2WPKH     Template = "p2wpkh"
	TemplateP2WSH      Template = "p2wsh"
	TemplateInvalid    Template = "invalid"
	TemplateUnknown    Template = "unknown"
)

// Classify applies the fixed-order template recognizers of spec.md §4.2 to
// s and returns the first one that matches.
func Classify(s *Script) Template {
	if !s.Valid() {
		return TemplateInvalid
	}

	ops := s.Ops()

	if isPubKeyHash(s.raw, ops) {
		return TemplatePubKeyHash
	}
	if isPubKey(ops) {
		return TemplatePubKey
	}
	if isP2SH(s.raw, ops) {
		return TemplateP2SH
	}
	if isMultisig(ops) {
		return TemplateMultisig
	}
	if isOpReturn(ops) {
		return TemplateOpReturn
	}
	if isP2WPKH(ops) {
		return TemplateP2WPKH
	}
	if isP2WSH(ops) {
		return TemplateP2WSH
	}
	return TemplateUnknown
}

// isPubKeyHash recognizes OP_DUP OP_HASH160 <20 bytes> OP_EQUALVERIFY
// OP_CHECKSIG, in a script exactly 25 bytes long.
func isPubKeyHash(raw []byte, ops []Op) bool {
	if len(raw) != 25 || len(ops) != 5 {
		return false
	}
	return ops[0].Code == OP_DUP &&
		ops[1].Code == OP_HASH160 &&
		ops[2].IsPush && len(ops[2].Data) == 20 &&
		ops[3].Code == OP_EQUALVERIFY &&
		ops[4].Code == OP_CHECKSIG
}

// isPubKey recognizes <pubkey> OP_CHECKSIG.
func isPubKey(ops []Op) bool {
	if len(ops) != 2 {
		return false
	}
	return ops[0].IsPush && isPublicKey(ops[0].Data) && ops[1].Code == OP_CHECKSIG
}

// isP2SH recognizes OP_HASH160 <20 bytes> OP_EQUAL, in a script exactly 23
// bytes long — the standard pay-to-script-hash predicate.
func isP2SH(raw []byte, ops []Op) bool {
	if len(raw) != 23 || len(ops) != 3 {
		return false
	}
	return ops[0].Code == OP_HASH160 &&
		ops[1].IsPush && len(ops[1].Data) == 20 &&
		ops[2].Code == OP_EQUAL
}

// isMultisig recognizes OP_m <pubkey>... OP_n OP_CHECKMULTISIG with n >= m
// and exactly n public keys between them.
func isMultisig(ops []Op) bool {
	if len(ops) < 4 {
		return false
	}

	m, ok := smallInt(ops[0])
	if !ok || m < 1 {
		return false
	}

	last := len(ops) - 1
	if ops[last].Code != OP_CHECKMULTISIG {
		return false
	}

	n, ok := smallInt(ops[last-1])
	if !ok || n < m {
		return false
	}

	keys := ops[1 : last-1]
	if len(keys) != n {
		return false
	}
	for _, op := range keys {
		if !op.IsPush || !isPublicKey(op.Data) {
			return false
		}
	}
	return true
}

// isOpReturn recognizes the standard unspendable-output predicate: the
// script's first operation is OP_RETURN.
func isOpReturn(ops []Op) bool {
	return len(ops) >= 1 && !ops[0].IsPush && ops[0].Code == OP_RETURN
}

// isP2WPKH recognizes a witness v0 key-hash program: OP_0 <20 bytes>.
func isP2WPKH(ops []Op) bool {
	return isWitnessV0(ops, 20)
}

// isP2WSH recognizes a witness v0 script-hash program: OP_0 <32 bytes>.
func isP2WSH(ops []Op) bool {
	return isWitnessV0(ops, 32)
}

func isWitnessV0(ops []Op, programLen int) bool {
	if len(ops) != 2 {
		return false
	}
	if !(ops[0].IsPush && ops[0].Code == OP_0) {
		return false
	}
	return ops[1].IsPush && len(ops[1].Data) == programLen
}
