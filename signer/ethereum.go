package signer

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// PersonalHash hashes payload the way eth_sign does, binding the signature
// to the "\x19Ethereum Signed Message:" envelope so it cannot double as a
// transaction signature.
func PersonalHash(payload []byte) []byte {
	msg := fmt.Sprintf("\x19Ethereum Signed Message:\n%d%s", len(payload), payload)
	return crypto.Keccak256([]byte(msg))
}

// verifyEthereum recovers the signing address from a 65-byte [R || S || V]
// signature over the personal-message hash and compares it against the
// claimed address.
func verifyEthereum(payload []byte, sig string, address string) bool {
	if !common.IsHexAddress(address) {
		return false
	}

	raw, err := hex.DecodeString(strings.TrimPrefix(sig, "0x"))
	if err != nil || len(raw) != crypto.SignatureLength {
		return false
	}

	// Wallets emit V as 27/28; Ecrecover expects 0/1.
	if raw[crypto.RecoveryIDOffset] >= 27 {
		raw[crypto.RecoveryIDOffset] -= 27
	}

	pub, err := crypto.SigToPub(PersonalHash(payload), raw)
	if err != nil {
		return false
	}

	return crypto.PubkeyToAddress(*pub) == common.HexToAddress(address)
}
