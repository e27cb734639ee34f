package signer

import (
	"bytes"
	"crypto/ed25519"
	"crypto/sha512"
	"encoding/base32"
	"encoding/base64"
)

// Algorand addresses are base32(pk || last 4 bytes of SHA-512/256(pk)),
// unpadded. Signatures cover the payload prefixed with "MX".
const addressChecksumLen = 4

var (
	addressEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)
	bytesPrefix     = []byte("MX")
)

// DecodeAddress recovers the ed25519 public key from an Algorand address,
// rejecting addresses with a bad length or checksum.
func DecodeAddress(address string) (ed25519.PublicKey, bool) {
	raw, err := addressEncoding.DecodeString(address)
	if err != nil || len(raw) != ed25519.PublicKeySize+addressChecksumLen {
		return nil, false
	}

	pk := raw[:ed25519.PublicKeySize]
	sum := sha512.Sum512_256(pk)
	if !bytes.Equal(raw[ed25519.PublicKeySize:], sum[len(sum)-addressChecksumLen:]) {
		return nil, false
	}

	return ed25519.PublicKey(pk), true
}

// verifyAlgorand checks a base64 ed25519 signature over the prefixed payload
// against the key encoded in the claimed address.
func verifyAlgorand(payload []byte, sig string, address string) bool {
	pk, ok := DecodeAddress(address)
	if !ok {
		return false
	}

	raw, err := base64.StdEncoding.DecodeString(sig)
	if err != nil || len(raw) != ed25519.SignatureSize {
		return false
	}

	msg := append(append([]byte{}, bytesPrefix...), payload...)

	return ed25519.Verify(pk, msg, raw)
}
