// Package signer gates submissions on proof that the declared sender
// authorized the exact payload. Each platform is one signature scheme; all
// schemes answer the same question with a plain boolean.
package signer

// Platform identifies the signature scheme a submission was signed with.
type Platform string

const (
	PlatformEthereum Platform = "Ethereum"
	PlatformAlgorand Platform = "Algorand"
)

// Verify reports whether sig authorizes payload on behalf of publicKey under
// the platform's scheme. Malformed input of any kind and unknown platforms
// verify as false; Verify never panics and has no side effects.
func Verify(payload []byte, sig string, platform Platform, publicKey string) bool {
	switch platform {
	case PlatformEthereum:
		return verifyEthereum(payload, sig, publicKey)
	case PlatformAlgorand:
		return verifyAlgorand(payload, sig, publicKey)
	default:
		return false
	}
}
