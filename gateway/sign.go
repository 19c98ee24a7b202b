package gateway

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
)

// Sign computes the handshake signature: HMAC-SHA512 over an empty message
// keyed with the account secret, lowercase hex encoded. The signature proves
// possession of the secret at connection time; individual order payloads are
// not signed.
func Sign(secret string) string {
	mac := hmac.New(sha512.New, []byte(secret))
	return hex.EncodeToString(mac.Sum(nil))
}
