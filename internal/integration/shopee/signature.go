package shopee

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Sign returns the push signature: hex HMAC-SHA256 of callbackURL + "|" + body
// keyed with the partner key.
func Sign(partnerKey, callbackURL string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(partnerKey))
	mac.Write([]byte(callbackURL))
	mac.Write([]byte("|"))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature compares in constant time. Hex case is ignored.
func VerifySignature(partnerKey, callbackURL string, body []byte, signature string) bool {
	if partnerKey == "" || signature == "" {
		return false
	}
	expected := Sign(partnerKey, callbackURL, body)
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(strings.TrimSpace(signature))))
}
