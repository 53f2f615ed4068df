package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// SignCallback computes the hex HMAC-SHA256 signature the gateway sends with
// a checkout callback. The signed message is "order_id|payment_id".
func SignCallback(orderID, paymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyCallbackSignature reports whether the signature presented by a
// checkout callback matches the expected HMAC. The comparison is
// constant-time.
func VerifyCallbackSignature(orderID, paymentID, signature, secret string) bool {
	expected := SignCallback(orderID, paymentID, secret)
	return hmac.Equal([]byte(expected), []byte(signature))
}
