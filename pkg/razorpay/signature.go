package razorpay

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// ExpectedSignature computes the checkout signature for an order/payment pair:
// hex(HMAC-SHA256(orderID + "|" + paymentID, keySecret)).
func ExpectedSignature(orderID, paymentID, keySecret string) string {
	mac := hmac.New(sha256.New, []byte(keySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature recomputes the expected signature locally and compares it
// against the supplied one in constant time. This is never a gateway call.
func VerifySignature(orderID, paymentID, keySecret, signature string) bool {
	expected := ExpectedSignature(orderID, paymentID, keySecret)
	return hmac.Equal([]byte(expected), []byte(signature))
}
