package referral

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCookieCodec_RoundTrip(t *testing.T) {
	codec := NewCookieCodec("test-secret")

	signed := codec.Encode("ALPHA123")
	assert.Contains(t, signed, "ALPHA123.")

	code, ok := codec.Decode(signed)
	assert.True(t, ok)
	assert.Equal(t, "ALPHA123", code)
}

func TestCookieCodec_RejectsTampering(t *testing.T) {
	codec := NewCookieCodec("test-secret")
	signed := codec.Encode("ALPHA123")

	tests := []struct {
		name  string
		value string
	}{
		{"empty", ""},
		{"no signature", "ALPHA123"},
		{"forged signature", "BRAVO456.deadbeefdeadbeef"},
		{"swapped code", "BRAVO456." + signed[len("ALPHA123."):]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := codec.Decode(tt.value)
			assert.False(t, ok)
		})
	}
}

func TestCookieCodec_SecretMismatch(t *testing.T) {
	signed := NewCookieCodec("secret-a").Encode("ALPHA123")
	_, ok := NewCookieCodec("secret-b").Decode(signed)
	assert.False(t, ok)
}
