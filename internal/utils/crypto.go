package utils

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"strings"
)

const referralCodeCharset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateAPIKey returns a new plaintext affiliate API key. The "vl_live_"
// prefix makes leaked keys easy to grep for.
func GenerateAPIKey() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return "vl_live_" + base64.RawURLEncoding.EncodeToString(b), nil
}

// HashAPIKey returns the hex SHA-256 digest stored in place of the
// plaintext key.
func HashAPIKey(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}

// GenerateReferralCode returns a short affiliate code drawn from an
// unambiguous uppercase charset (no O/0 or I/1 lookalikes).
func GenerateReferralCode(length int) (string, error) {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	var sb strings.Builder
	for _, c := range b {
		sb.WriteByte(referralCodeCharset[int(c)%len(referralCodeCharset)])
	}
	return sb.String(), nil
}

// SignValue returns "value.signature" with an HMAC-SHA256 signature.
// Used to make the referral cookie tamper-evident.
func SignValue(value string, secret []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(value))
	return value + "." + hex.EncodeToString(mac.Sum(nil))
}

// VerifySignedValue checks a "value.signature" pair and returns the value
// when the signature matches.
func VerifySignedValue(signed string, secret []byte) (string, bool) {
	idx := strings.LastIndex(signed, ".")
	if idx <= 0 {
		return "", false
	}
	value, sig := signed[:idx], signed[idx+1:]

	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(value))
	expected := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(sig), []byte(expected)) {
		return "", false
	}
	return value, true
}
