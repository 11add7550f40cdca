package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// NormalizeText canonicalizes input text before fingerprinting: lowercase,
// collapsed internal whitespace, trimmed. Two inputs differing only in
// casing or spacing share a fingerprint and therefore a stored result.
func NormalizeText(text string) string {
	return strings.ToLower(strings.Join(strings.Fields(text), " "))
}

// Fingerprint returns the stable storage key for the given input text:
// the hex-encoded SHA-256 of its normalized form.
func Fingerprint(text string) string {
	sum := sha256.Sum256([]byte(NormalizeText(text)))
	return hex.EncodeToString(sum[:])
}

// FingerprintLen is the length of a hex-encoded fingerprint.
const FingerprintLen = sha256.Size * 2

// IsFingerprint reports whether s looks like a valid fingerprint.
func IsFingerprint(s string) bool {
	if len(s) != FingerprintLen {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}
