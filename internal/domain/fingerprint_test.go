package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercases", "I Love This", "i love this"},
		{"collapses whitespace", "great\t\n  product", "great product"},
		{"trims", "  neutral  ", "neutral"},
		{"empty", "", ""},
		{"whitespace only", " \t\n ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeText(tt.input))
		})
	}
}

func TestFingerprint_StableAcrossEquivalentInputs(t *testing.T) {
	a := Fingerprint("I love this product")
	b := Fingerprint("  i LOVE   this product ")
	assert.Equal(t, a, b)
	assert.True(t, IsFingerprint(a))
}

func TestFingerprint_DistinctInputs(t *testing.T) {
	assert.NotEqual(t, Fingerprint("great"), Fingerprint("terrible"))
}

func TestIsFingerprint(t *testing.T) {
	assert.True(t, IsFingerprint(Fingerprint("x")))
	assert.False(t, IsFingerprint("abc"))
	assert.False(t, IsFingerprint("zz"+Fingerprint("x")[2:]))
}

func TestParseSentiment(t *testing.T) {
	for _, s := range []Sentiment{SentimentPositive, SentimentNegative, SentimentNeutral, SentimentMixed} {
		got, ok := ParseSentiment(string(s))
		assert.True(t, ok)
		assert.Equal(t, s, got)
	}

	_, ok := ParseSentiment("positive")
	assert.False(t, ok)
	_, ok = ParseSentiment("")
	assert.False(t, ok)
}
