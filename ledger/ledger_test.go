package ledger

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateCodeShape(t *testing.T) {
	for i := 0; i < 100; i++ {
		code := GenerateCode()
		assert.Len(t, code, codeLength)
		for _, ch := range code {
			assert.True(t, strings.ContainsRune(codeAlphabet, ch),
				"code %q contains %q outside alphabet", code, ch)
		}
	}
}

func TestGenerateCodeOmitsAmbiguousCharacters(t *testing.T) {
	for _, ch := range "0O1IL" {
		assert.False(t, strings.ContainsRune(codeAlphabet, ch),
			"alphabet must not contain %q", ch)
	}
}

func TestGenerateCodeUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		code := GenerateCode()
		assert.False(t, seen[code], "duplicate code %q", code)
		seen[code] = true
	}
}

// Every alphabet character should show up at a roughly even rate across many
// draws; the bounds are loose enough to never flake on a fair generator.
func TestGenerateCodeCoversAlphabetEvenly(t *testing.T) {
	const codes = 2000

	counts := make(map[byte]int)
	for i := 0; i < codes; i++ {
		for _, ch := range []byte(GenerateCode()) {
			counts[ch]++
		}
	}

	mean := codes * codeLength / len(codeAlphabet)
	for i := 0; i < len(codeAlphabet); i++ {
		ch := codeAlphabet[i]
		n := counts[ch]
		assert.Greater(t, n, mean/2, "character %q underrepresented", ch)
		assert.Less(t, n, mean*2, "character %q overrepresented", ch)
	}
}

func TestNullable(t *testing.T) {
	assert.Nil(t, nullable(""))
	assert.Nil(t, nullable("   "))

	got := nullable("sub_123")
	if assert.NotNil(t, got) {
		assert.Equal(t, "sub_123", *got)
	}
}
