package helpers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlainText(t *testing.T) {
	assert.Equal(t, "test_plain_text", PlainText("    tEst plAIn text   "))
	assert.Equal(t, "benzyna", PlainText("Benzyna"))
	assert.Equal(t, "", PlainText("   "))
}

func TestPlainTextIdempotent(t *testing.T) {
	inputs := []string{
		"  Marka pojazdu ",
		"123 456 km",
		"already_plain",
		"MiXeD CaSe Text",
	}

	for _, input := range inputs {
		once := PlainText(input)
		twice := PlainText(once)
		assert.Equal(t, once, twice, "PlainText should be idempotent for %q", input)
		assert.Equal(t, strings.ToLower(once), once)
		assert.NotContains(t, once, " ")
	}
}

func TestDigits(t *testing.T) {
	assert.Equal(t, "123456", Digits("123_456_km"))
	assert.Equal(t, "123456", Digits("123456"))
	assert.Equal(t, "", Digits("km"))
	assert.Equal(t, "2008", Digits(" 2008 "))
}
