package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	valid := []string{
		"ann.lee@example.com",
		"bob+tag@mail.co",
		"a_b-c@sub.domain.org",
	}
	for _, email := range valid {
		assert.True(t, ValidateEmail(email), email)
	}

	invalid := []string{
		"",
		"plainaddress",
		"@missing-local.com",
		"missing-at.example.com",
		"user@nodot",
	}
	for _, email := range invalid {
		assert.False(t, ValidateEmail(email), email)
	}
}

func TestValidateLength(t *testing.T) {
	assert.True(t, ValidateLength("Ann", 3, 30))
	assert.True(t, ValidateLength("abcdef", 6, 40))
	assert.False(t, ValidateLength("Al", 3, 30))
	assert.False(t, ValidateLength("", 1, 10))

	// multibyte names count as runes, not bytes
	assert.True(t, ValidateLength("Äsel", 3, 4))
}
