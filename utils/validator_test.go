package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	assert.True(t, ValidateEmail("a.lovelace@university.edu"))
	assert.True(t, ValidateEmail("editor+journal@press.org"))
	assert.False(t, ValidateEmail("not-an-email"))
	assert.False(t, ValidateEmail("missing@tld"))
	assert.False(t, ValidateEmail("@university.edu"))
}

func TestValidateORCID(t *testing.T) {
	assert.True(t, ValidateORCID("0000-0002-1825-0097"))
	assert.True(t, ValidateORCID("0000-0002-1694-233X"))
	assert.False(t, ValidateORCID("0000-0002-1825-009"))
	assert.False(t, ValidateORCID("0000000218250097"))
	assert.False(t, ValidateORCID("0000-0002-1825-00 7"))
}

func TestValidatePassword(t *testing.T) {
	cases := []struct {
		name     string
		password string
		ok       bool
	}{
		{"letters and digits", "review2026", true},
		{"too short", "abc1234", false},
		{"letters only", "abcdefgh", false},
		{"digits only", "12345678", false},
		{"mixed with symbols", "peer-review-1", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ok, reason := ValidatePassword(tc.password)
			assert.Equal(t, tc.ok, ok)
			if !tc.ok {
				assert.NotEmpty(t, reason)
			}
		})
	}
}

func TestSanitizeInput(t *testing.T) {
	assert.Equal(t, "Graph Algorithms", SanitizeInput("  Graph Algorithms  "))
	assert.Equal(t, "title", SanitizeInput("ti\x00tle"))
	assert.Equal(t, "line one\nline two", SanitizeInput("line one\nline two"))
	assert.Equal(t, "abstract", SanitizeInput("ab\x1bstract\x7f"))
}
