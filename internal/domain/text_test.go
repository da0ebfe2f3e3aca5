package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Đà Nẵng", "da nang"},
		{"  da nang ", "da nang"},
		{"Hội An", "hoi an"},
		{"HUẾ", "hue"},
		{"Vé tham quan Bà Nà Hills", "ve tham quan ba na hills"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeText(tt.in), "input %q", tt.in)
	}
}

func TestSanitizeCode(t *testing.T) {
	assert.Equal(t, "sgn-01", SanitizeCode("SGN-01"))
	assert.Equal(t, "sgn-01-a", SanitizeCode("SGN 01/A"))
	assert.Equal(t, "h-i-an", SanitizeCode("Hội An"))
	assert.Equal(t, SanitizeCode("sgn-01"), SanitizeCode("SGN-01"))
}

func TestSameCode(t *testing.T) {
	assert.True(t, SameCode("SGN-01", "sgn-01"))
	assert.True(t, SameCode(" SGN-01", "sgn-01 "))
	assert.False(t, SameCode("SGN-01", "SGN-02"))
}
