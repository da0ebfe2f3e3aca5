package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{950, "950"},
		{1250000, "1,250,000"},
		{-400000, "-400,000"},
		{1234.5, "1,234.50"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatMoney(tt.in))
	}
}

func TestTruncateStr(t *testing.T) {
	assert.Equal(t, "Hà Nội", truncateStr("Hà Nội", 6))
	assert.Equal(t, "Hạ L...", truncateStr("Hạ Long Bay", 7))
	assert.Equal(t, "Hạ", truncateStr("Hạ Long", 2))
}

func TestParseAmount(t *testing.T) {
	v, err := parseAmount(" 1,500,000 ")
	require.NoError(t, err)
	assert.Equal(t, 1500000.0, v)

	v, err = parseAmount("")
	require.NoError(t, err)
	assert.Zero(t, v)

	_, err = parseAmount("abc")
	assert.Error(t, err)
}
