package parser

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDocument(t *testing.T) {
	tests := []struct {
		input    interface{}
		expected string
	}{
		{"752.177.912-68", "75217791268"},
		{"75217791268", "75217791268"},
		{json.Number("1122233344"), "01122233344"},
		{int64(123), "00000000123"},
		{75217791268.0, "75217791268"},
		{"", "00000000000"},
		{nil, "00000000000"},
		{"abc", "00000000000"},
	}

	for _, tt := range tests {
		got := NormalizeDocument(tt.input)
		assert.Equal(t, tt.expected, got, "NormalizeDocument(%#v)", tt.input)
		assert.Len(t, got, DocumentWidth)
	}
}

func TestNormalizeDocumentIdempotent(t *testing.T) {
	for _, in := range []string{"752.177.912-68", "1", "", "111.222.333-44", "00000000001"} {
		once := NormalizeDocument(in)
		assert.Equal(t, once, NormalizeDocument(once), "input %q", in)
	}
}

func TestIsBlankDocument(t *testing.T) {
	assert.True(t, IsBlankDocument("00000000000"))
	assert.True(t, IsBlankDocument(NormalizeDocument("---")))
	assert.False(t, IsBlankDocument("00000000001"))
}
