package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/ukaji3/fichas-go/pkg/fichas/models"
)

func TestNewControlIndex(t *testing.T) {
	rows := []models.Row{
		{"", "", "", "", "752.177.912-68", "FICHA-001"},
		{"", "", "", "", "", "ORPHAN"},
		{"", "", "", "", "111.222.333-44"},
		nil,
		{"", "", "", "", int64(1122233344), "ARQ-1"},
		{"", "", "", "", "011.222.333-44", "ARQ-2"},
	}

	idx, overwritten := NewControlIndex(rows)

	assert.Equal(t, ControlIndex{
		"75217791268": "FICHA-001",
		"01122233344": "ARQ-2",
	}, idx)
	assert.Equal(t, 1, overwritten)
}

func TestControlIndexLookup(t *testing.T) {
	idx, _ := NewControlIndex([]models.Row{{"", "", "", "", "75217791268", "FICHA-001"}})

	assert.Equal(t, "FICHA-001", idx.Lookup("75217791268"))
	assert.Equal(t, "FICHA-001", idx.Lookup("752.177.912-68"))
	assert.Equal(t, "", idx.Lookup("99999999999"))

	var empty ControlIndex
	assert.Equal(t, "", empty.Lookup("75217791268"))
}
