package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeKind_NextCode(t *testing.T) {
	tests := []struct {
		name  string
		kind  CodeKind
		codes []string
		want  string
	}{
		{"buyer empty scope", CodeKindBuyer, nil, "101A"},
		{"vendor empty scope", CodeKindVendor, nil, "101"},
		{"buyer increments", CodeKindBuyer, []string{"101A", "102A"}, "103A"},
		{"numeric not lexicographic max", CodeKindBuyer, []string{"999A", "1000A"}, "1001A"},
		{"vendor increments", CodeKindVendor, []string{"101", "105", "103"}, "106"},
		{"unparseable ignored", CodeKindVendor, []string{"legacy-x"}, "101"},
		{"below start floors", CodeKindVendor, []string{"7"}, "101"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.NextCode(tt.codes))
		})
	}
}

func TestCodeKind_ParseCode(t *testing.T) {
	n, ok := CodeKindBuyer.ParseCode("128A")
	assert.True(t, ok)
	assert.Equal(t, 128, n)

	_, ok = CodeKindBuyer.ParseCode("A12")
	assert.False(t, ok)
	_, ok = CodeKindVendor.ParseCode("")
	assert.False(t, ok)
}
