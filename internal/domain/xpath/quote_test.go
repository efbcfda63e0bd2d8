package xpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuote(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Child 1", "'Child 1'"},
		{"single quote", "Bob's", `"Bob's"`},
		{"both quotes", `Bob's "tree"`, `concat('Bob', "'", 's "tree"')`},
		{"empty", "", "''"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Quote(tt.in))
		})
	}
}

func TestFormat(t *testing.T) {
	got := Format(`./ul/li[@data-nodeid=%s and @title=%s]`, "0.1", "it's")
	assert.Equal(t, `./ul/li[@data-nodeid='0.1' and @title="it's"]`, got)
}

func TestIsAttrName(t *testing.T) {
	for _, name := range []string{"id", "data-id", "xml:lang", "_x", "ng.model"} {
		assert.True(t, IsAttrName(name), name)
	}
	for _, name := range []string{"", "1id", "id]", "id or 1=1", "a:b:c", "@id"} {
		assert.False(t, IsAttrName(name), name)
	}
}
