package csharp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTypeRef(t *testing.T) {
	tests := []struct {
		in    string
		name  string
		arity int
		rank  int
		str   string
	}{
		{"int", "int", 0, 0, "int"},
		{"System.String", "System.String", 0, 0, "System.String"},
		{"List<int>", "List", 1, 0, "List<int>"},
		{"Dictionary<string, List<int>>[]", "Dictionary", 2, 1, "Dictionary<string, List<int>>[]"},
		{"Dictionary < string ,int >", "Dictionary", 2, 0, "Dictionary<string, int>"},
		{"int?", "int", 0, 0, "int"},
		{"int[,][]", "int", 0, 2, "int[][]"},
		{"int[5]", "int", 0, 1, "int[]"},
		{"ref int", "int", 0, 0, "int"},
		{"params object[]", "object", 0, 1, "object[]"},
		{"@class", "class", 0, 0, "class"},
		{"Outer<int>.Inner", "Outer.Inner", 0, 0, "Outer.Inner"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			r := parseTypeRef(tt.in)
			require.NotNil(t, r)
			assert.Equal(t, tt.name, r.Name)
			assert.Equal(t, tt.arity, r.Arity())
			assert.Equal(t, tt.rank, r.Rank)
			assert.Equal(t, tt.str, r.String())
		})
	}
}

func TestParseTypeRef_Global(t *testing.T) {
	r := parseTypeRef("global::System.Collections.Generic.List<T>")
	require.NotNil(t, r)
	assert.True(t, r.Global)
	assert.Equal(t, "System.Collections.Generic.List", r.Name)
	assert.False(t, r.Simple())
	assert.Equal(t, "T", r.Args[0].Name)
}

func TestParseTypeRef_Unbound(t *testing.T) {
	r := parseTypeRef("Dictionary<,>")
	require.NotNil(t, r)
	assert.Equal(t, 2, r.Arity())
	assert.Empty(t, r.Args[0].Name)
	assert.Empty(t, r.Args[1].Name)
}

func TestParseTypeRef_NoNominalType(t *testing.T) {
	for _, in := range []string{"(int, string)", "int*", "", "List<int", "Foo<>>"} {
		assert.Nil(t, parseTypeRef(in), in)
	}
}
