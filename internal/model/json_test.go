package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringList_Scan(t *testing.T) {
	tests := []struct {
		name     string
		src      interface{}
		expected StringList
	}{
		{name: "valid json bytes", src: []byte(`["Web","iOS"]`), expected: StringList{"Web", "iOS"}},
		{name: "valid json string", src: `["API"]`, expected: StringList{"API"}},
		{name: "null column", src: nil, expected: nil},
		{name: "empty value", src: []byte(""), expected: nil},
		{name: "malformed json degrades to absent", src: []byte(`["unterminated`), expected: nil},
		{name: "wrong json shape degrades to absent", src: []byte(`{"not":"a list"}`), expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var l StringList
			assert.NoError(t, l.Scan(tt.src))
			assert.Equal(t, tt.expected, l)
		})
	}
}

func TestStringMap_Scan(t *testing.T) {
	tests := []struct {
		name     string
		src      interface{}
		expected StringMap
	}{
		{name: "valid json", src: []byte(`{"twitter":"https://x.com/a"}`), expected: StringMap{"twitter": "https://x.com/a"}},
		{name: "null column", src: nil, expected: nil},
		{name: "malformed json degrades to absent", src: []byte(`{broken`), expected: nil},
		{name: "wrong json shape degrades to absent", src: []byte(`["a","b"]`), expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m StringMap
			assert.NoError(t, m.Scan(tt.src))
			assert.Equal(t, tt.expected, m)
		})
	}
}

func TestStringList_Value(t *testing.T) {
	nilValue, err := StringList(nil).Value()
	assert.NoError(t, err)
	assert.Nil(t, nilValue)

	v, err := StringList{"Web"}.Value()
	assert.NoError(t, err)
	assert.Equal(t, []byte(`["Web"]`), v)
}

func TestStringMap_Value(t *testing.T) {
	nilValue, err := StringMap(nil).Value()
	assert.NoError(t, err)
	assert.Nil(t, nilValue)

	v, err := StringMap{"discord": "https://discord.gg/x"}.Value()
	assert.NoError(t, err)
	assert.Equal(t, []byte(`{"discord":"https://discord.gg/x"}`), v)
}
