package models

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mixedBook = `
title: The Hidden Manor
author: Anon
sections:
  - id: 1
    type: " begin "
    text: You stand at the gate.
    options:
      - description: Enter
        gotoId: "2"
      - gotoId: 2.5
  - id: "  2 "
    options:
      - gotoId: 3
        consequence:
          type: lose_health
          value: "4"
          text: A dog bites you.
  - id: 3
    type: END
    options: null
  - id: [not, valid]
  - id: true
  - id: ""
`

func TestParseBookYAML(t *testing.T) {
	book, err := ParseBook([]byte(mixedBook))
	require.NoError(t, err)

	assert.Equal(t, "The Hidden Manor", book.Title)
	require.Len(t, book.Sections, 6)

	id, ok := book.Sections[0].ID.ID()
	require.True(t, ok)
	assert.Equal(t, "1", id)
	assert.True(t, book.Sections[0].IsBegin())

	id, ok = book.Sections[1].ID.ID()
	require.True(t, ok)
	assert.Equal(t, "2", id)

	target, ok := book.Sections[0].Options[1].Target()
	require.True(t, ok)
	assert.Equal(t, "2.5", target)
	assert.Equal(t, DefaultOptionLabel, book.Sections[0].Options[1].Label())
	assert.Equal(t, "Enter", book.Sections[0].Options[0].Label())

	c := book.Sections[1].Options[0].Consequence
	require.NotNil(t, c)
	v, ok := c.Value.Float()
	require.True(t, ok)
	assert.Equal(t, 4.0, v)

	assert.True(t, book.Sections[2].IsEnd())
	assert.Empty(t, book.Sections[2].Options)

	for _, s := range book.Sections[3:] {
		_, ok := s.ID.ID()
		assert.False(t, ok)
	}
}

func TestParseBookJSON(t *testing.T) {
	book, err := ParseBook([]byte(`{"title":"J","extra":{"a":1},"sections":[{"id":7,"type":"BEGIN","options":[{"gotoId":"8"}]},{"id":"8","type":"END"}]}`))
	require.NoError(t, err)
	require.Len(t, book.Sections, 2)
	id, ok := book.Sections[0].ID.ID()
	require.True(t, ok)
	assert.Equal(t, "7", id)
}

func TestScalarFloat(t *testing.T) {
	tests := []struct {
		in   Scalar
		want float64
		ok   bool
	}{
		{Number(3), 3, true},
		{String(" -2.5 "), -2.5, true},
		{String("abc"), 0, false},
		{String(""), 0, true},
		{String("Inf"), 0, false},
		{Scalar{}, 0, false},
	}
	for _, tt := range tests {
		got, ok := tt.in.Float()
		assert.Equal(t, tt.ok, ok, "%+v", tt.in)
		assert.Equal(t, tt.want, got, "%+v", tt.in)
	}
}

func TestSectionNumber(t *testing.T) {
	book, err := ParseBook([]byte(mixedBook))
	require.NoError(t, err)
	assert.Equal(t, 1, book.SectionNumber("1"))
	assert.Equal(t, 3, book.SectionNumber("3"))
	assert.Equal(t, 0, book.SectionNumber("404"))
}

func TestSaveLoadListBooks(t *testing.T) {
	dir := t.TempDir()
	book, err := ParseBook([]byte(mixedBook))
	require.NoError(t, err)

	require.NoError(t, SaveBookFile(filepath.Join(dir, "manor.yaml"), book))

	books, err := ListBooks(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"manor"}, books)

	path, ok := FindBookFile(dir, "manor")
	require.True(t, ok)
	loaded, err := LoadBookFile(path)
	require.NoError(t, err)
	assert.Equal(t, book.Title, loaded.Title)
	id, ok := loaded.Sections[1].ID.ID()
	require.True(t, ok)
	assert.Equal(t, "2", id)

	missing, err := ListBooks(filepath.Join(dir, "nope"))
	require.NoError(t, err)
	assert.Empty(t, missing)
}
