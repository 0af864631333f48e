package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tatianab/gamebook/internal/api"
	"github.com/tatianab/gamebook/internal/graph"
)

const caveBook = `
title: Cave
sections:
  - id: 1
    type: BEGIN
    options: [{gotoId: 2}]
  - id: 2
    type: END
`

func writeBook(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestDirLoadBook(t *testing.T) {
	dir := t.TempDir()
	writeBook(t, dir, "dragon-cave.yaml", caveBook)
	writeBook(t, dir, "forest.json", `{"title":"Forest","sections":[]}`)
	writeBook(t, dir, "notes.txt", "ignored")

	src := NewDir(dir, zap.NewNop())

	book, err := src.LoadBook(context.Background(), " dragon-cave ")
	require.NoError(t, err)
	assert.Equal(t, "Cave", book.Title)
	_, err = graph.Validate(book)
	assert.NoError(t, err)

	book, err = src.LoadBook(context.Background(), "forest")
	require.NoError(t, err)
	assert.Equal(t, "Forest", book.Title)

	ids, err := src.ListBooks(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"dragon-cave", "forest"}, ids)
}

func TestDirLoadBookNotFound(t *testing.T) {
	dir := t.TempDir()
	writeBook(t, dir, "dragon-cave.yaml", caveBook)
	src := NewDir(dir, zap.NewNop())

	_, err := src.LoadBook(context.Background(), "dragon-cove")
	require.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), `did you mean "dragon-cave"?`)

	_, err = src.LoadBook(context.Background(), "submarine")
	require.ErrorIs(t, err, ErrNotFound)
	assert.NotContains(t, err.Error(), "did you mean")

	for _, id := range []string{"", "../secret", "a/b", ".."} {
		_, err = src.LoadBook(context.Background(), id)
		assert.ErrorIs(t, err, ErrNotFound, id)
	}
}

func TestDirLoadBookMalformed(t *testing.T) {
	dir := t.TempDir()
	writeBook(t, dir, "broken.yaml", "sections: [unclosed")
	_, err := NewDir(dir, zap.NewNop()).LoadBook(context.Background(), "broken")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestDirHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewDir(t.TempDir(), zap.NewNop()).LoadBook(ctx, "x")
	assert.ErrorIs(t, err, context.Canceled)
}

func newHTTPSource(t *testing.T, handler http.HandlerFunc) *HTTP {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := api.NewClient(srv.URL, "", time.Second, zap.NewNop())
	require.NoError(t, err)
	return NewHTTP(client, zap.NewNop())
}

func TestHTTPSource(t *testing.T) {
	src := newHTTPSource(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/books":
			_, _ = w.Write([]byte(`[{"path":"cave"},{"path":""}]`))
		case "/books/cave":
			_, _ = w.Write([]byte(`{"title":"Cave","sections":[{"id":"1","type":"BEGIN","options":[{"gotoId":"2"}]},{"id":"2","type":"END"}]}`))
		case "/books/down":
			w.WriteHeader(http.StatusBadGateway)
		default:
			http.NotFound(w, r)
		}
	})

	ids, err := src.ListBooks(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"cave"}, ids)

	book, err := src.LoadBook(context.Background(), "cave")
	require.NoError(t, err)
	assert.Equal(t, "Cave", book.Title)

	_, err = src.LoadBook(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = src.LoadBook(context.Background(), "down")
	assert.ErrorIs(t, err, ErrNetwork)
	var httpErr *api.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadGateway, httpErr.Status)
}

func TestParseBookReply(t *testing.T) {
	book, err := parseBookReply("```yaml\n" + caveBook + "\n```")
	require.NoError(t, err)
	assert.Equal(t, "Cave", book.Title)
	assert.Len(t, book.Sections, 2)

	_, err = parseBookReply("sections: [")
	assert.Error(t, err)
}

func TestBookPrompt(t *testing.T) {
	prompt, err := bookPrompt("haunted lighthouse")
	require.NoError(t, err)
	assert.Contains(t, prompt, "haunted lighthouse")
	assert.Contains(t, prompt, "Exactly one section has type BEGIN.")
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "haunted-lighthouse", Slug("  Haunted   Lighthouse! "))
	assert.Equal(t, "book", Slug("!!!"))
	assert.Equal(t, "noir-cats-2", Slug("noir / cats #2"))
}

func TestBundledBooksAreValid(t *testing.T) {
	d := NewDir(filepath.Join("..", "..", "books"), zap.NewNop())
	ids, err := d.ListBooks(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, ids)

	for _, id := range ids {
		book, err := d.LoadBook(context.Background(), id)
		require.NoError(t, err, id)
		_, err = graph.Validate(book)
		assert.NoError(t, err, id)
	}
}
