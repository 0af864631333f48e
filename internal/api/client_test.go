package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := NewClient(srv.URL+"/", "/service/", time.Second, zap.NewNop())
	require.NoError(t, err)
	return c
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	_, err := NewClient("  ", "", time.Second, zap.NewNop())
	assert.Error(t, err)
}

func TestURL(t *testing.T) {
	c, err := NewClient("http://localhost:8080/", "", time.Second, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/books", c.URL("books", nil))

	c, err = NewClient("http://localhost:8080", "/service/", time.Second, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/service/books", c.URL("/books", nil))
}

func TestGetBook(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/service/books/dragon cave", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"title":"Dragon","unknown":true,"sections":[{"id":1,"type":"BEGIN","options":[{"gotoId":"2"}]},{"id":"2","type":"END","options":null}]}`))
	})

	book, err := c.GetBook(context.Background(), "dragon cave")
	require.NoError(t, err)
	assert.Equal(t, "Dragon", book.Title)
	require.Len(t, book.Sections, 2)
	id, ok := book.Sections[0].ID.ID()
	require.True(t, ok)
	assert.Equal(t, "1", id)
}

func TestGetBookNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such book", http.StatusNotFound)
	})

	_, err := c.GetBook(context.Background(), "missing")
	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.Contains(t, httpErr.Body, "no such book")
	assert.Contains(t, err.Error(), "HTTP 404 for ")
}

func TestListBooks(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/service/books", r.URL.Path)
		_, _ = w.Write([]byte(`[{"path":"a","title":"A","type":null},{"path":"b","tags":["x"]}]`))
	})

	books, err := c.ListBooks(context.Background())
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, "a", books[0].Path)
	assert.Nil(t, books[0].Type)
	assert.Equal(t, []string{"x"}, books[1].Tags)
}

func TestSaveProgress(t *testing.T) {
	var gotBook, gotSection string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/service/books/progress/save", r.URL.Path)
		gotBook = r.URL.Query().Get("book")
		gotSection = r.URL.Query().Get("section")
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, c.SaveProgress(context.Background(), "my book", 12))
	assert.Equal(t, "my book", gotBook)
	assert.Equal(t, "12", gotSection)
}
