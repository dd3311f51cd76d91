package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"testing"

	"github.com/dmitrijs2005/farmdash/internal/common"
	"github.com/dmitrijs2005/farmdash/internal/logging"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequestBuilder_RejectsRelativeURL(t *testing.T) {
	_, err := NewRequestBuilder("/api", nil, logging.Nop())
	require.Error(t, err)

	_, err = NewRequestBuilder("://bad", nil, logging.Nop())
	require.Error(t, err)
}

func TestRequestBuilder_Build(t *testing.T) {
	b, err := NewRequestBuilder("https://example.test/api/", TokenFunc(func(context.Context) (string, error) {
		return "tok", nil
	}), logging.Nop())
	require.NoError(t, err)

	q := url.Values{"limit": {"10"}}
	req, err := b.Build(context.Background(), http.MethodPost, []string{"products", "a b"}, q, map[string]int{"x": 1})
	require.NoError(t, err)

	assert.Equal(t, "https://example.test/api/products/a%20b?limit=10", req.URL.String())
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
	assert.Equal(t, "Bearer tok", req.Header.Get("Authorization"))
	_, err = uuid.Parse(req.Header.Get(common.RequestIDHeaderName))
	assert.NoError(t, err)

	body, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"x":1}`, string(body))
}

func TestRequestBuilder_NoTokenNoHeader(t *testing.T) {
	b, err := NewRequestBuilder("https://example.test", TokenFunc(func(context.Context) (string, error) {
		return "", nil
	}), logging.Nop())
	require.NoError(t, err)

	req, err := b.Build(context.Background(), http.MethodGet, []string{"categories"}, nil, nil)
	require.NoError(t, err)
	_, present := req.Header["Authorization"]
	assert.False(t, present)
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
	assert.Nil(t, req.Body)
}

func TestRequestBuilder_TokenSourceErrorOmitsHeader(t *testing.T) {
	b, err := NewRequestBuilder("https://example.test", TokenFunc(func(context.Context) (string, error) {
		return "", errors.New("storage down")
	}), logging.Nop())
	require.NoError(t, err)

	req, err := b.Build(context.Background(), http.MethodGet, []string{"farmers"}, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, req.Header.Get("Authorization"))
}

func TestRequestBuilder_UnencodableBody(t *testing.T) {
	b, err := NewRequestBuilder("https://example.test", nil, logging.Nop())
	require.NoError(t, err)

	_, err = b.Build(context.Background(), http.MethodPost, []string{"x"}, nil, make(chan int))
	require.Error(t, err)
}

func TestRequestBuilder_SegmentsStayInPlace(t *testing.T) {
	b, err := NewRequestBuilder("https://example.test/api", nil, logging.Nop())
	require.NoError(t, err)

	req, err := b.Build(context.Background(), http.MethodDelete, []string{"products", "../farmers/7"}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "/api/products/..%2Ffarmers%2F7", req.URL.EscapedPath())
	assert.NotEqual(t, "/api/farmers/7", req.URL.Path)

	for _, seg := range []string{"", ".", ".."} {
		_, err := b.Build(context.Background(), http.MethodGet, []string{"products", seg}, nil, nil)
		assert.ErrorIs(t, err, ErrInvalidPathSegment, "segment %q", seg)
	}
}
