package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/farmdash/internal/common"
	"github.com/dmitrijs2005/farmdash/internal/logging"
	"github.com/google/uuid"
)

// TokenSource yields the current bearer credential. An empty string means
// "not logged in".
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// TokenFunc adapts a function to TokenSource.
type TokenFunc func(ctx context.Context) (string, error)

func (f TokenFunc) Token(ctx context.Context) (string, error) { return f(ctx) }

// ErrInvalidPathSegment is returned by Build for a segment that would escape
// or collapse its place in the path.
var ErrInvalidPathSegment = errors.New("invalid path segment")

// RequestBuilder creates every outgoing gateway request. The credential is
// read from the TokenSource on each call, never cached here.
type RequestBuilder struct {
	baseURL *url.URL
	tokens  TokenSource
	log     logging.Logger
}

func NewRequestBuilder(baseURL string, tokens TokenSource, log logging.Logger) (*RequestBuilder, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}
	return &RequestBuilder{baseURL: u, tokens: tokens, log: log}, nil
}

// Build returns a request for base/segments...?query with body encoded as
// JSON (nil means no body). Each segment is path-escaped, so an id holding
// "/" stays one segment; empty, "." and ".." segments are rejected. Content-Type is always application/json. The
// Authorization header is set only when a non-empty token is available; a
// failing token source is logged and treated as no token.
func (b *RequestBuilder) Build(ctx context.Context, method string, segments []string, query url.Values, body any) (*http.Request, error) {
	escaped := make([]string, len(segments))
	for i, seg := range segments {
		if seg == "" || seg == "." || seg == ".." {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPathSegment, seg)
		}
		escaped[i] = url.PathEscape(seg)
	}
	u := b.baseURL.JoinPath(escaped...)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var r io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		r = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), r)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(common.RequestIDHeaderName, uuid.NewString())

	if b.tokens != nil {
		token, err := b.tokens.Token(ctx)
		if err != nil {
			b.log.Warn(ctx, "credential unavailable, sending request without it", "error", err)
		} else if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	return req, nil
}
