package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Client sends requests straight to an http.Handler.
type Client struct {
	t       *testing.T
	handler http.Handler
	headers map[string]string
}

// NewClient creates a client for handler.
func NewClient(t *testing.T, handler http.Handler) *Client {
	return &Client{t: t, handler: handler, headers: map[string]string{}}
}

// WithHeader returns a copy of the client that sends key on every request.
func (c *Client) WithHeader(key, value string) *Client {
	headers := make(map[string]string, len(c.headers)+1)
	for k, v := range c.headers {
		headers[k] = v
	}
	headers[key] = value
	return &Client{t: c.t, handler: c.handler, headers: headers}
}

// Do sends a request. A string or []byte body is sent verbatim, anything
// else is encoded as JSON.
func (c *Client) Do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	case []byte:
		reader = bytes.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(c.t, err, "Failed to marshal request body")
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	c.handler.ServeHTTP(w, req)
	return w
}

// Get sends a GET request.
func (c *Client) Get(path string) *httptest.ResponseRecorder {
	c.t.Helper()
	return c.Do(http.MethodGet, path, nil)
}

// Post sends a POST request with body.
func (c *Client) Post(path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()
	return c.Do(http.MethodPost, path, body)
}

// Put sends a PUT request with body.
func (c *Client) Put(path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()
	return c.Do(http.MethodPut, path, body)
}

// Patch sends a PATCH request with body.
func (c *Client) Patch(path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()
	return c.Do(http.MethodPatch, path, body)
}

// Delete sends a DELETE request.
func (c *Client) Delete(path string) *httptest.ResponseRecorder {
	c.t.Helper()
	return c.Do(http.MethodDelete, path, nil)
}

// DecodeJSON parses the response body into T.
func DecodeJSON[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var result T
	err := json.Unmarshal(w.Body.Bytes(), &result)
	require.NoError(t, err, "Failed to parse JSON response: %s", w.Body.String())
	return result
}

// AssertErrorEnvelope checks the status and error code of an error response
// and returns the decoded envelope.
func AssertErrorEnvelope(t *testing.T, w *httptest.ResponseRecorder, status int, errorCode string) map[string]any {
	t.Helper()

	require.Equal(t, status, w.Code, "Unexpected status code: %s", w.Body.String())
	body := DecodeJSON[map[string]any](t, w)
	assert.Equal(t, errorCode, body["errorCode"], "Unexpected error code")
	assert.Equal(t, float64(status), body["statusCode"], "Envelope status differs from response status")
	assert.NotEmpty(t, body["traceId"], "Expected a trace id")
	assert.NotEmpty(t, body["timestamp"], "Expected a timestamp")
	return body
}
