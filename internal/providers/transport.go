package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

// NewHTTPClient returns a client that authenticates with a static bearer token
// and gives up after timeout.
func NewHTTPClient(token string, timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return &http.Client{Timeout: timeout}
	}

	client := oauth2.NewClient(context.Background(), oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: token,
		TokenType:   "Bearer",
	}))
	client.Timeout = timeout
	return client
}

// JSONClient issues JSON requests against one provider base URL.
type JSONClient struct {
	Provider string
	BaseURL  string
	HTTP     *http.Client
}

// Do sends in (when non-nil) as JSON and decodes a 2xx body into out (when non-nil).
// Any status outside want is returned as *Error with the body captured.
func (c *JSONClient) Do(ctx context.Context, op, method, path string, in, out any, want ...int) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(c.BaseURL, "/")+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return Unavailable(c.Provider, op, err)
	}
	defer resp.Body.Close()

	if !statusWanted(resp.StatusCode, want) {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &Error{
			Provider:   c.Provider,
			Op:         op,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(raw)),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return Malformed(c.Provider, op, err.Error())
	}
	return nil
}

func statusWanted(code int, want []int) bool {
	if len(want) == 0 {
		return code >= 200 && code < 300
	}
	for _, w := range want {
		if code == w {
			return true
		}
	}
	return false
}
