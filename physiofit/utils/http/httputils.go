package httputils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-cleanhttp"
)

// maxErrorBody caps how much of a failed response is kept for the error text.
// Longer bodies end in TruncatedMarker.
const (
	maxErrorBody    = 64 << 10
	TruncatedMarker = " [truncated]"
)

// StatusError is returned when the remote side answers with a non-2xx code.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("bad status: %d: %s", e.Code, e.Body)
}

// NewClient returns a pooled client. A zero timeout means no client-side deadline.
func NewClient(timeout time.Duration) *http.Client {
	c := cleanhttp.DefaultPooledClient()
	c.Timeout = timeout
	return c
}

func PostJSON(ctx context.Context, client *http.Client, url string, header http.Header, body interface{}, resp interface{}) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return do(client, req, header, resp)
}

func GetJSON(ctx context.Context, client *http.Client, url string, header http.Header, resp interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	return do(client, req, header, resp)
}

func do(client *http.Client, req *http.Request, header http.Header, resp interface{}) error {
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")

	r, err := client.Do(req)
	if err != nil {
		return err
	}
	defer r.Body.Close()

	if r.StatusCode < 200 || r.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(r.Body, maxErrorBody+1))
		body := string(raw)
		if len(raw) > maxErrorBody {
			body = string(raw[:maxErrorBody]) + TruncatedMarker
		}
		return &StatusError{Code: r.StatusCode, Body: body}
	}
	if resp == nil {
		_, _ = io.Copy(io.Discard, r.Body)
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(resp); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
