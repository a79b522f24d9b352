// Package netx fetches share links over plain HTTP.
package netx

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
)

// MaxBody caps how much of a shared object FetchShareLink reads.
const MaxBody = 256 << 20

// StatusError is returned for any non-200 answer.
type StatusError struct {
	Code   int
	Status string
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("download failed: %s; body: %s", e.Status, e.Body)
}

// Fetched is a downloaded object.
type Fetched struct {
	Name    string
	Content []byte
}

// httpClient is a seam for tests.
var httpClient = http.DefaultClient

// FetchShareLink downloads the object behind a share link. A non-nil
// password is sent as the password query parameter.
func FetchShareLink(ctx context.Context, link string, password *string) (*Fetched, error) {
	u, err := url.Parse(link)
	if err != nil {
		return nil, err
	}
	if password != nil {
		q := u.Query()
		q.Set("password", *password)
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &StatusError{Code: resp.StatusCode, Status: resp.Status, Body: strings.TrimSpace(string(b))}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBody+1))
	if err != nil {
		return nil, err
	}
	if len(body) > MaxBody {
		return nil, fmt.Errorf("download failed: object larger than %d bytes", MaxBody)
	}

	return &Fetched{Name: fileName(resp.Header.Get("Content-Disposition"), u.Path), Content: body}, nil
}

func fileName(disposition, urlPath string) string {
	if _, params, err := mime.ParseMediaType(disposition); err == nil && params["filename"] != "" {
		return params["filename"]
	}
	if i := strings.LastIndex(urlPath, "/"); i >= 0 {
		return urlPath[i+1:]
	}
	return urlPath
}
