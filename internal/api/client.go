// Package api is the client of the notes and bookmarks REST API.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/at-ishikawa/notesync/internal/auth"
	"github.com/google/uuid"
	"resty.dev/v3"
)

const DefaultBaseURL = "https://api.turbodoc.ai"

var (
	// ErrRequestFailed is returned for transport errors and non-2xx responses.
	ErrRequestFailed = errors.New("request failed")
	ErrNotFound      = errors.New("not found")
)

type Client struct {
	httpClient *resty.Client
	sessions   auth.SessionProvider
}

// NewClient creates a client. A zero timeout leaves requests unbounded apart
// from their context.
func NewClient(baseURL string, sessions auth.SessionProvider, timeout time.Duration) *Client {
	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetHeader("Content-Type", "application/json")
	if timeout > 0 {
		client.SetTimeout(timeout)
	}

	return &Client{
		httpClient: client,
		sessions:   sessions,
	}
}

func (client *Client) Close() error {
	return client.httpClient.Close()
}

// envelope wraps every response body.
type envelope[T any] struct {
	Data T `json:"data"`
}

// request starts an authenticated request. It fails with auth.ErrNoSession
// before anything is sent when nobody is signed in.
func (client *Client) request(ctx context.Context) (*resty.Request, error) {
	token, err := auth.AccessToken(ctx, client.sessions)
	if err != nil {
		return nil, err
	}

	requestID := uuid.NewString()
	slog.Default().Debug("api request", "request_id", requestID)
	return client.httpClient.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+token).
		SetHeader("X-Request-ID", requestID), nil
}

func checkResponse(response *resty.Response, err error, operation string) error {
	if err != nil {
		return fmt.Errorf("%w: httpClient.%s > %w", ErrRequestFailed, operation, err)
	}
	if response.StatusCode() == http.StatusNotFound {
		return fmt.Errorf("%w: %s", ErrNotFound, response.String())
	}
	if response.IsError() || response.StatusCode() >= http.StatusMultipleChoices {
		return fmt.Errorf("%w: response error %d: %s", ErrRequestFailed, response.StatusCode(), response.String())
	}
	return nil
}

// PageInfo is the metadata the API extracts from a web page.
type PageInfo struct {
	OGImage *string `json:"ogImage"`
	Title   *string `json:"title"`
}

// LookupPage asks the API for a page's title and preview image. Any response
// other than success yields empty metadata.
func (client *Client) LookupPage(ctx context.Context, pageURL string) (PageInfo, error) {
	request, err := client.request(ctx)
	if err != nil {
		return PageInfo{}, err
	}

	response, err := request.
		SetQueryParam("url", pageURL).
		SetResult(&PageInfo{}).
		Get("/v1/bookmarks/og-image")
	if err != nil {
		return PageInfo{}, fmt.Errorf("%w: httpClient.Get > %w", ErrRequestFailed, err)
	}
	if response.IsError() {
		slog.Default().Debug("page lookup failed", "url", pageURL, "status", response.StatusCode())
		return PageInfo{}, nil
	}
	info, ok := response.Result().(*PageInfo)
	if !ok || info == nil {
		return PageInfo{}, nil
	}
	return *info, nil
}
