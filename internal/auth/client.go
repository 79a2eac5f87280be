package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

var ErrAuthFailed = errors.New("authentication failed")

// Client talks to a Supabase-compatible auth endpoint.
type Client struct {
	httpClient *resty.Client
	now        func() time.Time
}

func NewClient(baseURL, anonKey string) *Client {
	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("apikey", anonKey).
		SetHeader("Content-Type", "application/json")

	return &Client{
		httpClient: client,
		now:        time.Now,
	}
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at"`
	User         struct {
		Email string `json:"email"`
	} `json:"user"`
}

// SignIn exchanges an email and password for a session.
func (c *Client) SignIn(ctx context.Context, email, password string) (*Session, error) {
	return c.token(ctx, "password", map[string]string{
		"email":    email,
		"password": password,
	})
}

// Refresh implements Refresher.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	return c.token(ctx, "refresh_token", map[string]string{
		"refresh_token": refreshToken,
	})
}

// SignOut revokes the session on the provider side.
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	res, err := c.httpClient.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		Post("/auth/v1/logout")
	if err != nil {
		return fmt.Errorf("client.R.Post > %w", err)
	}
	if res.StatusCode() >= http.StatusBadRequest {
		return fmt.Errorf("%w: status code: %d, body: %s", ErrAuthFailed, res.StatusCode(), string(res.Body()))
	}
	return nil
}

func (c *Client) token(ctx context.Context, grantType string, body map[string]string) (*Session, error) {
	res, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("grant_type", grantType).
		SetBody(body).
		Post("/auth/v1/token")
	if err != nil {
		return nil, fmt.Errorf("client.R.Post > %w", err)
	}
	if res.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%w: status code: %d, body: %s", ErrAuthFailed, res.StatusCode(), string(res.Body()))
	}

	var token tokenResponse
	if err := json.Unmarshal(res.Body(), &token); err != nil {
		return nil, fmt.Errorf("json.Unmarshal > %w", err)
	}
	if token.AccessToken == "" {
		return nil, fmt.Errorf("%w: empty access token", ErrAuthFailed)
	}

	session := &Session{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		Email:        token.User.Email,
	}
	switch {
	case token.ExpiresAt > 0:
		session.ExpiresAt = time.Unix(token.ExpiresAt, 0).UTC()
	case token.ExpiresIn > 0:
		session.ExpiresAt = c.now().Add(time.Duration(token.ExpiresIn) * time.Second).UTC()
	}
	return session, nil
}

var _ Refresher = (*Client)(nil)
