// Package remote implements the client side of the hosted authentication
// service. The data layer consumes it; it never implements the server.
package remote

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultTimeout = 15 * time.Second

// ErrRemoteUnavailable wraps any transport or server failure. Callers treat
// every remote failure the same way: try the offline path.
var ErrRemoteUnavailable = errors.New("remote authentication unavailable")

// LoginRequest is the wire shape of the login call. For educators the phone
// number is carried in the firstName slot; that mapping is part of the remote
// contract and must not be renamed.
type LoginRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// LoginResponse carries the issued token plus whatever identity fields the
// service returns. The data layer only extracts the token and the identity;
// everything else is opaque.
type LoginResponse struct {
	Token       string `json:"token"`
	FirstName   string `json:"firstName,omitempty"`
	LastName    string `json:"lastName,omitempty"`
	FullName    string `json:"fullName,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Verified    bool   `json:"verified,omitempty"`
}

// Client talks to the remote authentication service.
type Client struct {
	http *resty.Client
}

// NewClient creates a client for the given base URL. A zero timeout uses the
// default.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(timeout),
	}
}

// Login attempts a remote login. Any transport error or non-2xx status is
// surfaced as ErrRemoteUnavailable.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	var result LoginResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&result).
		Post("/auth/login")
	if err != nil {
		return nil, fmt.Errorf("login request (%v): %w", err, ErrRemoteUnavailable)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("login request: status %d: %w", resp.StatusCode(), ErrRemoteUnavailable)
	}
	if result.Token == "" {
		return nil, fmt.Errorf("login response missing token: %w", ErrRemoteUnavailable)
	}
	return &result, nil
}
