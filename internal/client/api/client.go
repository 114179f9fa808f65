// Package api is a thin HTTP client for the auth server.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/common"
)

// ErrUnavailable is returned when the server cannot be reached.
var ErrUnavailable = errors.New("server unavailable")

// Error is a non-2xx response from the server.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

// Unauthorized reports whether the server rejected the credentials.
func (e *Error) Unauthorized() bool { return e.Status == http.StatusUnauthorized }

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type Identity struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a client for the server at baseURL, e.g. "http://127.0.0.1:8080".
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) Signup(ctx context.Context, email, password string) (*TokenPair, error) {
	var pair TokenPair
	err := c.do(ctx, http.MethodPost, "/signup", "", map[string]string{"email": email, "password": password}, &pair)
	if err != nil {
		return nil, err
	}
	return &pair, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	var pair TokenPair
	err := c.do(ctx, http.MethodPost, "/login", "", map[string]string{"email": email, "password": password}, &pair)
	if err != nil {
		return nil, err
	}
	return &pair, nil
}

func (c *Client) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	var pair TokenPair
	err := c.do(ctx, http.MethodPost, "/refresh", "", map[string]string{"refreshToken": refreshToken}, &pair)
	if err != nil {
		return nil, err
	}
	return &pair, nil
}

// Me returns the identity behind accessToken.
func (c *Client) Me(ctx context.Context, accessToken string) (*Identity, error) {
	var id Identity
	if err := c.do(ctx, http.MethodGet, "/me", accessToken, nil, &id); err != nil {
		return nil, err
	}
	return &id, nil
}

func (c *Client) do(ctx context.Context, method, path, bearer string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+bearer)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&e); err != nil || e.Error == "" {
			e.Error = http.StatusText(resp.StatusCode)
		}
		return &Error{Status: resp.StatusCode, Message: e.Error}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
