package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// StatusError is a non-2xx reply from the auth API. The body is plain text.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Message)
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignupData struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

// AuthClient calls the signup and login endpoints of the API server.
type AuthClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewAuthClient(baseURL string, hc *http.Client) *AuthClient {
	if hc == nil {
		hc = &http.Client{}
	}
	return &AuthClient{baseURL: strings.TrimRight(baseURL, "/"), httpClient: hc}
}

func (c *AuthClient) post(ctx context.Context, path string, body any) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(data))}
	}
	return data, nil
}

// Signup registers data as given. It returns no token.
func (c *AuthClient) Signup(ctx context.Context, data SignupData) error {
	_, err := c.post(ctx, "/api/auth/signup", data)
	return err
}

func (c *AuthClient) Login(ctx context.Context, creds Credentials) (*StoredUser, error) {
	data, err := c.post(ctx, "/api/auth/login", creds)
	if err != nil {
		return nil, err
	}
	var user StoredUser
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("decoding login response: %w", err)
	}
	return &user, nil
}
