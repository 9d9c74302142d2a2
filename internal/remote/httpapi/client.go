// Package httpapi adapts the backend's JSON API to the remote contracts.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"hrdash/internal/remote"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *apiError       `json:"error,omitempty"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type loginData struct {
	Token string `json:"token"`
	User  struct {
		ID          string         `json:"id"`
		DisplayName string         `json:"displayName"`
		Claims      map[string]any `json:"claims"`
	} `json:"user"`
}

type Client struct {
	baseURL string
	http    *http.Client
	// token supplies the active session token for authenticated calls.
	token func() string
}

func NewClient(baseURL string, timeout time.Duration, token func() string) *Client {
	if token == nil {
		token = func() string { return "" }
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		token:   token,
	}
}

func (c *Client) Verify(ctx context.Context, req remote.VerifyRequest) (remote.SessionPayload, error) {
	var data loginData
	err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", req, &data)
	if err != nil {
		return remote.SessionPayload{}, err
	}
	if data.Token == "" {
		return remote.SessionPayload{}, fmt.Errorf("login response carries no token")
	}
	return remote.SessionPayload{
		Token:       data.Token,
		SubjectID:   data.User.ID,
		DisplayName: data.User.DisplayName,
		Claims:      data.User.Claims,
	}, nil
}

func (c *Client) SignOut(ctx context.Context, token string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/auth/logout", nil)
	if err != nil {
		return err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode >= 400 {
		return fmt.Errorf("logout returned status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) Get(ctx context.Context, subjectID, role string) (map[string]any, error) {
	record := map[string]any{}
	err := c.do(ctx, http.MethodGet, c.profilePath(subjectID, role), nil, &record)
	if err != nil {
		var status *statusError
		// A missing record is a valid first-visit state, not an error.
		if errors.As(err, &status) && status.code == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}
	return record, nil
}

func (c *Client) Upsert(ctx context.Context, subjectID, role string, record map[string]any) error {
	return c.do(ctx, http.MethodPut, c.profilePath(subjectID, role), record, nil)
}

func (c *Client) profilePath(subjectID, role string) string {
	return "/api/v1/profiles/" + url.PathEscape(subjectID) + "?role=" + url.QueryEscape(role)
}

type statusError struct {
	code    int
	apiCode string
	message string
}

func (e *statusError) Error() string {
	if e.message != "" {
		return fmt.Sprintf("backend returned %d: %s", e.code, e.message)
	}
	return fmt.Sprintf("backend returned %d", e.code)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var env envelope
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &env); err != nil && resp.StatusCode < 400 {
			return fmt.Errorf("decode response: %w", err)
		}
	}

	if resp.StatusCode >= 400 || (len(payload) > 0 && !env.Success) {
		se := &statusError{code: resp.StatusCode}
		if env.Error != nil {
			se.apiCode = env.Error.Code
			se.message = env.Error.Message
		}
		return se
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode response data: %w", err)
		}
	}
	return nil
}
