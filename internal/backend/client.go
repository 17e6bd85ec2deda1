// Package backend is the HTTP client for the leaderboard backend API.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"leetcoders.uz/directory/internal/model"
	"leetcoders.uz/directory/pkg/apperror"
)

// Client talks to the backend's get-users and add-user endpoints.
//
// Errors:
//   - transport failures wrap apperror.ErrTransport;
//   - non-2xx responses are *apperror.AppError wrapping apperror.ErrBackend,
//     carrying the status and the server's "message" field when present;
//   - success bodies that are not JSON, or a get-users body without a
//     users array, are *apperror.AppError wrapping apperror.ErrMalformedPayload.
//
// AddUser returns a nil user when a valid JSON success body carries no
// recognisable record.
type Client interface {
	GetUsers(ctx context.Context, country string, page, limit int) (*model.UsersPage, error)
	AddUser(ctx context.Context, username string) (*model.User, error)
}

type httpClient struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for baseURL, e.g. https://backend.leetcoders.uz/api/v1.
// A zero timeout means requests are never cut short by the client.
func NewClient(baseURL string, timeout time.Duration) Client {
	return &httpClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

type usersEnvelope struct {
	Users      json.RawMessage `json:"users"`
	TotalCount json.RawMessage `json:"total_count"`
	Page       json.RawMessage `json:"page"`
	Limit      json.RawMessage `json:"limit"`
}

type messageEnvelope struct {
	Message string `json:"message"`
}

func (c *httpClient) GetUsers(ctx context.Context, country string, page, limit int) (*model.UsersPage, error) {
	q := url.Values{}
	q.Set("country", country)
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/get-users?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build get-users request: %w", err)
	}

	status, body, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 {
		return nil, apperror.New(status, fmt.Sprintf("API Error: %d %s", status, http.StatusText(status)), apperror.ErrBackend)
	}

	var env usersEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, apperror.New(status, "", fmt.Errorf("%w: %v", apperror.ErrMalformedPayload, err))
	}
	if !isJSONArray(env.Users) {
		return nil, apperror.New(status, "", fmt.Errorf("%w: users is not an array", apperror.ErrMalformedPayload))
	}

	var items []json.RawMessage
	if err := json.Unmarshal(env.Users, &items); err != nil {
		return nil, apperror.New(status, "", fmt.Errorf("%w: %v", apperror.ErrMalformedPayload, err))
	}

	users := make([]model.User, 0, len(items))
	for i, item := range items {
		var u model.User
		if err := json.Unmarshal(item, &u); err != nil {
			log.Printf("skipping users[%d] from get-users: %v", i, err)
			continue
		}
		users = append(users, u)
	}

	return &model.UsersPage{
		Users:      users,
		TotalCount: model.LooseInt(env.TotalCount),
		Page:       model.LooseInt(env.Page),
		Limit:      model.LooseInt(env.Limit),
	}, nil
}

func (c *httpClient) AddUser(ctx context.Context, username string) (*model.User, error) {
	payload, err := json.Marshal(map[string]string{"username": username})
	if err != nil {
		return nil, fmt.Errorf("encode add-user body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/add-user", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build add-user request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	status, body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	if status < 200 || status > 299 {
		var msg messageEnvelope
		_ = json.Unmarshal(body, &msg)
		return nil, apperror.New(status, msg.Message, apperror.ErrBackend)
	}

	if !json.Valid(body) {
		return nil, apperror.New(status, "", fmt.Errorf("%w: add-user body is not JSON", apperror.ErrMalformedPayload))
	}
	return decodeCreatedUser(body), nil
}

func (c *httpClient) do(req *http.Request) (int, []byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", apperror.ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: read body: %v", apperror.ErrTransport, err)
	}
	return resp.StatusCode, body, nil
}

// decodeCreatedUser accepts both {"user": {...}} and a bare user object.
// It returns nil when the body holds no recognisable record.
func decodeCreatedUser(body []byte) *model.User {
	var nested struct {
		User json.RawMessage `json:"user"`
	}
	raw := json.RawMessage(body)
	if err := json.Unmarshal(body, &nested); err == nil && isJSONObject(nested.User) {
		raw = nested.User
	}

	var user model.User
	if err := json.Unmarshal(raw, &user); err != nil || user.IsZero() {
		return nil
	}
	return &user
}

func isJSONArray(raw json.RawMessage) bool {
	return bytes.HasPrefix(bytes.TrimSpace(raw), []byte("["))
}

func isJSONObject(raw json.RawMessage) bool {
	return bytes.HasPrefix(bytes.TrimSpace(raw), []byte("{"))
}

