package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/client/models"
	"github.com/dmitrijs2005/taskkeeper/internal/common"
)

// maxErrorBody bounds how much of a failed response is read.
const maxErrorBody = 64 << 10

type HTTPClient struct {
	baseURL    string
	httpClient *http.Client

	mu          sync.RWMutex
	accessToken string
}

func NewTaskKeeperClient(baseURL string, timeout time.Duration) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid server url %q: scheme must be http or https", baseURL)
	}

	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

func (s *HTTPClient) token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

func (s *HTTPClient) setToken(t string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = t
}

// do sends a JSON request and decodes a JSON answer into out (if non-nil).
func (s *HTTPClient) do(ctx context.Context, method, path string, authed bool, in, out any) error {

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		token := s.token()
		if token == "" {
			return ErrNotLoggedIn
		}
		req.Header.Set(common.AuthorizationHeaderName, common.BearerScheme+" "+token)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return s.mapError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (s *HTTPClient) mapError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var payload struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxErrorBody)).Decode(&payload); err == nil {
		apiErr.Message = payload.Error
	}
	return apiErr
}

func (s *HTTPClient) Register(ctx context.Context, username, password, email string) (int64, error) {

	req := map[string]string{"username": username, "password": password, "email": email}

	var resp struct {
		UserID int64 `json:"userId"`
	}
	if err := s.do(ctx, http.MethodPost, "/api/register", false, req, &resp); err != nil {
		return 0, err
	}
	return resp.UserID, nil
}

func (s *HTTPClient) Login(ctx context.Context, username, password string) (*models.User, error) {

	req := map[string]string{"username": username, "password": password}

	var resp struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	if err := s.do(ctx, http.MethodPost, "/api/login", false, req, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, errors.New("login response carries no token")
	}

	s.setToken(resp.Token)
	return &resp.User, nil
}

// Logout forgets the session token.
func (s *HTTPClient) Logout() {
	s.setToken("")
}

func (s *HTTPClient) Ping(ctx context.Context) error {

	var resp struct {
		Status string `json:"status"`
	}
	if err := s.do(ctx, http.MethodGet, "/healthz", false, nil, &resp); err != nil {
		return err
	}
	if resp.Status != "ok" {
		return ErrUnavailable
	}
	return nil
}

func (s *HTTPClient) ListTasks(ctx context.Context) ([]*models.Task, error) {
	var out []*models.Task
	if err := s.do(ctx, http.MethodGet, "/api/tasks", true, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *HTTPClient) GetTask(ctx context.Context, id int64) (*models.Task, error) {
	var out models.Task
	if err := s.do(ctx, http.MethodGet, "/api/tasks/"+strconv.FormatInt(id, 10), true, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *HTTPClient) CreateTask(ctx context.Context, title string, description *string) (int64, error) {

	req := struct {
		Title       string  `json:"title"`
		Description *string `json:"description"`
	}{Title: title, Description: description}

	var resp struct {
		TaskID int64 `json:"taskId"`
	}
	if err := s.do(ctx, http.MethodPost, "/api/tasks", true, req, &resp); err != nil {
		return 0, err
	}
	return resp.TaskID, nil
}

func (s *HTTPClient) SearchTasks(ctx context.Context, term string) ([]*models.Task, error) {
	var out []*models.Task
	path := "/api/search?" + url.Values{"q": {term}}.Encode()
	if err := s.do(ctx, http.MethodGet, path, true, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *HTTPClient) ListTasksWithDetails(ctx context.Context) ([]*models.TaskWithUser, error) {
	var out []*models.TaskWithUser
	if err := s.do(ctx, http.MethodGet, "/api/tasks-with-details", true, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *HTTPClient) ExportTasks(ctx context.Context) (*models.Export, error) {
	var out models.Export
	if err := s.do(ctx, http.MethodPost, "/api/tasks/export", true, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
