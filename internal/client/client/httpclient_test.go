package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI is a minimal stand-in for the TaskKeeper server.
type fakeAPI struct {
	lastAuth   string
	lastBody   map[string]any
	lastQuery  string
	lastMethod string
	lastPath   string
}

func (f *fakeAPI) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()

	record := func(r *http.Request) {
		f.lastAuth = r.Header.Get("Authorization")
		f.lastMethod = r.Method
		f.lastPath = r.URL.Path
		f.lastQuery = r.URL.Query().Get("q")
		f.lastBody = nil
		if b, _ := io.ReadAll(r.Body); len(b) > 0 {
			require.NoError(t, json.Unmarshal(b, &f.lastBody))
		}
	}
	writeJSON := func(w http.ResponseWriter, status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}
	requireToken := func(w http.ResponseWriter, r *http.Request) bool {
		if r.Header.Get("Authorization") != "Bearer tok-1" {
			writeJSON(w, http.StatusForbidden, map[string]string{"error": "Invalid token"})
			return false
		}
		return true
	}

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("POST /api/register", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		if f.lastBody["username"] == "taken" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Username already exists"})
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"message": "User created successfully", "userId": 9})
	})
	mux.HandleFunc("POST /api/login", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		if f.lastBody["password"] != "pw" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid credentials"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"token": "tok-1", "user": map[string]any{"id": 9, "username": f.lastBody["username"]}})
	})
	mux.HandleFunc("GET /api/tasks", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		if requireToken(w, r) {
			writeJSON(w, http.StatusOK, []map[string]any{{"id": 1, "title": "Buy milk", "status": "pending", "user_id": 9}})
		}
	})
	mux.HandleFunc("POST /api/tasks", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		if requireToken(w, r) {
			writeJSON(w, http.StatusCreated, map[string]any{"message": "Task created successfully", "taskId": 5})
		}
	})
	mux.HandleFunc("GET /api/tasks/{id}", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		if !requireToken(w, r) {
			return
		}
		if r.PathValue("id") != "1" {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Task not found"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"id": 1, "title": "Buy milk", "status": "pending"})
	})
	mux.HandleFunc("POST /api/tasks/export", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		if requireToken(w, r) {
			writeJSON(w, http.StatusCreated, map[string]any{"key": "users/9/exports/a.json", "url": "https://s3/a"})
		}
	})
	mux.HandleFunc("GET /api/search", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		if requireToken(w, r) {
			writeJSON(w, http.StatusOK, []map[string]any{})
		}
	})
	mux.HandleFunc("GET /api/tasks-with-details", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		if requireToken(w, r) {
			writeJSON(w, http.StatusOK, []map[string]any{{"id": 1, "title": "Buy milk", "user": map[string]any{"id": 9, "username": "alice"}}})
		}
	})
	return mux
}

func newTestClient(t *testing.T) (*HTTPClient, *fakeAPI) {
	t.Helper()
	api := &fakeAPI{}
	srv := httptest.NewServer(api.handler(t))
	t.Cleanup(srv.Close)

	c, err := NewTaskKeeperClient(srv.URL+"/", time.Second)
	require.NoError(t, err)
	return c, api
}

func TestNewTaskKeeperClient_InvalidURL(t *testing.T) {
	for _, u := range []string{"127.0.0.1:3000", "ftp://host", "://bad"} {
		_, err := NewTaskKeeperClient(u, time.Second)
		assert.Error(t, err, u)
	}
}

func TestRegister(t *testing.T) {
	c, api := newTestClient(t)
	ctx := context.Background()

	id, err := c.Register(ctx, "alice", "pw", "a@x.io")
	require.NoError(t, err)
	assert.Equal(t, int64(9), id)
	assert.Equal(t, map[string]any{"username": "alice", "password": "pw", "email": "a@x.io"}, api.lastBody)
	assert.Empty(t, api.lastAuth)

	_, err = c.Register(ctx, "taken", "pw", "")
	require.ErrorIs(t, err, ErrBadRequest)
	assert.Equal(t, "Username already exists", err.Error())
}

func TestLogin_StoresToken(t *testing.T) {
	c, api := newTestClient(t)
	ctx := context.Background()

	_, err := c.ListTasks(ctx)
	require.ErrorIs(t, err, ErrNotLoggedIn)

	_, err = c.Login(ctx, "alice", "wrong")
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, "Invalid credentials", err.Error())

	u, err := c.Login(ctx, "alice", "pw")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.UserName)

	tasks, err := c.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Buy milk", tasks[0].Title)
	assert.Equal(t, "Bearer tok-1", api.lastAuth)

	c.Logout()
	_, err = c.ListTasks(ctx)
	require.ErrorIs(t, err, ErrNotLoggedIn)
}

func TestTaskCalls(t *testing.T) {
	c, api := newTestClient(t)
	ctx := context.Background()
	_, err := c.Login(ctx, "alice", "pw")
	require.NoError(t, err)

	desc := "2L"
	id, err := c.CreateTask(ctx, "Buy milk", &desc)
	require.NoError(t, err)
	assert.Equal(t, int64(5), id)
	assert.Equal(t, map[string]any{"title": "Buy milk", "description": "2L"}, api.lastBody)

	task, err := c.GetTask(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", task.Title)

	_, err = c.GetTask(ctx, 2)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = c.SearchTasks(ctx, "milk & 100%")
	require.NoError(t, err)
	assert.Equal(t, "milk & 100%", api.lastQuery)

	details, err := c.ListTasksWithDetails(ctx)
	require.NoError(t, err)
	require.Len(t, details, 1)
	assert.Equal(t, "alice", details[0].User.UserName)

	exp, err := c.ExportTasks(ctx)
	require.NoError(t, err)
	assert.Equal(t, "users/9/exports/a.json", exp.Key)
	assert.Equal(t, http.MethodPost, api.lastMethod)
}

func TestInvalidTokenIsUnauthorized(t *testing.T) {
	c, _ := newTestClient(t)
	c.setToken("stale")

	_, err := c.ListTasks(context.Background())
	require.ErrorIs(t, err, ErrUnauthorized)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
}

func TestPing(t *testing.T) {
	c, _ := newTestClient(t)
	require.NoError(t, c.Ping(context.Background()))

	down, err := NewTaskKeeperClient("http://127.0.0.1:1", 200*time.Millisecond)
	require.NoError(t, err)
	assert.ErrorIs(t, down.Ping(context.Background()), ErrUnavailable)
}

func TestAPIError_Message(t *testing.T) {
	assert.Equal(t, "Not Found", (&APIError{StatusCode: http.StatusNotFound}).Error())
	assert.Equal(t, "Task not found", (&APIError{StatusCode: http.StatusNotFound, Message: "Task not found"}).Error())
	assert.ErrorIs(t, &APIError{StatusCode: http.StatusServiceUnavailable}, ErrUnavailable)
	assert.False(t, errors.Is(&APIError{StatusCode: http.StatusInternalServerError}, ErrNotFound))
}
