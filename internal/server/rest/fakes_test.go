package rest

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/server/auth"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/dmitrijs2005/taskkeeper/internal/server/services"
)

var errBoom = errors.New("boom: connection reset by peer")

type fakeUsers struct {
	registerErr error
	loginErr    error
}

func (f *fakeUsers) Register(_ context.Context, username, _, email string) (*models.User, error) {
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	return &models.User{ID: 7, UserName: username, Email: email}, nil
}

func (f *fakeUsers) Login(_ context.Context, username, _ string) (*services.LoginResult, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &services.LoginResult{Token: "tok", User: models.PublicUser{ID: 7, UserName: username}}, nil
}

// fakeTasks records the owner of every call.
type fakeTasks struct {
	mu     sync.Mutex
	owners []int64
	term   string
	err    error
	tasks  []*models.Task
}

func (f *fakeTasks) seen(ownerID int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.owners = append(f.owners, ownerID)
}

func (f *fakeTasks) List(_ context.Context, ownerID int64) ([]*models.Task, error) {
	f.seen(ownerID)
	return f.tasks, f.err
}

func (f *fakeTasks) Get(_ context.Context, ownerID, id int64) (*models.Task, error) {
	f.seen(ownerID)
	if f.err != nil {
		return nil, f.err
	}
	for _, t := range f.tasks {
		if t.ID == id && t.UserID == ownerID {
			return t, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeTasks) Create(_ context.Context, ownerID int64, title string, description *string) (*models.Task, error) {
	f.seen(ownerID)
	if f.err != nil {
		return nil, f.err
	}
	if title == "" {
		return nil, common.NewValidationError("title", "Title is required")
	}
	return &models.Task{ID: 42, Title: title, Description: description, UserID: ownerID}, nil
}

func (f *fakeTasks) Search(_ context.Context, ownerID int64, term string) ([]*models.Task, error) {
	f.seen(ownerID)
	f.term = term
	return f.tasks, f.err
}

func (f *fakeTasks) ListWithDetails(_ context.Context, ownerID int64) ([]*models.TaskWithUser, error) {
	f.seen(ownerID)
	if f.err != nil {
		return nil, f.err
	}
	out := make([]*models.TaskWithUser, 0, len(f.tasks))
	for _, t := range f.tasks {
		out = append(out, &models.TaskWithUser{Task: *t, User: models.PublicUser{ID: t.UserID, UserName: "alice"}})
	}
	return out, nil
}

func (f *fakeTasks) Export(_ context.Context, ownerID int64) (*services.ExportResult, error) {
	f.seen(ownerID)
	if f.err != nil {
		return nil, f.err
	}
	return &services.ExportResult{Key: "users/1/exports/x.json", URL: "https://example.test/x"}, nil
}

// fakeVerifier accepts "good-<id>" tokens.
type fakeVerifier struct{}

func (fakeVerifier) Verify(token string) (auth.SessionClaims, error) {
	switch token {
	case "good-1":
		return auth.SessionClaims{UserID: 1, Username: "alice"}, nil
	case "good-2":
		return auth.SessionClaims{UserID: 2, Username: "bob"}, nil
	case "expired":
		return auth.SessionClaims{}, errors.Join(common.ErrInvalidToken, common.ErrTokenExpired)
	default:
		return auth.SessionClaims{}, common.ErrInvalidToken
	}
}

type fakePinger struct{ err error }

func (p fakePinger) PingContext(context.Context) error { return p.err }
