package services

import (
	"context"
	"database/sql"
	"strings"
	"sync"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/dbx"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/tasks"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/users"
)

// memStore is an in-memory users + tasks store that counts calls.
type memStore struct {
	mu     sync.Mutex
	users  []*models.User
	tasks  []*models.Task
	calls  map[string]int
	failOn map[string]error
}

func newMemStore() *memStore {
	return &memStore{calls: map[string]int{}, failOn: map[string]error{}}
}

func (m *memStore) hit(name string) error {
	m.calls[name]++
	return m.failOn[name]
}

func (m *memStore) roundTrips() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		n += c
	}
	return n
}

type memUsers struct{ *memStore }

func (r memUsers) Create(_ context.Context, u *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.hit("users.Create"); err != nil {
		return nil, err
	}
	for _, existing := range r.users {
		if existing.UserName == u.UserName {
			return nil, common.ErrorAlreadyExists
		}
	}
	c := *u
	c.ID = int64(len(r.users) + 1)
	r.users = append(r.users, &c)
	u.ID = c.ID
	return u, nil
}

func (r memUsers) GetUserByLogin(_ context.Context, login string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.hit("users.GetUserByLogin"); err != nil {
		return nil, err
	}
	for _, u := range r.users {
		if u.UserName == login {
			c := *u
			return &c, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r memUsers) GetUsersByIDs(_ context.Context, ids []int64) ([]*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.hit("users.GetUsersByIDs"); err != nil {
		return nil, err
	}
	var out []*models.User
	for _, id := range ids {
		for _, u := range r.users {
			if u.ID == id {
				c := *u
				out = append(out, &c)
			}
		}
	}
	return out, nil
}

type memTasks struct{ *memStore }

func (r memTasks) Create(_ context.Context, t *models.Task) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.hit("tasks.Create"); err != nil {
		return nil, err
	}
	c := *t
	c.ID = int64(len(r.tasks) + 1)
	r.tasks = append(r.tasks, &c)
	t.ID = c.ID
	return t, nil
}

func (r memTasks) GetByID(_ context.Context, ownerID, id int64) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.hit("tasks.GetByID"); err != nil {
		return nil, err
	}
	for _, t := range r.tasks {
		if t.ID == id && t.UserID == ownerID {
			c := *t
			return &c, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r memTasks) ListByOwner(_ context.Context, ownerID int64) ([]*models.Task, error) {
	return r.filter("tasks.ListByOwner", ownerID, "")
}

func (r memTasks) SearchByTitle(_ context.Context, ownerID int64, term string) ([]*models.Task, error) {
	return r.filter("tasks.SearchByTitle", ownerID, term)
}

func (r memTasks) filter(call string, ownerID int64, term string) ([]*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.hit(call); err != nil {
		return nil, err
	}
	out := make([]*models.Task, 0)
	for _, t := range r.tasks {
		if t.UserID == ownerID && strings.Contains(strings.ToLower(t.Title), strings.ToLower(term)) {
			c := *t
			out = append(out, &c)
		}
	}
	return out, nil
}

type fakeRepoManager struct {
	store *memStore
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository              { return memUsers{m.store} }
func (m *fakeRepoManager) Tasks(dbx.DBTX) tasks.Repository              { return memTasks{m.store} }
