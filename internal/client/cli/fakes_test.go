package cli

import (
	"bufio"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/dmitrijs2005/taskkeeper/internal/client/models"
)

type fakeAPI struct {
	// Register / Login
	regUser, regPass, regEmail string
	regErr                     error
	loginUser, loginPass       string
	loginErr                   error
	loggedOut                  bool

	// Ping
	pingErr error

	// Tasks
	tasks      []*models.Task
	details    []*models.TaskWithUser
	created    *models.Task
	getID      int64
	searchTerm string
	export     *models.Export
	taskErr    error
}

func (f *fakeAPI) Register(_ context.Context, username, password, email string) (int64, error) {
	f.regUser, f.regPass, f.regEmail = username, password, email
	return 11, f.regErr
}

func (f *fakeAPI) Login(_ context.Context, username, password string) (*models.User, error) {
	f.loginUser, f.loginPass = username, password
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &models.User{ID: 11, UserName: username}, nil
}

func (f *fakeAPI) Logout()                    { f.loggedOut = true }
func (f *fakeAPI) Ping(context.Context) error { return f.pingErr }

func (f *fakeAPI) ListTasks(context.Context) ([]*models.Task, error) {
	return f.tasks, f.taskErr
}

func (f *fakeAPI) GetTask(_ context.Context, id int64) (*models.Task, error) {
	f.getID = id
	if f.taskErr != nil {
		return nil, f.taskErr
	}
	return &models.Task{ID: id, Title: "found", Status: "pending"}, nil
}

func (f *fakeAPI) CreateTask(_ context.Context, title string, description *string) (int64, error) {
	f.created = &models.Task{Title: title, Description: description}
	return 21, f.taskErr
}

func (f *fakeAPI) SearchTasks(_ context.Context, term string) ([]*models.Task, error) {
	f.searchTerm = term
	return f.tasks, f.taskErr
}

func (f *fakeAPI) ListTasksWithDetails(context.Context) ([]*models.TaskWithUser, error) {
	return f.details, f.taskErr
}

func (f *fakeAPI) ExportTasks(context.Context) (*models.Export, error) {
	if f.taskErr != nil {
		return nil, f.taskErr
	}
	return f.export, nil
}

func readerFromLines(lines ...string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(strings.Join(lines, "\n") + "\n"))
}

// captureOutput replaces printlnFn and returns everything printed.
func captureOutput(t *testing.T) *strings.Builder {
	t.Helper()
	var out strings.Builder
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		for i, v := range a {
			if i > 0 {
				out.WriteString(" ")
			}
			out.WriteString(toString(v))
		}
		out.WriteString("\n")
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &out
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	if s, ok := v.(interface{ String() string }); ok {
		return s.String()
	}
	return ""
}

func bufioFrom(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}

// stubInputs answers single-line prompts from texts in order and every
// password prompt with password.
func stubInputs(t *testing.T, texts []string, password string) {
	t.Helper()
	origReq, origOpt, origSecret := promptRequired, promptOptional, promptSecret
	i := 0
	next := func(*bufio.Reader, io.Writer, string) (string, error) {
		if i >= len(texts) {
			return "", io.EOF
		}
		s := texts[i]
		i++
		return s, nil
	}
	promptRequired, promptOptional = next, next
	promptSecret = func(*bufio.Reader, io.Writer, string) (string, error) { return password, nil }
	t.Cleanup(func() {
		promptRequired, promptOptional, promptSecret = origReq, origOpt, origSecret
	})
}

func stubParagraph(t *testing.T, text *string) {
	t.Helper()
	orig := promptParagraph
	promptParagraph = func(*bufio.Reader, io.Writer, string) (*string, error) { return text, nil }
	t.Cleanup(func() { promptParagraph = orig })
}
