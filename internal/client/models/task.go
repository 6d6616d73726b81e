// Package models defines the API payloads the CLI reads from the server.
package models

import (
	"fmt"
	"strings"
	"time"
)

// User is the public profile returned by the server.
type User struct {
	ID       int64  `json:"id"`
	UserName string `json:"username"`
	Email    string `json:"email,omitempty"`
}

// Task is a to-do item as returned by the API.
type Task struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Status      string    `json:"status"`
	UserID      int64     `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// String renders a one-line summary for listings.
func (t *Task) String() string {
	return fmt.Sprintf("#%d [%s] %s", t.ID, t.Status, t.Title)
}

// Details renders every field, one per line.
func (t *Task) Details() string {
	var b strings.Builder
	fmt.Fprintf(&b, "ID: %d\n", t.ID)
	fmt.Fprintf(&b, "Title: %s\n", t.Title)
	if t.Description != nil && *t.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", *t.Description)
	}
	fmt.Fprintf(&b, "Status: %s\n", t.Status)
	if !t.CreatedAt.IsZero() {
		fmt.Fprintf(&b, "Created: %s\n", t.CreatedAt.Local().Format(time.DateTime))
	}
	return b.String()
}

// TaskWithUser is a task joined with its owner's profile.
type TaskWithUser struct {
	Task
	User User `json:"user"`
}

// String renders a one-line summary including the owner.
func (t *TaskWithUser) String() string {
	return fmt.Sprintf("%s (by %s)", t.Task.String(), t.User.UserName)
}

// Export identifies an uploaded export.
type Export struct {
	Key string `json:"key"`
	URL string `json:"url"`
}
