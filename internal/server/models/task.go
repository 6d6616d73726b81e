package models

import "time"

// Task is a to-do item owned by exactly one user.
type Task struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Status      string    `json:"status"`
	UserID      int64     `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// TaskWithUser is a task joined with the public profile of its owner.
type TaskWithUser struct {
	Task
	User PublicUser `json:"user"`
}
