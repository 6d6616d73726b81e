package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTask_String(t *testing.T) {
	task := &Task{ID: 3, Title: "Buy milk", Status: "pending"}
	assert.Equal(t, "#3 [pending] Buy milk", task.String())

	tw := &TaskWithUser{Task: *task, User: User{ID: 1, UserName: "alice"}}
	assert.Equal(t, "#3 [pending] Buy milk (by alice)", tw.String())
}

func TestTask_Details(t *testing.T) {
	desc := "2L"
	task := &Task{ID: 3, Title: "Buy milk", Description: &desc, Status: "pending", CreatedAt: time.Now()}

	got := task.Details()
	assert.Contains(t, got, "Title: Buy milk\n")
	assert.Contains(t, got, "Description: 2L\n")
	assert.Contains(t, got, "Created: ")

	task.Description = nil
	task.CreatedAt = time.Time{}
	got = task.Details()
	assert.NotContains(t, got, "Description")
	assert.NotContains(t, got, "Created")
}
