package core

import (
	"time"
)

// Task status constants
const (
	StatusTodo       = "todo"
	StatusInProgress = "in-progress"
	StatusBlocked    = "blocked"
	StatusOnHold     = "on-hold"
	StatusReview     = "review"
	StatusTesting    = "testing"
	StatusDone       = "done"
	StatusAchieved   = "achieved"
)

// Task priority constants
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// ValidStatus reports whether s is one of the closed set of task statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusBlocked, StatusOnHold,
		StatusReview, StatusTesting, StatusDone, StatusAchieved:
		return true
	}
	return false
}

// ValidPriority reports whether p is one of the closed set of priorities.
func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Board is a named collection of tasks
type Board struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Tasks     []Task    `json:"tasks"`
}

// Task is a unit of work owned by exactly one board
type Task struct {
	ID          string     `json:"id"`
	BoardID     string     `json:"boardId"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`   // todo, in-progress, blocked, on-hold, review, testing, done, achieved
	Priority    string     `json:"priority"` // low, medium, high
	StartDate   *time.Time `json:"startDate,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	ParentID    string     `json:"parentId,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	Tags        []Tag      `json:"tags,omitempty"`
	ParentTask  *Task      `json:"parentTask,omitempty"`
	Subtasks    []Task     `json:"subtasks,omitempty"`
	Comments    []Comment  `json:"comments,omitempty"`
}

// Tag is a named, colored label shared across tasks
type Tag struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"` // CSS hex string
}

// Comment is a note on a task, with one level of threaded replies
type Comment struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"taskId"`
	UserID    string    `json:"userId"`
	Content   string    `json:"content"`
	ParentID  string    `json:"parentId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateBoardInput is the payload for creating a board
type CreateBoardInput struct {
	ID    string `json:"id,omitempty"`
	Title string `json:"title"`
}

// UpdateBoardInput is a partial patch; only supplied fields change
type UpdateBoardInput struct {
	Title *string `json:"title,omitempty"`
}

// TagInput is a tag reference on a task write. Connect-or-create by ID:
// an existing row is linked, a missing one is created.
type TagInput struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// CreateTaskInput is the payload for creating a task.
// Dates are YYYY-MM-DD strings on the wire.
type CreateTaskInput struct {
	ID          string     `json:"id,omitempty"`
	BoardID     string     `json:"boardId"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	StartDate   string     `json:"startDate,omitempty"`
	DueDate     string     `json:"dueDate,omitempty"`
	ParentID    string     `json:"parentId,omitempty"`
	Tags        []TagInput `json:"tags,omitempty"`
}

// UpdateTaskInput is a partial patch; only supplied fields change.
// The literal parent values "N/A" and "" mean "no parent" and are dropped.
type UpdateTaskInput struct {
	BoardID     *string     `json:"boardId,omitempty"`
	Title       *string     `json:"title,omitempty"`
	Description *string     `json:"description,omitempty"`
	Status      *string     `json:"status,omitempty"`
	Priority    *string     `json:"priority,omitempty"`
	StartDate   *string     `json:"startDate,omitempty"`
	DueDate     *string     `json:"dueDate,omitempty"`
	ParentID    *string     `json:"parentId,omitempty"`
	Tags        *[]TagInput `json:"tags,omitempty"`
}
