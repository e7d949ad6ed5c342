package core

import (
	"time"

	"github.com/Joacohbc/gttask/internal/storage"
)

// Storage persists boards, tasks, tags and comments.
// Implementations: storage.Store (SQLite)
type Storage interface {
	CreateBoard(board *storage.BoardRecord) error
	GetBoard(id string) (*storage.BoardRecord, error)
	ListBoards() ([]*storage.BoardRecord, error)
	UpdateBoard(id string, patch storage.BoardPatch, now time.Time) (*storage.BoardRecord, error)
	DeleteBoard(id string) (*storage.BoardRecord, error)

	CreateTask(task *storage.TaskRecord) error
	GetTask(id string, includeRelations bool) (*storage.TaskRecord, error)
	UpdateTask(id string, patch storage.TaskPatch, now time.Time) (*storage.TaskRecord, error)
	DeleteTask(id string) (*storage.TaskRecord, error)

	ListTags() ([]storage.TagRecord, error)

	Close() error
}
