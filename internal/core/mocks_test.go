package core

import (
	"errors"
	"time"

	"github.com/Joacohbc/gttask/internal/storage"
)

// Common test errors
var ErrMockStorage = errors.New("mock storage error")

// MockStorage implements Storage for testing. Unset function fields fall
// back to permissive defaults; calls are captured for assertions.
type MockStorage struct {
	CreateBoardFunc func(board *storage.BoardRecord) error
	GetBoardFunc    func(id string) (*storage.BoardRecord, error)
	ListBoardsFunc  func() ([]*storage.BoardRecord, error)
	UpdateBoardFunc func(id string, patch storage.BoardPatch, now time.Time) (*storage.BoardRecord, error)
	DeleteBoardFunc func(id string) (*storage.BoardRecord, error)
	CreateTaskFunc  func(task *storage.TaskRecord) error
	GetTaskFunc     func(id string, includeRelations bool) (*storage.TaskRecord, error)
	UpdateTaskFunc  func(id string, patch storage.TaskPatch, now time.Time) (*storage.TaskRecord, error)
	DeleteTaskFunc  func(id string) (*storage.TaskRecord, error)
	ListTagsFunc    func() ([]storage.TagRecord, error)

	CreatedBoards []*storage.BoardRecord
	CreatedTasks  []*storage.TaskRecord
	LastTaskPatch *storage.TaskPatch
	LastUpdateAt  time.Time
	Closed        bool
}

func (m *MockStorage) CreateBoard(board *storage.BoardRecord) error {
	m.CreatedBoards = append(m.CreatedBoards, board)
	if m.CreateBoardFunc != nil {
		return m.CreateBoardFunc(board)
	}
	return nil
}

func (m *MockStorage) GetBoard(id string) (*storage.BoardRecord, error) {
	if m.GetBoardFunc != nil {
		return m.GetBoardFunc(id)
	}
	return &storage.BoardRecord{ID: id, Title: "Board " + id, Tasks: []storage.TaskRecord{}}, nil
}

func (m *MockStorage) ListBoards() ([]*storage.BoardRecord, error) {
	if m.ListBoardsFunc != nil {
		return m.ListBoardsFunc()
	}
	return nil, nil
}

func (m *MockStorage) UpdateBoard(id string, patch storage.BoardPatch, now time.Time) (*storage.BoardRecord, error) {
	if m.UpdateBoardFunc != nil {
		return m.UpdateBoardFunc(id, patch, now)
	}
	return &storage.BoardRecord{ID: id, Tasks: []storage.TaskRecord{}}, nil
}

func (m *MockStorage) DeleteBoard(id string) (*storage.BoardRecord, error) {
	if m.DeleteBoardFunc != nil {
		return m.DeleteBoardFunc(id)
	}
	return &storage.BoardRecord{ID: id, Tasks: []storage.TaskRecord{}}, nil
}

func (m *MockStorage) CreateTask(task *storage.TaskRecord) error {
	m.CreatedTasks = append(m.CreatedTasks, task)
	if m.CreateTaskFunc != nil {
		return m.CreateTaskFunc(task)
	}
	return nil
}

func (m *MockStorage) GetTask(id string, includeRelations bool) (*storage.TaskRecord, error) {
	if m.GetTaskFunc != nil {
		return m.GetTaskFunc(id, includeRelations)
	}
	return nil, storage.ErrNotFound
}

func (m *MockStorage) UpdateTask(id string, patch storage.TaskPatch, now time.Time) (*storage.TaskRecord, error) {
	m.LastTaskPatch = &patch
	m.LastUpdateAt = now
	if m.UpdateTaskFunc != nil {
		return m.UpdateTaskFunc(id, patch, now)
	}
	return &storage.TaskRecord{ID: id}, nil
}

func (m *MockStorage) DeleteTask(id string) (*storage.TaskRecord, error) {
	if m.DeleteTaskFunc != nil {
		return m.DeleteTaskFunc(id)
	}
	return &storage.TaskRecord{ID: id}, nil
}

func (m *MockStorage) ListTags() ([]storage.TagRecord, error) {
	if m.ListTagsFunc != nil {
		return m.ListTagsFunc()
	}
	return nil, nil
}

func (m *MockStorage) Close() error {
	m.Closed = true
	return nil
}
