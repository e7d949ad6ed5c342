package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Joacohbc/gttask/internal/storage"
)

// ErrNotFound is returned when a referenced board or task does not exist.
var ErrNotFound = storage.ErrNotFound

// ErrInvalidInput is returned when a request fails validation.
var ErrInvalidInput = errors.New("invalid input")

// noParent values on the wire mean "no parent" and are stripped before
// persistence rather than written as an empty foreign key.
const noParentSentinel = "N/A"

// maxParentDepth bounds the ancestor walk during cycle checks, guarding
// against pre-existing corrupt chains.
const maxParentDepth = 64

// Service enforces the CRUD contracts and relationship-integrity rules
// on top of the storage layer: enum validation, date normalization,
// parent sentinel stripping, tag connect-or-create and cycle rejection.
type Service struct {
	store Storage
	now   func() time.Time
	newID func() string
}

// NewService creates a service over the given storage
func NewService(store Storage) *Service {
	return &Service{
		store: store,
		now:   time.Now,
		newID: storage.GenerateID,
	}
}

// Close releases the underlying storage
func (s *Service) Close() error {
	return s.store.Close()
}

// ListBoards returns all boards with their tasks nested
func (s *Service) ListBoards(ctx context.Context) ([]Board, error) {
	records, err := s.store.ListBoards()
	if err != nil {
		return nil, err
	}

	boards := make([]Board, len(records))
	for i, r := range records {
		boards[i] = *boardFromRecord(r)
	}
	return boards, nil
}

// GetBoard retrieves a board and its tasks
func (s *Service) GetBoard(ctx context.Context, id string) (*Board, error) {
	record, err := s.store.GetBoard(id)
	if err != nil {
		return nil, err
	}
	return boardFromRecord(record), nil
}

// CreateBoard creates a board with a server-generated ID unless the
// client supplied one
func (s *Service) CreateBoard(ctx context.Context, input CreateBoardInput) (*Board, error) {
	if input.Title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}

	now := s.now()
	record := &storage.BoardRecord{
		ID:        input.ID,
		Title:     input.Title,
		CreatedAt: now,
		UpdatedAt: now,
		Tasks:     []storage.TaskRecord{},
	}
	if record.ID == "" {
		record.ID = s.newID()
	}

	if err := s.store.CreateBoard(record); err != nil {
		return nil, err
	}
	return boardFromRecord(record), nil
}

// UpdateBoard applies a partial update; only supplied fields change
func (s *Service) UpdateBoard(ctx context.Context, id string, input UpdateBoardInput) (*Board, error) {
	if input.Title != nil && *input.Title == "" {
		return nil, fmt.Errorf("%w: title cannot be empty", ErrInvalidInput)
	}

	record, err := s.store.UpdateBoard(id, storage.BoardPatch{Title: input.Title}, s.now())
	if err != nil {
		return nil, err
	}
	return boardFromRecord(record), nil
}

// DeleteBoard removes a board and all tasks it owns (cascade)
func (s *Service) DeleteBoard(ctx context.Context, id string) (*Board, error) {
	record, err := s.store.DeleteBoard(id)
	if err != nil {
		return nil, err
	}
	return boardFromRecord(record), nil
}

// GetTask retrieves a task with its tags, parent task, subtasks and comments
func (s *Service) GetTask(ctx context.Context, id string) (*Task, error) {
	record, err := s.store.GetTask(id, true)
	if err != nil {
		return nil, err
	}
	return taskFromRecord(record), nil
}

// CreateTask validates and normalizes the input, then creates the task
// with createdAt == updatedAt
func (s *Service) CreateTask(ctx context.Context, input CreateTaskInput) (*Task, error) {
	if input.Title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if input.BoardID == "" {
		return nil, fmt.Errorf("%w: boardId is required", ErrInvalidInput)
	}

	status := input.Status
	if status == "" {
		status = StatusTodo
	}
	if !ValidStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}

	priority := input.Priority
	if priority == "" {
		priority = PriorityMedium
	}
	if !ValidPriority(priority) {
		return nil, fmt.Errorf("%w: unknown priority %q", ErrInvalidInput, priority)
	}

	startDate, err := parseDate(input.StartDate)
	if err != nil {
		return nil, err
	}
	dueDate, err := parseDate(input.DueDate)
	if err != nil {
		return nil, err
	}

	if _, err := s.store.GetBoard(input.BoardID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: board %s does not exist", ErrInvalidInput, input.BoardID)
		}
		return nil, err
	}

	id := input.ID
	if id == "" {
		id = s.newID()
	}

	parentID := normalizeParent(input.ParentID)
	if parentID != "" {
		if err := s.ensureValidParent(id, parentID); err != nil {
			return nil, err
		}
	}

	now := s.now()
	record := &storage.TaskRecord{
		ID:          id,
		BoardID:     input.BoardID,
		Title:       input.Title,
		Description: input.Description,
		Status:      status,
		Priority:    priority,
		StartDate:   startDate,
		DueDate:     dueDate,
		ParentID:    parentID,
		CreatedAt:   now,
		UpdatedAt:   now,
		Tags:        tagRecords(input.Tags, s.newID),
	}

	if err := s.store.CreateTask(record); err != nil {
		return nil, err
	}
	return taskFromRecord(record), nil
}

// UpdateTask applies a partial update; only supplied fields change and
// updatedAt advances
func (s *Service) UpdateTask(ctx context.Context, id string, input UpdateTaskInput) (*Task, error) {
	patch := storage.TaskPatch{
		BoardID:     input.BoardID,
		Title:       input.Title,
		Description: input.Description,
		Status:      input.Status,
		Priority:    input.Priority,
	}

	if input.Title != nil && *input.Title == "" {
		return nil, fmt.Errorf("%w: title cannot be empty", ErrInvalidInput)
	}
	if input.Status != nil && !ValidStatus(*input.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *input.Status)
	}
	if input.Priority != nil && !ValidPriority(*input.Priority) {
		return nil, fmt.Errorf("%w: unknown priority %q", ErrInvalidInput, *input.Priority)
	}

	if input.BoardID != nil {
		if _, err := s.store.GetBoard(*input.BoardID); err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil, fmt.Errorf("%w: board %s does not exist", ErrInvalidInput, *input.BoardID)
			}
			return nil, err
		}
	}

	if input.StartDate != nil {
		t, err := parseDate(*input.StartDate)
		if err != nil {
			return nil, err
		}
		patch.StartDate = t
	}
	if input.DueDate != nil {
		t, err := parseDate(*input.DueDate)
		if err != nil {
			return nil, err
		}
		patch.DueDate = t
	}

	if input.ParentID != nil {
		if parentID := normalizeParent(*input.ParentID); parentID != "" {
			if err := s.ensureValidParent(id, parentID); err != nil {
				return nil, err
			}
			patch.ParentID = &parentID
		}
	}

	if input.Tags != nil {
		records := tagRecords(*input.Tags, s.newID)
		patch.Tags = &records
	}

	record, err := s.store.UpdateTask(id, patch, s.now())
	if err != nil {
		return nil, err
	}
	return taskFromRecord(record), nil
}

// DeleteTask removes a task; its tags remain for reuse
func (s *Service) DeleteTask(ctx context.Context, id string) (*Task, error) {
	record, err := s.store.DeleteTask(id)
	if err != nil {
		return nil, err
	}
	return taskFromRecord(record), nil
}

// ListTags returns all tags ordered by name ascending
func (s *Service) ListTags(ctx context.Context) ([]Tag, error) {
	records, err := s.store.ListTags()
	if err != nil {
		return nil, err
	}

	tags := make([]Tag, len(records))
	for i, r := range records {
		tags[i] = tagFromRecord(&r)
	}
	return tags, nil
}

// ensureValidParent rejects self-references, dangling parents and parent
// chains that lead back to the task being written
func (s *Service) ensureValidParent(taskID, parentID string) error {
	if parentID == taskID {
		return fmt.Errorf("%w: task cannot be its own parent", ErrInvalidInput)
	}

	current := parentID
	for depth := 0; depth < maxParentDepth; depth++ {
		record, err := s.store.GetTask(current, false)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return fmt.Errorf("%w: parent task %s does not exist", ErrInvalidInput, current)
			}
			return err
		}
		if record.ParentID == "" {
			return nil
		}
		if record.ParentID == taskID {
			return fmt.Errorf("%w: parent chain forms a cycle", ErrInvalidInput)
		}
		current = record.ParentID
	}
	return fmt.Errorf("%w: parent chain too deep", ErrInvalidInput)
}

// normalizeParent strips the "no parent" sentinels
func normalizeParent(parentID string) string {
	if parentID == noParentSentinel || parentID == "" {
		return ""
	}
	return parentID
}

// parseDate accepts YYYY-MM-DD wire dates and passes through values
// already in the store's native representation (RFC 3339).
func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		t = t.UTC()
		return &t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}
	return nil, fmt.Errorf("%w: invalid date %q, want YYYY-MM-DD", ErrInvalidInput, value)
}

// tagRecords converts tag inputs, generating IDs for tags that lack one
func tagRecords(inputs []TagInput, newID func() string) []storage.TagRecord {
	records := make([]storage.TagRecord, len(inputs))
	for i, in := range inputs {
		id := in.ID
		if id == "" {
			id = newID()
		}
		records[i] = storage.TagRecord{ID: id, Name: in.Name, Color: in.Color}
	}
	return records
}

// Type conversion helpers

func boardFromRecord(r *storage.BoardRecord) *Board {
	tasks := make([]Task, len(r.Tasks))
	for i := range r.Tasks {
		tasks[i] = *taskFromRecord(&r.Tasks[i])
	}
	return &Board{
		ID:        r.ID,
		Title:     r.Title,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
		Tasks:     tasks,
	}
}

func taskFromRecord(r *storage.TaskRecord) *Task {
	task := &Task{
		ID:          r.ID,
		BoardID:     r.BoardID,
		Title:       r.Title,
		Description: r.Description,
		Status:      r.Status,
		Priority:    r.Priority,
		StartDate:   r.StartDate,
		DueDate:     r.DueDate,
		ParentID:    r.ParentID,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}

	for _, tag := range r.Tags {
		task.Tags = append(task.Tags, tagFromRecord(&tag))
	}
	if r.Parent != nil {
		task.ParentTask = taskFromRecord(r.Parent)
	}
	for i := range r.Subtasks {
		task.Subtasks = append(task.Subtasks, *taskFromRecord(&r.Subtasks[i]))
	}
	for _, c := range r.Comments {
		task.Comments = append(task.Comments, Comment{
			ID:        c.ID,
			TaskID:    c.TaskID,
			UserID:    c.UserID,
			Content:   c.Content,
			ParentID:  c.ParentID,
			CreatedAt: c.CreatedAt,
			UpdatedAt: c.UpdatedAt,
		})
	}

	return task
}

func tagFromRecord(r *storage.TagRecord) Tag {
	return Tag{ID: r.ID, Name: r.Name, Color: r.Color}
}
