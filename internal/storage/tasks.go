package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

const taskColumns = `SELECT id, board_id, title, description, status, priority,
	start_date, due_date, parent_id, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*TaskRecord, error) {
	var task TaskRecord
	var startDate, dueDate sql.NullTime
	var parentID sql.NullString

	err := row.Scan(&task.ID, &task.BoardID, &task.Title, &task.Description,
		&task.Status, &task.Priority, &startDate, &dueDate, &parentID,
		&task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if startDate.Valid {
		task.StartDate = &startDate.Time
	}
	if dueDate.Valid {
		task.DueDate = &dueDate.Time
	}
	if parentID.Valid {
		task.ParentID = parentID.String
	}

	return &task, nil
}

// CreateTask inserts a task row and links its tags in one transaction
func (s *Store) CreateTask(task *TaskRecord) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var parentID any
	if task.ParentID != "" {
		parentID = task.ParentID
	}

	_, err = tx.Exec(`
		INSERT INTO tasks (id, board_id, title, description, status, priority,
			start_date, due_date, parent_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, task.ID, task.BoardID, task.Title, task.Description, task.Status,
		task.Priority, nullableTime(task.StartDate), nullableTime(task.DueDate),
		parentID, task.CreatedAt, task.UpdatedAt)
	if err != nil {
		return err
	}

	if err := replaceTaskTags(tx, task.ID, task.Tags); err != nil {
		return err
	}

	return tx.Commit()
}

// GetTask retrieves a task by ID. When includeRelations is set, the record
// carries its tags, parent task, subtasks and comments.
func (s *Store) GetTask(id string, includeRelations bool) (*TaskRecord, error) {
	task, err := scanTask(s.db.QueryRow(taskColumns+` FROM tasks WHERE id = ?`, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("task %s: %w", id, ErrNotFound)
		}
		return nil, err
	}

	if !includeRelations {
		return task, nil
	}

	if task.Tags, err = s.listTaskTags(id); err != nil {
		return nil, err
	}

	if task.ParentID != "" {
		parent, err := scanTask(s.db.QueryRow(taskColumns+` FROM tasks WHERE id = ?`, task.ParentID))
		if err != nil && err != sql.ErrNoRows {
			return nil, err
		}
		if err == nil {
			task.Parent = parent
		}
	}

	subRows, err := s.db.Query(taskColumns+` FROM tasks WHERE parent_id = ? ORDER BY created_at ASC`, id)
	if err != nil {
		return nil, err
	}
	defer subRows.Close()
	for subRows.Next() {
		sub, err := scanTask(subRows)
		if err != nil {
			return nil, err
		}
		task.Subtasks = append(task.Subtasks, *sub)
	}
	if err := subRows.Err(); err != nil {
		return nil, err
	}

	if task.Comments, err = s.ListTaskComments(id); err != nil {
		return nil, err
	}

	return task, nil
}

// UpdateTask applies a partial update and returns the updated task
func (s *Store) UpdateTask(id string, patch TaskPatch, now time.Time) (*TaskRecord, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	sets := []string{"updated_at = ?"}
	args := []any{now}

	if patch.BoardID != nil {
		sets = append(sets, "board_id = ?")
		args = append(args, *patch.BoardID)
	}
	if patch.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *patch.Title)
	}
	if patch.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *patch.Description)
	}
	if patch.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, *patch.Status)
	}
	if patch.Priority != nil {
		sets = append(sets, "priority = ?")
		args = append(args, *patch.Priority)
	}
	if patch.StartDate != nil {
		sets = append(sets, "start_date = ?")
		args = append(args, *patch.StartDate)
	}
	if patch.DueDate != nil {
		sets = append(sets, "due_date = ?")
		args = append(args, *patch.DueDate)
	}
	if patch.ParentID != nil {
		sets = append(sets, "parent_id = ?")
		args = append(args, *patch.ParentID)
	}
	args = append(args, id)

	result, err := tx.Exec("UPDATE tasks SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return nil, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, fmt.Errorf("task %s: %w", id, ErrNotFound)
	}

	if patch.Tags != nil {
		if err := replaceTaskTags(tx, id, *patch.Tags); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return s.GetTask(id, false)
}

// DeleteTask removes a task. Its tag rows survive for reuse; only the
// join rows go (cascade). Returns the task as it was before deletion.
func (s *Store) DeleteTask(id string) (*TaskRecord, error) {
	task, err := s.GetTask(id, false)
	if err != nil {
		return nil, err
	}

	if _, err := s.db.Exec("DELETE FROM tasks WHERE id = ?", id); err != nil {
		return nil, err
	}

	return task, nil
}

// listBoardTasks retrieves the plain task rows owned by a board
func (s *Store) listBoardTasks(boardID string) ([]TaskRecord, error) {
	rows, err := s.db.Query(taskColumns+` FROM tasks WHERE board_id = ? ORDER BY created_at ASC`, boardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []TaskRecord{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}
