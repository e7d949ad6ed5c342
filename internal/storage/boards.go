package storage

import (
	"database/sql"
	"fmt"
	"time"
)

// CreateBoard inserts a board row
func (s *Store) CreateBoard(board *BoardRecord) error {
	_, err := s.db.Exec(`
		INSERT INTO boards (id, title, created_at, updated_at)
		VALUES (?, ?, ?, ?)
	`, board.ID, board.Title, board.CreatedAt, board.UpdatedAt)

	return err
}

// GetBoard retrieves a board by ID with its tasks
func (s *Store) GetBoard(id string) (*BoardRecord, error) {
	row := s.db.QueryRow(`
		SELECT id, title, created_at, updated_at
		FROM boards WHERE id = ?
	`, id)

	var board BoardRecord
	err := row.Scan(&board.ID, &board.Title, &board.CreatedAt, &board.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("board %s: %w", id, ErrNotFound)
		}
		return nil, err
	}

	tasks, err := s.listBoardTasks(id)
	if err != nil {
		return nil, err
	}
	board.Tasks = tasks

	return &board, nil
}

// ListBoards returns all boards with their tasks nested
func (s *Store) ListBoards() ([]*BoardRecord, error) {
	rows, err := s.db.Query(`
		SELECT id, title, created_at, updated_at
		FROM boards
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var boards []*BoardRecord
	byID := make(map[string]*BoardRecord)
	for rows.Next() {
		var board BoardRecord
		if err := rows.Scan(&board.ID, &board.Title, &board.CreatedAt, &board.UpdatedAt); err != nil {
			return nil, err
		}
		board.Tasks = []TaskRecord{}
		boards = append(boards, &board)
		byID[board.ID] = &board
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	taskRows, err := s.db.Query(taskColumns + ` FROM tasks ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer taskRows.Close()

	for taskRows.Next() {
		task, err := scanTask(taskRows)
		if err != nil {
			return nil, err
		}
		if board, ok := byID[task.BoardID]; ok {
			board.Tasks = append(board.Tasks, *task)
		}
	}
	return boards, taskRows.Err()
}

// UpdateBoard applies a partial update and returns the updated board
func (s *Store) UpdateBoard(id string, patch BoardPatch, now time.Time) (*BoardRecord, error) {
	sets := "updated_at = ?"
	args := []any{now}
	if patch.Title != nil {
		sets += ", title = ?"
		args = append(args, *patch.Title)
	}
	args = append(args, id)

	result, err := s.db.Exec("UPDATE boards SET "+sets+" WHERE id = ?", args...)
	if err != nil {
		return nil, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, fmt.Errorf("board %s: %w", id, ErrNotFound)
	}

	return s.GetBoard(id)
}

// DeleteBoard removes a board and, via cascade, all tasks it owns.
// Returns the board as it was before deletion.
func (s *Store) DeleteBoard(id string) (*BoardRecord, error) {
	board, err := s.GetBoard(id)
	if err != nil {
		return nil, err
	}

	if _, err := s.db.Exec("DELETE FROM boards WHERE id = ?", id); err != nil {
		return nil, err
	}

	return board, nil
}
