package storage

import (
	"database/sql"
)

// CreateComment inserts a comment row
func (s *Store) CreateComment(comment *CommentRecord) error {
	var parentID any
	if comment.ParentID != "" {
		parentID = comment.ParentID
	}

	_, err := s.db.Exec(`
		INSERT INTO comments (id, task_id, user_id, content, parent_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, comment.ID, comment.TaskID, comment.UserID, comment.Content, parentID,
		comment.CreatedAt, comment.UpdatedAt)

	return err
}

// ListTaskComments retrieves all comments for a task, oldest first
func (s *Store) ListTaskComments(taskID string) ([]CommentRecord, error) {
	rows, err := s.db.Query(`
		SELECT id, task_id, user_id, content, parent_id, created_at, updated_at
		FROM comments
		WHERE task_id = ?
		ORDER BY created_at ASC
	`, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []CommentRecord
	for rows.Next() {
		var comment CommentRecord
		var parentID sql.NullString
		if err := rows.Scan(&comment.ID, &comment.TaskID, &comment.UserID,
			&comment.Content, &parentID, &comment.CreatedAt, &comment.UpdatedAt); err != nil {
			return nil, err
		}
		if parentID.Valid {
			comment.ParentID = parentID.String
		}
		comments = append(comments, comment)
	}
	return comments, rows.Err()
}
