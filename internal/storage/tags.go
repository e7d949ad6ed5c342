package storage

import (
	"database/sql"
)

// execer covers both *sql.DB and *sql.Tx
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// UpsertTag creates a tag or, when the ID already exists, overwrites its
// name and color (last write wins).
func (s *Store) UpsertTag(tag *TagRecord) error {
	return upsertTag(s.db, tag)
}

func upsertTag(e execer, tag *TagRecord) error {
	_, err := e.Exec(`
		INSERT INTO tags (id, name, color) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, color = excluded.color
	`, tag.ID, tag.Name, tag.Color)

	return err
}

// ListTags returns all tags ordered by name ascending
func (s *Store) ListTags() ([]TagRecord, error) {
	rows, err := s.db.Query("SELECT id, name, color FROM tags ORDER BY name ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []TagRecord
	for rows.Next() {
		var tag TagRecord
		if err := rows.Scan(&tag.ID, &tag.Name, &tag.Color); err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

// replaceTaskTags upserts every tag and rewrites the task's join rows
func replaceTaskTags(tx *sql.Tx, taskID string, tags []TagRecord) error {
	if _, err := tx.Exec("DELETE FROM task_tags WHERE task_id = ?", taskID); err != nil {
		return err
	}

	for _, tag := range tags {
		if err := upsertTag(tx, &tag); err != nil {
			return err
		}
		if _, err := tx.Exec(`
			INSERT OR IGNORE INTO task_tags (task_id, tag_id) VALUES (?, ?)
		`, taskID, tag.ID); err != nil {
			return err
		}
	}
	return nil
}

// listTaskTags returns the tags attached to a task, ordered by name
func (s *Store) listTaskTags(taskID string) ([]TagRecord, error) {
	rows, err := s.db.Query(`
		SELECT t.id, t.name, t.color
		FROM tags t
		JOIN task_tags tt ON tt.tag_id = t.id
		WHERE tt.task_id = ?
		ORDER BY t.name ASC
	`, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []TagRecord
	for rows.Next() {
		var tag TagRecord
		if err := rows.Scan(&tag.ID, &tag.Name, &tag.Color); err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}
