package storage

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when a referenced row does not exist.
var ErrNotFound = errors.New("not found")

// Store handles SQLite persistence for boards, tasks, tags and comments
type Store struct {
	db *sql.DB
}

// BoardRecord represents a board row, optionally with its tasks
type BoardRecord struct {
	ID        string
	Title     string
	CreatedAt time.Time
	UpdatedAt time.Time
	Tasks     []TaskRecord
}

// TaskRecord represents a task row, optionally with its relations
type TaskRecord struct {
	ID          string
	BoardID     string
	Title       string
	Description string
	Status      string
	Priority    string
	StartDate   *time.Time
	DueDate     *time.Time
	ParentID    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Tags        []TagRecord
	Parent      *TaskRecord
	Subtasks    []TaskRecord
	Comments    []CommentRecord
}

// TagRecord represents a tag row
type TagRecord struct {
	ID    string
	Name  string
	Color string
}

// CommentRecord represents a comment row
type CommentRecord struct {
	ID        string
	TaskID    string
	UserID    string
	Content   string
	ParentID  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// BoardPatch holds the fields of a partial board update. Nil means unchanged.
type BoardPatch struct {
	Title *string
}

// TaskPatch holds the fields of a partial task update. Nil means unchanged.
// A non-nil Tags pointer rewrites the task's tag set.
type TaskPatch struct {
	BoardID     *string
	Title       *string
	Description *string
	Status      *string
	Priority    *string
	StartDate   *time.Time
	DueDate     *time.Time
	ParentID    *string
	Tags        *[]TagRecord
}

// NewStore opens the SQLite database at dbPath and creates the schema
func NewStore(dbPath string) (*Store, error) {
	// Expand ~ in path
	if strings.HasPrefix(dbPath, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, err
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

// migrate creates the necessary tables
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS boards (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS tasks (
			id TEXT PRIMARY KEY,
			board_id TEXT NOT NULL,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'todo',
			priority TEXT NOT NULL DEFAULT 'medium',
			start_date DATETIME,
			due_date DATETIME,
			parent_id TEXT,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			FOREIGN KEY (board_id) REFERENCES boards(id) ON DELETE CASCADE,
			FOREIGN KEY (parent_id) REFERENCES tasks(id) ON DELETE SET NULL
		);

		CREATE TABLE IF NOT EXISTS tags (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			color TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS task_tags (
			task_id TEXT NOT NULL,
			tag_id TEXT NOT NULL,
			PRIMARY KEY (task_id, tag_id),
			FOREIGN KEY (task_id) REFERENCES tasks(id) ON DELETE CASCADE,
			FOREIGN KEY (tag_id) REFERENCES tags(id) ON DELETE CASCADE
		);

		CREATE TABLE IF NOT EXISTS comments (
			id TEXT PRIMARY KEY,
			task_id TEXT NOT NULL,
			user_id TEXT NOT NULL,
			content TEXT NOT NULL,
			parent_id TEXT,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			FOREIGN KEY (task_id) REFERENCES tasks(id) ON DELETE CASCADE,
			FOREIGN KEY (parent_id) REFERENCES comments(id) ON DELETE CASCADE
		);

		CREATE INDEX IF NOT EXISTS idx_tasks_board ON tasks(board_id);
		CREATE INDEX IF NOT EXISTS idx_tasks_parent ON tasks(parent_id);
		CREATE INDEX IF NOT EXISTS idx_comments_task ON comments(task_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// CountByTable returns row counts keyed by table name
func (s *Store) CountByTable() (map[string]int, error) {
	counts := make(map[string]int)
	for _, table := range []string{"boards", "tasks", "tags", "comments"} {
		var n int
		if err := s.db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
			return nil, err
		}
		counts[table] = n
	}
	return counts, nil
}

// GenerateID creates a new UUID for a row
func GenerateID() string {
	return uuid.New().String()
}
