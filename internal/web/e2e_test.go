package web

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/Joacohbc/gttask/internal/core"
	"github.com/Joacohbc/gttask/internal/storage"
)

// TestTaskLifecycleOverRealStore drives the full stack with a real SQLite
// database: create a board, add a task, finish it, delete the board and
// verify the task went with it.
func TestTaskLifecycleOverRealStore(t *testing.T) {
	store, err := storage.NewStore(filepath.Join(t.TempDir(), "gttask.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	svc := core.NewService(store)
	defer svc.Close()

	s := newTestServer(svc, nil)

	// Create a board
	w := doRequest(t, s, "POST", "/api/boards", map[string]string{"title": "Sprint 1"})
	if w.Code != http.StatusOK {
		t.Fatalf("create board: status = %d: %s", w.Code, w.Body.String())
	}
	var board core.Board
	if err := json.Unmarshal(decodeBody(t, w)["board"], &board); err != nil {
		t.Fatalf("decode board: %v", err)
	}
	if board.ID == "" {
		t.Fatal("board has no id")
	}

	// Create a task on the board
	w = doRequest(t, s, "POST", "/api/tasks", map[string]any{
		"title":    "Ship it",
		"boardId":  board.ID,
		"priority": "high",
		"dueDate":  "2026-09-15",
		"tags":     []map[string]string{{"name": "release", "color": "#00ff00"}},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("create task: status = %d: %s", w.Code, w.Body.String())
	}
	var task core.Task
	if err := json.Unmarshal(decodeBody(t, w)["task"], &task); err != nil {
		t.Fatalf("decode task: %v", err)
	}
	if task.Status != core.StatusTodo {
		t.Errorf("Status = %q, want %q", task.Status, core.StatusTodo)
	}
	if !task.CreatedAt.Equal(task.UpdatedAt) {
		t.Errorf("CreatedAt = %v, UpdatedAt = %v, want equal on create", task.CreatedAt, task.UpdatedAt)
	}
	if task.DueDate == nil || task.DueDate.Format("2006-01-02") != "2026-09-15" {
		t.Errorf("DueDate = %v", task.DueDate)
	}

	// Finish the task
	time.Sleep(10 * time.Millisecond)
	w = doRequest(t, s, "PUT", "/api/tasks/"+task.ID, map[string]string{"status": "done"})
	if w.Code != http.StatusOK {
		t.Fatalf("update task: status = %d: %s", w.Code, w.Body.String())
	}
	var updated core.Task
	if err := json.Unmarshal(decodeBody(t, w)["task"], &updated); err != nil {
		t.Fatalf("decode task: %v", err)
	}
	if updated.Status != core.StatusDone {
		t.Errorf("Status = %q, want done", updated.Status)
	}
	if !updated.UpdatedAt.After(updated.CreatedAt) {
		t.Errorf("UpdatedAt = %v not after CreatedAt = %v", updated.UpdatedAt, updated.CreatedAt)
	}
	if !updated.CreatedAt.Equal(task.CreatedAt) {
		t.Errorf("CreatedAt changed on update: %v != %v", updated.CreatedAt, task.CreatedAt)
	}

	// The tag is now listed
	w = doRequest(t, s, "GET", "/api/tags", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list tags: status = %d", w.Code)
	}
	var tags []core.Tag
	if err := json.Unmarshal(decodeBody(t, w)["tags"], &tags); err != nil {
		t.Fatalf("decode tags: %v", err)
	}
	if len(tags) != 1 || tags[0].Name != "release" {
		t.Errorf("tags = %v", tags)
	}

	// Delete the board; its tasks go with it
	w = doRequest(t, s, "DELETE", "/api/boards/"+board.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete board: status = %d", w.Code)
	}

	w = doRequest(t, s, "GET", "/api/tasks/"+task.ID, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("get deleted task: status = %d, want 404", w.Code)
	}

	w = doRequest(t, s, "GET", "/api/boards", nil)
	var boards []core.Board
	if err := json.Unmarshal(decodeBody(t, w)["boards"], &boards); err != nil {
		t.Fatalf("decode boards: %v", err)
	}
	if len(boards) != 0 {
		t.Errorf("boards = %v, want none", boards)
	}
}
