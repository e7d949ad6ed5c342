package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Joacohbc/gttask/internal/assistant"
	"github.com/Joacohbc/gttask/internal/core"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Board handlers

func (s *Server) handleListBoards(c *gin.Context) {
	boards, err := s.svc.ListBoards(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching boards"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"boards": boards})
}

func (s *Server) handleCreateBoard(c *gin.Context) {
	var input core.CreateBoardInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	board, err := s.svc.CreateBoard(c.Request.Context(), input)
	if err != nil {
		if errors.Is(err, core.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating board"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"board": board})
}

func (s *Server) handleGetBoard(c *gin.Context) {
	board, err := s.svc.GetBoard(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Board not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching board"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"board": board})
}

func (s *Server) handleUpdateBoard(c *gin.Context) {
	var input core.UpdateBoardInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	board, err := s.svc.UpdateBoard(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Board not found"})
		case errors.Is(err, core.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating board"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"board": board})
}

func (s *Server) handleDeleteBoard(c *gin.Context) {
	board, err := s.svc.DeleteBoard(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Board not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting board"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"board": board})
}

// Task handlers

func (s *Server) handleListTasks(c *gin.Context) {
	// The all-tasks view is the tasks grouped by their boards
	boards, err := s.svc.ListBoards(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching tasks"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"boards": boards})
}

func (s *Server) handleCreateTask(c *gin.Context) {
	var input core.CreateTaskInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := s.svc.CreateTask(c.Request.Context(), input)
	if err != nil {
		if errors.Is(err, core.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating task"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"task": task})
}

func (s *Server) handleGetTask(c *gin.Context) {
	task, err := s.svc.GetTask(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching task"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"task": task})
}

func (s *Server) handleUpdateTask(c *gin.Context) {
	var input core.UpdateTaskInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := s.svc.UpdateTask(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		case errors.Is(err, core.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating task"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"task": task})
}

func (s *Server) handleDeleteTask(c *gin.Context) {
	task, err := s.svc.DeleteTask(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting task"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"task": task})
}

// Tag handlers

func (s *Server) handleListTags(c *gin.Context) {
	tags, err := s.svc.ListTags(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching tags"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"tags": tags})
}

// Chat handler

type chatRequest struct {
	Messages []assistant.Message `json:"messages"`
}

func (s *Server) handleChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Messages == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Messages are required and must be an array"})
		return
	}

	if s.assistant == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to communicate with AI service"})
		return
	}

	boards, err := s.svc.ListBoards(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching boards"})
		return
	}

	// Synthetic first turn gives the model read access to the board state
	turns := make([]assistant.Message, 0, len(req.Messages)+1)
	turns = append(turns, assistant.Message{
		Role:    assistant.RoleUser,
		Content: assistant.Snapshot(boards),
	})
	turns = append(turns, req.Messages...)

	reply, err := s.assistant.Chat(c.Request.Context(), turns)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to communicate with AI service"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"content": reply})
}
