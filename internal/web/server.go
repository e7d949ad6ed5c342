package web

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Joacohbc/gttask/internal/assistant"
	"github.com/Joacohbc/gttask/internal/core"
)

// Service defines the board/task/tag operations used by the handlers.
// Implementations: core.Service
type Service interface {
	ListBoards(ctx context.Context) ([]core.Board, error)
	GetBoard(ctx context.Context, id string) (*core.Board, error)
	CreateBoard(ctx context.Context, input core.CreateBoardInput) (*core.Board, error)
	UpdateBoard(ctx context.Context, id string, input core.UpdateBoardInput) (*core.Board, error)
	DeleteBoard(ctx context.Context, id string) (*core.Board, error)

	GetTask(ctx context.Context, id string) (*core.Task, error)
	CreateTask(ctx context.Context, input core.CreateTaskInput) (*core.Task, error)
	UpdateTask(ctx context.Context, id string, input core.UpdateTaskInput) (*core.Task, error)
	DeleteTask(ctx context.Context, id string) (*core.Task, error)

	ListTags(ctx context.Context) ([]core.Tag, error)
}

// Assistant forwards chat turns to the generative-language service.
// Implementations: assistant.GeminiClient
type Assistant interface {
	Chat(ctx context.Context, messages []assistant.Message) (string, error)
}

// Server is the gttask web server
type Server struct {
	svc       Service
	assistant Assistant
	router    *gin.Engine
}

// NewServer creates a new web server. The assistant may be nil when no
// API key is configured; the chat endpoint then fails with 500.
func NewServer(svc Service, ai Assistant) *Server {
	router := gin.Default()

	s := &Server{
		svc:       svc,
		assistant: ai,
		router:    router,
	}

	router.GET("/healthz", s.handleHealth)

	api := router.Group("/api")
	{
		api.GET("/boards", s.handleListBoards)
		api.POST("/boards", s.handleCreateBoard)
		api.GET("/boards/:id", s.handleGetBoard)
		api.PUT("/boards/:id", s.handleUpdateBoard)
		api.DELETE("/boards/:id", s.handleDeleteBoard)

		api.GET("/tasks", s.handleListTasks)
		api.POST("/tasks", s.handleCreateTask)
		api.GET("/tasks/:id", s.handleGetTask)
		api.PUT("/tasks/:id", s.handleUpdateTask)
		api.DELETE("/tasks/:id", s.handleDeleteTask)

		api.GET("/tags", s.handleListTags)

		api.POST("/chat", s.handleChat)
	}

	return s
}

// Run starts the web server
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// Handler exposes the router for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.router
}
