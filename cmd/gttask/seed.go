package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Joacohbc/gttask/internal/config"
	"github.com/Joacohbc/gttask/internal/core"
	"github.com/Joacohbc/gttask/internal/storage"
)

// defaultSeed mirrors the initial boards the UI expects
const defaultSeed = `
boards:
  - id: clx1
    title: Pendientes
    tasks:
      - title: Diseñar Interfaz
        description: Crear mockups de la interfaz de usuario
        status: todo
        priority: high
      - title: Pruebas Unitarias
        description: Escribir pruebas para los componentes
        status: todo
        priority: low
  - id: clx2
    title: En Progreso
    tasks:
      - title: Implementar Base de Datos
        description: Configurar SQLite
        status: in-progress
        priority: medium
  - id: clx3
    title: Completados
    tasks:
      - title: Documentación
        description: Documentar la API y el código
        status: done
        priority: medium
`

type seedFixture struct {
	Boards []seedBoard `yaml:"boards"`
	Tags   []seedTag   `yaml:"tags"`
}

type seedBoard struct {
	ID    string     `yaml:"id"`
	Title string     `yaml:"title"`
	Tasks []seedTask `yaml:"tasks"`
}

type seedTask struct {
	ID          string        `yaml:"id"`
	Title       string        `yaml:"title"`
	Description string        `yaml:"description"`
	Status      string        `yaml:"status"`
	Priority    string        `yaml:"priority"`
	Comments    []seedComment `yaml:"comments"`
}

type seedComment struct {
	UserID  string `yaml:"user"`
	Content string `yaml:"content"`
}

type seedTag struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Color string `yaml:"color"`
}

var seedCmd = &cobra.Command{
	Use:   "seed [file]",
	Short: "Load boards, tasks and tags from a YAML fixture",
	Long: `Seed the database. Without arguments the built-in starter boards
are created. Boards and tasks that already exist are skipped.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSeed,
}

func runSeed(cmd *cobra.Command, args []string) error {
	data := []byte(defaultSeed)
	if len(args) == 1 {
		var err error
		data, err = os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read fixture: %w", err)
		}
	}

	var fixture seedFixture
	if err := yaml.Unmarshal(data, &fixture); err != nil {
		return fmt.Errorf("failed to parse fixture: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	store, err := storage.NewStore(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}

	svc := core.NewService(store)
	defer svc.Close()

	ctx := context.Background()
	created := 0

	for _, b := range fixture.Boards {
		boardID := b.ID
		if _, err := svc.GetBoard(ctx, boardID); err == nil {
			fmt.Printf("board %q already exists, skipping\n", b.Title)
		} else if errors.Is(err, core.ErrNotFound) {
			board, err := svc.CreateBoard(ctx, core.CreateBoardInput{ID: b.ID, Title: b.Title})
			if err != nil {
				return fmt.Errorf("failed to create board %q: %w", b.Title, err)
			}
			boardID = board.ID
			created++
		} else {
			return err
		}

		for _, t := range b.Tasks {
			if t.ID != "" {
				if _, err := svc.GetTask(ctx, t.ID); err == nil {
					continue
				} else if !errors.Is(err, core.ErrNotFound) {
					return err
				}
			}
			task, err := svc.CreateTask(ctx, core.CreateTaskInput{
				ID:          t.ID,
				BoardID:     boardID,
				Title:       t.Title,
				Description: t.Description,
				Status:      t.Status,
				Priority:    t.Priority,
			})
			if err != nil {
				return fmt.Errorf("failed to create task %q: %w", t.Title, err)
			}
			created++

			for _, c := range t.Comments {
				now := time.Now()
				if err := store.CreateComment(&storage.CommentRecord{
					ID:        storage.GenerateID(),
					TaskID:    task.ID,
					UserID:    c.UserID,
					Content:   c.Content,
					CreatedAt: now,
					UpdatedAt: now,
				}); err != nil {
					return fmt.Errorf("failed to create comment on %q: %w", t.Title, err)
				}
				created++
			}
		}
	}

	for _, t := range fixture.Tags {
		id := t.ID
		if id == "" {
			id = storage.GenerateID()
		}
		if err := store.UpsertTag(&storage.TagRecord{ID: id, Name: t.Name, Color: t.Color}); err != nil {
			return fmt.Errorf("failed to upsert tag %q: %w", t.Name, err)
		}
		created++
	}

	fmt.Printf("Seeded %d rows\n", created)
	return nil
}
