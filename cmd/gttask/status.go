package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Joacohbc/gttask/internal/config"
	"github.com/Joacohbc/gttask/internal/storage"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show database row counts",
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	store, err := storage.NewStore(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer store.Close()

	counts, err := store.CountByTable()
	if err != nil {
		return fmt.Errorf("failed to count rows: %w", err)
	}

	fmt.Println("gttask status")
	fmt.Println("=============")
	fmt.Printf("database: %s\n", cfg.DBPath)
	for _, table := range []string{"boards", "tasks", "tags", "comments"} {
		fmt.Printf("%-10s %d\n", table, counts[table])
	}
	return nil
}
