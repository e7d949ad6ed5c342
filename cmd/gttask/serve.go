package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Joacohbc/gttask/internal/assistant"
	"github.com/Joacohbc/gttask/internal/config"
	"github.com/Joacohbc/gttask/internal/core"
	"github.com/Joacohbc/gttask/internal/storage"
	"github.com/Joacohbc/gttask/internal/web"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the task board server",
	Long: `Start the gttask web server.

Examples:
  gttask serve
  gttask serve --addr :3000`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
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

	var ai web.Assistant
	if cfg.Gemini.APIKey != "" {
		ai = assistant.NewGeminiClient(cfg.Gemini.APIKey, cfg.Gemini.Model)
	}

	addr := cfg.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	fmt.Printf("Starting gttask server at http://localhost%s\n", addr)
	server := web.NewServer(svc, ai)
	return server.Run(addr)
}
