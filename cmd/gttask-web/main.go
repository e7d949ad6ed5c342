package main

import (
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/Joacohbc/gttask/internal/assistant"
	"github.com/Joacohbc/gttask/internal/core"
	"github.com/Joacohbc/gttask/internal/storage"
	"github.com/Joacohbc/gttask/internal/web"
)

var Version = "dev"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("gttask-web version %s starting...", Version)

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("Shutting down...")
		os.Exit(0)
	}()

	store, err := storage.NewStore(getEnv("GTTASK_DB", defaultDBPath()))
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}

	svc := core.NewService(store)
	defer svc.Close()

	var ai web.Assistant
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		ai = assistant.NewGeminiClient(key, getEnv("GEMINI_MODEL", assistant.DefaultModel))
	}

	addr := getEnv("GTTASK_ADDR", ":8080")
	server := web.NewServer(svc, ai)

	log.Printf("Starting web server on %s", addr)
	if err := server.Run(addr); err != nil {
		log.Fatalf("Web server error: %v", err)
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".gttask/gttask.db"
	}
	return filepath.Join(home, ".gttask", "gttask.db")
}
