package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds the server configuration
type Config struct {
	Addr   string       `mapstructure:"addr"`
	DBPath string       `mapstructure:"db_path"`
	Gemini GeminiConfig `mapstructure:"gemini"`
}

// GeminiConfig configures the assistant bridge
type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Addr:   ":8080",
		DBPath: defaultDBPath(),
		Gemini: GeminiConfig{
			Model: "gemini-2.0-flash",
		},
	}
}

// Load loads and merges configuration from global and project sources,
// then applies environment overrides
func Load() (*Config, error) {
	cfg := DefaultConfig()

	home, err := os.UserHomeDir()
	if err == nil {
		// Load global config first
		globalPath := filepath.Join(home, ".gttask", "config.yaml")
		if err := loadFile(globalPath, cfg); err != nil && !os.IsNotExist(err) {
			return nil, err
		}
	}

	cwd, err := os.Getwd()
	if err == nil {
		// Project config overrides global
		projectPath := filepath.Join(cwd, ".gttask", "config.yaml")
		if err := loadFile(projectPath, cfg); err != nil && !os.IsNotExist(err) {
			return nil, err
		}
	}

	// Environment overrides win over files
	if addr := os.Getenv("GTTASK_ADDR"); addr != "" {
		cfg.Addr = addr
	}
	if dbPath := os.Getenv("GTTASK_DB"); dbPath != "" {
		cfg.DBPath = dbPath
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		cfg.Gemini.APIKey = key
	}
	if model := os.Getenv("GEMINI_MODEL"); model != "" {
		cfg.Gemini.Model = model
	}

	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return err
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return err
	}

	return v.Unmarshal(cfg)
}

// WriteDefault writes a commented default configuration to a file
func WriteDefault(path string) error {
	content := `# gttask configuration

# Listen address for the web server
addr: ":8080"

# SQLite database path
# db_path: ~/.gttask/gttask.db

# Assistant bridge (chat endpoint)
gemini:
  # api_key: ...         # or set GEMINI_API_KEY
  model: gemini-2.0-flash
`

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0644)
}

// GlobalConfigPath returns the path to the global config file
func GlobalConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".gttask", "config.yaml")
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".gttask/gttask.db"
	}
	return filepath.Join(home, ".gttask", "gttask.db")
}
