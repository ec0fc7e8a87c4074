package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port                string `yaml:"port"`
	DBDriver            string `yaml:"db_driver"`
	DatabaseURL         string `yaml:"database_url"`
	SessionSecret       string `yaml:"session_secret"`
	GoogleClientID      string `yaml:"google_client_id"`
	GoogleClientSecret  string `yaml:"google_client_secret"`
	AppURL              string `yaml:"app_url"`
	AIProvider          string `yaml:"ai_provider"`
	GeminiAPIKey        string `yaml:"gemini_api_key"`
	GeminiModel         string `yaml:"gemini_model"`
	OllamaBaseURL       string `yaml:"ollama_base_url"`
	OllamaModel         string `yaml:"ollama_model"`
	Timezone            string `yaml:"timezone"`
	NightlyPromptTime   string `yaml:"nightly_prompt_time"`
	FirebaseCredentials string `yaml:"firebase_credentials"`
	StaticDir           string `yaml:"static_dir"`
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Port:                getEnv("PORT", "3000"),
		DBDriver:            getEnv("DB_DRIVER", "sqlite"),
		DatabaseURL:         getEnv("DATABASE_URL", "daystart.db"),
		SessionSecret:       getEnv("SESSION_SECRET", "daystart-secret-change-me"),
		GoogleClientID:      getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret:  getEnv("GOOGLE_CLIENT_SECRET", ""),
		AppURL:              getEnv("APP_URL", "http://localhost:3000"),
		AIProvider:          getEnv("AI_PROVIDER", "auto"),
		GeminiAPIKey:        getEnv("GEMINI_API_KEY", ""),
		GeminiModel:         getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		OllamaBaseURL:       getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
		OllamaModel:         getEnv("OLLAMA_MODEL", "llama3"),
		Timezone:            getEnv("TIMEZONE", "Local"),
		NightlyPromptTime:   getEnv("NIGHTLY_PROMPT_TIME", "21:00"),
		FirebaseCredentials: getEnv("FIREBASE_CREDENTIALS", ""),
		StaticDir:           getEnv("STATIC_DIR", "dist"),
	}

	if path := os.Getenv("DAYSTART_CONFIG"); path != "" {
		if err := cfg.overlayFile(path); err != nil {
			log.Printf("[Config] Ignoring config file %s: %v", path, err)
		}
	}

	cfg.AppURL = strings.TrimSuffix(cfg.AppURL, "/")
	return cfg
}

// overlayFile replaces every setting the YAML file defines with a non-empty value.
func (c *Config) overlayFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return err
	}

	overlay := func(dst *string, src string) {
		if src != "" {
			*dst = src
		}
	}
	overlay(&c.Port, fileCfg.Port)
	overlay(&c.DBDriver, fileCfg.DBDriver)
	overlay(&c.DatabaseURL, fileCfg.DatabaseURL)
	overlay(&c.SessionSecret, fileCfg.SessionSecret)
	overlay(&c.GoogleClientID, fileCfg.GoogleClientID)
	overlay(&c.GoogleClientSecret, fileCfg.GoogleClientSecret)
	overlay(&c.AppURL, fileCfg.AppURL)
	overlay(&c.AIProvider, fileCfg.AIProvider)
	overlay(&c.GeminiAPIKey, fileCfg.GeminiAPIKey)
	overlay(&c.GeminiModel, fileCfg.GeminiModel)
	overlay(&c.OllamaBaseURL, fileCfg.OllamaBaseURL)
	overlay(&c.OllamaModel, fileCfg.OllamaModel)
	overlay(&c.Timezone, fileCfg.Timezone)
	overlay(&c.NightlyPromptTime, fileCfg.NightlyPromptTime)
	overlay(&c.FirebaseCredentials, fileCfg.FirebaseCredentials)
	overlay(&c.StaticDir, fileCfg.StaticDir)
	return nil
}

// RedirectURL is the OAuth callback registered with Google.
func (c *Config) RedirectURL() string {
	return c.AppURL + "/auth/callback"
}

// Location resolves Timezone, falling back to time.Local.
func (c *Config) Location() *time.Location {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		log.Printf("[Config] Unknown timezone %q, using local time: %v", c.Timezone, err)
		return time.Local
	}
	return loc
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
