package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Environment variable names
const (
	EnvSearchEndpoint   = "AZURE_SEARCH_SERVICE_ENDPOINT"
	EnvSearchAdminKey   = "AZURE_SEARCH_ADMIN_KEY"
	EnvSearchIndexName  = "AZURE_SEARCH_INDEX_NAME"
	EnvOpenAIEndpoint   = "AZURE_OPENAI_ENDPOINT"
	EnvOpenAIAPIKey     = "AZURE_OPENAI_API_KEY"
	EnvOpenAIDeployment = "AZURE_DEPLOYMENT_NAME"
	EnvOpenAIAPIVersion = "AZURE_OPENAI_API_VERSION"
)

// DefaultIndexName is used when AZURE_SEARCH_INDEX_NAME is not set
const DefaultIndexName = "documents-index"

// Config holds all configuration for azrag
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Admin    AdminConfig    `mapstructure:"admin"`
	Database DatabaseConfig `mapstructure:"database"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Search   SearchConfig   `mapstructure:"search"`
	OpenAI   OpenAIConfig   `mapstructure:"openai"`
	Chunker  ChunkerConfig  `mapstructure:"chunker"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// AdminConfig holds admin authentication configuration
type AdminConfig struct {
	APIKey string `mapstructure:"api_key"`
}

// DatabaseConfig holds the setup run ledger configuration
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// StorageConfig holds document storage configuration
type StorageConfig struct {
	PDFDir string `mapstructure:"pdf_dir"`
}

// SearchConfig holds Azure AI Search connection parameters
type SearchConfig struct {
	Endpoint     string        `mapstructure:"endpoint"`
	AdminKey     string        `mapstructure:"admin_key"`
	IndexName    string        `mapstructure:"index_name"`
	APIVersion   string        `mapstructure:"api_version"`
	ReadyTimeout time.Duration `mapstructure:"ready_timeout"`
}

// OpenAIConfig holds Azure OpenAI connection parameters
type OpenAIConfig struct {
	Endpoint   string `mapstructure:"endpoint"`
	APIKey     string `mapstructure:"api_key"`
	Deployment string `mapstructure:"deployment"`
	APIVersion string `mapstructure:"api_version"`
}

// ChunkerConfig holds text splitting parameters
type ChunkerConfig struct {
	ChunkSize    int `mapstructure:"chunk_size"`
	ChunkOverlap int `mapstructure:"chunk_overlap"`
}

// envBindings maps config keys to the environment variables that feed them.
var envBindings = map[string]string{
	"search.endpoint":      EnvSearchEndpoint,
	"search.admin_key":     EnvSearchAdminKey,
	"search.index_name":    EnvSearchIndexName,
	"search.api_version":   "AZRAG_SEARCH_API_VERSION",
	"search.ready_timeout": "AZRAG_SEARCH_READY_TIMEOUT",
	"openai.endpoint":      EnvOpenAIEndpoint,
	"openai.api_key":       EnvOpenAIAPIKey,
	"openai.deployment":    EnvOpenAIDeployment,
	"openai.api_version":   EnvOpenAIAPIVersion,
	"server.host":          "AZRAG_SERVER_HOST",
	"server.port":          "AZRAG_SERVER_PORT",
	"admin.api_key":        "AZRAG_ADMIN_API_KEY",
	"database.path":        "AZRAG_DATABASE_PATH",
	"storage.pdf_dir":      "AZRAG_PDF_DIR",
}

// Load loads configuration from .env, an optional config file and the environment
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Read config file if specified
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	// Read config
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found, use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Search.IndexName == "" {
		cfg.Search.IndexName = DefaultIndexName
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8000)

	v.SetDefault("admin.api_key", "")

	v.SetDefault("database.path", "./data/azrag.db")
	v.SetDefault("storage.pdf_dir", "./pdfs")

	v.SetDefault("search.index_name", DefaultIndexName)
	v.SetDefault("search.api_version", "2024-07-01")
	v.SetDefault("search.ready_timeout", 30*time.Second)

	v.SetDefault("chunker.chunk_size", 1000)
	v.SetDefault("chunker.chunk_overlap", 200)
}

// Address returns the server address
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
