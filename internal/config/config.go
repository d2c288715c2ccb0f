package config

import (
	"os"
	"strconv"
	"time"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	// URL, when set, is used instead of the individual fields.
	URL                string
	AppName            string
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MongoConfig holds MongoDB connection settings.
type MongoConfig struct {
	URI         string
	Database    string
	MaxPoolSize int
	MinPoolSize int
	TimeoutSec  int
}

// StoreConfig selects the record store backend ("postgres" or "mongo").
type StoreConfig struct {
	Driver   string
	Postgres DatabaseConfig
	Mongo    MongoConfig
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// ContentConfig describes where raw video files live and how the API reaches the content server.
type ContentConfig struct {
	Storage   string // "local" or "minio"
	Root      string
	Port      string
	ServerURL string
	MoviesDir string
	TVDir     string
	MinIO     MinIOConfig
}

// FilesConfig selects where messenger attachments are stored. The MinIO
// backend shares Content.MinIO; keys are prefixed with "messenger/".
type FilesConfig struct {
	Storage string // "local" or "minio"
	Root    string
}

// TMDbConfig holds The Movie Database API settings.
type TMDbConfig struct {
	Token     string
	BaseURL   string
	RateLimit float64 // requests per second
	Burst     int
}

// OpenAIConfig holds chat/vision completion settings.
type OpenAIConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	VisionModel string
}

// GmailConfig holds OAuth2 credentials used to send mail through the Gmail API.
type GmailConfig struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
	Sender       string
	BaseURL      string
}

// Enabled reports whether enough credentials are present to send mail.
func (g GmailConfig) Enabled() bool {
	return g.ClientID != "" && g.ClientSecret != "" && g.RefreshToken != "" && g.Sender != ""
}

// BulkConfig holds defaults for the bulk metadata updater.
type BulkConfig struct {
	BatchSize int
	Pause     time.Duration
}

// IntegrateConfig locates feature packages and the template project they install into.
type IntegrateConfig struct {
	FeaturesDir string
	ProjectDir  string
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string
	Format string
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost   string
	Port      string
	Store     StoreConfig
	Content   ContentConfig
	Files     FilesConfig
	TMDb      TMDbConfig
	OpenAI    OpenAIConfig
	Gmail     GmailConfig
	Bulk      BulkConfig
	Integrate IntegrateConfig
	Log       LogConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost: getEnv("APP_HOST", "localhost:8080"),
		Port:    getEnv("PORT", "8080"),
		Store: StoreConfig{
			Driver: getEnv("STORE_DRIVER", "postgres"),
			Postgres: DatabaseConfig{
				URL:                getEnv("DB_URL", ""),
				AppName:            getEnv("DB_APP_NAME", "vaultcast"),
				Host:               getEnv("DB_HOST", ""),
				Port:               getEnv("DB_PORT", "5432"),
				User:               getEnv("DB_USER", ""),
				Password:           getEnv("DB_PASSWORD", ""),
				Name:               getEnv("DB_NAME", ""),
				SSLMode:            getEnv("DB_SSLMODE", "disable"),
				MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
				MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
				ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
			},
			Mongo: MongoConfig{
				URI:         getEnv("MONGO_URI", "mongodb://localhost:27017"),
				Database:    getEnv("MONGO_DATABASE", "vaultcast"),
				MaxPoolSize: getEnvInt("MONGO_MAX_POOL_SIZE", 10),
				MinPoolSize: getEnvInt("MONGO_MIN_POOL_SIZE", 0),
				TimeoutSec:  getEnvInt("MONGO_TIMEOUT_SEC", 10),
			},
		},
		Content: ContentConfig{
			Storage:   getEnv("CONTENT_STORAGE", "local"),
			Root:      getEnv("CONTENT_ROOT", "./media"),
			Port:      getEnv("CONTENT_PORT", "8081"),
			ServerURL: getEnv("CONTENT_SERVER_URL", "http://localhost:8081"),
			MoviesDir: getEnv("CONTENT_MOVIES_DIR", "movies"),
			TVDir:     getEnv("CONTENT_TV_DIR", "tv"),
			MinIO: MinIOConfig{
				Endpoint:  getEnv("MINIO_ENDPOINT", ""),
				AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
				SecretKey: getEnv("MINIO_SECRET_KEY", ""),
				Bucket:    getEnv("MINIO_BUCKET", ""),
				UseSSL:    getEnvBool("MINIO_USE_SSL", false),
			},
		},
		Files: FilesConfig{
			Storage: getEnv("FILES_STORAGE", "local"),
			Root:    getEnv("FILES_ROOT", "./data/files"),
		},
		TMDb: TMDbConfig{
			Token:     getEnv("TMDB_TOKEN", ""),
			BaseURL:   getEnv("TMDB_BASE_URL", "https://api.themoviedb.org/3"),
			RateLimit: getEnvFloat("TMDB_RATE_LIMIT", 4),
			Burst:     getEnvInt("TMDB_BURST", 4),
		},
		OpenAI: OpenAIConfig{
			APIKey:      getEnv("OPENAI_API_KEY", ""),
			BaseURL:     getEnv("OPENAI_BASE_URL", ""),
			Model:       getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			VisionModel: getEnv("OPENAI_VISION_MODEL", "gpt-4o"),
		},
		Gmail: GmailConfig{
			ClientID:     getEnv("GMAIL_CLIENT_ID", ""),
			ClientSecret: getEnv("GMAIL_CLIENT_SECRET", ""),
			RefreshToken: getEnv("GMAIL_REFRESH_TOKEN", ""),
			Sender:       getEnv("GMAIL_SENDER", ""),
			BaseURL:      getEnv("GMAIL_BASE_URL", "https://gmail.googleapis.com"),
		},
		Bulk: BulkConfig{
			BatchSize: getEnvInt("BULK_BATCH_SIZE", 10),
			Pause:     getEnvDuration("BULK_PAUSE", 2*time.Second),
		},
		Integrate: IntegrateConfig{
			FeaturesDir: getEnv("INTEGRATE_FEATURES_DIR", "./features"),
			ProjectDir:  getEnv("INTEGRATE_PROJECT_DIR", "./template"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err == nil {
			return d
		}
	}
	return def
}
