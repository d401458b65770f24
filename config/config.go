package config

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// AppConfig holds environment driven configuration values. Sensitive data
// never has defaults inside code and must come from .env, config.json or the
// process environment.
type AppConfig struct {
	AppPort   string
	JWTSecret string

	// Database
	DatabaseURI string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string

	// Redis (optional, used by the distributed rate limiter)
	RedisHost     string
	RedisPort     int
	RedisDB       int
	RedisPassword string

	// HTTP
	AllowedOrigins     []string
	RateLimitPerMinute int
	GinMode            string
	GinPath            string

	// Uploads
	UploadDir       string
	UploadMaxSizeMB int

	// Logging
	LogLevel      string
	LogPath       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
	LogCompress   bool
}

var cfg AppConfig
var loaded bool

// Load reads the application configuration. Precedence: .env file ->
// config/config.json -> defaults -> environment variable overrides. It
// should be called once during boot.
func Load() AppConfig {
	if loaded {
		return cfg
	}

	_ = godotenv.Load()

	_ = loadJSONConfig(filepath.Join("config", "config.json"), &cfg)
	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set in environment variables")
	}

	loaded = true
	return cfg
}

// Get returns the cached configuration, loading it if necessary.
func Get() AppConfig {
	if !loaded {
		return Load()
	}
	return cfg
}

func applyDefaults(c *AppConfig) {
	if c.AppPort == "" {
		c.AppPort = "8080"
	}
	if c.DBHost == "" {
		c.DBHost = "127.0.0.1"
	}
	if c.DBPort == "" {
		c.DBPort = "3306"
	}
	if c.DBName == "" {
		c.DBName = "socialnet"
	}
	if c.RedisPort == 0 {
		c.RedisPort = 6379
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"*"}
	}
	if c.RateLimitPerMinute == 0 {
		c.RateLimitPerMinute = 60
	}
	if c.GinMode == "" {
		c.GinMode = "release"
	}
	if c.UploadDir == "" {
		c.UploadDir = filepath.Join("static", "uploads")
	}
	if c.UploadMaxSizeMB == 0 {
		c.UploadMaxSizeMB = 10
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogMaxSizeMB == 0 {
		c.LogMaxSizeMB = 100
	}
	if c.LogMaxBackups == 0 {
		c.LogMaxBackups = 3
	}
	if c.LogMaxAgeDays == 0 {
		c.LogMaxAgeDays = 7
	}
}

func applyEnvOverrides(c *AppConfig) {
	c.AppPort = getEnv("APP_PORT", c.AppPort)
	c.JWTSecret = getEnv("JWT_SECRET", c.JWTSecret)
	c.DatabaseURI = getEnv("DATABASE_URI", c.DatabaseURI)
	c.DBHost = getEnv("DB_HOST", c.DBHost)
	c.DBPort = getEnv("DB_PORT", c.DBPort)
	c.DBUser = getEnv("DB_USER", c.DBUser)
	c.DBPassword = getEnv("DB_PASSWORD", c.DBPassword)
	c.DBName = getEnv("DB_NAME", c.DBName)
	c.RedisHost = getEnv("REDIS_HOST", c.RedisHost)
	c.RedisPort = getEnvInt("REDIS_PORT", c.RedisPort)
	c.RedisDB = getEnvInt("REDIS_DB", c.RedisDB)
	c.RedisPassword = getEnv("REDIS_PASSWORD", c.RedisPassword)
	c.RateLimitPerMinute = getEnvInt("RATE_LIMIT_PER_MINUTE", c.RateLimitPerMinute)
	c.GinMode = getEnv("GIN_MODE", c.GinMode)
	c.GinPath = getEnv("GIN_LOG_PATH", c.GinPath)
	c.UploadDir = getEnv("UPLOAD_DIR", c.UploadDir)
	c.UploadMaxSizeMB = getEnvInt("UPLOAD_MAX_SIZE_MB", c.UploadMaxSizeMB)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.LogPath = getEnv("LOG_PATH", c.LogPath)

	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		parts := strings.Split(v, ",")
		origins := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				origins = append(origins, p)
			}
		}
		if len(origins) > 0 {
			c.AllowedOrigins = origins
		}
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}

// loadJSONConfig reads a JSON file into out if present. A missing file is
// silently ignored; invalid JSON is an error.
func loadJSONConfig(path string, out *AppConfig) error {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	var raw struct {
		App struct {
			AppPort            string   `json:"AppPort"`
			JWTSecret          string   `json:"JWTSecret"`
			AllowedOrigins     []string `json:"AllowedOrigins"`
			RateLimitPerMinute int      `json:"RateLimitPerMinute"`
			GinMode            string   `json:"GinMode"`
			GinPath            string   `json:"GinPath"`
			UploadDir          string   `json:"UploadDir"`
			UploadMaxSizeMB    int      `json:"UploadMaxSizeMB"`
		} `json:"app"`
		Database struct {
			URI      string `json:"URI"`
			Host     string `json:"Host"`
			Port     string `json:"Port"`
			User     string `json:"User"`
			Password string `json:"Password"`
			Name     string `json:"Name"`
		} `json:"database"`
		Redis struct {
			Host     string `json:"Host"`
			Port     int    `json:"Port"`
			DB       int    `json:"DB"`
			Password string `json:"Password"`
		} `json:"redis"`
		Log struct {
			Level      string `json:"Level"`
			Path       string `json:"Path"`
			MaxSizeMB  int    `json:"MaxSizeMB"`
			MaxBackups int    `json:"MaxBackups"`
			MaxAgeDays int    `json:"MaxAgeDays"`
			Compress   bool   `json:"Compress"`
		} `json:"log"`
	}
	if err := json.NewDecoder(f).Decode(&raw); err != nil {
		return err
	}

	out.AppPort = raw.App.AppPort
	out.JWTSecret = raw.App.JWTSecret
	out.AllowedOrigins = raw.App.AllowedOrigins
	out.RateLimitPerMinute = raw.App.RateLimitPerMinute
	out.GinMode = raw.App.GinMode
	out.GinPath = raw.App.GinPath
	out.UploadDir = raw.App.UploadDir
	out.UploadMaxSizeMB = raw.App.UploadMaxSizeMB
	out.DatabaseURI = raw.Database.URI
	out.DBHost = raw.Database.Host
	out.DBPort = raw.Database.Port
	out.DBUser = raw.Database.User
	out.DBPassword = raw.Database.Password
	out.DBName = raw.Database.Name
	out.RedisHost = raw.Redis.Host
	out.RedisPort = raw.Redis.Port
	out.RedisDB = raw.Redis.DB
	out.RedisPassword = raw.Redis.Password
	out.LogLevel = raw.Log.Level
	out.LogPath = raw.Log.Path
	out.LogMaxSizeMB = raw.Log.MaxSizeMB
	out.LogMaxBackups = raw.Log.MaxBackups
	out.LogMaxAgeDays = raw.Log.MaxAgeDays
	out.LogCompress = raw.Log.Compress
	return nil
}
