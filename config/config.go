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

// AppConfig holds file and environment driven configuration values.
// Secrets should never have defaults inside code and must be provided via env files or the environment.
type AppConfig struct {
	AppPort        string
	AllowedOrigins []string
	// Remote REST API
	APIBaseURL    string
	APITimeoutSec int
	// Gin framework configuration
	GinMode string
	GinPath string
	// Session persistence
	SessionBackend  string // memory | redis | sql | cookie
	SessionCookie   string
	SessionTTLHours int
	SessionSecret   string
	CookieSecure    bool
	// SQL session backend
	DatabaseDriver string // mysql | sqlite
	DatabaseURI    string
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	// Redis session backend
	RedisHost     string
	RedisPort     int
	RedisDB       int
	RedisPassword string
	// Abuse protection
	RateLimitPerMinute int
	CaptchaEnabled     bool
	// Site defaults, editable at runtime from the dashboard
	SiteName        string
	SiteDescription string
	PostsPerPage    int
	// Contact form delivery
	ContactTo    string
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
	SMTPFromName string
	SMTPTLS      bool
	// Logging configuration
	LogLevel      string
	LogPath       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
	LogCompress   bool
}

var cfg AppConfig
var loaded bool

// Load loads the application configuration. It should be called once during boot.
func Load() AppConfig {
	if loaded {
		return cfg
	}

	// .env only seeds the process environment; real env vars win.
	_ = godotenv.Load()

	c, err := LoadFrom(filepath.Join("config", "config.json"))
	if err != nil {
		log.Fatalf("invalid config/config.json: %v", err)
	}
	if c.SessionBackend == "cookie" && c.SessionSecret == "" {
		log.Fatal("SESSION_SECRET must be set when SESSION_BACKEND=cookie")
	}

	Set(c)
	return cfg
}

// LoadFrom builds a configuration with precedence: JSON file -> defaults -> environment overrides.
func LoadFrom(path string) (AppConfig, error) {
	var c AppConfig
	if err := loadJSONConfig(path, &c); err != nil {
		return c, err
	}
	applyDefaults(&c)
	applyEnvOverrides(&c)
	return c, nil
}

// Set replaces the cached configuration.
func Set(c AppConfig) {
	cfg = c
	loaded = true
}

// Get returns the cached configuration, loading it if necessary.
func Get() AppConfig {
	if !loaded {
		return Load()
	}
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// loadJSONConfig reads JSON file into out if present. Returns error only for invalid JSON.
func loadJSONConfig(path string, out *AppConfig) error {
	f, err := os.Open(path)
	if err != nil {
		return nil // silently ignore missing file
	}
	defer f.Close()

	var raw map[string]any
	if err := json.NewDecoder(f).Decode(&raw); err != nil {
		return err
	}

	getString := func(m map[string]any, key string) string {
		if s, ok := m[key].(string); ok {
			return s
		}
		return ""
	}
	getInt := func(m map[string]any, key string) int {
		if v, ok := m[key].(float64); ok {
			return int(v)
		}
		return 0
	}
	getBool := func(m map[string]any, key string) bool {
		b, _ := m[key].(bool)
		return b
	}
	getStringSlice := func(m map[string]any, key string) []string {
		arr, ok := m[key].([]any)
		if !ok {
			return nil
		}
		res := make([]string, 0, len(arr))
		for _, it := range arr {
			if s, ok := it.(string); ok {
				res = append(res, s)
			}
		}
		return res
	}

	if app, ok := raw["app"].(map[string]any); ok {
		out.AppPort = getString(app, "AppPort")
		out.RateLimitPerMinute = getInt(app, "RateLimitPerMinute")
		out.CaptchaEnabled = getBool(app, "CaptchaEnabled")
		if list := getStringSlice(app, "AllowedOrigins"); len(list) > 0 {
			out.AllowedOrigins = list
		}
	}

	if a, ok := raw["api"].(map[string]any); ok {
		out.APIBaseURL = getString(a, "BaseURL")
		out.APITimeoutSec = getInt(a, "TimeoutSec")
	}

	if g, ok := raw["gin"].(map[string]any); ok {
		out.GinMode = getString(g, "Mode")
		out.GinPath = getString(g, "LogPath")
	}

	if s, ok := raw["session"].(map[string]any); ok {
		out.SessionBackend = getString(s, "Backend")
		out.SessionCookie = getString(s, "CookieName")
		out.SessionTTLHours = getInt(s, "TTLHours")
		out.SessionSecret = getString(s, "Secret")
		out.CookieSecure = getBool(s, "Secure")
	}

	if dbs, ok := raw["database"].(map[string]any); ok {
		out.DatabaseDriver = getString(dbs, "Driver")
		out.DatabaseURI = getString(dbs, "DatabaseURI")
		out.DBHost = getString(dbs, "DBHost")
		out.DBPort = getString(dbs, "DBPort")
		out.DBUser = getString(dbs, "DBUser")
		out.DBPassword = getString(dbs, "DBPassword")
		out.DBName = getString(dbs, "DBName")
	}

	if rds, ok := raw["redis"].(map[string]any); ok {
		out.RedisHost = getString(rds, "RedisHost")
		out.RedisPort = getInt(rds, "RedisPort")
		out.RedisDB = getInt(rds, "RedisDB")
		out.RedisPassword = getString(rds, "RedisPassword")
	}

	if st, ok := raw["site"].(map[string]any); ok {
		out.SiteName = getString(st, "Name")
		out.SiteDescription = getString(st, "Description")
		out.PostsPerPage = getInt(st, "PostsPerPage")
		out.ContactTo = getString(st, "ContactTo")
	}

	if sm, ok := raw["smtp"].(map[string]any); ok {
		out.SMTPHost = getString(sm, "SMTPHost")
		out.SMTPPort = getInt(sm, "SMTPPort")
		out.SMTPUsername = getString(sm, "SMTPUsername")
		out.SMTPPassword = getString(sm, "SMTPPassword")
		out.SMTPFrom = getString(sm, "SMTPFrom")
		out.SMTPFromName = getString(sm, "SMTPFromName")
		out.SMTPTLS = getBool(sm, "SMTPTLS")
	}

	if lg, ok := raw["log"].(map[string]any); ok {
		out.LogLevel = getString(lg, "Level")
		out.LogPath = getString(lg, "Path")
		out.LogMaxSizeMB = getInt(lg, "MaxSizeMB")
		out.LogMaxBackups = getInt(lg, "MaxBackups")
		out.LogMaxAgeDays = getInt(lg, "MaxAgeDays")
		out.LogCompress = getBool(lg, "Compress")
	}

	return nil
}

func applyDefaults(c *AppConfig) {
	if c.AppPort == "" {
		c.AppPort = "8080"
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"*"}
	}
	if c.APIBaseURL == "" {
		c.APIBaseURL = "http://localhost:5000/api"
	}
	if c.APITimeoutSec == 0 {
		c.APITimeoutSec = 10
	}
	if c.GinMode == "" {
		c.GinMode = "release"
	}
	if c.GinPath == "" {
		c.GinPath = "logs/go_gin.log"
	}
	if c.SessionBackend == "" {
		c.SessionBackend = "memory"
	}
	if c.SessionCookie == "" {
		c.SessionCookie = "folio_session"
	}
	if c.SessionTTLHours == 0 {
		c.SessionTTLHours = 24 * 7
	}
	if c.DatabaseDriver == "" {
		c.DatabaseDriver = "mysql"
	}
	if c.DBHost == "" {
		c.DBHost = "127.0.0.1"
	}
	if c.DBPort == "" {
		c.DBPort = "3306"
	}
	if c.DBUser == "" {
		c.DBUser = "root"
	}
	if c.DBName == "" {
		c.DBName = "folio"
	}
	if c.RedisHost == "" {
		c.RedisHost = "127.0.0.1"
	}
	if c.RedisPort == 0 {
		c.RedisPort = 6379
	}
	if c.RateLimitPerMinute == 0 {
		c.RateLimitPerMinute = 20
	}
	if c.SiteName == "" {
		c.SiteName = "TechJourney"
	}
	if c.SiteDescription == "" {
		c.SiteDescription = "A developer's journey through code, projects, and continuous learning"
	}
	if c.PostsPerPage == 0 {
		c.PostsPerPage = 12
	}
	if c.SMTPPort == 0 {
		c.SMTPPort = 587
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogPath == "" {
		c.LogPath = "logs/app.log"
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
	if v := getEnv("APP_PORT", ""); v != "" {
		c.AppPort = v
	}
	if v := getEnv("CORS_ALLOWED_ORIGINS", ""); v != "" {
		c.AllowedOrigins = readListEnv("CORS_ALLOWED_ORIGINS", c.AllowedOrigins)
	}
	if v := getEnv("API_BASE_URL", ""); v != "" {
		c.APIBaseURL = strings.TrimRight(v, "/")
	}
	if v := getEnv("API_TIMEOUT_SEC", ""); v != "" {
		c.APITimeoutSec = mustParseInt(v)
	}
	if v := getEnv("GIN_MODE", ""); v != "" {
		c.GinMode = v
	}
	if v := getEnv("GIN_PATH", ""); v != "" {
		c.GinPath = v
	}
	if v := getEnv("SESSION_BACKEND", ""); v != "" {
		c.SessionBackend = strings.ToLower(v)
	}
	if v := getEnv("SESSION_COOKIE", ""); v != "" {
		c.SessionCookie = v
	}
	if v := getEnv("SESSION_TTL_HOURS", ""); v != "" {
		c.SessionTTLHours = mustParseInt(v)
	}
	if v := getEnv("SESSION_SECRET", ""); v != "" {
		c.SessionSecret = v
	}
	if v := getEnv("COOKIE_SECURE", ""); v != "" {
		c.CookieSecure = parseBool(v)
	}
	if v := getEnv("DATABASE_DRIVER", ""); v != "" {
		c.DatabaseDriver = strings.ToLower(v)
	}
	if v := getEnv("DATABASE_URI", ""); v != "" {
		c.DatabaseURI = v
	}
	if v := getEnv("DB_HOST", ""); v != "" {
		c.DBHost = v
	}
	if v := getEnv("DB_PORT", ""); v != "" {
		c.DBPort = v
	}
	if v := getEnv("DB_USER", ""); v != "" {
		c.DBUser = v
	}
	if v := getEnv("DB_PASSWORD", ""); v != "" {
		c.DBPassword = v
	}
	if v := getEnv("DB_NAME", ""); v != "" {
		c.DBName = v
	}
	if v := getEnv("REDIS_HOST", ""); v != "" {
		c.RedisHost = v
	}
	if v := getEnv("REDIS_PORT", ""); v != "" {
		c.RedisPort = mustParseInt(v)
	}
	if v := getEnv("REDIS_DB", ""); v != "" {
		c.RedisDB = mustParseInt(v)
	}
	if v := getEnv("REDIS_PASSWORD", ""); v != "" {
		c.RedisPassword = v
	}
	if v := getEnv("RATE_LIMIT_PER_MINUTE", ""); v != "" {
		c.RateLimitPerMinute = mustParseInt(v)
	}
	if v := getEnv("CAPTCHA_ENABLED", ""); v != "" {
		c.CaptchaEnabled = parseBool(v)
	}
	if v := getEnv("SITE_NAME", ""); v != "" {
		c.SiteName = v
	}
	if v := getEnv("SITE_DESCRIPTION", ""); v != "" {
		c.SiteDescription = v
	}
	if v := getEnv("POSTS_PER_PAGE", ""); v != "" {
		c.PostsPerPage = mustParseInt(v)
	}
	if v := getEnv("CONTACT_TO", ""); v != "" {
		c.ContactTo = v
	}
	if v := getEnv("SMTP_HOST", ""); v != "" {
		c.SMTPHost = v
	}
	if v := getEnv("SMTP_PORT", ""); v != "" {
		c.SMTPPort = mustParseInt(v)
	}
	if v := getEnv("SMTP_USERNAME", ""); v != "" {
		c.SMTPUsername = v
	}
	if v := getEnv("SMTP_PASSWORD", ""); v != "" {
		c.SMTPPassword = v
	}
	if v := getEnv("SMTP_FROM", ""); v != "" {
		c.SMTPFrom = v
	}
	if v := getEnv("SMTP_FROM_NAME", ""); v != "" {
		c.SMTPFromName = v
	}
	if v := getEnv("SMTP_TLS", ""); v != "" {
		c.SMTPTLS = parseBool(v)
	}
	if v := getEnv("LOG_LEVEL", ""); v != "" {
		c.LogLevel = v
	}
	if v := getEnv("LOG_PATH", ""); v != "" {
		c.LogPath = v
	}
	if v := getEnv("LOG_MAX_SIZE_MB", ""); v != "" {
		c.LogMaxSizeMB = mustParseInt(v)
	}
	if v := getEnv("LOG_MAX_BACKUPS", ""); v != "" {
		c.LogMaxBackups = mustParseInt(v)
	}
	if v := getEnv("LOG_MAX_AGE_DAYS", ""); v != "" {
		c.LogMaxAgeDays = mustParseInt(v)
	}
	if v := getEnv("LOG_COMPRESS", ""); v != "" {
		c.LogCompress = parseBool(v)
	}
}

func mustParseInt(val string) int {
	i, err := strconv.Atoi(val)
	if err != nil {
		log.Fatalf("invalid integer value %s: %v", val, err)
	}
	return i
}

func parseBool(val string) bool {
	b, err := strconv.ParseBool(val)
	return err == nil && b
}

func readListEnv(key string, defaults []string) []string {
	if raw := os.Getenv(key); raw != "" {
		return splitAndTrim(raw)
	}
	return defaults
}

func splitAndTrim(raw string) []string {
	items := []string{}
	for _, item := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
