package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database
	Database DatabaseConfig

	// Redis
	Redis RedisConfig

	// External APIs
	KIS    KISConfig
	DART   DARTConfig
	Naver  NaverConfig
	Tavily TavilyConfig
	Gemini GeminiConfig

	// Local data directories (CSV cache / averaging history)
	Data DataConfig

	// Kakao skill server
	Kakao KakaoConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL     string
	Enabled bool

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// KISConfig holds KIS (한국투자증권) API configuration
type KISConfig struct {
	AppKey        string
	AppSecret     string
	AccountID     string // 계좌번호 앞 8자리 (CANO)
	AccountSuffix string // 계좌상품코드 뒤 2자리 (ACNT_PRDT_CD)
	Env           string // "prod"(실전) | "vps"(모의)
	BaseURL       string
}

// IsVirtual reports whether the account runs against the paper-trading server
func (c KISConfig) IsVirtual() bool {
	return c.Env == "vps"
}

// DARTConfig holds DART (전자공시) API configuration
type DARTConfig struct {
	APIKey  string
	BaseURL string
}

// NaverConfig holds Naver Finance configuration
type NaverConfig struct {
	BaseURL string
}

// TavilyConfig holds Tavily web search configuration
type TavilyConfig struct {
	APIKey  string
	BaseURL string
}

// GeminiConfig holds the generative language model configuration
type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// DataConfig holds local flat-file storage paths and the collection watchlist
type DataConfig struct {
	ProcessedDir string // collected CSVs (prices, index, financials, filings)
	AveragingDir string // averaging-down calculation history (JSON)
	GlossaryPath string

	Tickers []string // 수집 대상 종목
	Days    int      // price history window
}

// KakaoConfig holds the skill-server facing settings
type KakaoConfig struct {
	DetailBaseURL string // 상세 리포트 웹 링크 prefix
	ChartBaseURL  string // 차트 썸네일 prefix
}

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	loadEnvFile()

	kisEnv, err := normalizeKISEnv(getEnv("KIS_ENV", "prod"))
	if err != nil {
		return nil, err
	}

	kisBase := "https://openapi.koreainvestment.com:9443"
	if kisEnv == "vps" {
		kisBase = "https://openapivts.koreainvestment.com:29443"
	}

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "8090"),
		Env:  getEnv("ENV", "development"),

		// Database
		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			Enabled:         getEnvAsBool("DATABASE_ENABLED", false),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		// Redis
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		// External APIs
		KIS: KISConfig{
			AppKey:        getEnv("KIS_APP_KEY", ""),
			AppSecret:     getEnv("KIS_APP_SECRET", ""),
			AccountID:     getEnv("KIS_ACCOUNT_ID", ""),
			AccountSuffix: getEnv("KIS_ACCOUNT_SUFFIX", "01"),
			Env:           kisEnv,
			BaseURL:       getEnv("KIS_BASE_URL", kisBase),
		},

		DART: DARTConfig{
			APIKey:  getEnv("DART_API_KEY", ""),
			BaseURL: getEnv("DART_BASE_URL", "https://opendart.fss.or.kr"),
		},

		Naver: NaverConfig{
			BaseURL: getEnv("NAVER_BASE_URL", "https://finance.naver.com"),
		},

		Tavily: TavilyConfig{
			APIKey:  getEnv("TAVILY_API_KEY", ""),
			BaseURL: getEnv("TAVILY_BASE_URL", "https://api.tavily.com"),
		},

		Gemini: GeminiConfig{
			APIKey:  getEnv("GEMINI_API_KEY", ""),
			Model:   getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
			BaseURL: getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
		},

		Data: DataConfig{
			ProcessedDir: getEnv("DATA_PROCESSED_DIR", "processed"),
			AveragingDir: getEnv("DATA_AVERAGING_DIR", "averaging_history"),
			GlossaryPath: getEnv("GLOSSARY_PATH", "glossary.json"),
			Tickers:      getEnvAsSlice("TICKERS", []string{"005930", "000660", "035420"}),
			Days:         getEnvAsInt("DAYS", 120),
		},

		Kakao: KakaoConfig{
			DetailBaseURL: getEnv("KAKAO_DETAIL_BASE_URL", "https://example.com/report"),
			ChartBaseURL:  getEnv("KAKAO_CHART_BASE_URL", "https://example.com/chart"),
		},

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// normalizeKISEnv maps the accepted aliases to "prod" or "vps"
func normalizeKISEnv(env string) (string, error) {
	switch env {
	case "prod", "real":
		return "prod", nil
	case "vps", "paper", "demo", "sandbox", "vts":
		return "vps", nil
	default:
		return "", fmt.Errorf("KIS_ENV must be one of prod|vps (got %q)", env)
	}
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Database.Enabled && c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required when DATABASE_ENABLED=true")
	}

	return nil
}

// RequireKIS fails unless the brokerage credentials are complete.
// 주문/잔고 기능을 쓰는 커맨드에서만 호출함
func (c *Config) RequireKIS() error {
	missing := []string{}
	if c.KIS.AppKey == "" {
		missing = append(missing, "KIS_APP_KEY")
	}
	if c.KIS.AppSecret == "" {
		missing = append(missing, "KIS_APP_SECRET")
	}
	if c.KIS.AccountID == "" {
		missing = append(missing, "KIS_ACCOUNT_ID")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing KIS credentials: %v", missing)
	}
	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	var values []string
	for _, v := range strings.Split(valueStr, ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return defaultValue
	}
	return values
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
