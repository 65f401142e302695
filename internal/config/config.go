package config

import (
	"fmt"
	"os"
	"strconv"
)

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MaxIdle  int
}

// GetDSN 获取数据库连接字符串
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

// RedisConfig Redis配置
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Enabled  bool // 未启用时风险事件不发布到 Streams（通知投递由外部协作方负责）
}

// Config 会话安全监测服务配置
type Config struct {
	Database DatabaseConfig
	Redis    RedisConfig

	HTTP struct {
		Addr string
	}

	// 外部语音转写协作方
	ASR struct {
		BaseURL string
	}

	Safety struct {
		LexiconPath     string // 可选的 YAML 词库覆盖，空则使用内置词库
		RiskStream      string // 风险事件发布的 Streams 名称
		FeedWindowHours int    // subject 聚合的尾随窗口（小时）
		FeedRecentLimit int    // 信息流返回的最近事件条数
		PollInterval    int    // 会话监控器轮询间隔（秒）
	}

	Log struct {
		Level  string
		Format string
	}
}

// Load 加载配置（环境变量覆盖代码默认值）
func Load() (*Config, error) {
	cfg := &Config{}

	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = getEnvInt("DB_PORT", 5432)
	cfg.Database.User = getEnv("DB_USER", "postgres")
	cfg.Database.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.Database.Database = getEnv("DB_NAME", "session_safety")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.Database.MaxConns = getEnvInt("DB_MAX_CONNS", 10)
	cfg.Database.MaxIdle = getEnvInt("DB_MAX_IDLE", 5)

	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = getEnvInt("REDIS_DB", 0)
	cfg.Redis.Enabled = getEnv("REDIS_ENABLED", "true") == "true"

	cfg.HTTP.Addr = getEnv("HTTP_ADDR", ":8085")

	cfg.ASR.BaseURL = getEnv("ASR_BASE_URL", "http://localhost:8090")

	cfg.Safety.LexiconPath = getEnv("LEXICON_PATH", "")
	cfg.Safety.RiskStream = getEnv("RISK_STREAM", "session-safety:risk-events")
	cfg.Safety.FeedWindowHours = getEnvInt("FEED_WINDOW_HOURS", 24)
	cfg.Safety.FeedRecentLimit = getEnvInt("FEED_RECENT_LIMIT", 10)
	cfg.Safety.PollInterval = getEnvInt("MONITOR_POLL_INTERVAL", 5)

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}
