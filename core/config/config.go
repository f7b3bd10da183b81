package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type ServerConfig struct {
	Port     int    `mapstructure:"port"`
	LogLevel string `mapstructure:"log_level"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"name"`
	SSLMode  string `mapstructure:"ssl_mode"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type JWTConfig struct {
	Secret          string `mapstructure:"secret"`
	AccessTTLHours  int    `mapstructure:"access_ttl_hours"`
	RefreshTTLHours int    `mapstructure:"refresh_ttl_hours"`
}

type AttendanceConfig struct {
	// SigningSecret is the process-wide key for attendance token HMACs.
	SigningSecret string `mapstructure:"signing_secret"`
}

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	JWT        JWTConfig        `mapstructure:"jwt"`
	Attendance AttendanceConfig `mapstructure:"attendance"`
}

var (
	instance *Config
	mu       sync.RWMutex
)

// Load reads .env (if present) and environment variables into the process
// config. Environment keys use underscores: SERVER_PORT, DATABASE_HOST,
// JWT_SECRET, ATTENDANCE_SIGNING_SECRET, ...
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.port", 7070)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "nookly")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("jwt.access_ttl_hours", 24)
	v.SetDefault("jwt.refresh_ttl_hours", 24*7)

	// Bind explicitly so AutomaticEnv sees nested keys.
	for _, key := range []string{
		"server.port", "server.log_level",
		"database.host", "database.port", "database.user",
		"database.password", "database.name", "database.ssl_mode",
		"redis.addr", "redis.password", "redis.db",
		"jwt.secret", "jwt.access_ttl_hours", "jwt.refresh_ttl_hours",
		"attendance.signing_secret",
	} {
		_ = v.BindEnv(key)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.Attendance.SigningSecret == "" {
		return nil, fmt.Errorf("ATTENDANCE_SIGNING_SECRET is required")
	}

	mu.Lock()
	instance = cfg
	mu.Unlock()
	return cfg, nil
}

// Get returns the loaded config. Panics if Load has not been called; use
// GetSafe where startup order is not guaranteed.
func Get() *Config {
	mu.RLock()
	defer mu.RUnlock()
	if instance == nil {
		panic("config: Get called before Load")
	}
	return instance
}

func GetSafe() (*Config, error) {
	mu.RLock()
	defer mu.RUnlock()
	if instance == nil {
		return nil, fmt.Errorf("config not loaded")
	}
	return instance, nil
}
