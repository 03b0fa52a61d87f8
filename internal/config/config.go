package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Config はサーバーとターミナルクライアントが共通で使う設定です。
type Config struct {
	Port           string
	AppEnv         string
	LogLevel       zerolog.Level
	JWTSecret      string
	BypassAuth     bool
	AllowedOrigins []string
	FrameInterval  time.Duration
	GameSeed       *int64
	MaxSessions    int
}

// IsProduction は本番環境かどうかを返します。
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// LoadEnvFile は本番環境以外で .env を読み込みます。
// ファイルがない場合のエラーは呼び出し側で警告として扱えます。
func LoadEnvFile() error {
	if os.Getenv("APP_ENV") == "production" {
		return nil
	}
	return godotenv.Load()
}

// Load は環境変数から設定を読み込みます。
//
// Returns:
//
//	*Config: 読み込んだ設定
//	error  : 値の形式が不正な場合のエラー
func Load() (*Config, error) {
	return load(os.Getenv)
}

func load(getenv func(string) string) (*Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg := &Config{
		Port:   get("PORT", "8080"),
		AppEnv: get("APP_ENV", "development"),
	}

	level, err := zerolog.ParseLevel(get("LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	cfg.LogLevel = level

	// SupabaseのJWTシークレットを優先する
	cfg.JWTSecret = get("SUPABASE_JWT_SECRET", getenv("JWT_SECRET"))

	if v := getenv("BYPASS_AUTH"); v != "" {
		cfg.BypassAuth, err = strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid BYPASS_AUTH: %w", err)
		}
	}

	for _, origin := range strings.Split(get("ALLOWED_ORIGINS", "http://localhost:3000"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
		}
	}

	cfg.FrameInterval, err = time.ParseDuration(get("FRAME_INTERVAL", "16ms"))
	if err != nil {
		return nil, fmt.Errorf("invalid FRAME_INTERVAL: %w", err)
	}
	if cfg.FrameInterval <= 0 {
		return nil, fmt.Errorf("invalid FRAME_INTERVAL: must be positive, got %s", cfg.FrameInterval)
	}

	if v := getenv("GAME_SEED"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid GAME_SEED: %w", err)
		}
		cfg.GameSeed = &seed
	}

	cfg.MaxSessions, err = strconv.Atoi(get("MAX_SESSIONS", "100"))
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_SESSIONS: %w", err)
	}

	return cfg, nil
}
