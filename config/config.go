package config

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

type Config struct {
	Port string

	NotionToken   string
	NotionBaseURL string
	NotionVersion string
	NotionTimeout time.Duration

	MemberDBID string
	EventDBID  string
	NewsDBID   string

	ImgbbAPIKey  string
	ImgbbURL     string
	ImgbbTimeout time.Duration

	JWTSecret string

	// UpgradeLegacyPasswords rewrites a matched plaintext password as a
	// bcrypt hash on login.
	UpgradeLegacyPasswords bool

	Timezone   string
	RankingTTL time.Duration

	MongoURI string
	MongoDB  string

	SchemaFile string
	SecretsARN string

	LogLevel  string
	LogFormat string

	Schema Schema
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw, exists := os.LookupEnv(key)
	if !exists || raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("config: %s=%q is not a duration, using %s", key, raw, fallback)
		return fallback
	}
	return d
}

func getBool(key string, fallback bool) bool {
	raw, exists := os.LookupEnv(key)
	if !exists || raw == "" {
		return fallback
	}
	b, err := cast.ToBoolE(raw)
	if err != nil {
		log.Printf("config: %s=%q is not a boolean, using %t", key, raw, fallback)
		return fallback
	}
	return b
}

// LoadConfig reads .env (when present) and the process environment. Secrets
// are resolved from AWS Secrets Manager when SECRETS_ARN is set, and the
// property-name schema is overlaid from SCHEMA_FILE.
func LoadConfig(ctx context.Context) (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("config: .env file not found, using system environment variables")
	}

	cfg := Config{
		Port: getEnv("PORT", "3000"),

		NotionToken:   getEnv("NOTION_TOKEN", ""),
		NotionBaseURL: strings.TrimRight(getEnv("NOTION_BASE_URL", "https://api.notion.com"), "/"),
		NotionVersion: getEnv("NOTION_VERSION", "2022-06-28"),
		NotionTimeout: getDuration("NOTION_TIMEOUT", 0),

		MemberDBID: getEnv("MEMBER_DB_ID", ""),
		EventDBID:  getEnv("EVENT_DB_ID", ""),
		NewsDBID:   getEnv("NEWS_DB_ID", ""),

		ImgbbAPIKey:  getEnv("IMGBB_API_KEY", ""),
		ImgbbURL:     getEnv("IMGBB_URL", "https://api.imgbb.com/1/upload"),
		ImgbbTimeout: getDuration("IMGBB_TIMEOUT", 20*time.Second),

		JWTSecret:              getEnv("JWT_SECRET", ""),
		UpgradeLegacyPasswords: getBool("UPGRADE_LEGACY_PASSWORDS", true),

		Timezone:   getEnv("LSX_TIMEZONE", "Asia/Bangkok"),
		RankingTTL: getDuration("RANKING_CACHE_TTL", 5*time.Minute),

		MongoURI: getEnv("MONGO_URI", ""),
		MongoDB:  getEnv("MONGO_DB", "lsx"),

		SchemaFile: getEnv("SCHEMA_FILE", ""),
		SecretsARN: getEnv("SECRETS_ARN", ""),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		Schema: DefaultSchema(),
	}

	if cfg.SecretsARN != "" {
		secrets, err := FetchSecrets(ctx, cfg.SecretsARN)
		if err != nil {
			return cfg, fmt.Errorf("load secrets: %w", err)
		}
		cfg.applySecrets(secrets)
	}

	if cfg.SchemaFile != "" {
		schema, err := LoadSchema(cfg.SchemaFile)
		if err != nil {
			return cfg, fmt.Errorf("load schema: %w", err)
		}
		cfg.Schema = schema
	}

	return cfg, nil
}

// applySecrets fills only the keys the environment left empty.
func (c *Config) applySecrets(s map[string]string) {
	if v := s["NOTION_TOKEN"]; v != "" && c.NotionToken == "" {
		c.NotionToken = v
	}
	if v := s["IMGBB_API_KEY"]; v != "" && c.ImgbbAPIKey == "" {
		c.ImgbbAPIKey = v
	}
	if v := s["JWT_SECRET"]; v != "" && c.JWTSecret == "" {
		c.JWTSecret = v
	}
}

func (c Config) Validate() error {
	var missing []string
	if c.NotionToken == "" {
		missing = append(missing, "NOTION_TOKEN")
	}
	if c.MemberDBID == "" {
		missing = append(missing, "MEMBER_DB_ID")
	}
	if c.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return errors.New("LSX_TIMEZONE is not a known IANA zone")
	}
	return nil
}

// Location is the civil timezone used for "today".
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
