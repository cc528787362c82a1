package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSchemaOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.yaml")
	doc := "member:\n  name: Display Name\n  overall_rank: Rank\nnews:\n  body: Content\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	schema, err := LoadSchema(path)
	require.NoError(t, err)

	assert.Equal(t, "Display Name", schema.Member.Name)
	assert.Equal(t, "Rank", schema.Member.OverallRank)
	assert.Equal(t, "Content", schema.News.Body)
	// untouched keys keep their defaults
	assert.Equal(t, "Password", schema.Member.Password)
	assert.Equal(t, "Date", schema.Event.Date)
}

func TestLoadSchemaMissingFile(t *testing.T) {
	_, err := LoadSchema(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Config{Timezone: "Asia/Bangkok"}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NOTION_TOKEN")
	assert.Contains(t, err.Error(), "MEMBER_DB_ID")
	assert.Contains(t, err.Error(), "JWT_SECRET")

	cfg.NotionToken = "secret"
	cfg.MemberDBID = "db"
	cfg.JWTSecret = "jwt"
	assert.NoError(t, cfg.Validate())

	cfg.Timezone = "Mars/Olympus"
	assert.Error(t, cfg.Validate())
}

func TestApplySecretsKeepsEnvironment(t *testing.T) {
	cfg := Config{NotionToken: "from-env"}
	cfg.applySecrets(map[string]string{
		"NOTION_TOKEN":  "from-secret",
		"IMGBB_API_KEY": "img",
		"JWT_SECRET":    "jwt",
	})
	assert.Equal(t, "from-env", cfg.NotionToken)
	assert.Equal(t, "img", cfg.ImgbbAPIKey)
	assert.Equal(t, "jwt", cfg.JWTSecret)
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("NOTION_BASE_URL", "http://localhost:9999/")
	t.Setenv("RANKING_CACHE_TTL", "90s")
	t.Setenv("IMGBB_TIMEOUT", "not-a-duration")
	t.Setenv("SECRETS_ARN", "")
	t.Setenv("SCHEMA_FILE", "")

	cfg, err := LoadConfig(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9999", cfg.NotionBaseURL)
	assert.Equal(t, "90s", cfg.RankingTTL.String())
	assert.Equal(t, "20s", cfg.ImgbbTimeout.String())
	assert.Equal(t, "ชื่อ", cfg.Schema.Member.Name)
	assert.True(t, cfg.UpgradeLegacyPasswords)
}

func TestLoadConfigLegacyUpgradeFlag(t *testing.T) {
	t.Setenv("SECRETS_ARN", "")
	t.Setenv("SCHEMA_FILE", "")

	t.Setenv("UPGRADE_LEGACY_PASSWORDS", "false")
	cfg, err := LoadConfig(t.Context())
	require.NoError(t, err)
	assert.False(t, cfg.UpgradeLegacyPasswords)

	t.Setenv("UPGRADE_LEGACY_PASSWORDS", "maybe")
	cfg, err = LoadConfig(t.Context())
	require.NoError(t, err)
	assert.True(t, cfg.UpgradeLegacyPasswords)
}
