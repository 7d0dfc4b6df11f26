package bootstrap

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfigFromYAML(t *testing.T) {
	path := writeConfig(t, `
app:
  port: 9090
infra:
  mysql:
    dsn: "root:pw@tcp(db:3306)/shop"
    connMaxLifetime: 5m
  lock:
    driver: zookeeper
auth:
  jwtSecret: "`+testSecret+`"
  tokenTTL: 12h
pricing:
  rules:
    - name: bulk
      expression: "total_quantity >= 3"
      rate: "0.07"
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.App.Port)
	assert.Equal(t, "root:pw@tcp(db:3306)/shop", cfg.Infra.MySQL.DSN)
	assert.Equal(t, 5*time.Minute, cfg.Infra.MySQL.ConnMaxLifetime)
	assert.Equal(t, "zookeeper", cfg.Infra.Lock.Driver)
	assert.Equal(t, 12*time.Hour, cfg.Auth.TokenTTL)
	require.Len(t, cfg.Pricing.Rules, 1)
	assert.Equal(t, "0.07", cfg.Pricing.Rules[0].Rate)
	// 未出现在文件中的字段保留默认值
	assert.Equal(t, "order-emails", cfg.Infra.Kafka.EmailTopic)
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
auth:
  jwtSecret: "`+testSecret+`"
`)
	t.Setenv("APP_PORT", "7000")
	t.Setenv("MYSQL_DSN", "u:p@tcp(other:3306)/x")
	t.Setenv("NACOS_ENABLED", "true")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.App.Port)
	assert.Equal(t, "u:p@tcp(other:3306)/x", cfg.Infra.MySQL.DSN)
	assert.True(t, cfg.Infra.Nacos.Enabled)
}

func TestValidateRejectsWeakSecretAndUnknownLock(t *testing.T) {
	path := writeConfig(t, `
auth:
  jwtSecret: "short"
infra:
  lock:
    driver: etcd
`)
	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "auth.jwtSecret")
	assert.Contains(t, err.Error(), "infra.lock.driver")
}

func TestMissingFileFallsBackToDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultDiscountRules(), cfg.Pricing.Rules)
}
