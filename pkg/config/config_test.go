package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/consignaciones-api/pkg/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Storage.Driver)
	assert.Equal(t, 6, cfg.Inventory.DefaultWarrantyMonths)
	assert.Equal(t, "COP", cfg.Settlement.DefaultCurrency)
	assert.False(t, cfg.Settlement.AllowCreditBalance)
	assert.Equal(t, 30*time.Second, cfg.Redis.CacheTTL)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("INVENTORY_DEFAULT_WARRANTY_MONTHS", "12")
	t.Setenv("SETTLEMENT_ALLOW_CREDIT_BALANCE", "true")
	t.Setenv("SETTLEMENT_DEFAULT_CURRENCY", "usd")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, 12, cfg.Inventory.DefaultWarrantyMonths)
	assert.True(t, cfg.Settlement.AllowCreditBalance)
	assert.Equal(t, "USD", cfg.Settlement.DefaultCurrency)
}

func TestLoad_Invalido(t *testing.T) {
	t.Setenv("NOTIFY_DRIVER", "asynq")
	_, err := config.Load()
	assert.Error(t, err, "asynq sin REDIS_ADDR")

	t.Setenv("NOTIFY_DRIVER", "log")
	t.Setenv("STORAGE_DRIVER", "mongo")
	_, err = config.Load()
	assert.Error(t, err)
}

func TestDSN(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "u", Password: "p@ss", DBName: "x", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p%40ss@db:5432/x?sslmode=disable", c.DSN())
	c.DatabaseURL = "postgres://otro"
	assert.Equal(t, "postgres://otro", c.ConnectionString())
}
