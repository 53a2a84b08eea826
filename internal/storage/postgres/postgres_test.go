package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/hwextract/internal/config"
	"github.com/cory-johannsen/hwextract/internal/storage/postgres"
	"github.com/cory-johannsen/hwextract/internal/testutil"
)

func dbConfig() config.DatabaseConfig {
	return config.DatabaseConfig{
		Host:            "db.internal",
		Port:            6432,
		User:            "hwx",
		Password:        "secret",
		Name:            "snapshots",
		SSLMode:         "disable",
		MaxConns:        6,
		MinConns:        2,
		MaxConnLifetime: 30 * time.Minute,
	}
}

func TestPoolConfig(t *testing.T) {
	pc, err := postgres.PoolConfig(dbConfig())
	require.NoError(t, err)

	assert.Equal(t, int32(6), pc.MaxConns)
	assert.Equal(t, int32(2), pc.MinConns)
	assert.Equal(t, 30*time.Minute, pc.MaxConnLifetime)
	assert.Equal(t, "db.internal", pc.ConnConfig.Host)
	assert.Equal(t, uint16(6432), pc.ConnConfig.Port)
	assert.Equal(t, "snapshots", pc.ConnConfig.Database)
	assert.Equal(t, postgres.ConnectTimeout, pc.ConnConfig.ConnectTimeout)
	assert.Equal(t, postgres.ApplicationName, pc.ConnConfig.RuntimeParams["application_name"])
}

func TestPoolConfig_BadSSLMode(t *testing.T) {
	cfg := dbConfig()
	cfg.SSLMode = "sometimes"
	_, err := postgres.PoolConfig(cfg)
	assert.ErrorContains(t, err, "parsing database config")
}

func TestNewPool_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	cfg := dbConfig()
	cfg.Host = "127.0.0.1"
	cfg.Port = 1
	cfg.MinConns = 0
	_, err := postgres.NewPool(ctx, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hwx@127.0.0.1:1/snapshots")
}

func TestPool_ApplicationName(t *testing.T) {
	pc := testutil.NewPostgresContainer(t)

	var name string
	require.NoError(t, pc.RawPool.QueryRow(context.Background(), `SHOW application_name`).Scan(&name))
	assert.Equal(t, postgres.ApplicationName, name)
	assert.NotNil(t, pc.Pool.Snapshots())
}
