package clickhouse

import (
	"crypto/tls"
	"testing"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yildizemre/visapa/internal/config"
)

func TestConnOptions(t *testing.T) {
	cfg := &config.ClickHouseConfig{
		Host:               "clickhouse",
		Port:               "9440",
		Database:           "telemetry",
		User:               "visapa",
		MaxOpenConns:       5,
		MaxIdleConns:       2,
		ConnMaxLifetimeSec: 600,
	}

	opts := connOptions(cfg)

	assert.Equal(t, []string{"clickhouse:9440"}, opts.Addr)
	assert.Equal(t, "telemetry", opts.Auth.Database)
	assert.Equal(t, "visapa", opts.Auth.Username)
	assert.Equal(t, 10*time.Minute, opts.ConnMaxLifetime)
	require.NotNil(t, opts.Compression)
	assert.Equal(t, clickhouse.CompressionLZ4, opts.Compression.Method)
	assert.Nil(t, opts.TLS)

	cfg.UseTLS = true
	opts = connOptions(cfg)

	require.NotNil(t, opts.TLS)
	assert.Equal(t, uint16(tls.VersionTLS12), opts.TLS.MinVersion)
}
