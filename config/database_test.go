package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(values map[string]string) func(string) string {
	return func(key string) string {
		return values[key]
	}
}

func TestPoolConfig(t *testing.T) {
	base := map[string]string{
		"DB_MAX_CONNECTIONS": "8",
		"DB_READ_HOST":       "replica.internal",
		"DB_READ_USERNAME":   "reader",
		"DB_READ_PASSWORD":   `p@ss 'word`,
		"DB_READ_NAME":       "raket",
		"DB_READ_PARAM":      "port=5433 sslmode=disable",
		"DB_WRITE_HOST":      "primary.internal",
		"DB_WRITE_USERNAME":  "writer",
		"DB_WRITE_NAME":      "raket",
		"DB_WRITE_PARAM":     "sslmode=disable application_name=raket-migrator",
	}

	t.Run("read pool", func(t *testing.T) {
		config, err := poolConfig(dbRead, env(base))
		require.NoError(t, err)
		assert.Equal(t, "replica.internal", config.ConnConfig.Host)
		assert.Equal(t, uint16(5433), config.ConnConfig.Port)
		assert.Equal(t, "reader", config.ConnConfig.User)
		assert.Equal(t, `p@ss 'word`, config.ConnConfig.Password)
		assert.Equal(t, "raket", config.ConnConfig.Database)
		assert.Equal(t, int32(8), config.MaxConns)
		assert.Equal(t, "raket-read", config.ConnConfig.RuntimeParams["application_name"])
	})
	t.Run("write pool keeps explicit application name", func(t *testing.T) {
		config, err := poolConfig(dbWrite, env(base))
		require.NoError(t, err)
		assert.Equal(t, "primary.internal", config.ConnConfig.Host)
		assert.Equal(t, "writer", config.ConnConfig.User)
		assert.Equal(t, "raket-migrator", config.ConnConfig.RuntimeParams["application_name"])
	})
	for _, value := range []string{"", "0", "-2", "many", "4294967296"} {
		t.Run("max connections "+value, func(t *testing.T) {
			values := map[string]string{}
			for k, v := range base {
				values[k] = v
			}
			values["DB_MAX_CONNECTIONS"] = value
			_, err := poolConfig(dbRead, env(values))
			assert.Error(t, err)
		})
	}
}

func TestQuoteValue(t *testing.T) {
	assert.Equal(t, "raket", quoteValue("raket"))
	assert.Equal(t, "''", quoteValue(""))
	assert.Equal(t, `'a b'`, quoteValue("a b"))
	assert.Equal(t, `'it\'s \\ here'`, quoteValue(`it's \ here`))
}
