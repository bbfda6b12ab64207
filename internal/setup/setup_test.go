package setup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScript(t *testing.T) {
	sql, err := Script()
	require.NoError(t, err)

	for _, table := range RequiredTables {
		assert.Contains(t, sql, "CREATE TABLE IF NOT EXISTS "+table)
	}
	assert.Contains(t, sql, "ON DELETE CASCADE")
	assert.Contains(t, sql, "get_published_config")
	assert.Contains(t, sql, "operator@remote-config.local")
}
