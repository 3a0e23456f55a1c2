package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDialect(t *testing.T) {
	tests := []struct {
		provider string
		want     SQLDialect
		ok       bool
	}{
		{"postgresql", PostgreSQL, true},
		{"pgsql", PostgreSQL, true},
		{"mariadb", MySQL, true},
		{"sqlite3", SQLite, true},
		{"oracle", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			got, ok := ParseDialect(tt.provider)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfigDurations(t *testing.T) {
	assert.Equal(t, DefaultConnectTimeout, Config{}.Timeout())
	assert.Equal(t, 3*time.Second, Config{ConnectTimeout: 3}.Timeout())
	assert.Equal(t, time.Minute, Config{MaxIdleTime: 60}.IdleTime())
}
