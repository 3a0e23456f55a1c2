package placeholder

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasKeyword(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		want bool
	}{
		{"bare", "INSERT INTO t (a) VALUES (1) RETURNING id", true},
		{"lower case", "delete from t returning *", true},
		{"single quoted", "UPDATE fruit SET note = 'returning soon' WHERE id IN (1, 2)", false},
		{"double quoted", `UPDATE t SET "returning" = 1`, false},
		{"escaped quote inside literal", `UPDATE t SET note = 'it\'s returning'`, false},
		{"after literal", "UPDATE t SET note = 'x' RETURNING id", true},
		{"part of a word", "UPDATE t SET returning_at = 1", false},
		{"suffix of a word", "UPDATE t SET notreturning = 1", false},
		{"unterminated quote", "UPDATE t SET note = 'RETURNING", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HasKeyword(tt.sql, "RETURNING"))
		})
	}

	assert.False(t, HasKeyword("SELECT 1", ""))
}
