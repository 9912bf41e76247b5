package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAccounts(t *testing.T) {
	accs, err := ParseAccounts(" Admin:$2a$10$abc:admin ; ops:$2a$10$def:operator;")
	require.NoError(t, err)
	require.Len(t, accs, 2)
	assert.Equal(t, "admin", accs[0].Username)
	assert.Equal(t, "$2a$10$abc", accs[0].PasswordHash)
	assert.Equal(t, "operator", accs[1].Role)

	none, err := ParseAccounts("")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestParseAccounts_Invalid(t *testing.T) {
	cases := map[string]string{
		"kurang kolom":     "admin:hash",
		"hash kosong":      "admin::admin",
		"role tak dikenal": "admin:hash:root",
		"username ganda":   "a:h:admin;A:h:viewer",
	}
	for name, spec := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseAccounts(spec)
			assert.Error(t, err)
		})
	}
}
