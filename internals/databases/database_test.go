package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eduarchive_backend/internals/configs"
)

func TestDSN(t *testing.T) {
	cfg := configs.DatabaseConfig{User: "u", Password: "p", Host: "h", Name: "arsip"}

	assert.Equal(t,
		"postgres://u:p@h:5432/arsip?sslmode=require&application_name=eduarchive&options=-c statement_timeout=5000",
		PostgresDSN(cfg))
	assert.Equal(t,
		"u:p@tcp(h:3306)/arsip?charset=utf8mb4&parseTime=True&loc=Local&timeout=5s",
		MySQLDSN(cfg))
}

func TestConnectDB_Memory(t *testing.T) {
	db, err := ConnectDB(configs.DatabaseConfig{Driver: "memory"}, nil)
	require.NoError(t, err)
	assert.Nil(t, db)
	assert.NoError(t, Ping(db))
}

func TestConnectDB_UnknownDriver(t *testing.T) {
	_, err := ConnectDB(configs.DatabaseConfig{Driver: "oracle"}, nil)
	assert.Error(t, err)
}
