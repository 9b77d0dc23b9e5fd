package database_test

import (
	"testing"

	"go-gin-seat-map/config"
	"go-gin-seat-map/internal/database"

	"github.com/stretchr/testify/assert"
)

func TestDSN(t *testing.T) {
	cfg := config.LoadTestConfig()

	dsn := database.DSN(&cfg.Database)

	assert.Equal(t, "host=localhost port=5433 user=postgres password=postgres dbname=test_db sslmode=disable timezone=UTC", dsn)
}
