package cache_test

import (
	"context"
	"log"
	"os"
	"testing"

	"go-gin-seat-map/internal/testutil"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var testRdb *redis.Client

func TestMain(m *testing.M) {
	rdb, cleanup, err := testutil.SetupRedis(context.Background())
	if err != nil {
		log.Printf("redis unavailable, redis session store tests will be skipped: %v", err)
		os.Exit(m.Run())
	}
	testRdb = rdb
	log.Println("Running cache tests...")
	code := m.Run()
	cleanup()
	os.Exit(code)
}

func getTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	if testRdb == nil {
		t.Skip("redis not available")
	}
	return testRdb
}

func newSessionID() string {
	return uuid.New().String()
}
