// Package testutil starts throwaway Redis and Postgres containers for
// integration tests. Callers skip their tests when Docker is unavailable.
package testutil

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	redisImage    = "redis:7-alpine"
	postgresImage = "postgres:16-alpine"
)

// SetupRedis starts a Redis container and returns a connected client.
func SetupRedis(ctx context.Context) (client *redis.Client, cleanup func(), err error) {
	defer recoverDocker(&err)

	container, err := tcredis.Run(ctx, redisImage)
	if err != nil {
		return nil, nil, fmt.Errorf("start redis container: %w", err)
	}
	uri, err := container.ConnectionString(ctx)
	if err != nil {
		_ = testcontainers.TerminateContainer(container)
		return nil, nil, fmt.Errorf("redis connection string: %w", err)
	}
	opts, err := redis.ParseURL(uri)
	if err != nil {
		_ = testcontainers.TerminateContainer(container)
		return nil, nil, fmt.Errorf("parse redis url: %w", err)
	}
	client = redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = testcontainers.TerminateContainer(container)
		return nil, nil, fmt.Errorf("ping redis: %w", err)
	}
	log.Println("Test redis connected successfully")

	cleanup = func() {
		_ = client.Close()
		_ = testcontainers.TerminateContainer(container)
		log.Println("Test redis closed")
	}
	return client, cleanup, nil
}

// SetupPostgres starts a Postgres container and returns a pool connected to it.
func SetupPostgres(ctx context.Context) (pool *pgxpool.Pool, cleanup func(), err error) {
	defer recoverDocker(&err)

	container, err := tcpostgres.Run(ctx, postgresImage,
		tcpostgres.WithDatabase("test_db"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("start postgres container: %w", err)
	}
	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = testcontainers.TerminateContainer(container)
		return nil, nil, fmt.Errorf("postgres connection string: %w", err)
	}
	pool, err = pgxpool.New(ctx, dsn)
	if err != nil {
		_ = testcontainers.TerminateContainer(container)
		return nil, nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		_ = testcontainers.TerminateContainer(container)
		return nil, nil, fmt.Errorf("ping postgres: %w", err)
	}
	log.Println("Test database connected successfully")

	cleanup = func() {
		pool.Close()
		_ = testcontainers.TerminateContainer(container)
		log.Println("Test database closed")
	}
	return pool, cleanup, nil
}

// recoverDocker turns a provider panic (no Docker host found) into an error.
func recoverDocker(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("docker unavailable: %v", r)
	}
}
