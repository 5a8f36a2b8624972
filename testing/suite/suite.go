package suite

import (
	"context"
	"fmt"
	"log"
	"sync"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"
)

const (
	// seconds before docker kills a container the test binary left behind
	containerLifetime = 600
	maxWaitDuration   = 120 * time.Second
	testTimeout       = 30 * time.Second
)

const (
	redisPort  = "6379/tcp"
	redisImage = "redis"
	redisTag   = "7-alpine"
)

// redisContainer is started on first use and shared by every test of the package binary.
var redisContainer struct {
	once     sync.Once
	pool     *dockertest.Pool
	resource *dockertest.Resource
	addr     string
	err      error
}

type Suite struct {
	*testing.T

	Redis *redis.Client
}

// Run - wraps testing.M.Run and removes the shared redis container afterwards. Call it from TestMain.
func Run(m *testing.M) int {
	code := m.Run()

	if redisContainer.resource != nil {
		if err := redisContainer.pool.Purge(redisContainer.resource); err != nil {
			log.Printf("could not purge redis container: %v", err)
		}
	}

	return code
}

// New - returns a client on an empty redis database. Skipped with -short.
func New(t *testing.T) (context.Context, *Suite) {
	t.Helper()

	if testing.Short() {
		t.Skip("redis suite needs docker, skipped in short mode")
	}

	redisContainer.once.Do(startRedis)
	if redisContainer.err != nil {
		t.Fatalf("redis container is not available: %v", redisContainer.err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	t.Cleanup(cancel)

	client := redis.NewClient(&redis.Options{Addr: redisContainer.addr})
	t.Cleanup(func() { _ = client.Close() })

	if err := client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("could not flush redis: %v", err)
	}

	return ctx, &Suite{
		T:     t,
		Redis: client,
	}
}

func startRedis() {
	pool, err := dockertest.NewPool("")
	if err != nil {
		redisContainer.err = fmt.Errorf("could not connect to docker: %w", err)
		return
	}

	pool.MaxWait = maxWaitDuration

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: redisImage,
		Tag:        redisTag,
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		redisContainer.err = fmt.Errorf("could not start redis: %w", err)
		return
	}

	_ = resource.Expire(containerLifetime)

	addr := resource.GetHostPort(redisPort)

	if err = pool.Retry(func() error {
		client := redis.NewClient(&redis.Options{Addr: addr})
		defer client.Close()

		return client.Ping(context.Background()).Err()
	}); err != nil {
		_ = pool.Purge(resource)
		redisContainer.err = fmt.Errorf("redis did not become ready: %w", err)

		return
	}

	redisContainer.pool = pool
	redisContainer.resource = resource
	redisContainer.addr = addr
}
