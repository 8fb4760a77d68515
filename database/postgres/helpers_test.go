package postgres_test

import (
	"context"
	"crypto/rand"
	"fmt"
	"math"
	"math/big"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sagarc03/gallery"
	"github.com/sagarc03/gallery/database/postgres"
	"github.com/stretchr/testify/require"
	pgcontainer "github.com/testcontainers/testcontainers-go/modules/postgres"
)

var (
	testDSN      string
	testDSNErr   error
	testPoolOnce sync.Once
)

// getSharedTestDSN starts one postgres container for the whole package and
// returns its connection string.
func getSharedTestDSN(t *testing.T) string {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping postgres container test in short mode")
	}

	testPoolOnce.Do(func() {
		ctx := context.Background()

		pgContainer, err := pgcontainer.Run(ctx,
			"postgres:18-alpine",
			pgcontainer.WithDatabase("testdb"),
			pgcontainer.WithUsername("testuser"),
			pgcontainer.WithPassword("testpass"),
			pgcontainer.BasicWaitStrategies(),
		)
		if err != nil {
			testDSNErr = fmt.Errorf("start postgres container: %w", err)
			return
		}
		// The container outlives individual tests; the testcontainers reaper
		// removes it when the test binary exits.
		testDSN, testDSNErr = pgContainer.ConnectionString(ctx, "sslmode=disable")
	})

	require.NoError(t, testDSNErr)
	return testDSN
}

func getRandomString(t *testing.T) string {
	t.Helper()
	n, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
	require.NoError(t, err, "random string")
	return fmt.Sprintf("test%x", n.Int64())
}

func openTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	pool, err := postgres.Open(context.Background(), getSharedTestDSN(t))
	require.NoError(t, err, "failed to connect")
	t.Cleanup(pool.Close)

	return pool
}

// setupTestRepo creates a repo with a unique table name for test isolation.
func setupTestRepo(t *testing.T) *postgres.Repo {
	t.Helper()
	ctx := context.Background()

	pool := openTestPool(t)
	tables := gallery.Tables{MetaData: "records_" + getRandomString(t)}

	require.NoError(t, postgres.Migrate(ctx, pool, tables), "failed to migrate")
	t.Cleanup(func() { _ = postgres.DropTables(context.Background(), pool, tables) })

	repo, err := postgres.NewRepo(pool, tables)
	require.NoError(t, err, "failed to create repo")

	return repo
}

func strPtr(s string) *string { return &s }
