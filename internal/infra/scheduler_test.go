package infra

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"cfohelper/configs"
	"cfohelper/internal/domain"
	"cfohelper/internal/repository"
)

type flakyRepo struct {
	*repository.MemoryAccountRepository
	pingErr error
}

func (r *flakyRepo) Ping(context.Context) error { return r.pingErr }

func TestScheduler_CheckHealthLogsTransitions(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	repo := &flakyRepo{MemoryAccountRepository: repository.NewMemoryAccountRepository()}
	s := NewScheduler(repo, "@every 1m", "@hourly", zap.New(core))

	assert.True(t, s.CheckHealth(context.Background()))
	assert.Equal(t, 0, logs.Len())

	repo.pingErr = errors.New("connection refused")
	assert.False(t, s.CheckHealth(context.Background()))
	assert.False(t, s.CheckHealth(context.Background()))
	assert.Equal(t, 1, logs.FilterMessage("[CRON] Account store unreachable").Len())

	repo.pingErr = nil
	assert.True(t, s.CheckHealth(context.Background()))
	assert.Equal(t, 1, logs.FilterMessage("[CRON] Account store reachable again").Len())
}

func TestScheduler_ReportStats(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	repo := repository.NewMemoryAccountRepository()
	require.NoError(t, repo.Create(context.Background(), &domain.UserAccount{Username: "alice", PasswordHash: "h"}))

	s := NewScheduler(repo, "@every 1m", "@hourly", zap.New(core))
	s.ReportStats(context.Background())

	entries := logs.FilterMessage("[CRON] Store stats").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(1), entries[0].ContextMap()["users"])
}

func TestScheduler_StartRejectsBadSpec(t *testing.T) {
	s := NewScheduler(repository.NewMemoryAccountRepository(), "not a spec", "@hourly", zap.NewNop())
	assert.Error(t, s.Start())
}

func TestOpenAccountRepository(t *testing.T) {
	ctx := context.Background()

	repo, err := OpenAccountRepository(ctx, configs.StoreConfig{Driver: configs.DriverMemory}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &repository.MemoryAccountRepository{}, repo)

	repo, err = OpenAccountRepository(ctx, configs.StoreConfig{
		Driver:     configs.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "store.db"),
	}, zap.NewNop())
	require.NoError(t, err)
	assert.NoError(t, repo.Ping(ctx))
	require.NoError(t, repo.Close())

	_, err = OpenAccountRepository(ctx, configs.StoreConfig{Driver: configs.DriverPostgres}, zap.NewNop())
	assert.Error(t, err)

	_, err = OpenAccountRepository(ctx, configs.StoreConfig{Driver: "mongo"}, zap.NewNop())
	assert.Error(t, err)
}
