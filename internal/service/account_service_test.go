package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"cfohelper/internal/domain"
	"cfohelper/internal/repository"
)

func newTestService() (*AccountService, *repository.MemoryAccountRepository) {
	repo := repository.NewMemoryAccountRepository()
	return NewAccountService(repo, bcrypt.MinCost, zap.NewNop()), repo
}

func TestSignupThenLogin(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService()

	require.NoError(t, svc.Signup(ctx, "alice", "s3cret"))
	require.NoError(t, svc.Login(ctx, "alice", "s3cret"))

	user, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", user.PasswordHash)

	history, err := svc.GetHistory(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestSignupExistingUsernameFailsRegardlessOfPassword(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()
	require.NoError(t, svc.Signup(ctx, "alice", "one"))

	for _, pw := range []string{"one", "two", ""} {
		assert.ErrorIs(t, svc.Signup(ctx, "alice", pw), domain.ErrUserExists)
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()
	require.NoError(t, svc.Signup(ctx, "alice", "right"))

	wrongPassword := svc.Login(ctx, "alice", "wrong")
	unknownUser := svc.Login(ctx, "nobody", "right")

	assert.ErrorIs(t, wrongPassword, domain.ErrInvalidCredentials)
	assert.ErrorIs(t, unknownUser, domain.ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
}

func TestAppendThenGetHistory(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()
	require.NoError(t, svc.Signup(ctx, "alice", "pw"))

	in := domain.SimulationInput{HiringCount: 2, MarketingSpend: 10000, PriceIncreasePercent: 10}
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	const n = 4
	for i := 0; i < n; i++ {
		entry := domain.NewHistoryEntry(domain.SimulationDashboard, in, domain.Compute(domain.DefaultBaseline(), in), domain.Advise(in), base.Add(time.Duration(i)*time.Minute))
		entry.Suggestion = string(rune('a' + i))
		require.NoError(t, svc.AppendHistory(ctx, "alice", &entry))

		history, err := svc.GetHistory(ctx, "alice")
		require.NoError(t, err)
		require.Len(t, history, i+1)
		assert.Equal(t, entry, history[0])
	}

	history, err := svc.GetHistory(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"d", "c", "b", "a"}, []string{
		history[0].Suggestion, history[1].Suggestion, history[2].Suggestion, history[3].Suggestion,
	})
}

func TestHistoryUnknownUser(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	entry := domain.HistoryEntry{SimulationType: domain.SimulationForecast}
	assert.ErrorIs(t, svc.AppendHistory(ctx, "ghost", &entry), domain.ErrUserNotFound)

	_, err := svc.GetHistory(ctx, "ghost")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

type brokenRepo struct {
	*repository.MemoryAccountRepository
}

var errStoreDown = errors.New("store down")

func (brokenRepo) GetByUsername(context.Context, string) (*domain.UserAccount, error) {
	return nil, errStoreDown
}

func TestStoreFailuresAreWrapped(t *testing.T) {
	ctx := context.Background()
	svc := NewAccountService(brokenRepo{repository.NewMemoryAccountRepository()}, 0, zap.NewNop())

	err := svc.Signup(ctx, "alice", "pw")
	assert.ErrorIs(t, err, errStoreDown)
	assert.NotErrorIs(t, err, domain.ErrUserExists)

	err = svc.Login(ctx, "alice", "pw")
	assert.ErrorIs(t, err, errStoreDown)
	assert.NotErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestNewAccountServiceClampsCost(t *testing.T) {
	svc := NewAccountService(repository.NewMemoryAccountRepository(), 99, zap.NewNop())
	assert.Equal(t, bcrypt.DefaultCost, svc.bcryptCost)
}
