package client

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"cfohelper/internal/domain"
)

type fakeBackend struct {
	mu       sync.Mutex
	loginErr error
	saveErr  error
	getErr   error
	history  []domain.HistoryEntry
	saved    []domain.HistoryEntry
	signups  []string
}

func (f *fakeBackend) Signup(_ context.Context, username, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signups = append(f.signups, username)
	return nil
}

func (f *fakeBackend) Login(context.Context, string, string) error {
	return f.loginErr
}

func (f *fakeBackend) SaveHistory(_ context.Context, _ string, entry domain.HistoryEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, entry)
	return nil
}

func (f *fakeBackend) GetHistory(context.Context, string) ([]domain.HistoryEntry, error) {
	return f.history, f.getErr
}

func (f *fakeBackend) savedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.saved)
}

func newTestSession(backend Backend) *Session {
	s := NewSession(backend, zap.NewNop())
	s.now = func() time.Time { return time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC) }
	return s
}

func TestRunSimulation_DefaultBaseline(t *testing.T) {
	s := newTestSession(&fakeBackend{})

	run, err := s.RunSimulation(context.Background(), domain.SimulationDashboard, domain.SimulationInput{})
	require.NoError(t, err)

	assert.Equal(t, domain.SimulationResult{Revenue: 50000, Expenses: 50000, Profit: 0, RunwayMonths: 2.0}, run.Panel.Result)
	assert.Equal(t, domain.AdviceAllSafe, run.Entry.Suggestion)
	assert.Equal(t, domain.SimulationDashboard, run.Entry.SimulationType)
	assert.Equal(t, 1, run.Panel.UsageCount)
	assert.Equal(t, []float64{50000, 50000, 0}, run.Panel.Chart.Data)
}

func TestRunSimulation_ReusesChartAndCountsPerPanel(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(&fakeBackend{})

	first, err := s.RunSimulation(ctx, domain.SimulationDashboard, domain.SimulationInput{HiringCount: 1})
	require.NoError(t, err)
	chart := first.Panel.Chart

	second, err := s.RunSimulation(ctx, domain.SimulationDashboard, domain.SimulationInput{HiringCount: 2})
	require.NoError(t, err)
	assert.Same(t, chart, second.Panel.Chart)
	assert.Equal(t, 1, chart.Updates())
	assert.Equal(t, []float64{50000, 60000, -10000}, chart.Data)

	forecast, err := s.RunSimulation(ctx, domain.SimulationForecast, domain.SimulationInput{})
	require.NoError(t, err)
	assert.NotSame(t, chart, forecast.Panel.Chart)

	assert.Equal(t, 2, s.Panel(domain.SimulationDashboard).UsageCount)
	assert.Equal(t, 1, s.Panel(domain.SimulationForecast).UsageCount)

	history := s.History()
	require.Len(t, history, 3)
	assert.Equal(t, domain.SimulationForecast, history[0].SimulationType)
	assert.Equal(t, 2, history[1].Hiring)
	assert.Equal(t, 1, history[2].Hiring)
}

func TestRunSimulation_UnknownKind(t *testing.T) {
	s := newTestSession(&fakeBackend{})

	_, err := s.RunSimulation(context.Background(), "Reports", domain.SimulationInput{})
	assert.ErrorIs(t, err, domain.ErrUnknownSimulationType)
	assert.Empty(t, s.History())
}

func TestRunSimulation_SavesOnlyWhenLoggedIn(t *testing.T) {
	ctx := context.Background()
	backend := &fakeBackend{}
	s := newTestSession(backend)

	_, err := s.RunSimulation(ctx, domain.SimulationDashboard, domain.SimulationInput{})
	require.NoError(t, err)
	s.Wait()
	assert.Equal(t, 0, backend.savedCount())

	require.NoError(t, s.Login(ctx, "alice", "pw"))
	_, err = s.RunSimulation(ctx, domain.SimulationForecast, domain.SimulationInput{PriceIncreasePercent: 25})
	require.NoError(t, err)
	s.Wait()

	require.Equal(t, 1, backend.savedCount())
	assert.Equal(t, domain.AdviceHighPrice, backend.saved[0].Suggestion)
}

func TestRunSimulation_SaveFailureIsLoggedNotReturned(t *testing.T) {
	ctx := context.Background()
	core, logs := observer.New(zap.WarnLevel)
	backend := &fakeBackend{saveErr: ErrServerUnreachable}
	s := NewSession(backend, zap.New(core))
	s.RestoreUser("alice")

	for i := 0; i < 3; i++ {
		_, err := s.RunSimulation(ctx, domain.SimulationDashboard, domain.SimulationInput{})
		require.NoError(t, err)
	}
	s.Wait()

	assert.Equal(t, 3, logs.FilterMessage("Could not save history to backend").Len())
	assert.Len(t, s.History(), 3)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	stored := []domain.HistoryEntry{{SimulationType: domain.SimulationForecast, Hiring: 4}}

	t.Run("replaces displayed history", func(t *testing.T) {
		s := newTestSession(&fakeBackend{history: stored})
		_, err := s.RunSimulation(ctx, domain.SimulationDashboard, domain.SimulationInput{})
		require.NoError(t, err)

		require.NoError(t, s.Login(ctx, "alice", "pw"))
		assert.Equal(t, "alice", s.User())
		assert.Equal(t, stored, s.History())
	})

	t.Run("missing credentials", func(t *testing.T) {
		s := newTestSession(&fakeBackend{})
		assert.ErrorIs(t, s.Login(ctx, "", "pw"), ErrMissingCredentials)
		assert.ErrorIs(t, s.Login(ctx, "alice", ""), ErrMissingCredentials)
		assert.False(t, s.LoggedIn())
	})

	t.Run("rejected", func(t *testing.T) {
		s := newTestSession(&fakeBackend{loginErr: &APIError{Status: 400, Message: "Invalid credentials"}})
		err := s.Login(ctx, "alice", "bad")

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "Invalid credentials", apiErr.Message)
		assert.False(t, s.LoggedIn())
	})

	t.Run("history fetch failure keeps user", func(t *testing.T) {
		s := newTestSession(&fakeBackend{getErr: errors.New("timeout")})
		require.NoError(t, s.Login(ctx, "alice", "pw"))
		assert.True(t, s.LoggedIn())
		assert.Empty(t, s.History())
	})
}

func TestSignupTrimsAndDoesNotLogIn(t *testing.T) {
	ctx := context.Background()
	backend := &fakeBackend{}
	s := newTestSession(backend)

	require.NoError(t, s.Signup(ctx, "  bob ", "pw"))
	assert.Equal(t, []string{"bob"}, backend.signups)
	assert.False(t, s.LoggedIn())

	assert.ErrorIs(t, s.Signup(ctx, "   ", "pw"), ErrMissingCredentials)
	assert.Len(t, backend.signups, 1)
}

func TestLogoutClearsState(t *testing.T) {
	ctx := context.Background()
	backend := &fakeBackend{}
	s := newTestSession(backend)
	require.NoError(t, s.Login(ctx, "alice", "pw"))
	_, err := s.RunSimulation(ctx, domain.SimulationDashboard, domain.SimulationInput{})
	require.NoError(t, err)
	s.Wait()

	s.Logout()
	assert.False(t, s.LoggedIn())
	assert.Empty(t, s.History())

	_, err = s.RunSimulation(ctx, domain.SimulationDashboard, domain.SimulationInput{})
	require.NoError(t, err)
	s.Wait()
	assert.Equal(t, 1, backend.savedCount())
}

func TestSaveSettingsAppliesFallbacks(t *testing.T) {
	s := newTestSession(&fakeBackend{})

	applied := s.SaveSettings(Settings{UnitsSold: 1000})
	assert.Equal(t, Settings{Currency: "₹", UnitsSold: 1000, UnitPrice: 100, FixedCosts: 20000, Salaries: 30000}, applied)
	assert.Equal(t, domain.FinancialBaseline{Cash: 100000, FixedCosts: 20000, UnitsSold: 1000, UnitPrice: 100, Salaries: 30000}, s.Baseline())

	run, err := s.RunSimulation(context.Background(), domain.SimulationDashboard, domain.SimulationInput{})
	require.NoError(t, err)
	assert.Equal(t, 100000.0, run.Panel.Result.Revenue)

	s.SaveSettings(Settings{Currency: "$"})
	assert.Equal(t, domain.DefaultBaseline(), s.Baseline())
	assert.Equal(t, "$", s.Settings().Currency)
}

func TestCoerceInput(t *testing.T) {
	tests := []struct {
		hiring, marketing, price string
		want                     domain.SimulationInput
	}{
		{"", "", "", domain.SimulationInput{}},
		{"3", "15000", "12.5", domain.SimulationInput{HiringCount: 3, MarketingSpend: 15000, PriceIncreasePercent: 12.5}},
		{"2.9", "abc", " 7 ", domain.SimulationInput{HiringCount: 2, PriceIncreasePercent: 7}},
		{"4people", "100px", "-5", domain.SimulationInput{HiringCount: 4, MarketingSpend: 100, PriceIncreasePercent: -5}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CoerceInput(tt.hiring, tt.marketing, tt.price))
	}
}

func TestResolveBaseURL(t *testing.T) {
	assert.Equal(t, "http://localhost:3001", ResolveBaseURL("5501", DevServerPort, DevAPIBaseURL))
	assert.Equal(t, "", ResolveBaseURL("3001", DevServerPort, DevAPIBaseURL))
	assert.Equal(t, "", ResolveBaseURL("", DevServerPort, DevAPIBaseURL))

	assert.Equal(t, DevAPIBaseURL, BaseURLForOrigin("http://127.0.0.1:5501/"))
	assert.Equal(t, "https://cfo.example.com", BaseURLForOrigin("https://cfo.example.com/"))
}
