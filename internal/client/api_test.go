package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	deliveryhttp "cfohelper/internal/delivery/http"
	"cfohelper/internal/domain"
	"cfohelper/internal/repository"
	"cfohelper/internal/service"
)

func newAccountServer(t *testing.T) *httptest.Server {
	t.Helper()
	accounts := service.NewAccountService(repository.NewMemoryAccountRepository(), bcrypt.MinCost, zap.NewNop())
	e := deliveryhttp.NewEcho()
	deliveryhttp.SetupRoutes(e, &deliveryhttp.RouterConfig{
		AccountHandler: deliveryhttp.NewAccountHandler(accounts, zap.NewNop()),
		Logger:         zap.NewNop(),
	})
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return srv
}

func TestAPIClient_AgainstAccountServer(t *testing.T) {
	ctx := context.Background()
	api := NewAPIClient(newAccountServer(t).URL + "/")

	require.NoError(t, api.Signup(ctx, "alice", "pw"))

	var apiErr *APIError
	err := api.Signup(ctx, "alice", "pw")
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "User exists", apiErr.Message)

	err = api.Login(ctx, "alice", "wrong")
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Invalid credentials", apiErr.Error())
	require.NoError(t, api.Login(ctx, "alice", "pw"))

	history, err := api.GetHistory(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, history)

	in := domain.SimulationInput{HiringCount: 6, MarketingSpend: 45000}
	at := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	entry := domain.NewHistoryEntry(domain.SimulationForecast, in, domain.Compute(domain.DefaultBaseline(), in), domain.Advise(in), at)
	require.NoError(t, api.SaveHistory(ctx, "alice", entry))

	history, err = api.GetHistory(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, domain.SimulationForecast, history[0].SimulationType)
	assert.Equal(t, "High hiring might increase expenses. Consider optimizing marketing spend.", history[0].Suggestion)
	assert.True(t, at.Equal(history[0].Date.Time))
	assert.NotEqual(t, uuid.Nil, history[0].ID)

	err = api.SaveHistory(ctx, "ghost", entry)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "User not found", apiErr.Message)

	_, err = api.GetHistory(ctx, "ghost")
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "User not found", apiErr.Message)
}

func TestAPIClient_ToleratesUnreadableBodies(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"empty", http.StatusBadRequest, ""},
		{"html", http.StatusBadGateway, "<html>bad gateway</html>"},
		{"no message", http.StatusBadRequest, `{"error":"x"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()
			api := NewAPIClient(srv.URL)

			var apiErr *APIError
			err := api.Login(context.Background(), "alice", "pw")
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, "Login failed", apiErr.Message)

			err = api.Signup(context.Background(), "alice", "pw")
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, "Signup failed", apiErr.Message)
		})
	}
}

func TestAPIClient_GetHistoryWithoutBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	history, err := NewAPIClient(srv.URL).GetHistory(context.Background(), "alice")
	require.NoError(t, err)
	assert.Nil(t, history)
}

func TestAPIClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	err := NewAPIClient(url).Signup(context.Background(), "alice", "pw")
	assert.True(t, errors.Is(err, ErrServerUnreachable))
}
