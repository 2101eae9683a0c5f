package cli

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	deliveryhttp "cfohelper/internal/delivery/http"
	"cfohelper/internal/domain"
	"cfohelper/internal/report"
	"cfohelper/internal/repository"
	"cfohelper/internal/service"
)

type harness struct {
	t          *testing.T
	configPath string
	serverURL  string
	stdin      string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	accounts := service.NewAccountService(repository.NewMemoryAccountRepository(), bcrypt.MinCost, zap.NewNop())
	e := deliveryhttp.NewEcho()
	deliveryhttp.SetupRoutes(e, &deliveryhttp.RouterConfig{
		AccountHandler: deliveryhttp.NewAccountHandler(accounts, zap.NewNop()),
		Logger:         zap.NewNop(),
	})
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)

	return &harness{
		t:          t,
		configPath: filepath.Join(t.TempDir(), "cfohelper", "config.toml"),
		serverURL:  srv.URL,
	}
}

func (h *harness) run(args ...string) (string, error) {
	h.t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(h.stdin))
	h.stdin = ""
	cmd.SetArgs(append([]string{"--config", h.configPath, "--server", h.serverURL}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func (h *harness) state() State {
	h.t.Helper()
	st, err := LoadState(h.configPath)
	require.NoError(h.t, err)
	return st
}

func TestSignupLoginSimulateHistory(t *testing.T) {
	h := newHarness(t)

	out, err := h.run("signup", "  alice ", "-p", "pw")
	require.NoError(t, err)
	assert.Contains(t, out, "Signup successful")
	assert.Empty(t, h.state().Username)

	_, err = h.run("signup", "alice", "-p", "other")
	assert.EqualError(t, err, "User exists")

	_, err = h.run("login", "alice", "-p", "wrong")
	assert.EqualError(t, err, "Invalid credentials")

	out, err = h.run("login", "alice", "-p", "pw")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in as alice (0 saved simulations)")
	assert.Equal(t, "alice", h.state().Username)

	out, err = h.run("simulate", "--hiring", "6", "--marketing", "45000")
	require.NoError(t, err)
	assert.Contains(t, out, "Dashboard Simulation")
	assert.Contains(t, out, "High hiring might increase expenses. Consider optimizing marketing spend.")
	assert.Contains(t, out, "Simulations run on this panel: 1")
	assert.NotContains(t, out, "not saved")

	_, err = h.run("simulate", "--panel", "forecast", "--price", "abc")
	require.NoError(t, err)

	out, err = h.run("history")
	require.NoError(t, err)
	assert.Contains(t, out, "History (2)")
	assert.Contains(t, out, "Forecast")
	assert.Contains(t, out, "₹125000.00")

	st := h.state()
	assert.Equal(t, UsageState{Dashboard: 1, Forecast: 1}, st.Usage)
}

func TestSimulateLoggedOut(t *testing.T) {
	h := newHarness(t)

	out, err := h.run("simulate")
	require.NoError(t, err)
	assert.Contains(t, out, "₹50000.00")
	assert.Contains(t, out, "2.0 months")
	assert.Contains(t, out, domain.AdviceAllSafe)
	assert.Contains(t, out, "Not logged in: this run is not saved.")

	_, err = h.run("history")
	assert.ErrorIs(t, err, ErrNotLoggedIn)

	_, err = h.run("simulate", "--panel", "reports")
	assert.ErrorIs(t, err, domain.ErrUnknownSimulationType)
}

func TestLogoutForgetsUser(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("signup", "alice", "-p", "pw")
	require.NoError(t, err)
	_, err = h.run("login", "alice", "-p", "pw")
	require.NoError(t, err)

	_, err = h.run("logout")
	require.NoError(t, err)
	assert.Empty(t, h.state().Username)
}

func TestLoginRequiresPassword(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("login", "alice")
	assert.EqualError(t, err, "enter username and password")
}

func TestPasswordFromStdin(t *testing.T) {
	h := newHarness(t)

	h.stdin = "s3cret pass\n"
	out, err := h.run("signup", "alice")
	require.NoError(t, err)
	assert.Contains(t, out, "Signup successful")

	h.stdin = "wrong\n"
	_, err = h.run("login", "alice")
	assert.EqualError(t, err, "Invalid credentials")

	h.stdin = "s3cret pass\r\n"
	out, err = h.run("login", "alice")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in as alice")
	assert.Equal(t, "alice", h.state().Username)
}

func TestSettingsSaveAppliesFallbacks(t *testing.T) {
	h := newHarness(t)

	out, err := h.run("settings", "save", "--units", "1000", "--currency", "$")
	require.NoError(t, err)
	assert.Contains(t, out, "Settings saved! Currency: $")

	st := h.state()
	assert.Equal(t, 1000, st.Settings.UnitsSold)
	assert.Equal(t, 100.0, st.Settings.UnitPrice)
	assert.Equal(t, 20000.0, st.Settings.FixedCosts)
	assert.Equal(t, 30000.0, st.Settings.Salaries)

	out, err = h.run("simulate")
	require.NoError(t, err)
	assert.Contains(t, out, "$100000.00")

	out, err = h.run("settings", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Units sold:   1000")
}

func TestExport(t *testing.T) {
	h := newHarness(t)
	dir := t.TempDir()

	pdfPath := filepath.Join(dir, report.ForecastFileName)
	_, err := h.run("export", "--panel", "forecast", "--hiring", "2", "-o", pdfPath)
	require.NoError(t, err)
	data, err := os.ReadFile(pdfPath)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))

	_, err = h.run("signup", "alice", "-p", "pw")
	require.NoError(t, err)
	_, err = h.run("login", "alice", "-p", "pw")
	require.NoError(t, err)
	_, err = h.run("simulate", "--hiring", "3")
	require.NoError(t, err)

	yamlPath := filepath.Join(dir, "history.yaml")
	out, err := h.run("export", "--yaml", yamlPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 1 entries")

	raw, err := os.ReadFile(yamlPath)
	require.NoError(t, err)
	var doc report.HistoryExport
	require.NoError(t, yaml.Unmarshal(raw, &doc))
	assert.Equal(t, "alice", doc.Username)
	require.Len(t, doc.Entries, 1)
	assert.Equal(t, 3, doc.Entries[0].Hiring)
}
