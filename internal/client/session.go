package client

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"cfohelper/internal/domain"
)

// ErrMissingCredentials is returned before any request when username or password is empty
var ErrMissingCredentials = errors.New("enter username and password")

// Backend is the account server as seen by a Session
type Backend interface {
	Signup(ctx context.Context, username, password string) error
	Login(ctx context.Context, username, password string) error
	SaveHistory(ctx context.Context, username string, entry domain.HistoryEntry) error
	GetHistory(ctx context.Context, username string) ([]domain.HistoryEntry, error)
}

// Panel is one independent simulation view. Each panel has its own chart and usage counter.
type Panel struct {
	Kind       domain.SimulationType
	UsageCount int
	Input      domain.SimulationInput
	Result     domain.SimulationResult
	Suggestion string
	Chart      *Chart
}

// Run is the outcome of one simulation on a panel
type Run struct {
	Panel *Panel
	Entry domain.HistoryEntry
}

// Session is the client-side application state: the signed-in user,
// the shared baseline and both panels. It is not safe for concurrent use;
// only history submissions run in the background.
type Session struct {
	backend Backend
	logger  *zap.Logger
	now     func() time.Time

	user     string
	settings Settings
	baseline domain.FinancialBaseline
	history  []domain.HistoryEntry
	panels   map[domain.SimulationType]*Panel

	saves sync.WaitGroup
}

// NewSession creates a signed-out session with the default baseline
func NewSession(backend Backend, logger *zap.Logger) *Session {
	return &Session{
		backend:  backend,
		logger:   logger,
		now:      time.Now,
		settings: DefaultSettings(),
		baseline: domain.DefaultBaseline(),
		panels: map[domain.SimulationType]*Panel{
			domain.SimulationDashboard: {Kind: domain.SimulationDashboard},
			domain.SimulationForecast:  {Kind: domain.SimulationForecast},
		},
	}
}

// RunSimulation computes kind's panel for input, records the run in the
// displayed history and, when signed in, saves it in the background.
// Save failures are logged and never returned.
func (s *Session) RunSimulation(ctx context.Context, kind domain.SimulationType, input domain.SimulationInput) (Run, error) {
	panel, found := s.panels[kind]
	if !found {
		return Run{}, fmt.Errorf("%w: %q", domain.ErrUnknownSimulationType, kind)
	}

	result := domain.Compute(s.baseline, input)
	suggestion := domain.Advise(input)

	panel.Input = input
	panel.Result = result
	panel.Suggestion = suggestion
	data := []float64{result.Revenue, result.Expenses, result.Profit}
	if panel.Chart == nil {
		panel.Chart = NewChart(s.settings.Currency, data)
	} else {
		panel.Chart.Update(data)
	}
	panel.UsageCount++

	entry := domain.NewHistoryEntry(kind, input, result, suggestion, s.now())
	s.history = append([]domain.HistoryEntry{entry}, s.history...)

	if s.user != "" {
		s.submit(context.WithoutCancel(ctx), s.user, entry)
	}

	return Run{Panel: panel, Entry: entry}, nil
}

func (s *Session) submit(ctx context.Context, username string, entry domain.HistoryEntry) {
	s.saves.Add(1)
	go func() {
		defer s.saves.Done()
		if err := s.backend.SaveHistory(ctx, username, entry); err != nil {
			s.logger.Warn("Could not save history to backend",
				zap.String("username", username),
				zap.String("simulation_type", string(entry.SimulationType)),
				zap.Error(err),
			)
		}
	}()
}

// Wait blocks until every background history save has finished
func (s *Session) Wait() {
	s.saves.Wait()
}

// Login signs in and replaces the displayed history with the server's copy.
// A failed history fetch is logged; the user stays signed in.
func (s *Session) Login(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return ErrMissingCredentials
	}

	if err := s.backend.Login(ctx, username, password); err != nil {
		return err
	}
	s.user = username

	if err := s.RefreshHistory(ctx); err != nil {
		s.logger.Warn("Could not load history", zap.String("username", username), zap.Error(err))
	}
	return nil
}

// RefreshHistory reloads the signed-in user's history from the server.
// On failure the displayed history is left unchanged.
func (s *Session) RefreshHistory(ctx context.Context) error {
	if s.user == "" {
		return nil
	}

	history, err := s.backend.GetHistory(ctx, s.user)
	if err != nil {
		return err
	}
	if history != nil {
		s.history = history
	}
	return nil
}

// Signup registers an account. It does not sign in.
func (s *Session) Signup(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return ErrMissingCredentials
	}
	return s.backend.Signup(ctx, username, password)
}

// Logout forgets the user and the displayed history. The server is not contacted.
func (s *Session) Logout() {
	s.user = ""
	s.history = nil
}

// RestoreUser marks username as signed in without a server round trip
func (s *Session) RestoreUser(username string) {
	s.user = strings.TrimSpace(username)
}

// RestoreUsage sets kind's usage counter, e.g. from a previous run of the program
func (s *Session) RestoreUsage(kind domain.SimulationType, count int) {
	if p, found := s.panels[kind]; found {
		p.UsageCount = count
	}
}

// SaveSettings applies fallbacks to in and replaces the baseline. Cash is kept.
func (s *Session) SaveSettings(in Settings) Settings {
	applied := in.WithFallbacks()
	s.settings = applied
	s.baseline = applied.Baseline(s.baseline.Cash)
	return applied
}

// User returns the signed-in username, or "" when signed out
func (s *Session) User() string { return s.user }

// LoggedIn reports whether a user is signed in
func (s *Session) LoggedIn() bool { return s.user != "" }

// Settings returns the current display and baseline settings
func (s *Session) Settings() Settings { return s.settings }

// Baseline returns the baseline simulations run against
func (s *Session) Baseline() domain.FinancialBaseline { return s.baseline }

// Panel returns the panel for kind, or nil for an unknown kind
func (s *Session) Panel(kind domain.SimulationType) *Panel { return s.panels[kind] }

// History returns a copy of the displayed history, newest first
func (s *Session) History() []domain.HistoryEntry {
	out := make([]domain.HistoryEntry, len(s.history))
	copy(out, s.history)
	return out
}

// Development server port and the API address used when the page is served from it
const (
	DevServerPort = "5501"
	DevAPIBaseURL = "http://localhost:3001"
)

// ResolveBaseURL returns devBaseURL when the page is served from devPort,
// and "" (same origin) otherwise.
func ResolveBaseURL(pagePort, devPort, devBaseURL string) string {
	if pagePort == devPort {
		return devBaseURL
	}
	return ""
}

// BaseURLForOrigin maps the origin a user points at to the API address.
// A static dev server origin is forwarded to the backend; any other origin is the backend.
func BaseURLForOrigin(origin string) string {
	origin = strings.TrimRight(origin, "/")
	u, err := url.Parse(origin)
	if err != nil {
		return origin
	}
	if base := ResolveBaseURL(u.Port(), DevServerPort, DevAPIBaseURL); base != "" {
		return base
	}
	return origin
}
