package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"cfohelper/internal/client"
	"cfohelper/internal/domain"
	"cfohelper/internal/utils"
)

// ErrNotLoggedIn is returned by commands that need a signed-in user
var ErrNotLoggedIn = errors.New("not logged in, run `cfoctl login` first")

type app struct {
	configPath string
	server     string
	verbose    bool

	state   State
	api     *client.APIClient
	session *client.Session
	logger  *zap.Logger
	out     io.Writer
}

// Execute is the main entry point called from cmd/cfoctl.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

// NewRootCommand builds the cfoctl command tree
func NewRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "cfoctl",
		Short:         "CFO Helper what-if calculator",
		Long:          "Simulate hiring, marketing and pricing decisions against your baseline and keep a history of runs.",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.open(cmd)
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return a.close()
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", ConfigPath(), "State file path")
	root.PersistentFlags().StringVar(&a.server, "server", "", "Server or page origin (default from config)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Log debug output")

	root.AddCommand(
		newSignupCommand(a),
		newLoginCommand(a),
		newLogoutCommand(a),
		newSimulateCommand(a),
		newHistoryCommand(a),
		newSettingsCommand(a),
		newExportCommand(a),
	)
	return root
}

// open loads state and builds the session every command runs against
func (a *app) open(cmd *cobra.Command) error {
	a.out = cmd.OutOrStdout()
	a.logger = newLogger(cmd.ErrOrStderr(), a.verbose)

	st, err := LoadState(a.configPath)
	if err != nil {
		return err
	}
	if a.server != "" {
		st.Server = a.server
	}
	a.state = st

	if err := utils.SetDisplayLocation(st.Timezone); err != nil {
		a.logger.Warn("Falling back to local time zone", zap.Error(err))
	}

	a.api = client.NewAPIClient(client.BaseURLForOrigin(st.Server))
	a.session = client.NewSession(a.api, a.logger)
	a.session.SaveSettings(st.Settings)
	a.session.RestoreUsage(domain.SimulationDashboard, st.Usage.Dashboard)
	a.session.RestoreUsage(domain.SimulationForecast, st.Usage.Forecast)
	if st.Username != "" {
		a.session.RestoreUser(st.Username)
	}

	a.logger.Debug("Session opened",
		zap.String("server", a.api.BaseURL()),
		zap.String("user", st.Username),
	)
	return nil
}

// close flushes background saves and persists the session state
func (a *app) close() error {
	a.session.Wait()

	a.state.Username = a.session.User()
	a.state.Settings = a.session.Settings()
	a.state.Usage = UsageState{
		Dashboard: a.session.Panel(domain.SimulationDashboard).UsageCount,
		Forecast:  a.session.Panel(domain.SimulationForecast).UsageCount,
	}
	_ = a.logger.Sync()
	return SaveState(a.configPath, a.state)
}

func newLogger(w io.Writer, verbose bool) *zap.Logger {
	level := zap.WarnLevel
	if verbose {
		level = zap.DebugLevel
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(w), level)
	return zap.New(core)
}

func (a *app) printf(format string, args ...interface{}) {
	fmt.Fprintf(a.out, format, args...)
}

// describeError reduces a server rejection to the server's message
func describeError(err error) error {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return errors.New(apiErr.Message)
	}
	return err
}
