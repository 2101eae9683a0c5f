package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newSignupCommand(a *app) *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "signup <username>",
		Short: "Create an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := readPassword(cmd, password)
			if err != nil {
				return err
			}
			if err := a.session.Signup(cmd.Context(), args[0], password); err != nil {
				return describeError(err)
			}
			a.printf("  Signup successful! Please login.\n")
			return nil
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "Account password (prompted for when omitted)")
	return cmd
}

func newLoginCommand(a *app) *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "login <username>",
		Short: "Sign in and load your history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := readPassword(cmd, password)
			if err != nil {
				return err
			}
			if err := a.session.Login(cmd.Context(), args[0], password); err != nil {
				return describeError(err)
			}
			a.printf("  Logged in as %s (%d saved simulations)\n", a.session.User(), len(a.session.History()))
			return nil
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "Account password (prompted for when omitted)")
	return cmd
}

func newLogoutCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			a.session.Logout()
			a.printf("  Logged out\n")
			return nil
		},
	}
}

// readPassword returns the flag value, or asks for the password on stdin.
// A terminal gets a prompt without echo; piped input is read up to the first newline.
func readPassword(cmd *cobra.Command, flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}

	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(cmd.ErrOrStderr(), "  Password: ")
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("reading password: %w", err)
		}
		return string(b), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
