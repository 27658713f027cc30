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

	"github.com/sinwaunyu/site/internal/secrets"
)

func newSecretsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:         "secrets",
		Short:       "Manage the Airtable API key in the system keyring",
		Annotations: map[string]string{skipConfigAnnotation: "true"},
	}
	cmd.AddCommand(newSecretsSetCmd(), newSecretsDeleteCmd(), newSecretsStatusCmd())
	return cmd
}

func newSecretsSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Store the Airtable API key (read from stdin or prompted)",
		Long: `Store the Airtable personal access token in the system keyring.
Set airtable.key_provider = "keyring" to use it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !secrets.KeyringAvailable() {
				return errors.New("no system keyring available; keep airtable.api_key in config or AIRTABLE_API_KEY instead")
			}
			token, err := readToken(cmd)
			if err != nil {
				return err
			}
			if token == "" {
				return errors.New("empty token")
			}
			if err := (&secrets.KeyringStore{}).Put(secrets.TokenAccount, token); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "stored airtable api key in keyring")
			return nil
		},
	}
	return cmd
}

// isTerminal reports whether r is an interactive terminal.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// readToken prompts without echo on a terminal and reads one line otherwise.
func readToken(cmd *cobra.Command) (string, error) {
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		_, _ = fmt.Fprint(cmd.ErrOrStderr(), "Airtable API key: ")
		b, err := term.ReadPassword(int(f.Fd()))
		_, _ = fmt.Fprintln(cmd.ErrOrStderr())
		return strings.TrimSpace(string(b)), err
	}
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func newSecretsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete",
		Short: "Remove the Airtable API key from the keyring",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := (&secrets.KeyringStore{}).Delete(secrets.TokenAccount); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "removed airtable api key from keyring")
			return nil
		},
	}
}

func newSecretsStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Report whether a key is stored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := (&secrets.KeyringStore{}).Get(secrets.TokenAccount)
			switch {
			case err == nil:
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "airtable api key: stored")
			case errors.Is(err, secrets.ErrTokenNotFound):
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "airtable api key: not stored")
			default:
				return err
			}
			return nil
		},
	}
}
