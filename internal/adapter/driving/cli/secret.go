package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var secretCmd = &cobra.Command{
	Use:   "secret",
	Short: "Manage account secret material",
	Long: `Store, rotate and read the secret attached to an account. Values go to
the configured secret backend, never to the account table.

Examples:
  accountctl secret create <account-id> 'p@ssw0rd'
  accountctl secret update <account-id> 'newpass1'
  accountctl secret get <account-id> --reveal`,
}

var secretCreateCmd = &cobra.Command{
	Use:   "create <account-id> <secret>",
	Short: "Store an account's first secret",
	Args:  cobra.ExactArgs(2),
	RunE:  runSecretCreate,
}

var secretUpdateCmd = &cobra.Command{
	Use:   "update <account-id> <secret>",
	Short: "Replace an account's secret",
	Args:  cobra.ExactArgs(2),
	RunE:  runSecretUpdate,
}

var secretGetCmd = &cobra.Command{
	Use:   "get <account-id>",
	Short: "Read an account's secret (masked unless --reveal)",
	Args:  cobra.ExactArgs(1),
	RunE:  runSecretGet,
}

var reveal bool

func init() {
	secretGetCmd.Flags().BoolVar(&reveal, "reveal", false, "Print the secret in plain text")

	secretCmd.AddCommand(secretCreateCmd, secretUpdateCmd, secretGetCmd)
}

func runSecretCreate(cmd *cobra.Command, args []string) error {
	return withSession(cmd, func(ctx context.Context, s *session) error {
		a, err := s.accounts.Get(ctx, args[0])
		if err != nil {
			return err
		}
		if err := s.accounts.CreateSecret(ctx, a, args[1]); err != nil {
			return err
		}
		printSuccess(cmd.OutOrStdout(), fmt.Sprintf("Stored secret for %s (%s backend)", a.ID, s.accounts.SecretBackend()))
		return nil
	})
}

func runSecretUpdate(cmd *cobra.Command, args []string) error {
	return withSession(cmd, func(ctx context.Context, s *session) error {
		a, err := s.accounts.Get(ctx, args[0])
		if err != nil {
			return err
		}
		if err := s.accounts.UpdateSecret(ctx, a, args[1]); err != nil {
			return err
		}
		printSuccess(cmd.OutOrStdout(), fmt.Sprintf("Updated secret for %s (%s backend)", a.ID, s.accounts.SecretBackend()))
		return nil
	})
}

func runSecretGet(cmd *cobra.Command, args []string) error {
	return withSession(cmd, func(ctx context.Context, s *session) error {
		a, err := s.accounts.Get(ctx, args[0])
		if err != nil {
			return err
		}
		secret, err := s.accounts.GetSecret(ctx, a)
		if err != nil {
			return err
		}

		if reveal {
			fmt.Fprintln(cmd.OutOrStdout(), secret)
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "  %s = %s\n", a.ID, maskSecret(secret))
		return nil
	})
}
