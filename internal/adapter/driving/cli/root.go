// Package cli implements the accountctl command-line interface. It opens the
// same database and secret backend as the server and calls the application
// services directly.
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var (
	// rootFlags
	orgID      string
	outputJSON bool
)

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "accountctl",
	Short: "Manage privileged accounts and their secrets",
	Long: `accountctl administers the accountvault store from the command line.

Configuration comes from the same ACCOUNTVAULT_* environment variables as the
server (database path, secret backend, keys).

Get started:
  accountctl type add database
  accountctl namespace add default
  accountctl account create --name db-primary --username svc-db --address 10.0.0.5 --type-id 1 --namespace-id 1
  accountctl secret create <account-id> 'p@ssw0rd'
  accountctl secret get <account-id> --reveal`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		printError(rootCmd.ErrOrStderr(), err.Error())
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&orgID, "org", "", "Organization ID (default: the built-in default org)")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "Output in JSON format")

	// Register all subcommands
	rootCmd.AddCommand(
		accountCmd,
		secretCmd,
		typeCmd,
		namespaceCmd,
	)
}

func printSuccess(w io.Writer, msg string) {
	fmt.Fprintf(w, "  \033[32m✔\033[0m %s\n", msg)
}

func printError(w io.Writer, msg string) {
	fmt.Fprintf(w, "  \033[31m✗\033[0m %s\n", msg)
}

func printHeader(w io.Writer, msg string) {
	fmt.Fprintf(w, "\n\033[1m%s\033[0m\n", msg)
}

// maskSecret hides a secret but keeps its length visible.
func maskSecret(secret string) string {
	n := len([]rune(secret))
	return fmt.Sprintf("%s (%d chars)", strings.Repeat("*", min(n, 8)), n)
}
