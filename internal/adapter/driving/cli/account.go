package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/accountvault/internal/domain/model"
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Manage account metadata",
	Long: `Create, inspect and delete accounts. Secret material is managed with
the secret subcommands and never shown here.

Examples:
  accountctl account list
  accountctl account get <id>
  accountctl account set-extra <id> '{"port": 5432}'
  accountctl account delete <id>`,
}

var accountCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an account",
	Args:  cobra.NoArgs,
	RunE:  runAccountCreate,
}

var accountListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List accounts",
	Aliases: []string{"ls"},
	Args:    cobra.NoArgs,
	RunE:    runAccountList,
}

var accountGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show an account's metadata",
	Args:  cobra.ExactArgs(1),
	RunE:  runAccountGet,
}

var accountDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an account and its secret",
	Args:  cobra.ExactArgs(1),
	RunE:  runAccountDelete,
}

var accountSetExtraCmd = &cobra.Command{
	Use:   "set-extra <id> <json-object>",
	Short: "Replace an account's extra properties",
	Args:  cobra.ExactArgs(2),
	RunE:  runAccountSetExtra,
}

var createFlags struct {
	name        string
	username    string
	address     string
	secretType  string
	typeID      int64
	namespaceID int64
	comment     string
	inactive    bool
	secret      string
}

func init() {
	f := accountCreateCmd.Flags()
	f.StringVar(&createFlags.name, "name", "", "Display name (required)")
	f.StringVar(&createFlags.username, "username", "", "Login name on the target")
	f.StringVar(&createFlags.address, "address", "", "Host, IP or URL of the target (required)")
	f.StringVar(&createFlags.secretType, "secret-type", string(model.SecretTypePassword), "password, ssh-key, token or cert")
	f.Int64Var(&createFlags.typeID, "type-id", 0, "Account type ID (required)")
	f.Int64Var(&createFlags.namespaceID, "namespace-id", 0, "Namespace ID (required)")
	f.StringVar(&createFlags.comment, "comment", "", "Free-form comment")
	f.BoolVar(&createFlags.inactive, "inactive", false, "Create the account disabled")
	f.StringVar(&createFlags.secret, "secret", "", "Initial secret; omit to add it later with 'secret create'")

	accountCmd.AddCommand(accountCreateCmd, accountListCmd, accountGetCmd, accountDeleteCmd, accountSetExtraCmd)
}

func runAccountCreate(cmd *cobra.Command, _ []string) error {
	acct := &model.Account{
		Name:        createFlags.name,
		Username:    createFlags.username,
		Address:     createFlags.address,
		SecretType:  model.SecretType(createFlags.secretType),
		TypeID:      createFlags.typeID,
		NamespaceID: createFlags.namespaceID,
		Comment:     createFlags.comment,
		IsActive:    !createFlags.inactive,
	}

	return withSession(cmd, func(ctx context.Context, s *session) error {
		if err := s.accounts.Create(ctx, acct); err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		printSuccess(out, fmt.Sprintf("Created account %s (%s)", acct.ID, acct.Name))

		if createFlags.secret != "" {
			if err := s.accounts.CreateSecret(ctx, acct, createFlags.secret); err != nil {
				return fmt.Errorf("account %s created but its secret was not stored: %w", acct.ID, err)
			}
			printSuccess(out, fmt.Sprintf("Stored secret (%s backend)", s.accounts.SecretBackend()))
		}
		return nil
	})
}

func runAccountList(cmd *cobra.Command, _ []string) error {
	return withSession(cmd, func(ctx context.Context, s *session) error {
		accounts, err := s.accounts.List(ctx)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if outputJSON {
			return json.NewEncoder(out).Encode(toAccountViews(accounts))
		}
		if len(accounts) == 0 {
			fmt.Fprintln(out, "No accounts.")
			return nil
		}

		w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tUSERNAME\tADDRESS\tSECRET TYPE\tACTIVE")
		for _, a := range accounts {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%t\n",
				a.ID, a.Name, a.Username, a.Address, a.SecretType.Label(), a.IsActive)
		}
		return w.Flush()
	})
}

func runAccountGet(cmd *cobra.Command, args []string) error {
	return withSession(cmd, func(ctx context.Context, s *session) error {
		a, err := s.accounts.Get(ctx, args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if outputJSON {
			return json.NewEncoder(out).Encode(toAccountView(*a))
		}

		printHeader(out, a.Name)
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "  id\t%s\n", a.ID)
		fmt.Fprintf(w, "  org\t%s\n", a.OrgID)
		fmt.Fprintf(w, "  username\t%s\n", a.Username)
		fmt.Fprintf(w, "  address\t%s\n", a.Address)
		fmt.Fprintf(w, "  secret type\t%s\n", a.SecretType.Label())
		fmt.Fprintf(w, "  type id\t%d\n", a.TypeID)
		fmt.Fprintf(w, "  namespace id\t%d\n", a.NamespaceID)
		fmt.Fprintf(w, "  active\t%t\n", a.IsActive)
		if a.Comment != "" {
			fmt.Fprintf(w, "  comment\t%s\n", a.Comment)
		}
		if len(a.ExtraProps) > 0 {
			props, err := json.Marshal(a.ExtraProps)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "  extra\t%s\n", props)
		}
		fmt.Fprintf(w, "  updated\t%s\n", a.UpdatedAt.Format(time.RFC3339))
		return w.Flush()
	})
}

func runAccountDelete(cmd *cobra.Command, args []string) error {
	return withSession(cmd, func(ctx context.Context, s *session) error {
		a, err := s.accounts.Get(ctx, args[0])
		if err != nil {
			return err
		}
		if err := s.accounts.Delete(ctx, a); err != nil {
			return err
		}
		printSuccess(cmd.OutOrStdout(), fmt.Sprintf("Deleted account %s", a.ID))
		return nil
	})
}

func runAccountSetExtra(cmd *cobra.Command, args []string) error {
	var props model.ExtraProps
	dec := json.NewDecoder(strings.NewReader(args[1]))
	dec.UseNumber()
	if err := dec.Decode(&props); err != nil {
		return fmt.Errorf("extra properties must be a JSON object: %w", err)
	}

	return withSession(cmd, func(ctx context.Context, s *session) error {
		a, err := s.accounts.Get(ctx, args[0])
		if err != nil {
			return err
		}
		if err := s.accounts.SaveExtraProps(ctx, a, props); err != nil {
			return err
		}
		printSuccess(cmd.OutOrStdout(), fmt.Sprintf("Saved %d extra properties on %s", len(props), a.ID))
		return nil
	})
}
