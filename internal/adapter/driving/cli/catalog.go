package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/accountvault/internal/domain/model"
)

var typeCmd = &cobra.Command{
	Use:   "type",
	Short: "Manage account types",
}

var typeAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add an account type",
	Args:  cobra.ExactArgs(1),
	RunE:  runTypeAdd,
}

var typeListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List account types",
	Aliases: []string{"ls"},
	Args:    cobra.NoArgs,
	RunE:    runTypeList,
}

var typeRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove an unused account type",
	Args:  cobra.ExactArgs(1),
	RunE:  runTypeRemove,
}

var namespaceCmd = &cobra.Command{
	Use:     "namespace",
	Short:   "Manage namespaces",
	Aliases: []string{"ns"},
}

var namespaceAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a namespace to the organization",
	Args:  cobra.ExactArgs(1),
	RunE:  runNamespaceAdd,
}

var namespaceListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List the organization's namespaces",
	Aliases: []string{"ls"},
	Args:    cobra.NoArgs,
	RunE:    runNamespaceList,
}

var namespaceRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove an unused namespace",
	Args:  cobra.ExactArgs(1),
	RunE:  runNamespaceRemove,
}

var catalogComment string

func init() {
	typeAddCmd.Flags().StringVar(&catalogComment, "comment", "", "Free-form comment")
	namespaceAddCmd.Flags().StringVar(&catalogComment, "comment", "", "Free-form comment")

	typeCmd.AddCommand(typeAddCmd, typeListCmd, typeRemoveCmd)
	namespaceCmd.AddCommand(namespaceAddCmd, namespaceListCmd, namespaceRemoveCmd)
}

func runTypeAdd(cmd *cobra.Command, args []string) error {
	return withSession(cmd, func(ctx context.Context, s *session) error {
		t, err := s.accountTypes.Add(ctx, model.AccountType{Name: args[0], Comment: catalogComment})
		if err != nil {
			return err
		}
		printSuccess(cmd.OutOrStdout(), fmt.Sprintf("Added account type %d (%s)", t.ID, t.Name))
		return nil
	})
}

func runTypeList(cmd *cobra.Command, _ []string) error {
	return withSession(cmd, func(ctx context.Context, s *session) error {
		types, err := s.accountTypes.ListAll(ctx)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if outputJSON {
			return json.NewEncoder(out).Encode(toAccountTypeViews(types))
		}
		if len(types) == 0 {
			fmt.Fprintln(out, "No account types.")
			return nil
		}

		w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tCOMMENT")
		for _, t := range types {
			fmt.Fprintf(w, "%d\t%s\t%s\n", t.ID, t.Name, t.Comment)
		}
		return w.Flush()
	})
}

func runTypeRemove(cmd *cobra.Command, args []string) error {
	id, err := parseCatalogID(args[0])
	if err != nil {
		return err
	}
	return withSession(cmd, func(ctx context.Context, s *session) error {
		if err := s.accountTypes.Remove(ctx, id); err != nil {
			return err
		}
		printSuccess(cmd.OutOrStdout(), fmt.Sprintf("Removed account type %d", id))
		return nil
	})
}

func runNamespaceAdd(cmd *cobra.Command, args []string) error {
	return withSession(cmd, func(ctx context.Context, s *session) error {
		ns, err := s.namespaces.Add(ctx, model.Namespace{Name: args[0], Comment: catalogComment})
		if err != nil {
			return err
		}
		printSuccess(cmd.OutOrStdout(), fmt.Sprintf("Added namespace %d (%s)", ns.ID, ns.Name))
		return nil
	})
}

func runNamespaceList(cmd *cobra.Command, _ []string) error {
	return withSession(cmd, func(ctx context.Context, s *session) error {
		namespaces, err := s.namespaces.ListAll(ctx)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if outputJSON {
			return json.NewEncoder(out).Encode(toNamespaceViews(namespaces))
		}
		if len(namespaces) == 0 {
			fmt.Fprintln(out, "No namespaces.")
			return nil
		}

		w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tCOMMENT")
		for _, ns := range namespaces {
			fmt.Fprintf(w, "%d\t%s\t%s\n", ns.ID, ns.Name, ns.Comment)
		}
		return w.Flush()
	})
}

func runNamespaceRemove(cmd *cobra.Command, args []string) error {
	id, err := parseCatalogID(args[0])
	if err != nil {
		return err
	}
	return withSession(cmd, func(ctx context.Context, s *session) error {
		if err := s.namespaces.Remove(ctx, id); err != nil {
			return err
		}
		printSuccess(cmd.OutOrStdout(), fmt.Sprintf("Removed namespace %d", id))
		return nil
	})
}

func parseCatalogID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q: must be a positive integer", arg)
	}
	return id, nil
}
