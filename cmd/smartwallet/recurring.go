package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func recurringCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recurring",
		Short: "Manage recurring transactions",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "run",
		Short: "Generate the due recurring transactions of every account",
		Long: `Generate this month's due recurring transactions for every account.
Items already generated this month are skipped, so the command can run
any number of times.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := setup(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			out, err := a.ProcessAllRecurring.Execute(cmd.Context(), time.Now().In(a.Config.Location()))
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Accounts: %d\nGenerated: %d\nFailed: %d\n", out.Users, out.Generated, out.Failed)
			if out.Failed > 0 {
				return fmt.Errorf("%d accounts failed", out.Failed)
			}
			return nil
		},
	})
	return cmd
}
