package main

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/smartwallet/backend/internal/domain/valueobject"
)

func ratesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rates",
		Short: "Show the BRL value of each supported currency",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := setup(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			snapshot := a.Rates.Execute(cmd.Context())

			currencies := make([]valueobject.Currency, 0, len(snapshot.Rates))
			for c := range snapshot.Rates {
				currencies = append(currencies, c)
			}
			sort.Slice(currencies, func(i, j int) bool { return currencies[i] < currencies[j] })

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "Status:\t%s\n", snapshot.Status)
			fmt.Fprintf(w, "Fetched:\t%s\n\n", snapshot.FetchedAt.Format("02/01/2006 15:04"))
			for _, c := range currencies {
				fmt.Fprintf(w, "%s\t%s\n", c, valueobject.FormatBRL(snapshot.Rates[c]))
			}
			return w.Flush()
		},
	}
}
