package main

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/smartwallet/backend/internal/application/usecase/interpret"
	"github.com/smartwallet/backend/internal/domain/entity"
	"github.com/smartwallet/backend/internal/domain/valueobject"
)

func parseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <text>",
		Short: "Interpret a command without storing it",
		Long: `Interpret a free-text command the way the API and the chat bot do,
and print the resulting transaction. Nothing is stored.

Examples:
  smartwallet parse "almoço 45,90"
  smartwallet parse "uber 20 dólares" --email ana@example.com`,
		Args: cobra.MinimumNArgs(1),
		RunE: runParse,
	}
}

func runParse(cmd *cobra.Command, args []string) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	user, err := a.user(cmd, false)
	if err != nil {
		return err
	}
	userID := uuid.Nil
	if user != nil {
		userID = user.ID
	}

	out, err := a.Interpret.Execute(cmd.Context(), interpret.InterpretInput{
		UserID: userID,
		Text:   strings.Join(args, " "),
	})
	if err != nil {
		return err
	}

	printInterpretation(cmd, out.Interpretation)
	return nil
}

func printInterpretation(cmd *cobra.Command, i *entity.Interpretation) {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Type:        %s\n", i.Type)
	fmt.Fprintf(w, "Amount:      %s\n", valueobject.FormatBRL(i.Amount))
	if i.IsConverted() {
		fmt.Fprintf(w, "Original:    %s %s (rate %s)\n", i.OriginalAmount, i.Currency, i.ExchangeRate)
	}
	fmt.Fprintf(w, "Category:    %s\n", i.Category)
	fmt.Fprintf(w, "Description: %s\n", i.Description)
	if i.Merchant != "" {
		fmt.Fprintf(w, "Merchant:    %s\n", i.Merchant)
	}
	fmt.Fprintf(w, "Date:        %s\n", i.Date.Format("02/01/2006 15:04"))
	fmt.Fprintf(w, "Source:      %s\n", i.Source)
}
