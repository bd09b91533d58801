package main

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/smartwallet/backend/internal/application/usecase/coach"
)

func coachCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "coach",
		Short: "Ask the financial coach for advice on recent spending",
		Args:  cobra.NoArgs,
		RunE:  runCoach,
	}
	cmd.Flags().Bool("raw", false, "print Markdown without terminal styling")
	cmd.Flags().Int("width", 80, "word wrap width")
	return cmd
}

func runCoach(cmd *cobra.Command, _ []string) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	user, err := a.user(cmd, true)
	if err != nil {
		return err
	}

	out, err := a.Advice.Execute(cmd.Context(), coach.GetAdviceInput{UserID: user.ID})
	if err != nil {
		return err
	}

	raw, _ := cmd.Flags().GetBool("raw")
	width, _ := cmd.Flags().GetInt("width")
	rendered, err := renderMarkdown(out.Advice, raw, width)
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), rendered)
	if out.Offline {
		fmt.Fprintln(cmd.ErrOrStderr(), "(coach offline: showing general advice)")
	}
	return nil
}

func renderMarkdown(markdown string, raw bool, width int) (string, error) {
	if raw {
		return markdown + "\n", nil
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	return renderer.Render(markdown)
}
