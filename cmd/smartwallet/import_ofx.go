package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/smartwallet/backend/internal/application/usecase/importer"
)

func importOFXCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import-ofx [files...]",
		Short: "Import bank statements in OFX/QFX format",
		Long: `Import the transactions of OFX or QFX statements into an account.
Lines imported before are skipped.

Examples:
  smartwallet import-ofx --email ana@example.com ~/Downloads/extrato.ofx
  smartwallet import-ofx --email ana@example.com ~/Downloads/*.qfx`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImportOFX,
	}
}

func runImportOFX(cmd *cobra.Command, args []string) error {
	var files []string
	for _, pattern := range args {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			slog.Warn("No files found matching pattern", "pattern", pattern)
		}
		files = append(files, matches...)
	}
	if len(files) == 0 {
		return fmt.Errorf("no files found to import")
	}

	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	user, err := a.user(cmd, true)
	if err != nil {
		return err
	}

	var imported, skipped int
	for _, path := range files {
		out, err := importFile(cmd, a, user.ID, path)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d imported, %d skipped (%s)\n", filepath.Base(path), out.Imported, out.Skipped, out.Currency)
		imported += out.Imported
		skipped += out.Skipped
	}

	if len(files) > 1 {
		fmt.Fprintf(cmd.OutOrStdout(), "Total: %d imported, %d skipped\n", imported, skipped)
	}
	return nil
}

func importFile(cmd *cobra.Command, a *app, userID uuid.UUID, path string) (*importer.ImportStatementOutput, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	out, err := a.Import.Execute(cmd.Context(), importer.ImportStatementInput{UserID: userID, File: f})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	slog.Debug("Imported statement", "file", path, "userID", userID, "imported", out.Imported)
	return out, nil
}
