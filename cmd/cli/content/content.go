// Package content holds CLI commands for inspecting the case catalog.
package content

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/tkoskim/breachpoint/internal/errors"
	"github.com/tkoskim/breachpoint/internal/game"
	"github.com/tkoskim/breachpoint/internal/logging"
	"github.com/tkoskim/breachpoint/internal/repositories"
	"github.com/tkoskim/breachpoint/internal/sqlite"
)

var Group = &cobra.Group{
	ID:    "content",
	Title: "Case catalog operations",
}

var Validate = &cobra.Command{
	Use:     "validate",
	GroupID: "content",
	Short:   "Validate the case catalog",
	Long: `Checks the seeded case catalog for authoring mistakes: decision options without a
transition target, transition targets without an option, and dangling suspect/evidence
cross-references. Exits non-zero when problems are found.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		logger := slog.New(logging.NewContextHandler(slog.NewTextHandler(io.Discard, nil)))

		url, ok := os.LookupEnv("BREACHPOINT_SQLITE_URL")
		if !ok {
			url = ":memory:"
		}
		dbs, err := sqlite.NewDatabase(ctx, url, logger)
		if err != nil {
			return errors.Wrap(err, "connect to database", slog.String("url", url))
		}
		defer func() {
			_ = dbs.Close()
		}()

		engine := game.NewEngine(
			repositories.NewContentRepository(dbs, logger),
			repositories.NewProgressRepository(dbs, logger),
			repositories.NewUserRepository(dbs, logger),
			logger,
		)
		findings, err := engine.ValidateContent(ctx)
		if err != nil {
			return errors.Wrap(err, "validate content")
		}
		if len(findings) == 0 {
			fmt.Println("case catalog OK")
			return nil
		}
		for _, finding := range findings {
			_, _ = fmt.Fprintln(os.Stderr, finding)
		}
		return errors.New("case catalog has problems", slog.Int("count", len(findings)))
	},
}
