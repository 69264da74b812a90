package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mimir-dm/mimir-dm-go/internal/loadtester"
	"github.com/mimir-dm/mimir-dm-go/internal/platform/logging"
	"github.com/mimir-dm/mimir-dm-go/internal/storage/db"
)

// NewLoadTestCommand builds the `mimirload` command: import every book
// directory under --books-dir into a scratch database and report which
// ones extracted, had readable metadata, and imported cleanly. Exits
// nonzero if any archive failed, so it can gate a release the way the
// teacher's CLI entrypoints gate on Validate() errors.
func NewLoadTestCommand() *cobra.Command {
	var booksDir string
	var dbPath string

	cmd := &cobra.Command{
		Use:   "mimirload",
		Short: "load-test a directory of 5etools book archives against the catalog importer",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logging.WithComponent(logging.New(false), "loadtester")

			conn, err := db.Open(dbPath)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer conn.Close()

			if _, err := db.Migrate(conn); err != nil {
				return fmt.Errorf("migrate database: %w", err)
			}

			report, err := loadtester.Run(conn, booksDir, log)
			if err != nil {
				return fmt.Errorf("load test: %w", err)
			}

			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(report); err != nil {
				return err
			}

			if report.Failures > 0 {
				os.Exit(1)
			}
			return nil
		},
	}

	flags := pflag.NewFlagSet("mimirload", pflag.ExitOnError)
	flags.StringVar(&booksDir, "books-dir", "", "directory containing one subdirectory per book archive")
	flags.StringVar(&dbPath, "db-path", ":memory:", "scratch database path to import into (default: in-memory)")
	cmd.Flags().AddFlagSet(flags)
	_ = cmd.MarkFlagRequired("books-dir")

	return cmd
}
