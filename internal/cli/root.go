package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/unclerayray/ml-metadata/internal/config"
	"github.com/unclerayray/ml-metadata/internal/store_facade"
)

// RootOptions holds the global flags shared by every mlmdadmin subcommand.
type RootOptions struct {
	Verbose bool
	Format  string // "text" | "json"

	SQLitePath string
	MySQLDSN   string
	Pinned     int // 0 means unpinned
}

var ValidFormats = []string{"text", "json"}

// NewRootCommand builds the mlmdadmin root command and wires every
// subcommand beneath it.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "mlmdadmin",
		Short: "mlmdadmin manages an ML metadata store's schema",
		Long:  "mlmdadmin opens the metadata database's Store Façade directly and drives its schema-versioning state machine: init, inspect, and migrate up or down.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			if opts.SQLitePath == "" && opts.MySQLDSN == "" {
				return fmt.Errorf("one of --sqlite or --mysql-dsn is required")
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (text|json)")
	cmd.PersistentFlags().StringVar(&opts.SQLitePath, "sqlite", "", "path to a SQLite database file")
	cmd.PersistentFlags().StringVar(&opts.MySQLDSN, "mysql-dsn", "", "MySQL data source name")
	cmd.PersistentFlags().IntVar(&opts.Pinned, "pin-schema-version", 0, "require the database to already be at this schema version instead of upgrading it to the library's current one")

	cmd.AddCommand(NewInitDBCommand(opts))
	cmd.AddCommand(NewSchemaVersionCommand(opts))
	cmd.AddCommand(NewMigrateUpCommand(opts))
	cmd.AddCommand(NewMigrateDownCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// openFacade opens a store_facade.Facade per the connection flags on opts.
func openFacade(opts *RootOptions) (*store_facade.Facade, error) {
	var conn config.Connection
	if opts.MySQLDSN != "" {
		conn = config.NewMySQL(opts.MySQLDSN)
	} else {
		conn = config.NewSQLite(opts.SQLitePath)
	}
	if opts.Pinned != 0 {
		v := opts.Pinned
		conn.PinnedSchemaVersion = &v
	}
	return store_facade.Open(conn, store_facade.Options{})
}

func formatterFor(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}
