package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewSchemaVersionCommand creates the schema-version command: report
// the database's current schema version without modifying it.
func NewSchemaVersionCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "schema-version",
		Short:         "Print the metadata database's current schema version",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := formatterFor(rootOpts, cmd)

			f, err := openFacade(rootOpts)
			if err != nil {
				_ = formatter.Error(err.Error())
				return WrapExitError(ExitCommandError, "open database", err)
			}
			defer f.Close()

			version, err := f.SchemaVersion(cmd.Context())
			if err != nil {
				_ = formatter.Error(err.Error())
				return WrapExitError(ExitFailure, "read schema version", err)
			}

			return formatter.Success(
				map[string]int{"schema_version": version},
				fmt.Sprintf("%d", version),
			)
		},
	}
}
