package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewInitDBCommand creates the init-db command: open the database,
// letting store_facade.Open run InitMetadataSourceIfNotExists, then
// report the resulting schema version.
func NewInitDBCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "init-db",
		Short:         "Create the metadata schema if it does not already exist",
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
				fmt.Sprintf("metadata schema ready at version %d", version),
			)
		},
	}
}
