package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/unclerayray/ml-metadata/internal/querycfg"
)

// NewMigrateUpCommand creates the migrate-up command: run the
// migration state machine forward to the library's current schema
// version.
func NewMigrateUpCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "migrate-up",
		Short:         "Upgrade the metadata schema to this library's current version",
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

			before, err := f.SchemaVersion(cmd.Context())
			if err != nil {
				_ = formatter.Error(err.Error())
				return WrapExitError(ExitFailure, "read schema version", err)
			}
			formatter.VerboseLog("current schema version %d, library version %d", before, querycfg.LibraryVersion)

			if err := f.Upgrade(cmd.Context()); err != nil {
				_ = formatter.Error(err.Error())
				return WrapExitError(ExitFailure, "upgrade schema", err)
			}

			after, err := f.SchemaVersion(cmd.Context())
			if err != nil {
				_ = formatter.Error(err.Error())
				return WrapExitError(ExitFailure, "read schema version", err)
			}

			return formatter.Success(
				map[string]int{"from": before, "to": after},
				fmt.Sprintf("upgraded schema from version %d to %d", before, after),
			)
		},
	}
}

// NewMigrateDownCommand creates the migrate-down command: run the
// migration state machine backward to an explicit target version.
func NewMigrateDownCommand(rootOpts *RootOptions) *cobra.Command {
	var target int

	cmd := &cobra.Command{
		Use:           "migrate-down",
		Short:         "Downgrade the metadata schema to an explicit target version",
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

			before, err := f.SchemaVersion(cmd.Context())
			if err != nil {
				_ = formatter.Error(err.Error())
				return WrapExitError(ExitFailure, "read schema version", err)
			}

			if err := f.Downgrade(cmd.Context(), target); err != nil {
				_ = formatter.Error(err.Error())
				return WrapExitError(ExitFailure, "downgrade schema", err)
			}

			return formatter.Success(
				map[string]int{"from": before, "to": target},
				fmt.Sprintf("downgraded schema from version %d to %d", before, target),
			)
		},
	}
	cmd.Flags().IntVar(&target, "target-version", 0, "schema version to downgrade to (required)")
	cmd.MarkFlagRequired("target-version")
	return cmd
}
