package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/roster/internal/record"
)

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print every record, ordered by id",
		Long: `Open the database and print every record in ascending id order.

Examples:
  roster list
  roster list --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			rs, err := openStore(cmd.Context(), rootOpts, f)
			if err != nil {
				return err
			}
			defer closeStore(rootOpts, rs)

			return f.Records(rs.Snapshot())
		},
	}
}

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <first-name> <last-name>",
		Short: "Create a record",
		Long: `Insert a new record. Storage assigns the id, which is printed.

Exit codes:
  0 - Record created
  1 - Create failed
  2 - Command error (database could not be opened, etc.)

Examples:
  roster add Ada Lovelace
  roster add "Mary Ann" Evans --format json`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			rs, err := openStore(cmd.Context(), rootOpts, f)
			if err != nil {
				return err
			}
			defer closeStore(rootOpts, rs)

			if !rs.Create(cmd.Context(), args[0], args[1]) {
				return f.Fail(ExitFailure, ErrCodeCreateFailed, "create failed")
			}

			// Ids are AUTOINCREMENT, so the newest record has the highest id.
			snap := rs.Snapshot()
			created, _ := snap.Find(snap.MaxID())
			return reportRecord(f, "created", created)
		},
	}
}

// NewUpdateCommand creates the update command.
func NewUpdateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "update <id> <first-name> <last-name>",
		Short: "Replace the names of a record",
		Long: `Replace both names of the record with the given id.

Exit codes:
  0 - Record updated
  1 - No record with that id
  2 - Command error

Examples:
  roster update 3 Grace Hopper`,
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			id, err := parseID(args[0])
			if err != nil {
				return f.Fail(ExitCommandError, ErrCodeBadArgument, err.Error())
			}

			rs, err := openStore(cmd.Context(), rootOpts, f)
			if err != nil {
				return err
			}
			defer closeStore(rootOpts, rs)

			r := renamed(rs, id, args[1], args[2])
			if !rs.Update(cmd.Context(), r) {
				return f.Fail(ExitFailure, ErrCodeUpdateFailed, fmt.Sprintf("update of #%d failed", id))
			}
			return reportRecord(f, "updated", r)
		},
	}
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a record",
		Long: `Delete the record with the given id.

Exit codes:
  0 - Record deleted
  1 - No record with that id
  2 - Command error

Examples:
  roster delete 3`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			id, err := parseID(args[0])
			if err != nil {
				return f.Fail(ExitCommandError, ErrCodeBadArgument, err.Error())
			}

			rs, err := openStore(cmd.Context(), rootOpts, f)
			if err != nil {
				return err
			}
			defer closeStore(rootOpts, rs)

			r, ok := rs.Snapshot().Find(id)
			if !ok {
				r = record.Record{ID: id}
			}
			if !rs.Delete(cmd.Context(), r) {
				return f.Fail(ExitFailure, ErrCodeDeleteFailed, fmt.Sprintf("delete of #%d failed", id))
			}
			return reportRecord(f, "deleted", r)
		},
	}
}

// reportRecord prints the outcome of a single-record command.
func reportRecord(f *OutputFormatter, verb string, r record.Record) error {
	if f.Format == "json" {
		return f.Success(map[string]any{
			"action": verb,
			"record": r,
		})
	}
	return f.Success(fmt.Sprintf("%s %s", verb, r))
}
