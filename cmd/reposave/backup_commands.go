package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"reposave/internal/editor"
)

func newBackupCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "backup [source-file]",
		Short: "Back up a save container into the repository",
		Long: `Back up a save container into the repository.

Without an argument the most recently modified container in the game's
save directory is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withRepoLock(func(svc *editor.Service) error {
				var source string
				if len(args) == 1 {
					source = args[0]
				} else {
					dir, err := ctx.gameSaveDir()
					if err != nil {
						return err
					}
					source, err = latestContainer(dir)
					if err != nil {
						return err
					}
				}
				entry, err := svc.CreateBackup(source)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Created backup %s from %s\n", entry.ID, source)
				if entry.Summary == nil {
					fmt.Fprintln(out, "Container could not be decoded; stored as a raw copy")
				}
				return nil
			})
		},
	}
}

func newRestoreCommand(ctx *commandContext) *cobra.Command {
	var destPath string

	cmd := &cobra.Command{
		Use:   "restore <id>",
		Short: "Restore a backup over the game's save file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("expected exactly one backup id, got %d arguments", len(args))
			}
			return ctx.withRepoLock(func(svc *editor.Service) error {
				entry, err := svc.GetBackup(args[0])
				if err != nil {
					return err
				}
				dest := strings.TrimSpace(destPath)
				if dest == "" {
					dir, err := ctx.gameSaveDir()
					if err != nil {
						return err
					}
					dest = filepath.Join(dir, entry.SourceFileName)
				}
				if err := svc.RestoreBackup(entry.ID, dest); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Restored %s to %s\n", entry.ID, dest)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&destPath, "to", "", "Destination path (default: the entry's source file name in the game save directory)")
	return cmd
}

func newDuplicateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "duplicate <id>",
		Short: "Copy a backup into a new entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withRepoLock(func(svc *editor.Service) error {
				entry, err := svc.DuplicateBackup(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", entry.ID)
				return nil
			})
		},
	}
}

func newDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a backup and its metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withRepoLock(func(svc *editor.Service) error {
				if err := svc.DeleteBackup(args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
				return nil
			})
		},
	}
}

func newNoteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "note <id> [text...]",
		Short: "Set or clear a backup's notes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withRepoLock(func(svc *editor.Service) error {
				notes := strings.Join(args[1:], " ")
				if err := svc.AnnotateBackup(args[0], notes); err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if notes == "" {
					fmt.Fprintf(out, "Cleared notes on %s\n", args[0])
				} else {
					fmt.Fprintf(out, "Updated notes on %s\n", args[0])
				}
				return nil
			})
		},
	}
}
