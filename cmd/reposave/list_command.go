package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"reposave/internal/backup"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored backups, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.service()
			if err != nil {
				return err
			}
			entries, err := svc.ListBackups()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No backups stored")
				return nil
			}

			headers := []string{"ID", "Created", "Level", "Currency", "Lives", "Players", "Notes"}
			aligns := []columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft, alignLeft}
			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				rows = append(rows, listRow(entry))
			}
			fmt.Fprintln(out, renderTable(headers, rows, aligns))
			return nil
		},
	}
}

func listRow(entry backup.Entry) []string {
	created := entry.CreatedAt.Local().Format("2006-01-02 15:04:05")
	if entry.Summary == nil {
		return []string{entry.ID, created, "?", "?", "?", "(undecodable)", entry.Notes}
	}
	s := entry.Summary
	names := make([]string, 0, len(s.Players))
	for _, p := range s.Players {
		names = append(names, p.DisplayName)
	}
	return []string{
		entry.ID,
		created,
		strconv.Itoa(s.Level),
		strconv.Itoa(s.Currency),
		strconv.Itoa(s.Lives),
		strings.Join(names, ", "),
		entry.Notes,
	}
}
