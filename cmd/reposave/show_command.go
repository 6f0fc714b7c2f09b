package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Display a backup's full contents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.service()
			if err != nil {
				return err
			}
			entry, err := svc.GetBackup(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, line := range renderHeading(out, entry.ID) {
				fmt.Fprintln(out, line)
			}
			fmt.Fprintf(out, "Source file: %s\n", entry.SourceFileName)
			fmt.Fprintf(out, "Created:     %s\n", entry.CreatedAt.Local().Format("2006-01-02 15:04:05"))
			if entry.Notes != "" {
				fmt.Fprintf(out, "Notes:       %s\n", entry.Notes)
			}
			if entry.Summary == nil {
				fmt.Fprintln(out, "Container could not be decoded; raw copy only")
				return nil
			}

			model, err := svc.OpenForEdit(entry.ID)
			if err != nil {
				return err
			}
			for _, warning := range model.Warnings {
				fmt.Fprintf(out, "Warning: %s\n", warning)
			}

			fmt.Fprintln(out)
			fmt.Fprintf(out, "Team:     %s\n", model.World.TeamName)
			fmt.Fprintf(out, "Level:    %d\n", model.World.Level)
			fmt.Fprintf(out, "Currency: %d\n", model.World.Currency)
			fmt.Fprintf(out, "Lives:    %d\n", model.World.Lives)
			fmt.Fprintf(out, "Charge:   %g\n", model.World.ChargingStationCharge)
			fmt.Fprintf(out, "Haul:     %g\n", model.World.TotalHaul)

			personas := ctx.personaNames()
			headers := []string{"Player", "Identity", "Health", "Upgrades"}
			aligns := []columnAlignment{alignLeft, alignLeft, alignRight, alignLeft}
			rows := make([][]string, 0, len(model.Players))
			for _, player := range model.Players {
				name := player.DisplayName
				if persona, ok := personas[string(player.Identity)]; ok && persona != name {
					name = fmt.Sprintf("%s (%s)", name, persona)
				}
				upgrades := ""
				for i, upgrade := range player.Upgrades {
					if i > 0 {
						upgrades += ", "
					}
					upgrades += fmt.Sprintf("%s=%d", upgrade.Name, upgrade.Level)
				}
				rows = append(rows, []string{
					name,
					string(player.Identity),
					strconv.Itoa(player.Health),
					upgrades,
				})
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, renderTable(headers, rows, aligns))
			return nil
		},
	}
}
