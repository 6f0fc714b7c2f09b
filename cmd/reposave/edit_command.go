package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"reposave/internal/editor"
	"reposave/internal/savegame"
)

func newEditCommand(ctx *commandContext) *cobra.Command {
	var (
		teamName      string
		level         int
		currency      int
		lives         int
		charge        float64
		haul          float64
		healthFlags   []string
		upgradeFlags  []string
		removePlayers []string
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Apply field edits to a stored backup",
		Long: `Apply field edits to a stored backup.

Edits change the stored copy only; restore the backup to make the game
pick them up. Player flags take the Steam identity shown by 'show':

  reposave edit REPO_SAVE_... --currency 50000 --team "New Crew"
  reposave edit REPO_SAVE_... --health 76561198000000001=100
  reposave edit REPO_SAVE_... --upgrade 76561198000000001:Health=3`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withRepoLock(func(svc *editor.Service) error {
				model, err := svc.OpenForEdit(args[0])
				if err != nil {
					return err
				}

				flags := cmd.Flags()
				changed := 0
				worldEdits := []struct {
					flag  string
					field savegame.WorldField
					value float64
				}{
					{"level", savegame.FieldLevel, float64(level)},
					{"currency", savegame.FieldCurrency, float64(currency)},
					{"lives", savegame.FieldLives, float64(lives)},
					{"charge", savegame.FieldChargingStationCharge, charge},
					{"haul", savegame.FieldTotalHaul, haul},
				}
				for _, edit := range worldEdits {
					if !flags.Changed(edit.flag) {
						continue
					}
					if err := model.SetWorldField(edit.field, edit.value); err != nil {
						return fmt.Errorf("--%s: %w", edit.flag, err)
					}
					changed++
				}
				if flags.Changed("team") {
					if err := model.SetTeamName(teamName); err != nil {
						return fmt.Errorf("--team: %w", err)
					}
					changed++
				}
				for _, spec := range healthFlags {
					id, value, err := parseAssignment(spec)
					if err != nil {
						return fmt.Errorf("--health %q: %w", spec, err)
					}
					if err := model.SetPlayerHealth(savegame.Identity(id), value); err != nil {
						return fmt.Errorf("--health %q: %w", spec, err)
					}
					changed++
				}
				for _, spec := range upgradeFlags {
					id, name, level, err := parseUpgrade(spec)
					if err != nil {
						return fmt.Errorf("--upgrade %q: %w", spec, err)
					}
					if err := model.SetUpgradeLevel(savegame.Identity(id), name, level); err != nil {
						return fmt.Errorf("--upgrade %q: %w", spec, err)
					}
					changed++
				}
				for _, id := range removePlayers {
					if err := model.RemovePlayer(savegame.Identity(id)); err != nil {
						return fmt.Errorf("--remove-player %q: %w", id, err)
					}
					changed++
				}

				if changed == 0 {
					return fmt.Errorf("no edits requested; see 'reposave edit --help' for the available flags")
				}
				if err := svc.CommitEdit(args[0], model); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Applied %d edit(s) to %s\n", changed, args[0])
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&teamName, "team", "", "Set the team name")
	cmd.Flags().IntVar(&level, "level", 0, "Set the run level")
	cmd.Flags().IntVar(&currency, "currency", 0, "Set the currency amount")
	cmd.Flags().IntVar(&lives, "lives", 0, "Set the remaining lives")
	cmd.Flags().Float64Var(&charge, "charge", 0, "Set the charging station charge")
	cmd.Flags().Float64Var(&haul, "haul", 0, "Set the total haul")
	cmd.Flags().StringArrayVar(&healthFlags, "health", nil, "Set a player's health as <identity>=<value> (repeatable)")
	cmd.Flags().StringArrayVar(&upgradeFlags, "upgrade", nil, "Set an upgrade level as <identity>:<name>=<level> (repeatable)")
	cmd.Flags().StringArrayVar(&removePlayers, "remove-player", nil, "Remove a player by identity (repeatable)")
	return cmd
}

func parseAssignment(spec string) (string, int, error) {
	id, raw, ok := strings.Cut(spec, "=")
	if !ok || id == "" {
		return "", 0, fmt.Errorf("expected <identity>=<value>")
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return "", 0, fmt.Errorf("value %q is not an integer", raw)
	}
	return id, value, nil
}

func parseUpgrade(spec string) (string, string, int, error) {
	id, rest, ok := strings.Cut(spec, ":")
	if !ok || id == "" {
		return "", "", 0, fmt.Errorf("expected <identity>:<name>=<level>")
	}
	name, raw, ok := strings.Cut(rest, "=")
	if !ok || name == "" {
		return "", "", 0, fmt.Errorf("expected <identity>:<name>=<level>")
	}
	level, err := strconv.Atoi(raw)
	if err != nil {
		return "", "", 0, fmt.Errorf("level %q is not an integer", raw)
	}
	return id, name, level, nil
}
