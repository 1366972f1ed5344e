package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"solo_legend/handlers"
)

var savesCmd = &cobra.Command{
	Use:   "saves",
	Short: "Inspect and manage stored adventures",
}

var listSavesCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored adventures, most recent first",
	Args:  cobra.NoArgs,
	RunE:  runListSaves,
}

var deleteSaveCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a stored adventure",
	Args:  cobra.ExactArgs(1),
	RunE:  runDeleteSave,
}

var exportSaveCmd = &cobra.Command{
	Use:   "export <id> <file.pdf>",
	Short: "Write the chronicle of an adventure as a PDF",
	Args:  cobra.ExactArgs(2),
	RunE:  runExportSave,
}

func init() {
	savesCmd.AddCommand(listSavesCmd, deleteSaveCmd, exportSaveCmd)
}

func runListSaves(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	store, closeStore, err := openStore(cmd.Context(), cfg.Store, log)
	if err != nil {
		return err
	}
	defer closeStore()

	list := store.List()
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Found %d adventures:\n\n", len(list))
	for _, s := range list {
		c := s.Character
		fmt.Fprintf(out, "%s  %s, level %d %s %s\n", s.ID, c.Name, c.Level, c.Race, c.Class)
		fmt.Fprintf(out, "   World: %s\n", s.World.Name)
		fmt.Fprintf(out, "   Location: %s\n", s.GameState.LocationName)
		fmt.Fprintf(out, "   Last played: %s\n", time.UnixMilli(s.LastPlayed).Format(time.DateTime))
	}
	return nil
}

func runDeleteSave(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	store, closeStore, err := openStore(ctx, cfg.Store, log)
	if err != nil {
		return err
	}
	defer closeStore()

	if err := store.Delete(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
	return nil
}

func runExportSave(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	store, closeStore, err := openStore(cmd.Context(), cfg.Store, log)
	if err != nil {
		return err
	}
	defer closeStore()

	save, err := store.Get(args[0])
	if err != nil {
		return err
	}
	doc, err := handlers.Chronicle(save)
	if err != nil {
		return err
	}
	if err := os.WriteFile(args[1], doc, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", args[1], err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", args[1])
	return nil
}
