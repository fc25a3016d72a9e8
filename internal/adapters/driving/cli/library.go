package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var libraryMessage string

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Manage saved drafting revisions",
	Long: `Save draftings into the local library, list them and restore earlier
revisions. The library lives in library.dir, by default ~/.drafter/data.`,
}

var librarySaveCmd = &cobra.Command{
	Use:   "save [file]",
	Short: "Save a drafting as a new revision",
	Args:  cobra.ExactArgs(1),
	RunE:  runLibrarySave,
}

var libraryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List draftings in the library",
	Args:  cobra.NoArgs,
	RunE:  runLibraryList,
}

var libraryLogCmd = &cobra.Command{
	Use:   "log [drafting-id]",
	Short: "List the revisions of a drafting",
	Args:  cobra.ExactArgs(1),
	RunE:  runLibraryLog,
}

var libraryRestoreCmd = &cobra.Command{
	Use:   "restore [id] [file]",
	Short: "Write a revision to a drafting file",
	Long: `Restore a revision and write it to file. The id names a revision or a
drafting, whose latest revision is used.`,
	Args: cobra.ExactArgs(2),
	RunE: runLibraryRestore,
}

var libraryDeleteCmd = &cobra.Command{
	Use:   "delete [drafting-id]",
	Short: "Delete a drafting and all its revisions",
	Args:  cobra.ExactArgs(1),
	RunE:  runLibraryDelete,
}

func init() {
	librarySaveCmd.Flags().StringVarP(&libraryMessage, "message", "m", "", "revision message")

	libraryCmd.AddCommand(librarySaveCmd)
	libraryCmd.AddCommand(libraryListCmd)
	libraryCmd.AddCommand(libraryLogCmd)
	libraryCmd.AddCommand(libraryRestoreCmd)
	libraryCmd.AddCommand(libraryDeleteCmd)
	rootCmd.AddCommand(libraryCmd)
}

func runLibrarySave(cmd *cobra.Command, args []string) error {
	if libraryService == nil {
		return errLibraryNotConfigured
	}
	if _, err := load(cmd, args[0]); err != nil {
		return err
	}

	rev, err := libraryService.Save(commandContext(cmd), libraryMessage)
	if err != nil {
		return fmt.Errorf("failed to save revision: %w", err)
	}

	cmd.Printf("Saved revision %s of %s\n", rev.ID, rev.DraftingID)
	cmd.Printf("  %d operations, %d entities\n", rev.Operations, rev.Entities)
	return nil
}

func runLibraryList(cmd *cobra.Command, _ []string) error {
	if libraryService == nil {
		return errLibraryNotConfigured
	}

	summaries, err := libraryService.List(commandContext(cmd))
	if err != nil {
		return fmt.Errorf("failed to list library: %w", err)
	}
	if len(summaries) == 0 {
		cmd.Println("The library is empty.")
		return nil
	}

	st := stylesFor(cmd.OutOrStdout())
	cmd.Println(st.Title.Render("Draftings"))
	for i := range summaries {
		s := &summaries[i]
		name := s.Name
		if name == "" {
			name = "(unnamed)"
		}
		cmd.Printf("  %s\n", s.ID)
		cmd.Printf("    Name:      %s\n", name)
		cmd.Printf("    Revisions: %d\n", s.Revisions)
		cmd.Printf("    Updated:   %s\n", s.UpdatedAt.Format("2006-01-02 15:04:05"))
	}
	cmd.Println()
	cmd.Printf("Total: %d draftings\n", len(summaries))
	return nil
}

func runLibraryLog(cmd *cobra.Command, args []string) error {
	if libraryService == nil {
		return errLibraryNotConfigured
	}

	revs, err := libraryService.Revisions(commandContext(cmd), args[0])
	if err != nil {
		return fmt.Errorf("failed to list revisions: %w", err)
	}
	if len(revs) == 0 {
		cmd.Printf("No revisions found for drafting: %s\n", args[0])
		return nil
	}

	st := stylesFor(cmd.OutOrStdout())
	for i := range revs {
		r := &revs[i]
		cmd.Printf("%s %s\n", st.Title.Render(r.ID), st.Muted.Render(r.CreatedAt.Format("2006-01-02 15:04:05")))
		if r.Message != "" {
			cmd.Printf("    %s\n", r.Message)
		}
		cmd.Printf("    %d operations, %d entities\n", r.Operations, r.Entities)
	}
	return nil
}

func runLibraryRestore(cmd *cobra.Command, args []string) error {
	if libraryService == nil {
		return errLibraryNotConfigured
	}
	if draftingService == nil {
		return errDraftingNotConfigured
	}

	ctx := commandContext(cmd)
	outcome, err := libraryService.Restore(ctx, args[0], args[1])
	if err != nil {
		return fmt.Errorf("failed to restore %s: %w", args[0], err)
	}
	if err := draftingService.Save(ctx, ""); err != nil {
		return fmt.Errorf("failed to save drafting: %w", err)
	}

	printOutcome(cmd, outcome)
	cmd.Printf("Restored %s to %s\n", args[0], args[1])
	return nil
}

func runLibraryDelete(cmd *cobra.Command, args []string) error {
	if libraryService == nil {
		return errLibraryNotConfigured
	}

	if err := libraryService.Delete(commandContext(cmd), args[0]); err != nil {
		return fmt.Errorf("failed to delete drafting: %w", err)
	}

	cmd.Printf("Deleted drafting %s\n", args[0])
	return nil
}
