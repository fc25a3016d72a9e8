package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/seamwork/drafter/internal/core/domain"
)

var (
	editDryRun  bool
	editOnBreak string
	incDesc     string
)

var editCmd = &cobra.Command{
	Use:   "edit [file] [op-id] [field=formula...]",
	Short: "Change formula fields of an operation",
	Long: `Replace formula fields of an operation, recompute and save the drafting.

Examples:
  drafter edit bodice.xml 7 length="waist/4 + #ease"
  drafter edit bodice.xml 7 angle=90 --dry-run

When the edit breaks recomputation it is reverted, unless --on-break=accept
keeps it together with the partially recomputed drafting.`,
	Args: cobra.MinimumNArgs(3),
	RunE: runEdit,
}

var renameCmd = &cobra.Command{
	Use:   "rename [file] [old-label] [new-label]",
	Short: "Rename a point or detail",
	Long:  `Rename a point or detail and rewrite every formula that refers to it.`,
	Args:  cobra.ExactArgs(3),
	RunE:  runRename,
}

var removeCmd = &cobra.Command{
	Use:   "remove [file] [op-id]",
	Short: "Remove an operation nothing depends on",
	Args:  cobra.ExactArgs(2),
	RunE:  runRemove,
}

var moveCmd = &cobra.Command{
	Use:   "move [file] [op-id] [index]",
	Short: "Move an operation within the construction order",
	Args:  cobra.ExactArgs(3),
	RunE:  runMove,
}

var incrementCmd = &cobra.Command{
	Use:   "increment",
	Short: "Manage increments",
	Long:  `Add, replace or remove the user-defined variables evaluated before any operation.`,
}

var incrementSetCmd = &cobra.Command{
	Use:   "set [file] [#name] [formula]",
	Short: "Add or replace an increment",
	Args:  cobra.ExactArgs(3),
	RunE:  runIncrementSet,
}

var incrementRemoveCmd = &cobra.Command{
	Use:   "remove [file] [#name]",
	Short: "Remove an increment",
	Args:  cobra.ExactArgs(2),
	RunE:  runIncrementRemove,
}

func init() {
	editCmd.Flags().BoolVarP(&editDryRun, "dry-run", "n", false, "preview the edit without saving")
	for _, c := range []*cobra.Command{editCmd, renameCmd, removeCmd, moveCmd, incrementSetCmd, incrementRemoveCmd} {
		c.Flags().StringVar(&editOnBreak, "on-break", "revert", "what to do when the edit breaks recomputation (revert, accept)")
	}
	incrementSetCmd.Flags().StringVarP(&incDesc, "description", "d", "", "increment description")

	incrementCmd.AddCommand(incrementSetCmd)
	incrementCmd.AddCommand(incrementRemoveCmd)

	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(renameCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(moveCmd)
	rootCmd.AddCommand(incrementCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	if historyService == nil {
		return errHistoryNotConfigured
	}
	opID, err := parseID(args[1])
	if err != nil {
		return err
	}
	fields, err := parseFields(args[2:])
	if err != nil {
		return err
	}
	if editDryRun {
		return previewEdit(cmd, args[0], opID, fields)
	}
	return applyEdit(cmd, args[0], func() (domain.RecomputeOutcome, error) {
		return historyService.EditOperation(opID, fields)
	})
}

func previewEdit(cmd *cobra.Command, path string, opID domain.ID, fields map[string]string) error {
	if _, err := load(cmd, path); err != nil {
		return err
	}
	preview, err := historyService.ProposeEdit(opID, fields)
	if err != nil {
		return fmt.Errorf("failed to preview edit: %w", err)
	}

	st := stylesFor(cmd.OutOrStdout())
	cmd.Println(st.Title.Render("Preview"))
	cmd.Printf("  %d %s %s\n", preview.Operation.ID, preview.Operation.Kind(), formatFormulas(preview.Operation.Params.Formulas()))
	for _, id := range preview.Operation.Outputs {
		for i := range preview.Entities {
			if preview.Entities[i].ID == id {
				e := &preview.Entities[i]
				cmd.Printf("  %-4d %-10s %-16s %s\n", e.ID, e.Type, e.Label, describeGeometry(e))
			}
		}
	}
	printOutcome(cmd, preview.Outcome)
	cmd.Println(st.Muted.Render("Nothing was saved."))
	return nil
}

func runRename(cmd *cobra.Command, args []string) error {
	if historyService == nil {
		return errHistoryNotConfigured
	}
	return applyEdit(cmd, args[0], func() (domain.RecomputeOutcome, error) {
		return historyService.RenameLabel(args[1], args[2])
	})
}

func runRemove(cmd *cobra.Command, args []string) error {
	if historyService == nil {
		return errHistoryNotConfigured
	}
	opID, err := parseID(args[1])
	if err != nil {
		return err
	}
	return applyEdit(cmd, args[0], func() (domain.RecomputeOutcome, error) {
		return historyService.RemoveOperation(opID)
	})
}

func runMove(cmd *cobra.Command, args []string) error {
	if historyService == nil {
		return errHistoryNotConfigured
	}
	opID, err := parseID(args[1])
	if err != nil {
		return err
	}
	index, err := strconv.Atoi(args[2])
	if err != nil {
		return fmt.Errorf("%w: index %q is not a number", domain.ErrInvalidInput, args[2])
	}
	return applyEdit(cmd, args[0], func() (domain.RecomputeOutcome, error) {
		return historyService.MoveOperation(opID, index)
	})
}

func runIncrementSet(cmd *cobra.Command, args []string) error {
	if historyService == nil {
		return errHistoryNotConfigured
	}
	inc := domain.Increment{Name: args[1], Formula: args[2], Description: incDesc}
	return applyEdit(cmd, args[0], func() (domain.RecomputeOutcome, error) {
		return historyService.SetIncrement(inc)
	})
}

func runIncrementRemove(cmd *cobra.Command, args []string) error {
	if historyService == nil {
		return errHistoryNotConfigured
	}
	return applyEdit(cmd, args[0], func() (domain.RecomputeOutcome, error) {
		return historyService.RemoveIncrement(args[1])
	})
}

// applyEdit loads path, runs edit and saves the result. A broken edit is
// settled according to --on-break before anything is saved.
func applyEdit(cmd *cobra.Command, path string, edit func() (domain.RecomputeOutcome, error)) error {
	if draftingService == nil {
		return errDraftingNotConfigured
	}
	resolution, err := parseOnBreak(editOnBreak)
	if err != nil {
		return err
	}
	loaded, err := load(cmd, path)
	if err != nil {
		return err
	}
	// A drafting that was already broken keeps partial fixes by default.
	if !loaded.OK() && !cmd.Flags().Changed("on-break") {
		resolution = domain.ResolveAccept
	}

	outcome, err := edit()
	if err != nil && !errors.Is(err, domain.ErrRecomputeFailed) {
		return fmt.Errorf("edit rejected: %w", err)
	}
	printOutcome(cmd, outcome)

	if !outcome.OK() {
		if _, err := historyService.Resolve(resolution); err != nil && !errors.Is(err, domain.ErrRecomputeFailed) {
			return fmt.Errorf("failed to resolve broken edit: %w", err)
		}
		if resolution == domain.ResolveRevert {
			return fmt.Errorf("%w: edit reverted, %s left unchanged", domain.ErrRecomputeFailed, path)
		}
		st := stylesFor(cmd.OutOrStdout())
		cmd.Println(st.Warning.Render("Keeping the broken edit."))
	}

	if err := draftingService.Save(commandContext(cmd), ""); err != nil {
		return fmt.Errorf("failed to save drafting: %w", err)
	}
	cmd.Printf("Saved %s\n", draftingService.Path())
	return nil
}

func parseOnBreak(s string) (domain.Resolution, error) {
	switch s {
	case "revert", "":
		return domain.ResolveRevert, nil
	case "accept":
		return domain.ResolveAccept, nil
	default:
		return 0, fmt.Errorf("%w: --on-break must be revert or accept, got %q", domain.ErrInvalidInput, s)
	}
}

func parseID(s string) (domain.ID, error) {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("%w: %q is not an operation id", domain.ErrInvalidInput, s)
	}
	return domain.ID(n), nil
}

// parseFields reads field=formula arguments.
func parseFields(args []string) (map[string]string, error) {
	fields := make(map[string]string, len(args))
	for _, arg := range args {
		name, formula, ok := strings.Cut(arg, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("%w: expected field=formula, got %q", domain.ErrInvalidInput, arg)
		}
		if _, dup := fields[name]; dup {
			return nil, fmt.Errorf("%w: field %s given twice", domain.ErrInvalidInput, name)
		}
		fields[name] = formula
	}
	return fields, nil
}
