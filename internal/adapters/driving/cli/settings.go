package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change drafter settings stored in ~/.drafter/config.toml.

Available keys:
  history.max_depth      - edits kept for undo (0 = unbounded)
  drafting.default_unit  - unit of new draftings (mm, cm, m, inch, px)
  library.dir            - directory holding the drafting library
  watch.max_rate         - recomputations per second while watching
  output.color           - styled output on terminals (true, false)`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change one setting",
	Args:  cobra.ExactArgs(2),
	RunE:  runSettingsSet,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errSettingsNotConfigured
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[History]")
	cmd.Printf("  Max depth: %s\n", formatDepth(settings.History.MaxDepth))
	cmd.Println()

	cmd.Println("[Drafting]")
	cmd.Printf("  Default unit: %s\n", settings.Drafting.DefaultUnit)
	cmd.Println()

	cmd.Println("[Library]")
	dir := settings.Library.Dir
	if dir == "" {
		dir = "(default)"
	}
	cmd.Printf("  Directory: %s\n", dir)
	cmd.Println()

	cmd.Println("[Watch]")
	cmd.Printf("  Max rate: %d/s\n", settings.Watch.MaxRate)
	cmd.Println()

	cmd.Println("[Output]")
	cmd.Printf("  Color: %s\n", formatBool(settings.Output.Color))
	cmd.Println()

	if err := settings.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'drafter settings set' to fix configuration issues.")
	}
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errSettingsNotConfigured
	}

	key := strings.ToLower(strings.TrimSpace(args[0]))
	if err := settingsService.Set(key, strings.TrimSpace(args[1])); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	cmd.Printf("%s set to %s\n", key, args[1])
	return nil
}

func formatDepth(depth int) string {
	if depth == 0 {
		return "unbounded"
	}
	return fmt.Sprintf("%d edits", depth)
}

func formatBool(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
