package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/seamwork/drafter/internal/core/domain"
)

var watchMeasurements string

var watchCmd = &cobra.Command{
	Use:   "watch [file]",
	Short: "Recompute a drafting whenever its measurements change",
	Long: `Load a drafting and watch its measurement file. Every change to the
file is loaded and the drafting is recomputed, at most watch.max_rate times
per second. Press Ctrl+C to stop.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&watchMeasurements, "measurements", "m", "", "measurement file to watch instead of the one the drafting names")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if draftingService == nil {
		return errDraftingNotConfigured
	}
	if measurementWatcher == nil {
		return errors.New("measurement watcher not configured")
	}

	ctx := commandContext(cmd)
	outcome, err := load(cmd, args[0])
	if err != nil {
		return err
	}

	path := watchMeasurements
	if path != "" {
		if outcome, err = draftingService.LoadMeasurements(ctx, path); err != nil {
			return fmt.Errorf("failed to apply measurements: %w", err)
		}
	} else {
		d, err := draftingService.Drafting()
		if err != nil {
			return err
		}
		if d.MeasurementsPath == "" {
			return fmt.Errorf("%w: %s names no measurement file, use --measurements", domain.ErrInvalidInput, args[0])
		}
		path = measurementsPath(args[0], d.MeasurementsPath)
	}
	printOutcome(cmd, outcome)

	st := stylesFor(cmd.OutOrStdout())
	cmd.Println(st.Muted.Render("Watching " + path))
	return measurementWatcher.Watch(ctx, path, func(m *domain.Measurements) {
		outcome, err := draftingService.SetMeasurements(m)
		if err != nil {
			cmd.PrintErrln(st.Error.Render("Error:") + " " + err.Error())
			return
		}
		printOutcome(cmd, outcome)
	})
}

// measurementsPath resolves a measurement path relative to its drafting file.
func measurementsPath(draftingPath, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(filepath.Dir(draftingPath), path)
}
