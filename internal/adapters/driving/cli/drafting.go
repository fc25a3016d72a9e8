package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/seamwork/drafter/internal/core/domain"
	"github.com/seamwork/drafter/internal/core/geometry"
)

var (
	newUnit  string
	showJSON bool
	showType string
)

var newCmd = &cobra.Command{
	Use:   "new [file]",
	Short: "Create an empty drafting file",
	Long: `Create an empty drafting and write it to file.

The unit defaults to the drafting.default_unit setting.`,
	Args: cobra.ExactArgs(1),
	RunE: runNew,
}

var showCmd = &cobra.Command{
	Use:   "show [file]",
	Short: "Recompute a drafting and list its entities",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

var opsCmd = &cobra.Command{
	Use:   "ops [file]",
	Short: "List the construction operations of a drafting",
	Args:  cobra.ExactArgs(1),
	RunE:  runOps,
}

var varsCmd = &cobra.Command{
	Use:   "vars [file]",
	Short: "List the variables available to formulas",
	Long: `List measurements, increments and the lengths and angles derived from
the recomputed geometry, in definition order.`,
	Args: cobra.ExactArgs(1),
	RunE: runVars,
}

var evalCmd = &cobra.Command{
	Use:   "eval [file] [formula]",
	Short: "Evaluate a formula against a drafting",
	Args:  cobra.ExactArgs(2),
	RunE:  runEval,
}

var checkCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Recompute a drafting and report the first failure",
	Long: `Recompute every operation of a drafting. The command fails when an
operation cannot be computed and names the operation, field and cause.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

var measureCmd = &cobra.Command{
	Use:   "measure [file] [measurements]",
	Short: "Attach a measurement file to a drafting",
	Long: `Load a TOML or YAML measurement file, recompute the drafting with it
and save the drafting referencing the file.`,
	Args: cobra.ExactArgs(2),
	RunE: runMeasure,
}

func init() {
	newCmd.Flags().StringVarP(&newUnit, "unit", "u", "", "working unit (mm, cm, m, inch, px)")
	showCmd.Flags().BoolVar(&showJSON, "json", false, "output entities as JSON")
	showCmd.Flags().StringVarP(&showType, "type", "t", "", "only show entities of this type")

	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(opsCmd)
	rootCmd.AddCommand(varsCmd)
	rootCmd.AddCommand(evalCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(measureCmd)
}

func runNew(cmd *cobra.Command, args []string) error {
	if draftingService == nil {
		return errDraftingNotConfigured
	}

	unit := domain.DefaultAppSettings().Drafting.DefaultUnit
	if settingsService != nil {
		if settings, err := settingsService.Get(); err == nil {
			unit = settings.Drafting.DefaultUnit
		}
	}
	if newUnit != "" {
		u, err := domain.ParseUnit(newUnit)
		if err != nil {
			return err
		}
		unit = u
	}

	d := draftingService.New(unit)
	if err := draftingService.Save(commandContext(cmd), args[0]); err != nil {
		return fmt.Errorf("failed to save drafting: %w", err)
	}

	cmd.Printf("Created %s (%s, id %s)\n", args[0], d.Unit, d.ID)
	return nil
}

// load opens path and warns about a failed recomputation.
func load(cmd *cobra.Command, path string) (domain.RecomputeOutcome, error) {
	if draftingService == nil {
		return domain.RecomputeOutcome{}, errDraftingNotConfigured
	}
	outcome, err := draftingService.Load(commandContext(cmd), path)
	if err != nil {
		return outcome, fmt.Errorf("failed to load %s: %w", path, err)
	}
	if !outcome.OK() {
		st := stylesFor(cmd.ErrOrStderr())
		fmt.Fprintln(cmd.ErrOrStderr(), st.Warning.Render("Warning: "+describeFailure(outcome.Failure)))
	}
	return outcome, nil
}

func runShow(cmd *cobra.Command, args []string) error {
	if queryService == nil {
		return errQueryNotConfigured
	}
	if _, err := load(cmd, args[0]); err != nil {
		return err
	}

	entities, err := queryService.Entities()
	if err != nil {
		return fmt.Errorf("failed to list entities: %w", err)
	}
	if showType != "" {
		filtered := entities[:0]
		for i := range entities {
			if string(entities[i].Type) == showType {
				filtered = append(filtered, entities[i])
			}
		}
		entities = filtered
	}

	if showJSON {
		return outputEntitiesJSON(cmd, entities)
	}

	if len(entities) == 0 {
		cmd.Println("No entities.")
		return nil
	}

	st := stylesFor(cmd.OutOrStdout())
	cmd.Println(st.Title.Render("Entities"))
	for i := range entities {
		e := &entities[i]
		cmd.Printf("  %-4d %-10s %-16s %s\n", e.ID, e.Type, e.Label, st.Muted.Render(describeGeometry(e)))
	}
	cmd.Println()
	cmd.Printf("Total: %d entities\n", len(entities))
	return nil
}

// entityJSON is the JSON form of an entity for the show command.
type entityJSON struct {
	ID       domain.ID `json:"id"`
	Label    string    `json:"label"`
	Type     string    `json:"type"`
	Source   domain.ID `json:"source"`
	Geometry string    `json:"geometry"`
}

func outputEntitiesJSON(cmd *cobra.Command, entities []domain.Entity) error {
	out := make([]entityJSON, len(entities))
	for i := range entities {
		out[i] = entityJSON{
			ID:       entities[i].ID,
			Label:    entities[i].Label,
			Type:     string(entities[i].Type),
			Source:   entities[i].Source,
			Geometry: describeGeometry(&entities[i]),
		}
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal entities: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func runOps(cmd *cobra.Command, args []string) error {
	if queryService == nil {
		return errQueryNotConfigured
	}
	if _, err := load(cmd, args[0]); err != nil {
		return err
	}

	ops, err := queryService.Operations()
	if err != nil {
		return fmt.Errorf("failed to list operations: %w", err)
	}
	if len(ops) == 0 {
		cmd.Println("No operations.")
		return nil
	}

	st := stylesFor(cmd.OutOrStdout())
	cmd.Println(st.Title.Render("Operations"))
	for i := range ops {
		op := &ops[i]
		label := op.Params.Label()
		if label == "" {
			label = "-"
		}
		cmd.Printf("  %-4d %-22s %-10s %s\n", op.ID, op.Kind(), label, st.Muted.Render(formatFormulas(op.Params.Formulas())))
	}
	return nil
}

func runVars(cmd *cobra.Command, args []string) error {
	if queryService == nil {
		return errQueryNotConfigured
	}
	if _, err := load(cmd, args[0]); err != nil {
		return err
	}

	vars, err := queryService.Variables()
	if err != nil {
		return fmt.Errorf("failed to list variables: %w", err)
	}
	if len(vars) == 0 {
		cmd.Println("No variables.")
		return nil
	}

	st := stylesFor(cmd.OutOrStdout())
	cmd.Println(st.Title.Render("Variables"))
	for i := range vars {
		cmd.Printf("  %-24s %12s  %s\n", vars[i].Name, formatNumber(vars[i].Value), st.Muted.Render(string(vars[i].Kind)))
	}
	return nil
}

func runEval(cmd *cobra.Command, args []string) error {
	if queryService == nil {
		return errQueryNotConfigured
	}
	if _, err := load(cmd, args[0]); err != nil {
		return err
	}

	value, err := queryService.Evaluate(args[1])
	if err != nil {
		return fmt.Errorf("failed to evaluate %q: %w", args[1], err)
	}
	cmd.Println(formatNumber(value))
	return nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	if draftingService == nil {
		return errDraftingNotConfigured
	}
	outcome, err := draftingService.Load(commandContext(cmd), args[0])
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", args[0], err)
	}

	st := stylesFor(cmd.OutOrStdout())
	if !outcome.OK() {
		cmd.Println(st.Error.Render("FAIL") + " " + describeFailure(outcome.Failure))
		return fmt.Errorf("%w: %s", domain.ErrRecomputeFailed, args[0])
	}
	cmd.Printf("%s %d operations, %d entities\n", st.Success.Render("OK"), outcome.Executed, outcome.Entities)
	return nil
}

func runMeasure(cmd *cobra.Command, args []string) error {
	if draftingService == nil {
		return errDraftingNotConfigured
	}
	if _, err := load(cmd, args[0]); err != nil {
		return err
	}

	outcome, err := draftingService.LoadMeasurements(commandContext(cmd), args[1])
	if err != nil {
		return fmt.Errorf("failed to apply measurements: %w", err)
	}
	if err := draftingService.Save(commandContext(cmd), ""); err != nil {
		return fmt.Errorf("failed to save drafting: %w", err)
	}

	printOutcome(cmd, outcome)
	return nil
}

// printOutcome reports a recomputation result.
func printOutcome(cmd *cobra.Command, outcome domain.RecomputeOutcome) {
	st := stylesFor(cmd.OutOrStdout())
	if !outcome.OK() {
		cmd.Println(st.Error.Render("Broken:") + " " + describeFailure(outcome.Failure))
		return
	}
	cmd.Printf("%s recomputed %d operations, %d entities\n", st.Success.Render("OK"), outcome.Executed, outcome.Entities)
}

// describeFailure names the failing operation and the error class.
func describeFailure(failure *domain.OperationError) string {
	if failure == nil {
		return ""
	}
	return fmt.Sprintf("%v [%s]", failure, domain.Classify(failure.Cause))
}

func describeGeometry(e *domain.Entity) string {
	switch g := e.Geometry.(type) {
	case domain.PointGeom:
		return fmt.Sprintf("(%s, %s)", formatNumber(g.X), formatNumber(g.Y))
	case domain.LineGeom:
		return fmt.Sprintf("length %s angle %s", formatNumber(g.Segment.Length()), formatNumber(g.Segment.Angle()))
	case domain.ArcGeom:
		return fmt.Sprintf("radius %s length %s", formatNumber(g.Arc.Radius), formatNumber(g.Arc.Length()))
	case domain.SplineGeom:
		return "length " + formatNumber(g.Curve.Length())
	case domain.SplinePathGeom:
		return fmt.Sprintf("length %s through %d points", formatNumber(g.Path.Length()), len(g.Points))
	case domain.DetailGeom:
		return fmt.Sprintf("area %s perimeter %s", formatNumber(g.Outline.Area()), formatNumber(g.Outline.Perimeter()))
	default:
		return ""
	}
}

func formatFormulas(formulas []domain.Formula) string {
	parts := make([]string, len(formulas))
	for i, f := range formulas {
		parts[i] = f.Field + "=" + f.Expr
	}
	return strings.Join(parts, " ")
}

// formatNumber prints v with at most four decimals.
func formatNumber(v float64) string {
	s := fmt.Sprintf("%.4f", geometry.Round(v, 4))
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}
