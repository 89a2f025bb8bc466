package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/fickle/internal/application/usecase"
	"github.com/bnema/fickle/internal/cli/styles"
	"github.com/bnema/fickle/internal/domain/entity"
	"github.com/bnema/fickle/internal/infrastructure/engine"
)

var enginesSetID string

var enginesCmd = &cobra.Command{
	Use:   "engines",
	Short: "List detected rendering backends",
	Long: `Engines probes the system for usable rendering backends and lists them.

Each backend is probed in isolation; one broken backend never hides the
others. The preferred backend (if set) and the fallback default are marked.

Examples:
  fickle engines
  fickle engines --set webkit-platform`,
	RunE: runEngines,
}

func init() {
	rootCmd.AddCommand(enginesCmd)
	enginesCmd.Flags().StringVar(&enginesSetID, "set", "", "Persist a backend as the preferred engine")
}

func runEngines(cmd *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}
	ctx := app.Ctx()
	cfg := app.Config.Get()

	detector := engine.DetectorFromConfig(cfg)
	descriptors := detector.Detect(ctx)
	selector := usecase.NewSelectEngineUseCase(app.Config)

	if enginesSetID != "" {
		id := entity.EngineID(enginesSetID)
		if _, ok := entity.FindDescriptor(descriptors, id); !ok {
			return fmt.Errorf("unknown engine %q, pick one of: %s", enginesSetID, engineIDs(descriptors))
		}
		if err := selector.SetPreferred(ctx, id); err != nil {
			return err
		}
		fmt.Printf("preferred engine set to %s\n", enginesSetID)
	}

	report := styles.EnginesReport{
		Preferred: string(selector.Preferred()),
	}
	if best, err := selector.Resolve(ctx, "", descriptors); err == nil {
		report.Default = string(best.ID)
	}
	for _, d := range descriptors {
		report.Rows = append(report.Rows, styles.EngineRow{
			ID:           string(d.ID),
			DisplayName:  d.DisplayName,
			Origin:       d.Origin.String(),
			Capabilities: d.Caps.Names(),
		})
	}

	fmt.Println(styles.NewEnginesRenderer(app.Theme).Render(report))
	return nil
}

func engineIDs(descriptors []entity.Descriptor) string {
	out := ""
	for i, d := range descriptors {
		if i > 0 {
			out += ", "
		}
		out += string(d.ID)
	}
	return out
}
