package cli

import (
	"errors"
	"fmt"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/healthdoc/internal/core/domain"
	"github.com/custodia-labs/healthdoc/internal/core/ports/driving"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render one report",
	Long: `Render one report from a recipe and a scored report context.

The context may be JSON or YAML. Use "-" to read it from standard input.

Examples:
  healthdoc render --recipe executive_summary --context acme.json
  healthdoc render --recipe risk_register --context acme.yaml --primary "#0f766e" --narrate
  healthdoc render --recipe roadmap --context - --preview > roadmap.html`,
	Args: cobra.NoArgs,
	RunE: runRender,
}

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Render several reports from one context",
	Long: `Render several recipes against the same context in parallel.

All reports of a batch share one run id and land in the same directory.
A failing recipe does not stop the others.`,
	Args: cobra.NoArgs,
	RunE: runBatch,
}

// renderFlags are the flags shared by render and batch.
type renderFlags struct {
	contextPath string
	outputDir   string
	brandName   string
	primary     string
	accent      string
	bandScale   string
	narrate     bool
	asJSON      bool
}

var (
	renderOpts   renderFlags
	renderRecipe string
	renderPrev   bool

	batchOpts    renderFlags
	batchRecipes []string
)

func init() {
	addRenderFlags(renderCmd, &renderOpts)
	renderCmd.Flags().StringVarP(&renderRecipe, "recipe", "r", "", "Recipe id to render")
	renderCmd.Flags().BoolVar(&renderPrev, "preview", false, "Write the HTML to stdout without saving")
	_ = renderCmd.MarkFlagRequired("recipe")

	addRenderFlags(batchCmd, &batchOpts)
	batchCmd.Flags().StringSliceVar(&batchRecipes, "recipes", nil, "Comma-separated recipe ids (default: all)")

	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(batchCmd)
}

func addRenderFlags(cmd *cobra.Command, f *renderFlags) {
	cmd.Flags().StringVarP(&f.contextPath, "context", "c", "", "Report context file (JSON or YAML, - for stdin)")
	cmd.Flags().StringVarP(&f.outputDir, "out", "o", "", "Output directory (default from config)")
	cmd.Flags().StringVar(&f.brandName, "brand", "", "Brand name for header and footer")
	cmd.Flags().StringVar(&f.primary, "primary", "", "Primary brand colour (#rgb or #rrggbb)")
	cmd.Flags().StringVar(&f.accent, "accent", "", "Accent colour (#rgb or #rrggbb)")
	cmd.Flags().StringVar(&f.bandScale, "band-scale", "", "Score band scale: five or four")
	cmd.Flags().BoolVar(&f.narrate, "narrate", false, "Generate narratives with the configured provider")
	cmd.Flags().BoolVar(&f.asJSON, "json", false, "Print results as JSON")
	_ = cmd.MarkFlagRequired("context")
}

func runRender(cmd *cobra.Command, _ []string) error {
	ctx := commandContext(cmd)
	opts, rc, err := prepareRender(cmd, renderOpts)
	if err != nil {
		return err
	}

	req := driving.RenderRequest{
		RecipeID: renderRecipe,
		Context:  rc,
		Options:  opts,
		Narrate:  renderOpts.narrate,
	}

	svc := renderServiceFor(opts.OutputDir)
	if svc == nil {
		return errNotConfigured("render")
	}

	if renderPrev {
		doc, err := svc.Preview(ctx, req)
		if err != nil {
			return fmt.Errorf("failed to render %s: %w", renderRecipe, err)
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), doc.HTML)
		return err
	}

	report, err := svc.Render(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to render %s: %w", renderRecipe, err)
	}

	if renderOpts.asJSON {
		return writeJSON(cmd, reportJSON(report, nil))
	}
	newPrinter(cmd.OutOrStdout()).Report(report)
	return nil
}

func runBatch(cmd *cobra.Command, _ []string) error {
	ctx := commandContext(cmd)
	opts, rc, err := prepareRender(cmd, batchOpts)
	if err != nil {
		return err
	}

	ids := batchRecipes
	if len(ids) == 0 {
		if recipeService == nil {
			return errNotConfigured("recipe")
		}
		if ids, err = recipeService.List(ctx); err != nil {
			return fmt.Errorf("failed to list recipes: %w", err)
		}
	}
	if len(ids) == 0 {
		return errors.New("no recipes to render")
	}

	svc := renderServiceFor(opts.OutputDir)
	if svc == nil {
		return errNotConfigured("render")
	}

	reqs := make([]driving.RenderRequest, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		reqs = append(reqs, driving.RenderRequest{
			RecipeID: id,
			Context:  rc,
			Options:  opts,
			Narrate:  batchOpts.narrate,
		})
	}

	results := svc.RenderBatch(ctx, reqs)

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}

	if batchOpts.asJSON {
		out := make([]map[string]any, len(results))
		for i, r := range results {
			out[i] = reportJSON(r.Report, r.Err)
			out[i]["recipe"] = r.RecipeID
		}
		if err := writeJSON(cmd, out); err != nil {
			return err
		}
	} else {
		p := newPrinter(cmd.OutOrStdout())
		for _, r := range results {
			if r.Err != nil {
				p.Fail("Failed %s: %v", r.RecipeID, r.Err)
				continue
			}
			p.Report(r.Report)
		}
		fmt.Fprintln(cmd.OutOrStdout())
		p.Muted("%d rendered, %d failed", len(results)-failed, failed)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d reports failed", failed, len(results))
	}
	return nil
}

// prepareRender loads the context and resolves per-render options.
func prepareRender(cmd *cobra.Command, f renderFlags) (domain.RenderOptions, *domain.ReportContext, error) {
	if contextLoader == nil {
		return domain.RenderOptions{}, nil, errNotConfigured("context loader")
	}

	overrides := driving.StyleOverrides{
		BrandName:    f.brandName,
		PrimaryColor: f.primary,
		AccentColor:  f.accent,
		BandScale:    domain.BandScale(f.bandScale),
		OutputDir:    f.outputDir,
	}

	var opts domain.RenderOptions
	if settingsService != nil {
		var err error
		if opts, err = settingsService.RenderOptions(overrides); err != nil {
			return domain.RenderOptions{}, nil, err
		}
	} else {
		opts = domain.RenderOptions{
			Style: domain.Style{
				BrandName:    f.brandName,
				PrimaryColor: f.primary,
				AccentColor:  f.accent,
				BandScale:    domain.BandScale(f.bandScale),
			}.WithDefaults(),
			OutputDir: f.outputDir,
		}
	}

	rc, err := contextLoader.Load(commandContext(cmd), f.contextPath)
	if err != nil {
		return domain.RenderOptions{}, nil, fmt.Errorf("failed to load context: %w", err)
	}
	return opts, rc, nil
}

// renderServiceFor picks the service writing under outputDir.
func renderServiceFor(outputDir string) driving.RenderService {
	if renderFor != nil && outputDir != "" {
		return renderFor(outputDir)
	}
	return renderService
}

func reportJSON(r *domain.GeneratedReport, err error) map[string]any {
	out := map[string]any{}
	if err != nil {
		out["error"] = err.Error()
		return out
	}
	out["reportType"] = r.ReportType
	out["reportName"] = r.ReportName
	out["runId"] = r.RunID
	out["documentPath"] = r.DocumentPath
	out["metadataPath"] = r.MetadataPath
	out["generatedAt"] = r.GeneratedAt
	out["healthScore"] = r.HealthScore
	out["healthBand"] = r.HealthBand
	return out
}

func writeJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
