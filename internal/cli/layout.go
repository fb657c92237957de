package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sruja-ai/sruja-sub008/pkg/diagram"
	"github.com/sruja-ai/sruja-sub008/pkg/errors"
	"github.com/sruja-ai/sruja-sub008/pkg/geom"
	"github.com/sruja-ai/sruja-sub008/pkg/layout"
	"github.com/sruja-ai/sruja-sub008/pkg/model"
	"github.com/sruja-ai/sruja-sub008/pkg/pipeline"
)

// layoutFlags are the options of the layout command.
type layoutFlags struct {
	output      string
	optionsFile string
	preset      string
	direction   string
	viewport    string
	collapse    []string
	hide        []string
	refresh     bool
	cache       cacheFlags
}

// layoutCommand creates the layout command.
func (c *CLI) layoutCommand() *cobra.Command {
	var f layoutFlags

	cmd := &cobra.Command{
		Use:   "layout [diagram.json|diagram.toml]",
		Short: "Compute the layout of a C4 diagram",
		Long: `Compute the layout of a C4 diagram.

The layout command reads a diagram document (JSON or TOML, nested under
"root" or flat under "elements") and writes the positioned elements and
edge hints as JSON. Parents enclose their children, siblings never overlap
and relationships flow in the chosen direction.

Options are applied in this order, later wins: preset defaults, the
document's preset and view, the --options file, then individual flags.

Results are cached locally for faster subsequent runs.`,
		Example: `  sruja-layout layout bank.json
  sruja-layout layout bank.toml --preset presentation --direction LR -o -
  sruja-layout layout bank.json --viewport 1920x1080 --collapse web`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], f)
		},
	}

	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file (default: <input>.layout.json, - for stdout)")
	cmd.Flags().StringVar(&f.optionsFile, "options", "", "TOML file with layout options")
	cmd.Flags().StringVarP(&f.preset, "preset", "p", "", "layout preset: "+strings.Join(layout.Presets(), ", "))
	cmd.Flags().StringVarP(&f.direction, "direction", "d", "", "flow direction: TB, LR, RL")
	cmd.Flags().StringVar(&f.viewport, "viewport", "", "expand the layout to fit a WxH viewport")
	cmd.Flags().StringSliceVar(&f.collapse, "collapse", nil, "elements to draw without their children")
	cmd.Flags().StringSliceVar(&f.hide, "hide", nil, "elements to leave out")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "recompute even when a cached layout exists")
	f.cache.register(cmd)

	return cmd
}

// runLayout lays out the document at input and writes the result.
func (c *CLI) runLayout(ctx context.Context, input string, f layoutFlags) error {
	logger := loggerFromContext(ctx)

	doc, err := diagram.ReadDocumentFile(input)
	if err != nil {
		return err
	}
	doc.View.Collapse = append(doc.View.Collapse, model.IDs(f.collapse...)...)
	doc.View.Hide = append(doc.View.Hide, model.IDs(f.hide...)...)

	opts, err := f.layoutOptions()
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, f.cache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(logger)
	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()
	res, err := runner.Execute(ctx, doc, pipeline.Options{Layout: opts, Refresh: f.refresh})
	if err != nil {
		spinner.StopWithError("Layout failed")
		return err
	}

	output := f.output
	if output == "" {
		output = defaultOutput(input)
	}
	if output == "-" {
		// stdout carries only the layout document
		spinner.Stop()
		prog.done(fmt.Sprintf("Laid out %d elements", res.Stats.NodeCount))
		return diagram.WriteLayout(res.Layout, stdout)
	}
	if err := diagram.WriteLayoutFile(res.Layout, output); err != nil {
		spinner.StopWithError("Layout failed")
		return err
	}
	spinner.StopWithSuccess("Layout computed")
	prog.done(fmt.Sprintf("Laid out %d elements", res.Stats.NodeCount))
	logger.Debug("wrote layout", "path", output, "key", res.CacheInfo.Key)

	printFile(output)
	printStats(res.Stats.NodeCount, res.Stats.EdgeCount, res.Layout.Width, res.Layout.Height, res.CacheInfo.Hit)
	if n := len(res.Layout.BackEdges); n > 0 {
		printWarning("%d relationship(s) close a cycle and run against the flow", n)
	}
	return nil
}

// layoutOptions builds the explicit layout options from the options file
// and the flags.
func (f layoutFlags) layoutOptions() (layout.Options, error) {
	var opts layout.Options
	if f.optionsFile != "" {
		var err error
		if opts, err = layout.LoadOptionsFile(f.optionsFile); err != nil {
			return layout.Options{}, err
		}
	}
	if f.preset != "" {
		if _, err := layout.Preset(f.preset); err != nil {
			return layout.Options{}, err
		}
		opts.Preset = f.preset
	}
	if f.direction != "" {
		d := model.Direction(strings.ToUpper(f.direction))
		if !d.Valid() {
			return layout.Options{}, errors.New(errors.ErrCodeInvalidOptions, "invalid direction %q (must be one of: TB, LR, RL)", f.direction)
		}
		opts.Direction = d
	}
	if f.viewport != "" {
		size, err := parseSize(f.viewport)
		if err != nil {
			return layout.Options{}, err
		}
		opts.Viewport.Size = size
	}
	return opts, nil
}

// parseSize parses "WxH" into a size.
func parseSize(s string) (geom.Size, error) {
	w, h, ok := strings.Cut(strings.ToLower(s), "x")
	if ok {
		wv, errW := strconv.ParseFloat(strings.TrimSpace(w), 64)
		hv, errH := strconv.ParseFloat(strings.TrimSpace(h), 64)
		if size := (geom.Size{W: wv, H: hv}); errW == nil && errH == nil && size.Valid() {
			return size, nil
		}
	}
	return geom.Size{}, errors.New(errors.ErrCodeInvalidOptions, "invalid viewport %q (want WIDTHxHEIGHT, e.g. 1920x1080)", s)
}

// defaultOutput derives <input>.layout.json from the input path.
func defaultOutput(input string) string {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return fmt.Sprintf("%s.layout.json", base)
}
