package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/evdash/pkg/dashboard"
	"github.com/matzehuels/evdash/pkg/errors"
	"github.com/matzehuels/evdash/pkg/render"
	"github.com/matzehuels/evdash/pkg/render/tree/sink"
	"github.com/matzehuels/evdash/pkg/treediagram"
)

// Views that can be rendered.
const (
	viewTree         = "tree"
	viewDistribution = "distribution"
	viewMarkers      = "markers"
)

const (
	engineNative   = "native"
	engineGraphviz = "graphviz"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	data     dataFlags
	output   string   // output file path (or base path for multiple outputs)
	views    []string // tree, distribution, markers
	formats  []string // svg, png, pdf, json, dot
	reveal   string   // model to open the tree down to
	clicks   []int    // node IDs to toggle, in order, after reveal
	filters  []string // charger types to filter the distribution by
	static   bool     // drop transition animations
	tooltips string   // image base URL for leaf tooltips
	scale    float64  // PNG scale factor
	engine   string   // native or graphviz (tree only)
}

// renderCommand creates the render command for writing dashboard views to files.
func (c *CLI) renderCommand() *cobra.Command {
	var viewsStr, formatsStr string
	opts := renderOpts{scale: 2, engine: engineNative}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render dashboard views to SVG, PNG, PDF, JSON or DOT",
		Long: `Render the vehicle tree, the charger distribution chart or the station
markers to files.

The tree starts collapsed at the root. Use --reveal to open it down to a model
and --click to toggle further nodes by ID; the rendered frame is the one
produced by the last step. --filter applies charger filters, in order, before
the distribution and markers are written.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c.resolve(&opts.data)
			opts.views = splitList(viewsStr, viewTree)
			opts.formats = splitList(formatsStr, "svg")
			if err := validateViews(opts.views); err != nil {
				return err
			}
			if err := validateFormats(opts.formats); err != nil {
				return err
			}
			if opts.engine != engineNative && opts.engine != engineGraphviz {
				return errors.New(errors.ErrCodeInvalidInput, "invalid engine %q (must be native or graphviz)", opts.engine)
			}
			paths, err := c.runRender(cmd.Context(), &opts)
			for _, p := range paths {
				printFile(cmd.OutOrStdout(), p)
			}
			return err
		},
	}

	opts.data.register(cmd, true, true)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single view/format) or base path (multiple)")
	cmd.Flags().StringVarP(&viewsStr, "view", "t", "", "view(s): tree (default), distribution, markers (comma-separated)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, json, dot (comma-separated)")
	cmd.Flags().StringVar(&opts.reveal, "reveal", "", "open the tree down to this model")
	cmd.Flags().IntSliceVar(&opts.clicks, "click", nil, "toggle tree node IDs in order")
	cmd.Flags().StringSliceVar(&opts.filters, "filter", nil, "toggle charger filters in order (e.g. TESLA,J1772)")
	cmd.Flags().BoolVar(&opts.static, "static", false, "render the settled frame without animations")
	cmd.Flags().StringVar(&opts.tooltips, "tooltips", "", "image base URL for leaf tooltips")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG scale factor")
	cmd.Flags().StringVar(&opts.engine, "engine", opts.engine, "tree renderer: native or graphviz")

	return cmd
}

// splitList parses a comma-separated flag. If empty, it returns [def].
func splitList(s, def string) []string {
	if s == "" {
		return []string{def}
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

var validViews = map[string]bool{viewTree: true, viewDistribution: true, viewMarkers: true}

func validateViews(views []string) error {
	for _, v := range views {
		if !validViews[v] {
			return errors.New(errors.ErrCodeInvalidInput, "invalid view: %s (must be tree, distribution or markers)", v)
		}
	}
	return nil
}

func validateFormats(formats []string) error {
	for _, f := range formats {
		if !slices.Contains(render.Formats, f) {
			return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %s (must be one of %s)", f, strings.Join(render.Formats, ", "))
		}
	}
	return nil
}

// basePath derives the base output path. A known format extension on
// output is stripped.
func basePath(output string) string {
	if output == "" {
		return appName
	}
	ext := filepath.Ext(output)
	if slices.Contains(render.Formats, strings.TrimPrefix(ext, ".")) {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// outputPath names the file for one view/format pair.
func outputPath(opts *renderOpts, view, format string) string {
	if len(opts.views) == 1 && len(opts.formats) == 1 && opts.output != "" {
		return opts.output
	}
	base := basePath(opts.output)
	if len(opts.views) == 1 {
		return fmt.Sprintf("%s.%s", base, format)
	}
	return fmt.Sprintf("%s_%s.%s", base, view, format)
}

// errSkipFormat marks a view/format pair that has no rendering.
var errSkipFormat = fmt.Errorf("skip unsupported format")

type renderJob struct {
	view, format string
}

// runRender prepares the requested views and writes every view/format pair
// concurrently. It returns the written paths in a stable order.
func (c *CLI) runRender(ctx context.Context, opts *renderOpts) ([]string, error) {
	logger := loggerFromContext(ctx)

	var (
		diagram *treediagram.Diagram
		ctl     *dashboard.Controller
	)
	if slices.Contains(opts.views, viewTree) {
		d, err := c.prepareTree(ctx, opts)
		if err != nil {
			return nil, err
		}
		diagram = d
	}
	if slices.Contains(opts.views, viewDistribution) || slices.Contains(opts.views, viewMarkers) {
		ct, err := c.prepareStations(ctx, opts)
		if err != nil {
			return nil, err
		}
		ctl = ct
	}

	var (
		mu    sync.Mutex
		paths []string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, v := range opts.views {
		for _, f := range opts.formats {
			job := renderJob{view: v, format: f}
			g.Go(func() error {
				var data []byte
				var err error
				switch job.view {
				case viewTree:
					data, err = renderTree(gctx, diagram, job.format, opts)
				default:
					data, err = renderStations(gctx, ctl, job.view, job.format)
				}
				if err == errSkipFormat {
					logger.Debugf("Skipping %s/%s (unsupported combination)", job.view, job.format)
					return nil
				}
				if err != nil {
					return fmt.Errorf("%s/%s: %w", job.view, job.format, err)
				}

				path := outputPath(opts, job.view, job.format)
				if err := writeFile(path, data); err != nil {
					return err
				}
				logger.Debugf("Generated %s: %d bytes", path, len(data))
				mu.Lock()
				paths = append(paths, path)
				mu.Unlock()
				return nil
			})
		}
	}
	err := g.Wait()
	slices.Sort(paths)
	return paths, err
}

func (c *CLI) prepareTree(ctx context.Context, opts *renderOpts) (*treediagram.Diagram, error) {
	d, err := c.loadDiagram(ctx, opts.data.vehicles, opts.data.sales)
	if err != nil {
		return nil, err
	}
	if opts.reveal != "" {
		if _, _, err := d.RevealPath(ctx, opts.reveal); err != nil {
			return nil, err
		}
	}
	for _, id := range opts.clicks {
		if _, err := d.Click(ctx, id); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func (c *CLI) prepareStations(ctx context.Context, opts *renderOpts) (*dashboard.Controller, error) {
	if opts.data.stations == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no station document given (use --stations or data.stations)")
	}
	store := c.openCache(ctx, opts.data.noCache)
	defer store.Close()

	ctl := dashboard.New(dashboard.Options{Center: c.mapCenter(), Zoom: c.cfg.Map.Zoom})
	prog := newProgress(c.Logger)
	if err := ctl.Load(ctx, c.newLoader(store), opts.data.stations, opts.data.refresh); err != nil {
		return nil, err
	}
	st := ctl.State()
	prog.done(fmt.Sprintf("Loaded %d stations", st.StationCount))

	for _, key := range opts.filters {
		if _, err := ctl.ToggleFilter(ctx, key); err != nil {
			return nil, err
		}
	}
	return ctl, nil
}

func renderTree(ctx context.Context, d *treediagram.Diagram, format string, opts *renderOpts) ([]byte, error) {
	var svgOpts []sink.SVGOption
	if opts.static {
		svgOpts = append(svgOpts, sink.WithStatic())
	}
	if opts.tooltips != "" {
		svgOpts = append(svgOpts, sink.WithTooltips(opts.tooltips))
	}
	f := d.Frame()

	switch format {
	case "json":
		return json.MarshalIndent(f, "", "  ")
	case "dot":
		return []byte(d.DOT()), nil
	}
	if opts.engine == engineGraphviz {
		switch format {
		case "svg", "png":
			return sink.RenderDOT(ctx, d.DOT(), format)
		case "pdf":
			svg, err := sink.RenderDOT(ctx, d.DOT(), "svg")
			if err != nil {
				return nil, err
			}
			return render.ToPDF(ctx, svg)
		}
	}
	switch format {
	case "svg":
		return d.SVG(svgOpts...), nil
	case "png":
		return sink.RenderPNG(ctx, f, opts.scale, svgOpts...)
	case "pdf":
		return sink.RenderPDF(ctx, f, svgOpts...)
	default:
		return nil, fmt.Errorf("unknown format: %s", format)
	}
}

func renderStations(ctx context.Context, ctl *dashboard.Controller, view, format string) ([]byte, error) {
	if view == viewMarkers {
		if format != "json" {
			return nil, errSkipFormat
		}
		return ctl.Markers()
	}

	switch format {
	case "json":
		d, err := ctl.Distribution()
		if err != nil {
			return nil, err
		}
		return json.MarshalIndent(d, "", "  ")
	case "dot":
		return nil, errSkipFormat
	}
	svg, err := ctl.DistributionSVG()
	if err != nil {
		return nil, err
	}
	switch format {
	case "png":
		return render.ToPNG(ctx, svg, 2)
	case "pdf":
		return render.ToPDF(ctx, svg)
	default:
		return svg, nil
	}
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}
