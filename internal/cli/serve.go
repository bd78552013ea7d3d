package cli

import (
	"context"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/evdash/internal/server"
	"github.com/matzehuels/evdash/pkg/dashboard"
	"github.com/matzehuels/evdash/pkg/errors"
	"github.com/matzehuels/evdash/pkg/treediagram"
)

type serveOpts struct {
	data     dataFlags
	addr     string
	imageDir string
}

// serveCommand creates the "serve" command hosting the dashboard.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the interactive dashboard",
		Long: `Serve the dashboard page and its JSON/websocket API.

The server starts immediately and loads the station document in the
background; until it arrives the page shows a loading state.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c.resolve(&opts.data)
			if opts.addr != "" {
				c.cfg.Server.Addr = opts.addr
			}
			if opts.imageDir != "" {
				c.cfg.Server.ImageDir = opts.imageDir
			}
			return c.runServe(cmd.Context(), cmd.OutOrStdout(), &opts)
		},
	}

	opts.data.register(cmd, true, true)
	cmd.Flags().StringVarP(&opts.addr, "addr", "a", "", "listen address (default from config, 127.0.0.1:8080)")
	cmd.Flags().StringVar(&opts.imageDir, "images", "", "directory of <vehicle id>.jpg tooltip images")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, w io.Writer, opts *serveOpts) error {
	cfg := c.cfg
	if opts.data.stations == "" {
		return errors.New(errors.ErrCodeInvalidInput, "no station document given (use --stations or data.stations)")
	}

	var diagram *treediagram.Diagram
	if opts.data.vehicles != "" {
		d, err := c.loadDiagram(ctx, opts.data.vehicles, opts.data.sales)
		if err != nil {
			return err
		}
		diagram = d
	}

	store := c.openCache(ctx, opts.data.noCache)
	defer store.Close()

	ctl := dashboard.New(dashboard.Options{
		Center:    c.mapCenter(),
		Zoom:      cfg.Map.Zoom,
		ImageBase: cfg.Server.ImageBase,
		Tree:      diagram,
	})
	srv := server.New(server.Config{
		Addr:           cfg.Server.Addr,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		ImageDir:       cfg.Server.ImageDir,
		ImageBase:      cfg.Server.ImageBase,
		RequestTimeout: cfg.Server.RequestTimeout,
	}, ctl, c.Logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.ListenAndServe)
	g.Go(func() error {
		// a failed load is shown on the page, it does not stop the server
		_ = ctl.Load(gctx, c.newLoader(store), opts.data.stations, opts.data.refresh)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	printInfo(w, "Dashboard at %s", StyleLink.Render(dashboardURL(cfg.Server.Addr)))
	printDetail(w, "Press Ctrl+C to stop")
	return g.Wait()
}

func dashboardURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr + "/"
}
