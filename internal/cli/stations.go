package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/evdash/pkg/dashboard"
	"github.com/matzehuels/evdash/pkg/errors"
	"github.com/matzehuels/evdash/pkg/stations"
)

type stationsOpts struct {
	data    dataFlags
	filters []string
	list    int
	geojson string
}

// stationsCommand creates the "stations" command summarizing a station document.
func (c *CLI) stationsCommand() *cobra.Command {
	var opts stationsOpts

	cmd := &cobra.Command{
		Use:   "stations",
		Short: "Summarize a station document by charger type",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c.resolve(&opts.data)
			return c.runStations(cmd.Context(), cmd.OutOrStdout(), &opts)
		},
	}

	opts.data.register(cmd, true, false)
	cmd.Flags().StringSliceVar(&opts.filters, "filter", nil, "show only these charger types (e.g. TESLA,J1772)")
	cmd.Flags().IntVar(&opts.list, "list", 0, "also list the first N stations")
	cmd.Flags().StringVar(&opts.geojson, "geojson", "", "write the visible markers as GeoJSON to this file")

	return cmd
}

func (c *CLI) runStations(ctx context.Context, w io.Writer, opts *stationsOpts) error {
	if opts.data.stations == "" {
		return errors.New(errors.ErrCodeInvalidInput, "no station document given (use --stations or data.stations)")
	}
	store := c.openCache(ctx, opts.data.noCache)
	defer store.Close()

	spinner := newSpinner(ctx, os.Stderr, "Loading stations...")
	spinner.Start()
	doc, err := c.newLoader(store).Load(ctx, opts.data.stations, opts.data.refresh)
	if err != nil {
		if spinner.Cancelled() {
			spinner.Stop()
			return ctx.Err()
		}
		spinner.StopWithError(errors.UserMessage(err))
		return err
	}
	spinner.Stop()

	ctl := dashboard.New(dashboard.Options{Center: c.mapCenter(), Zoom: c.cfg.Map.Zoom})
	ctl.SetStations(doc)
	for _, key := range opts.filters {
		if _, err := ctl.ToggleFilter(ctx, key); err != nil {
			return err
		}
	}
	st := ctl.State()

	fmt.Fprintln(w, StyleTitle.Render("Charging stations"))
	printKeyValue(w, "Source", opts.data.stations)
	printKeyValue(w, "Stations", StyleNumber.Render(strconv.Itoa(st.StationCount)))
	printKeyValue(w, "Markers", StyleNumber.Render(strconv.Itoa(st.Visible)))
	if len(opts.filters) > 0 {
		printKeyValue(w, "Filters", fmt.Sprint(opts.filters))
	}
	fmt.Fprintln(w, distributionTable(st.Distribution))

	if opts.list > 0 {
		fmt.Fprintln(w, stationTable(filterStations(doc.Stations, opts.filters), opts.list))
	}

	if opts.geojson != "" {
		data, err := ctl.Markers()
		if err != nil {
			return err
		}
		if err := writeFile(opts.geojson, data); err != nil {
			return err
		}
		printSuccess(w, "Wrote %d markers", st.Visible)
		printFile(w, opts.geojson)
	}
	return nil
}

// filterStations keeps stations offering any of keys. No keys keeps all.
func filterStations(list []stations.Station, keys []string) []stations.Station {
	if len(keys) == 0 {
		return list
	}
	var out []stations.Station
	for _, s := range list {
		for _, k := range keys {
			if s.Has(k) {
				out = append(out, s)
				break
			}
		}
	}
	return out
}
