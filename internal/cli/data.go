package cli

import (
	"context"

	"github.com/golang/geo/s2"
	"github.com/spf13/cobra"

	"github.com/matzehuels/evdash/pkg/errors"
	"github.com/matzehuels/evdash/pkg/hierarchy"
	"github.com/matzehuels/evdash/pkg/treediagram"
)

// dataFlags are the data source flags shared by several commands. Empty
// values fall back to the config file.
type dataFlags struct {
	stations string
	vehicles string
	sales    string
	noCache  bool
	refresh  bool
}

func (f *dataFlags) register(cmd *cobra.Command, withStations, withTree bool) {
	if withStations {
		cmd.Flags().StringVarP(&f.stations, "stations", "s", "", "station document (path or http(s) URL)")
		cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching of remote station documents")
		cmd.Flags().BoolVar(&f.refresh, "refresh", false, "ignore cached station documents")
	}
	if withTree {
		cmd.Flags().StringVar(&f.vehicles, "vehicles", "", "vehicle hierarchy JSON")
		cmd.Flags().StringVar(&f.sales, "sales", "", "sales table JSON used to size tree nodes")
	}
}

// resolve fills unset flags from the loaded config.
func (c *CLI) resolve(f *dataFlags) {
	if f.stations == "" {
		f.stations = c.cfg.Data.Stations
	}
	if f.vehicles == "" {
		f.vehicles = c.cfg.Data.Vehicles
	}
	if f.sales == "" {
		f.sales = c.cfg.Data.Sales
	}
}

// loadDiagram builds the vehicle tree diagram from the hierarchy at path.
func (c *CLI) loadDiagram(ctx context.Context, vehicles, sales string) (*treediagram.Diagram, error) {
	if vehicles == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no vehicle hierarchy given (use --vehicles or data.vehicles)")
	}
	if err := errors.ValidatePath(vehicles); err != nil {
		return nil, err
	}
	t, err := hierarchy.Load(vehicles)
	if err != nil {
		return nil, err
	}

	var table treediagram.Sales
	if sales != "" {
		if table, err = treediagram.LoadSales(sales); err != nil {
			return nil, err
		}
	}

	tc := c.cfg.Tree
	d, err := treediagram.New(ctx, t, table, treediagram.Options{
		Width:     tc.Width,
		Height:    tc.Height,
		DepthStep: tc.DepthStep,
		Duration:  tc.Duration,
	})
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("loaded vehicle hierarchy", "nodes", t.Len(), "leaves", len(t.Leaves()))
	return d, nil
}

// mapCenter returns the configured initial map center.
func (c *CLI) mapCenter() *s2.LatLng {
	ll := s2.LatLngFromDegrees(c.cfg.Map.CenterLat, c.cfg.Map.CenterLng)
	return &ll
}
