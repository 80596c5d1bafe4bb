package main

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	printdem "github.com/JuanDSuarezAI/print-dem"

	"github.com/spf13/cobra"
)

type kindFlags struct {
	shapefile    string
	out          string
	categorical  bool
	noBasemap    bool
	noClobber    bool
	maxDimension int
	maxPixels    int
	timeout      time.Duration
	azimuth      float64
	altitude     float64
	blend        string
	vertExag     float64
}

// newKindCmd builds one per-kind subcommand; they differ only in which
// calibration they select and which flags make sense for it.
func newKindCmd(kind printdem.MapKind, use, short string) *cobra.Command {
	var f kindFlags
	shaded := kind == printdem.KindSlope || kind == printdem.KindElevation
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			r := printdem.NewRenderer(printdem.Config{
				MaxDimension:   f.maxDimension,
				MaxPixels:      f.maxPixels,
				BasemapTimeout: f.timeout,
				TmpDir:         tmpDir,
				NoClobber:      f.noClobber,
			})
			job := printdem.Job{
				Raster:      args[0],
				Kind:        kind,
				Shapefile:   f.shapefile,
				Out:         f.out,
				Categorical: f.categorical,
				NoBasemap:   f.noBasemap,
			}
			if shaded && (cmd.Flags().Changed("azimuth") || cmd.Flags().Changed("altitude") ||
				cmd.Flags().Changed("blend") || cmd.Flags().Changed("vert-exag")) {
				job.Shading = &printdem.ShadingParams{
					Azimuth:  f.azimuth,
					Altitude: f.altitude,
					Blend:    printdem.BlendMode(f.blend),
					VertExag: f.vertExag,
				}
			}
			res, err := r.Render(ctx, job)
			if err != nil {
				return err
			}
			for _, w := range res.Warnings {
				fmt.Fprintln(os.Stderr, "warning:", w)
			}
			fmt.Println("saved:", res.Image)
			if res.SlopeRaster != "" {
				fmt.Println("slope raster:", res.SlopeRaster)
			}
			return nil
		},
	}
	fl := cmd.Flags()
	fl.StringVarP(&f.shapefile, "shapefile", "s", "", "boundary shapefile drawn dashed over the map")
	fl.StringVarP(&f.out, "out", "o", "", "output image name, .png or .jpg (default derived from the raster)")
	fl.BoolVar(&f.noBasemap, "no-basemap", false, "skip the satellite basemap")
	fl.BoolVar(&f.noClobber, "no-clobber", false, "fail instead of overwriting an existing output")
	fl.IntVar(&f.maxDimension, "max-dimension", 0, "pixel cap per side when decimating the raster")
	fl.IntVar(&f.maxPixels, "max-pixels", 0, "total pixel cap when decimating the raster")
	fl.DurationVar(&f.timeout, "basemap-timeout", 0, "basemap tile download timeout")
	if kind.Categorizable() {
		fl.BoolVar(&f.categorical, "categorical", false, "classify into fixed danger buckets instead of a gradient")
	}
	if shaded {
		ds := kind.DefaultShading()
		fl.Float64Var(&f.azimuth, "azimuth", ds.Azimuth, "light azimuth in degrees")
		fl.Float64Var(&f.altitude, "altitude", ds.Altitude, "light altitude in degrees")
		fl.StringVar(&f.blend, "blend", string(ds.Blend), "hillshade blend mode: overlay or soft")
		fl.Float64Var(&f.vertExag, "vert-exag", ds.VertExag, "vertical exaggeration")
	}
	return cmd
}
