package main

import (
	"fmt"
	"os"

	printdem "github.com/JuanDSuarezAI/print-dem"
	"github.com/JuanDSuarezAI/print-dem/log"

	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"
)

var (
	verbose  bool
	projData string
	tmpDir   string
)

var rootCmd = &cobra.Command{
	Use:   "print-dem",
	Short: "Flood hazard and terrain map renderer for GeoTIFF rasters",
	Long: `print-dem turns hydraulic model rasters and DEMs into shareable map
images: flow velocity, flood depth, slope and hillshaded elevation,
with a satellite basemap, an urban perimeter overlay and a calibrated
legend.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetLevel(zapcore.DebugLevel)
		}
		printdem.Setup(projData)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
	rootCmd.PersistentFlags().StringVar(&projData, "proj-data", "", "PROJ data directory (or set PRINTDEM_PROJ_DATA)")
	rootCmd.PersistentFlags().StringVar(&tmpDir, "tmp-dir", "", "directory for temporary rasters (or set PRINTDEM_TMP_DIR)")

	rootCmd.AddCommand(
		newKindCmd(printdem.KindVelocity, "velocity RASTER", "Render a flow velocity hazard map"),
		newKindCmd(printdem.KindDepth, "depth RASTER", "Render a flood depth hazard map"),
		newKindCmd(printdem.KindSlope, "slope RASTER", "Render a slope map plus its auxiliary GeoTIFF"),
		newKindCmd(printdem.KindElevation, "elevation RASTER", "Render a hillshaded elevation map"),
	)
}

func main() {
	err := rootCmd.Execute()
	log.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
