package printdem

import (
	"path/filepath"
	"strings"

	"github.com/JuanDSuarezAI/print-dem/utils"
)

// OutputName decides the image file name for a job. Explicit names are
// normalized as given; derived names follow the kind's prefix plus the
// raster stem, except elevation maps, which land next to their source.
func OutputName(job Job) (name string, err error) {
	if job.Out != "" {
		name = NormalizeName(job.Out)
		return
	}
	spec, err := job.Kind.spec()
	if err != nil {
		return
	}
	stem := utils.SanitizeStem(utils.GetFilenameWithoutExt(job.Raster))
	if job.Kind == KindElevation {
		name = filepath.Join(filepath.Dir(job.Raster), stem+"_hillshade"+FILE_EXT_PNG)
		return
	}
	name = spec.prefix + "_" + stem + FILE_EXT_PNG
	return
}

// NormalizeName cleans a user supplied output name: surrounding quotes
// and spaces go, stacked image extensions collapse to the outermost
// one, and a missing extension defaults to png.
func NormalizeName(raw string) string {
	name := strings.TrimSpace(strings.Trim(strings.TrimSpace(raw), `"'`))
	if name == "" {
		return ""
	}
	ext := ""
	for {
		lower := strings.ToLower(name)
		hit := ""
		for _, e := range []string{FILE_EXT_PNG, FILE_EXT_JPG, FILE_EXT_JPEG} {
			if strings.HasSuffix(lower, e) {
				hit = e
				break
			}
		}
		if hit == "" {
			break
		}
		if ext == "" {
			ext = hit
		}
		name = name[:len(name)-len(hit)]
	}
	if ext == "" {
		ext = FILE_EXT_PNG
	}
	return name + ext
}

// SlopeRasterName is the auxiliary slope GeoTIFF written alongside the
// slope map image.
func SlopeRasterName(raster string) string {
	stem := utils.SanitizeStem(utils.GetFilenameWithoutExt(raster))
	return "pendiente_" + stem + FILE_EXT_TIF
}
