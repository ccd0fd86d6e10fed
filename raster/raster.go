// Package raster filters downloaded GeoTIFF products on disk.
package raster

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/opensarlab/asftool/service/log"
	"golang.org/x/image/tiff"
)

// Report summarizes an empty-raster sweep.
type Report struct {
	Examined int
	Removed  int
}

func openTIFF(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return tiff.Decode(f)
}

// empty reports whether every pixel of img is zero-valued. Alpha is ignored:
// single-band SAR rasters decode as opaque grayscale.
func empty(img image.Image) bool {
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			if r|g|b != 0 {
				return false
			}
		}
	}
	return true
}

// RemoveEmptyTIFFs deletes the named rasters under dir that contain no data
// at all, a by-product of processing an area of interest that does not
// intersect the product. At least one name is required. Unreadable rasters
// are logged and left in place.
func RemoveEmptyTIFFs(ctx context.Context, dir string, names []string) (Report, error) {
	if len(names) == 0 {
		return Report{}, fmt.Errorf("RemoveEmptyTIFFs: at least one file name is required")
	}

	report := Report{}
	for _, name := range names {
		path := filepath.Join(dir, name)
		report.Examined++
		img, err := openTIFF(path)
		if err != nil {
			log.Logger(ctx).Sugar().Warnf("unreadable raster %s: %v", path, err)
			continue
		}
		if !empty(img) {
			continue
		}
		if err := os.Remove(path); err != nil {
			return report, fmt.Errorf("RemoveEmptyTIFFs.Remove: %w", err)
		}
		report.Removed++
	}

	log.Logger(ctx).Sugar().Infof("geotiffs examined: %d, removed: %d", report.Examined, report.Removed)
	return report, nil
}
