// Package aoi implements area-of-interest selection over a web-mercator map.
package aoi

import (
	"fmt"

	"github.com/go-spatial/geom"
)

// World bounds of the EPSG:3857 projection.
const (
	WebMercatorMaxX = 20037508.342789244
	WebMercatorMaxY = 19971868.880408563
)

// Extent is an axis-aligned rectangle in EPSG:3857 coordinates.
type Extent struct {
	XMin, YMin float64
	XMax, YMax float64
}

// NewExtent builds an extent from its lower-left and upper-right corners.
func NewExtent(xmin, ymin, xmax, ymax float64) (Extent, error) {
	if xmin >= xmax || ymin >= ymax {
		return Extent{}, fmt.Errorf("NewExtent: corners are not ordered: (%g,%g) (%g,%g)", xmin, ymin, xmax, ymax)
	}
	if xmin < -WebMercatorMaxX || xmax > WebMercatorMaxX || ymin < -WebMercatorMaxY || ymax > WebMercatorMaxY {
		return Extent{}, fmt.Errorf("NewExtent: (%g,%g) (%g,%g) exceeds the EPSG:3857 world bounds", xmin, ymin, xmax, ymax)
	}
	return Extent{XMin: xmin, YMin: ymin, XMax: xmax, YMax: ymax}, nil
}

// Polygon returns the extent as a closed ring.
func (e Extent) Polygon() geom.Polygon {
	return geom.Polygon{{
		{e.XMin, e.YMin},
		{e.XMax, e.YMin},
		{e.XMax, e.YMax},
		{e.XMin, e.YMax},
		{e.XMin, e.YMin},
	}}
}
