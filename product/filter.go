// Package product implements the filtering and download of HyP3 subscription
// products and ASF granules.
package product

import (
	"context"
	"fmt"
	"time"

	"github.com/opensarlab/asftool/common"
	"github.com/opensarlab/asftool/interface/hyp3"
	"github.com/opensarlab/asftool/service/log"
)

// Confirmer re-queries the search API to confirm a granule against flight
// direction / orbital path constraints. Implemented by vertex.Client.
type Confirmer interface {
	Confirm(ctx context.Context, granuleName string, direction common.FlightDirection, path int) (bool, error)
}

// DateRangeValid reports whether both dates are set and in order. A reversed
// range is logged.
func DateRangeValid(ctx context.Context, start, end time.Time) bool {
	if start.IsZero() || end.IsZero() {
		return false
	}
	if start.After(end) {
		log.Logger(ctx).Sugar().Error("the start date must be prior to the end date")
		return false
	}
	return true
}

// FilterDateRange keeps the products whose acquisition date falls in
// [start, end). The end date is exclusive.
func FilterDateRange(products []hyp3.Product, start, end time.Time) ([]hyp3.Product, error) {
	var filtered []hyp3.Product
	for _, p := range products {
		date, err := common.AcquisitionDate(p.Name)
		if err != nil {
			return nil, fmt.Errorf("FilterDateRange.%w", err)
		}
		if !date.Before(start) && date.Before(end) {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}

// Filter keeps the products whose granule the search API confirms against
// the given flight direction and/or path. The confirmation is one search
// call per product.
func Filter(ctx context.Context, confirmer Confirmer, products []hyp3.Product, direction common.FlightDirection, path int) ([]hyp3.Product, error) {
	if direction == "" && path == 0 {
		return products, nil
	}
	var filtered []hyp3.Product
	for _, p := range products {
		ok, err := confirmer.Confirm(ctx, common.GranulePrefix(p.Name), direction, path)
		if err != nil {
			return nil, fmt.Errorf("Filter.%w", err)
		}
		if ok {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}
