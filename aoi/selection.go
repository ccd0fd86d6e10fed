package aoi

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/go-spatial/geom"
	"github.com/opensarlab/asftool/service/log"
)

// State of a Selection. A selection is constructed, displayed once, then
// alternates between selecting and selected until it is reset.
type State int

const (
	StateNew State = iota
	StateDisplayed
	StateSelected
	StateReset
)

func (s State) String() string {
	switch s {
	case StateNew:
		return "new"
	case StateDisplayed:
		return "displayed"
	case StateSelected:
		return "selected"
	case StateReset:
		return "reset"
	}
	return "unknown"
}

// SelectEvent carries the two corners of a box drawn on the map, in the
// order the user drew them.
type SelectEvent struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

// Subset is the selected rectangle. The corner order is exactly the order
// of the select event that produced it.
type Subset struct {
	OK     bool
	Coords [2][2]float64
}

// MarshalJSON renders [[x0,y0],[x1,y1]], or nulls when nothing is selected.
func (s Subset) MarshalJSON() ([]byte, error) {
	if !s.OK {
		return []byte("[[null,null],[null,null]]"), nil
	}
	return json.Marshal(s.Coords)
}

// Selection tracks the current subset of an extent. Safe for concurrent use.
type Selection struct {
	mu     sync.Mutex
	extent Extent
	state  State
	subset Subset
}

func NewSelection(extent Extent) *Selection {
	return &Selection{extent: extent}
}

func (s *Selection) Extent() Extent {
	return s.extent
}

// Display marks the selection as shown to the user.
func (s *Selection) Display(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateNew {
		s.state = StateDisplayed
	}
	log.Logger(ctx).Sugar().Debugf("selection displayed over extent %+v", s.extent)
}

// Apply records the box of ev as the current subset, coordinates verbatim.
func (s *Selection) Apply(ctx context.Context, ev SelectEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subset = Subset{OK: true, Coords: [2][2]float64{{ev.X0, ev.Y0}, {ev.X1, ev.Y1}}}
	s.state = StateSelected
	log.Logger(ctx).Sugar().Infof("subset selected: (%g,%g) (%g,%g)", ev.X0, ev.Y0, ev.X1, ev.Y1)
}

// Reset clears the current subset.
func (s *Selection) Reset(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subset = Subset{}
	s.state = StateReset
	log.Logger(ctx).Sugar().Info("subset reset")
}

func (s *Selection) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subset returns the current subset, OK=false when nothing is selected.
func (s *Selection) Subset() Subset {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subset
}

// SubsetPolygon returns the selected rectangle as a closed ring, or nil
// when nothing is selected.
func (s *Selection) SubsetPolygon() *geom.Polygon {
	sub := s.Subset()
	if !sub.OK {
		return nil
	}
	xmin, xmax := sub.Coords[0][0], sub.Coords[1][0]
	if xmin > xmax {
		xmin, xmax = xmax, xmin
	}
	ymin, ymax := sub.Coords[0][1], sub.Coords[1][1]
	if ymin > ymax {
		ymin, ymax = ymax, ymin
	}
	p := geom.Polygon{{
		{xmin, ymin},
		{xmax, ymin},
		{xmax, ymax},
		{xmin, ymax},
		{xmin, ymin},
	}}
	return &p
}
