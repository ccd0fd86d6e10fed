package aoi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/go-spatial/geom/encoding/geojson"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/opensarlab/asftool/service/log"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"
)

// Server exposes a Selection over HTTP: a map page for the browser and a
// small JSON api the page drives.
type Server struct {
	selection *Selection
}

func NewServer(selection *Selection) *Server {
	return &Server{selection: selection}
}

func (s *Server) NewHandler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/", s.MapPageHandler).Methods("GET")
	r.HandleFunc("/api/state", s.GetStateHandler).Methods("GET")
	r.HandleFunc("/api/select", s.SelectHandler).Methods("POST")
	r.HandleFunc("/api/reset", s.ResetHandler).Methods("POST")
	r.HandleFunc("/api/hover", s.HoverHandler).Methods("GET")
	headersOk := handlers.AllowedHeaders([]string{"*"})
	originsOk := handlers.AllowedOrigins([]string{"*"})
	methodsOk := handlers.AllowedMethods([]string{"GET", "POST", "OPTIONS"})
	return handlers.LoggingHandler(os.Stdout, handlers.CORS(originsOk, headersOk, methodsOk)(r))
}

// ListenAndServe serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: s.NewHandler(),
	}
	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background())
	}()
	s.selection.Display(ctx)
	log.Logger(ctx).Sugar().Infof("map served on %s", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("ListenAndServe: %w", err)
	}
	return nil
}

type stateResponse struct {
	State    string                    `json:"state"`
	Subset   Subset                    `json:"subset"`
	Features geojson.FeatureCollection `json:"features"`
}

// GetStateHandler returns the extent and the current subset as GeoJSON.
func (s *Server) GetStateHandler(w http.ResponseWriter, req *http.Request) {
	resp := stateResponse{
		State:  s.selection.State().String(),
		Subset: s.selection.Subset(),
	}
	resp.Features.Features = append(resp.Features.Features, geojson.Feature{
		Geometry:   geojson.Geometry{Geometry: s.selection.Extent().Polygon()},
		Properties: map[string]interface{}{"role": "extent"},
	})
	if p := s.selection.SubsetPolygon(); p != nil {
		resp.Features.Features = append(resp.Features.Features, geojson.Feature{
			Geometry:   geojson.Geometry{Geometry: *p},
			Properties: map[string]interface{}{"role": "selection"},
		})
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// SelectHandler records a box drawn on the map.
func (s *Server) SelectHandler(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	var ev SelectEvent
	if err := json.NewDecoder(req.Body).Decode(&ev); err != nil {
		w.WriteHeader(400)
		fmt.Fprintf(w, "%v", err)
		return
	}
	s.selection.Apply(ctx, ev)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.selection.Subset())
}

// ResetHandler clears the current selection.
func (s *Server) ResetHandler(w http.ResponseWriter, req *http.Request) {
	s.selection.Reset(req.Context())
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.selection.Subset())
}

// HoverHandler converts hovered EPSG:3857 coordinates to lat/long for display.
func (s *Server) HoverHandler(w http.ResponseWriter, req *http.Request) {
	x, errx := strconv.ParseFloat(req.URL.Query().Get("x"), 64)
	y, erry := strconv.ParseFloat(req.URL.Query().Get("y"), 64)
	if errx != nil || erry != nil {
		w.WriteHeader(400)
		return
	}
	ll := project.Mercator.ToWGS84(orb.Point{x, y})
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]float64{"long": ll.Lon(), "lat": ll.Lat()})
}

// MapPageHandler serves the interactive map page.
func (s *Server) MapPageHandler(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, mapPage)
}

const mapPage = `<!DOCTYPE html>
<html>
<head>
<title>Area of interest</title>
<style>
  body { margin: 0; font-family: sans-serif; }
  #map { width: 100vw; height: 90vh; cursor: crosshair; }
  #bar { height: 10vh; padding: 4px 12px; box-sizing: border-box; }
  #sel { stroke: #c00; fill: rgba(200,0,0,0.15); }
  #ext { stroke: #06c; fill: none; }
</style>
</head>
<body>
<svg id="map"></svg>
<div id="bar">
  <button onclick="resetSelection()">Reset</button>
  <span id="coords"></span>
</div>
<script>
const svg = document.getElementById("map");
let extent = null, drag = null;

function world2px(x, y, box) {
  const w = svg.clientWidth, h = svg.clientHeight;
  return [(x - box[0]) / (box[2] - box[0]) * w,
          h - (y - box[1]) / (box[3] - box[1]) * h];
}
function px2world(px, py, box) {
  const w = svg.clientWidth, h = svg.clientHeight;
  return [box[0] + px / w * (box[2] - box[0]),
          box[1] + (h - py) / h * (box[3] - box[1])];
}

function rect(id, ring, box) {
  const [x0, y0] = world2px(ring[0][0], ring[0][1], box);
  const [x1, y1] = world2px(ring[2][0], ring[2][1], box);
  let el = document.getElementById(id);
  if (!el) {
    el = document.createElementNS("http://www.w3.org/2000/svg", "rect");
    el.id = id;
    svg.appendChild(el);
  }
  el.setAttribute("x", Math.min(x0, x1));
  el.setAttribute("y", Math.min(y0, y1));
  el.setAttribute("width", Math.abs(x1 - x0));
  el.setAttribute("height", Math.abs(y1 - y0));
}

async function refresh() {
  const st = await (await fetch("api/state")).json();
  for (const f of st.features.features) {
    const ring = f.geometry.coordinates[0];
    if (f.properties.role === "extent") {
      extent = [ring[0][0], ring[0][1], ring[2][0], ring[2][1]];
      rect("ext", ring, extent);
    } else {
      rect("sel", ring, extent);
    }
  }
  if (!st.subset || st.subset[0][0] === null) {
    const el = document.getElementById("sel");
    if (el) el.remove();
  }
}

svg.addEventListener("mousedown", e => { drag = [e.offsetX, e.offsetY]; });
svg.addEventListener("mouseup", async e => {
  if (!drag || !extent) return;
  const a = px2world(drag[0], drag[1], extent);
  const b = px2world(e.offsetX, e.offsetY, extent);
  drag = null;
  await fetch("api/select", {method: "POST",
    body: JSON.stringify({x0: a[0], y0: a[1], x1: b[0], y1: b[1]})});
  refresh();
});
svg.addEventListener("mousemove", async e => {
  if (!extent) return;
  const p = px2world(e.offsetX, e.offsetY, extent);
  const ll = await (await fetch("api/hover?x=" + p[0] + "&y=" + p[1])).json();
  document.getElementById("coords").textContent =
    ll.lat.toFixed(4) + ", " + ll.long.toFixed(4);
});
async function resetSelection() {
  await fetch("api/reset", {method: "POST"});
  refresh();
}
refresh();
</script>
</body>
</html>
`
