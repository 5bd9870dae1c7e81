package fleet

import (
	"math"

	"aircare/internal/models"
)

const (
	maxRouteZoom = 10
	minRouteZoom = 2
)

// Coordinates is a map position in degrees
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// RouteView is the map framing of a route between two airports
type RouteView struct {
	Departure models.Airport `json:"departure"`
	Arrival   models.Airport `json:"arrival"`
	Center    Coordinates    `json:"center"`
	Zoom      float64        `json:"zoom"`
}

// NewRouteView centers the map between both airports and zooms out as they
// grow apart.
func NewRouteView(from, to models.Airport) RouteView {
	latDiff := math.Abs(from.Latitude - to.Latitude)
	lngDiff := math.Abs(from.Longitude - to.Longitude)

	zoom := math.Min(12-latDiff-lngDiff, maxRouteZoom)
	zoom = math.Max(zoom, minRouteZoom) - 0.5

	return RouteView{
		Departure: from,
		Arrival:   to,
		Center: Coordinates{
			Latitude:  (from.Latitude + to.Latitude) / 2,
			Longitude: (from.Longitude + to.Longitude) / 2,
		},
		Zoom: zoom,
	}
}

// Route resolves both codes against the catalog and frames the route
func (c *Catalog) Route(departure, arrival string) (RouteView, bool) {
	from, ok := c.Airport(departure)
	if !ok {
		return RouteView{}, false
	}
	to, ok := c.Airport(arrival)
	if !ok {
		return RouteView{}, false
	}
	return NewRouteView(from, to), true
}
