package domain

// Outlet is the subset of the backend outlet record the visit core
// consumes. Location is the raw "lat,lon" string as served; it may be
// empty or malformed for outlets whose data was never corrected, which
// blocks geofence evaluation entirely.
type Outlet struct {
	ID       int
	Name     string
	Location string
	Radius   int
}

// Coordinate parses the outlet's stored location.
func (o Outlet) Coordinate() (Coordinate, error) {
	return ParseLatLon(o.Location)
}
