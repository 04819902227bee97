package domain

// Immutable geographic coordinates (longitude, latitude).
type Coordinates struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// Return coordinates as [lon, lat] for OpenRouteService.
func (c Coordinates) CoordsToList() []float64 { return []float64{c.Lon, c.Lat} }
