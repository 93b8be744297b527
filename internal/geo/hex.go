// Package geo wraps the H3 hexagonal grid and distance helpers used to bin
// trip samples by location.
package geo

import (
	h3 "github.com/uber/h3-go/v4"
)

// Cell is a fixed-resolution hexagonal bin.
type Cell = h3.Cell

// CellAt resolves the hex cell containing a coordinate at the given resolution.
func CellAt(lat, lng float64, resolution int) Cell {
	return h3.LatLngToCell(h3.NewLatLng(lat, lng), resolution)
}

// Centroid returns the center coordinate of a cell.
func Centroid(c Cell) (lat, lng float64) {
	ll := h3.CellToLatLng(c)
	return ll.Lat, ll.Lng
}
