/*
Package gazetteer holds the place records the service suggests from, the
loader that reads them out of GeoNames-style TSV files, and the Directory, a
concurrency-safe index over all of them.
*/
package gazetteer

import "github.com/bastiangx/placeserve/pkg/geo"

// equalEps is the distance in km under which two records with identical
// identifiers count as the same place.
const equalEps = 1.0

// Place is one gazetteer record: a named locality with position and
// population. Records are immutable once loaded; the directory shares
// pointers, never copies.
type Place struct {
	Name       string  `msgpack:"n"`
	Region     string  `msgpack:"r"`
	Country    string  `msgpack:"c"`
	Lat        float64 `msgpack:"la"`
	Lon        float64 `msgpack:"lo"`
	Population int64   `msgpack:"p"`
}

// FullName joins locality, region, and country into the identifier the
// directory indexes, e.g. "London, ON, Canada".
func (p *Place) FullName() string {
	return p.Name + ", " + p.Region + ", " + p.Country
}

// DistanceFrom returns the great-circle distance in km from the given
// position to this place.
func (p *Place) DistanceFrom(lat, lon float64) float64 {
	return geo.Distance(lat, lon, p.Lat, p.Lon)
}

// Equal reports whether another record names the same place. Identifiers
// must match exactly; positions may differ by up to a kilometer, absorbing
// precision drift between data sources. The tolerance makes the relation
// deliberately non-transitive.
func (p *Place) Equal(other *Place) bool {
	if p == other {
		return true
	}
	if other == nil {
		return false
	}
	return p.Name == other.Name &&
		p.Region == other.Region &&
		p.Country == other.Country &&
		p.DistanceFrom(other.Lat, other.Lon) < equalEps
}
