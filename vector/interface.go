// Package vector holds the dataset model shared by all format backends:
// features with named properties, an ordered attribute schema and the
// source/target cursor interfaces.
package vector

import (
	"github.com/go-spatial/geom"
)

// Feature is one record of a dataset: a geometry plus named properties.
// Property order is not carried by the map; it is dictated by the Schema.
type Feature struct {
	Geometry   geom.Geometry
	Properties map[string]any
}

// CRS describes a coordinate reference system. It is copied verbatim from
// source to target, there is no reprojection.
type CRS struct {
	Name         string
	ID           int
	Organization string
	Definition   string
	Description  string
}

// IsZero reports whether no CRS was declared by the source.
func (c CRS) IsZero() bool {
	return c == CRS{}
}

// Source is a sequential cursor over the features of a dataset.
// Next returns io.EOF when the source is exhausted. There is exactly one
// cursor per Source and it is never advanced concurrently.
type Source interface {
	Schema() Schema
	CRS() CRS
	Encoding() string
	Next() (*Feature, error)
	Close() error
}

// Target is a sequential writer of features conforming to the schema it was
// opened with. Close flushes any buffered writes.
type Target interface {
	WriteFeature(*Feature) error
	Close() error
}

// TargetOptions configures a Target on open.
type TargetOptions struct {
	Schema   Schema
	CRS      CRS
	Encoding string
	// Pagesize is how many features are written per transaction, for
	// backends that support transactions.
	Pagesize int
}
