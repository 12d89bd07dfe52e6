package vector

import (
	"github.com/go-spatial/geom"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// FieldType is the declared type of an attribute field, in SQLite affinity
// spelling. Backends that have no type system of their own (GeoJSON, CSV)
// map to and from these.
type FieldType string

const (
	FieldTypeInteger FieldType = "INTEGER"
	FieldTypeReal    FieldType = "REAL"
	FieldTypeText    FieldType = "TEXT"
	FieldTypeBoolean FieldType = "BOOLEAN"
)

// GeometryType is the declared geometry type of a dataset.
type GeometryType string

const (
	GeometryTypeUnknown         GeometryType = "GEOMETRY"
	GeometryTypePoint           GeometryType = "POINT"
	GeometryTypeLineString      GeometryType = "LINESTRING"
	GeometryTypePolygon         GeometryType = "POLYGON"
	GeometryTypeMultiPoint      GeometryType = "MULTIPOINT"
	GeometryTypeMultiLineString GeometryType = "MULTILINESTRING"
	GeometryTypeMultiPolygon    GeometryType = "MULTIPOLYGON"
)

// GeometryTypeOf returns the schema geometry type of a concrete geometry.
func GeometryTypeOf(g geom.Geometry) GeometryType {
	switch g.(type) {
	case geom.Point:
		return GeometryTypePoint
	case geom.LineString:
		return GeometryTypeLineString
	case geom.Polygon:
		return GeometryTypePolygon
	case geom.MultiPoint:
		return GeometryTypeMultiPoint
	case geom.MultiLineString:
		return GeometryTypeMultiLineString
	case geom.MultiPolygon:
		return GeometryTypeMultiPolygon
	default:
		return GeometryTypeUnknown
	}
}

// Schema is the attribute layout of a dataset: an ordered mapping from field
// name to field type plus one designated geometry slot. Field order is
// authoritative; writers emit fields in this order.
type Schema struct {
	Fields         *orderedmap.OrderedMap[string, FieldType]
	GeometryColumn string
	GeometryType   GeometryType
}

// NewSchema returns an empty schema with the given geometry slot.
func NewSchema(geometryColumn string, geometryType GeometryType) Schema {
	return Schema{
		Fields:         orderedmap.New[string, FieldType](),
		GeometryColumn: geometryColumn,
		GeometryType:   geometryType,
	}
}

// Copy returns a deep copy of the schema.
func (s Schema) Copy() Schema {
	c := NewSchema(s.GeometryColumn, s.GeometryType)
	for p := s.Fields.Oldest(); p != nil; p = p.Next() {
		c.Fields.Set(p.Key, p.Value)
	}
	return c
}

// WithGeometryType returns a copy of the schema with the geometry slot
// overwritten. All other field definitions are untouched.
func (s Schema) WithGeometryType(t GeometryType) Schema {
	c := s.Copy()
	c.GeometryType = t
	return c
}

// FieldNames returns the field names in schema order.
func (s Schema) FieldNames() []string {
	names := make([]string, 0, s.Fields.Len())
	for p := s.Fields.Oldest(); p != nil; p = p.Next() {
		names = append(names, p.Key)
	}
	return names
}
