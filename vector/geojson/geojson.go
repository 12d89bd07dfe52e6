// Package geojson reads and writes GeoJSON FeatureCollection datasets.
package geojson

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/go-spatial/geom/encoding/geojson"
	"github.com/perimeterx/marshmallow"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/pdok/centerline/vector"
)

// Encoding for GeoJSON is utf-8 per RFC 7946.
const Encoding = "utf-8"

type featureJSON struct {
	Type       string                              `json:"type"`
	Geometry   geojson.Geometry                    `json:"geometry"`
	Properties *orderedmap.OrderedMap[string, any] `json:"properties"`
}

type featureCollectionJSON struct {
	Type     string        `json:"type"`
	Name     string        `json:"name,omitempty"`
	CRS      *crsJSON      `json:"crs,omitempty"`
	Features []featureJSON `json:"features"`
}

// crsJSON is the legacy GeoJSON crs member. Its properties vary by type
// ("name" carries a urn, "EPSG" a code), so the known field is decoded
// normally and the rest is kept as a grab bag.
type crsJSON struct {
	Type       string         `json:"type"`
	Properties map[string]any `json:"-"`
}

func (c *crsJSON) UnmarshalJSON(data []byte) error {
	specials, err := marshmallow.Unmarshal(data, c, marshmallow.WithExcludeKnownFieldsFromMap(true))
	if err != nil {
		return err
	}
	if props, ok := specials["properties"].(map[string]any); ok {
		c.Properties = props
	}
	return nil
}

func (c *crsJSON) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type       string         `json:"type"`
		Properties map[string]any `json:"properties"`
	}{Type: c.Type, Properties: c.Properties})
}

func (c *crsJSON) toCRS() vector.CRS {
	var crs vector.CRS
	switch c.Type {
	case "name":
		name, _ := c.Properties["name"].(string)
		crs.Name = name
		// e.g. urn:ogc:def:crs:EPSG::28992 or EPSG:28992
		parts := strings.Split(name, ":")
		if len(parts) >= 2 {
			if id, err := strconv.Atoi(parts[len(parts)-1]); err == nil {
				crs.ID = id
				// the authority precedes the code, the urn form has an
				// empty version part in between
				for i := len(parts) - 2; i >= 0; i-- {
					if parts[i] != "" {
						crs.Organization = parts[i]
						break
					}
				}
			}
		}
	case "EPSG":
		if code, ok := c.Properties["code"].(float64); ok {
			crs.Organization = "EPSG"
			crs.ID = int(code)
		}
	}
	return crs
}

func crsMember(crs vector.CRS) *crsJSON {
	if crs.IsZero() || (strings.EqualFold(crs.Organization, "EPSG") && crs.ID == 4326) {
		return nil
	}
	name := crs.Name
	if name == "" || !strings.Contains(name, ":") {
		name = fmt.Sprintf("urn:ogc:def:crs:%v::%v", crs.Organization, crs.ID)
	}
	return &crsJSON{Type: "name", Properties: map[string]any{"name": name}}
}

// Source reads a FeatureCollection into memory and serves it as a cursor.
type Source struct {
	schema   vector.Schema
	crs      vector.CRS
	features []featureJSON
	i        int
}

func OpenSource(filepath string) (*Source, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("error opening source GeoJSON: %w", err)
	}
	var fc featureCollectionJSON
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("error reading source GeoJSON: %w", err)
	}

	source := &Source{features: fc.Features}
	if fc.CRS != nil {
		source.crs = fc.CRS.toCRS()
	}
	source.schema = inferSchema(fc.Features)
	return source, nil
}

// inferSchema derives the schema from the first feature: field order follows
// the JSON key order of its properties object.
func inferSchema(features []featureJSON) vector.Schema {
	schema := vector.NewSchema("geometry", vector.GeometryTypeUnknown)
	if len(features) == 0 {
		return schema
	}
	first := features[0]
	schema.GeometryType = vector.GeometryTypeOf(first.Geometry.Geometry)
	if first.Properties == nil {
		return schema
	}
	for p := first.Properties.Oldest(); p != nil; p = p.Next() {
		schema.Fields.Set(p.Key, fieldType(p.Value))
	}
	return schema
}

func fieldType(v any) vector.FieldType {
	switch vv := v.(type) {
	case bool:
		return vector.FieldTypeBoolean
	case float64:
		if vv == math.Trunc(vv) {
			return vector.FieldTypeInteger
		}
		return vector.FieldTypeReal
	case string:
		return vector.FieldTypeText
	default:
		return vector.FieldTypeText
	}
}

func (source *Source) Schema() vector.Schema {
	return source.schema
}

func (source *Source) CRS() vector.CRS {
	return source.crs
}

func (source *Source) Encoding() string {
	return Encoding
}

func (source *Source) Next() (*vector.Feature, error) {
	if source.i >= len(source.features) {
		return nil, io.EOF
	}
	f := source.features[source.i]
	source.i++

	feature := &vector.Feature{Geometry: f.Geometry.Geometry, Properties: map[string]any{}}
	if f.Properties != nil {
		for p := f.Properties.Oldest(); p != nil; p = p.Next() {
			feature.Properties[p.Key] = p.Value
		}
	}
	return feature, nil
}

func (source *Source) Close() error {
	return nil
}

// Target collects features and writes one FeatureCollection on Close.
type Target struct {
	file     *os.File
	schema   vector.Schema
	crs      vector.CRS
	features []featureJSON
}

func OpenTarget(filepath string, opts vector.TargetOptions) (*Target, error) {
	file, err := os.Create(filepath)
	if err != nil {
		return nil, fmt.Errorf("error opening target GeoJSON: %w", err)
	}
	return &Target{file: file, schema: opts.Schema, crs: opts.CRS}, nil
}

func (target *Target) WriteFeature(feature *vector.Feature) error {
	props := orderedmap.New[string, any]()
	for _, name := range target.schema.FieldNames() {
		props.Set(name, feature.Properties[name])
	}
	target.features = append(target.features, featureJSON{
		Type:       "Feature",
		Geometry:   geojson.Geometry{Geometry: feature.Geometry},
		Properties: props,
	})
	return nil
}

func (target *Target) Close() error {
	fc := featureCollectionJSON{
		Type:     "FeatureCollection",
		CRS:      crsMember(target.crs),
		Features: target.features,
	}
	if fc.Features == nil {
		fc.Features = []featureJSON{}
	}
	data, err := json.Marshal(&fc)
	if err == nil {
		_, err = target.file.Write(data)
	}
	closeErr := target.file.Close()
	if err != nil {
		return fmt.Errorf("error writing target GeoJSON: %w", err)
	}
	return closeErr
}
