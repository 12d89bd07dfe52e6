package geojson

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-spatial/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdok/centerline/vector"
)

const sourceJSON = `{
	"type": "FeatureCollection",
	"crs": {"type": "name", "properties": {"name": "urn:ogc:def:crs:EPSG::28992"}},
	"features": [
		{
			"type": "Feature",
			"geometry": {"type": "Polygon", "coordinates": [[[0,0],[4,0],[4,1],[0,1],[0,0]]]},
			"properties": {"id": 1, "name": "canal", "width": 1.5, "navigable": true}
		},
		{
			"type": "Feature",
			"geometry": {"type": "Point", "coordinates": [2,2]},
			"properties": {"id": 2, "name": "buoy", "width": null, "navigable": false}
		}
	]
}`

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestOpenSource(t *testing.T) {
	source, err := OpenSource(writeTempFile(t, "source.geojson", sourceJSON))
	require.NoError(t, err)
	defer source.Close()

	assert.Equal(t, vector.CRS{
		Name:         "urn:ogc:def:crs:EPSG::28992",
		ID:           28992,
		Organization: "EPSG",
	}, source.CRS())
	assert.Equal(t, Encoding, source.Encoding())

	schema := source.Schema()
	assert.Equal(t, vector.GeometryTypePolygon, schema.GeometryType)
	// field order follows the JSON key order of the first feature
	require.Equal(t, []string{"id", "name", "width", "navigable"}, schema.FieldNames())
	idType, _ := schema.Fields.Get("id")
	widthType, _ := schema.Fields.Get("width")
	navigableType, _ := schema.Fields.Get("navigable")
	assert.Equal(t, vector.FieldTypeInteger, idType)
	assert.Equal(t, vector.FieldTypeReal, widthType)
	assert.Equal(t, vector.FieldTypeBoolean, navigableType)

	first, err := source.Next()
	require.NoError(t, err)
	assert.IsType(t, geom.Polygon{}, first.Geometry)
	assert.Equal(t, "canal", first.Properties["name"])

	second, err := source.Next()
	require.NoError(t, err)
	assert.IsType(t, geom.Point{}, second.Geometry)

	_, err = source.Next()
	assert.True(t, errors.Is(err, io.EOF))
}

func TestTargetRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "target.geojson")

	schema := vector.NewSchema("geometry", vector.GeometryTypeMultiLineString)
	schema.Fields.Set("id", vector.FieldTypeInteger)
	schema.Fields.Set("name", vector.FieldTypeText)

	target, err := OpenTarget(path, vector.TargetOptions{
		Schema: schema,
		CRS:    vector.CRS{Organization: "EPSG", ID: 28992},
	})
	require.NoError(t, err)

	require.NoError(t, target.WriteFeature(&vector.Feature{
		Geometry:   geom.MultiLineString{{{0, 0}, {1, 1}}, {{1, 1}, {2, 1}}},
		Properties: map[string]any{"id": float64(7), "name": "canal"},
	}))
	require.NoError(t, target.Close())

	source, err := OpenSource(path)
	require.NoError(t, err)
	defer source.Close()

	assert.Equal(t, 28992, source.CRS().ID)
	assert.Equal(t, vector.GeometryTypeMultiLineString, source.Schema().GeometryType)
	assert.Equal(t, []string{"id", "name"}, source.Schema().FieldNames())

	feature, err := source.Next()
	require.NoError(t, err)
	assert.EqualValues(t, geom.MultiLineString{{{0, 0}, {1, 1}}, {{1, 1}, {2, 1}}}, feature.Geometry)
	assert.Equal(t, "canal", feature.Properties["name"])

	_, err = source.Next()
	assert.True(t, errors.Is(err, io.EOF))
}

func TestCRSMember(t *testing.T) {
	// WGS84 is the GeoJSON default and gets no crs member
	assert.Nil(t, crsMember(vector.CRS{Organization: "EPSG", ID: 4326}))
	assert.Nil(t, crsMember(vector.CRS{}))

	member := crsMember(vector.CRS{Organization: "EPSG", ID: 28992})
	require.NotNil(t, member)
	assert.Equal(t, "urn:ogc:def:crs:EPSG::28992", member.Properties["name"])
}

func TestOpenSourceMissingFile(t *testing.T) {
	_, err := OpenSource(filepath.Join(t.TempDir(), "nope.geojson"))
	assert.Error(t, err)
}
