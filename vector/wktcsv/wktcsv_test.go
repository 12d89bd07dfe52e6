package wktcsv

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

func TestDelimiter(t *testing.T) {
	var tests = []struct {
		path  string
		comma rune
	}{
		0: {path: "file.csv", comma: ','},
		1: {path: "file.tsv", comma: '\t'},
		2: {path: "file.psv", comma: '|'},
		3: {path: "file.TSV", comma: '\t'},
		4: {path: "file", comma: ','},
	}

	for k, test := range tests {
		got := delimiter(test.path)
		if got != test.comma {
			t.Errorf("test: %d, expected: %q \ngot: %q", k, test.comma, got)
		}
	}
}

func TestRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "target.csv")

	schema := vector.NewSchema(GeometryColumn, vector.GeometryTypeMultiLineString)
	schema.Fields.Set("id", vector.FieldTypeText)
	schema.Fields.Set("name", vector.FieldTypeText)

	target, err := OpenTarget(path, vector.TargetOptions{Schema: schema})
	require.NoError(t, err)
	require.NoError(t, target.WriteFeature(&vector.Feature{
		Geometry:   geom.MultiLineString{{{0, 0}, {1, 1}}},
		Properties: map[string]any{"id": "7", "name": "canal, west"},
	}))
	require.NoError(t, target.WriteFeature(&vector.Feature{
		Geometry:   geom.MultiLineString{{{2, 2}, {3, 3}}},
		Properties: map[string]any{"id": "8"}, // name missing, written empty
	}))
	require.NoError(t, target.Close())

	source, err := OpenSource(path)
	require.NoError(t, err)
	defer source.Close()

	assert.Equal(t, []string{"id", "name"}, source.Schema().FieldNames())
	assert.True(t, source.CRS().IsZero())

	first, err := source.Next()
	require.NoError(t, err)
	assert.EqualValues(t, geom.MultiLineString{{{0, 0}, {1, 1}}}, first.Geometry)
	assert.Equal(t, "canal, west", first.Properties["name"])

	second, err := source.Next()
	require.NoError(t, err)
	assert.Equal(t, "8", second.Properties["id"])
	assert.Equal(t, "", second.Properties["name"])

	_, err = source.Next()
	assert.True(t, errors.Is(err, io.EOF))
}

func TestOpenSourceWithoutGeometryColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nogeom.csv")
	require.NoError(t, os.WriteFile(path, []byte("id,name\n1,canal\n"), 0o644))

	_, err := OpenSource(path)
	assert.ErrorContains(t, err, "no WKT column")
}
