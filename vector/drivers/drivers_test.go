package drivers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	var tests = []struct {
		path   string
		driver string
	}{
		0: {path: "out.gpkg", driver: "GPKG"},
		1: {path: "/tmp/some/dir/out.gpkg", driver: "GPKG"},
		2: {path: "out.geojson", driver: "GeoJSON"},
		3: {path: "out.json", driver: "GeoJSON"},
		4: {path: "out.csv", driver: "CSV"},
		5: {path: "out.tsv", driver: "CSV"},
		6: {path: "out.psv", driver: "CSV"},
		7: {path: "archive.gpkg.zip", driver: "GPKG"},
		// substring matching quirk, kept for compatibility: "sv" is not a
		// registered extension but is contained in "csv tsv psv"
		8: {path: "out.sv", driver: "CSV"},
	}

	for k, test := range tests {
		driver, err := Resolve(test.path)
		require.NoErrorf(t, err, "test: %d", k)
		assert.Equal(t, test.driver, driver.Name, "test: %d", k)
	}
}

func TestResolveUnsupported(t *testing.T) {
	var tests = []struct {
		path      string
		extension string
	}{
		0: {path: "out.shp", extension: "shp"},
		1: {path: "out.GPKG", extension: "GPKG"}, // matching is case-sensitive
		2: {path: "noextension", extension: ""},
		3: {path: "trailingdot.", extension: ""},
	}

	for k, test := range tests {
		_, err := Resolve(test.path)
		var unsupported UnsupportedFormatError
		require.ErrorAsf(t, err, &unsupported, "test: %d", k)
		assert.Equal(t, test.extension, unsupported.Extension, "test: %d", k)
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	first, err := Resolve("out.gpkg")
	require.NoError(t, err)
	second, err := Resolve("out.gpkg")
	require.NoError(t, err)
	assert.Same(t, first, second)
}
