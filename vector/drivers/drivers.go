// Package drivers maps file extensions to format backends.
package drivers

import (
	"fmt"
	"path"
	"strings"

	"github.com/pdok/centerline/vector"
	"github.com/pdok/centerline/vector/geojson"
	"github.com/pdok/centerline/vector/gpkg"
	"github.com/pdok/centerline/vector/wktcsv"
)

// Driver is a format backend with its extension metadata: one canonical
// extension and a space-separated list of alternates.
type Driver struct {
	Name       string
	Extension  string
	Extensions string
	OpenSource func(path string) (vector.Source, error)
	OpenTarget func(path string, opts vector.TargetOptions) (vector.Target, error)
}

// UnsupportedFormatError means no registered driver claims the extension.
type UnsupportedFormatError struct {
	Extension string
}

func (e UnsupportedFormatError) Error() string {
	return fmt.Sprintf("no driver found for the following file extension: %v", e.Extension)
}

// registry is enumerated in order; the first match wins.
var registry = []Driver{
	{
		Name:       "GPKG",
		Extension:  "gpkg",
		Extensions: "gpkg gpkg.zip",
		OpenSource: func(path string) (vector.Source, error) { return gpkg.OpenSource(path) },
		OpenTarget: func(path string, opts vector.TargetOptions) (vector.Target, error) {
			return gpkg.OpenTarget(path, opts)
		},
	},
	{
		Name:       "GeoJSON",
		Extension:  "geojson",
		Extensions: "json geojson",
		OpenSource: func(path string) (vector.Source, error) { return geojson.OpenSource(path) },
		OpenTarget: func(path string, opts vector.TargetOptions) (vector.Target, error) {
			return geojson.OpenTarget(path, opts)
		},
	},
	{
		Name:       "CSV",
		Extension:  "csv",
		Extensions: "csv tsv psv",
		OpenSource: func(path string) (vector.Source, error) { return wktcsv.OpenSource(path) },
		OpenTarget: func(path string, opts vector.TargetOptions) (vector.Target, error) {
			return wktcsv.OpenTarget(path, opts)
		},
	},
}

// Resolve returns the first driver claiming the path's extension. The
// extension is matched case-sensitively against the canonical extension, or
// as a substring of the alternates list. The substring match can
// false-positive when one extension is contained in another's list; that
// matches the behavior of the original tool and is kept for compatibility.
func Resolve(filepath string) (*Driver, error) {
	extension := strings.TrimPrefix(path.Ext(filepath), ".")

	for i := range registry {
		driver := &registry[i]
		if extension == driver.Extension || (extension != "" && strings.Contains(driver.Extensions, extension)) {
			return driver, nil
		}
	}
	return nil, UnsupportedFormatError{Extension: extension}
}

// OpenSource resolves the driver for the path and opens it for reading.
func OpenSource(filepath string) (vector.Source, error) {
	driver, err := Resolve(filepath)
	if err != nil {
		return nil, err
	}
	return driver.OpenSource(filepath)
}
