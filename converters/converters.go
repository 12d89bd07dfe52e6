// Package converters drives the conversion of polygon datasets to
// centerline datasets.
package converters

import (
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"

	"github.com/pdok/centerline/centerline"
	"github.com/pdok/centerline/geomhelp"
	"github.com/pdok/centerline/mapslicehelp"
	"github.com/pdok/centerline/vector"
	"github.com/pdok/centerline/vector/drivers"
)

// Options tunes a conversion run.
type Options struct {
	// Density is the interpolation distance along the polygon borders.
	Density float64 `default:"0.5" validate:"gt=0"`
	// Pagesize is how many features are written per transaction.
	Pagesize int `default:"1000" validate:"gt=0"`
}

const wktLogLen = 100

// CreateCenterlines converts the polygon and multipolygon features of the
// src file to centerlines in the dst file. The dst format is resolved from
// its file extension. The attribute schema, coordinate reference system and
// encoding of the source carry over to the destination; only the geometry
// type changes, to MultiLineString.
//
// Features whose geometry is not a polygon or multipolygon, or for which the
// density produces too few ridges, are logged as warnings and skipped; the
// conversion continues. I/O failures and an unresolvable destination format
// abort the run.
func CreateCenterlines(src, dst string, opts Options) (err error) {
	if err := defaults.Set(&opts); err != nil {
		return err
	}
	if err := validator.New().Struct(opts); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}

	source, err := drivers.OpenSource(src)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := source.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	schema := source.Schema().WithGeometryType(vector.GeometryTypeMultiLineString)

	driver, err := drivers.Resolve(dst)
	if err != nil {
		return err
	}

	target, err := driver.OpenTarget(dst, vector.TargetOptions{
		Schema:   schema,
		CRS:      source.CRS(),
		Encoding: source.Encoding(),
		Pagesize: opts.Pagesize,
	})
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := target.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	var total, written uint64
	skipped := map[string]uint64{}
	for {
		feature, err := source.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		total++

		line, err := centerline.New(feature.Geometry, opts.Density, feature.Properties)
		if err != nil {
			reason, recoverable := skipReason(err)
			if !recoverable {
				return err
			}
			wktStr := "<nil>"
			if feature.Geometry != nil {
				wktStr = geomhelp.WktMustEncode(feature.Geometry, wktLogLen)
			}
			log.Printf("warning: skipping feature %v (%v): %v", featureID(total, feature), wktStr, err)
			skipped[reason]++
			continue
		}

		out := &vector.Feature{
			Geometry:   line.Geometry,
			Properties: intersectProperties(line.Attributes, feature.Properties),
		}
		if err := target.WriteFeature(out); err != nil {
			return err
		}
		written++
	}

	log.Printf("converted %d of %d features", written, total)
	for _, reason := range mapslicehelp.SortedKeys(skipped) {
		log.Printf("  skipped (%v): %d", reason, skipped[reason])
	}
	return nil
}

// skipReason classifies an error from the centerline algorithm. Only the two
// documented per-feature failures are recoverable, anything else aborts the
// run.
func skipReason(err error) (reason string, recoverable bool) {
	var invalidInput centerline.InvalidInputTypeError
	var tooFewRidges centerline.TooFewRidgesError
	switch {
	case errors.As(err, &invalidInput):
		return "not a polygon", true
	case errors.As(err, &tooFewRidges):
		return "too few ridges", true
	default:
		return "", false
	}
}

// intersectProperties keeps only the result attributes whose name already
// existed on the original feature, so every output record fits the derived
// schema. Attributes unique to the result are dropped.
func intersectProperties(attributes, original map[string]any) map[string]any {
	properties := make(map[string]any, len(original))
	for k, v := range attributes {
		if _, ok := original[k]; ok {
			properties[k] = v
		}
	}
	return properties
}

func featureID(index uint64, feature *vector.Feature) string {
	for _, key := range []string{"fid", "id"} {
		if v, ok := feature.Properties[key]; ok && v != nil {
			return fmt.Sprintf("%v=%v", key, v)
		}
	}
	return fmt.Sprintf("#%d", index)
}
