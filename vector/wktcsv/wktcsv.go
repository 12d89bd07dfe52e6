// Package wktcsv reads and writes delimited text datasets with a WKT
// geometry column. The delimiter follows the file extension: comma for .csv,
// tab for .tsv, pipe for .psv.
package wktcsv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/go-spatial/geom/encoding/wkt"

	"github.com/pdok/centerline/vector"
)

// GeometryColumn is the header name of the geometry column.
const GeometryColumn = "WKT"

const Encoding = "utf-8"

func delimiter(filepath string) rune {
	switch strings.ToLower(path.Ext(filepath)) {
	case ".tsv":
		return '\t'
	case ".psv":
		return '|'
	default:
		return ','
	}
}

// Source reads features row by row.
type Source struct {
	file        *os.File
	reader      *csv.Reader
	schema      vector.Schema
	header      []string
	geometryIdx int
}

func OpenSource(filepath string) (*Source, error) {
	file, err := os.Open(filepath)
	if err != nil {
		return nil, fmt.Errorf("error opening source CSV: %w", err)
	}
	reader := csv.NewReader(file)
	reader.Comma = delimiter(filepath)

	header, err := reader.Read()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("error reading source CSV header: %w", err)
	}

	source := &Source{file: file, reader: reader, header: header, geometryIdx: -1}
	source.schema = vector.NewSchema(GeometryColumn, vector.GeometryTypeUnknown)
	for i, name := range header {
		if strings.EqualFold(name, GeometryColumn) {
			source.geometryIdx = i
			continue
		}
		// delimited text carries no type information
		source.schema.Fields.Set(name, vector.FieldTypeText)
	}
	if source.geometryIdx < 0 {
		file.Close()
		return nil, fmt.Errorf("source CSV has no %v column", GeometryColumn)
	}
	return source, nil
}

func (source *Source) Schema() vector.Schema {
	return source.schema
}

func (source *Source) CRS() vector.CRS {
	return vector.CRS{}
}

func (source *Source) Encoding() string {
	return Encoding
}

func (source *Source) Next() (*vector.Feature, error) {
	record, err := source.reader.Read()
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		return nil, fmt.Errorf("error reading source CSV: %w", err)
	}

	feature := &vector.Feature{Properties: make(map[string]any, len(record)-1)}
	for i, value := range record {
		if i == source.geometryIdx {
			feature.Geometry, err = wkt.DecodeString(value)
			if err != nil {
				return nil, fmt.Errorf("error decoding the geometry: %w", err)
			}
			continue
		}
		if i < len(source.header) {
			feature.Properties[source.header[i]] = value
		}
	}
	return feature, nil
}

func (source *Source) Close() error {
	return source.file.Close()
}

// Target writes features row by row.
type Target struct {
	file   *os.File
	writer *csv.Writer
	schema vector.Schema
}

func OpenTarget(filepath string, opts vector.TargetOptions) (*Target, error) {
	file, err := os.Create(filepath)
	if err != nil {
		return nil, fmt.Errorf("error opening target CSV: %w", err)
	}
	writer := csv.NewWriter(file)
	writer.Comma = delimiter(filepath)

	header := append(opts.Schema.FieldNames(), GeometryColumn)
	if err := writer.Write(header); err != nil {
		file.Close()
		return nil, fmt.Errorf("error writing target CSV header: %w", err)
	}
	return &Target{file: file, writer: writer, schema: opts.Schema}, nil
}

func (target *Target) WriteFeature(feature *vector.Feature) error {
	fieldNames := target.schema.FieldNames()
	record := make([]string, 0, len(fieldNames)+1)
	for _, name := range fieldNames {
		value := feature.Properties[name]
		if value == nil {
			record = append(record, "")
			continue
		}
		record = append(record, fmt.Sprint(value))
	}
	record = append(record, wkt.MustEncode(feature.Geometry))
	return target.writer.Write(record)
}

func (target *Target) Close() error {
	target.writer.Flush()
	writeErr := target.writer.Error()
	closeErr := target.file.Close()
	if writeErr != nil {
		return writeErr
	}
	return closeErr
}
