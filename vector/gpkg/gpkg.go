// Package gpkg reads and writes GeoPackage datasets.
package gpkg

import (
	"database/sql"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
	"time"

	"github.com/go-spatial/geom"
	"github.com/go-spatial/geom/encoding/gpkg"

	"github.com/pdok/centerline/vector"
)

// Encoding is what GeoPackages store text in, always.
const Encoding = "utf-8"

const defaultPagesize = 1000

type table struct {
	name           string
	geometryColumn string
}

// Source reads the features of the first feature table in a GeoPackage.
type Source struct {
	handle *gpkg.Handle
	table  table
	schema vector.Schema
	crs    vector.CRS

	rows *sql.Rows
	cols []string
}

// OpenSource opens a GeoPackage for reading and resolves its first feature
// table, attribute schema and spatial reference system.
func OpenSource(filepath string) (*Source, error) {
	if _, err := os.Stat(filepath); err != nil {
		return nil, fmt.Errorf("error opening source GeoPackage: %w", err)
	}
	handle, err := gpkg.Open(filepath)
	if err != nil {
		return nil, fmt.Errorf("error opening source GeoPackage: %w", err)
	}

	source := &Source{handle: handle}
	if err := source.readTableInfo(); err != nil {
		handle.Close()
		return nil, err
	}
	return source, nil
}

func (source *Source) readTableInfo() error {
	row := source.handle.QueryRow(
		`SELECT table_name, column_name, geometry_type_name, srs_id FROM gpkg_geometry_columns LIMIT 1;`)
	var gtype string
	var srsID int
	if err := row.Scan(&source.table.name, &source.table.geometryColumn, &gtype, &srsID); err != nil {
		return fmt.Errorf("error reading the source table information: %w", err)
	}

	source.schema = vector.NewSchema(source.table.geometryColumn, vector.GeometryType(strings.ToUpper(gtype)))
	query := fmt.Sprintf(`PRAGMA table_info('%v');`, source.table.name)
	rows, err := source.handle.Query(query)
	if err != nil {
		return fmt.Errorf("error reading the source columns: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var cid, notnull, pk int
		var name, ctype string
		var dfltValue *string
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dfltValue, &pk); err != nil {
			return fmt.Errorf("error reading the source columns: %w", err)
		}
		if name == source.table.geometryColumn {
			continue
		}
		source.schema.Fields.Set(name, vector.FieldType(strings.ToUpper(ctype)))
	}
	if err := rows.Err(); err != nil {
		return err
	}

	source.crs, err = readSpatialReferenceSystem(source.handle, srsID)
	return err
}

func readSpatialReferenceSystem(h *gpkg.Handle, id int) (vector.CRS, error) {
	row := h.QueryRow(fmt.Sprintf(
		`SELECT srs_name, srs_id, organization, organization_coordsys_id, definition, description FROM gpkg_spatial_ref_sys WHERE srs_id = %v;`, id))
	var crs vector.CRS
	var srsID int
	var description *string
	if err := row.Scan(&crs.Name, &srsID, &crs.Organization, &crs.ID, &crs.Definition, &description); err != nil {
		return crs, fmt.Errorf("error reading the spatial reference system: %w", err)
	}
	if description != nil {
		crs.Description = *description
	}
	return crs, nil
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

// Next returns the next feature, or io.EOF when the table is exhausted.
func (source *Source) Next() (*vector.Feature, error) {
	if source.rows == nil {
		var csql []string
		for _, name := range source.schema.FieldNames() {
			csql = append(csql, `"`+name+`"`)
		}
		csql = append(csql, `"`+source.table.geometryColumn+`"`)
		rows, err := source.handle.Query(
			`SELECT ` + strings.Join(csql, `,`) + ` FROM "` + source.table.name + `";`)
		if err != nil {
			return nil, fmt.Errorf("error reading the source features: %w", err)
		}
		source.rows = rows
		if source.cols, err = rows.Columns(); err != nil {
			return nil, fmt.Errorf("error reading the columns: %w", err)
		}
	}

	if !source.rows.Next() {
		if err := source.rows.Err(); err != nil {
			return nil, err
		}
		return nil, io.EOF
	}

	vals := make([]interface{}, len(source.cols))
	valPtrs := make([]interface{}, len(source.cols))
	for i := range vals {
		valPtrs[i] = &vals[i]
	}
	if err := source.rows.Scan(valPtrs...); err != nil {
		return nil, fmt.Errorf("error reading row values: %w", err)
	}

	feature := &vector.Feature{Properties: make(map[string]any, len(source.cols)-1)}
	for i, colName := range source.cols {
		if colName == source.table.geometryColumn {
			blob, ok := vals[i].([]byte)
			if !ok {
				return nil, fmt.Errorf("missing geometry blob in column %v", colName)
			}
			sb, err := gpkg.DecodeGeometry(blob)
			if err != nil {
				return nil, fmt.Errorf("error decoding the geometry: %w", err)
			}
			feature.Geometry = sb.Geometry
			continue
		}
		switch v := vals[i].(type) {
		case []uint8:
			feature.Properties[colName] = string(v)
		case int64, float64, bool, time.Time, string, nil:
			feature.Properties[colName] = v
		default:
			return nil, fmt.Errorf("unexpected type for sqlite column data: %v: %T", colName, v)
		}
	}
	return feature, nil
}

func (source *Source) Close() error {
	if source.rows != nil {
		source.rows.Close()
	}
	return source.handle.Close()
}

// Target writes features to a new feature table in a GeoPackage, one
// transaction per page.
type Target struct {
	handle   *gpkg.Handle
	table    table
	schema   vector.Schema
	srsID    int32
	pagesize int

	page   []*vector.Feature
	extent *geom.Extent
}

// OpenTarget opens (or creates) a GeoPackage for writing and creates the
// feature table described by the options.
func OpenTarget(filepath string, opts vector.TargetOptions) (*Target, error) {
	handle, err := gpkg.Open(filepath)
	if err != nil {
		return nil, fmt.Errorf("error opening target GeoPackage: %w", err)
	}

	target := &Target{
		handle:   handle,
		table:    table{name: tableName(filepath), geometryColumn: opts.Schema.GeometryColumn},
		schema:   opts.Schema,
		pagesize: opts.Pagesize,
	}
	if target.table.geometryColumn == "" {
		target.table.geometryColumn = "geom"
	}
	if target.pagesize <= 0 {
		target.pagesize = defaultPagesize
	}

	if !opts.CRS.IsZero() {
		target.srsID = int32(opts.CRS.ID)
		err = handle.UpdateSRS(gpkg.SpatialReferenceSystem{
			Name:                   opts.CRS.Name,
			ID:                     opts.CRS.ID,
			Organization:           opts.CRS.Organization,
			OrganizationCoordsysID: opts.CRS.ID,
			Definition:             opts.CRS.Definition,
			Description:            opts.CRS.Description,
		})
		if err != nil {
			handle.Close()
			return nil, fmt.Errorf("error writing the spatial reference system: %w", err)
		}
	}

	if err := target.buildTable(); err != nil {
		handle.Close()
		return nil, err
	}
	return target, nil
}

func tableName(filepath string) string {
	file := path.Base(filepath)
	return strings.TrimSuffix(file, path.Ext(file))
}

func (target *Target) buildTable() error {
	var columnparts []string
	for p := target.schema.Fields.Oldest(); p != nil; p = p.Next() {
		columnpart := `"` + p.Key + `" ` + string(p.Value)
		if strings.EqualFold(p.Key, "fid") {
			columnpart += ` PRIMARY KEY`
		}
		columnparts = append(columnparts, columnpart)
	}
	columnparts = append(columnparts, `"`+target.table.geometryColumn+`" `+string(target.schema.GeometryType))

	query := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS "%v"(%v);`, target.table.name, strings.Join(columnparts, `, `))
	if _, err := target.handle.Exec(query); err != nil {
		return fmt.Errorf("error building table in target GeoPackage: %w", err)
	}

	err := target.handle.AddGeometryTable(gpkg.TableDescription{
		Name:          target.table.name,
		ShortName:     target.table.name,
		Description:   target.table.name,
		GeometryField: target.table.geometryColumn,
		GeometryType:  geometryType(target.schema.GeometryType),
		SRS:           target.srsID,
		//
		Z: gpkg.Prohibited,
		M: gpkg.Prohibited,
	})
	if err != nil {
		return fmt.Errorf("error adding geometry table in target GeoPackage: %w", err)
	}
	return nil
}

// geometryType returns the gpkg geometry type for a schema geometry type
func geometryType(t vector.GeometryType) gpkg.GeometryType {
	switch t {
	case vector.GeometryTypePoint:
		return gpkg.Point
	case vector.GeometryTypeLineString:
		return gpkg.Linestring
	case vector.GeometryTypePolygon:
		return gpkg.Polygon
	case vector.GeometryTypeMultiPoint:
		return gpkg.MultiPoint
	case vector.GeometryTypeMultiLineString:
		return gpkg.MultiLinestring
	case vector.GeometryTypeMultiPolygon:
		return gpkg.MultiPolygon
	default:
		return gpkg.Geometry
	}
}

func (target *Target) WriteFeature(feature *vector.Feature) error {
	target.page = append(target.page, feature)
	if len(target.page) >= target.pagesize {
		return target.flush()
	}
	return nil
}

func (target *Target) flush() error {
	if len(target.page) == 0 {
		return nil
	}
	features := target.page
	target.page = nil

	tx, err := target.handle.Begin()
	if err != nil {
		return fmt.Errorf("could not start a transaction: %w", err)
	}
	stmt, err := tx.Prepare(target.insertSQL())
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("could not prepare a statement: %w", err)
	}

	for _, feature := range features {
		sb, err := gpkg.NewBinary(target.srsID, feature.Geometry)
		if err != nil {
			stmt.Close()
			tx.Rollback()
			return fmt.Errorf("could not create a binary geometry: %w", err)
		}

		data := make([]interface{}, 0, target.schema.Fields.Len()+1)
		for _, name := range target.schema.FieldNames() {
			data = append(data, feature.Properties[name])
		}
		data = append(data, sb)

		if _, err = stmt.Exec(data...); err != nil {
			stmt.Close()
			tx.Rollback()
			return fmt.Errorf("could not execute the prepared statement: %w", err)
		}

		if target.extent == nil {
			target.extent, err = geom.NewExtentFromGeometry(feature.Geometry)
			if err != nil {
				target.extent = nil
			}
		} else {
			target.extent.AddGeometry(feature.Geometry)
		}
	}
	stmt.Close()
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("could not commit the transaction: %w", err)
	}
	return nil
}

func (target *Target) insertSQL() string {
	var csql, vsql []string
	for _, name := range target.schema.FieldNames() {
		csql = append(csql, `"`+name+`"`)
		vsql = append(vsql, `?`)
	}
	csql = append(csql, `"`+target.table.geometryColumn+`"`)
	vsql = append(vsql, `?`)
	return `INSERT INTO "` + target.table.name + `"(` + strings.Join(csql, `,`) + `) VALUES(` + strings.Join(vsql, `,`) + `)`
}

// Close flushes the remaining page, updates the layer extent and releases
// the GeoPackage.
func (target *Target) Close() error {
	flushErr := target.flush()
	if flushErr == nil && target.extent != nil {
		flushErr = target.handle.UpdateGeometryExtent(target.table.name, target.extent)
	}
	closeErr := target.handle.Close()
	if flushErr != nil {
		return flushErr
	}
	return closeErr
}
