package queries

import (
	"bytes"
	"embed"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/pkg/errors"
	"github.com/pseudomuto/dwh/pkg/consts"
	"github.com/pseudomuto/dwh/pkg/parser"
)

const (
	// StagingEventsTable receives the raw event logs.
	StagingEventsTable = "staging_schema.events"

	// StagingSongsTable receives the raw song metadata.
	StagingSongsTable = "staging_schema.songs"
)

var (
	//go:embed sql/*.sql sql/*.tmpl
	sqlFS embed.FS

	copyTemplate = template.Must(
		template.New("copy.sql.tmpl").
			Funcs(sprig.TxtFuncMap()).
			ParseFS(sqlFS, "sql/copy.sql.tmpl"),
	)
)

type (
	// CopySpec describes a single bulk load from S3 into a staging table.
	CopySpec struct {
		// Table is the fully qualified destination table
		Table string

		// Source is the S3 URI (prefix or object) to load from
		Source string

		// RoleARN is the IAM role the cluster assumes to read Source
		RoleARN string

		// JSONPath is the S3 URI of a JSONPaths mapping file. Empty means 'auto'.
		JSONPath string

		// Region is the region of the source bucket. Defaults to consts.DefaultRegion.
		Region string
	}

	// StagingParams holds the values substituted into the staging loads.
	StagingParams struct {
		LogData     string
		LogJSONPath string
		SongData    string
		RoleARN     string
		Region      string
	}
)

// CopyStatement renders a COPY statement for spec.
//
// Every value is emitted as a single quoted literal with embedded quotes doubled, so the
// source URI, role ARN and JSONPaths location appear verbatim in the statement.
//
// Example:
//
//	sql, err := queries.CopyStatement(queries.CopySpec{
//		Table:   queries.StagingSongsTable,
//		Source:  "s3://udacity-dend/song_data",
//		RoleARN: "arn:aws:iam::123456789012:role/dwhRole",
//	})
//	// COPY staging_schema.songs FROM 's3://udacity-dend/song_data'
//	//   CREDENTIALS 'aws_iam_role=arn:aws:iam::123456789012:role/dwhRole' json 'auto' region 'us-west-2'
func CopyStatement(spec CopySpec) (string, error) {
	var missing []string
	if spec.Table == "" {
		missing = append(missing, "table")
	}
	if spec.Source == "" {
		missing = append(missing, "source")
	}
	if spec.RoleARN == "" {
		missing = append(missing, "role ARN")
	}
	if len(missing) > 0 {
		return "", errors.Errorf("invalid copy spec, missing: %s", strings.Join(missing, ", "))
	}

	if spec.Region == "" {
		spec.Region = consts.DefaultRegion
	}

	var buf bytes.Buffer
	if err := copyTemplate.Execute(&buf, spec); err != nil {
		return "", errors.Wrapf(err, "failed to render copy statement for %s", spec.Table)
	}

	return strings.TrimSpace(buf.String()), nil
}

// CopyStaging returns the load statements for both staging tables, events first.
func CopyStaging(p StagingParams) ([]string, error) {
	specs := []CopySpec{
		{
			Table:    StagingEventsTable,
			Source:   p.LogData,
			RoleARN:  p.RoleARN,
			JSONPath: p.LogJSONPath,
			Region:   p.Region,
		},
		{
			Table:   StagingSongsTable,
			Source:  p.SongData,
			RoleARN: p.RoleARN,
			Region:  p.Region,
		},
	}

	stmts := make([]string, 0, len(specs))
	for _, spec := range specs {
		sql, err := CopyStatement(spec)
		if err != nil {
			return nil, err
		}

		stmts = append(stmts, sql)
	}

	return stmts, nil
}

// DropSchemas returns the statements that drop both schemas and everything in them.
func DropSchemas() []string { return mustLoad("drop_schemas.sql") }

// CreateSchemas returns the statements that create the mart and staging schemas.
func CreateSchemas() []string { return mustLoad("create_schemas.sql") }

// DropTables returns the statements that drop the staging and mart tables.
func DropTables() []string { return mustLoad("drop_tables.sql") }

// CreateTables returns the statements that create the staging and mart tables.
func CreateTables() []string { return mustLoad("create_tables.sql") }

// InsertTables returns the transform statements, dimensions before the songplay fact.
func InsertTables() []string { return mustLoad("insert_tables.sql") }

// Load returns the statements in the embedded script name.
func Load(name string) ([]string, error) {
	data, err := sqlFS.ReadFile("sql/" + name)
	if err != nil {
		return nil, errors.Wrapf(err, "unknown script: %s", name)
	}

	script, err := parser.ParseString(string(data))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse script: %s", name)
	}

	return script.Strings(), nil
}

func mustLoad(name string) []string {
	stmts, err := Load(name)
	if err != nil {
		panic(err)
	}

	return stmts
}
