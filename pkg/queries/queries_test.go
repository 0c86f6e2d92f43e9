package queries_test

import (
	"strings"
	"testing"

	"github.com/pseudomuto/dwh/pkg/consts"
	"github.com/pseudomuto/dwh/pkg/queries"
	"github.com/stretchr/testify/require"
)

const roleARN = "arn:aws:iam::123456789012:role/dwhRole"

func TestCopyStatement(t *testing.T) {
	t.Run("events with jsonpaths", func(t *testing.T) {
		sql, err := queries.CopyStatement(queries.CopySpec{
			Table:    queries.StagingEventsTable,
			Source:   "s3://udacity-dend/log_data",
			RoleARN:  roleARN,
			JSONPath: "s3://udacity-dend/log_json_path.json",
			Region:   "us-west-2",
		})
		require.NoError(t, err)
		require.Equal(t,
			"COPY staging_schema.events FROM 's3://udacity-dend/log_data' "+
				"CREDENTIALS 'aws_iam_role=arn:aws:iam::123456789012:role/dwhRole' "+
				"json 's3://udacity-dend/log_json_path.json' region 'us-west-2'",
			sql,
		)
	})

	t.Run("defaults", func(t *testing.T) {
		sql, err := queries.CopyStatement(queries.CopySpec{
			Table:   queries.StagingSongsTable,
			Source:  "s3://udacity-dend/song_data",
			RoleARN: roleARN,
		})
		require.NoError(t, err)
		require.Contains(t, sql, "FROM 's3://udacity-dend/song_data'")
		require.Contains(t, sql, "'aws_iam_role="+roleARN+"'")
		require.Contains(t, sql, "json 'auto'")
		require.True(t, strings.HasSuffix(sql, "region '"+consts.DefaultRegion+"'"))
	})

	t.Run("staging loads default the region", func(t *testing.T) {
		stmts, err := queries.CopyStaging(queries.StagingParams{
			LogData:  "s3://udacity-dend/log_data",
			SongData: "s3://udacity-dend/song_data",
			RoleARN:  roleARN,
		})
		require.NoError(t, err)
		require.Len(t, stmts, 2)
		for _, sql := range stmts {
			require.True(t, strings.HasSuffix(sql, "region '"+consts.DefaultRegion+"'"))
		}
	})

	t.Run("quotes are doubled", func(t *testing.T) {
		sql, err := queries.CopyStatement(queries.CopySpec{
			Table:   queries.StagingSongsTable,
			Source:  "s3://bucket/it's",
			RoleARN: roleARN,
			Region:  "eu-west-1",
		})
		require.NoError(t, err)
		require.Contains(t, sql, "FROM 's3://bucket/it''s'")
		require.Contains(t, sql, "region 'eu-west-1'")
	})

	t.Run("missing values", func(t *testing.T) {
		_, err := queries.CopyStatement(queries.CopySpec{Table: queries.StagingSongsTable})
		require.Error(t, err)
		require.Contains(t, err.Error(), "missing: source, role ARN")
	})
}

func TestCopyStaging(t *testing.T) {
	stmts, err := queries.CopyStaging(queries.StagingParams{
		LogData:     "s3://udacity-dend/log_data",
		LogJSONPath: "s3://udacity-dend/log_json_path.json",
		SongData:    "s3://udacity-dend/song_data",
		RoleARN:     roleARN,
		Region:      "us-west-2",
	})
	require.NoError(t, err)
	require.Len(t, stmts, 2)
	require.True(t, strings.HasPrefix(stmts[0], "COPY staging_schema.events"))
	require.True(t, strings.HasPrefix(stmts[1], "COPY staging_schema.songs"))
	require.Contains(t, stmts[1], "json 'auto'")

	_, err = queries.CopyStaging(queries.StagingParams{LogData: "s3://a", SongData: "s3://b"})
	require.Error(t, err)
}

func TestScripts(t *testing.T) {
	tests := []struct {
		name     string
		stmts    []string
		prefixes []string
	}{
		{
			name:  "drop schemas",
			stmts: queries.DropSchemas(),
			prefixes: []string{
				"DROP SCHEMA IF EXISTS bi_schema CASCADE",
				"DROP SCHEMA IF EXISTS staging_schema CASCADE",
			},
		},
		{
			name:  "create schemas",
			stmts: queries.CreateSchemas(),
			prefixes: []string{
				"CREATE SCHEMA IF NOT EXISTS bi_schema",
				"CREATE SCHEMA IF NOT EXISTS staging_schema",
			},
		},
		{
			name:  "drop tables",
			stmts: queries.DropTables(),
			prefixes: []string{
				"DROP TABLE IF EXISTS staging_schema.events",
				"DROP TABLE IF EXISTS staging_schema.songs",
				"DROP TABLE IF EXISTS bi_schema.songplay",
				"DROP TABLE IF EXISTS bi_schema.users",
				"DROP TABLE IF EXISTS bi_schema.songs",
				"DROP TABLE IF EXISTS bi_schema.artists",
				"DROP TABLE IF EXISTS bi_schema.time",
			},
		},
		{
			name:  "create tables",
			stmts: queries.CreateTables(),
			prefixes: []string{
				"CREATE TABLE IF NOT EXISTS staging_schema.events",
				"CREATE TABLE IF NOT EXISTS staging_schema.songs",
				"CREATE TABLE IF NOT EXISTS bi_schema.songplay",
				"CREATE TABLE IF NOT EXISTS bi_schema.users",
				"CREATE TABLE IF NOT EXISTS bi_schema.songs",
				"CREATE TABLE IF NOT EXISTS bi_schema.artists",
				"CREATE TABLE IF NOT EXISTS bi_schema.time",
			},
		},
		{
			name:  "insert tables",
			stmts: queries.InsertTables(),
			prefixes: []string{
				"INSERT INTO bi_schema.users",
				"INSERT INTO bi_schema.songs",
				"INSERT INTO bi_schema.artists",
				"INSERT INTO bi_schema.time",
				"INSERT INTO bi_schema.songplay",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Len(t, tt.stmts, len(tt.prefixes))
			for i, prefix := range tt.prefixes {
				require.True(t, strings.HasPrefix(tt.stmts[i], prefix), "statement %d: %s", i, tt.stmts[i])
				require.NotContains(t, tt.stmts[i], "--")
			}
		})
	}
}

func TestScripts_GuardedDDL(t *testing.T) {
	ddl := append(append(queries.DropSchemas(), queries.DropTables()...), queries.CreateSchemas()...)
	ddl = append(ddl, queries.CreateTables()...)

	for _, sql := range ddl {
		require.True(t,
			strings.Contains(sql, "IF EXISTS") || strings.Contains(sql, "IF NOT EXISTS"),
			"unguarded statement: %s", sql,
		)
	}
}

func TestLoad_Unknown(t *testing.T) {
	_, err := queries.Load("nope.sql")
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown script: nope.sql")
}
