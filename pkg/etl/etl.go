package etl

import (
	"context"

	"github.com/pseudomuto/dwh/pkg/executor"
	"github.com/pseudomuto/dwh/pkg/queries"
	"github.com/sirupsen/logrus"
)

// Stage names, in execution order.
const (
	StageLoad      = "load"
	StageTransform = "transform"
)

// Pipeline loads the raw S3 data into the staging tables and transforms it into the
// star schema.
type Pipeline struct {
	exec *executor.Executor
}

// New creates a Pipeline that executes statements on db.
func New(db executor.Execer, log logrus.FieldLogger) *Pipeline {
	return &Pipeline{exec: executor.New(executor.Config{DB: db, Logger: log})}
}

// Plan returns the load and transform stages for p without executing them.
func Plan(p queries.StagingParams) ([]executor.Batch, error) {
	loads, err := queries.CopyStaging(p)
	if err != nil {
		return nil, err
	}

	return []executor.Batch{
		{Name: StageLoad, Statements: loads},
		{Name: StageTransform, Statements: queries.InsertTables()},
	}, nil
}

// Run executes the load stage and then the transform stage.
//
// Every statement commits on its own. A failed load stops the pipeline before any
// transform runs, so the mart tables are only ever derived from fully loaded staging data.
// The returned results describe the stages that were attempted.
func (pl *Pipeline) Run(ctx context.Context, p queries.StagingParams) ([]*executor.ExecutionResult, error) {
	batches, err := Plan(p)
	if err != nil {
		return nil, err
	}

	return pl.exec.Execute(ctx, batches)
}
