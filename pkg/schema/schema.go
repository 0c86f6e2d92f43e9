package schema

import (
	"context"

	"github.com/pseudomuto/dwh/pkg/executor"
	"github.com/pseudomuto/dwh/pkg/queries"
	"github.com/sirupsen/logrus"
)

// Batch names, in execution order.
const (
	BatchDropSchemas   = "drop schemas"
	BatchCreateSchemas = "create schemas"
	BatchDropTables    = "drop tables"
	BatchCreateTables  = "create tables"
)

// Provisioner recreates the staging and mart schemas and their tables.
type Provisioner struct {
	exec *executor.Executor
}

// New creates a Provisioner that executes statements on db.
func New(db executor.Execer, log logrus.FieldLogger) *Provisioner {
	return &Provisioner{exec: executor.New(executor.Config{DB: db, Logger: log})}
}

// Plan returns the provisioning batches without executing them.
func Plan() []executor.Batch {
	return []executor.Batch{
		{Name: BatchDropSchemas, Statements: queries.DropSchemas()},
		{Name: BatchCreateSchemas, Statements: queries.CreateSchemas()},
		{Name: BatchDropTables, Statements: queries.DropTables()},
		{Name: BatchCreateTables, Statements: queries.CreateTables()},
	}
}

// Provision drops and recreates both schemas and all seven tables.
//
// Each statement is committed as soon as it runs and the first failure stops the
// sequence. Every statement is guarded with IF EXISTS or IF NOT EXISTS, so running
// Provision again always converges on the same empty tables.
func (p *Provisioner) Provision(ctx context.Context) ([]*executor.ExecutionResult, error) {
	return p.exec.Execute(ctx, Plan())
}
