package executor

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"github.com/pseudomuto/dwh/pkg/parser"
	"github.com/sirupsen/logrus"
)

type (
	// Execer defines the warehouse operation required by the executor. It is satisfied by
	// *pgx.Conn and by the logging decorator in pkg/warehouse.
	Execer interface {
		Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	}

	// Executor runs ordered batches of SQL statements against the warehouse.
	//
	// Statements are sent one at a time without arguments, so each one is committed on its
	// own as soon as it completes. Execution stops at the first failing statement and the
	// remaining statements and batches are never attempted. Nothing is retried or rolled
	// back; the returned results describe exactly what was applied.
	//
	// Example usage:
	//
	//	exec := executor.New(executor.Config{DB: conn, Logger: log})
	//
	//	results, err := exec.Execute(ctx, []executor.Batch{
	//		{Name: "create schemas", Statements: queries.CreateSchemas()},
	//		{Name: "create tables", Statements: queries.CreateTables()},
	//	})
	//
	//	for _, result := range results {
	//		fmt.Printf("%s: %s (%d/%d)\n", result.Batch, result.Status,
	//			result.StatementsApplied, result.TotalStatements)
	//	}
	Executor struct {
		db  Execer
		log logrus.FieldLogger
	}

	// Config contains configuration options for creating a new Executor.
	Config struct {
		// DB is the warehouse connection statements are executed on
		DB Execer

		// Logger receives progress messages. Defaults to the standard logrus logger.
		Logger logrus.FieldLogger
	}

	// Batch is a named, ordered group of statements.
	Batch struct {
		Name       string
		Statements []string
	}

	// ExecutionResult contains the result of executing a single batch.
	ExecutionResult struct {
		// Batch is the name of the batch that was executed
		Batch string

		// Status indicates the outcome of the batch
		Status ExecutionStatus

		// Error contains the error of the failing statement (if any)
		Error error

		// ExecutionTime records how long the batch took to execute
		ExecutionTime time.Duration

		// StatementsApplied indicates how many statements were committed
		StatementsApplied int

		// TotalStatements is the total number of statements in the batch
		TotalStatements int

		// Applied holds a one line summary of every committed statement, in order
		Applied []string
	}

	// ExecutionStatus represents the outcome of a batch execution.
	ExecutionStatus string
)

const (
	// StatusSuccess indicates every statement in the batch was committed
	StatusSuccess ExecutionStatus = "success"

	// StatusFailed indicates a statement in the batch failed
	StatusFailed ExecutionStatus = "failed"
)

// New creates a new executor with the provided configuration.
func New(config Config) *Executor {
	log := config.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &Executor{db: config.DB, log: log}
}

// Execute runs batches in order and returns one result per attempted batch.
//
// When a statement fails, its batch is reported as StatusFailed, no further batches are
// executed, and the returned error wraps the statement's error. The results are returned
// in both cases so callers can report the partial state.
func (e *Executor) Execute(ctx context.Context, batches []Batch) ([]*ExecutionResult, error) {
	results := make([]*ExecutionResult, 0, len(batches))

	for _, batch := range batches {
		result := e.executeBatch(ctx, batch)
		results = append(results, result)

		// Stop execution on first failure
		if result.Status == StatusFailed {
			return results, errors.Wrapf(result.Error, "batch %q failed", batch.Name)
		}
	}

	return results, nil
}

func (e *Executor) executeBatch(ctx context.Context, batch Batch) *ExecutionResult {
	startTime := time.Now()
	log := e.log.WithField("batch", batch.Name)
	log.WithField("statements", len(batch.Statements)).Info("Executing batch")

	result := &ExecutionResult{
		Batch:           batch.Name,
		Status:          StatusSuccess,
		TotalStatements: len(batch.Statements),
		Applied:         make([]string, 0, len(batch.Statements)),
	}

	for i, sql := range batch.Statements {
		summary := parser.Summarize(sql)

		if _, err := e.db.Exec(ctx, sql); err != nil {
			result.Status = StatusFailed
			result.Error = errors.Wrapf(err, "failed to execute statement %d: %s", i+1, summary)
			break
		}

		result.StatementsApplied++
		result.Applied = append(result.Applied, summary)
	}

	result.ExecutionTime = time.Since(startTime)

	entry := log.WithFields(logrus.Fields{
		"applied":  result.StatementsApplied,
		"total":    result.TotalStatements,
		"duration": result.ExecutionTime,
	})
	if result.Error != nil {
		entry.WithError(result.Error).Error("Batch failed")
	} else {
		entry.Info("Batch complete")
	}

	return result
}

// WritePlan writes the statements of every batch to w without executing anything.
func WritePlan(w io.Writer, batches []Batch) error {
	for _, batch := range batches {
		if _, err := fmt.Fprintf(w, "-- %s (%d statements)\n", batch.Name, len(batch.Statements)); err != nil {
			return errors.Wrap(err, "failed to write plan")
		}

		for _, sql := range batch.Statements {
			if _, err := fmt.Fprintf(w, "%s;\n\n", sql); err != nil {
				return errors.Wrap(err, "failed to write plan")
			}
		}
	}

	return nil
}

// WriteResults writes a human readable report of results to w.
func WriteResults(w io.Writer, results []*ExecutionResult) {
	for _, result := range results {
		mark := "✅"
		if result.Status == StatusFailed {
			mark = "❌"
		}

		fmt.Fprintf(w, "%s %s: %d/%d statements applied in %v\n",
			mark,
			result.Batch,
			result.StatementsApplied,
			result.TotalStatements,
			result.ExecutionTime.Round(time.Millisecond),
		)

		if result.Error != nil {
			fmt.Fprintf(w, "   Error: %v\n", result.Error)
		}
	}
}
