// Package executor runs ordered batches of SQL statements against the warehouse.
//
// The executor is shared by the schema provisioner and the load-and-transform pipeline.
// Each statement is executed on its own and committed immediately, and the first failure
// stops everything that follows. Because there is no rollback, the executor reports the
// exact partial state through ExecutionResult values.
//
// # Core Components
//
//   - Executor: Runs batches statement by statement
//   - Batch: A named, ordered group of statements
//   - ExecutionResult: Outcome, timing and applied statements of a batch
//   - WritePlan: Renders batches for dry runs
//
// # Usage Example
//
//	exec := executor.New(executor.Config{DB: conn, Logger: log})
//
//	results, err := exec.Execute(ctx, batches)
//	executor.WriteResults(os.Stdout, results)
//	if err != nil {
//		return err
//	}
package executor
