// Package lifecycle manages the AWS resources behind the warehouse: the IAM role Redshift
// assumes to read from S3, the Redshift cluster itself and the ingress rule that opens its
// port.
//
// Every operation is idempotent and reports what it did through Result values:
//
//	mgr := lifecycle.NewFromClients(clients, cfg, log)
//
//	role, err := mgr.EnsureRole(ctx)
//	if err != nil {
//		return err
//	}
//
//	res, err := mgr.StartCluster(ctx, role.ARN)
//	if errors.Is(err, lifecycle.ErrWaitTimeout) {
//		// the cluster is still being created
//	}
//
// Teardown mirrors setup and is safe to run when nothing exists:
//
//	results, err := mgr.StopCluster(ctx)
package lifecycle
