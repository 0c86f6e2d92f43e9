package lifecycle

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
)

// WaitForAvailable polls the cluster until its status is "available".
//
// Polling uses a constant delay (cluster.wait.delay) and gives up after
// cluster.wait.max_attempts checks or cluster.wait.timeout, whichever comes first, returning
// an error that wraps ErrWaitTimeout. Cancelling ctx stops the wait with ctx's error. A
// cluster that disappears or starts deleting while being waited on fails immediately.
func (m *Manager) WaitForAvailable(ctx context.Context, identifier string) (*Cluster, error) {
	wait := m.cfg.Cluster.Wait
	log := m.log.WithField("cluster", identifier)

	waitCtx, cancel := context.WithTimeout(ctx, wait.Timeout)
	defer cancel()

	var (
		cluster  *Cluster
		lastErr  error
		attempts int
	)

	operation := func() error {
		if err := waitCtx.Err(); err != nil {
			return backoff.Permanent(err)
		}

		attempts++
		c, err := m.describe(waitCtx, identifier)
		switch {
		case errors.Is(err, ErrClusterNotFound):
			return backoff.Permanent(err)
		case err != nil:
			lastErr = err
			return err
		case c.Status == clusterDeleting:
			return backoff.Permanent(errors.Errorf("cluster %s is being deleted", identifier))
		case c.Status != clusterAvailable:
			lastErr = errors.Errorf("cluster %s is %s", identifier, c.Status)
			return lastErr
		}

		cluster = c
		return nil
	}

	notify := func(err error, next time.Duration) {
		log.WithError(err).WithField("retry_in", next).Info("Waiting for cluster")
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(wait.Delay), uint64(max(wait.MaxAttempts-1, 0))),
		waitCtx,
	)

	err := backoff.RetryNotify(operation, policy, notify)
	switch {
	case err == nil:
		log.WithField("endpoint", cluster.Address).Info("Cluster available")
		return cluster, nil
	case ctx.Err() != nil:
		return nil, errors.Wrapf(ctx.Err(), "stopped waiting for cluster %s", identifier)
	case waitCtx.Err() != nil:
		return nil, errors.Wrapf(ErrWaitTimeout, "cluster %s after %v", identifier, wait.Timeout)
	case lastErr != nil && errors.Is(err, lastErr):
		return nil, errors.Wrapf(ErrWaitTimeout, "cluster %s after %d attempts (last: %v)", identifier, attempts, lastErr)
	}

	return nil, err
}
