package lifecycle

import (
	"fmt"

	"github.com/pkg/errors"
)

// Status is the outcome of a single lifecycle action.
type Status string

const (
	// StatusSatisfied means the resource was already in the requested state
	StatusSatisfied Status = "already-satisfied"

	// StatusCreated means the resource was created or the change was applied
	StatusCreated Status = "created"

	// StatusDeleted means the resource was removed
	StatusDeleted Status = "deleted"

	// StatusFailed means the action failed; Err holds the cause
	StatusFailed Status = "failed"
)

var (
	// ErrWaitTimeout is returned when a cluster does not become available within the
	// configured attempts or timeout.
	ErrWaitTimeout = errors.New("timed out waiting for cluster to become available")

	// ErrClusterNotFound is returned when the configured cluster does not exist.
	ErrClusterNotFound = errors.New("cluster not found")

	// ErrRoleNotFound is returned when the configured role does not exist.
	ErrRoleNotFound = errors.New("role not found")
)

// Result describes what a lifecycle action did to one resource.
type Result struct {
	// Resource is the kind of resource, e.g. "iam-role" or "cluster"
	Resource string

	// Name identifies the resource (role name, cluster identifier, security group id)
	Name string

	Status Status

	// ARN is set for resources that have one, e.g. the role
	ARN string

	// Err is set when Status is StatusFailed
	Err error
}

func (r *Result) String() string {
	s := fmt.Sprintf("%s %s: %s", r.Resource, r.Name, r.Status)
	if r.ARN != "" {
		s += " (" + r.ARN + ")"
	}
	if r.Err != nil {
		s += ": " + r.Err.Error()
	}

	return s
}

func failed(resource, name string, err error) (*Result, error) {
	return &Result{Resource: resource, Name: name, Status: StatusFailed, Err: err}, err
}
