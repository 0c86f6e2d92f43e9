package lifecycle

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/iam/types"
	"github.com/pkg/errors"
	"github.com/pseudomuto/dwh/pkg/consts"
)

const roleDescription = "Allows Redshift clusters to call AWS services on your behalf."

type (
	policyDocument struct {
		Version   string            `json:"Version"`
		Statement []policyStatement `json:"Statement"`
	}

	policyStatement struct {
		Effect    string            `json:"Effect"`
		Principal map[string]string `json:"Principal"`
		Action    string            `json:"Action"`
	}
)

// TrustPolicy returns the assume-role policy document that lets Redshift assume the role.
func TrustPolicy() (string, error) {
	doc := policyDocument{
		Version: "2012-10-17",
		Statement: []policyStatement{
			{
				Effect:    "Allow",
				Principal: map[string]string{"Service": consts.RedshiftServicePrincipal},
				Action:    "sts:AssumeRole",
			},
		},
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal trust policy")
	}

	return string(data), nil
}

// EnsureRole makes sure the configured role exists with the configured policy attached.
//
// An existing role is reported as StatusSatisfied, a new one as StatusCreated. The policy
// is attached in both cases so that a role left behind by a failed run is repaired. The
// role ARN is returned in Result.ARN.
func (m *Manager) EnsureRole(ctx context.Context) (*Result, error) {
	name := m.cfg.IAM.RoleName
	log := m.log.WithField("role", name)

	result := &Result{Resource: resourceRole, Name: name, Status: StatusSatisfied}

	arn, err := m.getRoleARN(ctx, name)
	switch {
	case err == nil:
		log.Info("Role already exists")
	case errors.Is(err, ErrRoleNotFound):
		arn, err = m.createRole(ctx, name)
		if err != nil {
			return failed(resourceRole, name, err)
		}

		result.Status = StatusCreated
		log.Info("Role created")
	default:
		return failed(resourceRole, name, err)
	}

	result.ARN = arn

	if _, err := m.iam.AttachRolePolicy(ctx, &iam.AttachRolePolicyInput{
		RoleName:  aws.String(name),
		PolicyArn: aws.String(m.cfg.IAM.PolicyARN),
	}); err != nil {
		err = errors.Wrapf(err, "failed to attach policy %s to role %s", m.cfg.IAM.PolicyARN, name)
		result.Status = StatusFailed
		result.Err = err
		return result, err
	}

	log.WithField("policy", m.cfg.IAM.PolicyARN).Debug("Policy attached")
	return result, nil
}

// LookupRole returns the ARN of the configured role, or ErrRoleNotFound.
func (m *Manager) LookupRole(ctx context.Context) (string, error) {
	return m.getRoleARN(ctx, m.cfg.IAM.RoleName)
}

// RemoveRole detaches the configured policy and deletes the role. Either step is reported
// as StatusSatisfied when its target no longer exists.
func (m *Manager) RemoveRole(ctx context.Context) ([]*Result, error) {
	name := m.cfg.IAM.RoleName
	log := m.log.WithField("role", name)
	results := make([]*Result, 0, 2)

	detach := &Result{Resource: resourcePolicy, Name: m.cfg.IAM.PolicyARN, Status: StatusDeleted}
	if _, err := m.iam.DetachRolePolicy(ctx, &iam.DetachRolePolicyInput{
		RoleName:  aws.String(name),
		PolicyArn: aws.String(m.cfg.IAM.PolicyARN),
	}); err != nil {
		if !isNoSuchEntity(err) {
			detach.Status = StatusFailed
			detach.Err = errors.Wrapf(err, "failed to detach policy from role %s", name)
			return append(results, detach), detach.Err
		}

		detach.Status = StatusSatisfied
	}
	results = append(results, detach)
	log.WithField("status", detach.Status).Info("Policy detached")

	remove := &Result{Resource: resourceRole, Name: name, Status: StatusDeleted}
	if _, err := m.iam.DeleteRole(ctx, &iam.DeleteRoleInput{RoleName: aws.String(name)}); err != nil {
		if !isNoSuchEntity(err) {
			remove.Status = StatusFailed
			remove.Err = errors.Wrapf(err, "failed to delete role %s", name)
			return append(results, remove), remove.Err
		}

		remove.Status = StatusSatisfied
	}
	log.WithField("status", remove.Status).Info("Role removed")

	return append(results, remove), nil
}

func (m *Manager) getRoleARN(ctx context.Context, name string) (string, error) {
	out, err := m.iam.GetRole(ctx, &iam.GetRoleInput{RoleName: aws.String(name)})
	if err != nil {
		if isNoSuchEntity(err) {
			return "", errors.Wrapf(ErrRoleNotFound, "role %s", name)
		}

		return "", errors.Wrapf(err, "failed to get role %s", name)
	}

	if out.Role == nil {
		return "", errors.Wrapf(ErrRoleNotFound, "role %s", name)
	}

	return aws.ToString(out.Role.Arn), nil
}

func (m *Manager) createRole(ctx context.Context, name string) (string, error) {
	policy, err := TrustPolicy()
	if err != nil {
		return "", err
	}

	out, err := m.iam.CreateRole(ctx, &iam.CreateRoleInput{
		RoleName:                 aws.String(name),
		AssumeRolePolicyDocument: aws.String(policy),
		Description:              aws.String(roleDescription),
	})
	if err != nil {
		// created concurrently since the lookup
		var exists *types.EntityAlreadyExistsException
		if errors.As(err, &exists) {
			return m.getRoleARN(ctx, name)
		}

		return "", errors.Wrapf(err, "failed to create role %s", name)
	}

	return aws.ToString(out.Role.Arn), nil
}

func isNoSuchEntity(err error) bool {
	var nse *types.NoSuchEntityException
	return errors.As(err, &nse)
}
