package lifecycle

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/redshift"
	"github.com/aws/aws-sdk-go-v2/service/redshift/types"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	clusterAvailable = "available"
	clusterDeleting  = "deleting"
	multiNode        = "multi-node"
)

type (
	// Cluster is a snapshot of a Redshift cluster description.
	Cluster struct {
		Identifier       string
		Status           string
		Address          string
		Port             int32
		VPCID            string
		SecurityGroupIDs []string
		RoleARNs         []string
	}

	// ClusterResult is the outcome of StartCluster.
	ClusterResult struct {
		// Results holds one entry for the cluster and one for the ingress rule
		Results []*Result

		// Cluster is the description of the available cluster
		Cluster *Cluster
	}
)

// StartCluster creates the configured cluster with roleARN attached, waits for it to become
// available and opens its port.
//
// A cluster that already exists is reported as StatusSatisfied and still waited on. When
// the cluster does not become available in time the returned error wraps ErrWaitTimeout.
func (m *Manager) StartCluster(ctx context.Context, roleARN string) (*ClusterResult, error) {
	id := m.cfg.Cluster.Identifier
	log := m.log.WithField("cluster", id)
	out := &ClusterResult{}

	if roleARN == "" {
		res, err := failed(resourceCluster, id, errors.New("a role ARN is required to create the cluster"))
		out.Results = append(out.Results, res)
		return out, err
	}

	create := &Result{Resource: resourceCluster, Name: id, Status: StatusCreated}
	out.Results = append(out.Results, create)

	if _, err := m.redshift.CreateCluster(ctx, m.createClusterInput(roleARN)); err != nil {
		var exists *types.ClusterAlreadyExistsFault
		if !errors.As(err, &exists) {
			create.Status = StatusFailed
			create.Err = errors.Wrapf(err, "failed to create cluster %s", id)
			return out, create.Err
		}

		create.Status = StatusSatisfied
		log.Info("Cluster already exists")
	} else {
		log.WithFields(logrus.Fields{
			"node_type": m.cfg.Cluster.NodeType,
			"nodes":     m.cfg.Cluster.NumNodes,
		}).Info("Cluster creation started")
	}

	cluster, err := m.WaitForAvailable(ctx, id)
	if err != nil {
		create.Status = StatusFailed
		create.Err = err
		return out, err
	}

	out.Cluster = cluster

	ingress, err := m.AuthorizeIngress(ctx, cluster)
	out.Results = append(out.Results, ingress)
	if err != nil {
		return out, err
	}

	return out, nil
}

// StopCluster deletes the configured cluster without a final snapshot and then removes
// the role. A cluster that is already gone or already being deleted is reported as
// StatusSatisfied.
func (m *Manager) StopCluster(ctx context.Context) ([]*Result, error) {
	id := m.cfg.Cluster.Identifier
	log := m.log.WithField("cluster", id)

	result := &Result{Resource: resourceCluster, Name: id, Status: StatusDeleted}

	_, err := m.redshift.DeleteCluster(ctx, &redshift.DeleteClusterInput{
		ClusterIdentifier:        aws.String(id),
		SkipFinalClusterSnapshot: aws.Bool(true),
	})
	if err != nil {
		satisfied, serr := m.deleteSatisfied(ctx, id, err)
		if !satisfied {
			result.Status = StatusFailed
			result.Err = serr
			return []*Result{result}, serr
		}

		result.Status = StatusSatisfied
	}
	log.WithField("status", result.Status).Info("Cluster deletion requested")

	roles, err := m.RemoveRole(ctx)
	return append([]*Result{result}, roles...), err
}

// DescribeCluster returns the current state of the configured cluster, or
// ErrClusterNotFound.
func (m *Manager) DescribeCluster(ctx context.Context) (*Cluster, error) {
	return m.describe(ctx, m.cfg.Cluster.Identifier)
}

func (m *Manager) deleteSatisfied(ctx context.Context, id string, err error) (bool, error) {
	var notFound *types.ClusterNotFoundFault
	if errors.As(err, &notFound) {
		return true, nil
	}

	var invalid *types.InvalidClusterStateFault
	if errors.As(err, &invalid) {
		cluster, derr := m.describe(ctx, id)
		if errors.Is(derr, ErrClusterNotFound) || (derr == nil && cluster.Status == clusterDeleting) {
			return true, nil
		}
	}

	return false, errors.Wrapf(err, "failed to delete cluster %s", id)
}

func (m *Manager) createClusterInput(roleARN string) *redshift.CreateClusterInput {
	c := m.cfg.Cluster
	db := m.cfg.Database

	input := &redshift.CreateClusterInput{
		ClusterIdentifier:  aws.String(c.Identifier),
		ClusterType:        aws.String(c.Type),
		NodeType:           aws.String(c.NodeType),
		DBName:             aws.String(db.Name),
		MasterUsername:     aws.String(db.User),
		MasterUserPassword: aws.String(db.Password),
		Port:               aws.Int32(int32(db.Port)),
		IamRoles:           []string{roleARN},
	}

	if c.Type == multiNode {
		input.NumberOfNodes = aws.Int32(int32(c.NumNodes))
	}

	return input
}

func (m *Manager) describe(ctx context.Context, id string) (*Cluster, error) {
	out, err := m.redshift.DescribeClusters(ctx, &redshift.DescribeClustersInput{
		ClusterIdentifier: aws.String(id),
	})
	if err != nil {
		var notFound *types.ClusterNotFoundFault
		if errors.As(err, &notFound) {
			return nil, errors.Wrapf(ErrClusterNotFound, "cluster %s", id)
		}

		return nil, errors.Wrapf(err, "failed to describe cluster %s", id)
	}

	if len(out.Clusters) == 0 {
		return nil, errors.Wrapf(ErrClusterNotFound, "cluster %s", id)
	}

	return newCluster(out.Clusters[0]), nil
}

func newCluster(c types.Cluster) *Cluster {
	cluster := &Cluster{
		Identifier: aws.ToString(c.ClusterIdentifier),
		Status:     aws.ToString(c.ClusterStatus),
		VPCID:      aws.ToString(c.VpcId),
	}

	if c.Endpoint != nil {
		cluster.Address = aws.ToString(c.Endpoint.Address)
		cluster.Port = aws.ToInt32(c.Endpoint.Port)
	}

	for _, sg := range c.VpcSecurityGroups {
		cluster.SecurityGroupIDs = append(cluster.SecurityGroupIDs, aws.ToString(sg.VpcSecurityGroupId))
	}

	for _, role := range c.IamRoles {
		cluster.RoleARNs = append(cluster.RoleARNs, aws.ToString(role.IamRoleArn))
	}

	return cluster
}
