package lifecycle

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/pkg/errors"
	"github.com/pseudomuto/dwh/pkg/cloud"
	"github.com/pseudomuto/dwh/pkg/consts"
)

const (
	defaultSecurityGroup   = "default"
	duplicatePermissionErr = "InvalidPermission.Duplicate"
)

// AuthorizeIngress opens the cluster port to TCP traffic from anywhere on the cluster's
// security group. The first group attached to the cluster is used; when none is attached
// the VPC's default group is looked up. An existing rule is reported as StatusSatisfied.
func (m *Manager) AuthorizeIngress(ctx context.Context, cluster *Cluster) (*Result, error) {
	groupID, err := m.securityGroup(ctx, cluster)
	if err != nil {
		return failed(resourceIngress, cluster.Identifier, err)
	}

	port := cluster.Port
	if port == 0 {
		port = int32(m.cfg.Database.Port)
	}

	log := m.log.WithField("security_group", groupID).WithField("port", port)
	result := &Result{Resource: resourceIngress, Name: groupID, Status: StatusCreated}

	_, err = m.ec2.AuthorizeSecurityGroupIngress(ctx, &ec2.AuthorizeSecurityGroupIngressInput{
		GroupId: aws.String(groupID),
		IpPermissions: []types.IpPermission{
			{
				IpProtocol: aws.String("tcp"),
				FromPort:   aws.Int32(port),
				ToPort:     aws.Int32(port),
				IpRanges:   []types.IpRange{{CidrIp: aws.String(consts.IngressCIDR)}},
			},
		},
	})
	if err != nil {
		if !cloud.HasErrorCode(err, duplicatePermissionErr) {
			result.Status = StatusFailed
			result.Err = errors.Wrapf(err, "failed to authorize ingress on %s", groupID)
			return result, result.Err
		}

		result.Status = StatusSatisfied
	}

	log.WithField("status", result.Status).Info("Ingress authorized")
	return result, nil
}

func (m *Manager) securityGroup(ctx context.Context, cluster *Cluster) (string, error) {
	if len(cluster.SecurityGroupIDs) > 0 {
		return cluster.SecurityGroupIDs[0], nil
	}

	if cluster.VPCID == "" {
		return "", errors.Errorf("cluster %s has no security group or VPC", cluster.Identifier)
	}

	out, err := m.ec2.DescribeSecurityGroups(ctx, &ec2.DescribeSecurityGroupsInput{
		Filters: []types.Filter{
			{Name: aws.String("vpc-id"), Values: []string{cluster.VPCID}},
			{Name: aws.String("group-name"), Values: []string{defaultSecurityGroup}},
		},
	})
	if err != nil {
		return "", errors.Wrapf(err, "failed to describe security groups of %s", cluster.VPCID)
	}

	if len(out.SecurityGroups) == 0 {
		return "", errors.Errorf("no default security group in %s", cluster.VPCID)
	}

	return aws.ToString(out.SecurityGroups[0].GroupId), nil
}
