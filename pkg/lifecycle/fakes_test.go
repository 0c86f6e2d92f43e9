package lifecycle_test

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	iamtypes "github.com/aws/aws-sdk-go-v2/service/iam/types"
	"github.com/aws/aws-sdk-go-v2/service/redshift"
	rstypes "github.com/aws/aws-sdk-go-v2/service/redshift/types"
	"github.com/aws/smithy-go"
)

type fakeIAM struct {
	roles    map[string]string
	attached map[string]bool

	getErr    error
	attachErr error
	created   int
}

func newFakeIAM() *fakeIAM {
	return &fakeIAM{roles: map[string]string{}, attached: map[string]bool{}}
}

func (f *fakeIAM) GetRole(_ context.Context, in *iam.GetRoleInput, _ ...func(*iam.Options)) (*iam.GetRoleOutput, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}

	arn, ok := f.roles[aws.ToString(in.RoleName)]
	if !ok {
		return nil, &iamtypes.NoSuchEntityException{Message: aws.String("role not found")}
	}

	return &iam.GetRoleOutput{Role: &iamtypes.Role{Arn: aws.String(arn), RoleName: in.RoleName}}, nil
}

func (f *fakeIAM) CreateRole(_ context.Context, in *iam.CreateRoleInput, _ ...func(*iam.Options)) (*iam.CreateRoleOutput, error) {
	name := aws.ToString(in.RoleName)
	if _, ok := f.roles[name]; ok {
		return nil, &iamtypes.EntityAlreadyExistsException{Message: aws.String("exists")}
	}

	f.created++
	arn := fmt.Sprintf("arn:aws:iam::123456789012:role/%s", name)
	f.roles[name] = arn
	return &iam.CreateRoleOutput{Role: &iamtypes.Role{Arn: aws.String(arn), RoleName: in.RoleName}}, nil
}

func (f *fakeIAM) DeleteRole(_ context.Context, in *iam.DeleteRoleInput, _ ...func(*iam.Options)) (*iam.DeleteRoleOutput, error) {
	name := aws.ToString(in.RoleName)
	if _, ok := f.roles[name]; !ok {
		return nil, &iamtypes.NoSuchEntityException{Message: aws.String("role not found")}
	}

	delete(f.roles, name)
	return &iam.DeleteRoleOutput{}, nil
}

func (f *fakeIAM) AttachRolePolicy(_ context.Context, in *iam.AttachRolePolicyInput, _ ...func(*iam.Options)) (*iam.AttachRolePolicyOutput, error) {
	if f.attachErr != nil {
		return nil, f.attachErr
	}

	f.attached[aws.ToString(in.RoleName)+"|"+aws.ToString(in.PolicyArn)] = true
	return &iam.AttachRolePolicyOutput{}, nil
}

func (f *fakeIAM) DetachRolePolicy(_ context.Context, in *iam.DetachRolePolicyInput, _ ...func(*iam.Options)) (*iam.DetachRolePolicyOutput, error) {
	key := aws.ToString(in.RoleName) + "|" + aws.ToString(in.PolicyArn)
	if !f.attached[key] {
		return nil, &iamtypes.NoSuchEntityException{Message: aws.String("policy not attached")}
	}

	delete(f.attached, key)
	return &iam.DetachRolePolicyOutput{}, nil
}

type fakeRedshift struct {
	// statuses are returned by successive DescribeClusters calls; the last one repeats
	statuses []string
	exists   bool

	createErr   error
	deleteErr   error
	describeErr error

	created   *redshift.CreateClusterInput
	deleted   *redshift.DeleteClusterInput
	describes int
}

func (f *fakeRedshift) CreateCluster(_ context.Context, in *redshift.CreateClusterInput, _ ...func(*redshift.Options)) (*redshift.CreateClusterOutput, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.exists {
		return nil, &rstypes.ClusterAlreadyExistsFault{Message: aws.String("exists")}
	}

	f.created = in
	f.exists = true
	return &redshift.CreateClusterOutput{}, nil
}

func (f *fakeRedshift) DescribeClusters(_ context.Context, in *redshift.DescribeClustersInput, _ ...func(*redshift.Options)) (*redshift.DescribeClustersOutput, error) {
	f.describes++
	if f.describeErr != nil {
		return nil, f.describeErr
	}
	if !f.exists {
		return nil, &rstypes.ClusterNotFoundFault{Message: aws.String("not found")}
	}

	status := "available"
	if len(f.statuses) > 0 {
		status = f.statuses[0]
		if len(f.statuses) > 1 {
			f.statuses = f.statuses[1:]
		}
	}

	return &redshift.DescribeClustersOutput{
		Clusters: []rstypes.Cluster{
			{
				ClusterIdentifier: in.ClusterIdentifier,
				ClusterStatus:     aws.String(status),
				VpcId:             aws.String("vpc-123"),
				Endpoint: &rstypes.Endpoint{
					Address: aws.String("dwhcluster.abc.us-west-2.redshift.amazonaws.com"),
					Port:    aws.Int32(5439),
				},
				IamRoles: []rstypes.ClusterIamRole{
					{IamRoleArn: aws.String("arn:aws:iam::123456789012:role/dwhRole")},
				},
			},
		},
	}, nil
}

func (f *fakeRedshift) DeleteCluster(_ context.Context, in *redshift.DeleteClusterInput, _ ...func(*redshift.Options)) (*redshift.DeleteClusterOutput, error) {
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	if !f.exists {
		return nil, &rstypes.ClusterNotFoundFault{Message: aws.String("not found")}
	}

	f.deleted = in
	f.exists = false
	return &redshift.DeleteClusterOutput{}, nil
}

type fakeEC2 struct {
	rules     map[string]bool
	groups    []ec2types.SecurityGroup
	filters   []ec2types.Filter
	authorize []*ec2.AuthorizeSecurityGroupIngressInput
}

func newFakeEC2() *fakeEC2 {
	return &fakeEC2{
		rules:  map[string]bool{},
		groups: []ec2types.SecurityGroup{{GroupId: aws.String("sg-default"), GroupName: aws.String("default")}},
	}
}

func (f *fakeEC2) DescribeSecurityGroups(_ context.Context, in *ec2.DescribeSecurityGroupsInput, _ ...func(*ec2.Options)) (*ec2.DescribeSecurityGroupsOutput, error) {
	f.filters = in.Filters
	return &ec2.DescribeSecurityGroupsOutput{SecurityGroups: f.groups}, nil
}

func (f *fakeEC2) AuthorizeSecurityGroupIngress(_ context.Context, in *ec2.AuthorizeSecurityGroupIngressInput, _ ...func(*ec2.Options)) (*ec2.AuthorizeSecurityGroupIngressOutput, error) {
	f.authorize = append(f.authorize, in)

	perm := in.IpPermissions[0]
	key := fmt.Sprintf("%s|%d|%s", aws.ToString(in.GroupId), aws.ToInt32(perm.FromPort), aws.ToString(perm.IpRanges[0].CidrIp))
	if f.rules[key] {
		return nil, &smithy.GenericAPIError{Code: "InvalidPermission.Duplicate", Message: "rule exists"}
	}

	f.rules[key] = true
	return &ec2.AuthorizeSecurityGroupIngressOutput{}, nil
}
